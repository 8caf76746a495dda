package guide

import (
	"context"
	"strings"

	"athena/internal/config"
	"athena/internal/llm"
	"athena/internal/observability"
)

// Engine drives the session state machine. Every model failure is absorbed
// into the fallback policy; the only error a caller ever sees is
// ErrSessionNotFound.
type Engine struct {
	store   *Store
	gateway *Gateway
	cfg     *config.Config
}

func New(cfg *config.Config, gw *Gateway) *Engine {
	return &Engine{
		store:   NewStore(),
		gateway: gw,
		cfg:     cfg,
	}
}

// Store exposes the session store, mainly for the reaper and tests.
func (g *Engine) Store() *Store { return g.store }

// StartResult is the outcome of StartSession.
type StartResult struct {
	SessionID       string
	Question        string
	Phase           Phase
	CanGeneratePlan bool
}

// TurnResult is the outcome of a continue or plan turn. Exactly one of
// Question or Plan is meaningful: a plan turn leaves Question empty.
type TurnResult struct {
	Question        string
	CanGeneratePlan bool
	Plan            *GeneratedPlan
	Phase           Phase
}

// StartSession opens a session and returns the opening question. It never
// fails: with no reachable model the fallback opening question is used.
func (g *Engine) StartSession(ctx context.Context, taskID, taskTitle, taskDescription, apiKey string) StartResult {
	id := g.store.Create(taskID, taskTitle, taskDescription, apiKey)
	log := observability.LoggerFromContext(ctx).With("session_id", id, "task_id", taskID)

	question, err := g.gateway.Complete(ctx, apiKey, systemPrompt, []llm.Message{
		{Role: llm.RoleUser, Content: startPrompt(taskTitle, taskDescription)},
	})
	if err != nil {
		log.Warn("model unavailable for opening question, using fallback", "error", err)
		question = FallbackOpening(taskTitle)
	}

	_ = g.store.Append(id, llm.RoleAssistant, question)
	log.Info("session started")
	return StartResult{
		SessionID:       id,
		Question:        question,
		Phase:           PhaseQuestioning,
		CanGeneratePlan: false,
	}
}

// Continue appends the user turn and either asks the next question or, when
// the message contains plan-request language, produces the plan directly.
func (g *Engine) Continue(ctx context.Context, sessionID, userMessage string) (TurnResult, error) {
	sess, err := g.store.Get(sessionID)
	if err != nil {
		return TurnResult{}, err
	}
	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	// The user turn joins the transcript before anything else so it survives
	// whatever happens next.
	if err := g.store.Append(sessionID, llm.RoleUser, userMessage); err != nil {
		return TurnResult{}, err
	}
	messageCount := len(sess.Messages) + 1
	canGeneratePlan := messageCount >= g.cfg.Guide.PlanThreshold

	if g.wantsPlan(userMessage) {
		log.Info("plan requested in user turn")
		return g.GeneratePlan(ctx, sessionID)
	}

	history := transcriptMessages(sess.Messages)
	history = append(history, llm.Message{Role: llm.RoleUser, Content: userMessage})
	history = append(history, llm.Message{Role: llm.RoleUser, Content: continuePrompt(userMessage)})

	question, err := g.gateway.Complete(ctx, sess.APIKey, systemPrompt, history)
	if err != nil {
		log.Warn("model unavailable for follow-up, using fallback", "error", err)
		question = FallbackFollowUp(messageCount)
	}

	if err := g.store.Append(sessionID, llm.RoleAssistant, question); err != nil {
		return TurnResult{}, err
	}
	return TurnResult{
		Question:        question,
		CanGeneratePlan: canGeneratePlan,
		Phase:           PhaseQuestioning,
	}, nil
}

// GeneratePlan moves the session into the planning phase and produces a plan
// from the user's side of the transcript. It always yields a usable plan: a
// failed or unparsable model response degrades to the fallback plan. The plan
// is returned out of band and never appended to the transcript.
func (g *Engine) GeneratePlan(ctx context.Context, sessionID string) (TurnResult, error) {
	sess, err := g.store.Get(sessionID)
	if err != nil {
		return TurnResult{}, err
	}
	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	if err := g.store.SetPhase(sessionID, PhasePlanning); err != nil {
		return TurnResult{}, err
	}

	var insights []string
	for _, m := range sess.Messages {
		if m.Role == llm.RoleUser {
			insights = append(insights, m.Content)
		}
	}

	plan := FallbackPlan(sess.TaskTitle)
	raw, err := g.gateway.Complete(ctx, sess.APIKey, systemPrompt, []llm.Message{
		{Role: llm.RoleUser, Content: planPrompt(sess.TaskTitle, insights)},
	})
	if err != nil {
		log.Warn("model unavailable for plan, using fallback", "error", err)
	} else if decoded, decodeErr := DecodePlan(raw); decodeErr != nil {
		log.Warn("model plan did not parse, using fallback", "error", decodeErr)
	} else {
		plan = decoded
	}

	log.Info("plan generated", "tasks", len(plan.Tasks))
	return TurnResult{
		Plan:            &plan,
		CanGeneratePlan: true,
		Phase:           PhasePlanning,
	}, nil
}

// EndSession removes the session. Idempotent.
func (g *Engine) EndSession(sessionID string) {
	g.store.Delete(sessionID)
}

// Transcript returns the full session for history rendering or diagnostics.
func (g *Engine) Transcript(sessionID string) (Session, error) {
	return g.store.Get(sessionID)
}

// Sweep purges sessions idle longer than the configured window.
func (g *Engine) Sweep() int {
	return g.store.Sweep(g.cfg.IdleWindow())
}

func (g *Engine) wantsPlan(userMessage string) bool {
	msg := strings.ToLower(userMessage)
	for _, kw := range g.cfg.Guide.PlanKeywords {
		if strings.Contains(msg, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func transcriptMessages(msgs []Message) []llm.Message {
	out := make([]llm.Message, 0, len(msgs)+2)
	for _, m := range msgs {
		out = append(out, llm.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
