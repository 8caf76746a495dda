package guide_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"athena/internal/config"
	"athena/internal/guide"
	"athena/internal/llm"
)

func newGuide(key string, responses ...llm.MockResponse) (*guide.Engine, *llm.MockClient) {
	cfg := config.Default()
	mock := llm.NewMockClient(responses...)
	gw := guide.NewGateway(key, cfg.Model.Name, cfg.Model.MaxTokens)
	gw.NewClient = func(string) llm.Client { return mock }
	return guide.New(cfg, gw), mock
}

func TestStartSessionWithoutCredentialUsesFallback(t *testing.T) {
	g, mock := newGuide("")
	res := g.StartSession(context.Background(), "t1", "Write quarterly report", "", "")

	if res.Question != "What does the finished version of this task look like to you?" {
		t.Fatalf("unexpected opening question: %q", res.Question)
	}
	if res.CanGeneratePlan {
		t.Fatalf("plan should not be offered at start")
	}
	if res.Phase != guide.PhaseQuestioning {
		t.Fatalf("phase = %s, want questioning", res.Phase)
	}
	if len(mock.Calls()) != 0 {
		t.Fatalf("no model call expected without a credential")
	}

	sess, err := g.Transcript(res.SessionID)
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if len(sess.Messages) != 1 || sess.Messages[0].Role != llm.RoleAssistant {
		t.Fatalf("opening question should be the sole transcript entry, got %+v", sess.Messages)
	}
	if !strings.HasPrefix(sess.ID, "t1-") {
		t.Fatalf("session id %q should embed the task id", sess.ID)
	}
}

func TestStartSessionUsesModelWhenAvailable(t *testing.T) {
	g, mock := newGuide("key-1", llm.MockResponse{Content: "What outcome matters most to you here?"})
	res := g.StartSession(context.Background(), "t1", "Ship the release", "", "")

	if res.Question != "What outcome matters most to you here?" {
		t.Fatalf("question = %q", res.Question)
	}
	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected one model call, got %d", len(calls))
	}
	if calls[0].System == "" {
		t.Fatalf("model call should carry the system prompt")
	}
	if !strings.Contains(calls[0].Messages[0].Content, "Ship the release") {
		t.Fatalf("start prompt should mention the task title, got %q", calls[0].Messages[0].Content)
	}
}

func TestContinueOffersPlanAfterThreshold(t *testing.T) {
	g, _ := newGuide("")
	ctx := context.Background()
	res := g.StartSession(ctx, "t1", "Clean the garage", "", "")

	turn, err := g.Continue(ctx, res.SessionID, "I think the boxes are the problem")
	if err != nil {
		t.Fatalf("continue: %v", err)
	}
	if turn.CanGeneratePlan {
		t.Fatalf("two messages should not unlock the plan yet")
	}
	if turn.Plan != nil {
		t.Fatalf("no plan expected on a normal turn")
	}

	turn, err = g.Continue(ctx, res.SessionID, "Probably sorting them by keep or toss")
	if err != nil {
		t.Fatalf("continue: %v", err)
	}
	if !turn.CanGeneratePlan {
		t.Fatalf("plan should be unlocked once the transcript is long enough")
	}

	sess, _ := g.Transcript(res.SessionID)
	if len(sess.Messages) != 5 {
		t.Fatalf("transcript length = %d, want 5", len(sess.Messages))
	}
}

func TestQuarterlyReportScenario(t *testing.T) {
	g, _ := newGuide("")
	ctx := context.Background()

	res := g.StartSession(ctx, "t1", "Write quarterly report", "", "")
	if res.SessionID == "" || res.Question == "" {
		t.Fatalf("start must yield a session and a question: %+v", res)
	}
	if !strings.Contains(res.Question, "finished version") {
		t.Fatalf("write-titled task should get the goal question, got %q", res.Question)
	}

	wantUnlocked := []bool{false, true, true}
	answers := []string{
		"mostly the data gathering",
		"last quarter's numbers are scattered",
		"I could start with the sales sheet",
	}
	for i, msg := range answers {
		turn, err := g.Continue(ctx, res.SessionID, msg)
		if err != nil {
			t.Fatalf("continue %d: %v", i+1, err)
		}
		if turn.CanGeneratePlan != wantUnlocked[i] {
			t.Fatalf("turn %d: can_generate_plan = %v, want %v", i+1, turn.CanGeneratePlan, wantUnlocked[i])
		}

		sess, _ := g.Transcript(res.SessionID)
		last := sess.Messages[len(sess.Messages)-1]
		prev := sess.Messages[len(sess.Messages)-2]
		if prev.Role != llm.RoleUser || prev.Content != msg {
			t.Fatalf("turn %d: last-but-one should be the user turn, got %+v", i+1, prev)
		}
		if last.Role != llm.RoleAssistant {
			t.Fatalf("turn %d: last should be the assistant turn, got %+v", i+1, last)
		}
	}

	turn, err := g.Continue(ctx, res.SessionID, "can you summarize this into a plan")
	if err != nil {
		t.Fatalf("plan turn: %v", err)
	}
	if turn.Plan == nil || len(turn.Plan.Tasks) == 0 {
		t.Fatalf("plan turn should yield tasks")
	}
	for _, task := range turn.Plan.Tasks {
		if strings.TrimSpace(task.Title) == "" {
			t.Fatalf("fallback plan tasks must have titles")
		}
	}
	if turn.Plan.Summary == "" {
		t.Fatalf("plan summary must not be empty")
	}
}

func TestContinueUnknownSession(t *testing.T) {
	g, _ := newGuide("")
	_, err := g.Continue(context.Background(), "nope", "hello")
	if !errors.Is(err, guide.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestContinueFallbackQuestionsAdvance(t *testing.T) {
	g, _ := newGuide("")
	ctx := context.Background()
	res := g.StartSession(ctx, "t1", "Sort photos", "", "")

	first, err := g.Continue(ctx, res.SessionID, "not sure where to begin")
	if err != nil {
		t.Fatalf("continue: %v", err)
	}
	second, err := g.Continue(ctx, res.SessionID, "maybe the oldest album")
	if err != nil {
		t.Fatalf("continue: %v", err)
	}
	if first.Question == second.Question {
		t.Fatalf("consecutive fallback questions should differ, both were %q", first.Question)
	}
}

func TestPlanKeywordShortCircuits(t *testing.T) {
	g, _ := newGuide("")
	ctx := context.Background()
	res := g.StartSession(ctx, "t1", "Organize the move", "", "")

	turn, err := g.Continue(ctx, res.SessionID, "Can you give me a PLAN now?")
	if err != nil {
		t.Fatalf("continue: %v", err)
	}
	if turn.Plan == nil {
		t.Fatalf("plan keyword should produce a plan")
	}
	if turn.Phase != guide.PhasePlanning {
		t.Fatalf("phase = %s, want planning", turn.Phase)
	}
	if turn.Question != "" {
		t.Fatalf("plan turn should not also ask a question, got %q", turn.Question)
	}
	if len(turn.Plan.Tasks) != 3 {
		t.Fatalf("fallback plan should hold 3 tasks, got %d", len(turn.Plan.Tasks))
	}

	// The plan stays out of the transcript; only the user turn was added.
	sess, _ := g.Transcript(res.SessionID)
	if len(sess.Messages) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(sess.Messages))
	}
	if sess.Phase != guide.PhasePlanning {
		t.Fatalf("stored phase = %s, want planning", sess.Phase)
	}
}

func TestGeneratePlanDecodesModelOutput(t *testing.T) {
	fenced := "```json\n{\"tasks\":[{\"title\":\"Book movers\",\"priority\":\"high\",\"estimatedTime\":\"20 minutes\"}],\"summary\":\"Start with logistics.\"}\n```"
	g, mock := newGuide("key-1",
		llm.MockResponse{Content: "What is the hardest part?"},
		llm.MockResponse{Content: "Which room has the most stuff?"},
		llm.MockResponse{Content: fenced},
	)
	ctx := context.Background()
	res := g.StartSession(ctx, "t1", "Organize the move", "", "")
	if _, err := g.Continue(ctx, res.SessionID, "packing everything in time"); err != nil {
		t.Fatalf("continue: %v", err)
	}

	turn, err := g.GeneratePlan(ctx, res.SessionID)
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}
	if len(turn.Plan.Tasks) != 1 || turn.Plan.Tasks[0].Title != "Book movers" {
		t.Fatalf("unexpected plan: %+v", turn.Plan)
	}
	if turn.Plan.Summary != "Start with logistics." {
		t.Fatalf("summary = %q", turn.Plan.Summary)
	}

	// Only the user's side of the transcript feeds the plan prompt.
	calls := mock.Calls()
	planCall := calls[len(calls)-1]
	if !strings.Contains(planCall.Messages[0].Content, "packing everything in time") {
		t.Fatalf("plan prompt should carry user insights")
	}
	if strings.Contains(planCall.Messages[0].Content, "Which room has the most stuff?") {
		t.Fatalf("plan prompt should not carry assistant questions")
	}
}

func TestGeneratePlanFallsBackOnBadModelOutput(t *testing.T) {
	g, _ := newGuide("key-1",
		llm.MockResponse{Content: "What is the hardest part?"},
		llm.MockResponse{Content: "this is not json at all"},
	)
	ctx := context.Background()
	res := g.StartSession(ctx, "t1", "Organize the move", "", "")

	turn, err := g.GeneratePlan(ctx, res.SessionID)
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}
	if len(turn.Plan.Tasks) != 3 {
		t.Fatalf("fallback plan expected, got %d tasks", len(turn.Plan.Tasks))
	}
	if !strings.Contains(turn.Plan.Tasks[0].Description, "Organize the move") {
		t.Fatalf("fallback plan should reference the task title: %q", turn.Plan.Tasks[0].Description)
	}
}

func TestGeneratePlanUnknownSession(t *testing.T) {
	g, _ := newGuide("")
	_, err := g.GeneratePlan(context.Background(), "nope")
	if !errors.Is(err, guide.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestEndSessionIsIdempotent(t *testing.T) {
	g, _ := newGuide("")
	res := g.StartSession(context.Background(), "t1", "Anything", "", "")
	g.EndSession(res.SessionID)
	g.EndSession(res.SessionID)
	if _, err := g.Transcript(res.SessionID); !errors.Is(err, guide.ErrSessionNotFound) {
		t.Fatalf("session should be gone, err = %v", err)
	}
}

func TestSessionCredentialOverride(t *testing.T) {
	cfg := config.Default()
	var usedKeys []string
	mock := llm.NewMockClient(llm.MockResponse{Content: "A question?"})
	gw := guide.NewGateway("default-key", cfg.Model.Name, cfg.Model.MaxTokens)
	gw.NewClient = func(apiKey string) llm.Client {
		usedKeys = append(usedKeys, apiKey)
		return mock
	}
	g := guide.New(cfg, gw)

	ctx := context.Background()
	g.StartSession(ctx, "t1", "Anything", "", "session-key")
	g.StartSession(ctx, "t2", "Anything", "", "")

	if len(usedKeys) != 2 || usedKeys[0] != "session-key" || usedKeys[1] != "default-key" {
		t.Fatalf("credential priority wrong: %v", usedKeys)
	}
}
