package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"athena/internal/domain"
	"athena/internal/engine"
	"athena/internal/guide"
	"athena/internal/observability"
	"athena/internal/repo"
)

// Config for the HTTP API handler.
type Config struct {
	Engine   engine.Engine
	Guide    *guide.Engine
	BasePath string
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"session_not_found"`
	Message string         `json:"message" example:"session not found"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the Athena API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v1"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	// Override Huma errors to use the envelope shape.
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	router.Use(requestIDMiddleware)
	hcfg := huma.DefaultConfig("Athena API", "1.0.0")
	hcfg.OpenAPIPath = "/openapi"
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerHealth(group)
	registerTasks(group, cfg.Engine)
	registerNotes(group, cfg.Engine)
	registerGoals(group, cfg.Engine)
	registerHabits(group, cfg.Engine)
	registerDashboard(group, cfg.Engine)
	registerEvents(group, cfg.Engine)
	registerGuide(group, cfg.Engine, cfg.Guide)

	return router, nil
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		next.ServeHTTP(w, r.WithContext(observability.WithRequestID(r.Context(), reqID)))
	})
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	if errors.Is(err, guide.ErrSessionNotFound) {
		return newAPIError(http.StatusNotFound, "session_not_found", err.Error(), nil)
	}
	if errors.Is(err, repo.ErrNotFound) {
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	}
	msg := err.Error()
	lowered := strings.ToLower(msg)
	switch {
	case strings.Contains(lowered, "invalid") || strings.Contains(lowered, "required") ||
		strings.Contains(lowered, "must not") || strings.Contains(lowered, "cycle"):
		return newAPIError(http.StatusBadRequest, "bad_request", msg, nil)
	default:
		return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": msg})
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerTasks(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-task",
		Method:        http.MethodPost,
		Path:          "/tasks",
		Summary:       "Create task",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Body CreateTaskRequest `json:"body"`
	}) (*struct {
		Body TaskResponse `json:"body"`
	}, error) {
		if input.Body.Title == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "title is required", nil)
		}
		opts := engine.TaskCreateOptions{
			Title:       input.Body.Title,
			Description: stringOrEmpty(input.Body.Description),
			Priority:    stringOrEmpty(input.Body.Priority),
			DueDate:     stringOrEmpty(input.Body.DueDate),
			ParentID:    stringOrEmpty(input.Body.ParentID),
		}
		t, err := e.CreateTask(ctx, opts)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TaskResponse `json:"body"`
		}{Body: taskResponse(t, engine.EnergyLevel(t))}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks",
	}, func(ctx context.Context, input *struct {
		Status   string `query:"status"`
		Priority string `query:"priority"`
		ParentID string `query:"parent_id"`
	}) (*struct {
		Body []TaskResponse `json:"body"`
	}, error) {
		tasks, err := e.ListTasks(ctx, repo.TaskFilters{
			Status:   input.Status,
			Priority: input.Priority,
			ParentID: input.ParentID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		out := make([]TaskResponse, 0, len(tasks))
		for _, t := range tasks {
			out = append(out, taskResponse(t, engine.EnergyLevel(t)))
		}
		return &struct {
			Body []TaskResponse `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{task_id}",
		Summary:     "Get task",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		TaskID string `path:"task_id"`
	}) (*struct {
		Body TaskResponse `json:"body"`
	}, error) {
		t, err := e.GetTask(ctx, input.TaskID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TaskResponse `json:"body"`
		}{Body: taskResponse(t, engine.EnergyLevel(t))}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPatch,
		Path:        "/tasks/{task_id}",
		Summary:     "Update task",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		TaskID string            `path:"task_id"`
		Body   UpdateTaskRequest `json:"body"`
	}) (*struct {
		Body TaskResponse `json:"body"`
	}, error) {
		t, err := e.UpdateTask(ctx, engine.TaskUpdateOptions{
			ID:          input.TaskID,
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Status:      input.Body.Status,
			Priority:    input.Body.Priority,
			DueDate:     input.Body.DueDate,
			ParentID:    input.Body.ParentID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TaskResponse `json:"body"`
		}{Body: taskResponse(t, engine.EnergyLevel(t))}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-task",
		Method:        http.MethodDelete,
		Path:          "/tasks/{task_id}",
		Summary:       "Delete task and its subtasks",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		TaskID string `path:"task_id"`
	}) (*struct{}, error) {
		if err := e.DeleteTask(ctx, input.TaskID); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-task-notes",
		Method:      http.MethodGet,
		Path:        "/tasks/{task_id}/notes",
		Summary:     "List notes linked to a task",
	}, func(ctx context.Context, input *struct {
		TaskID string `path:"task_id"`
	}) (*struct {
		Body []domain.Note `json:"body"`
	}, error) {
		notes, err := e.Repo.ListTaskNotes(ctx, input.TaskID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Note `json:"body"`
		}{Body: notes}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "link-task-note",
		Method:        http.MethodPut,
		Path:          "/tasks/{task_id}/notes/{note_id}",
		Summary:       "Link a note to a task",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		TaskID string `path:"task_id"`
		NoteID string `path:"note_id"`
	}) (*struct{}, error) {
		if err := e.LinkTaskNote(ctx, input.TaskID, input.NoteID); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "unlink-task-note",
		Method:        http.MethodDelete,
		Path:          "/tasks/{task_id}/notes/{note_id}",
		Summary:       "Unlink a note from a task",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *struct {
		TaskID string `path:"task_id"`
		NoteID string `path:"note_id"`
	}) (*struct{}, error) {
		if err := e.UnlinkTaskNote(ctx, input.TaskID, input.NoteID); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})
}

func registerNotes(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-note",
		Method:        http.MethodPost,
		Path:          "/notes",
		Summary:       "Create note",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body CreateNoteRequest `json:"body"`
	}) (*struct {
		Body domain.Note `json:"body"`
	}, error) {
		n, err := e.CreateNote(ctx, engine.NoteCreateOptions{
			Title:   input.Body.Title,
			Content: stringOrEmpty(input.Body.Content),
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Note `json:"body"`
		}{Body: n}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-notes",
		Method:      http.MethodGet,
		Path:        "/notes",
		Summary:     "List notes",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.Note `json:"body"`
	}, error) {
		notes, err := e.Repo.ListNotes(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Note `json:"body"`
		}{Body: notes}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-note",
		Method:      http.MethodGet,
		Path:        "/notes/{note_id}",
		Summary:     "Get note",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		NoteID string `path:"note_id"`
	}) (*struct {
		Body domain.Note `json:"body"`
	}, error) {
		n, err := e.Repo.GetNote(ctx, input.NoteID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Note `json:"body"`
		}{Body: n}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-note",
		Method:      http.MethodPatch,
		Path:        "/notes/{note_id}",
		Summary:     "Update note",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		NoteID string            `path:"note_id"`
		Body   UpdateNoteRequest `json:"body"`
	}) (*struct {
		Body domain.Note `json:"body"`
	}, error) {
		n, err := e.UpdateNote(ctx, input.NoteID, input.Body.Title, input.Body.Content)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Note `json:"body"`
		}{Body: n}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-note",
		Method:        http.MethodDelete,
		Path:          "/notes/{note_id}",
		Summary:       "Delete note",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		NoteID string `path:"note_id"`
	}) (*struct{}, error) {
		if err := e.DeleteNote(ctx, input.NoteID); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})
}

func registerHabits(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-habit",
		Method:        http.MethodPost,
		Path:          "/habits",
		Summary:       "Create habit",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body CreateHabitRequest `json:"body"`
	}) (*struct {
		Body domain.Habit `json:"body"`
	}, error) {
		opts := engine.HabitCreateOptions{
			Name:        input.Body.Name,
			Description: stringOrEmpty(input.Body.Description),
		}
		if input.Body.TargetPerWeek != nil {
			opts.TargetPerWeek = *input.Body.TargetPerWeek
		}
		h, err := e.CreateHabit(ctx, opts)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Habit `json:"body"`
		}{Body: h}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-habits",
		Method:      http.MethodGet,
		Path:        "/habits",
		Summary:     "List habits with current streaks",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []HabitResponse `json:"body"`
	}, error) {
		habits, err := e.Repo.ListHabits(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		out := make([]HabitResponse, 0, len(habits))
		for _, h := range habits {
			streak, err := e.HabitStreak(ctx, h.ID)
			if err != nil {
				return nil, handleError(err)
			}
			out = append(out, HabitResponse{Habit: h, Streak: streak})
		}
		return &struct {
			Body []HabitResponse `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "complete-habit",
		Method:      http.MethodPost,
		Path:        "/habits/{habit_id}/complete",
		Summary:     "Mark habit complete for today",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		HabitID string `path:"habit_id"`
	}) (*struct {
		Body domain.HabitCompletion `json:"body"`
	}, error) {
		c, err := e.CompleteHabit(ctx, input.HabitID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.HabitCompletion `json:"body"`
		}{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-habit",
		Method:      http.MethodPatch,
		Path:        "/habits/{habit_id}",
		Summary:     "Update habit",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		HabitID string             `path:"habit_id"`
		Body    UpdateHabitRequest `json:"body"`
	}) (*struct {
		Body domain.Habit `json:"body"`
	}, error) {
		h, err := e.UpdateHabit(ctx, engine.HabitUpdateOptions{
			ID:            input.HabitID,
			Name:          input.Body.Name,
			Description:   input.Body.Description,
			TargetPerWeek: input.Body.TargetPerWeek,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Habit `json:"body"`
		}{Body: h}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-habit-completions",
		Method:      http.MethodGet,
		Path:        "/habits/{habit_id}/completions",
		Summary:     "List habit completions, newest first",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		HabitID string `path:"habit_id"`
	}) (*struct {
		Body []domain.HabitCompletion `json:"body"`
	}, error) {
		completions, err := e.HabitCompletions(ctx, input.HabitID)
		if err != nil {
			return nil, handleError(err)
		}
		if completions == nil {
			completions = []domain.HabitCompletion{}
		}
		return &struct {
			Body []domain.HabitCompletion `json:"body"`
		}{Body: completions}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-habit",
		Method:        http.MethodDelete,
		Path:          "/habits/{habit_id}",
		Summary:       "Delete habit",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		HabitID string `path:"habit_id"`
	}) (*struct{}, error) {
		if err := e.DeleteHabit(ctx, input.HabitID); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})
}

func registerDashboard(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "attention-tasks",
		Method:      http.MethodGet,
		Path:        "/dashboard/attention",
		Summary:     "Open tasks ordered by attention score",
	}, func(ctx context.Context, input *struct {
		Limit int `query:"limit" default:"5"`
	}) (*struct {
		Body []TaskResponse `json:"body"`
	}, error) {
		tasks, err := e.AttentionTasks(ctx, input.Limit)
		if err != nil {
			return nil, handleError(err)
		}
		out := make([]TaskResponse, 0, len(tasks))
		for _, t := range tasks {
			out = append(out, taskResponse(t, engine.EnergyLevel(t)))
		}
		return &struct {
			Body []TaskResponse `json:"body"`
		}{Body: out}, nil
	})
}

func registerEvents(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "List recent events",
	}, func(ctx context.Context, input *struct {
		Limit int `query:"limit" default:"50"`
	}) (*struct {
		Body []domain.Event `json:"body"`
	}, error) {
		evts, err := e.Repo.ListEvents(ctx, input.Limit)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Event `json:"body"`
		}{Body: evts}, nil
	})
}

func registerGuide(api huma.API, e engine.Engine, g *guide.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "guide-start",
		Method:      http.MethodPost,
		Path:        "/guide/start",
		Summary:     "Start a Socratic session for a task",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Body StartGuideRequest `json:"body"`
	}) (*struct {
		Body GuideStartResponse `json:"body"`
	}, error) {
		if input.Body.TaskID == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "task_id is required", nil)
		}
		t, err := e.GetTask(ctx, input.Body.TaskID)
		if err != nil {
			return nil, handleError(err)
		}
		res := g.StartSession(ctx, t.ID, t.Title, t.Description, stringOrEmpty(input.Body.APIKey))
		return &struct {
			Body GuideStartResponse `json:"body"`
		}{Body: GuideStartResponse{
			SessionID:       res.SessionID,
			Message:         res.Question,
			Phase:           res.Phase,
			CanGeneratePlan: res.CanGeneratePlan,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "guide-continue",
		Method:      http.MethodPost,
		Path:        "/guide/continue",
		Summary:     "Send a user turn to a session",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Body ContinueGuideRequest `json:"body"`
	}) (*struct {
		Body GuideTurnResponse `json:"body"`
	}, error) {
		if input.Body.SessionID == "" || input.Body.Message == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "session_id and message are required", nil)
		}
		res, err := g.Continue(ctx, input.Body.SessionID, input.Body.Message)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body GuideTurnResponse `json:"body"`
		}{Body: GuideTurnResponse{
			SessionID:       input.Body.SessionID,
			Message:         res.Question,
			Phase:           res.Phase,
			CanGeneratePlan: res.CanGeneratePlan,
			Plan:            res.Plan,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "guide-plan",
		Method:      http.MethodPost,
		Path:        "/guide/plan",
		Summary:     "Generate an action plan from a session",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Body GeneratePlanRequest `json:"body"`
	}) (*struct {
		Body GuideTurnResponse `json:"body"`
	}, error) {
		if input.Body.SessionID == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "session_id is required", nil)
		}
		res, err := g.GeneratePlan(ctx, input.Body.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body GuideTurnResponse `json:"body"`
		}{Body: GuideTurnResponse{
			SessionID:       input.Body.SessionID,
			Phase:           res.Phase,
			CanGeneratePlan: res.CanGeneratePlan,
			Plan:            res.Plan,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "guide-create-tasks",
		Method:        http.MethodPost,
		Path:          "/guide/tasks",
		Summary:       "Persist plan tasks as subtasks and end the session",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Body CreatePlanTasksRequest `json:"body"`
	}) (*struct {
		Body CreatePlanTasksResponse `json:"body"`
	}, error) {
		if input.Body.SessionID == "" || len(input.Body.Tasks) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "session_id and tasks are required", nil)
		}
		parentID := stringOrEmpty(input.Body.ParentTaskID)
		subtasks := make([]engine.SubtaskInput, 0, len(input.Body.Tasks))
		for _, t := range input.Body.Tasks {
			subtasks = append(subtasks, engine.SubtaskInput{
				Title:       t.Title,
				Description: t.Description,
				Priority:    t.Priority,
			})
		}
		created, err := e.CreateSubtasks(ctx, parentID, subtasks)
		if err != nil {
			return nil, handleError(err)
		}
		g.EndSession(input.Body.SessionID)
		return &struct {
			Body CreatePlanTasksResponse `json:"body"`
		}{Body: CreatePlanTasksResponse{CreatedTasks: created, SessionEnded: true}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "guide-session",
		Method:      http.MethodGet,
		Path:        "/guide/sessions/{session_id}",
		Summary:     "Get session transcript",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		SessionID string `path:"session_id"`
	}) (*struct {
		Body GuideSessionResponse `json:"body"`
	}, error) {
		sess, err := g.Transcript(input.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body GuideSessionResponse `json:"body"`
		}{Body: GuideSessionResponse{
			SessionID:       sess.ID,
			TaskID:          sess.TaskID,
			TaskTitle:       sess.TaskTitle,
			TaskDescription: sess.TaskDescription,
			Phase:           sess.Phase,
			Messages:        sess.Messages,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "guide-end",
		Method:        http.MethodPost,
		Path:          "/guide/end",
		Summary:       "End a session",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *struct {
		Body EndGuideRequest `json:"body"`
	}) (*struct{}, error) {
		g.EndSession(input.Body.SessionID)
		return nil, nil
	})
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
