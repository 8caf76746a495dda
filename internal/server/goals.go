package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"athena/internal/domain"
	"athena/internal/engine"
	"athena/internal/repo"
)

func registerGoals(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-goal",
		Method:        http.MethodPost,
		Path:          "/goals",
		Summary:       "Create goal",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Body CreateGoalRequest `json:"body"`
	}) (*struct {
		Body domain.Goal `json:"body"`
	}, error) {
		g, err := e.CreateGoal(ctx, engine.GoalCreateOptions{
			Title:       input.Body.Title,
			Description: stringOrEmpty(input.Body.Description),
			Type:        stringOrEmpty(input.Body.Type),
			Priority:    stringOrEmpty(input.Body.Priority),
			TargetDate:  stringOrEmpty(input.Body.TargetDate),
			ParentID:    stringOrEmpty(input.Body.ParentID),
			Metrics:     input.Body.Metrics,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Goal `json:"body"`
		}{Body: g}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-goals",
		Method:      http.MethodGet,
		Path:        "/goals",
		Summary:     "List goals",
	}, func(ctx context.Context, input *struct {
		Type   string `query:"type"`
		Status string `query:"status"`
	}) (*struct {
		Body []domain.Goal `json:"body"`
	}, error) {
		goals, err := e.ListGoals(ctx, repo.GoalFilters{Type: input.Type, Status: input.Status})
		if err != nil {
			return nil, handleError(err)
		}
		if goals == nil {
			goals = []domain.Goal{}
		}
		return &struct {
			Body []domain.Goal `json:"body"`
		}{Body: goals}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-goal",
		Method:      http.MethodGet,
		Path:        "/goals/{goal_id}",
		Summary:     "Get goal with linked tasks and sub-goals",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		GoalID string `path:"goal_id"`
	}) (*struct {
		Body GoalDetailResponse `json:"body"`
	}, error) {
		ov, err := e.GoalOverview(ctx, input.GoalID)
		if err != nil {
			return nil, handleError(err)
		}
		if ov.Tasks == nil {
			ov.Tasks = []domain.Task{}
		}
		if ov.SubGoals == nil {
			ov.SubGoals = []domain.Goal{}
		}
		return &struct {
			Body GoalDetailResponse `json:"body"`
		}{Body: GoalDetailResponse{Goal: ov.Goal, LinkedTasks: ov.Tasks, SubGoals: ov.SubGoals}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-goal",
		Method:      http.MethodPatch,
		Path:        "/goals/{goal_id}",
		Summary:     "Update goal",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		GoalID string            `path:"goal_id"`
		Body   UpdateGoalRequest `json:"body"`
	}) (*struct {
		Body domain.Goal `json:"body"`
	}, error) {
		g, err := e.UpdateGoal(ctx, engine.GoalUpdateOptions{
			ID:          input.GoalID,
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Type:        input.Body.Type,
			Status:      input.Body.Status,
			Priority:    input.Body.Priority,
			TargetDate:  input.Body.TargetDate,
			ParentID:    input.Body.ParentID,
			Progress:    input.Body.Progress,
			Metrics:     input.Body.Metrics,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Goal `json:"body"`
		}{Body: g}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-goal",
		Method:        http.MethodDelete,
		Path:          "/goals/{goal_id}",
		Summary:       "Delete goal and its linked tasks",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		GoalID string `path:"goal_id"`
	}) (*struct{}, error) {
		if err := e.DeleteGoal(ctx, input.GoalID); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "link-goal-task",
		Method:        http.MethodPut,
		Path:          "/goals/{goal_id}/tasks/{task_id}",
		Summary:       "Link task to goal",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		GoalID string `path:"goal_id"`
		TaskID string `path:"task_id"`
	}) (*struct{}, error) {
		if err := e.LinkGoalTask(ctx, input.GoalID, input.TaskID); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "unlink-goal-task",
		Method:        http.MethodDelete,
		Path:          "/goals/{goal_id}/tasks/{task_id}",
		Summary:       "Unlink task from goal",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		GoalID string `path:"goal_id"`
		TaskID string `path:"task_id"`
	}) (*struct{}, error) {
		if err := e.UnlinkGoalTask(ctx, input.GoalID, input.TaskID); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})
}
