package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"athena/internal/domain"
	"athena/internal/events"
	"athena/internal/repo"
)

func validGoalType(t string) bool {
	switch t {
	case "vision", "long-term", "short-term", "sprint":
		return true
	}
	return false
}

func validGoalStatus(s string) bool {
	switch s {
	case "active", "achieved", "on-hold", "archived":
		return true
	}
	return false
}

// GoalCreateOptions are parameters for creating a goal.
type GoalCreateOptions struct {
	Title       string
	Description string
	Type        string
	Priority    string
	TargetDate  string
	ParentID    string
	Metrics     []string
}

func (e Engine) CreateGoal(ctx context.Context, opts GoalCreateOptions) (domain.Goal, error) {
	if strings.TrimSpace(opts.Title) == "" {
		return domain.Goal{}, errors.New("title is required")
	}
	if opts.Type == "" {
		opts.Type = "short-term"
	}
	if !validGoalType(opts.Type) {
		return domain.Goal{}, fmt.Errorf("invalid goal type %q", opts.Type)
	}
	if opts.Priority == "" {
		opts.Priority = "medium"
	}
	if !validPriority(opts.Priority) {
		return domain.Goal{}, fmt.Errorf("invalid priority %q", opts.Priority)
	}
	if opts.ParentID != "" {
		if _, err := e.Repo.GetGoal(ctx, opts.ParentID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return domain.Goal{}, fmt.Errorf("parent goal %s: %w", opts.ParentID, repo.ErrNotFound)
			}
			return domain.Goal{}, err
		}
	}
	now := e.now().UTC().Format(time.RFC3339)
	g := domain.Goal{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(opts.Title),
		Description: opts.Description,
		Type:        opts.Type,
		Status:      "active",
		Priority:    opts.Priority,
		Metrics:     opts.Metrics,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if opts.TargetDate != "" {
		g.TargetDate = &opts.TargetDate
	}
	if opts.ParentID != "" {
		g.ParentID = &opts.ParentID
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Goal{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertGoal(ctx, tx, g); err != nil {
		return domain.Goal{}, fmt.Errorf("insert goal: %w", err)
	}
	if err := e.Events.Append(ctx, tx, "goal.create", "goal", g.ID, events.EventPayload{"title": g.Title, "type": g.Type}); err != nil {
		return domain.Goal{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Goal{}, err
	}
	return g, nil
}

// GoalUpdateOptions carries partial goal updates; nil fields are left untouched.
type GoalUpdateOptions struct {
	ID          string
	Title       *string
	Description *string
	Type        *string
	Status      *string
	Priority    *string
	TargetDate  *string
	ParentID    *string
	Progress    *int
	Metrics     *[]string
}

func (e Engine) UpdateGoal(ctx context.Context, opts GoalUpdateOptions) (domain.Goal, error) {
	g, err := e.Repo.GetGoal(ctx, opts.ID)
	if err != nil {
		return domain.Goal{}, err
	}
	if opts.Title != nil {
		if strings.TrimSpace(*opts.Title) == "" {
			return domain.Goal{}, errors.New("title must not be empty")
		}
		g.Title = strings.TrimSpace(*opts.Title)
	}
	if opts.Description != nil {
		g.Description = *opts.Description
	}
	if opts.Type != nil {
		if !validGoalType(*opts.Type) {
			return domain.Goal{}, fmt.Errorf("invalid goal type %q", *opts.Type)
		}
		g.Type = *opts.Type
	}
	if opts.Status != nil {
		if !validGoalStatus(*opts.Status) {
			return domain.Goal{}, fmt.Errorf("invalid goal status %q", *opts.Status)
		}
		g.Status = *opts.Status
	}
	if opts.Priority != nil {
		if !validPriority(*opts.Priority) {
			return domain.Goal{}, fmt.Errorf("invalid priority %q", *opts.Priority)
		}
		g.Priority = *opts.Priority
	}
	if opts.TargetDate != nil {
		if *opts.TargetDate == "" {
			g.TargetDate = nil
		} else {
			g.TargetDate = opts.TargetDate
		}
	}
	if opts.ParentID != nil {
		if *opts.ParentID == "" {
			g.ParentID = nil
		} else {
			if *opts.ParentID == g.ID {
				return domain.Goal{}, errors.New("goal cannot be its own parent")
			}
			if err := e.ensureNoGoalCycle(ctx, *opts.ParentID, g.ID); err != nil {
				return domain.Goal{}, err
			}
			g.ParentID = opts.ParentID
		}
	}
	if opts.Progress != nil {
		p := *opts.Progress
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		g.Progress = p
	}
	if opts.Metrics != nil {
		g.Metrics = *opts.Metrics
	}
	g.UpdatedAt = e.now().UTC().Format(time.RFC3339)

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Goal{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.UpdateGoal(ctx, tx, g); err != nil {
		return domain.Goal{}, err
	}
	if err := e.Events.Append(ctx, tx, "goal.update", "goal", g.ID, events.EventPayload{"status": g.Status, "progress": g.Progress}); err != nil {
		return domain.Goal{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Goal{}, err
	}
	return g, nil
}

func (e Engine) ensureNoGoalCycle(ctx context.Context, candidate, goalID string) error {
	cur := candidate
	for cur != "" {
		if cur == goalID {
			return errors.New("parent assignment would create a cycle")
		}
		p, err := e.Repo.GetGoal(ctx, cur)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return fmt.Errorf("parent goal %s: %w", cur, repo.ErrNotFound)
			}
			return err
		}
		if p.ParentID == nil {
			return nil
		}
		cur = *p.ParentID
	}
	return nil
}

// DeleteGoal removes the goal, its sub-goal tree, and every task linked to any
// goal in that tree.
func (e Engine) DeleteGoal(ctx context.Context, id string) error {
	if _, err := e.Repo.GetGoal(ctx, id); err != nil {
		return err
	}
	ids := []string{id}
	for i := 0; i < len(ids); i++ {
		subs, err := e.Repo.ListGoals(ctx, repo.GoalFilters{ParentID: ids[i]})
		if err != nil {
			return err
		}
		for _, s := range subs {
			ids = append(ids, s.ID)
		}
	}
	var taskIDs []string
	for _, gid := range ids {
		linked, err := e.Repo.ListGoalTasks(ctx, gid)
		if err != nil {
			return err
		}
		for _, t := range linked {
			taskIDs = append(taskIDs, t.ID)
		}
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, tid := range taskIDs {
		if err := e.Repo.DeleteTask(ctx, tx, tid); err != nil && !errors.Is(err, repo.ErrNotFound) {
			return err
		}
	}
	if err := e.Repo.DeleteGoal(ctx, tx, id); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, "goal.delete", "goal", id, nil); err != nil {
		return err
	}
	return tx.Commit()
}

func (e Engine) GetGoal(ctx context.Context, id string) (domain.Goal, error) {
	return e.Repo.GetGoal(ctx, id)
}

func (e Engine) ListGoals(ctx context.Context, f repo.GoalFilters) ([]domain.Goal, error) {
	return e.Repo.ListGoals(ctx, f)
}

// GoalOverview is a goal together with its linked tasks and direct sub-goals.
type GoalOverview struct {
	Goal     domain.Goal
	Tasks    []domain.Task
	SubGoals []domain.Goal
}

func (e Engine) GoalOverview(ctx context.Context, id string) (GoalOverview, error) {
	g, err := e.Repo.GetGoal(ctx, id)
	if err != nil {
		return GoalOverview{}, err
	}
	tasks, err := e.Repo.ListGoalTasks(ctx, id)
	if err != nil {
		return GoalOverview{}, err
	}
	subs, err := e.Repo.ListGoals(ctx, repo.GoalFilters{ParentID: id})
	if err != nil {
		return GoalOverview{}, err
	}
	return GoalOverview{Goal: g, Tasks: tasks, SubGoals: subs}, nil
}

// LinkGoalTask attaches a task to a goal. Linking twice is a no-op.
func (e Engine) LinkGoalTask(ctx context.Context, goalID, taskID string) error {
	if _, err := e.Repo.GetGoal(ctx, goalID); err != nil {
		return err
	}
	if _, err := e.Repo.GetTask(ctx, taskID); err != nil {
		return err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.LinkGoalTask(ctx, tx, goalID, taskID); err != nil {
		return err
	}
	return tx.Commit()
}

func (e Engine) UnlinkGoalTask(ctx context.Context, goalID, taskID string) error {
	if _, err := e.Repo.GetGoal(ctx, goalID); err != nil {
		return err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.UnlinkGoalTask(ctx, tx, goalID, taskID); err != nil {
		return err
	}
	return tx.Commit()
}
