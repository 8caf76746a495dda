package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"athena/internal/config"
	"athena/internal/domain"
	"athena/internal/events"
	"athena/internal/repo"
)

type Engine struct {
	DB     *sql.DB
	Repo   repo.Repo
	Events events.Writer
	Config *config.Config
	Now    func() time.Time
}

func New(db *sql.DB, cfg *config.Config) Engine {
	return Engine{
		DB:     db,
		Repo:   repo.Repo{DB: db},
		Events: events.Writer{DB: db},
		Config: cfg,
		Now:    time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func validPriority(p string) bool {
	switch p {
	case "low", "medium", "high":
		return true
	}
	return false
}

func validStatus(s string) bool {
	switch s {
	case "todo", "in_progress", "done":
		return true
	}
	return false
}

// TaskCreateOptions are parameters for creating a task.
type TaskCreateOptions struct {
	ID          string
	Title       string
	Description string
	Priority    string
	DueDate     string
	ParentID    string
}

func (e Engine) CreateTask(ctx context.Context, opts TaskCreateOptions) (domain.Task, error) {
	if strings.TrimSpace(opts.Title) == "" {
		return domain.Task{}, errors.New("title is required")
	}
	if opts.Priority == "" {
		opts.Priority = "medium"
	}
	if !validPriority(opts.Priority) {
		return domain.Task{}, fmt.Errorf("invalid priority %q", opts.Priority)
	}
	if opts.ParentID != "" {
		if _, err := e.Repo.GetTask(ctx, opts.ParentID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return domain.Task{}, fmt.Errorf("parent task %s: %w", opts.ParentID, repo.ErrNotFound)
			}
			return domain.Task{}, err
		}
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := e.now().UTC().Format(time.RFC3339)
	t := domain.Task{
		ID:          id,
		Title:       strings.TrimSpace(opts.Title),
		Description: opts.Description,
		Status:      "todo",
		Priority:    opts.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if opts.DueDate != "" {
		t.DueDate = &opts.DueDate
	}
	if opts.ParentID != "" {
		t.ParentID = &opts.ParentID
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Task{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertTask(ctx, tx, t); err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}
	if err := e.Events.Append(ctx, tx, "task.create", "task", t.ID, events.EventPayload{"title": t.Title, "priority": t.Priority}); err != nil {
		return domain.Task{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// TaskUpdateOptions carries partial task updates; nil fields are left untouched.
type TaskUpdateOptions struct {
	ID          string
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *string
	ParentID    *string
}

func (e Engine) UpdateTask(ctx context.Context, opts TaskUpdateOptions) (domain.Task, error) {
	t, err := e.Repo.GetTask(ctx, opts.ID)
	if err != nil {
		return domain.Task{}, err
	}
	if opts.Title != nil {
		if strings.TrimSpace(*opts.Title) == "" {
			return domain.Task{}, errors.New("title must not be empty")
		}
		t.Title = strings.TrimSpace(*opts.Title)
	}
	if opts.Description != nil {
		t.Description = *opts.Description
	}
	if opts.Status != nil {
		if !validStatus(*opts.Status) {
			return domain.Task{}, fmt.Errorf("invalid status %q", *opts.Status)
		}
		t.Status = *opts.Status
	}
	if opts.Priority != nil {
		if !validPriority(*opts.Priority) {
			return domain.Task{}, fmt.Errorf("invalid priority %q", *opts.Priority)
		}
		t.Priority = *opts.Priority
	}
	if opts.DueDate != nil {
		if *opts.DueDate == "" {
			t.DueDate = nil
		} else {
			t.DueDate = opts.DueDate
		}
	}
	if opts.ParentID != nil {
		if *opts.ParentID == "" {
			t.ParentID = nil
		} else {
			if *opts.ParentID == t.ID {
				return domain.Task{}, errors.New("task cannot be its own parent")
			}
			if err := e.ensureNoCycle(ctx, *opts.ParentID, t.ID); err != nil {
				return domain.Task{}, err
			}
			t.ParentID = opts.ParentID
		}
	}
	t.UpdatedAt = e.now().UTC().Format(time.RFC3339)

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Task{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.UpdateTask(ctx, tx, t); err != nil {
		return domain.Task{}, err
	}
	if err := e.Events.Append(ctx, tx, "task.update", "task", t.ID, events.EventPayload{"status": t.Status}); err != nil {
		return domain.Task{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// ensureNoCycle walks the parent chain from candidate upwards and rejects a
// chain that passes through taskID.
func (e Engine) ensureNoCycle(ctx context.Context, candidate, taskID string) error {
	cur := candidate
	for cur != "" {
		if cur == taskID {
			return errors.New("parent assignment would create a cycle")
		}
		p, err := e.Repo.GetTask(ctx, cur)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return fmt.Errorf("parent task %s: %w", cur, repo.ErrNotFound)
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

func (e Engine) DeleteTask(ctx context.Context, id string) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.DeleteTask(ctx, tx, id); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, "task.delete", "task", id, nil); err != nil {
		return err
	}
	return tx.Commit()
}

func (e Engine) GetTask(ctx context.Context, id string) (domain.Task, error) {
	return e.Repo.GetTask(ctx, id)
}

func (e Engine) ListTasks(ctx context.Context, f repo.TaskFilters) ([]domain.Task, error) {
	return e.Repo.ListTasks(ctx, f)
}

// SubtaskInput is one proposed subtask handed over from a guide plan.
type SubtaskInput struct {
	Title       string
	Description string
	Priority    string
}

// CreateSubtasks persists proposed subtasks under a parent task. Entries with
// blank titles are dropped here; the guide engine returns them unfiltered so a
// client can surface empty drafts for editing first.
func (e Engine) CreateSubtasks(ctx context.Context, parentID string, subtasks []SubtaskInput) ([]domain.Task, error) {
	if parentID != "" {
		if _, err := e.Repo.GetTask(ctx, parentID); err != nil {
			return nil, err
		}
	}
	var created []domain.Task
	for _, st := range subtasks {
		if strings.TrimSpace(st.Title) == "" {
			continue
		}
		priority := st.Priority
		if !validPriority(priority) {
			priority = "medium"
		}
		t, err := e.CreateTask(ctx, TaskCreateOptions{
			Title:       st.Title,
			Description: st.Description,
			Priority:    priority,
			ParentID:    parentID,
		})
		if err != nil {
			return created, err
		}
		created = append(created, t)
	}
	return created, nil
}

// Notes

type NoteCreateOptions struct {
	Title   string
	Content string
}

func (e Engine) CreateNote(ctx context.Context, opts NoteCreateOptions) (domain.Note, error) {
	if strings.TrimSpace(opts.Title) == "" {
		return domain.Note{}, errors.New("title is required")
	}
	now := e.now().UTC().Format(time.RFC3339)
	n := domain.Note{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(opts.Title),
		Content:   opts.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Note{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertNote(ctx, tx, n); err != nil {
		return domain.Note{}, fmt.Errorf("insert note: %w", err)
	}
	if err := e.Events.Append(ctx, tx, "note.create", "note", n.ID, events.EventPayload{"title": n.Title}); err != nil {
		return domain.Note{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Note{}, err
	}
	return n, nil
}

func (e Engine) UpdateNote(ctx context.Context, id string, title, content *string) (domain.Note, error) {
	n, err := e.Repo.GetNote(ctx, id)
	if err != nil {
		return domain.Note{}, err
	}
	if title != nil {
		if strings.TrimSpace(*title) == "" {
			return domain.Note{}, errors.New("title must not be empty")
		}
		n.Title = strings.TrimSpace(*title)
	}
	if content != nil {
		n.Content = *content
	}
	n.UpdatedAt = e.now().UTC().Format(time.RFC3339)
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Note{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.UpdateNote(ctx, tx, n); err != nil {
		return domain.Note{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Note{}, err
	}
	return n, nil
}

func (e Engine) DeleteNote(ctx context.Context, id string) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.DeleteNote(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (e Engine) LinkTaskNote(ctx context.Context, taskID, noteID string) error {
	if _, err := e.Repo.GetTask(ctx, taskID); err != nil {
		return err
	}
	if _, err := e.Repo.GetNote(ctx, noteID); err != nil {
		return err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.LinkTaskNote(ctx, tx, taskID, noteID); err != nil {
		return err
	}
	return tx.Commit()
}

func (e Engine) UnlinkTaskNote(ctx context.Context, taskID, noteID string) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.UnlinkTaskNote(ctx, tx, taskID, noteID); err != nil {
		return err
	}
	return tx.Commit()
}

// Habits

type HabitCreateOptions struct {
	Name          string
	Description   string
	TargetPerWeek int
}

func (e Engine) CreateHabit(ctx context.Context, opts HabitCreateOptions) (domain.Habit, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return domain.Habit{}, errors.New("name is required")
	}
	if opts.TargetPerWeek <= 0 || opts.TargetPerWeek > 7 {
		opts.TargetPerWeek = 7
	}
	h := domain.Habit{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(opts.Name),
		Description:   opts.Description,
		TargetPerWeek: opts.TargetPerWeek,
		CreatedAt:     e.now().UTC().Format(time.RFC3339),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Habit{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertHabit(ctx, tx, h); err != nil {
		return domain.Habit{}, fmt.Errorf("insert habit: %w", err)
	}
	if err := e.Events.Append(ctx, tx, "habit.create", "habit", h.ID, events.EventPayload{"name": h.Name}); err != nil {
		return domain.Habit{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Habit{}, err
	}
	return h, nil
}

// HabitUpdateOptions carries partial habit updates; nil fields are left untouched.
type HabitUpdateOptions struct {
	ID            string
	Name          *string
	Description   *string
	TargetPerWeek *int
}

func (e Engine) UpdateHabit(ctx context.Context, opts HabitUpdateOptions) (domain.Habit, error) {
	h, err := e.Repo.GetHabit(ctx, opts.ID)
	if err != nil {
		return domain.Habit{}, err
	}
	if opts.Name != nil {
		if strings.TrimSpace(*opts.Name) == "" {
			return domain.Habit{}, errors.New("name must not be empty")
		}
		h.Name = strings.TrimSpace(*opts.Name)
	}
	if opts.Description != nil {
		h.Description = *opts.Description
	}
	if opts.TargetPerWeek != nil {
		t := *opts.TargetPerWeek
		if t <= 0 || t > 7 {
			t = 7
		}
		h.TargetPerWeek = t
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Habit{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.UpdateHabit(ctx, tx, h); err != nil {
		return domain.Habit{}, err
	}
	if err := e.Events.Append(ctx, tx, "habit.update", "habit", h.ID, events.EventPayload{"name": h.Name}); err != nil {
		return domain.Habit{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Habit{}, err
	}
	return h, nil
}

// HabitCompletions lists recorded completions for a habit, newest day first.
func (e Engine) HabitCompletions(ctx context.Context, id string) ([]domain.HabitCompletion, error) {
	if _, err := e.Repo.GetHabit(ctx, id); err != nil {
		return nil, err
	}
	return e.Repo.ListHabitCompletions(ctx, id)
}

// CompleteHabit records a completion for today. Marking the same day twice is
// a no-op.
func (e Engine) CompleteHabit(ctx context.Context, id string) (domain.HabitCompletion, error) {
	if _, err := e.Repo.GetHabit(ctx, id); err != nil {
		return domain.HabitCompletion{}, err
	}
	now := e.now().UTC()
	c := domain.HabitCompletion{
		HabitID: id,
		Day:     now.Format("2006-01-02"),
		TS:      now.Format(time.RFC3339),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.HabitCompletion{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertHabitCompletion(ctx, tx, c); err != nil {
		return domain.HabitCompletion{}, err
	}
	if err := e.Events.Append(ctx, tx, "habit.complete", "habit", id, events.EventPayload{"day": c.Day}); err != nil {
		return domain.HabitCompletion{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.HabitCompletion{}, err
	}
	return c, nil
}

func (e Engine) DeleteHabit(ctx context.Context, id string) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.DeleteHabit(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

// HabitStreak counts consecutive completed days ending today or yesterday.
func (e Engine) HabitStreak(ctx context.Context, id string) (int, error) {
	completions, err := e.Repo.ListHabitCompletions(ctx, id)
	if err != nil {
		return 0, err
	}
	done := make(map[string]bool, len(completions))
	for _, c := range completions {
		done[c.Day] = true
	}
	day := e.now().UTC()
	// A streak is still alive if yesterday was completed but today is not yet.
	if !done[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for done[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}
