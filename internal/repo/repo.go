package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"athena/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

// Tasks

func scanTask(row *sql.Row) (domain.Task, error) {
	var t domain.Task
	var desc, due, parent sql.NullString
	err := row.Scan(&t.ID, &t.Title, &desc, &t.Status, &t.Priority, &due, &parent, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	if err != nil {
		return t, err
	}
	if desc.Valid {
		t.Description = desc.String
	}
	if due.Valid {
		t.DueDate = &due.String
	}
	if parent.Valid {
		t.ParentID = &parent.String
	}
	return t, nil
}

func (r Repo) InsertTask(ctx context.Context, tx *sql.Tx, t domain.Task) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO tasks(id,title,description,status,priority,due_date,parent_id,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?,?)`,
		t.ID, t.Title, nullable(t.Description), t.Status, t.Priority, nullablePtr(t.DueDate), nullablePtr(t.ParentID), t.CreatedAt, t.UpdatedAt)
	return err
}

func (r Repo) GetTask(ctx context.Context, id string) (domain.Task, error) {
	return scanTask(r.DB.QueryRowContext(ctx,
		`SELECT id,title,description,status,priority,due_date,parent_id,created_at,updated_at FROM tasks WHERE id=?`, id))
}

// TaskFilters narrows ListTasks.
type TaskFilters struct {
	Status   string
	Priority string
	ParentID string
}

func (r Repo) ListTasks(ctx context.Context, f TaskFilters) ([]domain.Task, error) {
	q := `SELECT id,title,description,status,priority,due_date,parent_id,created_at,updated_at FROM tasks`
	var conds []string
	var args []any
	if f.Status != "" {
		conds = append(conds, "status=?")
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		conds = append(conds, "priority=?")
		args = append(args, f.Priority)
	}
	if f.ParentID != "" {
		conds = append(conds, "parent_id=?")
		args = append(args, f.ParentID)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at ASC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Task
	for rows.Next() {
		var t domain.Task
		var desc, due, parent sql.NullString
		if err := rows.Scan(&t.ID, &t.Title, &desc, &t.Status, &t.Priority, &due, &parent, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			t.Description = desc.String
		}
		if due.Valid {
			t.DueDate = &due.String
		}
		if parent.Valid {
			t.ParentID = &parent.String
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r Repo) UpdateTask(ctx context.Context, tx *sql.Tx, t domain.Task) error {
	res, err := tx.ExecContext(ctx, `UPDATE tasks SET title=?,description=?,status=?,priority=?,due_date=?,parent_id=?,updated_at=? WHERE id=?`,
		t.Title, nullable(t.Description), t.Status, t.Priority, nullablePtr(t.DueDate), nullablePtr(t.ParentID), t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteTask(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Notes

func scanNote(row *sql.Row) (domain.Note, error) {
	var n domain.Note
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return n, ErrNotFound
	}
	return n, err
}

func (r Repo) InsertNote(ctx context.Context, tx *sql.Tx, n domain.Note) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO notes(id,title,content,created_at,updated_at) VALUES (?,?,?,?,?)`,
		n.ID, n.Title, n.Content, n.CreatedAt, n.UpdatedAt)
	return err
}

func (r Repo) GetNote(ctx context.Context, id string) (domain.Note, error) {
	return scanNote(r.DB.QueryRowContext(ctx, `SELECT id,title,content,created_at,updated_at FROM notes WHERE id=?`, id))
}

func (r Repo) ListNotes(ctx context.Context) ([]domain.Note, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,title,content,created_at,updated_at FROM notes ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Note
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, rows.Err()
}

func (r Repo) UpdateNote(ctx context.Context, tx *sql.Tx, n domain.Note) error {
	res, err := tx.ExecContext(ctx, `UPDATE notes SET title=?,content=?,updated_at=? WHERE id=?`,
		n.Title, n.Content, n.UpdatedAt, n.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteNote(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE id=?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) LinkTaskNote(ctx context.Context, tx *sql.Tx, taskID, noteID string) error {
	_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO task_note_links(task_id,note_id) VALUES (?,?)`, taskID, noteID)
	return err
}

func (r Repo) UnlinkTaskNote(ctx context.Context, tx *sql.Tx, taskID, noteID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM task_note_links WHERE task_id=? AND note_id=?`, taskID, noteID)
	return err
}

func (r Repo) ListTaskNotes(ctx context.Context, taskID string) ([]domain.Note, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT n.id,n.title,n.content,n.created_at,n.updated_at
		FROM notes n JOIN task_note_links l ON l.note_id=n.id WHERE l.task_id=? ORDER BY n.updated_at DESC`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Note
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, rows.Err()
}

// Habits

func (r Repo) InsertHabit(ctx context.Context, tx *sql.Tx, h domain.Habit) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO habits(id,name,description,target_per_week,created_at) VALUES (?,?,?,?,?)`,
		h.ID, h.Name, nullable(h.Description), h.TargetPerWeek, h.CreatedAt)
	return err
}

func (r Repo) GetHabit(ctx context.Context, id string) (domain.Habit, error) {
	var h domain.Habit
	var desc sql.NullString
	err := r.DB.QueryRowContext(ctx, `SELECT id,name,description,target_per_week,created_at FROM habits WHERE id=?`, id).
		Scan(&h.ID, &h.Name, &desc, &h.TargetPerWeek, &h.CreatedAt)
	if err == sql.ErrNoRows {
		return h, ErrNotFound
	}
	if err != nil {
		return h, err
	}
	if desc.Valid {
		h.Description = desc.String
	}
	return h, nil
}

func (r Repo) ListHabits(ctx context.Context) ([]domain.Habit, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,name,COALESCE(description,''),target_per_week,created_at FROM habits ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Habit
	for rows.Next() {
		var h domain.Habit
		if err := rows.Scan(&h.ID, &h.Name, &h.Description, &h.TargetPerWeek, &h.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, h)
	}
	return res, rows.Err()
}

func (r Repo) UpdateHabit(ctx context.Context, tx *sql.Tx, h domain.Habit) error {
	res, err := tx.ExecContext(ctx, `UPDATE habits SET name=?,description=?,target_per_week=? WHERE id=?`,
		h.Name, nullable(h.Description), h.TargetPerWeek, h.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteHabit(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM habits WHERE id=?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) InsertHabitCompletion(ctx context.Context, tx *sql.Tx, c domain.HabitCompletion) error {
	_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO habit_completions(habit_id,day,ts) VALUES (?,?,?)`,
		c.HabitID, c.Day, c.TS)
	return err
}

func (r Repo) ListHabitCompletions(ctx context.Context, habitID string) ([]domain.HabitCompletion, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT habit_id,day,ts FROM habit_completions WHERE habit_id=? ORDER BY day DESC`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.HabitCompletion
	for rows.Next() {
		var c domain.HabitCompletion
		if err := rows.Scan(&c.HabitID, &c.Day, &c.TS); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// Events

func (r Repo) ListEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT id,ts,type,entity_kind,COALESCE(entity_id,''),payload_json FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.EntityKind, &e.EntityID, &e.Payload); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullablePtr(v *string) any {
	if v == nil || *v == "" {
		return nil
	}
	return *v
}
