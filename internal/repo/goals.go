package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"athena/internal/domain"
)

const goalColumns = `id,title,description,type,status,priority,target_date,parent_id,progress,metrics_json,created_at,updated_at`

func scanGoalRow(scan func(dest ...any) error) (domain.Goal, error) {
	var g domain.Goal
	var desc, target, parent sql.NullString
	var metrics string
	err := scan(&g.ID, &g.Title, &desc, &g.Type, &g.Status, &g.Priority, &target, &parent, &g.Progress, &metrics, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return g, ErrNotFound
	}
	if err != nil {
		return g, err
	}
	if desc.Valid {
		g.Description = desc.String
	}
	if target.Valid {
		g.TargetDate = &target.String
	}
	if parent.Valid {
		g.ParentID = &parent.String
	}
	if metrics != "" {
		if err := json.Unmarshal([]byte(metrics), &g.Metrics); err != nil {
			return g, fmt.Errorf("decode goal metrics: %w", err)
		}
	}
	return g, nil
}

func encodeMetrics(metrics []string) (string, error) {
	if metrics == nil {
		metrics = []string{}
	}
	data, err := json.Marshal(metrics)
	if err != nil {
		return "", fmt.Errorf("encode goal metrics: %w", err)
	}
	return string(data), nil
}

func (r Repo) InsertGoal(ctx context.Context, tx *sql.Tx, g domain.Goal) error {
	metrics, err := encodeMetrics(g.Metrics)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO goals(`+goalColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		g.ID, g.Title, nullable(g.Description), g.Type, g.Status, g.Priority,
		nullablePtr(g.TargetDate), nullablePtr(g.ParentID), g.Progress, metrics, g.CreatedAt, g.UpdatedAt)
	return err
}

func (r Repo) GetGoal(ctx context.Context, id string) (domain.Goal, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id=?`, id)
	return scanGoalRow(row.Scan)
}

// GoalFilters narrows ListGoals.
type GoalFilters struct {
	Type     string
	Status   string
	ParentID string
}

func (r Repo) ListGoals(ctx context.Context, f GoalFilters) ([]domain.Goal, error) {
	q := `SELECT ` + goalColumns + ` FROM goals`
	var conds []string
	var args []any
	if f.Type != "" {
		conds = append(conds, "type=?")
		args = append(args, f.Type)
	}
	if f.Status != "" {
		conds = append(conds, "status=?")
		args = append(args, f.Status)
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
	var res []domain.Goal
	for rows.Next() {
		g, err := scanGoalRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

func (r Repo) UpdateGoal(ctx context.Context, tx *sql.Tx, g domain.Goal) error {
	metrics, err := encodeMetrics(g.Metrics)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `UPDATE goals SET title=?,description=?,type=?,status=?,priority=?,target_date=?,parent_id=?,progress=?,metrics_json=?,updated_at=? WHERE id=?`,
		g.Title, nullable(g.Description), g.Type, g.Status, g.Priority,
		nullablePtr(g.TargetDate), nullablePtr(g.ParentID), g.Progress, metrics, g.UpdatedAt, g.ID)
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

func (r Repo) DeleteGoal(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE id=?`, id)
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

func (r Repo) LinkGoalTask(ctx context.Context, tx *sql.Tx, goalID, taskID string) error {
	_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO goal_task_links(goal_id,task_id) VALUES (?,?)`, goalID, taskID)
	return err
}

func (r Repo) UnlinkGoalTask(ctx context.Context, tx *sql.Tx, goalID, taskID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM goal_task_links WHERE goal_id=? AND task_id=?`, goalID, taskID)
	return err
}

func (r Repo) ListGoalTasks(ctx context.Context, goalID string) ([]domain.Task, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT t.id,t.title,t.description,t.status,t.priority,t.due_date,t.parent_id,t.created_at,t.updated_at
		FROM tasks t JOIN goal_task_links l ON l.task_id=t.id WHERE l.goal_id=? ORDER BY t.created_at ASC`, goalID)
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
