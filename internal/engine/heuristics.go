package engine

import (
	"context"
	"sort"
	"strings"
	"time"

	"athena/internal/domain"
	"athena/internal/repo"
)

// Keyword heuristics for classifying tasks. These are fuzzy and
// non-authoritative; they only drive ordering and filtering hints, never
// behavior that could lose data.

var highEnergyKeywords = []string{"create", "design", "plan", "research", "analyze", "develop", "build"}

var lowEnergyKeywords = []string{"review", "read", "check", "update", "fix", "email", "call", "organize"}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// EnergyLevel classifies how much focus a task likely demands: "high",
// "medium" or "low".
func EnergyLevel(t domain.Task) string {
	text := strings.ToLower(t.Title) + " " + strings.ToLower(t.Description)
	switch {
	case containsAny(text, highEnergyKeywords) && t.Priority == "high":
		return "high"
	case containsAny(text, lowEnergyKeywords) || len(t.Title) < 20:
		return "low"
	default:
		return "medium"
	}
}

// AttentionScore ranks a task by how much it deserves attention right now.
// Weighs priority, due-date urgency, status and parent readiness.
func AttentionScore(t domain.Task, byID map[string]domain.Task, now time.Time) int {
	score := 0

	switch t.Priority {
	case "high":
		score += 40
	case "medium":
		score += 25
	case "low":
		score += 10
	}

	if t.DueDate != nil {
		if due, err := time.Parse(time.RFC3339, *t.DueDate); err == nil {
			days := int(due.Sub(now).Hours() / 24)
			switch {
			case due.Before(now):
				score += 25
			case days <= 7:
				score += 15
			case days <= 30:
				score += 5
			}
		}
	}

	switch t.Status {
	case "in_progress":
		score += 20
	case "todo":
		score += 10
	}

	if t.ParentID == nil {
		score += 10
	} else if parent, ok := byID[*t.ParentID]; ok {
		switch parent.Status {
		case "done":
			score += 10
		case "in_progress":
			score += 5
		}
	}

	return score
}

// AttentionTasks returns open tasks ordered by attention score, highest first.
func (e Engine) AttentionTasks(ctx context.Context, limit int) ([]domain.Task, error) {
	tasks, err := e.Repo.ListTasks(ctx, repo.TaskFilters{})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	now := e.now().UTC()
	var open []domain.Task
	for _, t := range tasks {
		if t.Status != "done" {
			open = append(open, t)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		return AttentionScore(open[i], byID, now) > AttentionScore(open[j], byID, now)
	})
	if limit > 0 && len(open) > limit {
		open = open[:limit]
	}
	return open, nil
}
