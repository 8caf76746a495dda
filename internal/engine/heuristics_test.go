package engine

import (
	"testing"
	"time"

	"athena/internal/domain"
)

func TestEnergyLevel(t *testing.T) {
	cases := []struct {
		name string
		task domain.Task
		want string
	}{
		{"creative and high priority", domain.Task{Title: "Design the new landing page", Priority: "high"}, "high"},
		{"creative but medium priority", domain.Task{Title: "Design the new landing page layout", Priority: "medium"}, "medium"},
		{"admin keyword", domain.Task{Title: "Review the pull request backlog", Priority: "high"}, "low"},
		{"short title", domain.Task{Title: "Dishes", Priority: "medium"}, "low"},
		{"keyword in description", domain.Task{Title: "Quarterly report for the finance team", Description: "research prior numbers", Priority: "high"}, "high"},
	}
	for _, c := range cases {
		if got := EnergyLevel(c.task); got != c.want {
			t.Errorf("%s: EnergyLevel = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestAttentionScoreOrdering(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	overdue := "2026-01-20T00:00:00Z"
	soon := "2026-02-05T00:00:00Z"

	urgent := domain.Task{ID: "a", Priority: "high", Status: "in_progress", DueDate: &overdue}
	upcoming := domain.Task{ID: "b", Priority: "medium", Status: "todo", DueDate: &soon}
	idle := domain.Task{ID: "c", Priority: "low", Status: "todo"}

	byID := map[string]domain.Task{}
	su := AttentionScore(urgent, byID, now)
	sm := AttentionScore(upcoming, byID, now)
	sl := AttentionScore(idle, byID, now)
	if !(su > sm && sm > sl) {
		t.Fatalf("score ordering wrong: %d, %d, %d", su, sm, sl)
	}
}

func TestAttentionScoreParentReadiness(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	parentDone := domain.Task{ID: "p", Status: "done"}
	parentTodo := domain.Task{ID: "q", Status: "todo"}
	byID := map[string]domain.Task{"p": parentDone, "q": parentTodo}

	pd := "p"
	pt := "q"
	ready := domain.Task{ID: "a", Priority: "medium", Status: "todo", ParentID: &pd}
	blocked := domain.Task{ID: "b", Priority: "medium", Status: "todo", ParentID: &pt}

	if AttentionScore(ready, byID, now) <= AttentionScore(blocked, byID, now) {
		t.Fatalf("subtask of a done parent should outrank one of an open parent")
	}
}
