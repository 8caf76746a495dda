package guide

import (
	"strings"
	"testing"
)

func TestFallbackOpeningKeyedOnTitle(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Write quarterly report", "What does the finished version of this task look like to you?"},
		{"Plan the offsite", "What does the finished version of this task look like to you?"},
		{"Learn Spanish", "What's the very first physical action you would need to take?"},
		{"Study for finals", "What's the very first physical action you would need to take?"},
		{"Clean the garage", "What part of this feels the most difficult or uncertain right now?"},
	}
	for _, c := range cases {
		if got := FallbackOpening(c.title); got != c.want {
			t.Errorf("FallbackOpening(%q) = %q, want %q", c.title, got, c.want)
		}
	}
}

func TestFallbackFollowUpClamps(t *testing.T) {
	if FallbackFollowUp(2) != fallbackFollowUps[0] {
		t.Fatalf("count 2 should yield the first follow-up")
	}
	if FallbackFollowUp(0) != fallbackFollowUps[0] {
		t.Fatalf("low counts clamp to the first follow-up")
	}
	last := fallbackFollowUps[len(fallbackFollowUps)-1]
	if FallbackFollowUp(100) != last {
		t.Fatalf("high counts clamp to the last follow-up")
	}
	if FallbackFollowUp(4) != fallbackFollowUps[2] {
		t.Fatalf("mid counts index directly")
	}
}

func TestFallbackPlanShape(t *testing.T) {
	plan := FallbackPlan("Declutter the office")
	if len(plan.Tasks) != 3 {
		t.Fatalf("tasks = %d, want 3", len(plan.Tasks))
	}
	if plan.Tasks[0].Priority != "high" {
		t.Fatalf("first task priority = %q, want high", plan.Tasks[0].Priority)
	}
	if !strings.Contains(plan.Tasks[0].Description, "Declutter the office") {
		t.Fatalf("first task should reference the title: %q", plan.Tasks[0].Description)
	}
	if plan.Summary == "" {
		t.Fatalf("plan summary should not be empty")
	}
	for _, task := range plan.Tasks {
		if task.Title == "" || task.EstimatedTime == "" {
			t.Fatalf("fallback task incomplete: %+v", task)
		}
	}
}
