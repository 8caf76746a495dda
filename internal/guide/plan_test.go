package guide

import (
	"errors"
	"testing"
)

const planJSON = `{"tasks":[{"title":"Sort boxes","description":"Keep or toss","priority":"high","estimatedTime":"1 hour"}],"summary":"Start small."}`

func TestDecodePlanPlainJSON(t *testing.T) {
	plan, err := DecodePlan(planJSON)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if plan.Tasks[0].Title != "Sort boxes" || plan.Summary != "Start small." {
		t.Fatalf("unexpected plan: %+v", plan)
	}
}

func TestDecodePlanStripsCodeFence(t *testing.T) {
	for _, raw := range []string{
		"```json\n" + planJSON + "\n```",
		"```\n" + planJSON + "\n```",
		"  ```json\n" + planJSON + "\n```  ",
	} {
		plan, err := DecodePlan(raw)
		if err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
		if len(plan.Tasks) != 1 {
			t.Fatalf("tasks = %d, want 1", len(plan.Tasks))
		}
	}
}

func TestDecodePlanRejectsGarbage(t *testing.T) {
	_, err := DecodePlan("sure, here is your plan:")
	var perr *PlanParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want PlanParseError", err)
	}
	if perr.Raw != "sure, here is your plan:" {
		t.Fatalf("parse error should carry the raw output")
	}
}

func TestDecodePlanRejectsEmptyTasks(t *testing.T) {
	_, err := DecodePlan(`{"tasks":[],"summary":"nothing"}`)
	var perr *PlanParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want PlanParseError", err)
	}
}
