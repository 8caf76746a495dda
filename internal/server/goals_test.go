package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"athena/internal/domain"
)

func TestGoalCRUDOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	status, data := doJSON(t, http.MethodPost, ts.URL+"/goals", map[string]any{
		"title":   "Become a stronger writer",
		"type":    "long-term",
		"metrics": []string{"essays published"},
	})
	if status != http.StatusCreated {
		t.Fatalf("create goal: status %d, body %s", status, data)
	}
	var g domain.Goal
	if err := json.Unmarshal(data, &g); err != nil {
		t.Fatalf("decode goal: %v", err)
	}
	if g.Type != "long-term" || g.Status != "active" {
		t.Fatalf("goal = %+v", g)
	}

	status, data = doJSON(t, http.MethodPost, ts.URL+"/goals", map[string]any{
		"title": "Essay a week", "type": "sprint", "parent_id": g.ID,
	})
	if status != http.StatusCreated {
		t.Fatalf("create sub-goal: status %d, body %s", status, data)
	}
	var sub domain.Goal
	if err := json.Unmarshal(data, &sub); err != nil {
		t.Fatalf("decode sub-goal: %v", err)
	}

	status, data = doJSON(t, http.MethodPost, ts.URL+"/tasks", map[string]any{"title": "Draft essay"})
	if status != http.StatusCreated {
		t.Fatalf("create task: status %d, body %s", status, data)
	}
	var task domain.Task
	if err := json.Unmarshal(data, &task); err != nil {
		t.Fatalf("decode task: %v", err)
	}

	status, data = doJSON(t, http.MethodPut, ts.URL+"/goals/"+g.ID+"/tasks/"+task.ID, nil)
	if status != http.StatusNoContent {
		t.Fatalf("link task: status %d, body %s", status, data)
	}

	status, data = doJSON(t, http.MethodGet, ts.URL+"/goals/"+g.ID, nil)
	if status != http.StatusOK {
		t.Fatalf("get goal: status %d, body %s", status, data)
	}
	var detail struct {
		domain.Goal
		LinkedTasks []domain.Task `json:"linked_tasks"`
		SubGoals    []domain.Goal `json:"sub_goals"`
	}
	if err := json.Unmarshal(data, &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if len(detail.LinkedTasks) != 1 || detail.LinkedTasks[0].ID != task.ID {
		t.Fatalf("linked_tasks = %v", detail.LinkedTasks)
	}
	if len(detail.SubGoals) != 1 || detail.SubGoals[0].ID != sub.ID {
		t.Fatalf("sub_goals = %v", detail.SubGoals)
	}

	status, data = doJSON(t, http.MethodPatch, ts.URL+"/goals/"+g.ID, map[string]any{
		"status": "achieved", "progress": 100,
	})
	if status != http.StatusOK {
		t.Fatalf("update goal: status %d, body %s", status, data)
	}
	if err := json.Unmarshal(data, &g); err != nil {
		t.Fatalf("decode updated goal: %v", err)
	}
	if g.Status != "achieved" || g.Progress != 100 {
		t.Fatalf("updated goal = %+v", g)
	}

	status, data = doJSON(t, http.MethodGet, ts.URL+"/goals?type=sprint", nil)
	if status != http.StatusOK {
		t.Fatalf("list goals: status %d, body %s", status, data)
	}
	var goals []domain.Goal
	if err := json.Unmarshal(data, &goals); err != nil {
		t.Fatalf("decode goals: %v", err)
	}
	if len(goals) != 1 || goals[0].ID != sub.ID {
		t.Fatalf("filtered goals = %v", goals)
	}

	// Deleting the root removes the sub-goal tree and linked tasks.
	status, data = doJSON(t, http.MethodDelete, ts.URL+"/goals/"+g.ID, nil)
	if status != http.StatusNoContent {
		t.Fatalf("delete goal: status %d, body %s", status, data)
	}
	status, data = doJSON(t, http.MethodGet, ts.URL+"/goals/"+sub.ID, nil)
	if status != http.StatusNotFound {
		t.Fatalf("sub-goal after delete: status %d, body %s", status, data)
	}
	status, data = doJSON(t, http.MethodGet, ts.URL+"/tasks/"+task.ID, nil)
	if status != http.StatusNotFound {
		t.Fatalf("linked task after delete: status %d, body %s", status, data)
	}
}

func TestGoalValidationOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	status, data := doJSON(t, http.MethodPost, ts.URL+"/goals", map[string]any{
		"title": "x", "type": "quarterly",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("bad type: status %d, body %s", status, data)
	}
	if code := errorCode(t, data); code != "bad_request" {
		t.Fatalf("code = %q", code)
	}

	status, data = doJSON(t, http.MethodGet, ts.URL+"/goals/missing", nil)
	if status != http.StatusNotFound {
		t.Fatalf("missing goal: status %d, body %s", status, data)
	}
	if code := errorCode(t, data); code != "not_found" {
		t.Fatalf("code = %q", code)
	}
}
