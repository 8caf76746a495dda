package guide

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GeneratedTask is one proposed sub-task in a plan. Titles may be blank;
// callers filter those before persistence so empty drafts can still be shown
// for editing.
type GeneratedTask struct {
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Priority      string `json:"priority,omitempty" enum:"low,medium,high"`
	EstimatedTime string `json:"estimatedTime,omitempty"`
	Dependencies  string `json:"dependencies,omitempty"`
}

// GeneratedPlan is the structured outcome of a session: ordered sub-tasks
// plus a rationale summary.
type GeneratedPlan struct {
	Tasks   []GeneratedTask `json:"tasks"`
	Summary string          `json:"summary"`
}

// PlanParseError reports model output that is not a valid plan document.
type PlanParseError struct {
	Raw string
	Err error
}

func (e *PlanParseError) Error() string {
	return fmt.Sprintf("parse plan: %v", e.Err)
}

func (e *PlanParseError) Unwrap() error { return e.Err }

// DecodePlan parses raw model output into a plan. Models often wrap the JSON
// in a markdown code fence; a single leading/trailing fence is stripped.
func DecodePlan(raw string) (GeneratedPlan, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		} else {
			s = ""
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	var plan GeneratedPlan
	if err := json.Unmarshal([]byte(s), &plan); err != nil {
		return GeneratedPlan{}, &PlanParseError{Raw: raw, Err: err}
	}
	if len(plan.Tasks) == 0 {
		return GeneratedPlan{}, &PlanParseError{Raw: raw, Err: fmt.Errorf("no tasks")}
	}
	return plan, nil
}
