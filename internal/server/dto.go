package server

import (
	"athena/internal/domain"
	"athena/internal/guide"
)

// Request payloads

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty" enum:"low,medium,high"`
	DueDate     *string `json:"due_date,omitempty" format:"date-time"`
	ParentID    *string `json:"parent_id,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" enum:"todo,in_progress,done"`
	Priority    *string `json:"priority,omitempty" enum:"low,medium,high"`
	DueDate     *string `json:"due_date,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"`
}

type CreateNoteRequest struct {
	Title   string  `json:"title"`
	Content *string `json:"content,omitempty"`
}

type UpdateNoteRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

type CreateHabitRequest struct {
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	TargetPerWeek *int    `json:"target_per_week,omitempty" minimum:"1" maximum:"7"`
}

type UpdateHabitRequest struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	TargetPerWeek *int    `json:"target_per_week,omitempty" minimum:"1" maximum:"7"`
}

type CreateGoalRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Type        *string  `json:"type,omitempty" enum:"vision,long-term,short-term,sprint"`
	Priority    *string  `json:"priority,omitempty" enum:"low,medium,high"`
	TargetDate  *string  `json:"target_date,omitempty" format:"date-time"`
	ParentID    *string  `json:"parent_id,omitempty"`
	Metrics     []string `json:"metrics,omitempty"`
}

type UpdateGoalRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Type        *string   `json:"type,omitempty" enum:"vision,long-term,short-term,sprint"`
	Status      *string   `json:"status,omitempty" enum:"active,achieved,on-hold,archived"`
	Priority    *string   `json:"priority,omitempty" enum:"low,medium,high"`
	TargetDate  *string   `json:"target_date,omitempty"`
	ParentID    *string   `json:"parent_id,omitempty"`
	Progress    *int      `json:"progress,omitempty" minimum:"0" maximum:"100"`
	Metrics     *[]string `json:"metrics,omitempty"`
}

type StartGuideRequest struct {
	TaskID string  `json:"task_id"`
	APIKey *string `json:"api_key,omitempty"`
}

type ContinueGuideRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type GeneratePlanRequest struct {
	SessionID string `json:"session_id"`
}

type EndGuideRequest struct {
	SessionID string `json:"session_id"`
}

type PlanTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty" enum:"low,medium,high"`
}

type CreatePlanTasksRequest struct {
	SessionID    string            `json:"session_id"`
	ParentTaskID *string           `json:"parent_task_id,omitempty"`
	Tasks        []PlanTaskRequest `json:"tasks"`
}

// Response payloads

type TaskResponse struct {
	domain.Task
	EnergyLevel string `json:"energy_level" enum:"low,medium,high"`
}

type HabitResponse struct {
	domain.Habit
	Streak int `json:"streak"`
}

type GoalDetailResponse struct {
	domain.Goal
	LinkedTasks []domain.Task `json:"linked_tasks"`
	SubGoals    []domain.Goal `json:"sub_goals"`
}

type GuideStartResponse struct {
	SessionID       string      `json:"session_id"`
	Message         string      `json:"message"`
	Phase           guide.Phase `json:"phase"`
	CanGeneratePlan bool        `json:"can_generate_plan"`
}

type GuideTurnResponse struct {
	SessionID       string               `json:"session_id"`
	Message         string               `json:"message,omitempty"`
	Phase           guide.Phase          `json:"phase"`
	CanGeneratePlan bool                 `json:"can_generate_plan"`
	Plan            *guide.GeneratedPlan `json:"plan,omitempty"`
}

type GuideSessionResponse struct {
	SessionID       string          `json:"session_id"`
	TaskID          string          `json:"task_id"`
	TaskTitle       string          `json:"task_title"`
	TaskDescription string          `json:"task_description,omitempty"`
	Phase           guide.Phase     `json:"phase"`
	Messages        []guide.Message `json:"messages"`
}

type CreatePlanTasksResponse struct {
	CreatedTasks []domain.Task `json:"created_tasks"`
	SessionEnded bool          `json:"session_ended"`
}

func taskResponse(t domain.Task, energy string) TaskResponse {
	return TaskResponse{Task: t, EnergyLevel: energy}
}
