package domain

type Task struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status" enum:"todo,in_progress,done"`
	Priority    string  `json:"priority" enum:"low,medium,high"`
	DueDate     *string `json:"due_date,omitempty" format:"date-time"`
	ParentID    *string `json:"parent_id,omitempty"`
	CreatedAt   string  `json:"created_at" format:"date-time"`
	UpdatedAt   string  `json:"updated_at" format:"date-time"`
}

type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at" format:"date-time"`
	UpdatedAt string `json:"updated_at" format:"date-time"`
}

type Goal struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type" enum:"vision,long-term,short-term,sprint"`
	Status      string   `json:"status" enum:"active,achieved,on-hold,archived"`
	Priority    string   `json:"priority" enum:"low,medium,high"`
	TargetDate  *string  `json:"target_date,omitempty" format:"date-time"`
	ParentID    *string  `json:"parent_id,omitempty"`
	Progress    int      `json:"progress" minimum:"0" maximum:"100"`
	Metrics     []string `json:"metrics,omitempty"`
	CreatedAt   string   `json:"created_at" format:"date-time"`
	UpdatedAt   string   `json:"updated_at" format:"date-time"`
}

type GoalTaskLink struct {
	GoalID string `json:"goal_id"`
	TaskID string `json:"task_id"`
}

type TaskNoteLink struct {
	TaskID string `json:"task_id"`
	NoteID string `json:"note_id"`
}

type Habit struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	TargetPerWeek int    `json:"target_per_week"`
	CreatedAt     string `json:"created_at" format:"date-time"`
}

type HabitCompletion struct {
	HabitID string `json:"habit_id"`
	Day     string `json:"day" format:"date"`
	TS      string `json:"ts" format:"date-time"`
}

type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	Payload    string `json:"payload_json"`
}
