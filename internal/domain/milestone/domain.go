package milestone

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusDelayed    Status = "delayed"
)

type Milestone struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	DueDate     time.Time  `json:"dueDate"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type CreateInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     time.Time `json:"dueDate"`
}
