package project

import "time"

type Status string

const (
	StatusPlanning  Status = "planning"
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusCompleted Status = "completed"
)

// Project amounts are minor currency units.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Status      Status    `json:"status"`
	Budget      int64     `json:"budget"`
	Spent       int64     `json:"spent"`
	Progress    int       `json:"progress"`
	OwnerID     string    `json:"ownerId"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ListParams struct {
	Status Status
	Page   int
	Limit  int
}

type CreateInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Budget      int64     `json:"budget"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}

type UpdateInput struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Budget      *int64     `json:"budget,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}
