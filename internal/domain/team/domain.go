package team

import (
	"time"

	"github.com/NordCoder/ProjectEye/internal/domain/auth"
)

type Member struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      auth.Role `json:"role"`
	JoinedAt  time.Time `json:"joinedAt"`
}

type AddInput struct {
	Email string    `json:"email"`
	Role  auth.Role `json:"role"`
}
