package auth

import "time"

type Role string

const (
	RoleOwner      Role = "owner"
	RoleManager    Role = "manager"
	RoleContractor Role = "contractor"
	RoleViewer     Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleContractor, RoleViewer:
		return true
	}
	return false
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Session struct {
	User   User      `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
	Company  string `json:"company,omitempty"`
}
