package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей
const (
	RoleCitizen = "citizen"
	RoleAdmin   = "admin"
)

type User struct {
	ID                 uuid.UUID  `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	PasswordHash       string     `json:"-"`
	Role               string     `json:"role"`
	PhoneNumber        string     `json:"phone_number,omitempty"`
	ProfilePicture     string     `json:"profile_picture,omitempty"`
	BiometricTokenHash string     `json:"-"`
	FaceEmbedding      []byte     `json:"-"`
	IsActive           bool       `json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
	LastLogin          *time.Time `json:"last_login,omitempty"`
}

// IsAdmin сообщает, является ли пользователь действующим администратором
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin && u.IsActive
}
