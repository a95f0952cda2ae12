package users

import (
	"errors"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusDisabled = "DISABLED"
)

var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("wrong email or password")
	ErrNotApproved    = errors.New("account pending admin approval")
	ErrUserNotFound   = errors.New("user not found")
	ErrBadResetToken  = errors.New("invalid or expired reset token")
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Status       string    `json:"status"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
