package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type Locale string

const (
	LocaleEN Locale = "en"
	LocaleFR Locale = "fr"
)

type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email" validate:"required,email"`
	PasswordHash  string    `json:"-"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone,omitempty"`
	Role          UserRole  `json:"role"`
	Locale        Locale    `json:"locale"`
	EmailVerified bool      `json:"email_verified"`
	Banned        bool      `json:"banned"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
