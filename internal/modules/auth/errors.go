package auth

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrBanned             = errors.New("account banned")
	ErrNotFound           = errors.New("user not found")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrCodeInvalid        = errors.New("invalid verification code")
	ErrCodeExpired        = errors.New("verification code expired")
	ErrResendCooldown     = errors.New("verification code requested too recently")
)
