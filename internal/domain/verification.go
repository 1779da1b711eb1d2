package domain

import "time"

// VerificationCode is a single-use email verification code. At most one live
// code per user; requesting a new one replaces it.
type VerificationCode struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id" gorm:"uniqueIndex"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (v *VerificationCode) Expired() bool {
	return time.Now().After(v.ExpiresAt)
}
