package domain

import "time"

// Setting holds per-user preferences. One row per user, created lazily with
// defaults on first read.
type Setting struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id" gorm:"uniqueIndex"`
	Locale             Locale    `json:"locale"`
	EmailNotifications bool      `json:"email_notifications"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func DefaultSetting(userID int64) *Setting {
	return &Setting{
		UserID:             userID,
		Locale:             LocaleEN,
		EmailNotifications: true,
	}
}
