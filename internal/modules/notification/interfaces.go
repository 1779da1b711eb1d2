package notification

import (
	"context"

	"covoit/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]domain.Notification, int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
	Delete(ctx context.Context, id, userID int64) error
	FindRequestByBooking(ctx context.Context, bookingID int64) (*domain.Notification, error)
	Update(ctx context.Context, n *domain.Notification) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type SettingRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (*domain.Setting, error)
}
