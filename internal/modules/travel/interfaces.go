package travel

import (
	"context"
	"time"

	"covoit/internal/domain"
	"covoit/internal/repository"
)

type TravelRepository interface {
	Create(ctx context.Context, t *domain.Travel) error
	GetByID(ctx context.Context, id int64) (*domain.Travel, error)
	ListByDriver(ctx context.Context, driverID int64) ([]domain.Travel, error)
	ListOpenByGroup(ctx context.Context, groupID int64) ([]domain.Travel, error)
	ListOpenByDriver(ctx context.Context, driverID int64) ([]domain.Travel, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TravelStatus) error
	Search(ctx context.Context, p repository.SearchParams, offset, limit int) ([]domain.Travel, int64, error)
	ApplyUpdate(ctx context.Context, plan *repository.TravelUpdate) error
}

type BookingRepository interface {
	ListByTravel(ctx context.Context, travelID int64) ([]domain.Booking, error)
	MaxConcurrentPassengers(ctx context.Context, travelID int64, start, end time.Time) (int, error)
}

type GroupRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Group, error)
}

// NotificationSender is implemented by the notification service. Deliver
// persists and fans out one notification; DispatchStored fans out rows a
// transaction already persisted.
type NotificationSender interface {
	Deliver(ctx context.Context, n *domain.Notification) error
	DispatchStored(ctx context.Context, ns []domain.Notification)
}
