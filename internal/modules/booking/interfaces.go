package booking

import (
	"context"
	"time"

	"covoit/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByPassenger(ctx context.Context, passengerID int64, offset, limit int) ([]domain.Booking, int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	MaxConcurrentPassengers(ctx context.Context, travelID int64, start, end time.Time) (int, error)
	HasOverlappingBooking(ctx context.Context, passengerID int64, start, end time.Time) (bool, error)
}

type TravelRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Travel, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// NotificationSender is implemented by the notification service.
type NotificationSender interface {
	Deliver(ctx context.Context, n *domain.Notification) error
	UpdateRequestOutcome(ctx context.Context, bookingID int64, accepted bool, passengerName string) error
}
