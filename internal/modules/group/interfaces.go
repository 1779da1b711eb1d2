package group

import (
	"context"

	"covoit/internal/domain"
)

type GroupRepository interface {
	Create(ctx context.Context, g *domain.Group) error
	GetByID(ctx context.Context, id int64) (*domain.Group, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Group, error)
	AddMember(ctx context.Context, groupID, userID int64) error
	RemoveMember(ctx context.Context, groupID, userID int64) error
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TravelCanceller is implemented by the travel service; deleting a group
// closes the travels that were only visible inside it.
type TravelCanceller interface {
	CancelOpenForGroup(ctx context.Context, groupID int64, reason string) error
}

type NotificationSender interface {
	Deliver(ctx context.Context, n *domain.Notification) error
}
