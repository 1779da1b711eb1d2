package admin

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"covoit/internal/domain"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrSelfAction = errors.New("admins cannot target their own account")
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int64, error)
	SetBanned(ctx context.Context, id int64, banned bool) error
	Delete(ctx context.Context, id int64) error
}

// TravelCanceller is implemented by the travel service; removing or banning
// a driver closes their open travels so passengers are not left hanging.
type TravelCanceller interface {
	CancelOpenForDriver(ctx context.Context, driverID int64, reason string) error
}

type Service struct {
	users   UserRepository
	travels TravelCanceller
}

func NewService(users UserRepository, travels TravelCanceller) *Service {
	return &Service{users: users, travels: travels}
}

func (s *Service) ListUsers(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, offset, limit)
}

// SetBanned flips the ban flag. Banning also cancels the user's open
// travels; unbanning restores nothing.
func (s *Service) SetBanned(ctx context.Context, actorID, userID int64, banned bool) (*domain.User, error) {
	if actorID == userID {
		return nil, ErrSelfAction
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.users.SetBanned(ctx, userID, banned); err != nil {
		return nil, err
	}
	u.Banned = banned

	if banned {
		if err := s.travels.CancelOpenForDriver(ctx, userID, "account suspended"); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// DeleteUser removes the account after cancelling its open travels.
func (s *Service) DeleteUser(ctx context.Context, actorID, userID int64) error {
	if actorID == userID {
		return ErrSelfAction
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.travels.CancelOpenForDriver(ctx, userID, "account removed"); err != nil {
		return err
	}
	return s.users.Delete(ctx, userID)
}
