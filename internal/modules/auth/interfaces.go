package auth

import (
	"context"

	"covoit/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type VerificationRepository interface {
	Replace(ctx context.Context, v *domain.VerificationCode) error
	Latest(ctx context.Context, userID int64) (*domain.VerificationCode, error)
	DeleteByUser(ctx context.Context, userID int64) error
}

type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}
