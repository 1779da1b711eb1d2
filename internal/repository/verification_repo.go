package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"covoit/internal/domain"
)

type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Replace stores the user's new code, discarding any previous one.
func (r *VerificationRepository) Replace(ctx context.Context, v *domain.VerificationCode) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", v.UserID).
			Delete(&domain.VerificationCode{}).Error
		if err != nil {
			return err
		}
		return tx.Create(v).Error
	})
}

// Latest returns the user's live code, or nil when none exists.
func (r *VerificationRepository) Latest(ctx context.Context, userID int64) (*domain.VerificationCode, error) {
	var v domain.VerificationCode
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VerificationRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.VerificationCode{}).Error
}
