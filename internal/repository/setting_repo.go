package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"covoit/internal/domain"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetOrCreate returns the user's settings row, creating it with defaults on
// first access.
func (r *SettingRepository) GetOrCreate(ctx context.Context, userID int64) (*domain.Setting, error) {
	var s domain.Setting
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	def := domain.DefaultSetting(userID)
	if err := r.db.WithContext(ctx).Create(def).Error; err != nil {
		return nil, err
	}
	return def, nil
}

func (r *SettingRepository) Update(ctx context.Context, s *domain.Setting) error {
	return r.db.WithContext(ctx).Save(s).Error
}
