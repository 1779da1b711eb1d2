package settings

import (
	"context"

	"covoit/internal/domain"
)

type SettingRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (*domain.Setting, error)
	Update(ctx context.Context, s *domain.Setting) error
}

type UpdateSettingsRequest struct {
	Locale             string `json:"locale" binding:"required,oneof=en fr"`
	EmailNotifications *bool  `json:"email_notifications" binding:"required"`
}

type Service struct {
	repo SettingRepository
}

func NewService(repo SettingRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, userID int64) (*domain.Setting, error) {
	return s.repo.GetOrCreate(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID int64, req UpdateSettingsRequest) (*domain.Setting, error) {
	setting, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	setting.Locale = domain.Locale(req.Locale)
	setting.EmailNotifications = *req.EmailNotifications

	if err := s.repo.Update(ctx, setting); err != nil {
		return nil, err
	}
	return setting, nil
}
