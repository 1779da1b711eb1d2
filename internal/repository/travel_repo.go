package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"covoit/internal/domain"
)

type TravelRepository struct {
	db *gorm.DB
}

func NewTravelRepository(db *gorm.DB) *TravelRepository {
	return &TravelRepository{db: db}
}

func (r *TravelRepository) DB() *gorm.DB {
	return r.db
}

func (r *TravelRepository) Create(ctx context.Context, t *domain.Travel) error {
	for i := range t.Steps {
		t.Steps[i].Position = i
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TravelRepository) GetByID(ctx context.Context, id int64) (*domain.Travel, error) {
	var t domain.Travel
	err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("steps.position ASC")
		}).
		First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TravelRepository) ListByDriver(ctx context.Context, driverID int64) ([]domain.Travel, error) {
	var travels []domain.Travel
	err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("steps.position ASC")
		}).
		Where("driver_id = ?", driverID).
		Order("created_at DESC").
		Find(&travels).Error
	return travels, err
}

// ListOpenByGroup returns the open travels whose visibility is scoped to the
// group. Used when a group is deleted to cancel them.
func (r *TravelRepository) ListOpenByGroup(ctx context.Context, groupID int64) ([]domain.Travel, error) {
	var travels []domain.Travel
	err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("steps.position ASC")
		}).
		Where("group_id = ? AND status = ?", groupID, domain.TravelOpen).
		Find(&travels).Error
	return travels, err
}

func (r *TravelRepository) ListOpenByDriver(ctx context.Context, driverID int64) ([]domain.Travel, error) {
	var travels []domain.Travel
	err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("steps.position ASC")
		}).
		Where("driver_id = ? AND status = ?", driverID, domain.TravelOpen).
		Find(&travels).Error
	return travels, err
}

func (r *TravelRepository) UpdateStatus(ctx context.Context, id int64, status domain.TravelStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Travel{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SearchParams narrows the open-travel search. Cities match case
// insensitively; Date matches the calendar day of the departure step.
type SearchParams struct {
	FromCity string
	ToCity   string
	Date     *time.Time
	ViewerID int64
}

func (r *TravelRepository) Search(ctx context.Context, p SearchParams, offset, limit int) ([]domain.Travel, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.Travel{}).
		Where("travels.status = ?", domain.TravelOpen).
		Where(`travels.group_id IS NULL
			OR travels.group_id IN (SELECT group_id FROM group_members WHERE user_id = ?)
			OR travels.group_id IN (SELECT id FROM groups WHERE creator_id = ?)`,
			p.ViewerID, p.ViewerID)

	if p.FromCity != "" && p.ToCity != "" {
		q = q.Where(`EXISTS (
			SELECT 1 FROM steps dep, steps arr
			WHERE dep.travel_id = travels.id AND arr.travel_id = travels.id
			  AND LOWER(dep.city) = ? AND LOWER(arr.city) = ?
			  AND dep.position < arr.position
		)`, strings.ToLower(p.FromCity), strings.ToLower(p.ToCity))
	} else if p.FromCity != "" {
		q = q.Where(`EXISTS (SELECT 1 FROM steps dep WHERE dep.travel_id = travels.id AND LOWER(dep.city) = ?)`,
			strings.ToLower(p.FromCity))
	} else if p.ToCity != "" {
		q = q.Where(`EXISTS (SELECT 1 FROM steps arr WHERE arr.travel_id = travels.id AND LOWER(arr.city) = ?)`,
			strings.ToLower(p.ToCity))
	}

	if p.Date != nil {
		dayStart := time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 0, 0, 0, 0, time.UTC)
		dayEnd := dayStart.Add(24 * time.Hour)
		q = q.Where(`EXISTS (
			SELECT 1 FROM steps s WHERE s.travel_id = travels.id
			  AND s.position = 0 AND s.date >= ? AND s.date < ?
		)`, dayStart, dayEnd)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var travels []domain.Travel
	err := q.
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("steps.position ASC")
		}).
		Order("travels.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&travels).Error
	if err != nil {
		return nil, 0, err
	}
	return travels, total, nil
}

// TravelUpdate is the transactional plan for a wholesale step-list
// replacement: travel fields, the step diff, the bookings invalidated by
// removed steps, and the notification rows recording the change. Everything
// commits or nothing does; mail dispatch happens after commit.
type TravelUpdate struct {
	TravelID      int64
	MaxPassengers int
	Price         float64
	Description   string

	UpdateSteps   []domain.Step
	CreateSteps   []domain.Step
	DeleteStepIDs []int64

	DeleteBookingIDs []int64
	Notifications    []domain.Notification
}

func (r *TravelRepository) ApplyUpdate(ctx context.Context, plan *TravelUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&domain.Travel{}).
			Where("id = ?", plan.TravelID).
			Updates(map[string]any{
				"max_passengers": plan.MaxPassengers,
				"price":          plan.Price,
				"description":    plan.Description,
			}).Error
		if err != nil {
			return err
		}

		for i := range plan.UpdateSteps {
			s := &plan.UpdateSteps[i]
			err := tx.Model(&domain.Step{}).
				Where("id = ? AND travel_id = ?", s.ID, plan.TravelID).
				Updates(map[string]any{
					"date":      s.Date,
					"label":     s.Label,
					"city":      s.City,
					"latitude":  s.Latitude,
					"longitude": s.Longitude,
					"position":  s.Position,
				}).Error
			if err != nil {
				return err
			}
		}

		// Bookings referencing removed steps go first, keeping the step
		// foreign keys satisfied.
		if len(plan.DeleteBookingIDs) > 0 {
			if err := tx.Delete(&domain.Booking{}, plan.DeleteBookingIDs).Error; err != nil {
				return err
			}
		}
		if len(plan.DeleteStepIDs) > 0 {
			err := tx.Where("travel_id = ?", plan.TravelID).
				Delete(&domain.Step{}, plan.DeleteStepIDs).Error
			if err != nil {
				return err
			}
		}

		for i := range plan.CreateSteps {
			plan.CreateSteps[i].TravelID = plan.TravelID
		}
		if len(plan.CreateSteps) > 0 {
			if err := tx.Create(&plan.CreateSteps).Error; err != nil {
				return err
			}
		}

		if len(plan.Notifications) > 0 {
			if err := tx.Create(&plan.Notifications).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
