package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"covoit/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) DB() *gorm.DB {
	return r.db
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("DepartureStep").
		Preload("ArrivalStep").
		Preload("Passenger").
		First(&b, id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) ListByPassenger(ctx context.Context, passengerID int64, offset, limit int) ([]domain.Booking, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("passenger_id = ?", passengerID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("DepartureStep").
		Preload("ArrivalStep").
		Preload("Travel").
		Where("passenger_id = ?", passengerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// ListByTravel returns every booking of a travel with passenger and step
// rows attached, regardless of booking status.
func (r *BookingRepository) ListByTravel(ctx context.Context, travelID int64) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("DepartureStep").
		Preload("ArrivalStep").
		Preload("Passenger").
		Where("travel_id = ?", travelID).
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
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

// MaxConcurrentPassengers recomputes, from current booking rows, the maximum
// number of accepted bookings spanning any step boundary of the travel whose
// date falls in [start, end). A booking spans a boundary when its departure
// date is at or before it and its arrival date is after it. No running
// counter exists anywhere; this query is the single source of truth.
func (r *BookingRepository) MaxConcurrentPassengers(ctx context.Context, travelID int64, start, end time.Time) (int, error) {
	var max int
	q := `
SELECT COALESCE(MAX(per_boundary.cnt), 0)
FROM (
    SELECT s.id, COUNT(b.id) AS cnt
    FROM steps s
    JOIN bookings b ON b.travel_id = s.travel_id AND b.status = 'accepted'
    JOIN steps dep ON dep.id = b.departure_step_id
    JOIN steps arr ON arr.id = b.arrival_step_id
    WHERE s.travel_id = ?
      AND s.date >= ? AND s.date < ?
      AND dep.date <= s.date AND arr.date > s.date
    GROUP BY s.id
) AS per_boundary
`
	tx := r.db.WithContext(ctx).Raw(q, travelID, start, end).Scan(&max)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return max, nil
}

// HasOverlappingBooking reports whether the passenger already holds a pending
// or accepted booking, on any travel, whose date range overlaps [start, end).
func (r *BookingRepository) HasOverlappingBooking(ctx context.Context, passengerID int64, start, end time.Time) (bool, error) {
	var cnt int64
	q := `
SELECT COUNT(1)
FROM bookings b
JOIN steps dep ON dep.id = b.departure_step_id
JOIN steps arr ON arr.id = b.arrival_step_id
WHERE b.passenger_id = ?
  AND b.status IN ('pending', 'accepted')
  AND dep.date < ? AND arr.date > ?
`
	tx := r.db.WithContext(ctx).Raw(q, passengerID, end, start).Scan(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}
