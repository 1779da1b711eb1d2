package booking

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"covoit/internal/domain"
	"covoit/internal/modules/notification"
	"covoit/internal/pkg/lock"
)

type Service struct {
	bookings BookingRepository
	travels  TravelRepository
	users    UserRepository
	notifs   NotificationSender

	// travelLocks serializes the seat-capacity check with the write that
	// follows it, per travel. Without it two concurrent requests for the
	// last seat both pass the check.
	travelLocks *lock.Keyed

	editableWindow time.Duration
}

func NewService(
	bookings BookingRepository,
	travels TravelRepository,
	users UserRepository,
	notifs NotificationSender,
	editableWindow time.Duration,
) *Service {
	return &Service{
		bookings:       bookings,
		travels:        travels,
		users:          users,
		notifs:         notifs,
		travelLocks:    lock.NewKeyed(),
		editableWindow: editableWindow,
	}
}

func (s *Service) CreateBooking(ctx context.Context, passengerID int64, req CreateBookingRequest) (*domain.Booking, error) {
	travel, err := s.travels.GetByID(ctx, req.TravelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if travel.DriverID == passengerID {
		return nil, ErrInvalidOperation
	}
	if travel.Status != domain.TravelOpen {
		return nil, ErrTravelClosed
	}

	first := travel.FirstStep()
	if first == nil {
		return nil, ErrInvalidSteps
	}
	if time.Until(first.Date) < s.editableWindow {
		return nil, ErrTooSoon
	}

	dep := travel.StepByID(req.DepartureID)
	arr := travel.StepByID(req.ArrivalID)
	if dep == nil || arr == nil || dep.Position >= arr.Position {
		return nil, ErrInvalidSteps
	}

	overlap, err := s.bookings.HasOverlappingBooking(ctx, passengerID, dep.Date, arr.Date)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, ErrConflict
	}

	unlock := s.travelLocks.Lock(travel.ID)
	defer unlock()

	max, err := s.bookings.MaxConcurrentPassengers(ctx, travel.ID, dep.Date, arr.Date)
	if err != nil {
		return nil, err
	}
	if max+1 > travel.MaxPassengers {
		return nil, ErrNoSeats
	}

	b := &domain.Booking{
		TravelID:        travel.ID,
		PassengerID:     passengerID,
		DepartureStepID: dep.ID,
		ArrivalStepID:   arr.ID,
		Status:          domain.BookingPending,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	passenger, err := s.users.GetByID(ctx, passengerID)
	if err != nil {
		return nil, err
	}

	n := notification.NewBookingRequested(travel.DriverID, b.ID, travel.ID, passenger.Name, dep.City, arr.City)
	if err := s.notifs.Deliver(ctx, &n); err != nil {
		return nil, err
	}

	return b, nil
}

// AcceptBooking moves a pending booking to accepted, re-running the
// seat-capacity check under the travel's lock.
func (s *Service) AcceptBooking(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	return s.answerBooking(ctx, bookingID, actorID, true)
}

func (s *Service) RejectBooking(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	return s.answerBooking(ctx, bookingID, actorID, false)
}

func (s *Service) answerBooking(ctx context.Context, bookingID, actorID int64, accept bool) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	travel, err := s.travels.GetByID(ctx, b.TravelID)
	if err != nil {
		return nil, err
	}

	// Validation order matters: ownership before state, state before window.
	if travel.DriverID != actorID {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingPending {
		return nil, ErrInvalidState
	}
	first := travel.FirstStep()
	if first == nil || time.Until(first.Date) < s.editableWindow {
		return nil, ErrTooSoon
	}
	if b.DepartureStep == nil || b.ArrivalStep == nil {
		return nil, ErrInvalidSteps
	}

	newStatus := domain.BookingRejected
	if accept {
		newStatus = domain.BookingAccepted

		unlock := s.travelLocks.Lock(travel.ID)
		max, err := s.bookings.MaxConcurrentPassengers(ctx, travel.ID, b.DepartureStep.Date, b.ArrivalStep.Date)
		if err != nil {
			unlock()
			return nil, err
		}
		if max+1 > travel.MaxPassengers {
			unlock()
			return nil, ErrNoSeats
		}
		if err := s.bookings.UpdateStatus(ctx, bookingID, newStatus); err != nil {
			unlock()
			return nil, err
		}
		unlock()
	} else {
		if err := s.bookings.UpdateStatus(ctx, bookingID, newStatus); err != nil {
			return nil, err
		}
	}
	b.Status = newStatus

	var passengerName string
	if b.Passenger != nil {
		passengerName = b.Passenger.Name
	}

	var n domain.Notification
	if accept {
		n = notification.NewBookingAccepted(b.PassengerID, b.ID, travel.ID, b.DepartureStep.City, b.ArrivalStep.City)
	} else {
		n = notification.NewBookingRejected(b.PassengerID, b.ID, travel.ID, b.DepartureStep.City, b.ArrivalStep.City)
	}
	if err := s.notifs.Deliver(ctx, &n); err != nil {
		return nil, err
	}

	// Rewrite the driver's original request notification to reflect the
	// outcome. Already-deleted originals are tolerated inside.
	if err := s.notifs.UpdateRequestOutcome(ctx, bookingID, accept, passengerName); err != nil {
		return nil, err
	}

	return b, nil
}

// CancelBooking is the passenger-initiated cancellation. The editable window
// is measured against the booking's departure step, not the travel start.
func (s *Service) CancelBooking(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if b.PassengerID != actorID {
		return nil, ErrForbidden
	}
	if b.Status.IsTerminal() {
		return nil, ErrAlreadyTerminal
	}
	if b.DepartureStep == nil || b.ArrivalStep == nil {
		return nil, ErrInvalidSteps
	}
	if time.Until(b.DepartureStep.Date) < s.editableWindow {
		return nil, ErrTooSoon
	}

	prior := b.Status
	if err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingCancelled); err != nil {
		return nil, err
	}
	b.Status = domain.BookingCancelled

	travel, err := s.travels.GetByID(ctx, b.TravelID)
	if err != nil {
		return nil, err
	}

	var passengerName string
	if b.Passenger != nil {
		passengerName = b.Passenger.Name
	}

	n := notification.NewBookingCancelled(
		travel.DriverID, b.ID, travel.ID, prior,
		passengerName, b.DepartureStep.City, b.ArrivalStep.City,
	)
	if err := s.notifs.Deliver(ctx, &n); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) GetMyBookings(ctx context.Context, passengerID int64, offset, limit int) ([]domain.Booking, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookings.ListByPassenger(ctx, passengerID, offset, limit)
}
