package travel

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"covoit/internal/domain"
	"covoit/internal/modules/notification"
	"covoit/internal/pkg/validator"
	"covoit/internal/repository"
)

type Service struct {
	travels  TravelRepository
	bookings BookingRepository
	groups   GroupRepository
	notifs   NotificationSender

	editableWindow time.Duration
}

func NewService(
	travels TravelRepository,
	bookings BookingRepository,
	groups GroupRepository,
	notifs NotificationSender,
	editableWindow time.Duration,
) *Service {
	return &Service{
		travels:        travels,
		bookings:       bookings,
		groups:         groups,
		notifs:         notifs,
		editableWindow: editableWindow,
	}
}

func (s *Service) CreateTravel(ctx context.Context, driverID int64, req CreateTravelRequest) (*domain.Travel, error) {
	if err := validateStepDates(req.Steps); err != nil {
		return nil, err
	}
	if !req.Steps[0].Date.After(time.Now()) {
		return nil, ErrPastDeparture
	}

	if req.GroupID != nil {
		group, err := s.groups.GetByID(ctx, *req.GroupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if !group.HasMember(driverID) {
			return nil, ErrNotGroupMember
		}
	}

	t := &domain.Travel{
		DriverID:      driverID,
		MaxPassengers: req.MaxPassengers,
		Price:         req.Price,
		Description:   req.Description,
		Status:        domain.TravelOpen,
		GroupID:       req.GroupID,
		Steps:         stepsFromInputs(req.Steps),
	}
	if errs := validator.Validate(t); errs != nil {
		return nil, ErrValidation
	}
	if err := s.travels.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetTravel enforces group visibility: a group-scoped travel is only shown to
// its driver, the group's members and admins.
func (s *Service) GetTravel(ctx context.Context, id, viewerID int64, isAdmin bool) (*domain.Travel, error) {
	t, err := s.travels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if t.GroupID != nil && t.DriverID != viewerID && !isAdmin {
		group, err := s.groups.GetByID(ctx, *t.GroupID)
		if err != nil {
			return nil, err
		}
		if !group.HasMember(viewerID) {
			return nil, ErrForbidden
		}
	}
	return t, nil
}

func (s *Service) ListMine(ctx context.Context, driverID int64) ([]domain.Travel, error) {
	return s.travels.ListByDriver(ctx, driverID)
}

func (s *Service) Search(ctx context.Context, p repository.SearchParams, offset, limit int) ([]domain.Travel, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.travels.Search(ctx, p, offset, limit)
}

// ListBookings returns every booking of the travel, for its driver or an
// admin.
func (s *Service) ListBookings(ctx context.Context, travelID, actorID int64, isAdmin bool) ([]domain.Booking, error) {
	t, err := s.travels.GetByID(ctx, travelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if t.DriverID != actorID && !isAdmin {
		return nil, ErrForbidden
	}
	return s.bookings.ListByTravel(ctx, travelID)
}

// UpdateTravel replaces the travel's fields and step list in one
// transaction. Steps keeping their ID are updated in place so bookings on
// them survive; steps missing from the submitted list are removed together
// with every booking referencing them. An update that changes nothing writes
// nothing and notifies nobody.
func (s *Service) UpdateTravel(ctx context.Context, travelID, actorID int64, req UpdateTravelRequest, isAdmin bool) (*domain.Travel, error) {
	t, err := s.travels.GetByID(ctx, travelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if t.DriverID != actorID && !isAdmin {
		return nil, ErrForbidden
	}
	if t.Status != domain.TravelOpen {
		return nil, ErrInvalidState
	}
	first := t.FirstStep()
	if first == nil {
		return nil, ErrInvalidSteps
	}
	if !isAdmin && time.Until(first.Date) < s.editableWindow {
		return nil, ErrTooSoon
	}

	if err := validateStepDates(req.Steps); err != nil {
		return nil, err
	}

	existing := make(map[int64]*domain.Step, len(t.Steps))
	for i := range t.Steps {
		existing[t.Steps[i].ID] = &t.Steps[i]
	}

	plan := &repository.TravelUpdate{
		TravelID:      t.ID,
		MaxPassengers: req.MaxPassengers,
		Price:         req.Price,
		Description:   req.Description,
	}

	kept := make(map[int64]domain.Step, len(req.Steps))
	changed := t.MaxPassengers != req.MaxPassengers ||
		t.Price != req.Price ||
		t.Description != req.Description

	for i, in := range req.Steps {
		step := domain.Step{
			ID:        in.ID,
			TravelID:  t.ID,
			Date:      in.Date,
			Label:     in.Label,
			City:      in.City,
			Latitude:  in.Latitude,
			Longitude: in.Longitude,
			Position:  i,
		}
		if in.ID == 0 {
			plan.CreateSteps = append(plan.CreateSteps, step)
			changed = true
			continue
		}
		old, ok := existing[in.ID]
		if !ok {
			return nil, ErrInvalidSteps
		}
		if _, dup := kept[in.ID]; dup {
			return nil, ErrInvalidSteps
		}
		kept[in.ID] = step
		plan.UpdateSteps = append(plan.UpdateSteps, step)
		if !old.Date.Equal(step.Date) || old.Label != step.Label || old.City != step.City ||
			old.Latitude != step.Latitude || old.Longitude != step.Longitude || old.Position != step.Position {
			changed = true
		}
	}

	for id := range existing {
		if _, ok := kept[id]; !ok {
			plan.DeleteStepIDs = append(plan.DeleteStepIDs, id)
			changed = true
		}
	}

	if !changed {
		return t, nil
	}

	bookings, err := s.bookings.ListByTravel(ctx, travelID)
	if err != nil {
		return nil, err
	}

	var surviving []domain.Booking
	for _, b := range bookings {
		_, depKept := kept[b.DepartureStepID]
		_, arrKept := kept[b.ArrivalStepID]
		if depKept && arrKept {
			surviving = append(surviving, b)
			continue
		}
		plan.DeleteBookingIDs = append(plan.DeleteBookingIDs, b.ID)
		if b.Status == domain.BookingPending || b.Status == domain.BookingAccepted {
			plan.Notifications = append(plan.Notifications,
				notification.NewBookingDropped(b.PassengerID, t.ID, stepCity(b.DepartureStep), stepCity(b.ArrivalStep)))
		}
	}

	if max := maxConcurrent(surviving, plan.UpdateSteps); max > req.MaxPassengers {
		return nil, ErrTooManyPassengers
	}

	for _, b := range surviving {
		if b.Status != domain.BookingPending && b.Status != domain.BookingAccepted {
			continue
		}
		dep := kept[b.DepartureStepID]
		arr := kept[b.ArrivalStepID]
		plan.Notifications = append(plan.Notifications,
			notification.NewTravelUpdated(b.PassengerID, b.ID, t.ID, dep.City, arr.City))
	}
	if isAdmin && actorID != t.DriverID {
		plan.Notifications = append(plan.Notifications,
			notification.NewAdminTravelUpdated(t.DriverID, t.ID, req.Steps[0].City, req.Steps[len(req.Steps)-1].City))
	}

	if err := s.travels.ApplyUpdate(ctx, plan); err != nil {
		return nil, err
	}
	s.notifs.DispatchStored(ctx, plan.Notifications)

	return s.travels.GetByID(ctx, travelID)
}

// CancelTravel closes an open travel before departure. Every booking's
// passenger is told, whatever the booking's status; when an admin cancels on
// the driver's behalf the driver is told too.
func (s *Service) CancelTravel(ctx context.Context, travelID, actorID int64, reason string, isAdmin bool) (*domain.Travel, error) {
	t, err := s.travels.GetByID(ctx, travelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if t.DriverID != actorID && !isAdmin {
		return nil, ErrForbidden
	}
	if t.Status != domain.TravelOpen {
		return nil, ErrInvalidState
	}
	first := t.FirstStep()
	if first == nil {
		return nil, ErrInvalidSteps
	}
	if !isAdmin && time.Until(first.Date) < s.editableWindow {
		return nil, ErrTooSoon
	}

	if err := s.travels.UpdateStatus(ctx, travelID, domain.TravelCancelled); err != nil {
		return nil, err
	}
	t.Status = domain.TravelCancelled

	s.fanOutClosure(ctx, t, reason, isAdmin && actorID != t.DriverID, true)
	return t, nil
}

// EndTravel marks a departed travel as done. Only allowed once the first
// step's date has passed, except for admins.
func (s *Service) EndTravel(ctx context.Context, travelID, actorID int64, reason string, isAdmin bool) (*domain.Travel, error) {
	t, err := s.travels.GetByID(ctx, travelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if t.DriverID != actorID && !isAdmin {
		return nil, ErrForbidden
	}
	if t.Status != domain.TravelOpen {
		return nil, ErrInvalidState
	}
	first := t.FirstStep()
	if first == nil {
		return nil, ErrInvalidSteps
	}
	if !isAdmin && time.Now().Before(first.Date) {
		return nil, ErrNotStarted
	}

	if err := s.travels.UpdateStatus(ctx, travelID, domain.TravelEnded); err != nil {
		return nil, err
	}
	t.Status = domain.TravelEnded

	s.fanOutClosure(ctx, t, reason, isAdmin && actorID != t.DriverID, false)
	return t, nil
}

// CancelOpenForGroup cancels every open travel scoped to the group. Used
// when the group is deleted; drivers are notified as for an admin
// cancellation.
func (s *Service) CancelOpenForGroup(ctx context.Context, groupID int64, reason string) error {
	travels, err := s.travels.ListOpenByGroup(ctx, groupID)
	if err != nil {
		return err
	}
	return s.cancelAll(ctx, travels, reason, true)
}

// CancelOpenForDriver cancels every open travel of the driver. Used when an
// admin deletes the account; the driver is not notified.
func (s *Service) CancelOpenForDriver(ctx context.Context, driverID int64, reason string) error {
	travels, err := s.travels.ListOpenByDriver(ctx, driverID)
	if err != nil {
		return err
	}
	return s.cancelAll(ctx, travels, reason, false)
}

func (s *Service) cancelAll(ctx context.Context, travels []domain.Travel, reason string, notifyDriver bool) error {
	for i := range travels {
		t := &travels[i]
		if err := s.travels.UpdateStatus(ctx, t.ID, domain.TravelCancelled); err != nil {
			return err
		}
		t.Status = domain.TravelCancelled
		s.fanOutClosure(ctx, t, reason, notifyDriver, true)
	}
	return nil
}

// fanOutClosure notifies passengers (and optionally the driver) that the
// travel was cancelled or ended. The status change is already committed, so
// notification failures are logged, not returned.
func (s *Service) fanOutClosure(ctx context.Context, t *domain.Travel, reason string, notifyDriver, cancelled bool) {
	first, last := t.FirstStep(), t.LastStep()
	fromCity, toCity := stepCity(first), stepCity(last)

	bookings, err := s.bookings.ListByTravel(ctx, t.ID)
	if err != nil {
		log.Printf("travel closure fan-out: list bookings travel=%d err=%v", t.ID, err)
		bookings = nil
	}

	for _, b := range bookings {
		var n domain.Notification
		if cancelled {
			n = notification.NewTravelCancelled(b.PassengerID, t.ID, fromCity, toCity, first.Date, reason)
		} else {
			n = notification.NewTravelEnded(b.PassengerID, t.ID, fromCity, toCity, reason)
		}
		if err := s.notifs.Deliver(ctx, &n); err != nil {
			log.Printf("travel closure fan-out: notify passenger=%d travel=%d err=%v", b.PassengerID, t.ID, err)
		}
	}

	if notifyDriver {
		var n domain.Notification
		if cancelled {
			n = notification.NewAdminTravelCancelled(t.DriverID, t.ID, fromCity, toCity, reason)
		} else {
			n = notification.NewAdminTravelEnded(t.DriverID, t.ID, fromCity, toCity, reason)
		}
		if err := s.notifs.Deliver(ctx, &n); err != nil {
			log.Printf("travel closure fan-out: notify driver=%d travel=%d err=%v", t.DriverID, t.ID, err)
		}
	}
}

func validateStepDates(steps []StepInput) error {
	if len(steps) < 2 {
		return ErrInvalidSteps
	}
	for i := 1; i < len(steps); i++ {
		if !steps[i].Date.After(steps[i-1].Date) {
			return ErrInvalidSteps
		}
	}
	return nil
}

func stepsFromInputs(inputs []StepInput) []domain.Step {
	steps := make([]domain.Step, len(inputs))
	for i, in := range inputs {
		steps[i] = domain.Step{
			Date:      in.Date,
			Label:     in.Label,
			City:      in.City,
			Latitude:  in.Latitude,
			Longitude: in.Longitude,
			Position:  i,
		}
	}
	return steps
}

func stepCity(s *domain.Step) string {
	if s == nil {
		return ""
	}
	return s.City
}

// maxConcurrent recomputes peak occupancy from the accepted bookings that
// survive the update, against the updated dates of the steps they reference.
// Mirrors the repository's boundary query, but over the post-update route.
func maxConcurrent(surviving []domain.Booking, updatedSteps []domain.Step) int {
	dates := make(map[int64]time.Time, len(updatedSteps))
	for _, s := range updatedSteps {
		dates[s.ID] = s.Date
	}

	max := 0
	for _, boundary := range updatedSteps {
		cnt := 0
		for _, b := range surviving {
			if b.Status != domain.BookingAccepted {
				continue
			}
			dep, arr := dates[b.DepartureStepID], dates[b.ArrivalStepID]
			if !dep.After(boundary.Date) && arr.After(boundary.Date) {
				cnt++
			}
		}
		if cnt > max {
			max = cnt
		}
	}
	return max
}
