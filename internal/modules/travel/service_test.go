package travel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"covoit/internal/domain"
	"covoit/internal/repository"
)

/* ==================== MOCKS ==================== */

type MockTravelRepository struct {
	mock.Mock
}

func (m *MockTravelRepository) Create(ctx context.Context, t *domain.Travel) error {
	args := m.Called(ctx, t)
	t.ID = 7
	return args.Error(0)
}

func (m *MockTravelRepository) GetByID(ctx context.Context, id int64) (*domain.Travel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Travel), args.Error(1)
}

func (m *MockTravelRepository) ListByDriver(ctx context.Context, driverID int64) ([]domain.Travel, error) {
	args := m.Called(ctx, driverID)
	return args.Get(0).([]domain.Travel), args.Error(1)
}

func (m *MockTravelRepository) ListOpenByGroup(ctx context.Context, groupID int64) ([]domain.Travel, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]domain.Travel), args.Error(1)
}

func (m *MockTravelRepository) ListOpenByDriver(ctx context.Context, driverID int64) ([]domain.Travel, error) {
	args := m.Called(ctx, driverID)
	return args.Get(0).([]domain.Travel), args.Error(1)
}

func (m *MockTravelRepository) UpdateStatus(ctx context.Context, id int64, status domain.TravelStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTravelRepository) Search(ctx context.Context, p repository.SearchParams, offset, limit int) ([]domain.Travel, int64, error) {
	args := m.Called(ctx, p, offset, limit)
	return args.Get(0).([]domain.Travel), args.Get(1).(int64), args.Error(2)
}

func (m *MockTravelRepository) ApplyUpdate(ctx context.Context, plan *repository.TravelUpdate) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) ListByTravel(ctx context.Context, travelID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, travelID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) MaxConcurrentPassengers(ctx context.Context, travelID int64, start, end time.Time) (int, error) {
	args := m.Called(ctx, travelID, start, end)
	return args.Int(0), args.Error(1)
}

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

type MockNotificationSender struct {
	mock.Mock

	delivered  []domain.Notification
	dispatched []domain.Notification
}

func (m *MockNotificationSender) Deliver(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	m.delivered = append(m.delivered, *n)
	return args.Error(0)
}

func (m *MockNotificationSender) DispatchStored(ctx context.Context, ns []domain.Notification) {
	m.Called(ctx, ns)
	m.dispatched = append(m.dispatched, ns...)
}

/* ==================== FIXTURES ==================== */

const testWindow = 6 * time.Hour

func openTravel() *domain.Travel {
	base := time.Now().Add(48 * time.Hour)
	return &domain.Travel{
		ID:            7,
		DriverID:      1,
		MaxPassengers: 2,
		Price:         12,
		Status:        domain.TravelOpen,
		Steps: []domain.Step{
			{ID: 100, TravelID: 7, City: "Paris", Date: base, Position: 0},
			{ID: 101, TravelID: 7, City: "Lyon", Date: base.Add(4 * time.Hour), Position: 1},
			{ID: 102, TravelID: 7, City: "Marseille", Date: base.Add(7 * time.Hour), Position: 2},
		},
	}
}

func inputsFromSteps(steps []domain.Step) []StepInput {
	out := make([]StepInput, len(steps))
	for i, s := range steps {
		out[i] = StepInput{ID: s.ID, Date: s.Date, Label: s.Label, City: s.City, Latitude: s.Latitude, Longitude: s.Longitude}
	}
	return out
}

func newTestService(t *MockTravelRepository, b *MockBookingRepository, g *MockGroupRepository, n *MockNotificationSender) *Service {
	return NewService(t, b, g, n, testWindow)
}

/* ==================== CreateTravel ==================== */

func TestService_CreateTravel_Success(t *testing.T) {
	mockTravels := new(MockTravelRepository)
	mockTravels.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(mockTravels, new(MockBookingRepository), new(MockGroupRepository), new(MockNotificationSender))

	base := time.Now().Add(48 * time.Hour)
	out, err := service.CreateTravel(context.Background(), 1, CreateTravelRequest{
		MaxPassengers: 3,
		Price:         15,
		Steps: []StepInput{
			{Date: base, City: "Paris"},
			{Date: base.Add(4 * time.Hour), City: "Lyon"},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.TravelOpen, out.Status)
	assert.Len(t, out.Steps, 2)
	assert.Equal(t, 0, out.Steps[0].Position)
	assert.Equal(t, 1, out.Steps[1].Position)
}

func TestService_CreateTravel_RejectsBadStepLists(t *testing.T) {
	service := newTestService(new(MockTravelRepository), new(MockBookingRepository), new(MockGroupRepository), new(MockNotificationSender))

	base := time.Now().Add(48 * time.Hour)

	// One step only.
	_, err := service.CreateTravel(context.Background(), 1, CreateTravelRequest{
		MaxPassengers: 3,
		Steps:         []StepInput{{Date: base, City: "Paris"}},
	})
	assert.ErrorIs(t, err, ErrInvalidSteps)

	// Dates out of order.
	_, err = service.CreateTravel(context.Background(), 1, CreateTravelRequest{
		MaxPassengers: 3,
		Steps: []StepInput{
			{Date: base, City: "Paris"},
			{Date: base.Add(-time.Hour), City: "Lyon"},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidSteps)

	// Departure in the past.
	_, err = service.CreateTravel(context.Background(), 1, CreateTravelRequest{
		MaxPassengers: 3,
		Steps: []StepInput{
			{Date: time.Now().Add(-time.Hour), City: "Paris"},
			{Date: base, City: "Lyon"},
		},
	})
	assert.ErrorIs(t, err, ErrPastDeparture)
}

func TestService_CreateTravel_GroupMembershipRequired(t *testing.T) {
	mockGroups := new(MockGroupRepository)
	mockGroups.On("GetByID", mock.Anything, int64(5)).Return(&domain.Group{ID: 5, CreatorID: 2}, nil)

	service := newTestService(new(MockTravelRepository), new(MockBookingRepository), mockGroups, new(MockNotificationSender))

	groupID := int64(5)
	base := time.Now().Add(48 * time.Hour)
	_, err := service.CreateTravel(context.Background(), 1, CreateTravelRequest{
		MaxPassengers: 3,
		GroupID:       &groupID,
		Steps: []StepInput{
			{Date: base, City: "Paris"},
			{Date: base.Add(time.Hour), City: "Lyon"},
		},
	})
	assert.ErrorIs(t, err, ErrNotGroupMember)
}

/* ==================== GetTravel ==================== */

func TestService_GetTravel_GroupVisibility(t *testing.T) {
	mockTravels := new(MockTravelRepository)
	mockGroups := new(MockGroupRepository)

	groupID := int64(5)
	travel := openTravel()
	travel.GroupID = &groupID
	mockTravels.On("GetByID", mock.Anything, int64(7)).Return(travel, nil)
	mockGroups.On("GetByID", mock.Anything, int64(5)).Return(&domain.Group{
		ID: 5, CreatorID: 2,
		Members: []domain.GroupMember{{GroupID: 5, UserID: 9}},
	}, nil)

	service := newTestService(mockTravels, new(MockBookingRepository), mockGroups, new(MockNotificationSender))

	// Member sees it.
	_, err := service.GetTravel(context.Background(), 7, 9, false)
	assert.NoError(t, err)

	// Stranger does not.
	_, err = service.GetTravel(context.Background(), 7, 99, false)
	assert.ErrorIs(t, err, ErrForbidden)

	// Admin bypasses membership.
	_, err = service.GetTravel(context.Background(), 7, 99, true)
	assert.NoError(t, err)
}

/* ==================== UpdateTravel ==================== */

// Submitting the exact current state must write nothing and notify nobody.
func TestService_UpdateTravel_IdenticalIsNoOp(t *testing.T) {
	mockTravels := new(MockTravelRepository)
	mockNotifs := new(MockNotificationSender)

	travel := openTravel()
	mockTravels.On("GetByID", mock.Anything, int64(7)).Return(travel, nil)

	service := newTestService(mockTravels, new(MockBookingRepository), new(MockGroupRepository), mockNotifs)

	out, err := service.UpdateTravel(context.Background(), 7, 1, UpdateTravelRequest{
		MaxPassengers: travel.MaxPassengers,
		Price:         travel.Price,
		Description:   travel.Description,
		Steps:         inputsFromSteps(travel.Steps),
	}, false)

	assert.NoError(t, err)
	assert.Equal(t, travel, out)
	mockTravels.AssertNotCalled(t, "ApplyUpdate", mock.Anything, mock.Anything)
	assert.Empty(t, mockNotifs.dispatched)
}

// Removing a step drops the bookings that reference it and tells their
// passengers, while surviving passengers get a plain update notice. The
// whole plan goes through one ApplyUpdate call.
func TestService_UpdateTravel_RemovedStepDropsBookings(t *testing.T) {
	mockTravels := new(MockTravelRepository)
	mockBookings := new(MockBookingRepository)
	mockNotifs := new(MockNotificationSender)

	travel := openTravel()
	mockTravels.On("GetByID", mock.Anything, int64(7)).Return(travel, nil)
	mockBookings.On("ListByTravel", mock.Anything, int64(7)).Return([]domain.Booking{
		// Rides Lyon->Marseille, loses its departure step.
		{ID: 41, TravelID: 7, PassengerID: 9, DepartureStepID: 101, ArrivalStepID: 102,
			Status: domain.BookingAccepted, DepartureStep: &travel.Steps[1], ArrivalStep: &travel.Steps[2]},
		// Rides Paris->Marseille, survives.
		{ID: 42, TravelID: 7, PassengerID: 10, DepartureStepID: 100, ArrivalStepID: 102,
			Status: domain.BookingPending, DepartureStep: &travel.Steps[0], ArrivalStep: &travel.Steps[2]},
		// Rejected booking on the removed step: dropped silently.
		{ID: 43, TravelID: 7, PassengerID: 11, DepartureStepID: 101, ArrivalStepID: 102,
			Status: domain.BookingRejected, DepartureStep: &travel.Steps[1], ArrivalStep: &travel.Steps[2]},
	}, nil)

	var plan *repository.TravelUpdate
	mockTravels.On("ApplyUpdate", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		plan = args.Get(1).(*repository.TravelUpdate)
	}).Return(nil)
	mockNotifs.On("DispatchStored", mock.Anything, mock.Anything).Return()

	service := newTestService(mockTravels, mockBookings, new(MockGroupRepository), mockNotifs)

	// Keep Paris and Marseille, drop Lyon.
	req := UpdateTravelRequest{
		MaxPassengers: travel.MaxPassengers,
		Price:         travel.Price,
		Steps:         inputsFromSteps([]domain.Step{travel.Steps[0], travel.Steps[2]}),
	}
	_, err := service.UpdateTravel(context.Background(), 7, 1, req, false)

	assert.NoError(t, err)
	if assert.NotNil(t, plan) {
		assert.Equal(t, []int64{101}, plan.DeleteStepIDs)
		assert.ElementsMatch(t, []int64{41, 43}, plan.DeleteBookingIDs)

		byType := map[domain.NotificationType][]domain.Notification{}
		for _, n := range plan.Notifications {
			byType[n.Type] = append(byType[n.Type], n)
		}
		// Dropped notice for the accepted booking only, never the rejected one.
		if assert.Len(t, byType[domain.NotifBookingDropped], 1) {
			assert.Equal(t, int64(9), byType[domain.NotifBookingDropped][0].UserID)
		}
		if assert.Len(t, byType[domain.NotifTravelUpdated], 1) {
			assert.Equal(t, int64(10), byType[domain.NotifTravelUpdated][0].UserID)
		}
	}
	assert.Len(t, mockNotifs.dispatched, len(plan.Notifications))
}

func TestService_UpdateTravel_CapacityBelowOccupancy(t *testing.T) {
	mockTravels := new(MockTravelRepository)
	mockBookings := new(MockBookingRepository)

	travel := openTravel()
	mockTravels.On("GetByID", mock.Anything, int64(7)).Return(travel, nil)
	mockBookings.On("ListByTravel", mock.Anything, int64(7)).Return([]domain.Booking{
		{ID: 41, TravelID: 7, PassengerID: 9, DepartureStepID: 100, ArrivalStepID: 102, Status: domain.BookingAccepted},
		{ID: 42, TravelID: 7, PassengerID: 10, DepartureStepID: 100, ArrivalStepID: 101, Status: domain.BookingAccepted},
	}, nil)

	service := newTestService(mockTravels, mockBookings, new(MockGroupRepository), new(MockNotificationSender))

	req := UpdateTravelRequest{
		MaxPassengers: 1, // two accepted passengers share the Paris boundary
		Price:         travel.Price,
		Steps:         inputsFromSteps(travel.Steps),
	}
	_, err := service.UpdateTravel(context.Background(), 7, 1, req, false)

	assert.ErrorIs(t, err, ErrTooManyPassengers)
	mockTravels.AssertNotCalled(t, "ApplyUpdate", mock.Anything, mock.Anything)
}

func TestService_UpdateTravel_WindowGuard(t *testing.T) {
	mockTravels := new(MockTravelRepository)
	mockBookings := new(MockBookingRepository)
	mockNotifs := new(MockNotificationSender)

	travel := openTravel()
	soon := time.Now().Add(1 * time.Hour)
	for i := range travel.Steps {
		travel.Steps[i].Date = soon.Add(time.Duration(i) * time.Hour)
	}
	mockTravels.On("GetByID", mock.Anything, int64(7)).Return(travel, nil)

	service := newTestService(mockTravels, mockBookings, new(MockGroupRepository), mockNotifs)

	req := UpdateTravelRequest{
		MaxPassengers: 5,
		Price:         travel.Price,
		Steps:         inputsFromSteps(travel.Steps),
	}

	_, err := service.UpdateTravel(context.Background(), 7, 1, req, false)
	assert.ErrorIs(t, err, ErrTooSoon)

	// Admin bypasses the window.
	mockBookings.On("ListByTravel", mock.Anything, int64(7)).Return([]domain.Booking{}, nil)
	mockTravels.On("ApplyUpdate", mock.Anything, mock.Anything).Return(nil)
	mockNotifs.On("DispatchStored", mock.Anything, mock.Anything).Return()

	_, err = service.UpdateTravel(context.Background(), 7, 99, req, true)
	assert.NoError(t, err)
}

func TestService_UpdateTravel_ForeignStepID(t *testing.T) {
	mockTravels := new(MockTravelRepository)
	travel := openTravel()
	mockTravels.On("GetByID", mock.Anything, int64(7)).Return(travel, nil)

	service := newTestService(mockTravels, new(MockBookingRepository), new(MockGroupRepository), new(MockNotificationSender))

	steps := inputsFromSteps(travel.Steps)
	steps[1].ID = 999

	_, err := service.UpdateTravel(context.Background(), 7, 1, UpdateTravelRequest{
		MaxPassengers: travel.MaxPassengers,
		Price:         travel.Price,
		Steps:         steps,
	}, false)
	assert.ErrorIs(t, err, ErrInvalidSteps)
}

/* ==================== Cancel / End ==================== */

// An admin cancellation reaches every booking's passenger, whatever the
// booking's status, and tells the driver with the reason attached.
func TestService_CancelTravel_AdminFanOut(t *testing.T) {
	mockTravels := new(MockTravelRepository)
	mockBookings := new(MockBookingRepository)
	mockNotifs := new(MockNotificationSender)

	travel := openTravel()
	mockTravels.On("GetByID", mock.Anything, int64(7)).Return(travel, nil)
	mockTravels.On("UpdateStatus", mock.Anything, int64(7), domain.TravelCancelled).Return(nil)
	mockBookings.On("ListByTravel", mock.Anything, int64(7)).Return([]domain.Booking{
		{ID: 41, PassengerID: 9, Status: domain.BookingAccepted},
		{ID: 42, PassengerID: 10, Status: domain.BookingPending},
		{ID: 43, PassengerID: 11, Status: domain.BookingRejected},
	}, nil)
	mockNotifs.On("Deliver", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(mockTravels, mockBookings, new(MockGroupRepository), mockNotifs)

	out, err := service.CancelTravel(context.Background(), 7, 99, "weather", true)

	assert.NoError(t, err)
	assert.Equal(t, domain.TravelCancelled, out.Status)

	var passengerIDs []int64
	var driverNotice *domain.Notification
	for i, n := range mockNotifs.delivered {
		switch n.Type {
		case domain.NotifTravelCancelled:
			passengerIDs = append(passengerIDs, n.UserID)
			assert.Contains(t, n.BodyEN, "weather")
		case domain.NotifAdminTravelClosed:
			driverNotice = &mockNotifs.delivered[i]
		}
	}
	assert.ElementsMatch(t, []int64{9, 10, 11}, passengerIDs)
	if assert.NotNil(t, driverNotice) {
		assert.Equal(t, int64(1), driverNotice.UserID)
		assert.Contains(t, driverNotice.BodyEN, "weather")
	}
}

func TestService_CancelTravel_Guards(t *testing.T) {
	mockTravels := new(MockTravelRepository)
	travel := openTravel()
	travel.Status = domain.TravelEnded
	mockTravels.On("GetByID", mock.Anything, int64(7)).Return(travel, nil)

	service := newTestService(mockTravels, new(MockBookingRepository), new(MockGroupRepository), new(MockNotificationSender))

	_, err := service.CancelTravel(context.Background(), 7, 1, "", false)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = service.CancelTravel(context.Background(), 7, 99, "", false)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_EndTravel_BeforeDeparture(t *testing.T) {
	mockTravels := new(MockTravelRepository)
	mockTravels.On("GetByID", mock.Anything, int64(7)).Return(openTravel(), nil)

	service := newTestService(mockTravels, new(MockBookingRepository), new(MockGroupRepository), new(MockNotificationSender))

	_, err := service.EndTravel(context.Background(), 7, 1, "", false)
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestService_EndTravel_AfterDeparture(t *testing.T) {
	mockTravels := new(MockTravelRepository)
	mockBookings := new(MockBookingRepository)
	mockNotifs := new(MockNotificationSender)

	travel := openTravel()
	past := time.Now().Add(-10 * time.Hour)
	for i := range travel.Steps {
		travel.Steps[i].Date = past.Add(time.Duration(i) * time.Hour)
	}
	mockTravels.On("GetByID", mock.Anything, int64(7)).Return(travel, nil)
	mockTravels.On("UpdateStatus", mock.Anything, int64(7), domain.TravelEnded).Return(nil)
	mockBookings.On("ListByTravel", mock.Anything, int64(7)).Return([]domain.Booking{
		{ID: 41, PassengerID: 9, Status: domain.BookingAccepted},
	}, nil)
	mockNotifs.On("Deliver", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == 9 && n.Type == domain.NotifTravelEnded
	})).Return(nil)

	service := newTestService(mockTravels, mockBookings, new(MockGroupRepository), mockNotifs)

	out, err := service.EndTravel(context.Background(), 7, 1, "", false)
	assert.NoError(t, err)
	assert.Equal(t, domain.TravelEnded, out.Status)
	mockNotifs.AssertExpectations(t)
}

/* ==================== Group / driver cascades ==================== */

func TestService_CancelOpenForGroup(t *testing.T) {
	mockTravels := new(MockTravelRepository)
	mockBookings := new(MockBookingRepository)
	mockNotifs := new(MockNotificationSender)

	t1 := openTravel()
	mockTravels.On("ListOpenByGroup", mock.Anything, int64(5)).Return([]domain.Travel{*t1}, nil)
	mockTravels.On("UpdateStatus", mock.Anything, int64(7), domain.TravelCancelled).Return(nil)
	mockBookings.On("ListByTravel", mock.Anything, int64(7)).Return([]domain.Booking{
		{ID: 41, PassengerID: 9, Status: domain.BookingAccepted},
	}, nil)
	mockNotifs.On("Deliver", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(mockTravels, mockBookings, new(MockGroupRepository), mockNotifs)

	err := service.CancelOpenForGroup(context.Background(), 5, "group deleted")
	assert.NoError(t, err)

	// Passenger and driver both hear about it.
	var types []domain.NotificationType
	for _, n := range mockNotifs.delivered {
		types = append(types, n.Type)
	}
	assert.Contains(t, types, domain.NotifTravelCancelled)
	assert.Contains(t, types, domain.NotifAdminTravelClosed)
}

func TestService_CancelOpenForDriver_DriverNotNotified(t *testing.T) {
	mockTravels := new(MockTravelRepository)
	mockBookings := new(MockBookingRepository)
	mockNotifs := new(MockNotificationSender)

	t1 := openTravel()
	mockTravels.On("ListOpenByDriver", mock.Anything, int64(1)).Return([]domain.Travel{*t1}, nil)
	mockTravels.On("UpdateStatus", mock.Anything, int64(7), domain.TravelCancelled).Return(nil)
	mockBookings.On("ListByTravel", mock.Anything, int64(7)).Return([]domain.Booking{
		{ID: 41, PassengerID: 9, Status: domain.BookingPending},
	}, nil)
	mockNotifs.On("Deliver", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(mockTravels, mockBookings, new(MockGroupRepository), mockNotifs)

	err := service.CancelOpenForDriver(context.Background(), 1, "account removed")
	assert.NoError(t, err)

	for _, n := range mockNotifs.delivered {
		assert.NotEqual(t, domain.NotifAdminTravelClosed, n.Type)
		assert.NotEqual(t, int64(1), n.UserID)
	}
}

func TestService_GetTravel_NotFound(t *testing.T) {
	mockTravels := new(MockTravelRepository)
	mockTravels.On("GetByID", mock.Anything, int64(7)).Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(mockTravels, new(MockBookingRepository), new(MockGroupRepository), new(MockNotificationSender))

	_, err := service.GetTravel(context.Background(), 7, 9, false)
	assert.ErrorIs(t, err, ErrNotFound)
}
