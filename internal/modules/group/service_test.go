package group

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"covoit/internal/domain"
)

/* ==================== MOCKS ==================== */

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) Create(ctx context.Context, g *domain.Group) error {
	args := m.Called(ctx, g)
	g.ID = 5
	return args.Error(0)
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Group, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Group), args.Error(1)
}

func (m *MockGroupRepository) AddMember(ctx context.Context, groupID, userID int64) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MockGroupRepository) RemoveMember(ctx context.Context, groupID, userID int64) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MockGroupRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockTravelCanceller struct {
	mock.Mock
}

func (m *MockTravelCanceller) CancelOpenForGroup(ctx context.Context, groupID int64, reason string) error {
	args := m.Called(ctx, groupID, reason)
	return args.Error(0)
}

type MockNotificationSender struct {
	mock.Mock

	delivered []domain.Notification
}

func (m *MockNotificationSender) Deliver(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	m.delivered = append(m.delivered, *n)
	return args.Error(0)
}

/* ==================== FIXTURES ==================== */

func ridersGroup() *domain.Group {
	return &domain.Group{
		ID:        5,
		Name:      "Morning riders",
		CreatorID: 1,
		Members: []domain.GroupMember{
			{GroupID: 5, UserID: 9},
			{GroupID: 5, UserID: 10},
		},
	}
}

/* ==================== TESTS ==================== */

func TestService_AddMember_ByEmail(t *testing.T) {
	mockGroups := new(MockGroupRepository)
	mockUsers := new(MockUserRepository)

	mockGroups.On("GetByID", mock.Anything, int64(5)).Return(ridersGroup(), nil)
	mockUsers.On("GetByEmail", mock.Anything, "bob@example.com").Return(&domain.User{ID: 11}, nil)
	mockGroups.On("AddMember", mock.Anything, int64(5), int64(11)).Return(nil)

	service := NewService(mockGroups, mockUsers, new(MockTravelCanceller), new(MockNotificationSender))

	_, err := service.AddMember(context.Background(), 5, 1, AddMemberRequest{Email: "bob@example.com"})
	assert.NoError(t, err)
	mockGroups.AssertCalled(t, "AddMember", mock.Anything, int64(5), int64(11))
}

func TestService_AddMember_OnlyCreator(t *testing.T) {
	mockGroups := new(MockGroupRepository)
	mockGroups.On("GetByID", mock.Anything, int64(5)).Return(ridersGroup(), nil)

	service := NewService(mockGroups, new(MockUserRepository), new(MockTravelCanceller), new(MockNotificationSender))

	_, err := service.AddMember(context.Background(), 5, 9, AddMemberRequest{Email: "bob@example.com"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_AddMember_UnknownEmail(t *testing.T) {
	mockGroups := new(MockGroupRepository)
	mockUsers := new(MockUserRepository)

	mockGroups.On("GetByID", mock.Anything, int64(5)).Return(ridersGroup(), nil)
	mockUsers.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockGroups, mockUsers, new(MockTravelCanceller), new(MockNotificationSender))

	_, err := service.AddMember(context.Background(), 5, 1, AddMemberRequest{Email: "ghost@example.com"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_RemoveMember_Guards(t *testing.T) {
	mockGroups := new(MockGroupRepository)
	mockGroups.On("GetByID", mock.Anything, int64(5)).Return(ridersGroup(), nil)

	service := NewService(mockGroups, new(MockUserRepository), new(MockTravelCanceller), new(MockNotificationSender))

	_, err := service.RemoveMember(context.Background(), 5, 1, 1)
	assert.ErrorIs(t, err, ErrCreatorLeaves)

	_, err = service.RemoveMember(context.Background(), 5, 1, 77)
	assert.ErrorIs(t, err, ErrNotMember)
}

// Deleting a group cancels its open travels first, then notifies every
// member except the actor; the group row goes last.
func TestService_DeleteGroup_CascadesAndNotifies(t *testing.T) {
	mockGroups := new(MockGroupRepository)
	mockTravels := new(MockTravelCanceller)
	mockNotifs := new(MockNotificationSender)

	mockGroups.On("GetByID", mock.Anything, int64(5)).Return(ridersGroup(), nil)
	mockTravels.On("CancelOpenForGroup", mock.Anything, int64(5), "group deleted").Return(nil)
	mockGroups.On("Delete", mock.Anything, int64(5)).Return(nil)
	mockNotifs.On("Deliver", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockGroups, new(MockUserRepository), mockTravels, mockNotifs)

	err := service.DeleteGroup(context.Background(), 5, 1, false)
	assert.NoError(t, err)

	mockTravels.AssertExpectations(t)
	mockGroups.AssertCalled(t, "Delete", mock.Anything, int64(5))

	var recipients []int64
	for _, n := range mockNotifs.delivered {
		assert.Equal(t, domain.NotifGroupDeleted, n.Type)
		assert.Contains(t, n.BodyEN, "Morning riders")
		recipients = append(recipients, n.UserID)
	}
	assert.ElementsMatch(t, []int64{9, 10}, recipients)
}

func TestService_DeleteGroup_NotCreator(t *testing.T) {
	mockGroups := new(MockGroupRepository)
	mockGroups.On("GetByID", mock.Anything, int64(5)).Return(ridersGroup(), nil)

	service := NewService(mockGroups, new(MockUserRepository), new(MockTravelCanceller), new(MockNotificationSender))

	err := service.DeleteGroup(context.Background(), 5, 9, false)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_GetGroup_HiddenFromStrangers(t *testing.T) {
	mockGroups := new(MockGroupRepository)
	mockGroups.On("GetByID", mock.Anything, int64(5)).Return(ridersGroup(), nil)

	service := NewService(mockGroups, new(MockUserRepository), new(MockTravelCanceller), new(MockNotificationSender))

	_, err := service.GetGroup(context.Background(), 5, 99, false)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = service.GetGroup(context.Background(), 5, 10, false)
	assert.NoError(t, err)

	_, err = service.GetGroup(context.Background(), 5, 99, true)
	assert.NoError(t, err)
}
