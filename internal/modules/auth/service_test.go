package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"covoit/internal/domain"
	"covoit/internal/repository"
)

/* ==================== MOCKS ==================== */

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	u.ID = 9
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

type MockVerificationRepository struct {
	mock.Mock
}

func (m *MockVerificationRepository) Replace(ctx context.Context, v *domain.VerificationCode) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVerificationRepository) Latest(ctx context.Context, userID int64) (*domain.VerificationCode, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationCode), args.Error(1)
}

func (m *MockVerificationRepository) DeleteByUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, text, html string) error {
	args := m.Called(ctx, to, subject, text, html)
	return args.Error(0)
}

func newTestService(u *MockUserRepository, v *MockVerificationRepository, t *MockTokenIssuer, mail *MockMailer) *Service {
	return NewService(u, v, t, mail, 5*time.Minute, time.Minute)
}

/* ==================== Register / Login ==================== */

func TestService_Register_Success(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockCodes := new(MockVerificationRepository)
	mockTokens := new(MockTokenIssuer)
	mockMailer := new(MockMailer)

	mockUsers.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockCodes.On("Replace", mock.Anything, mock.Anything).Return(nil)
	mockMailer.On("Send", mock.Anything, "alice@example.com", mock.Anything, mock.Anything, "").Return(nil)
	mockTokens.On("GenerateToken", int64(9), "user").Return("tok", nil)

	service := newTestService(mockUsers, mockCodes, mockTokens, mockMailer)

	user, token, err := service.Register(context.Background(), RegisterRequest{
		Email:    " Alice@Example.com ",
		Password: "secret-password",
		Name:     "Alice",
		Locale:   "fr",
	})

	assert.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.LocaleFR, user.Locale)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.False(t, user.EmailVerified)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "secret-password", user.PasswordHash)
	mockMailer.AssertExpectations(t)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateEmail)

	service := newTestService(mockUsers, new(MockVerificationRepository), new(MockTokenIssuer), new(MockMailer))

	_, _, err := service.Register(context.Background(), RegisterRequest{
		Email:    "alice@example.com",
		Password: "secret-password",
		Name:     "Alice",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Login_Success(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)

	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{
		ID: 9, Email: "alice@example.com", PasswordHash: string(hash), Role: domain.RoleUser,
	}, nil)
	mockTokens := new(MockTokenIssuer)
	mockTokens.On("GenerateToken", int64(9), "user").Return("tok", nil)

	service := newTestService(mockUsers, new(MockVerificationRepository), mockTokens, new(MockMailer))

	_, token, err := service.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "secret-password"})
	assert.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestService_Login_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)

	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{
		ID: 9, PasswordHash: string(hash),
	}, nil)

	service := newTestService(mockUsers, new(MockVerificationRepository), new(MockTokenIssuer), new(MockMailer))

	_, _, err := service.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmailSameError(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(mockUsers, new(MockVerificationRepository), new(MockTokenIssuer), new(MockMailer))

	_, _, err := service.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_Banned(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)

	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{
		ID: 9, PasswordHash: string(hash), Banned: true,
	}, nil)

	service := newTestService(mockUsers, new(MockVerificationRepository), new(MockTokenIssuer), new(MockMailer))

	_, _, err := service.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "secret-password"})
	assert.ErrorIs(t, err, ErrBanned)
}

/* ==================== Email verification ==================== */

func TestService_RequestVerification_Cooldown(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockCodes := new(MockVerificationRepository)

	mockUsers.On("GetByID", mock.Anything, int64(9)).Return(&domain.User{ID: 9}, nil)
	mockCodes.On("Latest", mock.Anything, int64(9)).Return(&domain.VerificationCode{
		UserID: 9, Code: "old", CreatedAt: time.Now().Add(-10 * time.Second),
	}, nil)

	service := newTestService(mockUsers, mockCodes, new(MockTokenIssuer), new(MockMailer))

	err := service.RequestVerification(context.Background(), 9)
	assert.ErrorIs(t, err, ErrResendCooldown)
	mockCodes.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestService_RequestVerification_AfterCooldown(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockCodes := new(MockVerificationRepository)
	mockMailer := new(MockMailer)

	mockUsers.On("GetByID", mock.Anything, int64(9)).Return(&domain.User{ID: 9, Email: "alice@example.com"}, nil)
	mockCodes.On("Latest", mock.Anything, int64(9)).Return(&domain.VerificationCode{
		UserID: 9, Code: "old", CreatedAt: time.Now().Add(-2 * time.Minute),
	}, nil)
	mockCodes.On("Replace", mock.Anything, mock.Anything).Return(nil)
	mockMailer.On("Send", mock.Anything, "alice@example.com", mock.Anything, mock.Anything, "").Return(nil)

	service := newTestService(mockUsers, mockCodes, new(MockTokenIssuer), mockMailer)

	err := service.RequestVerification(context.Background(), 9)
	assert.NoError(t, err)
	mockCodes.AssertCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestService_ConfirmVerification(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockCodes := new(MockVerificationRepository)

	user := &domain.User{ID: 9, Email: "alice@example.com"}
	mockUsers.On("GetByID", mock.Anything, int64(9)).Return(user, nil)
	mockCodes.On("Latest", mock.Anything, int64(9)).Return(&domain.VerificationCode{
		UserID: 9, Code: "the-code", ExpiresAt: time.Now().Add(time.Minute),
	}, nil)
	mockUsers.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.EmailVerified
	})).Return(nil)
	mockCodes.On("DeleteByUser", mock.Anything, int64(9)).Return(nil)

	service := newTestService(mockUsers, mockCodes, new(MockTokenIssuer), new(MockMailer))

	assert.NoError(t, service.ConfirmVerification(context.Background(), 9, " the-code "))
}

func TestService_ConfirmVerification_WrongOrExpired(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockCodes := new(MockVerificationRepository)

	mockUsers.On("GetByID", mock.Anything, int64(9)).Return(&domain.User{ID: 9}, nil)
	mockCodes.On("Latest", mock.Anything, int64(9)).Return(&domain.VerificationCode{
		UserID: 9, Code: "the-code", ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)

	service := newTestService(mockUsers, mockCodes, new(MockTokenIssuer), new(MockMailer))

	assert.ErrorIs(t, service.ConfirmVerification(context.Background(), 9, "nope"), ErrCodeInvalid)
	assert.ErrorIs(t, service.ConfirmVerification(context.Background(), 9, "the-code"), ErrCodeExpired)
}
