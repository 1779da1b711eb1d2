package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"covoit/internal/domain"
	"covoit/internal/pkg/i18n"
	"covoit/internal/pkg/mail"
	"covoit/internal/repository"
)

type Service struct {
	users  UserRepository
	codes  VerificationRepository
	tokens TokenIssuer
	mailer mail.Mailer

	codeTTL        time.Duration
	resendCooldown time.Duration
}

func NewService(
	users UserRepository,
	codes VerificationRepository,
	tokens TokenIssuer,
	mailer mail.Mailer,
	codeTTL time.Duration,
	resendCooldown time.Duration,
) *Service {
	return &Service{
		users:          users,
		codes:          codes,
		tokens:         tokens,
		mailer:         mailer,
		codeTTL:        codeTTL,
		resendCooldown: resendCooldown,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, string, error) {
	locale := domain.LocaleEN
	if req.Locale == string(domain.LocaleFR) {
		locale = domain.LocaleFR
	}

	u := &domain.User{
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Name:   strings.TrimSpace(req.Name),
		Phone:  strings.TrimSpace(req.Phone),
		Role:   domain.RoleUser,
		Locale: locale,
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	u.PasswordHash = string(hash)

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	// A failed verification mail must not fail the registration; the code
	// can be requested again.
	if err := s.issueCode(ctx, u); err != nil {
		log.Printf("auth: initial verification code for user=%d failed: %v", u.ID, err)
	}

	token, err := s.tokens.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, string, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if u.Banned {
		return nil, "", ErrBanned
	}

	token, err := s.tokens.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// RequestVerification issues a fresh code, rate limited per user.
func (s *Service) RequestVerification(ctx context.Context, userID int64) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if u.EmailVerified {
		return ErrAlreadyVerified
	}

	prev, err := s.codes.Latest(ctx, userID)
	if err != nil {
		return err
	}
	if prev != nil && time.Since(prev.CreatedAt) < s.resendCooldown {
		return ErrResendCooldown
	}

	return s.issueCode(ctx, u)
}

func (s *Service) ConfirmVerification(ctx context.Context, userID int64, code string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if u.EmailVerified {
		return ErrAlreadyVerified
	}

	v, err := s.codes.Latest(ctx, userID)
	if err != nil {
		return err
	}
	if v == nil || v.Code != strings.TrimSpace(code) {
		return ErrCodeInvalid
	}
	if v.Expired() {
		return ErrCodeExpired
	}

	u.EmailVerified = true
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}
	return s.codes.DeleteByUser(ctx, userID)
}

func (s *Service) issueCode(ctx context.Context, u *domain.User) error {
	v := &domain.VerificationCode{
		UserID:    u.ID,
		Code:      uuid.NewString(),
		ExpiresAt: time.Now().Add(s.codeTTL),
	}
	if err := s.codes.Replace(ctx, v); err != nil {
		return err
	}

	title, body := i18n.Render(i18n.KeyVerificationCode, v.Code)
	return s.mailer.Send(ctx, u.Email, title.Pick(string(u.Locale)), body.Pick(string(u.Locale)), "")
}
