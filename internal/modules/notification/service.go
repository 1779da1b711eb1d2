package notification

import (
	"context"
	"log"

	"covoit/internal/domain"
	"covoit/internal/pkg/i18n"
	"covoit/internal/pkg/mail"
)

type Service struct {
	repo     NotificationRepository
	users    UserRepository
	settings SettingRepository
	mailer   mail.Mailer
	hub      *Hub
}

func NewService(
	repo NotificationRepository,
	users UserRepository,
	settings SettingRepository,
	mailer mail.Mailer,
	hub *Hub,
) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		settings: settings,
		mailer:   mailer,
		hub:      hub,
	}
}

// Deliver persists the notification, pushes it to the owner's live feed and
// mirrors it by email in the background. Only the persistence step can fail;
// feed and mail are best effort.
func (s *Service) Deliver(ctx context.Context, n *domain.Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.dispatch(ctx, n)
	return nil
}

// DispatchStored fans out feed pushes and mail for notification rows that
// were already written by a transaction. Called after commit.
func (s *Service) DispatchStored(ctx context.Context, ns []domain.Notification) {
	for i := range ns {
		s.dispatch(ctx, &ns[i])
	}
}

func (s *Service) dispatch(ctx context.Context, n *domain.Notification) {
	if s.hub != nil {
		s.hub.Push(n)
	}
	if s.mailer == nil {
		return
	}

	user, err := s.users.GetByID(ctx, n.UserID)
	if err != nil || user.Email == "" {
		return
	}
	setting, err := s.settings.GetOrCreate(ctx, n.UserID)
	if err != nil || !setting.EmailNotifications {
		return
	}

	subject := n.Title(setting.Locale)
	body := n.Body(setting.Locale)

	// The HTTP response never waits on mail delivery; failures are logged
	// and nothing else.
	go func(to, subject, body string) {
		if err := s.mailer.Send(context.Background(), to, subject, body, ""); err != nil {
			log.Printf("notification mail failed: to=%s subject=%q err=%v", to, subject, err)
		}
	}(user.Email, subject, body)
}

// UpdateRequestOutcome rewrites the driver's original "new booking request"
// notification in place once the request is answered. A request notification
// the driver already deleted is not an error.
func (s *Service) UpdateRequestOutcome(ctx context.Context, bookingID int64, accepted bool, passengerName string) error {
	n, err := s.repo.FindRequestByBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if n == nil {
		return nil
	}

	key := i18n.KeyBookingAnsweredRejected
	if accepted {
		key = i18n.KeyBookingAnsweredAccepted
	}
	title, body := i18n.Render(key, passengerName)

	n.Type = domain.NotifBookingAnswered
	n.TitleEN = title.EN
	n.TitleFR = title.FR
	n.BodyEN = body.EN
	n.BodyFR = body.FR
	n.IsRead = false

	return s.repo.Update(ctx, n)
}

func (s *Service) List(ctx context.Context, userID int64, offset, limit int) ([]domain.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, offset, limit)
}

func (s *Service) GetUnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}
