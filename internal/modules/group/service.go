package group

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"covoit/internal/domain"
	"covoit/internal/modules/notification"
)

type Service struct {
	groups  GroupRepository
	users   UserRepository
	travels TravelCanceller
	notifs  NotificationSender
}

func NewService(groups GroupRepository, users UserRepository, travels TravelCanceller, notifs NotificationSender) *Service {
	return &Service{
		groups:  groups,
		users:   users,
		travels: travels,
		notifs:  notifs,
	}
}

func (s *Service) CreateGroup(ctx context.Context, creatorID int64, req CreateGroupRequest) (*domain.Group, error) {
	g := &domain.Group{
		Name:      req.Name,
		CreatorID: creatorID,
	}
	if err := s.groups.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) GetGroup(ctx context.Context, id, viewerID int64, isAdmin bool) (*domain.Group, error) {
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !g.HasMember(viewerID) && !isAdmin {
		return nil, ErrNotFound
	}
	return g, nil
}

func (s *Service) ListMyGroups(ctx context.Context, userID int64) ([]domain.Group, error) {
	return s.groups.ListByUser(ctx, userID)
}

// AddMember invites a registered user by email. Adding someone who is
// already in the group changes nothing.
func (s *Service) AddMember(ctx context.Context, groupID, actorID int64, req AddMemberRequest) (*domain.Group, error) {
	g, err := s.creatorOnly(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if u.ID != g.CreatorID {
		if err := s.groups.AddMember(ctx, groupID, u.ID); err != nil {
			return nil, err
		}
	}
	return s.groups.GetByID(ctx, groupID)
}

func (s *Service) RemoveMember(ctx context.Context, groupID, actorID, memberID int64) (*domain.Group, error) {
	g, err := s.creatorOnly(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}
	if memberID == g.CreatorID {
		return nil, ErrCreatorLeaves
	}
	if !g.HasMember(memberID) {
		return nil, ErrNotMember
	}

	if err := s.groups.RemoveMember(ctx, groupID, memberID); err != nil {
		return nil, err
	}
	return s.groups.GetByID(ctx, groupID)
}

// DeleteGroup cancels the group's open travels first, then tells every
// member and removes the group.
func (s *Service) DeleteGroup(ctx context.Context, groupID, actorID int64, isAdmin bool) error {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if g.CreatorID != actorID && !isAdmin {
		return ErrForbidden
	}

	if err := s.travels.CancelOpenForGroup(ctx, groupID, "group deleted"); err != nil {
		return err
	}

	// Collect recipients before the member rows go away.
	recipients := map[int64]struct{}{g.CreatorID: {}}
	for _, m := range g.Members {
		recipients[m.UserID] = struct{}{}
	}
	delete(recipients, actorID)

	if err := s.groups.Delete(ctx, groupID); err != nil {
		return err
	}

	for userID := range recipients {
		n := notification.NewGroupDeleted(userID, g.Name)
		if err := s.notifs.Deliver(ctx, &n); err != nil {
			log.Printf("group delete: notify user=%d group=%d err=%v", userID, groupID, err)
		}
	}
	return nil
}

func (s *Service) creatorOnly(ctx context.Context, groupID, actorID int64) (*domain.Group, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if g.CreatorID != actorID {
		return nil, ErrForbidden
	}
	return g, nil
}
