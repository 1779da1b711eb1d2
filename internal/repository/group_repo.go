package repository

import (
	"context"

	"gorm.io/gorm"

	"covoit/internal/domain"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) DB() *gorm.DB {
	return r.db
}

func (r *GroupRepository) Create(ctx context.Context, g *domain.Group) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	var g domain.Group
	err := r.db.WithContext(ctx).
		Preload("Members").
		Preload("Members.User").
		First(&g, id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListByUser returns the groups the user created or belongs to.
func (r *GroupRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Group, error) {
	var groups []domain.Group
	err := r.db.WithContext(ctx).
		Preload("Members").
		Where(`creator_id = ? OR id IN (SELECT group_id FROM group_members WHERE user_id = ?)`,
			userID, userID).
		Order("created_at DESC").
		Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID int64) error {
	m := &domain.GroupMember{GroupID: groupID, UserID: userID}
	err := r.db.WithContext(ctx).Create(m).Error
	if err != nil && isUniqueViolation(err) {
		// Already a member; adding again is a no-op.
		return nil
	}
	return err
}

func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID int64) error {
	res := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&domain.GroupMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the group and its membership rows in one transaction. The
// caller is responsible for cancelling the group's open travels first.
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&domain.GroupMember{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Group{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
