package db

import (
	"context"
	"errors"

	"github.com/puoklam/spot-backend/db/model"
	"gorm.io/gorm"
)

// CreateMembership inserts m unless the (group, user) pair already has a
// membership, in which case ErrAssociationConflict is returned and the
// existing row is left untouched.
func (s *Store) CreateMembership(ctx context.Context, m *model.Membership) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var exists bool
		q := "SELECT EXISTS(SELECT 1 FROM memberships WHERE group_id = ? AND user_id = ?)"
		if err := tx.Raw(q, m.GroupID, m.UserID).Scan(&exists).Error; err != nil {
			return err
		}
		if exists {
			return ErrAssociationConflict
		}
		return tx.Omit("Group", "User").Create(m).Error
	})
	return conflict(err)
}

func (s *Store) Membership(ctx context.Context, groupID, userID uint) (*model.Membership, error) {
	var m model.Membership
	err := s.conn(ctx).
		Preload("Group").
		Preload("User").
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&m).
		Error
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

// IsMember reports whether userID belongs to groupID.
func (s *Store) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	_, err := s.Membership(ctx, groupID, userID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) MembershipsByGroup(ctx context.Context, groupID uint) ([]model.Membership, error) {
	ms := make([]model.Membership, 0)
	err := s.conn(ctx).
		Preload("Group").
		Preload("User").
		Where("group_id = ?", groupID).
		Order("user_id").
		Find(&ms).
		Error
	return ms, err
}

func (s *Store) MembershipsByUser(ctx context.Context, userID uint) ([]model.Membership, error) {
	ms := make([]model.Membership, 0)
	err := s.conn(ctx).
		Preload("Group").
		Preload("User").
		Where("user_id = ?", userID).
		Order("group_id").
		Find(&ms).
		Error
	return ms, err
}

func (s *Store) UpdateMembership(ctx context.Context, m *model.Membership) error {
	return s.update(ctx, m)
}

func (s *Store) DeleteMembership(ctx context.Context, groupID, userID uint) error {
	res := s.conn(ctx).Where("group_id = ? AND user_id = ?", groupID, userID).Delete(&model.Membership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
