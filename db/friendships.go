package db

import (
	"context"

	"github.com/puoklam/spot-backend/db/model"
	"gorm.io/gorm"
)

// CreateFriendship inserts f unless a row for the same (requester, recipient)
// pair exists. The reverse direction is a different key and is not checked.
func (s *Store) CreateFriendship(ctx context.Context, f *model.Friendship) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var exists bool
		q := "SELECT EXISTS(SELECT 1 FROM friendships WHERE requester_id = ? AND recipient_id = ?)"
		if err := tx.Raw(q, f.RequesterID, f.RecipientID).Scan(&exists).Error; err != nil {
			return err
		}
		if exists {
			return ErrAssociationConflict
		}
		return tx.Omit("Requester", "Recipient").Create(f).Error
	})
	return conflict(err)
}

func (s *Store) Friendship(ctx context.Context, requesterID, recipientID uint) (*model.Friendship, error) {
	var f model.Friendship
	err := s.conn(ctx).
		Preload("Requester").
		Preload("Recipient").
		Where("requester_id = ? AND recipient_id = ?", requesterID, recipientID).
		First(&f).
		Error
	if err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

// FriendshipBetween returns the row linking a and b in either direction.
func (s *Store) FriendshipBetween(ctx context.Context, a, b uint) (*model.Friendship, error) {
	var f model.Friendship
	err := s.conn(ctx).
		Preload("Requester").
		Preload("Recipient").
		Where("requester_id = ? AND recipient_id = ?", a, b).
		Or("requester_id = ? AND recipient_id = ?", b, a).
		First(&f).
		Error
	if err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

// FriendshipsOf returns every friendship row userID takes part in.
func (s *Store) FriendshipsOf(ctx context.Context, userID uint) ([]model.Friendship, error) {
	fs := make([]model.Friendship, 0)
	err := s.conn(ctx).
		Preload("Requester").
		Preload("Recipient").
		Where("requester_id = ? OR recipient_id = ?", userID, userID).
		Find(&fs).
		Error
	return fs, err
}

// PendingRequests returns unaccepted friendships addressed to userID.
func (s *Store) PendingRequests(ctx context.Context, userID uint) ([]model.Friendship, error) {
	fs := make([]model.Friendship, 0)
	err := s.conn(ctx).
		Preload("Requester").
		Preload("Recipient").
		Where("recipient_id = ? AND accepted = ?", userID, false).
		Find(&fs).
		Error
	return fs, err
}

// Friends returns the users with an accepted friendship with userID.
func (s *Store) Friends(ctx context.Context, userID uint) ([]model.User, error) {
	users := make([]model.User, 0)
	err := s.conn(ctx).
		Where("id IN (?) OR id IN (?)",
			s.conn(ctx).Model(&model.Friendship{}).Select("recipient_id").Where("requester_id = ? AND accepted = ?", userID, true),
			s.conn(ctx).Model(&model.Friendship{}).Select("requester_id").Where("recipient_id = ? AND accepted = ?", userID, true),
		).
		Order("id").
		Find(&users).
		Error
	return users, err
}

// NonFriends returns every other user with no friendship row with userID.
func (s *Store) NonFriends(ctx context.Context, userID uint) ([]model.User, error) {
	users := make([]model.User, 0)
	err := s.conn(ctx).
		Where("id <> ?", userID).
		Where("id NOT IN (?)", s.conn(ctx).Model(&model.Friendship{}).Select("recipient_id").Where("requester_id = ?", userID)).
		Where("id NOT IN (?)", s.conn(ctx).Model(&model.Friendship{}).Select("requester_id").Where("recipient_id = ?", userID)).
		Order("id").
		Find(&users).
		Error
	return users, err
}

func (s *Store) UpdateFriendship(ctx context.Context, f *model.Friendship) error {
	return s.update(ctx, f)
}

func (s *Store) DeleteFriendship(ctx context.Context, requesterID, recipientID uint) error {
	res := s.conn(ctx).
		Where("requester_id = ? AND recipient_id = ?", requesterID, recipientID).
		Delete(&model.Friendship{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
