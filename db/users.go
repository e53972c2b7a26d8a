package db

import (
	"context"

	"github.com/puoklam/spot-backend/db/model"
	"gorm.io/gorm"
)

// CreateUser inserts u. A taken username or email yields ErrUserExists.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	return userConflict(s.conn(ctx).Create(u).Error)
}

func (s *Store) UserByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := s.conn(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := s.conn(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// UserExists reports whether a user with the given email or username exists.
func (s *Store) UserExists(ctx context.Context, email, username string) (bool, error) {
	var n int64
	err := s.conn(ctx).Model(&model.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&n).Error
	return n > 0, err
}

func (s *Store) Users(ctx context.Context) ([]model.User, error) {
	users := make([]model.User, 0)
	err := s.conn(ctx).Order("id").Find(&users).Error
	return users, err
}

// UpdateUser writes every column of u.
func (s *Store) UpdateUser(ctx context.Context, u *model.User) error {
	return userConflict(s.update(ctx, u))
}

// DeleteUser removes the user together with its posts, the comments on those
// posts, its own comments, its memberships and every friendship it is part of.
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		posts := tx.Model(&model.Post{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("post_id IN (?) OR user_id = ?", posts, id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Membership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("requester_id = ? OR recipient_id = ?", id, id).Delete(&model.Friendship{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &model.User{}, id)
	})
}
