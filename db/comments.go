package db

import (
	"context"

	"github.com/puoklam/spot-backend/db/model"
)

func (s *Store) CreateComment(ctx context.Context, c *model.Comment) error {
	if err := s.conn(ctx).Omit("Post", "User").Create(c).Error; err != nil {
		return err
	}
	return s.conn(ctx).Preload("User").First(c, c.ID).Error
}

func (s *Store) CommentByID(ctx context.Context, id uint) (*model.Comment, error) {
	var c model.Comment
	if err := s.conn(ctx).Preload("User").First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// CommentsByPost returns the comments of a post, oldest first.
func (s *Store) CommentsByPost(ctx context.Context, postID uint) ([]model.Comment, error) {
	cs := make([]model.Comment, 0)
	err := s.conn(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("date, id").
		Find(&cs).
		Error
	return cs, err
}

func (s *Store) UpdateComment(ctx context.Context, c *model.Comment) error {
	if err := s.update(ctx, c); err != nil {
		return err
	}
	return s.conn(ctx).Preload("User").First(c, c.ID).Error
}

func (s *Store) DeleteComment(ctx context.Context, id uint) error {
	return deleteByID(s.conn(ctx), &model.Comment{}, id)
}
