package db

import (
	"context"

	"github.com/puoklam/spot-backend/db/model"
	"gorm.io/gorm"
)

func (s *Store) posts(ctx context.Context) *gorm.DB {
	return s.conn(ctx).Preload("User").Preload("Group")
}

func (s *Store) CreatePost(ctx context.Context, p *model.Post) error {
	if err := s.conn(ctx).Omit("User", "Group").Create(p).Error; err != nil {
		return err
	}
	return s.reloadPost(ctx, p)
}

func (s *Store) reloadPost(ctx context.Context, p *model.Post) error {
	return s.posts(ctx).First(p, p.ID).Error
}

func (s *Store) PostByID(ctx context.Context, id uint) (*model.Post, error) {
	var p model.Post
	if err := s.posts(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// Posts returns every post, newest first.
func (s *Store) Posts(ctx context.Context) ([]model.Post, error) {
	ps := make([]model.Post, 0)
	err := s.posts(ctx).Order("date DESC, id DESC").Find(&ps).Error
	return ps, err
}

func (s *Store) PostsByUser(ctx context.Context, userID uint) ([]model.Post, error) {
	ps := make([]model.Post, 0)
	err := s.posts(ctx).Where("user_id = ?", userID).Order("date DESC, id DESC").Find(&ps).Error
	return ps, err
}

func (s *Store) PostsByGroup(ctx context.Context, groupID uint) ([]model.Post, error) {
	ps := make([]model.Post, 0)
	err := s.posts(ctx).Where("group_id = ?", groupID).Order("date DESC, id DESC").Find(&ps).Error
	return ps, err
}

func (s *Store) UpdatePost(ctx context.Context, p *model.Post) error {
	if err := s.update(ctx, p); err != nil {
		return err
	}
	return s.reloadPost(ctx, p)
}

// DeletePost removes the post and its comments.
func (s *Store) DeletePost(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &model.Post{}, id)
	})
}
