package db

import (
	"context"

	"github.com/puoklam/spot-backend/db/model"
	"gorm.io/gorm"
)

// CreateGroup inserts g and makes owner its first admin member.
func (s *Store) CreateGroup(ctx context.Context, g *model.Group, owner uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g).Error; err != nil {
			return err
		}
		return tx.Create(&model.Membership{GroupID: g.ID, UserID: owner, Admin: true}).Error
	})
}

func (s *Store) GroupByID(ctx context.Context, id uint) (*model.Group, error) {
	var g model.Group
	if err := s.conn(ctx).First(&g, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

func (s *Store) Groups(ctx context.Context) ([]model.Group, error) {
	grps := make([]model.Group, 0)
	err := s.conn(ctx).Order("id").Find(&grps).Error
	return grps, err
}

func (s *Store) UpdateGroup(ctx context.Context, g *model.Group) error {
	return s.update(ctx, g)
}

// DeleteGroup removes the group, its posts with their comments, and its memberships.
func (s *Store) DeleteGroup(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		posts := tx.Model(&model.Post{}).Select("id").Where("group_id = ?", id)
		if err := tx.Where("post_id IN (?)", posts).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&model.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&model.Membership{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &model.Group{}, id)
	})
}
