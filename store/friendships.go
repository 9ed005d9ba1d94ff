package store

import (
	"context"
	"errors"

	"github.com/socialnet/friendship/server/model"
	"gorm.io/gorm"
)

// Friendships reads and writes directed friend edges.
type Friendships struct {
	db *gorm.DB
}

func NewFriendships(db *gorm.DB) *Friendships {
	return &Friendships{db: db}
}

func (s *Friendships) FindByUserAndStatus(ctx context.Context, userID int64, status string) ([]model.Friendship, error) {
	var edges []model.Friendship
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, status).
		Order("id").
		Find(&edges).Error
	if err != nil {
		return nil, err
	}
	return edges, nil
}

func (s *Friendships) FindByUserAndFriend(ctx context.Context, userID, friendID int64) (*model.Friendship, error) {
	var edge model.Friendship
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		First(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

func (s *Friendships) FindByUser(ctx context.Context, userID int64) ([]model.Friendship, error) {
	var edges []model.Friendship
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&edges).Error
	if err != nil {
		return nil, err
	}
	return edges, nil
}

func (s *Friendships) Save(ctx context.Context, edge *model.Friendship) (*model.Friendship, error) {
	if err := s.db.WithContext(ctx).Create(edge).Error; err != nil {
		return nil, err
	}
	return edge, nil
}
