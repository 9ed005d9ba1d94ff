package store

import (
	"context"
	"errors"

	"github.com/socialnet/friendship/server/model"
	"gorm.io/gorm"
)

// Subscriptions reads, writes, and deletes update subscriptions.
type Subscriptions struct {
	db *gorm.DB
}

func NewSubscriptions(db *gorm.DB) *Subscriptions {
	return &Subscriptions{db: db}
}

func (s *Subscriptions) FindBySubscriberAndTarget(ctx context.Context, subscriberID, targetID int64) (*model.Subscription, error) {
	var edge model.Subscription
	err := s.db.WithContext(ctx).
		Where("subscriber_id = ? AND target_id = ?", subscriberID, targetID).
		First(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

func (s *Subscriptions) FindBySubscriber(ctx context.Context, subscriberID int64) ([]model.Subscription, error) {
	var edges []model.Subscription
	err := s.db.WithContext(ctx).
		Where("subscriber_id = ?", subscriberID).
		Order("id").
		Find(&edges).Error
	if err != nil {
		return nil, err
	}
	return edges, nil
}

func (s *Subscriptions) Save(ctx context.Context, edge *model.Subscription) (*model.Subscription, error) {
	if err := s.db.WithContext(ctx).Create(edge).Error; err != nil {
		return nil, err
	}
	return edge, nil
}

func (s *Subscriptions) DeleteBySubscriberAndTarget(ctx context.Context, subscriberID, targetID int64) error {
	return s.db.WithContext(ctx).
		Where("subscriber_id = ? AND target_id = ?", subscriberID, targetID).
		Delete(&model.Subscription{}).Error
}
