package store

import (
	"context"
	"errors"

	"github.com/socialnet/friendship/server/model"
	"gorm.io/gorm"
)

// Blocks reads and writes block edges.
type Blocks struct {
	db *gorm.DB
}

func NewBlocks(db *gorm.DB) *Blocks {
	return &Blocks{db: db}
}

func (s *Blocks) FindByBlockerAndBlocked(ctx context.Context, blockerID, blockedID int64) (*model.Block, error) {
	var edge model.Block
	err := s.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		First(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

func (s *Blocks) FindByBlocker(ctx context.Context, blockerID int64) (*model.Block, error) {
	var edge model.Block
	err := s.db.WithContext(ctx).
		Where("blocker_id = ?", blockerID).
		First(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

func (s *Blocks) Save(ctx context.Context, edge *model.Block) (*model.Block, error) {
	if err := s.db.WithContext(ctx).Create(edge).Error; err != nil {
		return nil, err
	}
	return edge, nil
}
