package model

import "time"

// Block is a directed visibility-suppression edge: BlockerID no longer
// sees updates from BlockedID.
type Block struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BlockerID int64     `gorm:"index:idx_block_blocker;not null" json:"blocker_id"`
	BlockedID int64     `gorm:"index:idx_block_blocked;not null" json:"blocked_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
