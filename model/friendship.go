package model

import "time"

// Friendship status values. The engine only ever writes StatusAccepted;
// StatusPending exists for rows created by an external request flow.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
)

// Friendship is a directed friend edge: UserID owns the edge, FriendID is
// the far endpoint. A connection stores a single directed row; no mirror
// edge is written for the reverse direction.
type Friendship struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index:idx_friendship_user;not null" json:"user_id"`
	FriendID  int64     `gorm:"index:idx_friendship_friend;not null" json:"friend_id"`
	Status    string    `gorm:"size:16;not null" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
