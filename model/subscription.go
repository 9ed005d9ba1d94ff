package model

import "time"

// Subscription is a directed update-subscription edge: SubscriberID
// receives TargetID's updates. Deleted when the blocker of a friendship
// blocks the target (see the block operation).
type Subscription struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SubscriberID int64     `gorm:"index:idx_sub_subscriber;not null" json:"subscriber_id"`
	TargetID     int64     `gorm:"index:idx_sub_target;not null" json:"target_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
