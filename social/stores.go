package social

import (
	"context"

	"github.com/socialnet/friendship/server/model"
)

// The engine never creates users; it only resolves them. Lookups report
// "not found" as a nil record with a nil error, never as an error.

// UserStore resolves users by email or id.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

// FriendshipStore reads and writes directed friend edges.
type FriendshipStore interface {
	FindByUserAndStatus(ctx context.Context, userID int64, status string) ([]model.Friendship, error)
	FindByUserAndFriend(ctx context.Context, userID, friendID int64) (*model.Friendship, error)
	FindByUser(ctx context.Context, userID int64) ([]model.Friendship, error)
	Save(ctx context.Context, edge *model.Friendship) (*model.Friendship, error)
}

// SubscriptionStore reads, writes, and deletes update subscriptions.
type SubscriptionStore interface {
	FindBySubscriberAndTarget(ctx context.Context, subscriberID, targetID int64) (*model.Subscription, error)
	FindBySubscriber(ctx context.Context, subscriberID int64) ([]model.Subscription, error)
	Save(ctx context.Context, edge *model.Subscription) (*model.Subscription, error)
	DeleteBySubscriberAndTarget(ctx context.Context, subscriberID, targetID int64) error
}

// BlockStore reads and writes block edges.
type BlockStore interface {
	FindByBlockerAndBlocked(ctx context.Context, blockerID, blockedID int64) (*model.Block, error)
	FindByBlocker(ctx context.Context, blockerID int64) (*model.Block, error)
	Save(ctx context.Context, edge *model.Block) (*model.Block, error)
}
