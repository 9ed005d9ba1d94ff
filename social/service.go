package social

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/socialnet/friendship/server/cache"
	"github.com/socialnet/friendship/server/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service answers relationship queries and applies graph mutations over
// the injected edge stores. Every operation validates email syntax
// before touching any store, reports missing users and duplicate edges
// as ordinary results, and never returns an error to the caller.
type Service struct {
	users   UserStore
	friends FriendshipStore
	subs    SubscriptionStore
	blocks  BlockStore
	cache   cache.Cache  // optional; nil disables friend-list caching
	events  cache.PubSub // optional; nil disables mutation events
	logger  *zap.Logger

	// FriendListTTL bounds how long a cached friend list may be served.
	FriendListTTL time.Duration
}

// NewService creates the relationship engine. cache and events may be nil.
func NewService(users UserStore, friends FriendshipStore, subs SubscriptionStore, blocks BlockStore, c cache.Cache, events cache.PubSub, logger *zap.Logger) *Service {
	return &Service{
		users:         users,
		friends:       friends,
		subs:          subs,
		blocks:        blocks,
		cache:         c,
		events:        events,
		logger:        logger,
		FriendListTTL: 5 * time.Minute,
	}
}

// GetFriendList returns the emails of every accepted friend of the user
// identified by email, in edge retrieval order.
func (svc *Service) GetFriendList(ctx context.Context, email string) *Result {
	if !IsValidEmail(email) {
		return invalidEmailResult(email)
	}

	user, err := svc.users.FindByEmail(ctx, email)
	if err != nil {
		return svc.fail("get friend list", err)
	}
	if user == nil {
		return notFoundResult(MsgUserNotFound, email)
	}

	if list := svc.cachedFriendList(ctx, user.ID); list != nil {
		return okResult(MsgFriendList, list)
	}

	edges, err := svc.friends.FindByUserAndStatus(ctx, user.ID, model.StatusAccepted)
	if err != nil {
		return svc.fail("get friend list", err)
	}

	emails := make([]string, 0, len(edges))
	for _, edge := range edges {
		friend, err := svc.users.FindByID(ctx, edge.FriendID)
		if err != nil {
			return svc.fail("get friend list", err)
		}
		if friend == nil {
			// Dangling edge; the far endpoint was removed externally.
			continue
		}
		emails = append(emails, friend.Email)
	}

	list := &FriendList{Friends: emails, Count: len(emails)}
	svc.storeFriendList(ctx, user.ID, list)
	return okResult(MsgFriendList, list)
}

// GetCommonFriends intersects the accepted-friend sets of two users by
// far-endpoint id. The result list is deduplicated by resolved email.
func (svc *Service) GetCommonFriends(ctx context.Context, email1, email2 string) *Result {
	if !IsValidEmail(email1) {
		return invalidEmailResult(email1)
	}
	if !IsValidEmail(email2) {
		return invalidEmailResult(email2)
	}

	user1, user2, err := svc.resolvePair(ctx, email1, email2)
	if err != nil {
		return svc.fail("get common friends", err)
	}
	if user1 == nil {
		return notFoundResult(MsgUserNotFound, email1)
	}
	if user2 == nil {
		return notFoundResult(MsgUserNotFound, email2)
	}

	edges1, err := svc.friends.FindByUserAndStatus(ctx, user1.ID, model.StatusAccepted)
	if err != nil {
		return svc.fail("get common friends", err)
	}
	edges2, err := svc.friends.FindByUserAndStatus(ctx, user2.ID, model.StatusAccepted)
	if err != nil {
		return svc.fail("get common friends", err)
	}

	// Edge-to-edge comparison on the far endpoint. Duplicate ids in the
	// underlying sets produce duplicate matches; dedup happens on the
	// resolved email below.
	seen := make(map[string]struct{})
	emails := make([]string, 0)
	for _, edge1 := range edges1 {
		for _, edge2 := range edges2 {
			if edge1.FriendID != edge2.FriendID {
				continue
			}
			friend, err := svc.users.FindByID(ctx, edge2.FriendID)
			if err != nil {
				return svc.fail("get common friends", err)
			}
			if friend == nil {
				continue
			}
			if _, dup := seen[friend.Email]; dup {
				continue
			}
			seen[friend.Email] = struct{}{}
			emails = append(emails, friend.Email)
		}
	}

	return okResult(MsgCommonFriends, &FriendList{Friends: emails, Count: len(emails)})
}

// CreateConnection creates an accepted friendship edge from email1 to
// email2 unless one already exists. A single directed edge is stored.
func (svc *Service) CreateConnection(ctx context.Context, email1, email2 string) *Result {
	if !IsValidEmail(email1) {
		return invalidEmailResult(email1)
	}
	if !IsValidEmail(email2) {
		return invalidEmailResult(email2)
	}

	user1, user2, err := svc.resolvePair(ctx, email1, email2)
	if err != nil {
		return svc.fail("create connection", err)
	}
	if user1 == nil {
		return notFoundResult(MsgUserNotFound, email1)
	}
	if user2 == nil {
		return notFoundResult(MsgUserNotFound, email2)
	}

	existing, err := svc.friends.FindByUserAndFriend(ctx, user1.ID, user2.ID)
	if err != nil {
		return svc.fail("create connection", err)
	}
	if existing != nil {
		return okResult(fmt.Sprintf(MsgAlreadyFriends, email1, email2), nil)
	}

	saved, err := svc.friends.Save(ctx, &model.Friendship{
		UserID:   user1.ID,
		FriendID: user2.ID,
		Status:   model.StatusAccepted,
	})
	if err != nil {
		return svc.fail("create connection", err)
	}

	svc.dropFriendList(ctx, user1.ID)
	svc.publishEvent(ctx, EventConnectionCreated, email1, email2)
	return okResult(MsgConnected, saved)
}

// Subscribe creates an update subscription from the subscriber to the
// target unless one already exists.
func (svc *Service) Subscribe(ctx context.Context, subscriberEmail, targetEmail string) *Result {
	if !IsValidEmail(subscriberEmail) {
		return invalidEmailResult(subscriberEmail)
	}
	if !IsValidEmail(targetEmail) {
		return invalidEmailResult(targetEmail)
	}

	subscriber, target, err := svc.resolvePair(ctx, subscriberEmail, targetEmail)
	if err != nil {
		return svc.fail("subscribe", err)
	}
	if subscriber == nil {
		return notFoundResult(MsgSubscriberNotFound, subscriberEmail)
	}
	if target == nil {
		return notFoundResult(MsgTargetNotFound, targetEmail)
	}

	existing, err := svc.subs.FindBySubscriberAndTarget(ctx, subscriber.ID, target.ID)
	if err != nil {
		return svc.fail("subscribe", err)
	}
	if existing != nil {
		return okResult(MsgAlreadySubscribed, existing)
	}

	saved, err := svc.subs.Save(ctx, &model.Subscription{
		SubscriberID: subscriber.ID,
		TargetID:     target.ID,
	})
	if err != nil {
		return svc.fail("subscribe", err)
	}

	svc.publishEvent(ctx, EventSubscribed, subscriberEmail, targetEmail)
	return okResult(MsgSubscribed, saved)
}

// Block suppresses updates from blockedEmail to blockerEmail. When the
// two are already friends only the subscription is removed; the
// friendship edge stays. Otherwise a block edge is created unless one
// already exists.
func (svc *Service) Block(ctx context.Context, blockerEmail, blockedEmail string) *Result {
	if !IsValidEmail(blockerEmail) {
		return invalidEmailResult(blockerEmail)
	}
	if !IsValidEmail(blockedEmail) {
		return invalidEmailResult(blockedEmail)
	}

	blocker, blocked, err := svc.resolvePair(ctx, blockerEmail, blockedEmail)
	if err != nil {
		return svc.fail("block", err)
	}
	if blocker == nil {
		return notFoundResult(MsgUserNotFound, blockerEmail)
	}
	if blocked == nil {
		return notFoundResult(MsgUserNotFound, blockedEmail)
	}

	friendship, err := svc.friends.FindByUserAndFriend(ctx, blocker.ID, blocked.ID)
	if err != nil {
		return svc.fail("block", err)
	}
	if friendship != nil {
		// Friends: remove the subscription if one exists, keep the
		// friendship. The removal event fires only for an actual delete.
		sub, err := svc.subs.FindBySubscriberAndTarget(ctx, blocker.ID, blocked.ID)
		if err != nil {
			return svc.fail("block", err)
		}
		if sub != nil {
			if err := svc.subs.DeleteBySubscriberAndTarget(ctx, blocker.ID, blocked.ID); err != nil {
				return svc.fail("block", err)
			}
			svc.publishEvent(ctx, EventSubscriptionRemoved, blockerEmail, blockedEmail)
		}
		return okResult(fmt.Sprintf(MsgBlocked, blockerEmail, blockedEmail), nil)
	}

	existing, err := svc.blocks.FindByBlockerAndBlocked(ctx, blocker.ID, blocked.ID)
	if err != nil {
		return svc.fail("block", err)
	}
	if existing != nil {
		return okResult(fmt.Sprintf(MsgAlreadyBlocked, blockerEmail, blockedEmail), nil)
	}

	saved, err := svc.blocks.Save(ctx, &model.Block{
		BlockerID: blocker.ID,
		BlockedID: blocked.ID,
	})
	if err != nil {
		return svc.fail("block", err)
	}

	svc.publishEvent(ctx, EventBlocked, blockerEmail, blockedEmail)
	return okResult(fmt.Sprintf(MsgBlocked, blockerEmail, blockedEmail), saved)
}

// GetEligibleRecipients returns the emails of everyone who would receive
// the sender's updates: friends plus subscription targets, deduplicated,
// minus anyone who has blocked the sender.
func (svc *Service) GetEligibleRecipients(ctx context.Context, senderEmail string) *Result {
	if !IsValidEmail(senderEmail) {
		return invalidEmailResult(senderEmail)
	}

	sender, err := svc.users.FindByEmail(ctx, senderEmail)
	if err != nil {
		return svc.fail("get eligible recipients", err)
	}
	if sender == nil {
		return notFoundResult(MsgUserNotFound, senderEmail)
	}

	friendEdges, err := svc.friends.FindByUser(ctx, sender.ID)
	if err != nil {
		return svc.fail("get eligible recipients", err)
	}
	subEdges, err := svc.subs.FindBySubscriber(ctx, sender.ID)
	if err != nil {
		return svc.fail("get eligible recipients", err)
	}

	// Friends first, then subscription targets, deduplicated by id in
	// first-seen order.
	seen := make(map[int64]struct{}, len(friendEdges)+len(subEdges))
	candidates := make([]int64, 0, len(friendEdges)+len(subEdges))
	for _, edge := range friendEdges {
		if _, dup := seen[edge.FriendID]; dup {
			continue
		}
		seen[edge.FriendID] = struct{}{}
		candidates = append(candidates, edge.FriendID)
	}
	for _, edge := range subEdges {
		if _, dup := seen[edge.TargetID]; dup {
			continue
		}
		seen[edge.TargetID] = struct{}{}
		candidates = append(candidates, edge.TargetID)
	}

	emails := make([]string, 0, len(candidates))
	for _, id := range candidates {
		// A candidate is excluded only when the candidate blocks the
		// sender, not the reverse.
		blk, err := svc.blocks.FindByBlockerAndBlocked(ctx, id, sender.ID)
		if err != nil {
			return svc.fail("get eligible recipients", err)
		}
		if blk != nil {
			continue
		}
		user, err := svc.users.FindByID(ctx, id)
		if err != nil {
			return svc.fail("get eligible recipients", err)
		}
		if user == nil {
			continue
		}
		emails = append(emails, user.Email)
	}

	return okResult(MsgEligibleRecipients, &FriendList{Friends: emails, Count: len(emails)})
}

// resolvePair looks up both users concurrently. A missing user is a nil
// record, not an error; the first store error cancels the other lookup.
func (svc *Service) resolvePair(ctx context.Context, email1, email2 string) (*model.User, *model.User, error) {
	var user1, user2 *model.User
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user1, err = svc.users.FindByEmail(gctx, email1)
		return err
	})
	g.Go(func() error {
		var err error
		user2, err = svc.users.FindByEmail(gctx, email2)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return user1, user2, nil
}

func (svc *Service) fail(op string, err error) *Result {
	svc.logger.Error("store failure", zap.String("op", op), zap.Error(err))
	return failureResult(err)
}

// ---- friend-list cache (best-effort; errors are logged, never surfaced) ----

func friendListKey(userID int64) string {
	return fmt.Sprintf("friendlist:%d", userID)
}

func (svc *Service) cachedFriendList(ctx context.Context, userID int64) *FriendList {
	if svc.cache == nil {
		return nil
	}
	raw, err := svc.cache.Get(ctx, friendListKey(userID))
	if err != nil {
		return nil
	}
	list := &FriendList{}
	if err := json.Unmarshal([]byte(raw), list); err != nil {
		return nil
	}
	return list
}

func (svc *Service) storeFriendList(ctx context.Context, userID int64, list *FriendList) {
	if svc.cache == nil {
		return
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return
	}
	if err := svc.cache.Set(ctx, friendListKey(userID), string(raw), svc.FriendListTTL); err != nil {
		svc.logger.Warn("friend list cache write failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (svc *Service) dropFriendList(ctx context.Context, userID int64) {
	if svc.cache == nil {
		return
	}
	if err := svc.cache.Del(ctx, friendListKey(userID)); err != nil {
		svc.logger.Warn("friend list cache invalidation failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}
