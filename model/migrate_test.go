package model_test

import (
	"testing"

	"github.com/socialnet/friendship/server/model"
	"github.com/socialnet/friendship/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoMigrate_InsertAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)

	// User
	user := &model.User{Email: "andy@example.com"}
	require.NoError(t, db.Create(user).Error)
	assert.Greater(t, user.ID, int64(0))

	friend := &model.User{Email: "john@example.com"}
	require.NoError(t, db.Create(friend).Error)

	var found model.User
	require.NoError(t, db.First(&found, user.ID).Error)
	assert.Equal(t, "andy@example.com", found.Email)

	// Friendship
	edge := &model.Friendship{UserID: user.ID, FriendID: friend.ID, Status: model.StatusAccepted}
	require.NoError(t, db.Create(edge).Error)
	assert.Greater(t, edge.ID, int64(0))

	// Subscription
	sub := &model.Subscription{SubscriberID: user.ID, TargetID: friend.ID}
	require.NoError(t, db.Create(sub).Error)

	// Block
	blk := &model.Block{BlockerID: friend.ID, BlockedID: user.ID}
	require.NoError(t, db.Create(blk).Error)

	// AuditLog
	al := &model.AuditLog{TraceID: "trace-001", Action: "connect"}
	require.NoError(t, db.Create(al).Error)
}

func TestUser_EmailUnique(t *testing.T) {
	db := testutil.SetupTestDB(t)

	require.NoError(t, db.Create(&model.User{Email: "dup@example.com"}).Error)
	err := db.Create(&model.User{Email: "dup@example.com"}).Error
	assert.Error(t, err, "duplicate email must be rejected")
}
