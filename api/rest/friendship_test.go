package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/socialnet/friendship/server/api/rest"
	"github.com/socialnet/friendship/server/audit"
	"github.com/socialnet/friendship/server/model"
	"github.com/socialnet/friendship/server/social"
	"github.com/socialnet/friendship/server/store"
	"github.com/socialnet/friendship/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newFriendshipSetup(t *testing.T) (*gin.Engine, *gorm.DB, *audit.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.SetupTestDB(t)
	c, ps := testutil.SetupTestCache(t)
	logger, _ := zap.NewDevelopment()

	svc := social.NewService(
		store.NewUsers(db),
		store.NewFriendships(db),
		store.NewSubscriptions(db),
		store.NewBlocks(db),
		c, ps, logger,
	)
	auditSvc := audit.New(db, logger)
	t.Cleanup(func() { auditSvc.Stop(context.Background()) })

	r := gin.New()
	rest.NewFriendshipHandler(svc, auditSvc).RegisterRoutes(r)
	return r, db, auditSvc
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestFriendList_OK(t *testing.T) {
	r, db, _ := newFriendshipSetup(t)
	andy := seedUser(t, db, "andy@example.com")
	john := seedUser(t, db, "john@example.com")
	require.NoError(t, db.Create(&model.Friendship{UserID: andy.ID, FriendID: john.ID, Status: model.StatusAccepted}).Error)

	w := postJSON(r, "/v1/user/friends", map[string]string{"email": "andy@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success string `json:"success"`
		Message string `json:"message"`
		Result  struct {
			Friends []string `json:"friends"`
			Count   int      `json:"count"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "true", resp.Success)
	assert.Equal(t, "Friend list retrieved successfully.", resp.Message)
	assert.Equal(t, []string{"john@example.com"}, resp.Result.Friends)
	assert.Equal(t, 1, resp.Result.Count)
}

func TestFriendList_InvalidEmail(t *testing.T) {
	r, _, _ := newFriendshipSetup(t)

	w := postJSON(r, "/v1/user/friends", map[string]string{"email": "bogus"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "false", resp["success"])
	assert.Equal(t, "Invalid email format {bogus}. Please provide a valid email.", resp["message"])
}

func TestFriendList_MalformedBody(t *testing.T) {
	r, _, _ := newFriendshipSetup(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/user/friends", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommon_OK(t *testing.T) {
	r, db, _ := newFriendshipSetup(t)
	andy := seedUser(t, db, "andy@example.com")
	john := seedUser(t, db, "john@example.com")
	common := seedUser(t, db, "common@example.com")
	require.NoError(t, db.Create(&model.Friendship{UserID: andy.ID, FriendID: common.ID, Status: model.StatusAccepted}).Error)
	require.NoError(t, db.Create(&model.Friendship{UserID: john.ID, FriendID: common.ID, Status: model.StatusAccepted}).Error)

	w := postJSON(r, "/v1/user/common", map[string]string{
		"email1": "andy@example.com",
		"email2": "john@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Common Friend list retrieved successfully.", resp["message"])
}

func TestConnect_CreatesAndAudits(t *testing.T) {
	r, db, auditSvc := newFriendshipSetup(t)
	seedUser(t, db, "andy@example.com")
	seedUser(t, db, "john@example.com")

	w := postJSON(r, "/v1/user/connect", map[string]string{
		"email1": "andy@example.com",
		"email2": "john@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "The connection is established successfully.", resp["message"])

	var edges int64
	db.Model(&model.Friendship{}).Count(&edges)
	assert.Equal(t, int64(1), edges)

	// Flush the audit worker and check the mutation was recorded.
	auditSvc.Stop(context.Background())
	var logs []model.AuditLog
	db.Find(&logs)
	require.Len(t, logs, 1)
	assert.Equal(t, "connect", logs[0].Action)
}

func TestSubscribe_OK(t *testing.T) {
	r, db, _ := newFriendshipSetup(t)
	seedUser(t, db, "andy@example.com")
	seedUser(t, db, "john@example.com")

	w := postJSON(r, "/v1/user/subscribe", map[string]string{
		"email1": "andy@example.com",
		"email2": "john@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Subscribed successfully.", resp["message"])
}

func TestBlock_OK(t *testing.T) {
	r, db, _ := newFriendshipSetup(t)
	seedUser(t, db, "andy@example.com")
	seedUser(t, db, "john@example.com")

	w := postJSON(r, "/v1/user/block", map[string]string{
		"email1": "andy@example.com",
		"email2": "john@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "{andy@example.com} blocks {john@example.com} successfully.", resp["message"])
}

func TestUpdatable_OK(t *testing.T) {
	r, db, _ := newFriendshipSetup(t)
	andy := seedUser(t, db, "andy@example.com")
	john := seedUser(t, db, "john@example.com")
	require.NoError(t, db.Create(&model.Subscription{SubscriberID: andy.ID, TargetID: john.ID}).Error)

	w := postJSON(r, "/v1/user/updatable", map[string]string{"email": "andy@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string `json:"message"`
		Result  struct {
			Friends []string `json:"friends"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Retrieves the list successfully.", resp.Message)
	assert.Equal(t, []string{"john@example.com"}, resp.Result.Friends)
}

func TestUpdatable_UnknownUserIsOK(t *testing.T) {
	r, _, _ := newFriendshipSetup(t)

	w := postJSON(r, "/v1/user/updatable", map[string]string{"email": "ghost@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "true", resp["success"])
	assert.Equal(t, "Cannot find email {ghost@example.com}. Please try another email", resp["message"])
}
