package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	apirest "github.com/socialnet/friendship/server/api/rest"
	"github.com/socialnet/friendship/server/api/sse"
	"github.com/socialnet/friendship/server/cache"
	mw "github.com/socialnet/friendship/server/middleware"
	"github.com/socialnet/friendship/server/model"
	"github.com/socialnet/friendship/server/social"
	"github.com/socialnet/friendship/server/store"
	"github.com/socialnet/friendship/server/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// TestServer wraps a real HTTP server with the full service wired together.
type TestServer struct {
	DB     *gorm.DB
	Cache  cache.Cache
	PubSub cache.PubSub
	Svc    *social.Service
	Server *httptest.Server
	URL    string
}

// NewTestServer creates a fully wired server for integration testing.
// It mirrors the dependency wiring in main.go.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	c, pubsub := testutil.SetupTestCache(t)
	logger := zap.NewNop()

	svc := social.NewService(
		store.NewUsers(db),
		store.NewFriendships(db),
		store.NewSubscriptions(db),
		store.NewBlocks(db),
		c, pubsub, logger,
	)

	r := gin.New()
	r.Use(mw.TraceID(), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(1000), 2000))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	apirest.NewFriendshipHandler(svc, nil).RegisterRoutes(r)
	r.GET("/events", sse.NewHandler(pubsub, logger).ServeSSE)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &TestServer{
		DB:     db,
		Cache:  c,
		PubSub: pubsub,
		Svc:    svc,
		Server: server,
		URL:    server.URL,
	}
}

// Close shuts down the HTTP server.
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// SeedUser inserts a user row directly.
func (ts *TestServer) SeedUser(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email}
	require.NoError(t, ts.DB.Create(user).Error)
	return user
}

// PostJSON posts a JSON body to path and returns the response.
func (ts *TestServer) PostJSON(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

// ReadJSON decodes a response body and closes it.
func ReadJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// Envelope mirrors the wire shape of every engine response.
type Envelope struct {
	Success string `json:"success"`
	Message string `json:"message"`
	Result  struct {
		Friends []string `json:"friends"`
		Count   int      `json:"count"`
	} `json:"result"`
}
