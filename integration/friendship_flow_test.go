package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendshipLifecycle(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	ts.SeedUser(t, "andy@example.com")
	ts.SeedUser(t, "john@example.com")
	ts.SeedUser(t, "common@example.com")

	// 1. Friend list starts empty.
	resp := ts.PostJSON(t, "/v1/user/friends", map[string]string{"email": "andy@example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var env Envelope
	ReadJSON(t, resp, &env)
	assert.Equal(t, "true", env.Success)
	assert.Equal(t, 0, env.Result.Count)

	// 2. Connect andy to john and both to common.
	for _, pair := range [][2]string{
		{"andy@example.com", "john@example.com"},
		{"andy@example.com", "common@example.com"},
		{"john@example.com", "common@example.com"},
	} {
		resp = ts.PostJSON(t, "/v1/user/connect", map[string]string{
			"email1": pair[0], "email2": pair[1],
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		ReadJSON(t, resp, &env)
		require.Equal(t, "The connection is established successfully.", env.Message)
	}

	// 3. Friend list now has both.
	resp = ts.PostJSON(t, "/v1/user/friends", map[string]string{"email": "andy@example.com"})
	ReadJSON(t, resp, &env)
	assert.ElementsMatch(t, []string{"john@example.com", "common@example.com"}, env.Result.Friends)

	// 4. Reconnecting is a no-op with the already-friends message.
	resp = ts.PostJSON(t, "/v1/user/connect", map[string]string{
		"email1": "andy@example.com", "email2": "john@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ReadJSON(t, resp, &env)
	assert.Equal(t, "andy@example.com and john@example.com are already friends. There is no need to create a new friend connection.", env.Message)

	// 5. Common friends of andy and john.
	resp = ts.PostJSON(t, "/v1/user/common", map[string]string{
		"email1": "andy@example.com", "email2": "john@example.com",
	})
	ReadJSON(t, resp, &env)
	assert.Equal(t, []string{"common@example.com"}, env.Result.Friends)
}

func TestUpdatesFlow(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	ts.SeedUser(t, "sender@example.com")
	ts.SeedUser(t, "friend@example.com")
	ts.SeedUser(t, "watcher@example.com")

	// Friend + subscription.
	resp := ts.PostJSON(t, "/v1/user/connect", map[string]string{
		"email1": "sender@example.com", "email2": "friend@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = ts.PostJSON(t, "/v1/user/subscribe", map[string]string{
		"email1": "sender@example.com", "email2": "watcher@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var env Envelope
	resp = ts.PostJSON(t, "/v1/user/updatable", map[string]string{"email": "sender@example.com"})
	ReadJSON(t, resp, &env)
	assert.ElementsMatch(t, []string{"friend@example.com", "watcher@example.com"}, env.Result.Friends)

	// The friend blocks the sender and drops out of the recipient list.
	resp = ts.PostJSON(t, "/v1/user/block", map[string]string{
		"email1": "friend@example.com", "email2": "sender@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = ts.PostJSON(t, "/v1/user/updatable", map[string]string{"email": "sender@example.com"})
	ReadJSON(t, resp, &env)
	assert.ElementsMatch(t, []string{"watcher@example.com"}, env.Result.Friends)
}

func TestHealth(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
