package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvOne(t *testing.T, ch <-chan *LocalMessage) *LocalMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for message")
		return nil
	}
}

func TestPubSubDelivers(t *testing.T) {
	ps := NewPubSub(16)
	ctx := context.Background()

	ch, cancel, err := ps.Subscribe(ctx, "graph.events")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, ps.Publish(ctx, "graph.events", `{"type":"blocked"}`))

	msg := recvOne(t, ch)
	assert.Equal(t, "graph.events", msg.Channel)
	assert.Equal(t, `{"type":"blocked"}`, msg.Payload)
}

func TestPubSubCancelClosesChannel(t *testing.T) {
	ps := NewPubSub(16)
	ctx := context.Background()

	ch, cancel, err := ps.Subscribe(ctx, "ch")
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should be closed after cancel")
	case <-time.After(100 * time.Millisecond):
		t.Fatal("channel not closed after cancel")
	}

	// Publishing to a channel with no listeners left must not block.
	assert.NoError(t, ps.Publish(ctx, "ch", "msg"))
}

func TestPubSubFanOut(t *testing.T) {
	ps := NewPubSub(16)
	ctx := context.Background()

	ch1, cancel1, _ := ps.Subscribe(ctx, "broadcast")
	ch2, cancel2, _ := ps.Subscribe(ctx, "broadcast")
	defer cancel1()
	defer cancel2()

	require.NoError(t, ps.Publish(ctx, "broadcast", "world"))

	assert.Equal(t, "world", recvOne(t, ch1).Payload)
	assert.Equal(t, "world", recvOne(t, ch2).Payload)
}

func TestPubSubMultipleChannels(t *testing.T) {
	ps := NewPubSub(16)
	ctx := context.Background()

	ch, cancel, err := ps.Subscribe(ctx, "a", "b")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, ps.Publish(ctx, "a", "one"))
	require.NoError(t, ps.Publish(ctx, "b", "two"))

	assert.Equal(t, "one", recvOne(t, ch).Payload)
	assert.Equal(t, "two", recvOne(t, ch).Payload)
}
