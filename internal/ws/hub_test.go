package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h
}

func TestHub_NotifyUserFansOut(t *testing.T) {
	h := startHub(t)
	a1 := NewClient(h, nil, 1)
	a2 := NewClient(h, nil, 1)
	b := NewClient(h, nil, 2)
	h.Register(a1)
	h.Register(a2)
	h.Register(b)
	require.Eventually(t, func() bool { return h.Connections() == 3 }, time.Second, 5*time.Millisecond)

	h.NotifyUser(1, Event{Type: EventInquiryCreated, Data: map[string]uint{"inquiryId": 9}})

	for _, c := range []*Client{a1, a2} {
		select {
		case raw := <-c.Send:
			var got map[string]any
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, EventInquiryCreated, got["type"])
			assert.NotEmpty(t, got["sent_at"])
		case <-time.After(time.Second):
			t.Fatal("no event delivered")
		}
	}
	assert.Empty(t, b.Send)
}

func TestHub_OfflineUserIsNoop(t *testing.T) {
	h := startHub(t)
	assert.NotPanics(t, func() { h.NotifyUser(42, Event{Type: EventInquiryStatusChanged}) })
	assert.False(t, h.IsUserOnline(42))
}

func TestHub_DropsSlowClient(t *testing.T) {
	h := startHub(t)
	c := NewClient(h, nil, 5)
	h.Register(c)
	require.Eventually(t, func() bool { return h.IsUserOnline(5) }, time.Second, 5*time.Millisecond)

	for i := 0; i < sendBuffer+1; i++ {
		h.NotifyUser(5, Event{Type: EventInquiryCreated})
	}
	assert.False(t, h.IsUserOnline(5))

	// Draining ends with a closed channel.
	n := 0
	for range c.Send {
		n++
	}
	assert.Equal(t, sendBuffer, n)
}

func TestHub_UnregisterAndShutdown(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	c1 := NewClient(h, nil, 1)
	c2 := NewClient(h, nil, 2)
	h.Register(c1)
	h.Register(c2)
	h.Unregister(c1)
	require.Eventually(t, func() bool { return h.Connections() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return h.Connections() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-c2.Send
	assert.False(t, ok)

	// Late registrations after shutdown do not block.
	late := NewClient(h, nil, 3)
	h.Register(late)
	_, ok = <-late.Send
	assert.False(t, ok)
}
