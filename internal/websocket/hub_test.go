package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func receive(t *testing.T, c *Client) Event {
	select {
	case raw, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var ev Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestHub_PublishReachesEveryConnectionOfSession(t *testing.T) {
	hub := startHub(t)
	tab1 := NewClient(hub, nil, "s1")
	tab2 := NewClient(hub, nil, "s1")
	other := NewClient(hub, nil, "s2")
	hub.Register(tab1)
	hub.Register(tab2)
	hub.Register(other)
	require.Eventually(t, func() bool { return hub.ConnectionCount() == 3 }, time.Second, 5*time.Millisecond)

	hub.Publish(Event{Type: EventCartUpdated, SessionID: "s1", Data: map[string]int{"count": 2}})

	for _, c := range []*Client{tab1, tab2} {
		ev := receive(t, c)
		assert.Equal(t, EventCartUpdated, ev.Type)
		assert.False(t, ev.At.IsZero())
	}
	assert.Len(t, other.Send, 0)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	c := NewClient(hub, nil, "s1")
	hub.Register(c)
	require.Eventually(t, func() bool { return hub.HasClients("s1") }, time.Second, 5*time.Millisecond)

	hub.Unregister(c)
	require.Eventually(t, func() bool { return !hub.HasClients("s1") }, time.Second, 5*time.Millisecond)

	_, ok := <-c.Send
	assert.False(t, ok)

	// a second unregister is ignored
	hub.Unregister(c)
}

func TestHub_ImmediateDisconnectLeavesNoClient(t *testing.T) {
	hub := NewHub()

	clients := make([]*Client, 100)
	for i := range clients {
		clients[i] = NewClient(hub, nil, "s1")
		hub.Register(clients[i])
		hub.Unregister(clients[i])
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	for _, c := range clients {
		select {
		case _, ok := <-c.Send:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("send channel never closed")
		}
	}
	assert.Equal(t, 0, hub.ConnectionCount())
	assert.False(t, hub.HasClients("s1"))
}

func TestHub_PublishWithoutListenersIsDropped(t *testing.T) {
	hub := NewHub()
	hub.Publish(Event{Type: EventFavoritesUpdated, SessionID: "nobody"})
	assert.Len(t, hub.broadcast, 0)
}

func TestHub_PingGetsPong(t *testing.T) {
	hub := startHub(t)
	c := NewClient(hub, nil, "s1")
	hub.Register(c)
	require.Eventually(t, func() bool { return hub.HasClients("s1") }, time.Second, 5*time.Millisecond)

	hub.HandleClientMessage(c, []byte(`{"type":"ping"}`))
	assert.Equal(t, EventPong, receive(t, c).Type)

	// unknown and malformed messages are ignored
	hub.HandleClientMessage(c, []byte(`{"type":"subscribe"}`))
	hub.HandleClientMessage(c, []byte(`not json`))
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, c.Send, 0)
}

func TestHub_RateLimit(t *testing.T) {
	hub := startHub(t)
	c := NewClient(hub, nil, "s1")
	hub.Register(c)
	require.Eventually(t, func() bool { return hub.HasClients("s1") }, time.Second, 5*time.Millisecond)

	for i := 0; i < maxMessagesPerSecond+5; i++ {
		hub.HandleClientMessage(c, []byte(`{"type":"ping"}`))
	}
	require.Eventually(t, func() bool { return len(c.Send) == maxMessagesPerSecond }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, c.Send, maxMessagesPerSecond)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	c := NewClient(hub, nil, "s1")
	hub.Register(c)
	require.Eventually(t, func() bool { return hub.HasClients("s1") }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	_, ok := <-c.Send
	assert.False(t, ok)
	assert.Equal(t, 0, hub.ConnectionCount())
}
