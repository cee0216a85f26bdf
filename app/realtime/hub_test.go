package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	assert.Zero(t, hub.ClientCount())

	client := &Client{ID: "board-1", Send: make(chan []byte, 1)}
	hub.Register(client)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(client)
	assert.Zero(t, hub.ClientCount())

	// The send channel is closed on unregister
	_, open := <-client.Send
	assert.False(t, open)

	// Unregistering twice is harmless
	hub.Unregister(client)
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	first := &Client{ID: "board-1", Send: make(chan []byte, 1)}
	second := &Client{ID: "board-2", Send: make(chan []byte, 1)}
	hub.Register(first)
	hub.Register(second)

	hub.Broadcast([]byte(`{"event":"Queue:created"}`))

	for _, client := range []*Client{first, second} {
		select {
		case msg := <-client.Send:
			assert.JSONEq(t, `{"event":"Queue:created"}`, string(msg))
		default:
			t.Fatalf("client %s received nothing", client.ID)
		}
	}
}

func TestHubBroadcastDropsWhenClientIsFull(t *testing.T) {
	hub := NewHub()
	client := &Client{ID: "board-1", Send: make(chan []byte, 1)}
	hub.Register(client)

	hub.Broadcast([]byte("first"))
	// The buffer is full; this must not block
	hub.Broadcast([]byte("second"))

	msg := <-client.Send
	require.Equal(t, "first", string(msg))
	select {
	case extra := <-client.Send:
		t.Fatalf("unexpected extra message %q", extra)
	default:
	}
}
