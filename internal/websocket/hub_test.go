package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
)

func testHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testClient(hub *Hub) *Client {
	return &Client{hub: hub, send: make(chan []byte, sendBufferSize)}
}

func TestNewMessageType(t *testing.T) {
	msg := NewMessage("schedule", "created", "2026-08-24", nil)
	if msg.Type != "schedule_created" {
		t.Errorf("type = %q, want schedule_created", msg.Type)
	}
	if msg.Date != "2026-08-24" {
		t.Errorf("date = %q, want 2026-08-24", msg.Date)
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := testHub()
	c := testClient(hub)

	hub.Register(c)
	if hub.ClientCount() != 1 {
		t.Fatalf("client count = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(c)
	if hub.ClientCount() != 0 {
		t.Fatalf("client count = %d, want 0", hub.ClientCount())
	}

	// Double unregister must not panic or re-close the channel
	hub.Unregister(c)
}

func TestBroadcastDelivers(t *testing.T) {
	hub := testHub()
	a := testClient(hub)
	b := testClient(hub)
	hub.Register(a)
	hub.Register(b)

	hub.Broadcast(NewMessage("staff", "updated", "", nil))

	for _, c := range []*Client{a, b} {
		select {
		case data := <-c.send:
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("unmarshal broadcast: %v", err)
			}
			if msg.Type != "staff_updated" {
				t.Errorf("type = %q, want staff_updated", msg.Type)
			}
		default:
			t.Fatal("expected a buffered broadcast message")
		}
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := testHub()
	c := &Client{hub: hub, send: make(chan []byte)} // unbuffered, nobody reading
	hub.Register(c)

	// Must not block
	hub.Broadcast(NewMessage("staff", "updated", "", nil))
}
