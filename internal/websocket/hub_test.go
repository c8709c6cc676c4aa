package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	ws "github.com/coder/websocket"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockClient has a send buffer but no connection.
func mockClient(hub *Hub) *Client {
	return &Client{hub: hub, send: make(chan Message, sendBufferSize)}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(testLogger())
	c1, c2 := mockClient(hub), mockClient(hub)

	hub.Register(c1)
	hub.Register(c2)
	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.Unregister(c1)
	hub.Unregister(c1)
	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client, got %d", got)
	}
	if _, ok := <-c1.send; ok {
		t.Error("expected send channel to be closed")
	}
}

func TestBroadcast(t *testing.T) {
	hub := NewHub(testLogger())
	c1, c2 := mockClient(hub), mockClient(hub)
	hub.Register(c1)
	hub.Register(c2)

	hub.Broadcast(NewMessage(EntityPurchaseItem, ActionCreated, "abc-123", map[string]any{"purchaseListId": "list-1"}))

	for _, c := range []*Client{c1, c2} {
		select {
		case got := <-c.send:
			if got.Type != "purchase_item_created" {
				t.Errorf("type = %q, want purchase_item_created", got.Type)
			}
			if got.ID != "abc-123" {
				t.Errorf("id = %q, want abc-123", got.ID)
			}
			if got.Extra["purchaseListId"] != "list-1" {
				t.Errorf("extra = %v", got.Extra)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for message")
		}
	}
}

func TestBroadcastFullBuffer(t *testing.T) {
	hub := NewHub(testLogger())
	c := mockClient(hub)
	hub.Register(c)

	for range sendBufferSize + 3 {
		hub.Broadcast(NewMessage(EntityItem, ActionUpdated, "x", nil))
	}

	if got := len(c.send); got != sendBufferSize {
		t.Errorf("buffered %d messages, want %d", got, sendBufferSize)
	}
}

func TestCloseDisconnectsClients(t *testing.T) {
	hub := NewHub(testLogger())
	c := mockClient(hub)
	hub.Register(c)

	hub.Close()

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
	if _, ok := <-c.send; ok {
		t.Error("expected send channel to be closed")
	}
	// The client's own cleanup must not panic.
	hub.Unregister(c)
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(testLogger())
	var wg sync.WaitGroup

	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := mockClient(hub)
			hub.Register(c)
			hub.Broadcast(NewMessage(EntityHistory, ActionCleared, "", nil))
			hub.Unregister(c)
		}()
	}
	wg.Wait()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("expected 0 clients, got %d", got)
	}
}

func TestHandlerDeliversBroadcasts(t *testing.T) {
	hub := NewHub(testLogger())
	srv := httptest.NewServer(Handler(hub, nil, testLogger()))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Broadcast(NewMessage(EntityCategory, ActionDeleted, "cat-1", nil))

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got Message
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "category_deleted" || got.ID != "cat-1" {
		t.Errorf("got %+v", got)
	}

	hub.Close()
	_, _, err = conn.Read(ctx)
	if status := ws.CloseStatus(err); status != ws.StatusGoingAway {
		t.Errorf("close status = %v (err %v), want StatusGoingAway", status, err)
	}
}
