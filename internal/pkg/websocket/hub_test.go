package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func waitForClients(t *testing.T, hub *Hub, topic string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount(topic) != want {
		if time.Now().After(deadline) {
			t.Fatalf("clients on %s: got=%d want=%d", topic, hub.ClientCount(topic), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func dialRankings(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/rankings/live", NewHandler(hub, nil, zerolog.Nop()).RankingsLive)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/rankings/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestRankingSubscriberReceivesUpdate(t *testing.T) {
	hub := startHub(t)
	conn := dialRankings(t, hub)
	waitForClients(t, hub, TopicRankings, 1)

	hub.Publish(&Event{Type: EventRankingsUpdated, Topic: TopicRankings})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var got Event
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Type != EventRankingsUpdated || got.Topic != TopicRankings || got.Timestamp.IsZero() {
		t.Fatalf("unexpected event: %+v", got)
	}
}

func TestClientUnregisteredOnClose(t *testing.T) {
	hub := startHub(t)
	conn := dialRankings(t, hub)
	waitForClients(t, hub, TopicRankings, 1)

	conn.Close()
	waitForClients(t, hub, TopicRankings, 0)
}

func TestOtherTopicsDoNotReceive(t *testing.T) {
	hub := startHub(t)
	conn := dialRankings(t, hub)
	waitForClients(t, hub, TopicRankings, 1)

	hub.Publish(&Event{Type: "reviews.updated", Topic: "reviews"})

	_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected no message for another topic")
	}
}

type stubInvalidator struct {
	calls int
	err   error
}

func (s *stubInvalidator) Invalidate(context.Context) error {
	s.calls++
	return s.err
}

func TestRankingNotifier(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	next := &stubInvalidator{err: errors.New("redis down")}
	n := NewRankingNotifier(next, hub)

	if err := n.Invalidate(context.Background()); err == nil {
		t.Fatal("expected the wrapped error")
	}
	if next.calls != 1 {
		t.Fatalf("calls: got=%d want=1", next.calls)
	}

	select {
	case ev := <-hub.broadcast:
		if ev.Type != EventRankingsUpdated {
			t.Fatalf("type: got=%s", ev.Type)
		}
	default:
		t.Fatal("expected a queued event")
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	for i := 0; i < cap(hub.broadcast)+10; i++ {
		hub.Publish(&Event{Type: EventRankingsUpdated, Topic: TopicRankings})
	}
	if len(hub.broadcast) != cap(hub.broadcast) {
		t.Fatalf("queue: got=%d want=%d", len(hub.broadcast), cap(hub.broadcast))
	}
}

func TestUpgraderOrigins(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"no list", nil, "http://evil.example", true},
		{"listed", []string{"http://localhost:3000"}, "http://localhost:3000", true},
		{"not listed", []string{"http://localhost:3000"}, "http://evil.example", false},
		{"wildcard", []string{"*"}, "http://any.example", true},
		{"no origin header", []string{"http://localhost:3000"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/rankings/live", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := newUpgrader(tt.allowed).CheckOrigin(req); got != tt.want {
				t.Fatalf("CheckOrigin: got=%v want=%v", got, tt.want)
			}
		})
	}
}
