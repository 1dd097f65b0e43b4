package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/nurpe/icontrol-orders/internal/events"
)

func TestHubDeliversPublishedEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/ws", hub.HandleWebSocket)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := hub.Publish(ctx, events.OrderEvent{Type: events.OrderCreated, OrderID: "OS-001"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var msg struct {
		Type string            `json:"type"`
		Data events.OrderEvent `json:"data"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != events.OrderCreated || msg.Data.OrderID != "OS-001" {
		t.Errorf("got %+v", msg)
	}
}

func TestBroadcastWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	for i := 0; i < sendBuffer+10; i++ {
		hub.Broadcast("ping", i)
	}
	if hub.ClientCount() != 0 {
		t.Fatal("no clients expected")
	}
}

func TestHubStopsAcceptingClientsAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	finished := make(chan bool)
	go func() {
		c := &client{hub: hub, send: make(chan Message, 1)}
		hub.remove(c)
		finished <- hub.add(c)
	}()

	select {
	case added := <-finished:
		if added {
			t.Error("client registered with a stopped hub")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("register or unregister blocked after shutdown")
	}
}
