package ws

import (
	"context"
	"testing"
	"time"
)

func receive(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg := <-ch:
		return string(msg)
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for message")
		return ""
	}
}

func TestHubBroadcastReachesRegisteredClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	a := &client{hub: hub, send: make(chan []byte, 8)}
	b := &client{hub: hub, send: make(chan []byte, 8)}
	hub.register <- a
	hub.register <- b

	hub.Broadcast("refresh")

	if got := receive(t, a.send); got != "refresh" {
		t.Fatalf("client a: expected %q, got %q", "refresh", got)
	}
	if got := receive(t, b.send); got != "refresh" {
		t.Fatalf("client b: expected %q, got %q", "refresh", got)
	}
}

func TestHubUnregisteredClientSkipped(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	a := &client{hub: hub, send: make(chan []byte, 8)}
	b := &client{hub: hub, send: make(chan []byte, 8)}
	hub.register <- a
	hub.register <- b
	hub.unregister <- b

	hub.Broadcast("refresh")

	if got := receive(t, a.send); got != "refresh" {
		t.Fatalf("client a: expected %q, got %q", "refresh", got)
	}

	// b's send channel is closed on unregister; a zero read means no
	// message was delivered.
	if msg, ok := <-b.send; ok {
		t.Fatalf("unregistered client received %q", string(msg))
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	slow := &client{hub: hub, send: make(chan []byte)} // unbuffered, never read
	hub.register <- slow

	hub.Broadcast("refresh")

	select {
	case _, ok := <-slow.send:
		if ok {
			t.Fatalf("expected channel close, got message")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for slow client to be dropped")
	}
}
