// Package ws is the transport adapter: it owns the websocket connections
// and forwards their lifecycle events into the presence registry.
package ws

import (
	"context"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"

	"notify-hub/internal/presence"
)

// SessionListener receives logical session events decoded from the wire.
// The connect callback runs storage work (recipient upsert, unseen
// replay), hence the context.
type SessionListener interface {
	UserConnected(ctx context.Context, userID string, handle presence.Handle)
}

type Hub struct {
	registry *presence.Registry
	listener SessionListener

	mu      sync.Mutex
	clients map[*Client]struct{}
}

func NewHub(registry *presence.Registry) *Hub {
	return &Hub{
		registry: registry,
		clients:  make(map[*Client]struct{}),
	}
}

// SetListener wires the session listener; must be called before Serve.
func (h *Hub) SetListener(l SessionListener) {
	h.listener = l
}

// Serve runs a websocket connection to completion. Used as the
// gofiber/websocket handler for the /ws route.
func (h *Hub) Serve(conn *websocket.Conn) {
	client := newClient(conn)

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	go client.writePump()
	client.readPump(h)
}

// Broadcast sends a payload to every open connection, reachable user or
// not; per-user read state is handled upstream by the dispatcher.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if err := client.Send(payload); err != nil {
			log.Printf("ws: broadcast to stale client: %v", err)
		}
	}
}

func (h *Hub) connectUser(userID string, client *Client) {
	h.registry.Connect(userID, client)
	if h.listener != nil {
		h.listener.UserConnected(context.Background(), userID, client)
	}
}

func (h *Hub) disconnectUser(userID string) {
	h.registry.Disconnect(userID)
}

// drop handles a transport-level close: the socket is gone, so any user
// still bound to it becomes unreachable.
func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	delete(h.clients, client)
	h.mu.Unlock()

	h.registry.DisconnectHandle(client)
}
