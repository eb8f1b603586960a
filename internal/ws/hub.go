package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"grocigo/internal/events"
	"grocigo/pkg/logger"

	"github.com/gofiber/contrib/websocket"
)

// ErrBroadcastFull is returned by Notify when the hub is not keeping up.
var ErrBroadcastFull = errors.New("ws broadcast buffer full")

// Client is the part of a websocket connection the hub writes to.
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub fans committed stock and order events out to every connected socket.
type Hub struct {
	clients    map[Client]bool
	Register   chan Client
	Unregister chan Client
	Broadcast  chan []byte
	mutex      sync.Mutex
	log        *logger.Logger
	// done is closed when Run returns; nothing reads Register or Unregister after that.
	done chan struct{}
}

var _ events.Notifier = (*Hub)(nil)

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients:    make(map[Client]bool),
		Register:   make(chan Client),
		Unregister: make(chan Client),
		Broadcast:  make(chan []byte, 256),
		log:        log,
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.clients {
				_ = conn.Close()
				delete(h.clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			h.log.Info(ctx, "ws client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				_ = conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					_ = conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Add registers conn. Once the hub has stopped it closes conn and returns false.
func (h *Hub) Add(conn Client) bool {
	select {
	case h.Register <- conn:
		return true
	case <-h.done:
		_ = conn.Close()
		return false
	}
}

// Remove unregisters conn. It never blocks after the hub has stopped.
func (h *Hub) Remove(conn Client) {
	select {
	case h.Unregister <- conn:
	case <-h.done:
	}
}

// ClientCount reports how many sockets are connected.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Notify queues ev for broadcast without blocking the caller.
func (h *Hub) Notify(ctx context.Context, ev events.Event) error {
	msg, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal ws event: %w", err)
	}
	select {
	case h.Broadcast <- msg:
		return nil
	default:
		h.log.Warn(ctx, "dropping ws event", ErrBroadcastFull)
		return ErrBroadcastFull
	}
}
