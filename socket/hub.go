package socket

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"

	"docsync/pkg/logger"

	"github.com/gorilla/websocket"
)

const (
	// Inbound event name for the raw client broadcast path.
	EventNewDocument = "new_document"

	// Outbound event names. The raw path and the create mutation share
	// EventDocumentAdded; update and delete carry their own names.
	EventDocumentAdded   = "document_added"
	EventDocumentUpdated = "document_updated"
	EventDocumentDeleted = "document_deleted"
)

// Event is the wire envelope for the real-time channel. Events are
// ephemeral: never stored, never replayed to a client that connects after
// emission.
type Event struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Hub owns the registry of live connections and fans every published event
// out to all of them, including the client that caused it. Registry
// mutations happen only in the Run goroutine; the mutex covers reads from
// other goroutines.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan Event

	clients  map[*Client]bool
	mu       sync.Mutex
	dropped  atomic.Int64
	upgrader websocket.Upgrader
}

// NewHub builds a hub whose websocket upgrades are restricted to the given
// origin. Requests without an Origin header (non-browser clients) are
// allowed through.
func NewHub(allowedOrigin string) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan Event),
		clients:    make(map[*Client]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
	}
}

// Publish hands an event to the hub for delivery to every live connection.
// It returns as soon as the hub goroutine has accepted the event; delivery
// to slow or unreachable connections never blocks the caller.
func (h *Hub) Publish(evt Event) {
	h.Broadcast <- evt
}

// Dropped reports how many frames have been discarded because a
// connection's outbound queue overflowed.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// ClientCount reports the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Sugar.Infof("Client %s connected (%d total)", client.RemoteAddr, total)

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				logger.Sugar.Infof("Client %s disconnected (%d total)", client.RemoteAddr, len(h.clients))
			}
			h.mu.Unlock()

		case evt := <-h.Broadcast:
			payload, err := json.Marshal(evt)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling broadcast event: %v", err)
				continue
			}
			// Enqueue is non-blocking, so holding the lock across the
			// whole fan-out is fine and keeps delivery FIFO per client.
			h.mu.Lock()
			for client := range h.clients {
				client.enqueue(payload)
			}
			h.mu.Unlock()
		}
	}
}

// enqueue appends a frame to the client's bounded outbound queue. On
// overflow the oldest queued frame is evicted so the slow consumer stays
// connected but loses history. Delivery is at-most-once, best-effort.
//
// Only the hub goroutine calls enqueue, and only the hub goroutine closes
// Send, so there is no send-on-closed race.
func (c *Client) enqueue(frame []byte) {
	select {
	case c.Send <- frame:
		return
	default:
	}
	// Queue full. Evict the oldest frame; writePump may win the receive
	// race, which frees a slot just the same.
	select {
	case <-c.Send:
		c.Hub.dropped.Add(1)
		logger.Sugar.Warnf("Client %s is lagging, dropped oldest queued event", c.RemoteAddr)
	default:
	}
	select {
	case c.Send <- frame:
	default:
		c.Hub.dropped.Add(1)
	}
}
