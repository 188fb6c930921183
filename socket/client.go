package socket

import (
	"encoding/json"
	"net/http"
	"time"

	"docsync/pkg/apperr"
	"docsync/pkg/logger"

	"github.com/gorilla/websocket"
)

// sendQueueSize bounds the per-connection outbound queue. Overflow evicts
// the oldest frame, counted by Hub.Dropped.
const sendQueueSize = 256

type Client struct {
	Hub        *Hub
	Conn       *websocket.Conn
	Send       chan []byte
	RemoteAddr string
}

// ServeWs upgrades the request to a websocket connection and registers it
// with the hub. A new client receives no backlog, only events published
// from this point on.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Sugar.Errorf("Websocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		Hub:        hub,
		Conn:       conn,
		Send:       make(chan []byte, sendQueueSize),
		RemoteAddr: conn.RemoteAddr().String(),
	}
	client.Hub.Register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, rawMessage, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Sugar.Errorf("Websocket read error: %v", err)
			}
			break
		}

		var evt Event
		if err := json.Unmarshal(rawMessage, &evt); err != nil {
			logger.Sugar.Errorf("Error unmarshalling client event: %v", err)
			continue
		}

		// The raw broadcast path: a client may announce a document
		// directly, bypassing the store. The payload is rebroadcast
		// verbatim to every connection, the sender included. Nothing
		// checks that a persisted document backs it, so clients must
		// treat these frames as a UI hint and the store as the source
		// of truth on their next fetch.
		if evt.Event == EventNewDocument {
			c.Hub.Broadcast <- Event{Event: EventDocumentAdded, Payload: evt.Payload}
			continue
		}
		logger.Sugar.Warnf("Ignoring unknown client event %q", evt.Event)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			if !ok {
				// Hub closed the queue on unregister.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.writeFrame(frame); err != nil {
				// Swallowed here; a dead connection never affects
				// other clients or the mutation path.
				logger.Sugar.Warnf("Dropping client %s: %v", c.RemoteAddr, err)
				return
			}
		case <-ticker.C:
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// writeFrame sends one frame to the peer, reporting a transport fault as a
// ChannelError.
func (c *Client) writeFrame(frame []byte) error {
	if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return &apperr.ChannelError{Err: err}
	}
	return nil
}
