package ws

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

var ErrClientGone = errors.New("client connection closed")

// Client wraps one websocket connection. It satisfies presence.Handle:
// services push through Send without knowing about websockets.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

// Send queues a payload for delivery. It never blocks: a full buffer or a
// closed connection yields ErrClientGone and the caller treats the push
// as a transport failure.
func (c *Client) Send(payload []byte) error {
	select {
	case <-c.done:
		return ErrClientGone
	default:
	}

	select {
	case c.send <- payload:
		return nil
	default:
		return ErrClientGone
	}
}

// writePump drains the send queue onto the wire and keeps the connection
// alive with pings. One writer goroutine per connection; the websocket
// library forbids concurrent writers.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// readPump consumes inbound frames until the connection drops, forwarding
// logical events to the hub. Runs on the fiber handler goroutine.
func (c *Client) readPump(hub *Hub) {
	defer func() {
		close(c.done)
		hub.drop(c)
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws: read error: %v", err)
			}
			return
		}

		var frame InboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			log.Printf("ws: malformed frame: %v", err)
			continue
		}
		if frame.UserID == "" {
			continue
		}

		switch frame.Event {
		case EventConnectUser:
			hub.connectUser(frame.UserID, c)
		case EventDisconnectUser:
			hub.disconnectUser(frame.UserID)
		}
	}
}
