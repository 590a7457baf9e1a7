package gateway

import (
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/chatterbox-online/signaling/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Client is one live websocket connection, identified by the connection ID
// minted when it was accepted.
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
}

func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

func (c *Client) push(data []byte, event models.EventType) {
	select {
	case c.send <- data:
	default:
		log.Printf("Send buffer full for connection %s, dropping %s", c.ID, event)
	}
}

// ReadMessage blocks for the next frame, refreshing the read deadline on
// pongs. The first error means the connection is gone.
func (c *Client) ReadMessage() ([]byte, error) {
	_, message, err := c.conn.ReadMessage()
	return message, err
}

// Close tears down the underlying connection.
func (c *Client) Close() {
	c.conn.Close()
}

// WritePump drains the send channel onto the wire and keeps the connection
// alive with pings. Runs as its own goroutine, one per client.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Failed to write to connection %s: %v", c.ID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// StartReadDeadlines arms the read deadline and pong handler before the
// caller enters its read loop.
func (c *Client) StartReadDeadlines() {
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
}
