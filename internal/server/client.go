package server

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"skullking-game/internal/protocol"
)

// Client represents a single WebSocket connection.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	ID       string // connection id
	PlayerID int    // 0 until the client joins the table
	Name     string
}

func (c *Client) logger() *logrus.Entry {
	return logrus.WithField("client", c.ID)
}

// ReadPump handles incoming messages from the WebSocket connection.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregisterClient(c)
		c.conn.Close()
	}()

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger().WithError(err).Warn("Unexpected close.")
			}
			break
		}

		var msg protocol.Message
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			c.logger().WithError(err).Warn("Error unmarshalling message.")
			continue
		}

		if msg.Type != protocol.TypePing {
			c.logger().Debugf("Received message type '%s'.", msg.Type)
		}
		if !c.hub.submit(c, msg) {
			return
		}
	}
}

// WritePump handles outgoing messages to the WebSocket connection. It
// returns when the hub closes the send channel or stops.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger().WithError(err).Warn("Write error.")
				return
			}
		case <-c.hub.done:
			return
		}
	}
}
