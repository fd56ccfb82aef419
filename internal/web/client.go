package web

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 1 << 20
)

// client pumps one websocket. The reader only decodes and enqueues hub
// commands; the writer drains the channel the hub gave it.
type client struct {
	id       string
	conn     *websocket.Conn
	send     <-chan []byte
	hub      *Hub
	rankProp string
	valid    *validator
	log      *zap.Logger
}

func (c *client) readPump() {
	defer func() {
		c.hub.Unregister(c.id)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("websocket read", zap.Error(err))
			}
			return
		}
		in, err := c.valid.decode(data)
		if err != nil {
			c.hub.Reject(c.id, err)
			continue
		}
		res, err := in.pickResult(c.rankProp)
		if err != nil {
			c.hub.Reject(c.id, err)
			continue
		}
		// rejected picks are already reported to the client by the hub
		_ = c.hub.Pick(c.id, res)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Debug("websocket write", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
