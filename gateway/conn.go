package gateway

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"chat-core/domain/event"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	maxFrameSize = 4096
	pingInterval = (pongWait * 9) / 10
)

// Conn is one authenticated live connection. Inbound frames are limited to
// typing events; everything else the client needs travels over HTTP.
type Conn struct {
	gw     *Gateway
	ws     *websocket.Conn
	send   chan []byte
	userID string
}

func newConn(gw *Gateway, ws *websocket.Conn, userID string, sendBuffer int) *Conn {
	return &Conn{
		gw:     gw,
		ws:     ws,
		send:   make(chan []byte, sendBuffer),
		userID: userID,
	}
}

// readPump consumes inbound frames until the transport closes, relaying
// typing events through the gateway. Malformed frames are dropped, not
// fatal: typing indicators are too low-stakes to tear a connection down for.
func (c *Conn) readPump() {
	defer func() {
		c.gw.release(c)
		_ = c.ws.Close()
	}()
	c.ws.SetReadLimit(maxFrameSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		env, err := event.Decode(raw)
		if err != nil {
			c.gw.log.Debug("dropping malformed frame", "user_id", c.userID, "error", err)
			continue
		}
		switch env.Type {
		case event.TypeTypingStart, event.TypeTypingStop:
			var typing event.Typing
			if err := sonic.Unmarshal(env.Payload, &typing); err != nil {
				c.gw.log.Debug("dropping malformed typing payload", "user_id", c.userID, "error", err)
				continue
			}
			typing.Stop = env.Type == event.TypeTypingStop
			c.gw.relayTyping(c.userID, typing)
		default:
			c.gw.log.Debug("dropping unsupported inbound event",
				"user_id", c.userID, "type", env.Type)
		}
	}
}

// writePump drains the send channel onto the wire and keeps the connection
// alive with pings.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case frame, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
