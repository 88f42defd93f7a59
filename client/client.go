// Package client maintains a live connection to the realtime gateway on
// behalf of a caller: credential handling, reconnection with bounded
// backoff, and event dispatch. It deliberately buffers nothing across a
// disconnect; callers re-fetch durable state after reconnecting.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chat-core/domain/event"
)

// State is the externally visible connection state.
type State int32

const (
	StateConnecting State = iota
	StateConnected
	StateDisconnected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CredentialFunc supplies the current bearer credential. It is called again
// when the gateway rejects the previous credential, so implementations
// should return a fresh token rather than a cached rejected one.
type CredentialFunc func(ctx context.Context) (string, error)

// Config tunes the connection lifecycle.
type Config struct {
	URL         string
	Credentials CredentialFunc
	MaxAttempts int           // reconnection ceiling before StateFailed
	BaseBackoff time.Duration // first retry delay, doubles per attempt
	MaxBackoff  time.Duration // backoff cap
	Log         *slog.Logger
}

// Handler receives a decoded envelope for one subscribed event type.
type Handler func(env event.Envelope)

// Client is a single live connection with reconnection. All exported
// methods are safe for concurrent use.
type Client struct {
	cfg   Config
	state atomic.Int32

	mu       sync.RWMutex
	handlers map[string][]Handler
	ws       *websocket.Conn

	writeMu sync.Mutex

	cancel context.CancelFunc
	done   chan struct{}
}

func New(cfg Config) *Client {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 500 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Client{
		cfg:      cfg,
		handlers: make(map[string][]Handler),
		done:     make(chan struct{}),
	}
}

// State reports the current connection state.
func (c *Client) State() State {
	return State(c.state.Load())
}

// Subscribe registers a handler for one event type. Handlers run on the
// read loop goroutine; slow handlers delay subsequent events.
func (c *Client) Subscribe(eventType string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[eventType] = append(c.handlers[eventType], h)
}

// Connect starts the connection lifecycle and returns once the first
// connection attempt has resolved either way. The lifecycle then keeps
// itself alive until Close, the context ends, or the retry ceiling is hit.
func (c *Client) Connect(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	firstResult := make(chan error, 1)
	go c.run(ctx, firstResult)
	return <-firstResult
}

// Close tears the connection down and stops reconnecting.
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Lock()
	if c.ws != nil {
		_ = c.ws.Close()
	}
	c.mu.Unlock()
	<-c.done
}

// EmitTypingStart signals the peer that the caller is composing.
func (c *Client) EmitTypingStart(convID uuid.UUID) error {
	return c.emit(event.Typing{ConversationID: convID})
}

// EmitTypingStop signals the peer that the caller stopped composing.
func (c *Client) EmitTypingStop(convID uuid.UUID) error {
	return c.emit(event.Typing{ConversationID: convID, Stop: true})
}

func (c *Client) emit(e event.DeliveryEvent) error {
	c.mu.RLock()
	ws := c.ws
	c.mu.RUnlock()
	if ws == nil || c.State() != StateConnected {
		return fmt.Errorf("not connected")
	}
	frame, err := event.Encode(e)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return ws.WriteMessage(websocket.TextMessage, frame)
}

// run owns the connect/read/reconnect cycle. firstResult resolves after the
// initial attempt so Connect can report immediate failures synchronously.
func (c *Client) run(ctx context.Context, firstResult chan<- error) {
	defer close(c.done)

	reportFirst := func(err error) {
		select {
		case firstResult <- err:
		default:
		}
	}

	attempt := 0
	for {
		c.state.Store(int32(StateConnecting))

		ws, authRejected, err := c.dial(ctx)
		if err != nil && authRejected {
			// One silent credential refresh, then a single immediate retry.
			c.cfg.Log.Info("credential rejected, refreshing once")
			ws, _, err = c.dial(ctx)
		}
		if err != nil {
			reportFirst(err)
			attempt++
			if attempt >= c.cfg.MaxAttempts {
				c.cfg.Log.Warn("retry ceiling reached", "attempts", attempt)
				c.state.Store(int32(StateFailed))
				return
			}
			c.state.Store(int32(StateDisconnected))
			if !c.sleep(ctx, c.backoff(attempt)) {
				c.state.Store(int32(StateDisconnected))
				return
			}
			continue
		}

		c.mu.Lock()
		c.ws = ws
		c.mu.Unlock()
		c.state.Store(int32(StateConnected))
		attempt = 0
		reportFirst(nil)

		c.readLoop(ctx, ws)

		c.mu.Lock()
		c.ws = nil
		c.mu.Unlock()

		if ctx.Err() != nil {
			c.state.Store(int32(StateDisconnected))
			return
		}
		c.state.Store(int32(StateDisconnected))
		attempt++
		if attempt >= c.cfg.MaxAttempts {
			c.cfg.Log.Warn("retry ceiling reached", "attempts", attempt)
			c.state.Store(int32(StateFailed))
			return
		}
		if !c.sleep(ctx, c.backoff(attempt)) {
			return
		}
	}
}

// dial fetches a credential and opens the websocket. The gateway refuses
// the upgrade with an authentication error when the credential is bad;
// that refusal is reported separately so the caller can refresh.
func (c *Client) dial(ctx context.Context) (*websocket.Conn, bool, error) {
	credential, err := c.cfg.Credentials(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("obtain credential: %w", err)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+credential)
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, true, fmt.Errorf("handshake rejected: %w", err)
		}
		return nil, false, fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}
	return ws, false, nil
}

// readLoop dispatches inbound events until the transport drops.
func (c *Client) readLoop(ctx context.Context, ws *websocket.Conn) {
	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.cfg.Log.Debug("read loop ended", "error", err)
			}
			_ = ws.Close()
			return
		}
		env, err := event.Decode(raw)
		if err != nil {
			c.cfg.Log.Debug("dropping malformed frame", "error", err)
			continue
		}
		c.dispatch(env)
	}
}

func (c *Client) dispatch(env event.Envelope) {
	c.mu.RLock()
	handlers := c.handlers[env.Type]
	c.mu.RUnlock()
	for _, h := range handlers {
		h(env)
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.cfg.BaseBackoff << (attempt - 1)
	if d > c.cfg.MaxBackoff || d <= 0 {
		d = c.cfg.MaxBackoff
	}
	return d
}

func (c *Client) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// DecodeMessageNew parses a message-new payload.
func DecodeMessageNew(env event.Envelope) (event.MessageNew, error) {
	var e event.MessageNew
	err := sonic.Unmarshal(env.Payload, &e)
	return e, err
}

// DecodeTyping parses a typing-start or typing-stop payload.
func DecodeTyping(env event.Envelope) (event.Typing, error) {
	var e event.Typing
	err := sonic.Unmarshal(env.Payload, &e)
	e.Stop = env.Type == event.TypeTypingStop
	return e, err
}
