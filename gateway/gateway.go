// Package gateway accepts live connections, authenticates each against the
// identity verifier and multiplexes per-user delivery channels. Durable
// message events are pushed here after the store has accepted them; typing
// events are relayed without ever touching the store.
package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chat-core/auth"
	"chat-core/domain"
	"chat-core/domain/event"
	"chat-core/observability"
)

// ConversationResolver resolves a conversation id to its participant list so
// typing events are routed server-side, never to a client-supplied
// recipient. The conversation store satisfies it directly.
type ConversationResolver interface {
	GetByID(convID uuid.UUID) (domain.Conversation, error)
}

// Presence receives best-effort online/offline transitions as channels gain
// their first and lose their last connection.
type Presence interface {
	SetPresence(userID string, online bool)
}

type Gateway struct {
	registry         *Registry
	verifier         auth.IdentityVerifier
	resolver         ConversationResolver
	presence         Presence
	stats            *observability.Manager
	log              *slog.Logger
	handshakeTimeout time.Duration
	sendBuffer       int

	upgrader websocket.Upgrader
}

func NewGateway(verifier auth.IdentityVerifier, resolver ConversationResolver, presence Presence,
	stats *observability.Manager, log *slog.Logger,
	handshakeTimeout time.Duration, sendBuffer int) *Gateway {
	return &Gateway{
		registry:         NewRegistry(),
		verifier:         verifier,
		resolver:         resolver,
		presence:         presence,
		stats:            stats,
		log:              log,
		handshakeTimeout: handshakeTimeout,
		sendBuffer:       sendBuffer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP runs the handshake state machine: the bearer credential travels
// in the Authorization header, never in the query string, and must verify
// within the handshake timeout. A bad credential refuses the upgrade with
// an authentication error; no channel binding happens before a successful
// verification.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), g.handshakeTimeout)
	identity, err := g.verifier.Verify(ctx, auth.BearerToken(r))
	cancel()
	if err != nil {
		g.stats.IncrConnectionsRejected()
		g.log.Warn("connection rejected", "remote", r.RemoteAddr, "error", err)
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Debug("websocket upgrade failed", "error", err)
		return
	}

	conn := newConn(g, ws, identity.UserID, g.sendBuffer)
	if first := g.registry.Bind(identity.UserID, conn); first {
		g.presence.SetPresence(identity.UserID, true)
	}
	g.stats.IncrConnectionsBound()
	g.log.Info("connection bound", "user_id", identity.UserID,
		"connections", g.registry.Connections(identity.UserID))

	go conn.writePump()
	go conn.readPump()
}

// Notify pushes a durable event onto the user's channel. A recipient
// without a live connection is an expected outcome, never an error: the
// event is dropped and the recipient catches up through the store.
func (g *Gateway) Notify(userID string, e event.DeliveryEvent) {
	frame, err := event.Encode(e)
	if err != nil {
		g.log.Error("event encoding failed", "type", e.EventType(), "error", err)
		return
	}
	if !g.registry.Broadcast(userID, frame) {
		g.stats.IncrDeliveryMisses()
		g.log.Debug("delivery miss", "user_id", userID, "type", e.EventType())
		return
	}
	g.stats.IncrMessagesPushed()
}

// relayTyping forwards a typing event to the other participant of the
// conversation. The conversation id from the client is only trusted for
// routing after the sender's own participation checks out, and the event is
// never echoed back to the sender.
func (g *Gateway) relayTyping(senderID string, typing event.Typing) {
	conv, err := g.resolver.GetByID(typing.ConversationID)
	if err != nil {
		g.log.Debug("typing event for unknown conversation",
			"user_id", senderID, "conversation_id", typing.ConversationID)
		return
	}
	recipientID, ok := conv.OtherParticipant(senderID)
	if !ok {
		g.log.Debug("typing event from non-participant",
			"user_id", senderID, "conversation_id", typing.ConversationID)
		return
	}

	typing.UserID = senderID
	frame, err := event.Encode(typing)
	if err != nil {
		g.log.Error("typing encoding failed", "error", err)
		return
	}
	g.registry.Broadcast(recipientID, frame)
	g.stats.IncrEventsRelayed()
}

// release drops a closed connection from its channel. Runs on the read
// pump's way out; other connections of the same user keep the channel
// alive.
func (g *Gateway) release(conn *Conn) {
	if last := g.registry.Unbind(conn.userID, conn); last {
		g.presence.SetPresence(conn.userID, false)
	}
	close(conn.send)
	g.stats.DecrConnectionsActive()
	g.log.Info("connection released", "user_id", conn.userID,
		"connections", g.registry.Connections(conn.userID))
}
