// Package event defines the events carried over live connections.
// Message events are durable before they are pushed; typing events are
// ephemeral and never touch the store.
package event

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"chat-core/domain"
)

const (
	TypeMessageNew  = "message-new"
	TypeTypingStart = "typing-start"
	TypeTypingStop  = "typing-stop"
)

// DeliveryEvent is anything the gateway can push onto a user's channel.
type DeliveryEvent interface {
	EventType() string
}

// MessageNew carries a freshly persisted message to the recipient.
type MessageNew struct {
	Message domain.MessageView `json:"message"`
}

func (MessageNew) EventType() string { return TypeMessageNew }

// Typing is the shared shape of typing-start and typing-stop. UserID is
// filled in by the gateway from the authenticated connection, never taken
// from the client payload.
type Typing struct {
	ConversationID uuid.UUID `json:"conversationId"`
	UserID         string    `json:"userId"`
	Stop           bool      `json:"-"`
}

func (t Typing) EventType() string {
	if t.Stop {
		return TypeTypingStop
	}
	return TypeTypingStart
}

// Envelope is the wire frame for every event in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Encode wraps an event into a serialized envelope frame.
func Encode(e DeliveryEvent) ([]byte, error) {
	payload, err := sonic.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", e.EventType(), err)
	}
	return sonic.Marshal(Envelope{Type: e.EventType(), Payload: payload})
}

// Decode parses a wire frame back into its envelope. The payload stays raw
// so the caller can pick the concrete type from Envelope.Type.
func Decode(frame []byte) (Envelope, error) {
	var env Envelope
	if err := sonic.Unmarshal(frame, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}
