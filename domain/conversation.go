package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Conversation is a durable two-party thread. Participants are fixed at
// creation and the unordered pair is unique across the store.
type Conversation struct {
	ID           uuid.UUID
	Participants [2]string
	LastMessage  *Message
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PairKey canonicalizes an unordered participant pair into the natural
// unique key: the lexicographically smaller identifier first.
func PairKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + ":" + b
}

// HasParticipant reports whether userID belongs to the conversation.
func (c Conversation) HasParticipant(userID string) bool {
	return c.Participants[0] == userID || c.Participants[1] == userID
}

// OtherParticipant returns the peer of userID in the conversation.
// The second return value is false if userID is not a participant.
func (c Conversation) OtherParticipant(userID string) (string, bool) {
	switch userID {
	case c.Participants[0]:
		return c.Participants[1], true
	case c.Participants[1]:
		return c.Participants[0], true
	default:
		return "", false
	}
}

// ConversationView is the API projection of a Conversation: participants are
// resolved to directory profiles and the caller's unread count is attached.
type ConversationView struct {
	ID          uuid.UUID    `json:"id"`
	Other       UserProfile  `json:"otherParticipant"`
	LastMessage *MessageView `json:"lastMessage,omitempty"`
	UnreadCount int          `json:"unreadCount"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
