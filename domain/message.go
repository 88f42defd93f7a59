// This file defines Message entities and their API projection.
// Messages are immutable once persisted, except for monotonic growth of the
// ReadBy set.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is the storage form of a chat message. Sender is an identifier,
// never an embedded profile; MessageView carries the resolved form.
type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	SenderID       string
	Text           string
	CreatedAt      time.Time
	ReadBy         []string
}

// ReadByUser reports whether userID has acknowledged the message.
// The sender is always a member of ReadBy from creation.
func (m Message) ReadByUser(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// MessageView is the API projection of a Message with the sender resolved to
// a directory profile.
type MessageView struct {
	ID             uuid.UUID   `json:"id"`
	ConversationID uuid.UUID   `json:"conversationId"`
	Sender         UserProfile `json:"sender"`
	Text           string      `json:"text"`
	CreatedAt      time.Time   `json:"createdAt"`
	ReadBy         []string    `json:"readBy"`
}

// View projects the storage form onto the API form using a resolved sender
// profile.
func (m Message) View(sender UserProfile) MessageView {
	return MessageView{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Sender:         sender,
		Text:           m.Text,
		CreatedAt:      m.CreatedAt,
		ReadBy:         m.ReadBy,
	}
}
