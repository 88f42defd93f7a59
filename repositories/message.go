//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"chat-core/domain"
)

type IMessageRepository interface {
	Append(convID uuid.UUID, senderID, text string) (domain.Message, error)
	ListByConversation(convID uuid.UUID) ([]domain.Message, error)
	MarkRead(convID uuid.UUID, userID string) (int, error)
	CountUnread(convID uuid.UUID, userID string) (int, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// DiskMessage is the storage form persisted in BadgerDB.
type DiskMessage struct {
	ID             string   `json:"id"`
	ConversationID string   `json:"conversation_id"`
	SenderID       string   `json:"sender_id"`
	Text           string   `json:"text"`
	At             int64    `json:"at"`
	ReadBy         []string `json:"read_by"`
}

// messageKey is formatted as "msg:{conversation_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     land on the same nanosecond.
func messageKey(convID uuid.UUID, at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", convID, at.UnixNano(), id))
}

func messagePrefix(convID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg:%s:", convID))
}

// Append persists a message and bumps the owning conversation's last-message
// pointer and UpdatedAt in the same transaction. The store assigns CreatedAt
// and clamps it so timestamps never regress within a conversation; badger's
// conflict detection on the conversation record serializes racing sends.
func (m MessageRepository) Append(convID uuid.UUID, senderID, text string) (domain.Message, error) {
	var stored domain.Message

	for attempt := 0; ; attempt++ {
		err := m.db.Update(func(txn *badger.Txn) error {
			conv, err := getConversation(txn, convID)
			if err != nil {
				return err
			}

			createdAt := time.Now().UTC()
			if !createdAt.After(conv.UpdatedAt) {
				createdAt = conv.UpdatedAt.Add(time.Nanosecond)
			}

			message := domain.Message{
				ID:             uuid.New(),
				ConversationID: convID,
				SenderID:       senderID,
				Text:           text,
				CreatedAt:      createdAt,
				ReadBy:         []string{senderID},
			}
			bytes, err := sonic.Marshal(fromMessage(message))
			if err != nil {
				return err
			}
			if err = txn.Set(messageKey(convID, createdAt, message.ID), bytes); err != nil {
				return err
			}

			conv.LastMessage = &message
			conv.UpdatedAt = createdAt
			if err = putConversation(txn, conv); err != nil {
				return err
			}
			stored = message
			return nil
		})
		if err == badger.ErrConflict && attempt < txnRetries {
			m.log.Debug("message append conflict, retrying",
				"conversation_id", convID, "attempt", attempt)
			continue
		}
		return stored, err
	}
}

// ListByConversation retrieves the full history in ascending CreatedAt
// order. Thanks to the padded timestamp in the key, the prefix scan is
// already chronological.
func (m MessageRepository) ListByConversation(convID uuid.UUID) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(convID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var disk DiskMessage
			err := it.Item().Value(func(val []byte) error {
				return sonic.Unmarshal(val, &disk)
			})
			if err != nil {
				return err
			}
			message, err := toMessage(disk)
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead adds userID to the ReadBy set of every message in the
// conversation that does not carry it yet and returns how many rows changed.
// The set only ever grows, so re-invocation is a no-op.
func (m MessageRepository) MarkRead(convID uuid.UUID, userID string) (int, error) {
	var updated int

	for attempt := 0; ; attempt++ {
		updated = 0
		err := m.db.Update(func(txn *badger.Txn) error {
			prefix := messagePrefix(convID)
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()

			type pending struct {
				key   []byte
				value []byte
			}
			var writes []pending

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				var disk DiskMessage
				err := it.Item().Value(func(val []byte) error {
					return sonic.Unmarshal(val, &disk)
				})
				if err != nil {
					return err
				}
				if containsReader(disk.ReadBy, userID) {
					continue
				}
				disk.ReadBy = append(disk.ReadBy, userID)
				bytes, err := sonic.Marshal(disk)
				if err != nil {
					return err
				}
				writes = append(writes, pending{key: it.Item().KeyCopy(nil), value: bytes})
			}

			// Writes are applied after iteration so the iterator never
			// observes its own updates.
			for _, w := range writes {
				if err := txn.Set(w.key, w.value); err != nil {
					return err
				}
			}
			updated = len(writes)
			return nil
		})
		if err == badger.ErrConflict && attempt < txnRetries {
			m.log.Debug("mark-read conflict, retrying",
				"conversation_id", convID, "attempt", attempt)
			continue
		}
		return updated, err
	}
}

// CountUnread counts messages in the conversation that userID has not
// acknowledged.
func (m MessageRepository) CountUnread(convID uuid.UUID, userID string) (int, error) {
	var count int
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(convID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var disk DiskMessage
			err := it.Item().Value(func(val []byte) error {
				return sonic.Unmarshal(val, &disk)
			})
			if err != nil {
				return err
			}
			if !containsReader(disk.ReadBy, userID) {
				count++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func containsReader(readBy []string, userID string) bool {
	for _, id := range readBy {
		if id == userID {
			return true
		}
	}
	return false
}

func fromMessage(message domain.Message) DiskMessage {
	return DiskMessage{
		ID:             message.ID.String(),
		ConversationID: message.ConversationID.String(),
		SenderID:       message.SenderID,
		Text:           message.Text,
		At:             message.CreatedAt.UnixNano(),
		ReadBy:         message.ReadBy,
	}
}

func toMessage(disk DiskMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Message{}, err
	}
	parsedConvID, err := uuid.Parse(disk.ConversationID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:             parsedID,
		ConversationID: parsedConvID,
		SenderID:       disk.SenderID,
		Text:           disk.Text,
		CreatedAt:      time.Unix(0, disk.At).UTC(),
		ReadBy:         disk.ReadBy,
	}, nil
}
