//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"chat-core/domain"
)

// txnRetries bounds the optimistic-transaction retry loop. Badger aborts a
// transaction with ErrConflict when two commits race on the same keys; the
// loser re-reads and tries again.
const txnRetries = 8

type IConversationRepository interface {
	GetOrCreate(callerID, otherID string) (domain.Conversation, error)
	GetByID(id uuid.UUID) (domain.Conversation, error)
	ListForUser(userID string) ([]domain.Conversation, error)
}

type ConversationRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewConversationRepository(db *badger.DB, log *slog.Logger) ConversationRepository {
	return ConversationRepository{db: db, log: log}
}

// DiskConversation is the storage form persisted in BadgerDB.
type DiskConversation struct {
	ID           string       `json:"id"`
	Participants [2]string    `json:"participants"`
	LastMessage  *DiskMessage `json:"last_message,omitempty"`
	CreatedAt    int64        `json:"created_at"`
	UpdatedAt    int64        `json:"updated_at"`
}

func conversationKey(id uuid.UUID) []byte {
	return []byte("conv:" + id.String())
}

// pairKey is the uniqueness constraint for the unordered participant pair.
// It maps the canonicalized pair to the winning conversation id.
func pairKey(a, b string) []byte {
	return []byte("pair:" + domain.PairKey(a, b))
}

// userConversationKey indexes a conversation under one of its participants
// for the list-view prefix scan.
func userConversationKey(userID string, convID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("uconv:%s:%s", userID, convID))
}

// GetOrCreate returns the conversation for the unordered pair, creating it
// on first contact. Concurrent creations for the same pair race on the pair
// key: exactly one commit wins, the others retry, observe the winner's row
// and return it.
func (c ConversationRepository) GetOrCreate(callerID, otherID string) (domain.Conversation, error) {
	var result domain.Conversation

	for attempt := 0; ; attempt++ {
		err := c.db.Update(func(txn *badger.Txn) error {
			item, err := txn.Get(pairKey(callerID, otherID))
			if err == nil {
				// Pair already has a conversation, read it back.
				var existingID uuid.UUID
				if err = item.Value(func(val []byte) error {
					existingID, err = uuid.Parse(string(val))
					return err
				}); err != nil {
					return err
				}
				result, err = getConversation(txn, existingID)
				return err
			}
			if err != badger.ErrKeyNotFound {
				return err
			}

			now := time.Now().UTC()
			created := domain.Conversation{
				ID:           uuid.New(),
				Participants: [2]string{callerID, otherID},
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err = putConversation(txn, created); err != nil {
				return err
			}
			if err = txn.Set(pairKey(callerID, otherID), []byte(created.ID.String())); err != nil {
				return err
			}
			for _, p := range created.Participants {
				if err = txn.Set(userConversationKey(p, created.ID), nil); err != nil {
					return err
				}
			}
			result = created
			return nil
		})
		if err == badger.ErrConflict && attempt < txnRetries {
			c.log.Debug("conversation creation conflict, retrying",
				"pair", domain.PairKey(callerID, otherID), "attempt", attempt)
			continue
		}
		return result, err
	}
}

func (c ConversationRepository) GetByID(id uuid.UUID) (domain.Conversation, error) {
	var conv domain.Conversation
	err := c.db.View(func(txn *badger.Txn) error {
		var err error
		conv, err = getConversation(txn, id)
		return err
	})
	return conv, err
}

// ListForUser returns the caller's conversations ordered newest-updated
// first. The user index only stores ids; each row is resolved to its full
// record in the same read transaction.
func (c ConversationRepository) ListForUser(userID string) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	err := c.db.View(func(txn *badger.Txn) error {
		prefix := []byte("uconv:" + userID + ":")
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			rawID := it.Item().Key()[len(prefix):]
			convID, err := uuid.Parse(string(rawID))
			if err != nil {
				return fmt.Errorf("corrupt user index key %q: %w", it.Item().Key(), err)
			}
			conv, err := getConversation(txn, convID)
			if err != nil {
				return err
			}
			conversations = append(conversations, conv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})
	return conversations, nil
}

func getConversation(txn *badger.Txn, id uuid.UUID) (domain.Conversation, error) {
	item, err := txn.Get(conversationKey(id))
	if err != nil {
		return domain.Conversation{}, err
	}
	var disk DiskConversation
	if err = item.Value(func(val []byte) error {
		return sonic.Unmarshal(val, &disk)
	}); err != nil {
		return domain.Conversation{}, err
	}
	return toConversation(disk)
}

func putConversation(txn *badger.Txn, conv domain.Conversation) error {
	bytes, err := sonic.Marshal(fromConversation(conv))
	if err != nil {
		return err
	}
	return txn.Set(conversationKey(conv.ID), bytes)
}

func fromConversation(conv domain.Conversation) DiskConversation {
	disk := DiskConversation{
		ID:           conv.ID.String(),
		Participants: conv.Participants,
		CreatedAt:    conv.CreatedAt.UnixNano(),
		UpdatedAt:    conv.UpdatedAt.UnixNano(),
	}
	if conv.LastMessage != nil {
		last := fromMessage(*conv.LastMessage)
		disk.LastMessage = &last
	}
	return disk
}

func toConversation(disk DiskConversation) (domain.Conversation, error) {
	parsedID, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Conversation{}, err
	}
	conv := domain.Conversation{
		ID:           parsedID,
		Participants: disk.Participants,
		CreatedAt:    time.Unix(0, disk.CreatedAt).UTC(),
		UpdatedAt:    time.Unix(0, disk.UpdatedAt).UTC(),
	}
	if disk.LastMessage != nil {
		last, err := toMessage(*disk.LastMessage)
		if err != nil {
			return domain.Conversation{}, err
		}
		conv.LastMessage = &last
	}
	return conv, nil
}
