//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-core/domain"
	"chat-core/domain/event"
	"chat-core/errors"
	"chat-core/repositories"
)

// IDeliveryNotifier hands freshly persisted messages to the realtime layer.
// Notification is fire-and-forget: a recipient without a live connection is
// an expected outcome, corrected by the durable re-fetch path.
type IDeliveryNotifier interface {
	Notify(userID string, e event.DeliveryEvent)
}

type IChatService interface {
	ListConversations(ctx context.Context, callerID string) ([]domain.ConversationView, error)
	GetOrCreateConversation(ctx context.Context, callerID, otherID string) (domain.ConversationView, error)
	GetMessages(ctx context.Context, callerID string, convID uuid.UUID) ([]domain.MessageView, error)
	SendMessage(ctx context.Context, callerID string, convID uuid.UUID, text string) (domain.MessageView, error)
	MarkRead(ctx context.Context, callerID string, convID uuid.UUID) (int, error)
	GetUnreadCounts(ctx context.Context, callerID string) (map[string]int, error)
}

// ChatService enforces participant-scoped access on every conversation
// operation and keeps per-participant read state. It is the only path
// through which messages reach the store.
type ChatService struct {
	conversations repositories.IConversationRepository
	messages      repositories.IMessageRepository
	directory     IDirectoryService
	notifier      IDeliveryNotifier
	log           *slog.Logger
}

func NewChatService(conversations repositories.IConversationRepository, messages repositories.IMessageRepository,
	directory IDirectoryService, notifier IDeliveryNotifier, log *slog.Logger) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		directory:     directory,
		notifier:      notifier,
		log:           log,
	}
}

// ListConversations returns the caller's conversations newest-updated first,
// each with the peer profile resolved, a preview of the last message and the
// caller's unread count. A failing unread count degrades to 0 instead of
// failing the list.
func (s *ChatService) ListConversations(ctx context.Context, callerID string) ([]domain.ConversationView, error) {
	if callerID == "" {
		return nil, errors.ErrUnauthenticated
	}
	conversations, err := s.conversations.ListForUser(callerID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	views := lo.Map(conversations, func(conv domain.Conversation, _ int) domain.ConversationView {
		return s.project(ctx, conv, callerID)
	})
	return views, nil
}

func (s *ChatService) project(ctx context.Context, conv domain.Conversation, callerID string) domain.ConversationView {
	otherID, _ := conv.OtherParticipant(callerID)

	unread, err := s.messages.CountUnread(conv.ID, callerID)
	if err != nil {
		s.log.Warn("unread count degraded to 0",
			"conversation_id", conv.ID, "user_id", callerID, "error", err)
		unread = 0
	}

	view := domain.ConversationView{
		ID:          conv.ID,
		Other:       s.directory.Resolve(ctx, otherID),
		UnreadCount: unread,
		CreatedAt:   conv.CreatedAt,
		UpdatedAt:   conv.UpdatedAt,
	}
	if conv.LastMessage != nil {
		preview := conv.LastMessage.View(s.directory.Resolve(ctx, conv.LastMessage.SenderID))
		view.LastMessage = &preview
	}
	return view
}

// GetOrCreateConversation resolves the conversation for the unordered pair,
// creating it on first contact. Self-chat is forbidden.
func (s *ChatService) GetOrCreateConversation(ctx context.Context, callerID, otherID string) (domain.ConversationView, error) {
	if callerID == "" {
		return domain.ConversationView{}, errors.ErrUnauthenticated
	}
	if strings.TrimSpace(otherID) == "" {
		return domain.ConversationView{}, errors.ErrInvalidIdentifier
	}
	if callerID == otherID {
		return domain.ConversationView{}, errors.ErrSelfConversation
	}

	conv, err := s.conversations.GetOrCreate(callerID, otherID)
	if err != nil {
		return domain.ConversationView{}, fmt.Errorf("get or create conversation: %w", err)
	}
	return s.project(ctx, conv, callerID), nil
}

// GetMessages returns the full history in ascending CreatedAt order with
// senders resolved. Non-participants and unknown conversation ids receive
// the same collapsed signal.
func (s *ChatService) GetMessages(ctx context.Context, callerID string, convID uuid.UUID) ([]domain.MessageView, error) {
	if _, err := s.authorize(callerID, convID); err != nil {
		return nil, err
	}

	messages, err := s.messages.ListByConversation(convID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	// Sender profiles are resolved once per participant, not per message.
	profiles := map[string]domain.UserProfile{}
	views := lo.Map(messages, func(m domain.Message, _ int) domain.MessageView {
		sender, ok := profiles[m.SenderID]
		if !ok {
			sender = s.directory.Resolve(ctx, m.SenderID)
			profiles[m.SenderID] = sender
		}
		return m.View(sender)
	})
	return views, nil
}

// SendMessage validates, persists and then hands the message to the
// realtime layer. Delivery is best effort and never fails the send.
func (s *ChatService) SendMessage(ctx context.Context, callerID string, convID uuid.UUID, text string) (domain.MessageView, error) {
	if strings.TrimSpace(text) == "" {
		return domain.MessageView{}, errors.ErrInvalidText
	}
	conv, err := s.authorize(callerID, convID)
	if err != nil {
		return domain.MessageView{}, err
	}

	message, err := s.messages.Append(convID, callerID, text)
	if err != nil {
		return domain.MessageView{}, fmt.Errorf("persist message: %w", err)
	}

	view := message.View(s.directory.Resolve(ctx, callerID))

	// Recipient routing is resolved from the stored participant list, never
	// from anything the client supplied.
	if recipientID, ok := conv.OtherParticipant(callerID); ok {
		s.notifier.Notify(recipientID, event.MessageNew{Message: view})
	}
	return view, nil
}

// MarkRead acknowledges every message in the conversation for the caller
// and returns how many were newly marked. Idempotent.
func (s *ChatService) MarkRead(_ context.Context, callerID string, convID uuid.UUID) (int, error) {
	if _, err := s.authorize(callerID, convID); err != nil {
		return 0, err
	}
	updated, err := s.messages.MarkRead(convID, callerID)
	if err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}
	return updated, nil
}

// GetUnreadCounts maps every conversation of the caller to its unread
// count. A single failing conversation degrades to 0 rather than failing
// the batch.
func (s *ChatService) GetUnreadCounts(_ context.Context, callerID string) (map[string]int, error) {
	if callerID == "" {
		return nil, errors.ErrUnauthenticated
	}
	conversations, err := s.conversations.ListForUser(callerID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	counts := make(map[string]int, len(conversations))
	for _, conv := range conversations {
		count, err := s.messages.CountUnread(conv.ID, callerID)
		if err != nil {
			s.log.Warn("unread count degraded to 0",
				"conversation_id", conv.ID, "user_id", callerID, "error", err)
			count = 0
		}
		counts[conv.ID.String()] = count
	}
	return counts, nil
}

// authorize loads the conversation and checks participation. Both "does not
// exist" and "not yours" collapse into ErrNotFoundOrDenied so responses
// never leak which conversation ids exist.
func (s *ChatService) authorize(callerID string, convID uuid.UUID) (domain.Conversation, error) {
	if callerID == "" {
		return domain.Conversation{}, errors.ErrUnauthenticated
	}
	conv, err := s.conversations.GetByID(convID)
	if err == badger.ErrKeyNotFound {
		return domain.Conversation{}, errors.ErrNotFoundOrDenied
	}
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("load conversation: %w", err)
	}
	if !conv.HasParticipant(callerID) {
		return domain.Conversation{}, errors.ErrNotFoundOrDenied
	}
	return conv, nil
}
