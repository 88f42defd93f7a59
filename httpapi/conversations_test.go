package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-core/auth"
	"chat-core/domain"
	"chat-core/errors"
	"chat-core/mocks"
)

func conversationRouter(t *testing.T) (*mocks.MockIChatService, chi.Router) {
	t.Helper()
	ctrl := gomock.NewController(t)
	chat := mocks.NewMockIChatService(ctrl)
	r := chi.NewRouter()
	NewConversationHandler(chat, slog.New(slog.DiscardHandler)).RegisterRoutes(r)
	return chat, r
}

// asCaller stamps the verified identity the way the bearer middleware does.
func asCaller(r *http.Request, userID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), auth.UserIDKey, userID))
}

func Test_Send_Message_Endpoint(t *testing.T) {
	req := require.New(t)
	chat, router := conversationRouter(t)

	convID := uuid.New()
	chat.EXPECT().SendMessage(gomock.Any(), "alice", convID, "hello").
		Return(domain.MessageView{ID: uuid.New(), Text: "hello"}, nil)

	request := httptest.NewRequest(http.MethodPost,
		"/conversations/"+convID.String()+"/messages", strings.NewReader(`{"text":"hello"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, asCaller(request, "alice"))

	req.Equal(http.StatusCreated, recorder.Code)
	var view domain.MessageView
	req.NoError(sonic.Unmarshal(recorder.Body.Bytes(), &view))
	req.Equal("hello", view.Text)
}

func Test_Send_Message_Maps_Taxonomy_To_Status(t *testing.T) {
	req := require.New(t)
	chat, router := conversationRouter(t)

	convID := uuid.New()
	cases := []struct {
		err    error
		status int
	}{
		{errors.ErrInvalidText, http.StatusBadRequest},
		{errors.ErrNotFoundOrDenied, http.StatusNotFound},
		{errors.ErrUnauthenticated, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		chat.EXPECT().SendMessage(gomock.Any(), "alice", convID, "hi").
			Return(domain.MessageView{}, tc.err)

		request := httptest.NewRequest(http.MethodPost,
			"/conversations/"+convID.String()+"/messages", strings.NewReader(`{"text":"hi"}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, asCaller(request, "alice"))
		req.Equal(tc.status, recorder.Code)
	}
}

func Test_Malformed_Conversation_ID_Collapses_To_Not_Found(t *testing.T) {
	req := require.New(t)
	_, router := conversationRouter(t)

	request := httptest.NewRequest(http.MethodGet, "/conversations/not-a-uuid/messages", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, asCaller(request, "alice"))

	req.Equal(http.StatusNotFound, recorder.Code)
}

func Test_Create_Conversation_Endpoint(t *testing.T) {
	req := require.New(t)
	chat, router := conversationRouter(t)

	view := domain.ConversationView{
		ID:    uuid.New(),
		Other: domain.UserProfile{ID: "bob", DisplayName: "Bob"},
	}
	chat.EXPECT().GetOrCreateConversation(gomock.Any(), "alice", "bob").Return(view, nil)

	request := httptest.NewRequest(http.MethodPost, "/conversations",
		strings.NewReader(`{"otherParticipantId":"bob"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, asCaller(request, "alice"))

	req.Equal(http.StatusOK, recorder.Code)
	var got domain.ConversationView
	req.NoError(sonic.Unmarshal(recorder.Body.Bytes(), &got))
	req.Equal(view.ID, got.ID)
	req.Equal("Bob", got.Other.DisplayName)
}

func Test_Unread_Counts_Endpoint(t *testing.T) {
	req := require.New(t)
	chat, router := conversationRouter(t)

	convID := uuid.New()
	chat.EXPECT().GetUnreadCounts(gomock.Any(), "alice").
		Return(map[string]int{convID.String(): 3}, nil)

	request := httptest.NewRequest(http.MethodGet, "/conversations/unread-counts", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, asCaller(request, "alice"))

	req.Equal(http.StatusOK, recorder.Code)
	var counts map[string]int
	req.NoError(sonic.Unmarshal(recorder.Body.Bytes(), &counts))
	req.Equal(3, counts[convID.String()])
}

func Test_Mark_Read_Endpoint(t *testing.T) {
	req := require.New(t)
	chat, router := conversationRouter(t)

	convID := uuid.New()
	chat.EXPECT().MarkRead(gomock.Any(), "alice", convID).Return(7, nil)

	request := httptest.NewRequest(http.MethodPut, "/conversations/"+convID.String()+"/read", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, asCaller(request, "alice"))

	req.Equal(http.StatusOK, recorder.Code)
	var body markReadResponse
	req.NoError(sonic.Unmarshal(recorder.Body.Bytes(), &body))
	req.Equal(7, body.Updated)
}

func Test_Internal_Errors_Stay_Generic(t *testing.T) {
	req := require.New(t)
	chat, router := conversationRouter(t)

	chat.EXPECT().ListConversations(gomock.Any(), "alice").
		Return(nil, context.DeadlineExceeded)

	request := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, asCaller(request, "alice"))

	req.Equal(http.StatusInternalServerError, recorder.Code)
	req.Contains(recorder.Body.String(), "internal error")
	req.NotContains(recorder.Body.String(), "deadline")
}
