package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-core/auth"
	"chat-core/domain"
	"chat-core/domain/event"
	"chat-core/errors"
	"chat-core/mocks"
	"chat-core/observability"
)

// presenceRecorder captures online/offline transitions for assertions.
type presenceRecorder struct {
	mu          sync.Mutex
	transitions []string
}

func (p *presenceRecorder) SetPresence(userID string, online bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	state := "offline"
	if online {
		state = "online"
	}
	p.transitions = append(p.transitions, userID+":"+state)
}

func (p *presenceRecorder) seen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.transitions...)
}

type gatewayFixture struct {
	gw       *Gateway
	server   *httptest.Server
	resolver *mocks.MockIConversationRepository
	presence *presenceRecorder
	stats    *observability.Manager
}

func newGatewayFixture(t *testing.T) gatewayFixture {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockIdentityVerifier(ctrl)
	verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, credential string) (auth.Identity, error) {
			if !strings.HasSuffix(credential, "-token") {
				return auth.Identity{}, errors.ErrUnauthenticated
			}
			userID := strings.TrimSuffix(credential, "-token")
			return auth.Identity{UserID: userID, DisplayName: userID}, nil
		}).AnyTimes()

	log := slog.New(slog.DiscardHandler)
	f := gatewayFixture{
		resolver: mocks.NewMockIConversationRepository(ctrl),
		presence: &presenceRecorder{},
		stats:    observability.NewManager(log),
	}
	f.gw = NewGateway(verifier, f.resolver, f.presence, f.stats, log, time.Second, 16)
	f.server = httptest.NewServer(f.gw)
	t.Cleanup(f.server.Close)
	return f
}

func (f gatewayFixture) dial(t *testing.T, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http")
	header := http.Header{"Authorization": {"Bearer " + userID + "-token"}}
	ws, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })

	// Binding completes just after the handshake response goes out.
	require.Eventually(t, func() bool {
		return f.gw.registry.Connections(userID) > 0
	}, time.Second, 5*time.Millisecond)
	return ws
}

func readFrame(t *testing.T, ws *websocket.Conn) event.Envelope {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(time.Second)))
	_, raw, err := ws.ReadMessage()
	require.NoError(t, err)
	env, err := event.Decode(raw)
	require.NoError(t, err)
	return env
}

func Test_Handshake_Rejects_Bad_Credential(t *testing.T) {
	req := require.New(t)
	f := newGatewayFixture(t)

	url := "ws" + strings.TrimPrefix(f.server.URL, "http")

	// Garbage credential and no credential both refuse the upgrade.
	_, resp, err := websocket.DefaultDialer.Dial(url,
		http.Header{"Authorization": {"Bearer forged"}})
	req.Error(err)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url, nil)
	req.Error(err)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	req.Equal(uint64(2), f.stats.Snapshot().ConnectionsRejected)
}

func Test_Notify_Pushes_To_Every_Connection(t *testing.T) {
	req := require.New(t)
	f := newGatewayFixture(t)

	laptop := f.dial(t, "bob")
	phone := f.dial(t, "bob")
	req.Equal(2, f.gw.registry.Connections("bob"))

	view := domain.MessageView{
		ID:     uuid.New(),
		Text:   "hello bob",
		Sender: domain.UserProfile{ID: "alice", DisplayName: "Alice"},
	}
	f.gw.Notify("bob", event.MessageNew{Message: view})

	for _, ws := range []*websocket.Conn{laptop, phone} {
		env := readFrame(t, ws)
		req.Equal(event.TypeMessageNew, env.Type)
		var push event.MessageNew
		req.NoError(sonic.Unmarshal(env.Payload, &push))
		req.Equal("hello bob", push.Message.Text)
		req.Equal("Alice", push.Message.Sender.DisplayName)
	}
}

func Test_Notify_Without_Connection_Is_A_Miss(t *testing.T) {
	req := require.New(t)
	f := newGatewayFixture(t)

	f.gw.Notify("nobody", event.MessageNew{})
	req.Equal(uint64(1), f.stats.Snapshot().DeliveryMisses)
	req.Zero(f.stats.Snapshot().MessagesPushed)
}

func Test_Typing_Relayed_To_Peer_Never_Echoed(t *testing.T) {
	req := require.New(t)
	f := newGatewayFixture(t)

	conv := domain.Conversation{
		ID:           uuid.New(),
		Participants: [2]string{"alice", "bob"},
	}
	f.resolver.EXPECT().GetByID(conv.ID).Return(conv, nil).AnyTimes()

	alice := f.dial(t, "alice")
	bob := f.dial(t, "bob")

	frame, err := event.Encode(event.Typing{ConversationID: conv.ID})
	req.NoError(err)
	req.NoError(alice.WriteMessage(websocket.TextMessage, frame))

	env := readFrame(t, bob)
	req.Equal(event.TypeTypingStart, env.Type)
	var typing event.Typing
	req.NoError(sonic.Unmarshal(env.Payload, &typing))
	// The sender id comes from the authenticated connection.
	req.Equal("alice", typing.UserID)
	req.Equal(conv.ID, typing.ConversationID)

	// The sender hears nothing back.
	req.NoError(alice.SetReadDeadline(time.Now().Add(150 * time.Millisecond)))
	_, _, err = alice.ReadMessage()
	req.Error(err)
}

func Test_Typing_From_Outsider_Is_Dropped(t *testing.T) {
	req := require.New(t)
	f := newGatewayFixture(t)

	conv := domain.Conversation{
		ID:           uuid.New(),
		Participants: [2]string{"alice", "bob"},
	}
	f.resolver.EXPECT().GetByID(conv.ID).Return(conv, nil).AnyTimes()

	mallory := f.dial(t, "mallory")
	bob := f.dial(t, "bob")

	frame, err := event.Encode(event.Typing{ConversationID: conv.ID})
	req.NoError(err)
	req.NoError(mallory.WriteMessage(websocket.TextMessage, frame))

	req.NoError(bob.SetReadDeadline(time.Now().Add(150 * time.Millisecond)))
	_, _, err = bob.ReadMessage()
	req.Error(err)
}

func Test_Presence_Follows_First_And_Last_Connection(t *testing.T) {
	req := require.New(t)
	f := newGatewayFixture(t)

	laptop := f.dial(t, "alice")
	phone := f.dial(t, "alice")
	req.Equal([]string{"alice:online"}, f.presence.seen())

	req.NoError(laptop.Close())
	req.Eventually(func() bool {
		return f.gw.registry.Connections("alice") == 1
	}, time.Second, 5*time.Millisecond)
	// Still one live connection, no offline transition yet.
	req.Equal([]string{"alice:online"}, f.presence.seen())

	req.NoError(phone.Close())
	req.Eventually(func() bool {
		transitions := f.presence.seen()
		return len(transitions) == 2 && transitions[1] == "alice:offline"
	}, time.Second, 5*time.Millisecond)
}
