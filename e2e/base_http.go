package e2e

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"

	"chat-core/auth"
	"chat-core/gateway"
	"chat-core/httpapi"
	"chat-core/observability"
	"chat-core/repositories"
	"chat-core/services"
)

// BaseHTTPSuite drives the deployment under test over its public surface
// only: the HTTP API and the websocket endpoint. With no SERVER_ADDR it
// assembles the full production wiring in-process on a throwaway store.
type BaseHTTPSuite struct {
	suite.Suite
	Config Config

	baseURL  string
	client   *http.Client
	embedded *httptest.Server
	db       *badger.DB
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	s.client = &http.Client{Timeout: 10 * time.Second}
	if s.Config.ServerAddr != "" {
		s.baseURL = "http://" + s.Config.ServerAddr
		return
	}
	s.startEmbedded()
	s.baseURL = s.embedded.URL
}

func (s *BaseHTTPSuite) TearDownSuite() {
	if s.embedded != nil {
		s.embedded.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}

// startEmbedded mirrors the production wiring end to end, only the listener
// and the store location differ.
func (s *BaseHTTPSuite) startEmbedded() {
	db, err := badger.Open(badger.DefaultOptions(s.T().TempDir()).
		WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	s.db = db

	log := slog.New(slog.DiscardHandler)
	conversationRepository := repositories.NewConversationRepository(db, log)
	messageRepository := repositories.NewMessageRepository(db, log)
	profileRepository := repositories.NewProfileRepository(db)
	userRepository := repositories.NewUserRepository(db)

	verifier := auth.NewJWTVerifier()
	authService := services.NewAuthService(userRepository, time.Hour)
	directoryService := services.NewDirectoryService(profileRepository,
		services.NewStoreResolver(userRepository), 2*time.Second, log)

	stats := observability.NewManager(log)
	gw := gateway.NewGateway(verifier, conversationRepository, directoryService, stats, log,
		5*time.Second, 64)
	chatService := services.NewChatService(conversationRepository, messageRepository,
		directoryService, gw, log)

	router := httpapi.NewRouter(
		httpapi.NewAccountHandler(authService, log),
		httpapi.NewConversationHandler(chatService, log),
		verifier, gw, stats, 2*time.Second, log,
	)
	s.embedded = httptest.NewServer(router)
}

// WebsocketURL returns the realtime endpoint of the deployment under test.
func (s *BaseHTTPSuite) WebsocketURL() string {
	return "ws" + strings.TrimPrefix(s.baseURL, "http") + "/ws"
}

// Step prints a colorized header so scenario phases stand out in the log.
func (s *BaseHTTPSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Do performs one API call with optional bearer credential and decodes the
// response into target when it is non-nil. Bodies are dumped to the log
// when E2E_DEBUG_JSON is enabled.
func (s *BaseHTTPSuite) Do(method, path, token string, payload, target any) int {
	s.T().Helper()

	var body io.Reader
	if payload != nil {
		data, err := sonic.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, s.baseURL+path, body)
	s.Require().NoError(err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	logBuilder := strings.Builder{}
	fmt.Fprintf(&logBuilder, "HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		fmt.Fprintln(&logBuilder, "\nRESPONSE:")
		fmt.Fprintln(&logBuilder, string(raw))
	}
	s.T().Log(logBuilder.String())

	if target != nil && resp.StatusCode < http.StatusBadRequest {
		s.Require().NoError(sonic.Unmarshal(raw, target))
	}
	return resp.StatusCode
}

type tokenResponse struct {
	Token string `json:"token"`
}

// RegisterUser creates an account and returns its credential and verified
// user id.
func (s *BaseHTTPSuite) RegisterUser(email, displayName string) (token, userID string) {
	s.T().Helper()

	var issued tokenResponse
	status := s.Do(http.MethodPost, "/auth/register", "", map[string]string{
		"email":       email,
		"displayName": displayName,
		"password":    "Sup3r!Secret#Pass",
	}, &issued)
	s.Require().Equal(http.StatusCreated, status)
	s.Require().NotEmpty(issued.Token)

	identity, err := auth.NewJWTVerifier().Verify(context.Background(), issued.Token)
	s.Require().NoError(err)
	return issued.Token, identity.UserID
}
