package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chat-core/errors"
	"chat-core/services"
)

// AccountHandler exposes the bundled identity issuer. Deployments pointing
// at an external identity provider simply do not mount these routes.
type AccountHandler struct {
	auth services.IAuthService
	log  *slog.Logger
}

func NewAccountHandler(auth services.IAuthService, log *slog.Logger) *AccountHandler {
	return &AccountHandler{auth: auth, log: log}
}

func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
}

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *AccountHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r.Body, &req); err != nil {
		respondError(w, errors.ErrInvalidIdentifier)
		return
	}
	token, err := h.auth.Register(req.Email, req.DisplayName, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tokenResponse{Token: string(token)})
}

func (h *AccountHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r.Body, &req); err != nil {
		respondError(w, errors.ErrInvalidCredentials)
		return
	}
	token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tokenResponse{Token: string(token)})
}
