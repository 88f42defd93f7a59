package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated is returned when the bearer credential is missing,
	// invalid or expired.
	ErrUnauthenticated = fmt.Errorf("unauthenticated")

	// ErrNotFoundOrDenied collapses "conversation does not exist" and
	// "caller is not a participant" into a single signal so a response never
	// reveals whether a conversation id exists.
	ErrNotFoundOrDenied = fmt.Errorf("conversation not found")

	ErrInvalidText       = fmt.Errorf("message text is empty")
	ErrSelfConversation  = fmt.Errorf("cannot open a conversation with yourself")
	ErrInvalidIdentifier = fmt.Errorf("invalid identifier")

	// ErrDependencyUnavailable covers identity-verifier and directory-sync
	// timeouts or failures on write paths. Read paths degrade instead.
	ErrDependencyUnavailable = fmt.Errorf("dependency unavailable")

	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
)

// MapToHTTPStatus translates the service-level taxonomy at the HTTP boundary.
// Anything outside the taxonomy is an internal error: raw storage errors must
// never leak a more specific status to the client.
func MapToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFoundOrDenied):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidText),
		errors.Is(err, ErrSelfConversation),
		errors.Is(err, ErrInvalidIdentifier),
		errors.Is(err, ErrInvalidPassword):
		return http.StatusBadRequest
	case errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrDependencyUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
