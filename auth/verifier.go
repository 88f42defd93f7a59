//go:generate go run go.uber.org/mock/mockgen -source=verifier.go -destination=../mocks/mock_verifier.go -package=mocks
package auth

import (
	"context"
	"fmt"

	"chat-core/errors"
)

// Identity is what the verifier returns for a valid bearer credential.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
}

// IdentityVerifier checks a bearer credential and resolves it to a stable
// user identity. The chat core treats the verifier as an external
// collaborator: callers are expected to bound every Verify call with a
// context deadline, and a remote implementation may well hang without one.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (Identity, error)
}

// JWTVerifier validates locally signed tokens. Verification is pure CPU
// work, so the context is only consulted for early cancellation.
type JWTVerifier struct{}

func NewJWTVerifier() JWTVerifier {
	return JWTVerifier{}
}

func (JWTVerifier) Verify(ctx context.Context, credential string) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", errors.ErrDependencyUnavailable, err)
	}
	if credential == "" {
		return Identity{}, errors.ErrUnauthenticated
	}
	claims, err := ValidateToken(credential)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", errors.ErrUnauthenticated, err)
	}
	return Identity{
		UserID:      claims.UserID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	}, nil
}
