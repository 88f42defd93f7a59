package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chat-core/errors"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "MonMotDePasseTr0pSûr!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("MauvaisMDP", hash)
	req.NoError(err)
	req.False(match)
}

func TestRegistrationValidation(t *testing.T) {
	req := require.New(t)
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"Valid request", RegisterRequest{"test@example.com", "Alice", "ComplexPass123!"}, false},
		{"Invalid email", RegisterRequest{"notanemail", "Alice", "ComplexPass123!"}, true},
		{"Missing display name", RegisterRequest{"test@example.com", "", "ComplexPass123!"}, true},
		{"Password too short", RegisterRequest{"test@example.com", "Alice", "Short1!"}, true},
		{"Missing digit", RegisterRequest{"test@example.com", "Alice", "NoDigitPass!"}, true},
		{"Missing special char", RegisterRequest{"test@example.com", "Alice", "NoSpecialChar123"}, true},
		{"Missing uppercase", RegisterRequest{"test@example.com", "Alice", "nouppercase123!"}, true},
		{"Password too long (edge case)", RegisterRequest{"test@example.com", "Alice", strings.Repeat("a", 73)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req)
			if tt.wantErr {
				req.Error(err)
			} else {
				req.NoError(err)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("user-123", "alice@example.com", "Alice", time.Hour)
	req.NoError(err)

	claims, err := ValidateToken(token)
	req.NoError(err)
	req.Equal("user-123", claims.UserID)
	req.Equal("alice@example.com", claims.Email)
	req.Equal("Alice", claims.DisplayName)
}

func TestTokenExpiry(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("user-123", "alice@example.com", "Alice", -time.Minute)
	req.NoError(err)

	_, err = ValidateToken(token)
	req.Error(err)
}

func TestJWTVerifier(t *testing.T) {
	verifier := NewJWTVerifier()

	t.Run("should resolve a valid credential to an identity", func(t *testing.T) {
		req := require.New(t)
		token, err := GenerateToken("user-42", "bob@example.com", "Bob", time.Hour)
		req.NoError(err)

		identity, err := verifier.Verify(context.Background(), token)
		req.NoError(err)
		req.Equal("user-42", identity.UserID)
		req.Equal("Bob", identity.DisplayName)
	})

	t.Run("should reject an empty credential", func(t *testing.T) {
		req := require.New(t)
		_, err := verifier.Verify(context.Background(), "")
		req.ErrorIs(err, errors.ErrUnauthenticated)
	})

	t.Run("should reject a garbage credential", func(t *testing.T) {
		req := require.New(t)
		_, err := verifier.Verify(context.Background(), "not-a-jwt")
		req.ErrorIs(err, errors.ErrUnauthenticated)
	})
}

// BenchmarkHashPassword permet de mesurer l'impact CPU/RAM (Crucial pour K8s)
func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
