package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Virenishere/backend-assignment-portal/internal/model"
)

func newTestTokens(t *testing.T) *Tokens {
	t.Helper()
	tokens, err := NewTokens("user-secret", "admin-secret", "test-issuer", time.Hour)
	if err != nil {
		t.Fatalf("tokens error: %v", err)
	}
	return tokens
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tokens := newTestTokens(t)
	token, issued, err := tokens.Issue(model.KindUser, "user-1")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	claims, err := tokens.Verify(model.KindUser, token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.PrincipalID != "user-1" || claims.Subject != "user-1" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ID == "" || claims.ID != issued.ID {
		t.Fatalf("expected token id to round trip")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("expected 1h lifetime, got %s", got)
	}
}

func TestKindIsolation(t *testing.T) {
	tokens := newTestTokens(t)
	userToken, _, _ := tokens.Issue(model.KindUser, "user-1")
	adminToken, _, _ := tokens.Issue(model.KindAdmin, "admin-1")

	if _, err := tokens.Verify(model.KindAdmin, userToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected user token to fail admin verification, got %v", err)
	}
	if _, err := tokens.Verify(model.KindUser, adminToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected admin token to fail user verification, got %v", err)
	}
}

func TestExpiredToken(t *testing.T) {
	tokens := newTestTokens(t)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := tokens.Issue(model.KindUser, "user-1")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	tokens.now = time.Now

	if _, err := tokens.Verify(model.KindUser, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}

func TestTamperedAndMalformedTokens(t *testing.T) {
	tokens := newTestTokens(t)
	token, _, _ := tokens.Issue(model.KindUser, "user-1")

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	for _, candidate := range []string{tampered, "not-a-token", ""} {
		if _, err := tokens.Verify(model.KindUser, candidate); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected %q to be invalid, got %v", candidate, err)
		}
	}
}

func TestRejectsUnsignedToken(t *testing.T) {
	tokens := newTestTokens(t)
	claims := Claims{
		PrincipalID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}
	if _, err := tokens.Verify(model.KindUser, unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected alg none to be rejected, got %v", err)
	}
}

func TestNewTokensRejectsSharedSecret(t *testing.T) {
	if _, err := NewTokens("same", "same", "", time.Hour); err == nil {
		t.Fatalf("expected shared secret error")
	}
	if _, err := NewTokens("a", "b", "", 0); err == nil {
		t.Fatalf("expected ttl error")
	}
}
