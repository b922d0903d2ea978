package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Virenishere/backend-assignment-portal/internal/model"
)

// ErrInvalidToken covers every verification failure: bad signature, malformed input, expiry, wrong issuer.
var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	PrincipalID string `json:"id"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 tokens with one secret per principal kind.
type Tokens struct {
	secrets map[model.Kind][]byte
	issuer  string
	ttl     time.Duration
	now     func() time.Time
}

func NewTokens(userSecret, adminSecret, issuer string, ttl time.Duration) (*Tokens, error) {
	if userSecret == "" || adminSecret == "" {
		return nil, errors.New("auth: both signing secrets are required")
	}
	if userSecret == adminSecret {
		return nil, errors.New("auth: user and admin secrets must differ")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("auth: ttl must be positive, got %s", ttl)
	}
	return &Tokens{
		secrets: map[model.Kind][]byte{
			model.KindUser:  []byte(userSecret),
			model.KindAdmin: []byte(adminSecret),
		},
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

func (t *Tokens) Issue(kind model.Kind, principalID string) (string, Claims, error) {
	secret, ok := t.secrets[kind]
	if !ok {
		return "", Claims{}, fmt.Errorf("auth: unknown principal kind %q", kind)
	}
	now := t.now().UTC()
	claims := Claims{
		PrincipalID: principalID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   principalID,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", Claims{}, err
	}
	return signed, claims, nil
}

func (t *Tokens) Verify(kind model.Kind, tokenString string) (*Claims, error) {
	secret, ok := t.secrets[kind]
	if !ok {
		return nil, ErrInvalidToken
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.PrincipalID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
