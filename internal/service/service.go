// Package service implements registration, login and the assignment workflow on top of a
// repository.Store. Every error it returns to callers is an *apperr.Error.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Virenishere/backend-assignment-portal/internal/auth"
	"github.com/Virenishere/backend-assignment-portal/internal/crypto"
	"github.com/Virenishere/backend-assignment-portal/internal/repository"
)

type Service struct {
	store        repository.Store
	hasher       crypto.Hasher
	tokens       *auth.Tokens
	validate     *validator
	storeTimeout time.Duration
	now          func() time.Time
	newID        func() string
}

func New(store repository.Store, hasher crypto.Hasher, tokens *auth.Tokens, storeTimeout time.Duration) *Service {
	return &Service{
		store:        store,
		hasher:       hasher,
		tokens:       tokens,
		validate:     newValidator(),
		storeTimeout: storeTimeout,
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
	}
}

func (s *Service) Tokens() *auth.Tokens {
	return s.tokens
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.store.Ping(ctx)
}

func (s *Service) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}
