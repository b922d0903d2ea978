// Package memstore keeps records in process memory. It backs STORE_DRIVER=memory and the tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Virenishere/backend-assignment-portal/internal/model"
	"github.com/Virenishere/backend-assignment-portal/internal/repository"
)

type Store struct {
	mu          sync.RWMutex
	principals  map[model.Kind][]model.Principal
	assignments map[string]model.Assignment
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		principals:  make(map[model.Kind][]model.Principal),
		assignments: make(map[string]model.Assignment),
	}
}

func (s *Store) CreatePrincipal(_ context.Context, p model.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.principals[p.Kind] {
		if strings.EqualFold(existing.Email, p.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	s.principals[p.Kind] = append(s.principals[p.Kind], p)
	return nil
}

func (s *Store) GetPrincipalByEmail(_ context.Context, kind model.Kind, email string) (model.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.principals[kind] {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return model.Principal{}, repository.ErrNotFound
}

func (s *Store) GetPrincipalByID(_ context.Context, kind model.Kind, id string) (model.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.principals[kind] {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Principal{}, repository.ErrNotFound
}

func (s *Store) ListPrincipals(_ context.Context, kind model.Kind) ([]model.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Principal, len(s.principals[kind]))
	copy(out, s.principals[kind])
	return out, nil
}

func (s *Store) FindPrincipals(_ context.Context, kind model.Kind, ids []string) (map[string]model.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make(map[string]model.Principal, len(wanted))
	for _, p := range s.principals[kind] {
		if _, ok := wanted[p.ID]; ok {
			out[p.ID] = p
		}
	}
	return out, nil
}

func (s *Store) CreateAssignment(_ context.Context, a model.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[a.ID] = a
	return nil
}

func (s *Store) GetAssignment(_ context.Context, id string) (model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[id]
	if !ok {
		return model.Assignment{}, repository.ErrNotFound
	}
	return a, nil
}

func (s *Store) ListAssignments(_ context.Context, filter repository.AssignmentFilter) ([]model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Assignment
	for _, a := range s.assignments {
		if filter.Matches(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) TransitionAssignment(_ context.Context, id string, from, to model.Status) (model.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[id]
	if !ok {
		return model.Assignment{}, repository.ErrNotFound
	}
	if a.Status != from {
		return a, repository.ErrStatusConflict
	}
	a.Status = to
	s.assignments[id] = a
	return a, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close(context.Context) error { return nil }
