package repository

import (
	"context"
	"errors"

	"github.com/Virenishere/backend-assignment-portal/internal/model"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrStatusConflict means the assignment exists but is no longer in the expected status.
	ErrStatusConflict = errors.New("assignment status changed")
)

// Store is the persistence contract shared by every backend. Each call is a single-record
// (or single-query) atomic operation; there are no multi-record transactions.
type Store interface {
	CreatePrincipal(ctx context.Context, p model.Principal) error
	GetPrincipalByEmail(ctx context.Context, kind model.Kind, email string) (model.Principal, error)
	GetPrincipalByID(ctx context.Context, kind model.Kind, id string) (model.Principal, error)
	ListPrincipals(ctx context.Context, kind model.Kind) ([]model.Principal, error)
	FindPrincipals(ctx context.Context, kind model.Kind, ids []string) (map[string]model.Principal, error)

	CreateAssignment(ctx context.Context, a model.Assignment) error
	GetAssignment(ctx context.Context, id string) (model.Assignment, error)
	ListAssignments(ctx context.Context, filter AssignmentFilter) ([]model.Assignment, error)
	// TransitionAssignment moves an assignment from one status to another only if it is
	// currently in from. Returns ErrNotFound or ErrStatusConflict otherwise.
	TransitionAssignment(ctx context.Context, id string, from, to model.Status) (model.Assignment, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// AssignmentFilter selects assignments reviewed by one admin, optionally in one status.
// Results are ordered newest first.
type AssignmentFilter struct {
	AdminID string
	Status  *model.Status
}

func (f AssignmentFilter) Matches(a model.Assignment) bool {
	if f.AdminID != "" && a.AdminID != f.AdminID {
		return false
	}
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	return true
}

// UniqueIDs drops empty and repeated ids while keeping their first-seen order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
