package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Virenishere/backend-assignment-portal/internal/model"
	"github.com/Virenishere/backend-assignment-portal/internal/repository"
)

func TestPrincipalsAreScopedByKind(t *testing.T) {
	ctx := context.Background()
	store := New()

	user := model.Principal{ID: "u1", Kind: model.KindUser, Email: "a@x.com"}
	admin := model.Principal{ID: "a1", Kind: model.KindAdmin, Email: "a@x.com"}
	if err := store.CreatePrincipal(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := store.CreatePrincipal(ctx, admin); err != nil {
		t.Fatalf("same email under another kind should be allowed: %v", err)
	}
	if err := store.CreatePrincipal(ctx, model.Principal{ID: "u2", Kind: model.KindUser, Email: "A@X.com"}); !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}
	if _, err := store.GetPrincipalByID(ctx, model.KindAdmin, "u1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected user id to be unknown among admins, got %v", err)
	}
}

func TestTransitionIsSingleShot(t *testing.T) {
	ctx := context.Background()
	store := New()
	_ = store.CreateAssignment(ctx, model.Assignment{ID: "as1", Status: model.StatusPending, CreatedAt: time.Now()})

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, to := range []model.Status{model.StatusAccepted, model.StatusRejected} {
		wg.Add(1)
		go func(to model.Status) {
			defer wg.Done()
			_, err := store.TransitionAssignment(ctx, "as1", model.StatusPending, to)
			results <- err
		}(to)
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, repository.ErrStatusConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("expected one win and one conflict, got %d/%d", wins, conflicts)
	}
	if _, err := store.TransitionAssignment(ctx, "missing", model.StatusPending, model.StatusAccepted); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListAssignmentsFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	store := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = store.CreateAssignment(ctx, model.Assignment{ID: "old", AdminID: "a1", Status: model.StatusPending, CreatedAt: base})
	_ = store.CreateAssignment(ctx, model.Assignment{ID: "new", AdminID: "a1", Status: model.StatusAccepted, CreatedAt: base.Add(time.Hour)})
	_ = store.CreateAssignment(ctx, model.Assignment{ID: "other", AdminID: "a2", Status: model.StatusPending, CreatedAt: base})

	all, _ := store.ListAssignments(ctx, repository.AssignmentFilter{AdminID: "a1"})
	if len(all) != 2 || all[0].ID != "new" || all[1].ID != "old" {
		t.Fatalf("unexpected listing %+v", all)
	}

	pending := model.StatusPending
	filtered, _ := store.ListAssignments(ctx, repository.AssignmentFilter{AdminID: "a1", Status: &pending})
	if len(filtered) != 1 || filtered[0].ID != "old" {
		t.Fatalf("unexpected filtered listing %+v", filtered)
	}
}
