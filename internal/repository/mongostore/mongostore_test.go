package mongostore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Virenishere/backend-assignment-portal/internal/model"
	"github.com/Virenishere/backend-assignment-portal/internal/repository"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("mongo unavailable: %v", err)
	}
	store := NewStore(client, "portal_test_"+uuid.NewString()[:8])
	if err := store.Ping(ctx); err != nil {
		t.Skipf("mongo unavailable: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = store.db.Drop(ctx)
		_ = store.Close(ctx)
	})
	require.NoError(t, store.EnsureIndexes(ctx))
	return store
}

func TestMongoPrincipals(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	admin := model.Principal{ID: uuid.NewString(), Kind: model.KindAdmin, FirstName: "Ada", LastName: "Admin", Email: "a@x.com", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.CreatePrincipal(ctx, admin))

	dup := admin
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, store.CreatePrincipal(ctx, dup), repository.ErrDuplicateEmail)

	got, err := store.GetPrincipalByEmail(ctx, model.KindAdmin, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)
	assert.Equal(t, model.KindAdmin, got.Kind)

	_, err = store.GetPrincipalByID(ctx, model.KindUser, admin.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	found, err := store.FindPrincipals(ctx, model.KindAdmin, []string{admin.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestMongoAssignmentTransition(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	a := model.Assignment{ID: uuid.NewString(), UserID: "u1", AdminID: "a1", Task: "T1", Status: model.StatusPending, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.CreateAssignment(ctx, a))

	updated, err := store.TransitionAssignment(ctx, a.ID, model.StatusPending, model.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, updated.Status)

	current, err := store.TransitionAssignment(ctx, a.ID, model.StatusPending, model.StatusRejected)
	assert.True(t, errors.Is(err, repository.ErrStatusConflict))
	assert.Equal(t, model.StatusAccepted, current.Status)

	_, err = store.TransitionAssignment(ctx, "missing", model.StatusPending, model.StatusAccepted)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	accepted := model.StatusAccepted
	list, err := store.ListAssignments(ctx, repository.AssignmentFilter{AdminID: "a1", Status: &accepted})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "T1", list[0].Task)
}
