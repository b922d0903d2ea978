package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Virenishere/backend-assignment-portal/internal/auth"
	"github.com/Virenishere/backend-assignment-portal/internal/model"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = &out
	err := app.RunContext(context.Background(), append([]string{"portalctl"}, args...))
	return strings.TrimSpace(out.String()), err
}

func TestHashPasswordFromStdin(t *testing.T) {
	out, err := run(t, "Secret1!\n", "hash-password", "--cost", "4")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(out), []byte("Secret1!")))
}

func TestHashPasswordEmptyStdin(t *testing.T) {
	_, err := run(t, "", "hash-password")
	assert.Error(t, err)
}

func TestIssueTokenVerifiesWithConfiguredSecret(t *testing.T) {
	t.Setenv("JWT_USER_PASSWORD", "cli-user-secret")
	t.Setenv("JWT_ADMIN_PASSWORD", "cli-admin-secret")

	out, err := run(t, "", "issue-token", "--kind", "admin", "--id", "admin-42")
	require.NoError(t, err)

	tokens, err := auth.NewTokens("cli-user-secret", "cli-admin-secret", "assignment-portal", time.Hour)
	require.NoError(t, err)
	claims, err := tokens.Verify(model.KindAdmin, out)
	require.NoError(t, err)
	assert.Equal(t, "admin-42", claims.PrincipalID)

	_, err = tokens.Verify(model.KindUser, out)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestIssueTokenRejectsUnknownKind(t *testing.T) {
	_, err := run(t, "", "issue-token", "--kind", "owner", "--id", "x")
	assert.ErrorContains(t, err, "unknown kind")
}

func TestCreateAdminMemoryStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "off")

	out, err := run(t, "", "create-admin",
		"--first-name", "Grace", "--last-name", "Hopper",
		"--email", "grace@example.com", "--password", "Str0ng!Pass")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestCreateAdminReportsValidation(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "off")

	_, err := run(t, "", "create-admin",
		"--first-name", "Al", "--last-name", "Hopper",
		"--email", "grace@example.com", "--password", "weak")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "firstName")
	assert.Contains(t, err.Error(), "password")
}
