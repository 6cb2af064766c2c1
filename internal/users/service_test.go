package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow-api/internal/shared/auth"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	signer, err := auth.NewSigner("test-secret", time.Hour, false)
	require.NoError(t, err)
	return NewService(NewMemoryRepo(), NewMemorySessionRepo(), signer, 4)
}

func registerInput(email string) RegisterInput {
	return RegisterInput{Email: email, Password: "secret1", FullName: "Ada Lovelace", Role: auth.RoleHR}
}

func TestRegisterLowercasesAndRejectsDuplicates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerInput("  Ada@Example.COM "))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.Equal(t, ProviderPassword, user.Provider)

	_, err = svc.Register(ctx, registerInput("ada@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginIssuesTokenThatAuthenticates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerInput("ada@example.com"))
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, LoginInput{Email: "ADA@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, auth.RoleHR, id.Role)
	assert.Equal(t, "Ada Lovelace", id.Name)

	me, err := svc.Me(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", me.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerInput("ada@example.com"))
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerInput("ada@example.com"))
	require.NoError(t, err)
	_, token, err := svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	removed, err := svc.Logout(ctx, token)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	removed, err = svc.Logout(ctx, token)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestAuthenticateRejectsExpiredSessionAndGarbage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerInput("ada@example.com"))
	require.NoError(t, err)
	_, token, err := svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthenticateRequiresStoredSession(t *testing.T) {
	svc := newTestService(t)
	token, err := svc.Signer.Sign(auth.Claims{})
	assert.Error(t, err)
	assert.Empty(t, token)

	user := User{ID: "u-1", Email: "a@example.com", Role: auth.RoleCandidate}
	issued, err := svc.IssueSession(context.Background(), user)
	require.NoError(t, err)

	svc.Sessions = NewMemorySessionRepo()
	_, err = svc.Authenticate(context.Background(), issued)
	assert.True(t, errors.Is(err, auth.ErrInvalidToken))
}

func TestUpsertOAuthUserCreatesCandidateOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.UpsertOAuthUser(ctx, "Grace@Example.com", "Grace Hopper", ProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleCandidate, first.Role)
	assert.Equal(t, "grace@example.com", first.Email)

	second, err := svc.UpsertOAuthUser(ctx, "grace@example.com", "Other", ProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, _, err = svc.Login(ctx, LoginInput{Email: "grace@example.com", Password: ""})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
