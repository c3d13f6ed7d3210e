package service

import (
	"context"
	"testing"

	"github.com/Miraines/MoonyAndStarry/contact-service/internal/adapters/transport/http/dto"
	authErrors "github.com/Miraines/MoonyAndStarry/contact-service/internal/domain/auth/errors"
	"github.com/stretchr/testify/require"
)

func TestCurrentUser_ResolvesVerifiedUser(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()

	_, err := e.svc.Register(ctx, dto.RegisterDTO{Email: "a@x.com", Password: "Secret123"})
	require.NoError(t, err)
	e.mail.wait(t)

	verify, _ := e.util.IssueAccess("a@x.com")
	require.NoError(t, e.svc.VerifyEmail(ctx, verify))

	token, _ := e.util.IssueAccess("a@x.com")
	user, err := e.svc.CurrentUser(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", user.Email)
	require.True(t, user.IsVerified)
}

func TestCurrentUser_InvalidToken(t *testing.T) {
	e := newEnv(t, false)
	_, err := e.svc.CurrentUser(context.Background(), "garbage")
	require.True(t, authErrors.IsInvalidToken(err))
}

func TestCurrentUser_UnknownSubject(t *testing.T) {
	e := newEnv(t, false)
	token, _ := e.util.IssueAccess("ghost@x.com")
	_, err := e.svc.CurrentUser(context.Background(), token)
	require.True(t, authErrors.IsNotFound(err))
}

func TestCurrentUser_UnverifiedRejected(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()

	_, err := e.svc.Register(ctx, dto.RegisterDTO{Email: "a@x.com", Password: "Secret123"})
	require.NoError(t, err)
	e.mail.wait(t)

	token, _ := e.util.IssueAccess("a@x.com")
	_, err = e.svc.CurrentUser(ctx, token)
	require.True(t, authErrors.IsEmailNotVerified(err))
}

func TestCurrentUser_TestingBypassesVerification(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	_, err := e.svc.Register(ctx, dto.RegisterDTO{Email: "a@x.com", Password: "Secret123"})
	require.NoError(t, err)

	token, _ := e.util.IssueAccess("a@x.com")
	_, err = e.svc.CurrentUser(ctx, token)
	require.NoError(t, err)
}

func TestCurrentUser_ServedFromCache(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	_, err := e.svc.Register(ctx, dto.RegisterDTO{Email: "a@x.com", Password: "Secret123"})
	require.NoError(t, err)

	token, _ := e.util.IssueAccess("a@x.com")
	_, err = e.svc.CurrentUser(ctx, token)
	require.NoError(t, err)

	before := e.users.lookups()
	user, err := e.svc.CurrentUser(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", user.Email)
	require.Empty(t, user.PasswordHash) // hashes are never cached
	require.Equal(t, before, e.users.lookups())
}

func TestCurrentUser_MutationPurgesCache(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	_, err := e.svc.Register(ctx, dto.RegisterDTO{Email: "a@x.com", Password: "Secret123"})
	require.NoError(t, err)

	token, _ := e.util.IssueAccess("a@x.com")
	_, err = e.svc.CurrentUser(ctx, token)
	require.NoError(t, err)

	reset, _ := e.util.IssueAccess("a@x.com")
	require.NoError(t, e.svc.ResetPassword(ctx, dto.ResetPasswordDTO{Token: reset, NewPassword: "Changed456"}))

	before := e.users.lookups()
	_, err = e.svc.CurrentUser(ctx, token)
	require.NoError(t, err)
	require.Greater(t, e.users.lookups(), before) // cache entry was purged
}
