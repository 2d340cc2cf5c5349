package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/portfolio-backend/internal/config"
	"github.com/stemsi/portfolio-backend/internal/model"
	"github.com/stemsi/portfolio-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var adminAccount = &model.Account{ID: 7, Username: "madam", Email: "madam@school.test", Role: model.RoleAdmin}
var studentAccount = &model.Account{ID: 3, Username: "ali", Email: "ali@school.test", Role: model.RoleStudent}

func TestSessionGuard_ValidSession(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	auth := newTestAuth(t, rdb)
	guard := NewSessionGuard(auth, zerolog.Nop())

	token, expiresAt, err := auth.IssueSession(context.Background(), studentAccount)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	result := guard.Evaluate(context.Background(), token, model.RoleStudent)
	require.True(t, result.Valid())
	assert.Equal(t, model.GuardValid, result.State)
	assert.Empty(t, result.Reason)
	assert.Equal(t, studentAccount.Email, result.Claims.Info().Email)
	assert.Equal(t, model.RoleStudent, result.Claims.Info().Role)
}

func TestSessionGuard_AnyRoleAccepted(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	auth := newTestAuth(t, rdb)
	guard := NewSessionGuard(auth, zerolog.Nop())

	token, _, err := auth.IssueSession(context.Background(), adminAccount)
	require.NoError(t, err)

	assert.True(t, guard.Evaluate(context.Background(), token, "").Valid())
}

func TestSessionGuard_MissingToken(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	guard := NewSessionGuard(newTestAuth(t, rdb), zerolog.Nop())

	result := guard.Evaluate(context.Background(), "", model.RoleStudent)
	assert.Equal(t, model.GuardInvalid, result.State)
	assert.Equal(t, model.ReasonMissing, result.Reason)
}

func TestSessionGuard_MalformedToken(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	guard := NewSessionGuard(newTestAuth(t, rdb), zerolog.Nop())

	result := guard.Evaluate(context.Background(), "not-a-jwt", model.RoleStudent)
	assert.Equal(t, model.ReasonMalformed, result.Reason)
	assert.Nil(t, result.Claims)
}

func TestSessionGuard_ForeignSignatureIsMalformed(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	other := newTestAuth(t, rdb)
	other.cfg.JWTSecret = "someone-else"
	token, _, err := other.IssueSession(context.Background(), studentAccount)
	require.NoError(t, err)

	guard := NewSessionGuard(newTestAuth(t, rdb), zerolog.Nop())
	assert.Equal(t, model.ReasonMalformed, guard.Evaluate(context.Background(), token, "").Reason)
}

func TestSessionGuard_ExpiredClearsSession(t *testing.T) {
	mr, rdb := testutil.NewRedis(t)
	auth := newTestAuth(t, rdb)
	guard := NewSessionGuard(auth, zerolog.Nop())

	issuedAt := time.Now().Add(-2 * time.Hour)
	auth.now = func() time.Time { return issuedAt }
	token, _, err := auth.IssueSession(context.Background(), studentAccount)
	require.NoError(t, err)
	auth.now = time.Now

	claims, err := auth.ValidateToken(token)
	require.ErrorIs(t, err, ErrSessionExpired)
	key := config.CacheKey.SessionKey(studentAccount.ID, claims.ID)
	require.True(t, mr.Exists(key))

	result := guard.Evaluate(context.Background(), token, model.RoleStudent)
	assert.Equal(t, model.ReasonExpired, result.Reason)
	assert.False(t, mr.Exists(key))
}

func TestSessionGuard_RoleMismatchClearsSession(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	auth := newTestAuth(t, rdb)
	guard := NewSessionGuard(auth, zerolog.Nop())

	token, _, err := auth.IssueSession(context.Background(), studentAccount)
	require.NoError(t, err)

	result := guard.Evaluate(context.Background(), token, model.RoleAdmin)
	assert.Equal(t, model.ReasonRoleMismatch, result.Reason)

	// The session is gone, so even the right role is refused now.
	again := guard.Evaluate(context.Background(), token, model.RoleStudent)
	assert.Equal(t, model.ReasonInvalidated, again.Reason)
}

func TestSessionGuard_LogoutInvalidates(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	auth := newTestAuth(t, rdb)
	guard := NewSessionGuard(auth, zerolog.Nop())

	token, _, err := auth.IssueSession(context.Background(), adminAccount)
	require.NoError(t, err)
	result := guard.Evaluate(context.Background(), token, model.RoleAdmin)
	require.True(t, result.Valid())

	require.NoError(t, auth.EndSession(context.Background(), result.Claims))

	assert.Equal(t, model.ReasonInvalidated, guard.Evaluate(context.Background(), token, model.RoleAdmin).Reason)
}

func TestSessionGuard_SessionsAreIndependent(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	auth := newTestAuth(t, rdb)
	guard := NewSessionGuard(auth, zerolog.Nop())

	laptop, _, err := auth.IssueSession(context.Background(), studentAccount)
	require.NoError(t, err)
	phone, _, err := auth.IssueSession(context.Background(), studentAccount)
	require.NoError(t, err)

	laptopResult := guard.Evaluate(context.Background(), laptop, model.RoleStudent)
	require.True(t, laptopResult.Valid())
	require.NoError(t, auth.EndSession(context.Background(), laptopResult.Claims))

	assert.False(t, guard.Evaluate(context.Background(), laptop, model.RoleStudent).Valid())
	assert.True(t, guard.Evaluate(context.Background(), phone, model.RoleStudent).Valid())
}

func TestAuthService_PasswordHashing(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	auth := newTestAuth(t, rdb)

	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.NoError(t, auth.CheckPassword(hash, "secret1"))
	assert.ErrorIs(t, auth.CheckPassword(hash, "secret2"), ErrInvalidCredentials)
}

func TestGuardResult_UncheckedIsNotValid(t *testing.T) {
	assert.False(t, GuardResult{State: model.GuardUnchecked}.Valid())
	assert.False(t, GuardResult{}.Valid())
}
