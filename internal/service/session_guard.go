package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/stemsi/portfolio-backend/internal/model"
)

// GuardResult is the outcome of one guard evaluation.
type GuardResult struct {
	State  model.GuardState
	Reason model.GuardReason
	Claims *Claims
}

// Valid reports whether the session may access the protected resource.
func (r GuardResult) Valid() bool {
	return r.State == model.GuardValid
}

// SessionGuard gates role-specific resources on a live, unexpired session.
// Every failed check after the token is attributed to an account ends that
// session, so the client has to log in again.
type SessionGuard struct {
	auth *AuthService
	log  zerolog.Logger
}

// NewSessionGuard creates a new SessionGuard.
func NewSessionGuard(auth *AuthService, log zerolog.Logger) *SessionGuard {
	return &SessionGuard{
		auth: auth,
		log:  log.With().Str("component", "session_guard").Logger(),
	}
}

// Evaluate runs the Unchecked -> Valid|Invalid transition for token.
// An empty requiredRole accepts any role.
func (g *SessionGuard) Evaluate(ctx context.Context, token string, requiredRole model.Role) GuardResult {
	result := GuardResult{State: model.GuardUnchecked}
	if token == "" {
		return result.reject(model.ReasonMissing, nil)
	}

	claims, err := g.auth.ValidateToken(token)
	switch {
	case errors.Is(err, ErrSessionExpired):
		g.forceLogout(ctx, claims, model.ReasonExpired)
		return result.reject(model.ReasonExpired, claims)
	case err != nil:
		return result.reject(model.ReasonMalformed, nil)
	}

	if err := g.auth.CheckSession(ctx, claims); err != nil {
		if !errors.Is(err, ErrSessionInvalidated) {
			g.log.Error().Err(err).Int("account_id", claims.AccountID).Msg("Session lookup failed")
		}
		return result.reject(model.ReasonInvalidated, claims)
	}

	if requiredRole != "" && claims.Role != requiredRole {
		g.forceLogout(ctx, claims, model.ReasonRoleMismatch)
		return result.reject(model.ReasonRoleMismatch, claims)
	}

	result.State = model.GuardValid
	result.Claims = claims
	return result
}

func (g *SessionGuard) forceLogout(ctx context.Context, claims *Claims, reason model.GuardReason) {
	if err := g.auth.EndSession(ctx, claims); err != nil {
		g.log.Warn().Err(err).Int("account_id", claims.AccountID).Msg("Failed to clear session")
		return
	}
	g.log.Debug().
		Int("account_id", claims.AccountID).
		Str("reason", string(reason)).
		Msg("Session cleared")
}

func (r GuardResult) reject(reason model.GuardReason, claims *Claims) GuardResult {
	r.State = model.GuardInvalid
	r.Reason = reason
	r.Claims = claims
	return r
}
