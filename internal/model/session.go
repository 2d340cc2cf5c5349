package model

import "time"

// GuardState is the state of a session guard evaluation. Every evaluation
// starts Unchecked and ends Valid or Invalid.
type GuardState string

const (
	GuardUnchecked GuardState = "unchecked"
	GuardValid     GuardState = "valid"
	GuardInvalid   GuardState = "invalid"
)

// GuardReason explains why a session was rejected.
type GuardReason string

const (
	ReasonMissing      GuardReason = "missing"
	ReasonMalformed    GuardReason = "malformed"
	ReasonExpired      GuardReason = "expired"
	ReasonInvalidated  GuardReason = "invalidated"
	ReasonRoleMismatch GuardReason = "role_mismatch"
)

// SessionInfo describes the identity bound to a valid session.
type SessionInfo struct {
	AccountID int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
