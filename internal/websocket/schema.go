package websocket

import "github.com/stemsi/portfolio-backend/internal/events"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is the only message shape clients send on the feed.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError          Event = "error"
	EventPong           Event = "pong"
	EventSubmission     Event = "submission"
	EventSessionInvalid Event = "session_invalid"
)

// SubmissionResponse forwards a submission change to the client.
type SubmissionResponse struct {
	Event Event        `json:"event"`
	Data  events.Event `json:"data"`
}

// SessionInvalidResponse tells the client the session ended and it must log in again.
type SessionInvalidResponse struct {
	Event  Event  `json:"event"`
	Reason string `json:"reason"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
