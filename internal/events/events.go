// Package events fans submission changes out to the participants watching them.
package events

import (
	"context"
	"time"

	"github.com/stemsi/portfolio-backend/internal/model"
)

// Type names a submission lifecycle change.
type Type string

const (
	SubmissionCreated      Type = "submission.created"
	SubmissionGraded       Type = "submission.graded"
	SubmissionFileReplaced Type = "submission.file_replaced"
	SubmissionDeleted      Type = "submission.deleted"
)

// Event is the payload delivered to subscribers.
type Event struct {
	Type       Type              `json:"type"`
	Submission *model.Submission `json:"submission"`
	At         time.Time         `json:"at"`
}

// Publisher sends events to a channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, ev Event) error
}

// Subscription delivers events until closed.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

// Bus is a publish/subscribe transport.
type Bus interface {
	Publisher
	Subscribe(ctx context.Context, channel string) (Subscription, error)
	Close() error
}

// subscriptionBuffer bounds how far a slow websocket may lag before events are dropped.
const subscriptionBuffer = 32
