package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

var subjectEscaper = strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_", ":", ".")

// Subject converts a channel name into a NATS subject: ':' separates tokens
// and characters NATS reserves are replaced.
func Subject(channel string) string {
	return subjectEscaper.Replace(channel)
}

// NATSBus carries events over core NATS.
type NATSBus struct {
	conn *nats.Conn
	log  zerolog.Logger
}

// NewNATSBus connects to url and returns a NATSBus.
func NewNATSBus(url string, log zerolog.Logger) (*NATSBus, error) {
	nc, err := nats.Connect(url, nats.Name("portfolio-backend"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	log.Info().Str("url", url).Msg("NATS connected")
	return &NATSBus{conn: nc, log: log.With().Str("component", "nats_bus").Logger()}, nil
}

// Publish encodes ev as JSON and publishes it on the subject derived from channel.
func (b *NATSBus) Publish(_ context.Context, channel string, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return b.conn.Publish(Subject(channel), payload)
}

// Subscribe listens on the subject derived from channel.
func (b *NATSBus) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	msgs := make(chan *nats.Msg, subscriptionBuffer)
	natsSub, err := b.conn.ChanSubscribe(Subject(channel), msgs)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}
	if err := b.conn.Flush(); err != nil {
		natsSub.Unsubscribe()
		return nil, fmt.Errorf("flush subscription: %w", err)
	}

	sub := &natsSubscription{
		sub:  natsSub,
		msgs: msgs,
		out:  make(chan Event, subscriptionBuffer),
		done: make(chan struct{}),
	}
	go sub.pump(ctx, b.log.With().Str("channel", channel).Logger())
	return sub, nil
}

// Close drains the NATS connection.
func (b *NATSBus) Close() error {
	return b.conn.Drain()
}

type natsSubscription struct {
	sub  *nats.Subscription
	msgs chan *nats.Msg
	out  chan Event
	done chan struct{}
	once sync.Once
}

func (s *natsSubscription) pump(ctx context.Context, log zerolog.Logger) {
	defer close(s.out)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case msg := <-s.msgs:
			var ev Event
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				log.Warn().Err(err).Msg("Dropping malformed event")
				continue
			}
			select {
			case s.out <- ev:
			default:
				log.Warn().Str("type", string(ev.Type)).Msg("Subscriber lagging, event dropped")
			}
		}
	}
}

func (s *natsSubscription) Events() <-chan Event { return s.out }

func (s *natsSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.sub.Unsubscribe()
	})
	return err
}
