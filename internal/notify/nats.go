package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
)

const publishTimeout = 5 * time.Second

// publisher is the part of a NATS connection the notifier needs.
type publisher interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// streamPublisher is the part of a JetStream context the notifier needs.
type streamPublisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// NATSNotifier publishes events as JSON on a subject.
type NATSNotifier struct {
	conn    publisher
	js      streamPublisher
	subject string
}

// NATSOptions configures a NATSNotifier.
type NATSOptions struct {
	URL       string
	Subject   string
	JetStream bool
}

// NewNATSNotifier connects to the NATS server.
func NewNATSNotifier(opts NATSOptions) (*NATSNotifier, error) {
	conn, err := nats.Connect(opts.URL,
		nats.Name("sitemapper"),
		nats.Timeout(publishTimeout),
	)
	if err != nil {
		return nil, ferrors.NetworkError("failed to connect to NATS").
			WithCause(err).
			WithContext("url", opts.URL).
			Build()
	}

	n := &NATSNotifier{conn: conn, subject: opts.Subject}
	if opts.JetStream {
		js, err := jetstream.New(conn)
		if err != nil {
			conn.Close()
			return nil, ferrors.NetworkError("failed to create JetStream context").WithCause(err).Build()
		}
		n.js = js
	}

	slog.Debug("NATS notifier connected",
		logfields.URL(opts.URL),
		slog.String("subject", opts.Subject),
		slog.Bool("jetstream", opts.JetStream))
	return n, nil
}

// Notify publishes the event and waits until the server has it.
func (n *NATSNotifier) Notify(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return ferrors.InternalError("failed to marshal event").WithCause(err).Build()
	}

	if n.js != nil {
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		if _, err := n.js.Publish(ctx, n.subject, data); err != nil {
			return n.publishError(err)
		}
	} else {
		if err := n.conn.Publish(n.subject, data); err != nil {
			return n.publishError(err)
		}
		if err := n.conn.FlushTimeout(publishTimeout); err != nil {
			return n.publishError(err)
		}
	}

	slog.Debug("Published generation event",
		slog.String("subject", n.subject),
		logfields.BuildID(event.BuildID),
		logfields.Count(event.URLCount))
	return nil
}

func (n *NATSNotifier) publishError(err error) error {
	return ferrors.NetworkError("failed to publish generation event").
		WithCause(err).
		WithContext("subject", n.subject).
		Build()
}

// Close drops the connection.
func (n *NATSNotifier) Close() error {
	if n.conn != nil {
		n.conn.Close()
	}
	return nil
}

var _ Notifier = (*NATSNotifier)(nil)
