package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
)

type fakeConn struct {
	subject  string
	data     []byte
	flushed  bool
	closed   bool
	flushErr error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.subject, f.data = subject, data
	return nil
}

func (f *fakeConn) FlushTimeout(time.Duration) error {
	f.flushed = true
	return f.flushErr
}

func (f *fakeConn) Close() { f.closed = true }

type fakeStream struct {
	subject string
	data    []byte
	err     error
}

func (f *fakeStream) Publish(_ context.Context, subject string, data []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.subject, f.data = subject, data
	return &jetstream.PubAck{Stream: "SITEMAPS", Sequence: 1}, nil
}

func sampleEvent() Event {
	return Event{
		BuildID:     "b-1",
		BaseURL:     "https://example.com",
		SitemapURL:  "https://example.com/sitemap.xml",
		URLCount:    2,
		Artifacts:   []Artifact{{Name: "sitemap.xml", SHA256: "abc", Size: 10}},
		Locations:   []string{"/srv/public"},
		GeneratedAt: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestNATSNotifierPublishesJSON(t *testing.T) {
	conn := &fakeConn{}
	n := &NATSNotifier{conn: conn, subject: "sitemapper.generated"}

	require.NoError(t, n.Notify(context.Background(), sampleEvent()))
	assert.Equal(t, "sitemapper.generated", conn.subject)
	assert.True(t, conn.flushed)

	var got Event
	require.NoError(t, json.Unmarshal(conn.data, &got))
	assert.Equal(t, sampleEvent(), got)

	require.NoError(t, n.Close())
	assert.True(t, conn.closed)
}

func TestNATSNotifierFlushFailureIsNetworkError(t *testing.T) {
	conn := &fakeConn{flushErr: errors.New("timeout")}
	n := &NATSNotifier{conn: conn, subject: "s"}

	err := n.Notify(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNetwork))
}

func TestNATSNotifierJetStream(t *testing.T) {
	conn := &fakeConn{}
	js := &fakeStream{}
	n := &NATSNotifier{conn: conn, js: js, subject: "sites.example"}

	require.NoError(t, n.Notify(context.Background(), sampleEvent()))
	assert.Equal(t, "sites.example", js.subject)
	assert.Nil(t, conn.data, "core publish is bypassed")

	js.err = errors.New("no responders")
	assert.Error(t, n.Notify(context.Background(), sampleEvent()))
}

func TestNoopNotifier(t *testing.T) {
	var n Notifier = NoopNotifier{}
	assert.NoError(t, n.Notify(context.Background(), sampleEvent()))
	assert.NoError(t, n.Close())
}
