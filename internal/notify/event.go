// Package notify announces finished generations to downstream consumers
// (cache purgers, search-engine pingers) over NATS.
package notify

import (
	"context"
	"time"
)

// Artifact describes one written file.
type Artifact struct {
	Name   string `json:"name"`
	SHA256 string `json:"sha256"`
	Size   int    `json:"size"`
}

// Event is published once per successful generation.
type Event struct {
	BuildID     string     `json:"build_id"`
	BaseURL     string     `json:"base_url"`
	SitemapURL  string     `json:"sitemap_url,omitempty"`
	URLCount    int        `json:"url_count"`
	Artifacts   []Artifact `json:"artifacts"`
	Locations   []string   `json:"locations"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// Notifier publishes generation events.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
	Close() error
}

// NoopNotifier discards events (default when notify is not configured).
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Event) error { return nil }
func (NoopNotifier) Close() error                        { return nil }
