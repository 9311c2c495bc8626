package sitemap

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitemapper/internal/logfields"
)

// DateLayout is the W3C date form used for <lastmod>.
const DateLayout = "2006-01-02"

// Builder turns resolved routes into URL entries. One Builder corresponds to one
// generation run: the lastmod date is fixed when it is created.
type Builder struct {
	baseURL    string
	alternates []AlternateBaseURL
	tags       []PageTag
	lastMod    string
}

// NewBuilder creates a Builder. baseURL and alternate URLs are expected without a
// trailing slash (config normalization guarantees that).
func NewBuilder(baseURL string, alternates []AlternateBaseURL, tags []PageTag, now time.Time) *Builder {
	return &Builder{
		baseURL:    baseURL,
		alternates: alternates,
		tags:       tags,
		lastMod:    now.UTC().Format(DateLayout),
	}
}

// LastMod returns the date every entry of this run carries.
func (b *Builder) LastMod() string { return b.lastMod }

// Build returns one entry per route, in route order. A route whose location was
// already emitted is dropped.
func (b *Builder) Build(routes []string) []URLEntry {
	entries := make([]URLEntry, 0, len(routes))
	seen := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		entry := b.Entry(route)
		if _, dup := seen[entry.Location]; dup {
			slog.Warn("Dropping duplicate sitemap location", logfields.Route(route), logfields.URL(entry.Location))
			continue
		}
		seen[entry.Location] = struct{}{}
		entries = append(entries, entry)
	}
	return entries
}

// Entry builds the entry for a single route: computed defaults first, then the
// changefreq and priority of the first page tag whose path equals route.
func (b *Builder) Entry(route string) URLEntry {
	entry := URLEntry{
		Location: b.baseURL + route,
		LastMod:  b.lastMod,
	}

	if len(b.alternates) > 0 {
		entry.Alternates = make([]AlternateLink, len(b.alternates))
		for i, alt := range b.alternates {
			entry.Alternates[i] = AlternateLink{
				Rel:      "alternate",
				HrefLang: alt.Lang,
				Href:     alt.URL + route,
			}
		}
	}

	if tag, ok := b.tagFor(route); ok {
		if tag.ChangeFreq != "" {
			entry.ChangeFreq = tag.ChangeFreq
		}
		if tag.Priority != nil {
			p := *tag.Priority
			entry.Priority = &p
		}
	}
	return entry
}

func (b *Builder) tagFor(route string) (PageTag, bool) {
	for _, tag := range b.tags {
		if tag.Path == route {
			return tag, true
		}
	}
	return PageTag{}, false
}
