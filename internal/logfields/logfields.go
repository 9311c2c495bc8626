package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyRoute      = "route"
	KeyFile       = "file"
	KeyCount      = "count"
	KeyBaseURL    = "base_url"
	KeyBuildID    = "build_id"
	KeyArtifact   = "artifact"
	KeySink       = "sink"
	KeyField      = "field"
	KeyURL        = "url"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Route(r string) slog.Attr        { return slog.String(KeyRoute, r) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func BaseURL(u string) slog.Attr      { return slog.String(KeyBaseURL, u) }
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Artifact(name string) slog.Attr  { return slog.String(KeyArtifact, name) }
func Sink(name string) slog.Attr      { return slog.String(KeySink, name) }
func Field(name string) slog.Attr     { return slog.String(KeyField, name) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
