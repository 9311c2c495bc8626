package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Stage", KeyStage, "discover", Stage("discover")},
		{"Path", KeyPath, "/tmp/pages", Path("/tmp/pages")},
		{"Route", KeyRoute, "/about", Route("/about")},
		{"File", KeyFile, "about.js", File("about.js")},
		{"BaseURL", KeyBaseURL, "https://example.com", BaseURL("https://example.com")},
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Artifact", KeyArtifact, "sitemap.xml", Artifact("sitemap.xml")},
		{"Sink", KeySink, "local", Sink("local")},
		{"Field", KeyField, "base_url", Field("base_url")},
		{"URL", KeyURL, "nats://localhost:4222", URL("nats://localhost:4222")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if v := Count(4); v.Key != KeyCount || v.Value.Int64() != 4 {
		t.Fatalf("Count mismatch: %v", v)
	}
	if v := DurationMS(12.5); v.Key != KeyDurationMS {
		t.Fatalf("DurationMS key mismatch: %s", v.Key)
	}
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	if attr := Error(nil); attr.Key != KeyError || attr.Value.String() != "" {
		t.Fatalf("unexpected nil error attr: %v", attr)
	}
	if attr := Error(errors.New("boom")); attr.Value.String() != "boom" {
		t.Fatalf("unexpected error attr: %v", attr)
	}
}
