package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"config", ConfigError("bad config").Build(), 7},
		{"storage", StorageError("upload").Build(), 8},
		{"network", NetworkError("nats").Build(), 8},
		{"discovery", DiscoveryError("root").Build(), 11},
		{"filesystem", FileSystemError("write").Build(), 11},
		{"internal", InternalError("bug").Build(), 10},
		{"override category falls through", NewError(CategoryOverride, "x").Build(), 1},
		{"unclassified", errors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	t.Run("config error names the field", func(t *testing.T) {
		adapter := NewCLIErrorAdapter(false, nil)
		err := ConfigError("changefreq must be one of always, hourly, daily, weekly, monthly, yearly, never").
			WithContext("field", "page_tags[0].changefreq").
			WithContext("path", "/").
			Build()

		msg := adapter.FormatError(err)
		assert.Contains(t, msg, "changefreq must be one of")
		assert.Contains(t, msg, "field=page_tags[0].changefreq")
		assert.Contains(t, msg, "path=/")
	})

	t.Run("internal errors are hidden unless verbose", func(t *testing.T) {
		err := InternalError("nil pointer").Build()
		assert.Equal(t, "Internal error occurred (use -v for details)", NewCLIErrorAdapter(false, nil).FormatError(err))
		assert.Contains(t, NewCLIErrorAdapter(true, nil).FormatError(err), "nil pointer")
	})

	t.Run("unclassified", func(t *testing.T) {
		assert.Equal(t, "Error: boom", NewCLIErrorAdapter(false, nil).FormatError(errors.New("boom")))
	})
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewCLIErrorAdapter(false, nil)
	adapter.out = &buf

	code := adapter.HandleError(DiscoveryError("pages root unreadable").WithContext("path", "/nope").Build())

	assert.Equal(t, 11, code)
	assert.Contains(t, buf.String(), "pages root unreadable")
	assert.Equal(t, 0, adapter.HandleError(nil))
}
