package routes

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
)

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestCommandPathMapRoundTrip(t *testing.T) {
	requireBinary(t, "sh")
	// The command echoes its input's paths array back, which is a valid output document.
	script := `sed -e 's/^{"context":{[^}]*},/{/'`
	fn := CommandPathMap([]string{"sh", "-c", script})

	in := NewPathMap()
	in.Set("/", Descriptor{Page: "/"})
	in.Set("/post/1", Descriptor{Page: "/post", Query: map[string]any{"id": "1"}})

	out, err := fn(context.Background(), in, BuildContext{Dir: t.TempDir(), BuildID: "b"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/", "/post/1"}, out.Paths())
	d, _ := out.Get("/post/1")
	assert.Equal(t, "/post", d.Page)
	assert.Equal(t, map[string]any{"id": "1"}, d.Query)
}

func TestCommandPathMapReplacesRoutes(t *testing.T) {
	requireBinary(t, "sh")
	script := `cat >/dev/null; echo '{"paths":[{"path":"/generated"},{"path":"/"}]}'`
	fn := CommandPathMap([]string{"sh", "-c", script})

	out, err := fn(context.Background(), PathMapFromRoutes([]string{"/", "/about"}), BuildContext{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, []string{"/generated", "/"}, out.Paths())
}

func TestCommandPathMapFailures(t *testing.T) {
	requireBinary(t, "sh")

	tests := []struct {
		name   string
		script string
	}{
		{"non-zero exit", `cat >/dev/null; echo nope >&2; exit 3`},
		{"invalid json", `cat >/dev/null; echo not-json`},
		{"unknown field", `cat >/dev/null; echo '{"routes":[]}'`},
		{"row without path", `cat >/dev/null; echo '{"paths":[{"page":"/x"}]}'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := CommandPathMap([]string{"sh", "-c", tt.script})
			_, err := fn(context.Background(), NewPathMap(), BuildContext{Dir: t.TempDir()})
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryOverride))
		})
	}
}

func TestCommandPathMapEmptyArgv(t *testing.T) {
	_, err := CommandPathMap(nil)(context.Background(), NewPathMap(), BuildContext{})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}
