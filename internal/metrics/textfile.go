package metrics

import (
	"os"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
)

// WriteTextfile writes the recorder's metrics in the Prometheus text
// exposition format, for pickup by the node_exporter textfile collector.
// The write is atomic.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return ferrors.FileSystemError("failed to create metrics directory").
				WithCause(err).
				WithContext("path", dir).
				Build()
		}
	}
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return ferrors.FileSystemError("failed to write metrics textfile").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
