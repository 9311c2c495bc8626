// Package metrics records generation metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so callers never nil-check:
//
//	gen := generator.New(cfg) // NoopRecorder
//	rec := metrics.NewPrometheusRecorder(nil)
//	gen = generator.New(cfg, generator.WithRecorder(rec))
//
// A single CLI run has no scrape endpoint, so PrometheusRecorder.WriteTextfile
// exports the collected metrics for the node_exporter textfile collector.
package metrics
