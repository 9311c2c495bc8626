package metrics

import (
	"time"
)

// testRecorder counts calls; other packages' tests use their own fakes.
type testRecorder struct {
	stageDurations map[string]int
	stageResults   map[string]map[ResultLabel]int
	genDurations   int
	outcomes       map[OutcomeLabel]int
	urls           int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		stageDurations: map[string]int{},
		stageResults:   map[string]map[ResultLabel]int{},
		outcomes:       map[OutcomeLabel]int{},
	}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.stageDurations[stage]++
}
func (t *testRecorder) ObserveGenerationDuration(_ time.Duration) { t.genDurations++ }
func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}
func (t *testRecorder) IncOutcome(outcome OutcomeLabel) { t.outcomes[outcome]++ }
func (t *testRecorder) SetURLCount(n int)               { t.urls = n }

var (
	_ Recorder = (*testRecorder)(nil)
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)
