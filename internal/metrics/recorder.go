package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultSkipped ResultLabel = "skipped"
	ResultFatal   ResultLabel = "fatal"
)

// OutcomeLabel is the final status of a generation run.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeWarning OutcomeLabel = "warning" // artifacts written, a follow-up step (upload, notify) failed
	OutcomeFailed  OutcomeLabel = "failed"
)

// Stage names reported by the generator.
const (
	StageDiscover  = "discover"
	StageResolve   = "resolve"
	StageBuild     = "build"
	StageSerialize = "serialize"
	StageWrite     = "write"
	StageNotify    = "notify"
)

// Recorder defines observability hooks for generation metrics. Implementations
// may forward to Prometheus or anything else.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveGenerationDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncOutcome(outcome OutcomeLabel)
	SetURLCount(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveGenerationDuration(time.Duration)    {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncOutcome(OutcomeLabel)                    {}
func (NoopRecorder) SetURLCount(int)                            {}
