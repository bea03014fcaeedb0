package metrics

import (
	"testing"
	"time"
)

// testRecorder verifies components can drive the Recorder interface.
type testRecorder struct {
	stageDurations map[string]int
	stageResults   map[string]map[ResultLabel]int
	buildOutcomes  map[BuildOutcomeLabel]int
	rendered       int
	skipped        int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		stageDurations: map[string]int{},
		stageResults:   map[string]map[ResultLabel]int{},
		buildOutcomes:  map[BuildOutcomeLabel]int{},
	}
}

func (r *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	r.stageDurations[stage]++
}
func (r *testRecorder) ObserveBuildDuration(time.Duration) {}
func (r *testRecorder) IncStageResult(stage string, result ResultLabel) {
	if r.stageResults[stage] == nil {
		r.stageResults[stage] = map[ResultLabel]int{}
	}
	r.stageResults[stage][result]++
}
func (r *testRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) { r.buildOutcomes[outcome]++ }
func (r *testRecorder) IncPageRendered()                          { r.rendered++ }
func (r *testRecorder) IncPageSkipped()                           { r.skipped++ }

func TestNoopRecorderImplementsRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("render_pages", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncStageResult("render_pages", ResultSuccess)
	r.IncBuildOutcome(OutcomeSuccess)
	r.IncPageRendered()
	r.IncPageSkipped()
}

func TestTestRecorderCounts(t *testing.T) {
	r := newTestRecorder()
	r.IncStageResult("publish", ResultFatal)
	r.IncStageResult("publish", ResultFatal)
	if r.stageResults["publish"][ResultFatal] != 2 {
		t.Errorf("expected 2 fatal publish results, got %d", r.stageResults["publish"][ResultFatal])
	}
}
