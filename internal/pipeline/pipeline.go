// Package pipeline sequences the build stages against one staging area
// and performs the atomic publish into the live output directory.
package pipeline

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/assets"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/render"
	"git.home.luguber.info/inful/sitegen/internal/staging"
	"git.home.luguber.info/inful/sitegen/internal/styles"
)

// BuildContext is the mutable state threaded through one build. It is
// owned exclusively by the Coordinator for the build's duration and
// discarded at the end.
type BuildContext struct {
	Mode      string
	Area      *staging.Area
	Images    assets.ImageRegistry
	Templates *render.TemplateSet
	SitePath  string

	warnings []string
}

// Warn records a non-fatal condition surfaced in the final outcome.
func (bc *BuildContext) Warn(msg string) {
	bc.warnings = append(bc.warnings, msg)
}

// PublishOutcome reports the result of one build.
type PublishOutcome struct {
	Success  bool
	Warnings []string
	// SitePath is the live directory after a production publish, or the
	// staging directory left behind by a development build.
	SitePath string
}

// Coordinator runs the staged build and atomic publish pipeline.
type Coordinator struct {
	cfg      *config.Config
	compiler styles.Compiler
	recorder metrics.Recorder
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithCompiler injects a stylesheet compiler (tests use NoopCompiler).
func WithCompiler(c styles.Compiler) Option {
	return func(co *Coordinator) { co.compiler = c }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(co *Coordinator) { co.recorder = r }
}

// NewCoordinator creates a Coordinator for the given project config.
func NewCoordinator(cfg *config.Config, opts ...Option) *Coordinator {
	c := &Coordinator{
		cfg:      cfg,
		compiler: &styles.BinaryCompiler{},
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// stages returns the ordered stage list for the given mode. Development
// mode stops after cleanup, leaving the staging tree inspectable.
func (c *Coordinator) stages(mode string) []StageDef {
	defs := []StageDef{
		{Name: StageLoadTemplates, Fn: c.stageLoadTemplates},
		{Name: StageLoadImages, Fn: c.stageLoadImages},
		{Name: StageRenderPages, Fn: c.stageRenderPages},
		{Name: StagePosts, Fn: c.stagePosts},
		{Name: StageBuildStyles, Fn: c.stageBuildStyles},
		{Name: StageCleanStaging, Fn: c.stageCleanStaging},
	}
	if mode != config.ModeDevelopment {
		defs = append(defs, StageDef{Name: StagePublish, Fn: c.stagePublish})
	}
	return defs
}

// Run executes one build. The staging area is destroyed on every exit
// path except a successful development build, whose staging tree is the
// deliverable.
func (c *Coordinator) Run() (*PublishOutcome, error) {
	start := time.Now()
	mode := c.cfg.Build.Mode

	area := staging.NewArea(c.cfg.Build.Staging)
	if err := area.Create(); err != nil {
		c.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		return nil, err
	}

	bc := &BuildContext{Mode: mode, Area: area, Images: assets.ImageRegistry{}}

	keepStaging := false
	defer func() {
		if keepStaging {
			return
		}
		if err := area.Destroy(); err != nil {
			slog.Warn("Failed to destroy staging directory", logfields.Error(err))
		}
	}()

	if err := c.runStages(bc); err != nil {
		c.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		return nil, err
	}

	outcome := &PublishOutcome{Success: true, Warnings: bc.warnings}
	if mode == config.ModeDevelopment {
		keepStaging = true
		outcome.SitePath = area.Path()
		slog.Info("Development build complete, staging left in place", logfields.Staging(area.Path()))
	} else {
		outcome.SitePath = bc.SitePath
	}

	c.recorder.ObserveBuildDuration(time.Since(start))
	c.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	return outcome, nil
}

// runStages executes stages in order, recording timing and stopping on
// the first fatal error.
func (c *Coordinator) runStages(bc *BuildContext) error {
	for _, st := range c.stages(bc.Mode) {
		t0 := time.Now()
		warningsBefore := len(bc.warnings)

		err := st.Fn(bc)
		dur := time.Since(t0)
		c.recorder.ObserveStageDuration(string(st.Name), dur)

		if err != nil {
			c.recorder.IncStageResult(string(st.Name), metrics.ResultFatal)
			slog.Error("Stage failed",
				logfields.Stage(string(st.Name)),
				logfields.DurationMS(float64(dur.Milliseconds())),
				logfields.Error(err))
			return err
		}

		result := metrics.ResultSuccess
		if len(bc.warnings) > warningsBefore {
			result = metrics.ResultWarning
		}
		c.recorder.IncStageResult(string(st.Name), result)
		slog.Debug("Stage complete",
			logfields.Stage(string(st.Name)),
			logfields.DurationMS(float64(dur.Milliseconds())))
	}
	return nil
}
