// Package pipeline orchestrates the launch data processing stages:
// validate, group by slug, detect conflicts, reconcile sources, and
// deduplicate. A run is a pure batch transform over in-memory records;
// the only state a pipeline keeps between runs is its append-only run
// history and its components' accumulated statistics.
package pipeline

import (
	"fmt"
	"time"

	"github.com/agentstation/utc"
	"github.com/google/uuid"

	"github.com/agentstation/launchmap/pkg/conflict"
	"github.com/agentstation/launchmap/pkg/dedupe"
	"github.com/agentstation/launchmap/pkg/launches"
	"github.com/agentstation/launchmap/pkg/logging"
	"github.com/agentstation/launchmap/pkg/reconcile"
	"github.com/agentstation/launchmap/pkg/validate"
)

// Config holds the orchestrator's processing settings.
type Config struct {
	DateToleranceHours      int  `json:"date_tolerance_hours" yaml:"date_tolerance_hours"`
	EnableConflictDetection bool `json:"enable_conflict_detection" yaml:"enable_conflict_detection"`
	EnableDeduplication     bool `json:"enable_deduplication" yaml:"enable_deduplication"`
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		DateToleranceHours:      24,
		EnableConflictDetection: true,
		EnableDeduplication:     true,
	}
}

// Input is one raw scraped record paired with its source descriptor.
type Input struct {
	Record launches.Raw    `json:"record" yaml:"record"`
	Source launches.Source `json:"source" yaml:"source"`
}

// Result is the outcome of one processing run. It is JSON-serializable
// for downstream persistence and API layers.
type Result struct {
	Launches         []launches.Launch        `json:"processed_launches" yaml:"processed_launches"`
	Conflicts        []launches.FieldConflict `json:"conflicts" yaml:"conflicts"`
	Assessments      []conflict.Assessment    `json:"conflict_analyses" yaml:"conflict_analyses"`
	ValidationErrors []string                 `json:"validation_errors" yaml:"validation_errors"`
	Stats            Stats                    `json:"processing_stats" yaml:"processing_stats"`
	Elapsed          time.Duration            `json:"processing_time" yaml:"processing_time"`
}

// Stats aggregates run statistics with per-component sub-statistics.
type Stats struct {
	InputRecords      int     `json:"input_records" yaml:"input_records"`
	ValidatedRecords  int     `json:"validated_records" yaml:"validated_records"`
	ReconciledRecords int     `json:"reconciled_records" yaml:"reconciled_records"`
	FinalRecords      int     `json:"final_records" yaml:"final_records"`
	SuccessRate       float64 `json:"validation_success_rate" yaml:"validation_success_rate"`
	ConflictsDetected int     `json:"conflicts_detected" yaml:"conflicts_detected"`
	ValidationErrors  int     `json:"validation_errors" yaml:"validation_errors"`

	Validator         validate.Summary  `json:"validator_stats" yaml:"validator_stats"`
	Reconciliation    reconcile.Summary `json:"reconciliation_stats" yaml:"reconciliation_stats"`
	Deduplication     *dedupe.Summary   `json:"deduplication_stats,omitempty" yaml:"deduplication_stats,omitempty"`
	ConflictDetection *conflict.Summary `json:"conflict_detection_stats,omitempty" yaml:"conflict_detection_stats,omitempty"`
}

// RunRecord is one entry in the pipeline's run history.
type RunRecord struct {
	ID          uuid.UUID     `json:"id" yaml:"id"`
	Timestamp   utc.Time      `json:"timestamp" yaml:"timestamp"`
	InputCount  int           `json:"input_count" yaml:"input_count"`
	OutputCount int           `json:"output_count" yaml:"output_count"`
	Conflicts   int           `json:"conflicts_detected" yaml:"conflicts_detected"`
	Duration    time.Duration `json:"processing_time" yaml:"processing_time"`
}

// Pipeline sequences the processing stages and accumulates run history.
// A pipeline instance owns its component state: concurrent batches need
// distinct instances, or Reset calls between runs.
type Pipeline struct {
	cfg Config

	validator  *validate.Validator
	detector   *conflict.Detector
	reconciler *reconcile.Reconciler
	deduper    *dedupe.Deduplicator

	history *history
}

// Option configures a Pipeline. Options are also accepted by Configure
// for reconfiguring an existing pipeline.
type Option func(*Pipeline)

// WithDateToleranceHours sets the deduplication date tolerance. The
// deduplicator is rebuilt only when the tolerance actually changes;
// other options never touch it.
func WithDateToleranceHours(hours int) Option {
	return func(p *Pipeline) {
		if hours == p.cfg.DateToleranceHours {
			return
		}
		p.cfg.DateToleranceHours = hours
		p.deduper = dedupe.New(dedupe.WithDateTolerance(time.Duration(hours) * time.Hour))
	}
}

// WithConflictDetection toggles the conflict detection stage.
func WithConflictDetection(enabled bool) Option {
	return func(p *Pipeline) {
		p.cfg.EnableConflictDetection = enabled
	}
}

// WithDeduplication toggles the deduplication stage.
func WithDeduplication(enabled bool) Option {
	return func(p *Pipeline) {
		p.cfg.EnableDeduplication = enabled
	}
}

// New creates a Pipeline with default configuration and fresh components.
func New(opts ...Option) *Pipeline {
	cfg := DefaultConfig()
	p := &Pipeline{
		cfg:        cfg,
		validator:  validate.New(),
		detector:   conflict.New(),
		reconciler: reconcile.New(),
		deduper:    dedupe.New(dedupe.WithDateTolerance(time.Duration(cfg.DateToleranceHours) * time.Hour)),
		history:    &history{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the pipeline's current configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Configure applies options to an existing pipeline. Tolerance updates
// are independent of the stage toggles.
func (p *Pipeline) Configure(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
	logging.Info().
		Bool("conflict_detection", p.cfg.EnableConflictDetection).
		Bool("deduplication", p.cfg.EnableDeduplication).
		Int("date_tolerance_hours", p.cfg.DateToleranceHours).
		Msg("Pipeline reconfigured")
}

// Process runs the full batch transform over raw scraped records.
// Invalid records are dropped and reported, never aborting the run;
// unexpected failures are caught here and recorded into the result's
// validation errors, so Process always returns a (possibly partial)
// result.
func (p *Pipeline) Process(inputs []Input) (result *Result) {
	start := time.Now()
	result = &Result{ValidationErrors: []string{}}

	defer func() {
		if r := recover(); r != nil {
			logging.Error().Interface("panic", r).Msg("Data processing pipeline failed")
			result.ValidationErrors = append(result.ValidationErrors, fmt.Sprintf("pipeline error: %v", r))
			result.Elapsed = time.Since(start)
		}
	}()

	logging.Info().Int("records", len(inputs)).Msg("Starting data processing pipeline")

	// Each run reports its own accumulators.
	p.validator.Clear()
	p.detector.Clear()
	p.reconciler.Clear()

	// Validate.
	validated := p.validateInputs(inputs, result)
	if len(validated) == 0 {
		logging.Warn().Msg("No valid data after validation step")
		result.Stats = p.buildStats(len(inputs), 0, 0, 0, result)
		result.Elapsed = time.Since(start)
		return result
	}

	// Group by slug.
	groups := launches.GroupBySlug(validated)
	logging.Debug().Int("groups", len(groups)).Msg("Grouped records by slug")

	// Detect conflicts (optional). The detector's all-pairs assessments
	// are reported alongside the reconciler's seed-only conflict list;
	// the two differ by design and are never collapsed together.
	if p.cfg.EnableConflictDetection {
		result.Assessments = p.detector.Detect(groups)
	}

	// Reconcile each group to one canonical record.
	reconciled, conflicts := p.reconciler.ReconcileGroups(groups)
	result.Conflicts = conflicts

	// Deduplicate (optional) as a safety net over the reconciled list.
	final := reconciled
	if p.cfg.EnableDeduplication {
		final = p.deduper.Deduplicate(reconciled)
	}
	result.Launches = final

	result.Stats = p.buildStats(len(inputs), len(validated), len(reconciled), len(final), result)
	result.Elapsed = time.Since(start)

	p.logSummary(result)

	p.history.append(RunRecord{
		ID:          uuid.New(),
		Timestamp:   utc.New(start),
		InputCount:  len(inputs),
		OutputCount: len(final),
		Conflicts:   len(result.Conflicts),
		Duration:    result.Elapsed,
	})

	return result
}

// ValidateOne validates a single raw record without running the rest of
// the pipeline.
func (p *Pipeline) ValidateOne(raw launches.Raw, source launches.Source) (*launches.Launch, error) {
	return p.validator.Validate(raw, source)
}

// validateInputs runs every input pair through the validator, dropping
// and recording invalid ones.
func (p *Pipeline) validateInputs(inputs []Input, result *Result) []launches.Sourced {
	validated := make([]launches.Sourced, 0, len(inputs))
	for _, input := range inputs {
		launch, err := p.validator.Validate(input.Record, input.Source)
		if err != nil {
			continue // already accumulated by the validator
		}
		validated = append(validated, launches.Sourced{Launch: *launch, Source: input.Source})
	}

	result.ValidationErrors = append(result.ValidationErrors, p.validator.Errors()...)

	logging.Info().
		Int("validated", len(validated)).
		Int("input", len(inputs)).
		Msg("Validated records")

	return validated
}

// buildStats assembles run statistics with component sub-statistics.
func (p *Pipeline) buildStats(input, validated, reconciled, final int, result *Result) Stats {
	stats := Stats{
		InputRecords:      input,
		ValidatedRecords:  validated,
		ReconciledRecords: reconciled,
		FinalRecords:      final,
		ConflictsDetected: len(result.Conflicts),
		ValidationErrors:  len(result.ValidationErrors),
		Validator:         p.validator.Summary(),
		Reconciliation:    p.reconciler.Summary(),
	}
	if input > 0 {
		stats.SuccessRate = float64(validated) / float64(input)
	}
	if p.cfg.EnableDeduplication {
		s := p.deduper.Summary()
		stats.Deduplication = &s
	}
	if p.cfg.EnableConflictDetection {
		s := p.detector.Summary()
		stats.ConflictDetection = &s
	}
	return stats
}

// logSummary emits the end-of-run processing summary.
func (p *Pipeline) logSummary(result *Result) {
	logging.Info().
		Int("input_records", result.Stats.InputRecords).
		Int("validated_records", result.Stats.ValidatedRecords).
		Int("final_records", result.Stats.FinalRecords).
		Float64("validation_success_rate", result.Stats.SuccessRate).
		Int("conflicts_detected", result.Stats.ConflictsDetected).
		Int("validation_errors", result.Stats.ValidationErrors).
		Dur("processing_time", result.Elapsed).
		Msg("Data processing pipeline summary")

	critical := 0
	for _, a := range result.Assessments {
		if a.Severity == conflict.SeverityCritical {
			critical++
		}
	}
	if critical > 0 {
		logging.Warn().Int("critical_conflicts", critical).Msg("Critical conflicts requiring attention")
	}
}

// History returns a copy of the run history.
func (p *Pipeline) History() []RunRecord {
	return p.history.snapshot()
}

// ClearHistory removes all run history entries.
func (p *Pipeline) ClearHistory() {
	p.history.clear()
}

// Reset clears the accumulated state of every component so the next run
// starts fresh. The deduplicator keeps its configured tolerance.
func (p *Pipeline) Reset() {
	p.validator.Clear()
	p.detector.Clear()
	p.reconciler.Clear()
	p.deduper = dedupe.New(dedupe.WithDateTolerance(p.deduper.Tolerance()))
}
