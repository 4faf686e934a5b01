// Package launchmap consolidates rocket launch records scraped from
// multiple disagreeing sources into a single clean dataset. It layers
// validation, conflict detection, trust-ranked reconciliation, and
// deduplication behind one batch processing entry point.
package launchmap

import (
	"fmt"
	"sync"

	"github.com/agentstation/launchmap/pkg/launches"
	"github.com/agentstation/launchmap/pkg/pipeline"
)

// LaunchMap processes batches of raw scraped launch records into
// reconciled canonical launches.
type LaunchMap interface {
	// Process runs the full pipeline over a batch of raw records.
	Process(inputs []pipeline.Input) *pipeline.Result

	// Validate checks a single raw record without processing a batch.
	Validate(record launches.Raw, source launches.Source) (*launches.Launch, error)

	// History returns the run history of this instance.
	History() []pipeline.RunRecord

	// ClearHistory removes all run history entries.
	ClearHistory()

	// Configure adjusts pipeline settings between runs.
	Configure(opts ...pipeline.Option)

	// Reset clears accumulated component state for a fresh start.
	Reset()
}

// launchMap is the internal implementation of the LaunchMap interface
type launchMap struct {
	mu       sync.Mutex
	pipeline *pipeline.Pipeline
	config   *config
}

// New creates a new LaunchMap instance with the given options
func New(opts ...Option) (LaunchMap, error) {
	lm := &launchMap{
		config: defaultConfig(),
	}

	if err := lm.options(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}

	lm.pipeline = pipeline.New(lm.config.pipelineOptions...)

	return lm, nil
}

// Process runs the full pipeline over a batch of raw records. Calls are
// serialized so one instance can be shared across goroutines.
func (lm *launchMap) Process(inputs []pipeline.Input) *pipeline.Result {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	return lm.pipeline.Process(inputs)
}

// Validate checks a single raw record without processing a batch
func (lm *launchMap) Validate(record launches.Raw, source launches.Source) (*launches.Launch, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	return lm.pipeline.ValidateOne(record, source)
}

// History returns the run history of this instance
func (lm *launchMap) History() []pipeline.RunRecord {
	return lm.pipeline.History()
}

// ClearHistory removes all run history entries
func (lm *launchMap) ClearHistory() {
	lm.pipeline.ClearHistory()
}

// Configure adjusts pipeline settings between runs
func (lm *launchMap) Configure(opts ...pipeline.Option) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	lm.pipeline.Configure(opts...)
}

// Reset clears accumulated component state for a fresh start
func (lm *launchMap) Reset() {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	lm.pipeline.Reset()
}
