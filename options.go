package launchmap

import (
	"fmt"

	"github.com/agentstation/launchmap/pkg/pipeline"
)

// config holds the settings gathered from options before the pipeline
// is constructed.
type config struct {
	pipelineOptions []pipeline.Option
}

func defaultConfig() *config {
	return &config{}
}

// Option configures a LaunchMap instance
type Option func(*launchMap) error

// options applies the given options to the instance
func (lm *launchMap) options(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(lm); err != nil {
			return err
		}
	}
	return nil
}

// WithDateToleranceHours sets how close two launch dates must be for
// deduplication to treat records as the same event.
func WithDateToleranceHours(hours int) Option {
	return func(lm *launchMap) error {
		if hours <= 0 {
			return fmt.Errorf("date tolerance must be positive, got %d", hours)
		}
		lm.config.pipelineOptions = append(lm.config.pipelineOptions, pipeline.WithDateToleranceHours(hours))
		return nil
	}
}

// WithConflictDetection toggles the conflict detection stage
func WithConflictDetection(enabled bool) Option {
	return func(lm *launchMap) error {
		lm.config.pipelineOptions = append(lm.config.pipelineOptions, pipeline.WithConflictDetection(enabled))
		return nil
	}
}

// WithDeduplication toggles the deduplication stage
func WithDeduplication(enabled bool) Option {
	return func(lm *launchMap) error {
		lm.config.pipelineOptions = append(lm.config.pipelineOptions, pipeline.WithDeduplication(enabled))
		return nil
	}
}
