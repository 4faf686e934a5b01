package launchmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/launchmap"
	"github.com/agentstation/launchmap/pkg/launches"
	"github.com/agentstation/launchmap/pkg/pipeline"
)

var spacexSrc = launches.Source{Name: "spacex.com", URL: "https://www.spacex.com/launches", QualityScore: 0.95}

func TestNew(t *testing.T) {
	lm, err := launchmap.New()
	require.NoError(t, err)
	require.NotNil(t, lm)
}

func TestNewWithOptions(t *testing.T) {
	lm, err := launchmap.New(
		launchmap.WithDateToleranceHours(12),
		launchmap.WithConflictDetection(false),
	)
	require.NoError(t, err)
	require.NotNil(t, lm)
}

func TestNewRejectsInvalidTolerance(t *testing.T) {
	_, err := launchmap.New(launchmap.WithDateToleranceHours(0))
	assert.Error(t, err)
}

func TestProcess(t *testing.T) {
	lm, err := launchmap.New()
	require.NoError(t, err)

	inputs := []pipeline.Input{
		{
			Record: launches.Raw{
				"mission_name": "Starship Flight 7",
				"launch_date":  "2026-01-10T22:00:00Z",
				"status":       "scheduled",
			},
			Source: spacexSrc,
		},
	}

	result := lm.Process(inputs)
	require.NotNil(t, result)
	require.Len(t, result.Launches, 1)
	assert.Equal(t, "starship-flight-7", result.Launches[0].Slug)

	history := lm.History()
	require.Len(t, history, 1)
	assert.Equal(t, 1, history[0].InputCount)

	lm.ClearHistory()
	assert.Empty(t, lm.History())
}

func TestValidate(t *testing.T) {
	lm, err := launchmap.New()
	require.NoError(t, err)

	launch, err := lm.Validate(launches.Raw{"mission_name": "Artemis II"}, spacexSrc)
	require.NoError(t, err)
	assert.Equal(t, "artemis-ii", launch.Slug)

	_, err = lm.Validate(launches.Raw{"slug": "no-name"}, spacexSrc)
	assert.Error(t, err)
}
