package launches_test

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/launchmap/pkg/launches"
)

func TestLaunchCopy(t *testing.T) {
	date := utc.New(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	mass := 15600.0

	original := launches.Launch{
		Slug:        "starship-flight-7",
		MissionName: "Starship Flight 7",
		LaunchDate:  &date,
		PayloadMass: &mass,
		Status:      launches.StatusUpcoming,
	}

	clone := original.Copy()
	require.NotNil(t, clone.LaunchDate)
	require.NotNil(t, clone.PayloadMass)

	// Mutating the copy's pointers must not reach the original.
	*clone.PayloadMass = 0
	*clone.LaunchDate = utc.Now()

	assert.Equal(t, 15600.0, *original.PayloadMass)
	assert.Equal(t, date, *original.LaunchDate)
}

func TestGroupBySlug(t *testing.T) {
	src := launches.Source{Name: "spacex.com", QualityScore: 0.9}
	records := []launches.Sourced{
		{Launch: launches.Launch{Slug: "starlink-g6-1"}, Source: src},
		{Launch: launches.Launch{Slug: "artemis-2"}, Source: src},
		{Launch: launches.Launch{Slug: "starlink-g6-1"}, Source: src},
	}

	groups := launches.GroupBySlug(records)
	assert.Len(t, groups, 2)
	assert.Len(t, groups["starlink-g6-1"], 2)
	assert.Len(t, groups["artemis-2"], 1)
}
