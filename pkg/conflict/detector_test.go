package conflict_test

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/launchmap/pkg/conflict"
	"github.com/agentstation/launchmap/pkg/launches"
)

func datePtr(t time.Time) *utc.Time {
	ut := utc.New(t)
	return &ut
}

func sourced(slug, mission string, source launches.Source, mutate func(*launches.Launch)) launches.Sourced {
	l := launches.Launch{
		Slug:        slug,
		MissionName: mission,
		Status:      launches.StatusUpcoming,
	}
	if mutate != nil {
		mutate(&l)
	}
	return launches.Sourced{Launch: l, Source: source}
}

var (
	spacex = launches.Source{Name: "spacex.com", QualityScore: 0.95}
	wiki   = launches.Source{Name: "wikipedia", QualityScore: 0.6}
)

func TestDetectSingleSourceNoConflicts(t *testing.T) {
	d := conflict.New()
	groups := map[string][]launches.Sourced{
		"starship-flight-7": {sourced("starship-flight-7", "Starship Flight 7", spacex, nil)},
	}

	assessments := d.Detect(groups)
	assert.Empty(t, assessments)
	assert.Empty(t, d.Conflicts())
}

func TestDetectAgreementNoConflicts(t *testing.T) {
	d := conflict.New()
	date := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	groups := map[string][]launches.Sourced{
		"starlink-g6-1": {
			sourced("starlink-g6-1", "Starlink Group 6-1", spacex, func(l *launches.Launch) {
				l.LaunchDate = datePtr(date)
			}),
			sourced("starlink-g6-1", "Starlink Group 6-1", wiki, func(l *launches.Launch) {
				l.LaunchDate = datePtr(date.Add(time.Hour)) // within tolerance
			}),
		},
	}

	assert.Empty(t, d.Detect(groups))
}

func TestDetectMissionNameConflictIsCritical(t *testing.T) {
	d := conflict.New()
	groups := map[string][]launches.Sourced{
		"mystery-mission": {
			sourced("mystery-mission", "Starship Flight 7", spacex, nil),
			sourced("mystery-mission", "Crew Dragon Demo", wiki, nil),
		},
	}

	assessments := d.Detect(groups)
	require.Len(t, assessments, 1)

	a := assessments[0]
	assert.Equal(t, launches.FieldMissionName, a.Conflict.Field)
	assert.Equal(t, conflict.SeverityCritical, a.Severity)
	assert.False(t, a.AutoResolvable)
	assert.Contains(t, a.Recommendation, "Manual review required")
	assert.GreaterOrEqual(t, a.Conflict.Confidence, 0.8)
	assert.LessOrEqual(t, a.Conflict.Confidence, 1.0)
}

func TestDetectStatusConflictIsHigh(t *testing.T) {
	d := conflict.New()
	groups := map[string][]launches.Sourced{
		"crs-29": {
			sourced("crs-29", "CRS-29", spacex, func(l *launches.Launch) {
				l.Status = launches.StatusSuccess
			}),
			sourced("crs-29", "CRS-29", spacex, func(l *launches.Launch) {
				l.Status = launches.StatusFailure
			}),
		},
	}

	assessments := d.Detect(groups)
	require.Len(t, assessments, 1)

	a := assessments[0]
	assert.Equal(t, launches.FieldStatus, a.Conflict.Field)
	assert.Equal(t, conflict.SeverityHigh, a.Severity)
	assert.False(t, a.AutoResolvable, "status is identity-critical at high severity")
}

func TestDetectPayloadMassConflictIsLow(t *testing.T) {
	d := conflict.New()
	groups := map[string][]launches.Sourced{
		"crs-29": {
			sourced("crs-29", "CRS-29", spacex, func(l *launches.Launch) {
				m := 1000.0
				l.PayloadMass = &m
			}),
			sourced("crs-29", "CRS-29", spacex, func(l *launches.Launch) {
				m := 1200.0
				l.PayloadMass = &m
			}),
		},
	}

	assessments := d.Detect(groups)
	require.Len(t, assessments, 1)

	a := assessments[0]
	assert.Equal(t, launches.FieldPayloadMass, a.Conflict.Field)
	assert.Equal(t, conflict.SeverityLow, a.Severity)
	assert.True(t, a.AutoResolvable)
	assert.Contains(t, a.Recommendation, "Auto-resolve")
}

func TestDetectAllPairs(t *testing.T) {
	d := conflict.New()
	// Three sources with three distinct mission names: every unordered
	// pair conflicts, so three conflicts total.
	groups := map[string][]launches.Sourced{
		"mystery": {
			sourced("mystery", "Alpha Centauri Probe", spacex, nil),
			sourced("mystery", "Beta Station Resupply", wiki, nil),
			sourced("mystery", "Gamma Ray Observatory", wiki, nil),
		},
	}

	assessments := d.Detect(groups)
	assert.Len(t, assessments, 3)
}

func TestDetectDeterministicOrder(t *testing.T) {
	build := func() map[string][]launches.Sourced {
		return map[string][]launches.Sourced{
			"bravo": {
				sourced("bravo", "Bravo One", spacex, nil),
				sourced("bravo", "Completely Different", wiki, nil),
			},
			"alpha": {
				sourced("alpha", "Alpha One", spacex, nil),
				sourced("alpha", "Some Other Name", wiki, nil),
			},
		}
	}

	first := conflict.New().Detect(build())
	second := conflict.New().Detect(build())
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Conflict, second[i].Conflict)
	}
}

func TestDetectorSummaryAndClear(t *testing.T) {
	d := conflict.New()
	groups := map[string][]launches.Sourced{
		"mystery": {
			sourced("mystery", "Starship Flight 7", spacex, nil),
			sourced("mystery", "Crew Dragon Demo", wiki, nil),
		},
	}
	d.Detect(groups)

	summary := d.Summary()
	assert.Equal(t, 1, summary.TotalConflicts)
	assert.Equal(t, 1, summary.ByField[launches.FieldMissionName])
	assert.Equal(t, 1, summary.BySeverity[conflict.SeverityCritical])
	assert.Equal(t, 1, summary.NeedsReview)
	assert.Equal(t, 0, summary.AutoResolvable)
	assert.Len(t, d.Critical(), 1)

	d.Clear()
	assert.Empty(t, d.Assessments())
	assert.Equal(t, 0, d.Summary().TotalConflicts)
}
