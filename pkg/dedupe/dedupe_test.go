package dedupe_test

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/launchmap/pkg/dedupe"
	"github.com/agentstation/launchmap/pkg/launches"
)

func datePtr(t time.Time) *utc.Time {
	ut := utc.New(t)
	return &ut
}

func massPtr(f float64) *float64 {
	return &f
}

var baseDate = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// Two records of the same launch, hours apart, one sparser than the other.
func duplicatePair() []launches.Launch {
	return []launches.Launch{
		{
			Slug:        "starlink-g6-1",
			MissionName: "Starlink Group 6-1",
			LaunchDate:  datePtr(baseDate),
			Status:      launches.StatusUpcoming,
		},
		{
			Slug:        "starlink-g6-1",
			MissionName: "Starlink Group 6-1",
			LaunchDate:  datePtr(baseDate.Add(6 * time.Hour)),
			VehicleType: "Falcon 9",
			PayloadMass: massPtr(17400),
			Orbit:       "LEO",
			Status:      launches.StatusUpcoming,
		},
	}
}

func TestDeduplicateCollapsesWithinTolerance(t *testing.T) {
	d := dedupe.New() // 24h default

	unique := d.Deduplicate(duplicatePair())
	require.Len(t, unique, 1)
	assert.Equal(t, "Falcon 9", unique[0].VehicleType, "most complete record survives")

	summary := d.Summary()
	assert.Equal(t, 1, summary.UniqueLaunches)
	assert.Equal(t, 24.0, summary.DateToleranceHours)
}

// With a 1-hour tolerance the same pair stays distinct.
func TestDeduplicateToleranceControlsClustering(t *testing.T) {
	d := dedupe.New(dedupe.WithDateTolerance(time.Hour))

	unique := d.Deduplicate(duplicatePair())
	assert.Len(t, unique, 2)
}

func TestDeduplicateDifferentSlugsUntouched(t *testing.T) {
	d := dedupe.New()
	records := []launches.Launch{
		{Slug: "crs-29", MissionName: "CRS-29", LaunchDate: datePtr(baseDate), Status: launches.StatusSuccess},
		{Slug: "crs-30", MissionName: "CRS-30", LaunchDate: datePtr(baseDate), Status: launches.StatusUpcoming},
	}

	assert.Len(t, d.Deduplicate(records), 2)
}

func TestDeduplicateIdempotent(t *testing.T) {
	d := dedupe.New()
	records := append(duplicatePair(),
		launches.Launch{Slug: "crs-29", MissionName: "CRS-29", Status: launches.StatusSuccess},
	)

	once := d.Deduplicate(records)
	twice := d.Deduplicate(once)

	utcTimes := cmp.Comparer(func(a, b utc.Time) bool { return a.Time.Equal(b.Time) })
	if diff := cmp.Diff(once, twice, utcTimes); diff != "" {
		t.Errorf("deduplication is not a fixed point (-once +twice):\n%s", diff)
	}
}

func TestDeduplicateNilDates(t *testing.T) {
	d := dedupe.New()
	records := []launches.Launch{
		{Slug: "tbd-mission", MissionName: "TBD Mission", Status: launches.StatusUpcoming},
		{Slug: "tbd-mission", MissionName: "TBD Mission", VehicleType: "Falcon 9", Status: launches.StatusUpcoming},
		{Slug: "tbd-mission", MissionName: "TBD Mission", LaunchDate: datePtr(baseDate), Status: launches.StatusUpcoming},
	}

	// The two undated records collapse together; the dated one is a
	// separate cluster even though the others have no date at all.
	unique := d.Deduplicate(records)
	require.Len(t, unique, 2)
}

func TestDeduplicateTieKeepsFirst(t *testing.T) {
	d := dedupe.New()
	records := []launches.Launch{
		{Slug: "crs-29", MissionName: "CRS-29", LaunchDate: datePtr(baseDate), Details: "first", Status: launches.StatusSuccess},
		{Slug: "crs-29", MissionName: "CRS-29", LaunchDate: datePtr(baseDate), Details: "other", Status: launches.StatusSuccess},
	}

	unique := d.Deduplicate(records)
	require.Len(t, unique, 1)
	assert.Equal(t, "first", unique[0].Details)
}

func TestDeduplicateEmptyInput(t *testing.T) {
	assert.Empty(t, dedupe.New().Deduplicate(nil))
}

func TestCompletenessScore(t *testing.T) {
	sparse := launches.Launch{Slug: "x", MissionName: "X", Status: launches.StatusUpcoming}
	full := launches.Launch{
		Slug:            "x",
		MissionName:     "X",
		Status:          launches.StatusUpcoming,
		LaunchDate:      datePtr(baseDate),
		VehicleType:     "Falcon 9",
		PayloadMass:     massPtr(17400),
		Orbit:           "LEO",
		Details:         "details",
		MissionPatchURL: "https://example.com/p.png",
		WebcastURL:      "https://example.com/w",
	}

	assert.Equal(t, 6.0, dedupe.CompletenessScore(&sparse))
	assert.Equal(t, 12.0, dedupe.CompletenessScore(&full))
}

func TestFindPotentialDuplicates(t *testing.T) {
	d := dedupe.New()
	records := []launches.Launch{
		// Same slug, close dates, names too far apart for the name pass.
		{Slug: "starlink-g6-1", MissionName: "Starlink Group 6-1", LaunchDate: datePtr(baseDate), Status: launches.StatusUpcoming},
		{Slug: "starlink-g6-1", MissionName: "Group 6-1 Deployment Flight", LaunchDate: datePtr(baseDate.Add(2 * time.Hour)), Status: launches.StatusUpcoming},
		// Different slugs, boilerplate-differing names.
		{Slug: "crs-29", MissionName: "CRS-29", Status: launches.StatusSuccess},
		{Slug: "crs-29-mission", MissionName: "CRS-29 Mission", Status: launches.StatusSuccess},
	}

	found := d.FindPotentialDuplicates(records)
	require.Len(t, found, 2)

	assert.Equal(t, 2, d.Summary().DuplicateGroups)
}

func TestFindPotentialDuplicatesHyphenSpacedNames(t *testing.T) {
	d := dedupe.New()
	records := []launches.Launch{
		{Slug: "crs-29", MissionName: "CRS-29", Status: launches.StatusSuccess},
		{Slug: "crs29-resupply", MissionName: "CRS 29", Status: launches.StatusSuccess},
	}

	found := d.FindPotentialDuplicates(records)
	require.Len(t, found, 1)
	assert.Len(t, found[0], 2)
}

func TestFindPotentialDuplicatesNothingToReport(t *testing.T) {
	d := dedupe.New()
	records := []launches.Launch{
		{Slug: "crs-29", MissionName: "CRS-29", Status: launches.StatusSuccess},
		{Slug: "artemis-2", MissionName: "Artemis II", Status: launches.StatusUpcoming},
	}

	assert.Empty(t, d.FindPotentialDuplicates(records))
}
