// Package dedupe collapses near-duplicate canonical launch records.
// Records sharing a slug whose dates fall within a tolerance window are
// clustered and each cluster keeps only its most complete record. A
// separate diagnostic pass surfaces cross-slug records whose mission
// names look alike, without ever merging them.
package dedupe

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/agentstation/launchmap/pkg/launches"
	"github.com/agentstation/launchmap/pkg/logging"
)

// DefaultDateTolerance is how close two launch dates must be for records
// with the same slug to count as duplicates.
const DefaultDateTolerance = 24 * time.Hour

// Completeness weights per populated field. The record with the highest
// weighted sum survives its duplicate cluster.
const (
	weightRequired  = 2.0 // slug, mission name, status
	weightDate      = 1.5
	weightImportant = 1.0 // vehicle, payload mass, orbit
	weightMinor     = 0.5 // details, media URLs
)

// Deduplicator removes duplicate launches based on slug and launch date
// proximity. It records statistics for one run; construct a new one (or
// reuse with different options via New) to change the tolerance.
type Deduplicator struct {
	tolerance       time.Duration
	uniqueCount     int
	duplicateGroups [][]launches.Launch
}

// Option configures a Deduplicator.
type Option func(*Deduplicator)

// WithDateTolerance sets the date window within which same-slug records
// are considered duplicates.
func WithDateTolerance(tolerance time.Duration) Option {
	return func(d *Deduplicator) {
		d.tolerance = tolerance
	}
}

// New creates a Deduplicator with the default 24-hour tolerance.
func New(opts ...Option) *Deduplicator {
	d := &Deduplicator{tolerance: DefaultDateTolerance}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Tolerance returns the configured date tolerance.
func (d *Deduplicator) Tolerance() time.Duration {
	return d.tolerance
}

// Deduplicate collapses duplicate launches and returns the unique ones.
// The input is never mutated and running the result through Deduplicate
// again returns it unchanged.
func (d *Deduplicator) Deduplicate(records []launches.Launch) []launches.Launch {
	if len(records) == 0 {
		return []launches.Launch{}
	}

	logging.Info().Int("input", len(records)).Msg("Starting deduplication")

	groups, order := groupBySlug(records)

	unique := make([]launches.Launch, 0, len(records))
	duplicates := 0

	for _, slug := range order {
		group := groups[slug]
		if len(group) == 1 {
			unique = append(unique, group[0])
			continue
		}
		for _, cluster := range d.clusterByDate(group) {
			best := selectMostComplete(cluster)
			unique = append(unique, best)
			duplicates += len(cluster) - 1
			if len(cluster) > 1 {
				logging.Debug().
					Str("slug", best.Slug).
					Int("removed", len(cluster)-1).
					Msg("Collapsed duplicate cluster")
			}
		}
	}

	d.uniqueCount = len(unique)

	logging.Info().
		Int("unique", len(unique)).
		Int("duplicates_removed", duplicates).
		Msg("Deduplication complete")

	return unique
}

// FindPotentialDuplicates reports groups of records that look like
// duplicates without removing anything: same-slug clusters within the
// date tolerance, plus cross-slug records with similar mission names.
func (d *Deduplicator) FindPotentialDuplicates(records []launches.Launch) [][]launches.Launch {
	var found [][]launches.Launch

	groups, order := groupBySlug(records)
	for _, slug := range order {
		group := groups[slug]
		if len(group) < 2 {
			continue
		}
		for _, cluster := range d.clusterByDate(group) {
			if len(cluster) > 1 {
				found = append(found, cluster)
			}
		}
	}

	found = append(found, similarNameGroups(records)...)

	d.duplicateGroups = found
	return found
}

// groupBySlug partitions records by slug, preserving first-seen slug
// order for deterministic output.
func groupBySlug(records []launches.Launch) (map[string][]launches.Launch, []string) {
	groups := make(map[string][]launches.Launch)
	var order []string
	for _, r := range records {
		if _, seen := groups[r.Slug]; !seen {
			order = append(order, r.Slug)
		}
		groups[r.Slug] = append(groups[r.Slug], r)
	}
	return groups, order
}

// clusterByDate sorts a same-slug group by launch date and greedily
// clusters records whose date is within tolerance of the first element
// of the current cluster. Null dates sort last and only cluster with
// other null dates.
func (d *Deduplicator) clusterByDate(group []launches.Launch) [][]launches.Launch {
	sorted := make([]launches.Launch, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i].LaunchDate, sorted[j].LaunchDate
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return di.Time.Before(dj.Time)
	})

	var clusters [][]launches.Launch
	var current []launches.Launch

	for _, record := range sorted {
		if len(current) == 0 || d.datesClose(record, current[0]) {
			current = append(current, record)
			continue
		}
		clusters = append(clusters, current)
		current = []launches.Launch{record}
	}
	if len(current) > 0 {
		clusters = append(clusters, current)
	}

	return clusters
}

// datesClose reports whether two records' dates fall within tolerance.
// Two null dates are close; a null and a set date are not.
func (d *Deduplicator) datesClose(a, b launches.Launch) bool {
	if a.LaunchDate == nil && b.LaunchDate == nil {
		return true
	}
	if a.LaunchDate == nil || b.LaunchDate == nil {
		return false
	}
	diff := a.LaunchDate.Time.Sub(b.LaunchDate.Time)
	if diff < 0 {
		diff = -diff
	}
	return diff <= d.tolerance
}

// selectMostComplete picks the record with the highest completeness
// score. Ties keep the first record encountered.
func selectMostComplete(cluster []launches.Launch) launches.Launch {
	best := cluster[0]
	bestScore := CompletenessScore(&best)
	for _, candidate := range cluster[1:] {
		if score := CompletenessScore(&candidate); score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best
}

// CompletenessScore sums the field weights of a launch's populated
// fields. Higher is more complete.
func CompletenessScore(l *launches.Launch) float64 {
	score := 0.0
	if l.Slug != "" {
		score += weightRequired
	}
	if l.MissionName != "" {
		score += weightRequired
	}
	if l.Status != "" {
		score += weightRequired
	}
	if l.LaunchDate != nil {
		score += weightDate
	}
	if l.VehicleType != "" {
		score += weightImportant
	}
	if l.PayloadMass != nil {
		score += weightImportant
	}
	if l.Orbit != "" {
		score += weightImportant
	}
	if l.Details != "" {
		score += weightMinor
	}
	if l.MissionPatchURL != "" {
		score += weightMinor
	}
	if l.WebcastURL != "" {
		score += weightMinor
	}
	return score
}

// noisePrefixRE / noiseSuffixRE strip boilerplate words before mission
// names are compared across slugs. Punctuation becomes a word boundary
// so "CRS-29" and "CRS 29" normalize identically.
var (
	noisePrefixRE = regexp.MustCompile(`^(spacex\s+|mission\s+)`)
	noiseSuffixRE = regexp.MustCompile(`\s+(mission|launch)$`)
	namePunctRE   = regexp.MustCompile(`[^\w\s]`)
	nameSpaceRE   = regexp.MustCompile(`\s+`)
)

// similarNameGroups finds cross-slug records whose normalized mission
// names are identical, substring-related, or share at least 70% of
// their words.
func similarNameGroups(records []launches.Launch) [][]launches.Launch {
	var groups [][]launches.Launch
	used := make([]bool, len(records))

	for i := range records {
		if used[i] {
			continue
		}
		group := []launches.Launch{records[i]}
		used[i] = true
		for j := i + 1; j < len(records); j++ {
			if used[j] {
				continue
			}
			if namesSimilar(records[i].MissionName, records[j].MissionName) {
				group = append(group, records[j])
				used[j] = true
			}
		}
		if len(group) > 1 {
			groups = append(groups, group)
		}
	}

	return groups
}

// namesSimilar reports whether two mission names plausibly refer to the
// same launch.
func namesSimilar(a, b string) bool {
	if a == "" || b == "" {
		return false
	}

	na := normalizeMissionName(a)
	nb := normalizeMissionName(b)

	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	wa := strings.Fields(na)
	wb := strings.Fields(nb)
	if len(wa) == 0 || len(wb) == 0 {
		return false
	}
	setA := make(map[string]bool, len(wa))
	for _, w := range wa {
		setA[w] = true
	}
	setB := make(map[string]bool, len(wb))
	for _, w := range wb {
		setB[w] = true
	}
	common := 0
	for w := range setB {
		if setA[w] {
			common++
		}
	}
	larger := len(setA)
	if len(setB) > larger {
		larger = len(setB)
	}
	return float64(common)/float64(larger) >= 0.7
}

// normalizeMissionName lower-cases a name, strips boilerplate
// prefix/suffix words, turns punctuation into spaces, and collapses
// whitespace.
func normalizeMissionName(name string) string {
	normalized := strings.ToLower(name)
	normalized = noisePrefixRE.ReplaceAllString(normalized, "")
	normalized = noiseSuffixRE.ReplaceAllString(normalized, "")
	normalized = namePunctRE.ReplaceAllString(normalized, " ")
	normalized = nameSpaceRE.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// Summary describes the deduplicator's last run.
type Summary struct {
	UniqueLaunches     int     `json:"unique_launches" yaml:"unique_launches"`
	DuplicateGroups    int     `json:"duplicate_groups_found" yaml:"duplicate_groups_found"`
	DateToleranceHours float64 `json:"date_tolerance_hours" yaml:"date_tolerance_hours"`
}

// Summary returns deduplication statistics.
func (d *Deduplicator) Summary() Summary {
	return Summary{
		UniqueLaunches:     d.uniqueCount,
		DuplicateGroups:    len(d.duplicateGroups),
		DateToleranceHours: d.tolerance.Hours(),
	}
}
