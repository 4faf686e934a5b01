// Package reconcile merges same-launch records from multiple disagreeing
// sources into one canonical record. The most trusted source seeds the
// merged record; lower-trust sources fill gaps and may override a few
// field-specific cases, and every disagreement against the seed is
// logged as a field conflict for review.
package reconcile

import (
	"sort"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/launchmap/internal/compare"
	"github.com/agentstation/launchmap/pkg/errors"
	"github.com/agentstation/launchmap/pkg/launches"
	"github.com/agentstation/launchmap/pkg/logging"
)

// identityCriticalFields raise conflict confidence when they disagree.
var identityCriticalFields = map[string]bool{
	launches.FieldMissionName: true,
	launches.FieldLaunchDate:  true,
	launches.FieldStatus:      true,
}

// LogEntry records one reconciliation call for auditing.
type LogEntry struct {
	MissionName  string   `json:"mission_name" yaml:"mission_name"`
	Slug         string   `json:"slug" yaml:"slug"`
	Sources      []string `json:"sources_used" yaml:"sources_used"`
	Conflicts    int      `json:"conflicts_count" yaml:"conflicts_count"`
	ReconciledAt utc.Time `json:"reconciled_at" yaml:"reconciled_at"`
}

// Reconciler merges sourced launch records using the trust hierarchy.
// It accumulates a reconciliation log and conflict statistics for one
// processing run; call Clear between runs.
type Reconciler struct {
	opts      compare.Options
	conflicts []launches.FieldConflict
	log       []LogEntry
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithNumericTolerance sets the relative tolerance used by the numeric
// conflict predicate.
func WithNumericTolerance(tolerance float64) Option {
	return func(r *Reconciler) {
		r.opts.NumericTolerance = tolerance
	}
}

// WithDateTolerance sets the date conflict tolerance.
func WithDateTolerance(tolerance time.Duration) Option {
	return func(r *Reconciler) {
		r.opts.DateTolerance = tolerance
	}
}

// New creates a Reconciler with default predicate tolerances.
func New(opts ...Option) *Reconciler {
	r := &Reconciler{opts: compare.DefaultOptions()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile merges all records of one launch into a single canonical
// record, returning the conflicts found against the seed record. It
// fails only when members is empty. Inputs are never mutated.
func (r *Reconciler) Reconcile(members []launches.Sourced) (launches.Launch, []launches.FieldConflict, error) {
	if len(members) == 0 {
		return launches.Launch{}, nil, errors.NewReconcileError("", "no launch records provided", errors.ErrNoRecords)
	}

	if len(members) == 1 {
		only := members[0]
		logging.Debug().
			Str("slug", only.Launch.Slug).
			Str("source", only.Source.Name).
			Msg("Single source, no reconciliation needed")
		r.logCall(only.Launch, members, 0)
		return only.Launch.Copy(), nil, nil
	}

	ranked := rankByTrust(members)
	seed := ranked[0]

	var conflicts []launches.FieldConflict
	for i := 1; i < len(ranked); i++ {
		conflicts = append(conflicts, r.compareToSeed(&seed, &ranked[i])...)
	}

	merged := r.merge(ranked)

	r.conflicts = append(r.conflicts, conflicts...)
	r.logCall(merged, ranked, len(conflicts))

	logging.Info().
		Str("slug", merged.Slug).
		Int("sources", len(ranked)).
		Int("conflicts", len(conflicts)).
		Msg("Reconciled launch")

	return merged, conflicts, nil
}

// ReconcileGroups reconciles each slug group into one canonical record.
// A group that fails to reconcile falls back to its highest-trust member
// rather than aborting the batch. Groups are processed in slug order.
func (r *Reconciler) ReconcileGroups(groups map[string][]launches.Sourced) ([]launches.Launch, []launches.FieldConflict) {
	slugs := make([]string, 0, len(groups))
	for slug := range groups {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	reconciled := make([]launches.Launch, 0, len(groups))
	var conflicts []launches.FieldConflict

	for _, slug := range slugs {
		members := groups[slug]
		merged, found, err := r.Reconcile(members)
		if err != nil {
			logging.Error().Str("slug", slug).Err(err).Msg("Failed to reconcile launch group")
			if len(members) == 0 {
				continue
			}
			// Fall back to the most trusted member unchanged.
			merged = rankByTrust(members)[0].Launch.Copy()
			found = nil
		}
		reconciled = append(reconciled, merged)
		conflicts = append(conflicts, found...)
	}

	return reconciled, conflicts
}

// rankByTrust returns members sorted by ascending trust tier, ties
// broken by descending quality score. The sort is stable so input order
// decides remaining ties.
func rankByTrust(members []launches.Sourced) []launches.Sourced {
	ranked := make([]launches.Sourced, len(members))
	copy(ranked, members)
	sort.SliceStable(ranked, func(i, j int) bool {
		ti, tj := SourceTier(ranked[i].Source.Name), SourceTier(ranked[j].Source.Name)
		if ti != tj {
			return ti < tj
		}
		return ranked[i].Source.QualityScore > ranked[j].Source.QualityScore
	})
	return ranked
}

// compareToSeed detects conflicts between the seed record and one
// lower-trust candidate. Media URLs are merge-only and never logged as
// conflicts.
func (r *Reconciler) compareToSeed(seed, candidate *launches.Sourced) []launches.FieldConflict {
	var conflicts []launches.FieldConflict
	for _, field := range compare.Fields() {
		if field == launches.FieldMissionPatchURL || field == launches.FieldWebcastURL {
			continue
		}
		va := compare.FieldValue(&seed.Launch, field)
		vb := compare.FieldValue(&candidate.Launch, field)
		if !compare.Conflicts(va, vb, r.opts) {
			continue
		}
		conflicts = append(conflicts, launches.FieldConflict{
			Field:        field,
			SourceAValue: va.String(),
			SourceBValue: vb.String(),
			Confidence:   r.confidence(field, seed.Source, candidate.Source),
		})
		logging.Debug().
			Str("field", field).
			Str("seed", va.String()).
			Str("candidate", vb.String()).
			Msg("Conflict detected against seed")
	}
	return conflicts
}

// confidence scores a seed-vs-candidate conflict: base 0.5, raised when
// the sources sit in different trust tiers, by their quality gap, and
// for identity-critical fields, clamped to [0,1].
func (r *Reconciler) confidence(field string, seedSrc, candidateSrc launches.Source) float64 {
	confidence := 0.5

	if SourceTier(seedSrc.Name) != SourceTier(candidateSrc.Name) {
		confidence += 0.2
	}

	qualityGap := seedSrc.QualityScore - candidateSrc.QualityScore
	if qualityGap < 0 {
		qualityGap = -qualityGap
	}
	confidence += qualityGap * 0.2

	if identityCriticalFields[field] {
		confidence += 0.1
	}

	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}

// merge builds the canonical record: the highest-trust member seeds it,
// lower-trust members fill missing fields, and the field-specific
// overrides apply regardless of trust order.
func (r *Reconciler) merge(ranked []launches.Sourced) launches.Launch {
	merged := ranked[0].Launch.Copy()

	for i := 1; i < len(ranked); i++ {
		candidate := &ranked[i].Launch
		fillMissing(&merged, candidate)

		// Details keep whichever candidate string is strictly longer.
		if len(candidate.Details) > len(merged.Details) {
			merged.Details = candidate.Details
		}
		// Media URLs are filled from the first candidate that has one.
		if merged.MissionPatchURL == "" && candidate.MissionPatchURL != "" {
			merged.MissionPatchURL = candidate.MissionPatchURL
		}
		if merged.WebcastURL == "" && candidate.WebcastURL != "" {
			merged.WebcastURL = candidate.WebcastURL
		}
	}

	return merged
}

// fillMissing copies candidate values into fields the accumulator does
// not hold yet. Fields present on both keep the accumulator's
// (higher-trust) value.
func fillMissing(merged, candidate *launches.Launch) {
	if merged.MissionName == "" && candidate.MissionName != "" {
		merged.MissionName = candidate.MissionName
	}
	if merged.LaunchDate == nil && candidate.LaunchDate != nil {
		d := *candidate.LaunchDate
		merged.LaunchDate = &d
	}
	if merged.VehicleType == "" && candidate.VehicleType != "" {
		merged.VehicleType = candidate.VehicleType
	}
	if merged.PayloadMass == nil && candidate.PayloadMass != nil {
		m := *candidate.PayloadMass
		merged.PayloadMass = &m
	}
	if merged.Orbit == "" && candidate.Orbit != "" {
		merged.Orbit = candidate.Orbit
	}
	if merged.Status == "" && candidate.Status != "" {
		merged.Status = candidate.Status
	}
}

// logCall appends one reconciliation log entry.
func (r *Reconciler) logCall(merged launches.Launch, members []launches.Sourced, conflicts int) {
	sources := make([]string, 0, len(members))
	for _, m := range members {
		sources = append(sources, m.Source.Name)
	}
	r.log = append(r.log, LogEntry{
		MissionName:  merged.MissionName,
		Slug:         merged.Slug,
		Sources:      sources,
		Conflicts:    conflicts,
		ReconciledAt: utc.Now(),
	})
}

// Log returns the reconciliation log for the current run.
func (r *Reconciler) Log() []LogEntry {
	out := make([]LogEntry, len(r.log))
	copy(out, r.log)
	return out
}

// Conflicts returns the cumulative conflicts from this run.
func (r *Reconciler) Conflicts() []launches.FieldConflict {
	out := make([]launches.FieldConflict, len(r.conflicts))
	copy(out, r.conflicts)
	return out
}

// Summary describes the reconciler's accumulated results.
type Summary struct {
	TotalConflicts     int            `json:"total_conflicts_detected" yaml:"total_conflicts_detected"`
	LaunchesReconciled int            `json:"launches_reconciled" yaml:"launches_reconciled"`
	ConflictsByField   map[string]int `json:"conflicts_by_field" yaml:"conflicts_by_field"`
	SourcesByTier      map[string]int `json:"sources_by_priority" yaml:"sources_by_priority"`
}

// Summary returns reconciliation statistics for the current run.
func (r *Reconciler) Summary() Summary {
	s := Summary{
		TotalConflicts:     len(r.conflicts),
		LaunchesReconciled: len(r.log),
		ConflictsByField:   make(map[string]int),
		SourcesByTier:      make(map[string]int),
	}
	for _, c := range r.conflicts {
		s.ConflictsByField[c.Field]++
	}
	for _, entry := range r.log {
		for _, name := range entry.Sources {
			s.SourcesByTier[SourceTier(name).String()]++
		}
	}
	return s
}

// Clear resets the log and conflict accumulators for the next batch.
func (r *Reconciler) Clear() {
	r.conflicts = r.conflicts[:0]
	r.log = r.log[:0]
}
