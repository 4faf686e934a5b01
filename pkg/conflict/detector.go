// Package conflict detects and rates field-level disagreements between
// sources reporting the same launch. Every unordered pair of records
// within a slug group is compared field by field; each disagreement is
// assessed for severity and whether it can be resolved automatically by
// source-priority rules or needs human review.
package conflict

import (
	"fmt"
	"slices"
	"time"

	"github.com/agentstation/launchmap/internal/compare"
	"github.com/agentstation/launchmap/pkg/launches"
	"github.com/agentstation/launchmap/pkg/logging"
)

// Severity buckets how urgently a conflict needs human review.
type Severity string

// Severity tiers, ordered from least to most urgent.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severity thresholds over the weight-times-confidence score.
const (
	criticalThreshold = 0.8
	highThreshold     = 0.6
	mediumThreshold   = 0.4
)

// Assessment is a detected field conflict plus its analysis.
type Assessment struct {
	Conflict       launches.FieldConflict `json:"conflict" yaml:"conflict"`
	Severity       Severity               `json:"severity" yaml:"severity"`
	Recommendation string                 `json:"recommendation" yaml:"recommendation"`
	AutoResolvable bool                   `json:"auto_resolvable" yaml:"auto_resolvable"`
}

// defaultFieldWeights rank fields by how much a disagreement matters.
func defaultFieldWeights() map[string]float64 {
	return map[string]float64{
		launches.FieldMissionName:     1.0,
		launches.FieldLaunchDate:      0.9,
		launches.FieldStatus:          0.8,
		launches.FieldVehicleType:     0.7,
		launches.FieldPayloadMass:     0.6,
		launches.FieldOrbit:           0.5,
		launches.FieldDetails:         0.3,
		launches.FieldMissionPatchURL: 0.2,
		launches.FieldWebcastURL:      0.2,
	}
}

// importantFields never auto-resolve at high severity.
var importantFields = map[string]bool{
	launches.FieldMissionName: true,
	launches.FieldLaunchDate:  true,
	launches.FieldStatus:      true,
}

// Detector finds and analyzes conflicts across launch groups. It
// accumulates results for one processing run; call Clear between runs.
type Detector struct {
	opts        compare.Options
	weights     map[string]float64
	conflicts   []launches.FieldConflict
	assessments []Assessment
}

// Option configures a Detector.
type Option func(*Detector)

// WithNumericTolerance sets the relative tolerance (as a fraction) under
// which numeric values are considered compatible.
func WithNumericTolerance(tolerance float64) Option {
	return func(d *Detector) {
		d.opts.NumericTolerance = tolerance
	}
}

// WithDateTolerance sets how far apart two launch dates may be before
// they conflict.
func WithDateTolerance(tolerance time.Duration) Option {
	return func(d *Detector) {
		d.opts.DateTolerance = tolerance
	}
}

// New creates a Detector with the default field weights and tolerances.
func New(opts ...Option) *Detector {
	d := &Detector{
		opts:    compare.DefaultOptions(),
		weights: defaultFieldWeights(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect finds conflicts across all slug groups. Groups with fewer than
// two records produce no conflicts. Groups are processed in slug order
// so output is deterministic regardless of map construction order.
func (d *Detector) Detect(groups map[string][]launches.Sourced) []Assessment {
	slugs := make([]string, 0, len(groups))
	for slug := range groups {
		slugs = append(slugs, slug)
	}
	slices.Sort(slugs)

	var found []launches.FieldConflict
	for _, slug := range slugs {
		members := groups[slug]
		if len(members) < 2 {
			continue
		}
		conflicts := d.detectInGroup(slug, members)
		found = append(found, conflicts...)
	}

	assessments := make([]Assessment, 0, len(found))
	for _, c := range found {
		assessments = append(assessments, d.analyze(c))
	}

	d.conflicts = append(d.conflicts, found...)
	d.assessments = append(d.assessments, assessments...)

	logging.Info().
		Int("conflicts", len(found)).
		Int("groups", len(groups)).
		Msg("Detected conflicts across launch groups")

	return assessments
}

// detectInGroup compares every unordered pair of records in one group.
func (d *Detector) detectInGroup(slug string, members []launches.Sourced) []launches.FieldConflict {
	var conflicts []launches.FieldConflict
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			pair := d.comparePair(&members[i], &members[j])
			conflicts = append(conflicts, pair...)
		}
	}
	logging.Debug().Str("slug", slug).Int("conflicts", len(conflicts)).Msg("Compared launch group")
	return conflicts
}

// comparePair checks each weighted field of two records for conflicts.
func (d *Detector) comparePair(a, b *launches.Sourced) []launches.FieldConflict {
	var conflicts []launches.FieldConflict
	for _, field := range compare.Fields() {
		va := compare.FieldValue(&a.Launch, field)
		vb := compare.FieldValue(&b.Launch, field)
		if !compare.Conflicts(va, vb, d.opts) {
			continue
		}
		conflicts = append(conflicts, launches.FieldConflict{
			Field:        field,
			SourceAValue: va.String(),
			SourceBValue: vb.String(),
			Confidence:   d.confidence(va, vb, field, a.Source, b.Source),
		})
	}
	return conflicts
}

// confidence scores how certain the detector is that a disagreement is
// a real conflict: a base of 0.6 shifted by field weight, the gap in
// source quality, and how dissimilar the values are, clamped to [0,1].
func (d *Detector) confidence(a, b compare.Value, field string, srcA, srcB launches.Source) float64 {
	confidence := 0.6

	weight := d.weight(field)
	confidence += (weight - 0.5) * 0.2

	qualityGap := srcA.QualityScore - srcB.QualityScore
	if qualityGap < 0 {
		qualityGap = -qualityGap
	}
	confidence += qualityGap * 0.1

	confidence += (1.0 - compare.Similarity(a, b)) * 0.2

	if confidence > 1.0 {
		return 1.0
	}
	if confidence < 0.0 {
		return 0.0
	}
	return confidence
}

func (d *Detector) weight(field string) float64 {
	if w, ok := d.weights[field]; ok {
		return w
	}
	return 0.5
}

// analyze rates a conflict's severity and resolvability.
func (d *Detector) analyze(c launches.FieldConflict) Assessment {
	score := d.weight(c.Field) * c.Confidence

	var severity Severity
	switch {
	case score >= criticalThreshold:
		severity = SeverityCritical
	case score >= highThreshold:
		severity = SeverityHigh
	case score >= mediumThreshold:
		severity = SeverityMedium
	default:
		severity = SeverityLow
	}

	return Assessment{
		Conflict:       c,
		Severity:       severity,
		Recommendation: recommendation(c.Field, severity),
		AutoResolvable: autoResolvable(c.Field, severity),
	}
}

// recommendation renders the fixed guidance template for a severity tier.
func recommendation(field string, severity Severity) string {
	switch severity {
	case SeverityCritical:
		return fmt.Sprintf("Manual review required for %s conflict. Values significantly different.", field)
	case SeverityHigh:
		return fmt.Sprintf("Prioritize higher-quality source for %s. Consider manual verification.", field)
	case SeverityMedium:
		return fmt.Sprintf("Use source priority rules for %s. Monitor for pattern.", field)
	default:
		return fmt.Sprintf("Auto-resolve using highest priority source for %s.", field)
	}
}

// autoResolvable reports whether source-priority rules may resolve the
// conflict without review. Critical conflicts, and high-severity
// conflicts in identity-critical fields, always need review.
func autoResolvable(field string, severity Severity) bool {
	if severity == SeverityCritical {
		return false
	}
	if severity == SeverityHigh && importantFields[field] {
		return false
	}
	return true
}

// Conflicts returns the cumulative conflicts detected this run.
func (d *Detector) Conflicts() []launches.FieldConflict {
	out := make([]launches.FieldConflict, len(d.conflicts))
	copy(out, d.conflicts)
	return out
}

// Assessments returns the cumulative assessments for this run.
func (d *Detector) Assessments() []Assessment {
	out := make([]Assessment, len(d.assessments))
	copy(out, d.assessments)
	return out
}

// Critical returns the assessments that require immediate attention.
func (d *Detector) Critical() []Assessment {
	var critical []Assessment
	for _, a := range d.assessments {
		if a.Severity == SeverityCritical {
			critical = append(critical, a)
		}
	}
	return critical
}

// Summary describes the detector's accumulated results.
type Summary struct {
	TotalConflicts int              `json:"total_conflicts" yaml:"total_conflicts"`
	BySeverity     map[Severity]int `json:"by_severity" yaml:"by_severity"`
	ByField        map[string]int   `json:"by_field" yaml:"by_field"`
	AutoResolvable int              `json:"auto_resolvable" yaml:"auto_resolvable"`
	NeedsReview    int              `json:"manual_review_required" yaml:"manual_review_required"`
}

// Summary returns conflict statistics for the current run.
func (d *Detector) Summary() Summary {
	s := Summary{
		TotalConflicts: len(d.assessments),
		BySeverity:     make(map[Severity]int),
		ByField:        make(map[string]int),
	}
	for _, a := range d.assessments {
		s.BySeverity[a.Severity]++
		s.ByField[a.Conflict.Field]++
		if a.AutoResolvable {
			s.AutoResolvable++
		}
	}
	s.NeedsReview = s.TotalConflicts - s.AutoResolvable
	return s
}

// Clear resets the accumulators for the next batch.
func (d *Detector) Clear() {
	d.conflicts = d.conflicts[:0]
	d.assessments = d.assessments[:0]
}
