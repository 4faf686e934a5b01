// Package compare implements the field-specific conflict predicates and
// value-similarity measures shared by the conflict detector and the
// source reconciler. Both components derive their own conflict lists
// from these predicates; the predicates themselves guarantee that equal
// or compatible values never register as a conflict.
package compare

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/launchmap/pkg/launches"
)

// Kind classifies how a field's values are compared.
type Kind int

// Field comparison kinds.
const (
	KindText     Kind = iota // exact match after trimming
	KindIdentity             // normalized text with substring and word-overlap matching
	KindDate                 // absolute time difference within tolerance
	KindNumeric              // relative difference within tolerance
	KindStatus               // synonym-equivalence classes
)

// Default predicate tolerances.
const (
	DefaultDateTolerance    = 2 * time.Hour
	DefaultNumericTolerance = 0.10 // fraction of the mean absolute value
)

// Options configures the conflict predicates.
type Options struct {
	DateTolerance    time.Duration // dates conflict when further apart than this
	NumericTolerance float64       // numerics conflict when relative difference exceeds this
}

// DefaultOptions returns the standard predicate tolerances.
func DefaultOptions() Options {
	return Options{
		DateTolerance:    DefaultDateTolerance,
		NumericTolerance: DefaultNumericTolerance,
	}
}

// Value is one comparable field value extracted from a launch.
type Value struct {
	Kind Kind
	Str  string
	Num  *float64
	Date *utc.Time
}

// Empty reports whether the value is null or blank. Empty values never
// conflict with anything.
func (v Value) Empty() bool {
	switch v.Kind {
	case KindDate:
		return v.Date == nil || v.Date.IsZero()
	case KindNumeric:
		return v.Num == nil
	default:
		return strings.TrimSpace(v.Str) == ""
	}
}

// String renders the value for conflict reports. Empty values render as
// "None" and dates in RFC 3339, matching the report format downstream
// reviewers consume.
func (v Value) String() string {
	if v.Empty() {
		return "None"
	}
	switch v.Kind {
	case KindDate:
		return v.Date.Format(time.RFC3339)
	case KindNumeric:
		return strconvFloat(*v.Num)
	default:
		return v.Str
	}
}

func strconvFloat(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", f), "0"), ".")
}

// Fields returns the comparable launch fields in their fixed comparison
// order. Iteration order matters for deterministic conflict output.
func Fields() []string {
	return []string{
		launches.FieldMissionName,
		launches.FieldLaunchDate,
		launches.FieldStatus,
		launches.FieldVehicleType,
		launches.FieldPayloadMass,
		launches.FieldOrbit,
		launches.FieldDetails,
		launches.FieldMissionPatchURL,
		launches.FieldWebcastURL,
	}
}

// FieldKind returns the comparison kind for a field name.
func FieldKind(field string) Kind {
	switch field {
	case launches.FieldMissionName, launches.FieldVehicleType, launches.FieldOrbit:
		return KindIdentity
	case launches.FieldLaunchDate:
		return KindDate
	case launches.FieldPayloadMass:
		return KindNumeric
	case launches.FieldStatus:
		return KindStatus
	default:
		return KindText
	}
}

// FieldValue extracts the named field from a launch as a comparable value.
func FieldValue(l *launches.Launch, field string) Value {
	v := Value{Kind: FieldKind(field)}
	switch field {
	case launches.FieldMissionName:
		v.Str = l.MissionName
	case launches.FieldLaunchDate:
		v.Date = l.LaunchDate
	case launches.FieldStatus:
		v.Str = l.Status.String()
	case launches.FieldVehicleType:
		v.Str = l.VehicleType
	case launches.FieldPayloadMass:
		v.Num = l.PayloadMass
	case launches.FieldOrbit:
		v.Str = l.Orbit
	case launches.FieldDetails:
		v.Str = l.Details
	case launches.FieldMissionPatchURL:
		v.Str = l.MissionPatchURL
	case launches.FieldWebcastURL:
		v.Str = l.WebcastURL
	}
	return v
}

// Conflicts reports whether two field values disagree under the field's
// conflict predicate. A null or empty value on either side never
// conflicts.
func Conflicts(a, b Value, opts Options) bool {
	if a.Empty() || b.Empty() {
		return false
	}

	switch a.Kind {
	case KindDate:
		return datesConflict(*a.Date, *b.Date, opts.DateTolerance)
	case KindNumeric:
		return numbersConflict(*a.Num, *b.Num, opts.NumericTolerance)
	case KindIdentity:
		return identityConflict(a.Str, b.Str)
	case KindStatus:
		return !launches.EquivalentStatus(a.Str, b.Str)
	default:
		return strings.TrimSpace(a.Str) != strings.TrimSpace(b.Str)
	}
}

// Similarity measures how close two field values are, from 0 (completely
// different) to 1 (identical). Identity-like text uses word Jaccard,
// numerics the complement of the relative difference, and everything
// else exact match.
func Similarity(a, b Value) float64 {
	switch a.Kind {
	case KindIdentity:
		return wordJaccard(a.Str, b.Str)
	case KindNumeric:
		if a.Num == nil || b.Num == nil {
			return boolSimilarity(a.String() == b.String())
		}
		return numericSimilarity(*a.Num, *b.Num)
	default:
		return boolSimilarity(a.String() == b.String())
	}
}

func boolSimilarity(equal bool) float64 {
	if equal {
		return 1.0
	}
	return 0.0
}

// datesConflict reports whether two dates are further apart than the
// tolerance.
func datesConflict(a, b utc.Time, tolerance time.Duration) bool {
	diff := a.Time.Sub(b.Time)
	if diff < 0 {
		diff = -diff
	}
	return diff > tolerance
}

// numbersConflict reports whether the relative difference between two
// numbers exceeds the tolerance. The denominator is the mean of the
// absolute values; zero vs zero never conflicts.
func numbersConflict(a, b, tolerance float64) bool {
	if a == 0 && b == 0 {
		return false
	}
	avg := (abs(a) + abs(b)) / 2
	if avg == 0 {
		return false
	}
	return abs(a-b)/avg > tolerance
}

// identityConflict reports whether two identity-like strings disagree.
// Strings are compatible when they match after normalization, when one
// is a substring of the other, or when their word-overlap ratio is at
// least 0.7.
func identityConflict(a, b string) bool {
	na := NormalizeText(a)
	nb := NormalizeText(b)

	if na == nb {
		return false
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return false
	}

	wa := wordSet(na)
	wb := wordSet(nb)
	if len(wa) == 0 || len(wb) == 0 {
		return true
	}
	common := 0
	for w := range wa {
		if wb[w] {
			common++
		}
	}
	larger := len(wa)
	if len(wb) > larger {
		larger = len(wb)
	}
	return float64(common)/float64(larger) < 0.7
}

// numericSimilarity is the complement of the relative difference, with
// the larger absolute value as denominator.
func numericSimilarity(a, b float64) float64 {
	if a == b {
		return 1.0
	}
	maxVal := abs(a)
	if abs(b) > maxVal {
		maxVal = abs(b)
	}
	if maxVal == 0 {
		return 1.0
	}
	sim := 1.0 - abs(a-b)/maxVal
	if sim < 0 {
		return 0.0
	}
	return sim
}

// wordJaccard computes word-set Jaccard similarity over normalized text.
func wordJaccard(a, b string) float64 {
	wa := wordSet(NormalizeText(a))
	wb := wordSet(NormalizeText(b))

	if len(wa) == 0 && len(wb) == 0 {
		return 1.0
	}
	if len(wa) == 0 || len(wb) == 0 {
		return 0.0
	}

	intersection := 0
	for w := range wa {
		if wb[w] {
			intersection++
		}
	}
	union := len(wa) + len(wb) - intersection
	return float64(intersection) / float64(union)
}

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	punctRE      = regexp.MustCompile(`[^\w\s]`)
)

// NormalizeText lower-cases text, strips punctuation, and collapses
// whitespace for comparison.
func NormalizeText(s string) string {
	normalized := strings.ToLower(s)
	normalized = whitespaceRE.ReplaceAllString(normalized, " ")
	normalized = punctRE.ReplaceAllString(normalized, "")
	return strings.TrimSpace(normalized)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
