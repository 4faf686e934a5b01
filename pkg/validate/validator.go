// Package validate normalizes and type-checks raw scraped records into
// canonical launch records. The validator is the only conversion
// boundary from dynamically typed source data into the strongly typed
// model; anything that fails its schema checks is discarded with a
// descriptive error rather than propagated.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/launchmap/pkg/errors"
	"github.com/agentstation/launchmap/pkg/launches"
	"github.com/agentstation/launchmap/pkg/logging"
)

// slugRE is the allowed identifier shape: non-empty, lower-case
// alphanumerics and hyphens.
var slugRE = regexp.MustCompile(`^[a-z0-9-]+$`)

// dateFormats are tried in order when parsing scraped launch dates.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Business-rule thresholds. Violations accumulate as warnings and never
// block acceptance.
const (
	maxFutureYears     = 10
	maxPlausibleMassKg = 100_000
)

// Validator validates raw launch records, accumulating the errors and
// warnings of one processing run. It is not safe for concurrent use;
// each batch owns its own instance or calls Clear between runs.
type Validator struct {
	errors   []string
	warnings []string
}

// New creates a new Validator with empty accumulators.
func New() *Validator {
	return &Validator{}
}

// Validate normalizes and checks one raw record scraped from the given
// source. It returns the canonical launch on success, or nil and a
// recoverable error describing why the record was discarded. Errors are
// also accumulated on the validator; they never abort a batch.
func (v *Validator) Validate(raw launches.Raw, source launches.Source) (*launches.Launch, error) {
	if err := v.validateSource(source); err != nil {
		return nil, v.reject(raw, err)
	}

	launch, err := v.normalize(raw)
	if err != nil {
		return nil, v.reject(raw, err)
	}

	if err := v.checkSchema(launch); err != nil {
		return nil, v.reject(raw, err)
	}

	v.checkBusinessRules(launch)

	logging.Debug().
		Str("slug", launch.Slug).
		Str("source", source.Name).
		Msg("Validated launch record")

	return launch, nil
}

// ValidateBatch validates a slice of raw records from one source,
// skipping records that fail validation.
func (v *Validator) ValidateBatch(records []launches.Raw, source launches.Source) []launches.Launch {
	validated := make([]launches.Launch, 0, len(records))
	for i, raw := range records {
		launch, err := v.Validate(raw, source)
		if err != nil {
			logging.Warn().Int("index", i).Err(err).Msg("Skipping invalid record")
			continue
		}
		validated = append(validated, *launch)
	}
	logging.Info().
		Int("validated", len(validated)).
		Int("input", len(records)).
		Msg("Validated batch")
	return validated
}

// reject records a validation error and returns it to the caller.
func (v *Validator) reject(raw launches.Raw, err error) error {
	name := raw.String(launches.KeyMissionName)
	if name == "" {
		name = "unknown"
	}
	v.errors = append(v.errors, fmt.Sprintf("%s: %v", name, err))
	logging.Error().Str("mission", name).Err(err).Msg("Validation failed")
	return err
}

// warn records a business-rule warning. The record stays usable.
func (v *Validator) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	v.warnings = append(v.warnings, msg)
	logging.Warn().Msg(msg)
}

// validateSource checks the source descriptor accompanying a record.
func (v *Validator) validateSource(source launches.Source) error {
	if strings.TrimSpace(source.Name) == "" {
		return errors.NewValidationError("source_name", source.Name, "source name must not be empty")
	}
	if source.URL != "" && !isHTTPURL(source.URL) {
		return errors.NewValidationError("source_url", source.URL, "source URL must start with http:// or https://")
	}
	if source.QualityScore < 0 || source.QualityScore > 1 {
		return errors.NewValidationError("quality_score", source.QualityScore, "quality score must be between 0 and 1")
	}
	if !source.ScrapedAt.IsZero() && source.ScrapedAt.Time.After(time.Now().UTC()) {
		return errors.NewValidationError("scraped_at", source.ScrapedAt, "scraped date cannot be in the future")
	}
	return nil
}

// normalize converts a raw record into a launch, coercing types and
// mapping synonyms. Unparseable optional values become unset rather
// than hard failures.
func (v *Validator) normalize(raw launches.Raw) (*launches.Launch, error) {
	launch := &launches.Launch{
		Slug:            strings.ToLower(strings.TrimSpace(raw.String(launches.KeySlug))),
		MissionName:     strings.TrimSpace(raw.String(launches.KeyMissionName)),
		VehicleType:     strings.TrimSpace(raw.String(launches.KeyVehicleType)),
		Orbit:           strings.TrimSpace(raw.String(launches.KeyOrbit)),
		Details:         strings.TrimSpace(raw.String(launches.KeyDetails)),
		MissionPatchURL: strings.TrimSpace(raw.String(launches.KeyMissionPatchURL)),
		WebcastURL:      strings.TrimSpace(raw.String(launches.KeyWebcastURL)),
	}

	status, err := v.normalizeStatus(raw)
	if err != nil {
		return nil, err
	}
	launch.Status = status

	launch.PayloadMass = v.normalizeMass(raw)
	launch.LaunchDate = v.normalizeDate(raw)

	// Synthesize the identifier from the display name when absent.
	if launch.Slug == "" && launch.MissionName != "" {
		launch.Slug = Slugify(launch.MissionName)
	}

	return launch, nil
}

// normalizeStatus maps a scraped status through the synonym table.
// A missing status defaults to upcoming; an unknown one is an error.
func (v *Validator) normalizeStatus(raw launches.Raw) (launches.Status, error) {
	s := raw.String(launches.KeyStatus)
	if strings.TrimSpace(s) == "" {
		return launches.StatusUpcoming, nil
	}
	status, ok := launches.ParseStatus(s)
	if !ok {
		return "", errors.NewValidationError(launches.KeyStatus, s, fmt.Sprintf("unknown status %q", s))
	}
	return status, nil
}

// normalizeMass coerces the payload mass to a float. Unparseable values
// become unset with a warning.
func (v *Validator) normalizeMass(raw launches.Raw) *float64 {
	if !raw.Has(launches.KeyPayloadMass) {
		return nil
	}
	switch n := raw.Value(launches.KeyPayloadMass).(type) {
	case float64:
		return &n
	case float32:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err == nil {
			return &f
		}
		v.warn("invalid payload_mass value: %q", n)
		return nil
	default:
		v.warn("invalid payload_mass value: %v", n)
		return nil
	}
}

// normalizeDate parses the launch date, trying formats in order.
// Unparseable dates become unset with a warning.
func (v *Validator) normalizeDate(raw launches.Raw) *utc.Time {
	if !raw.Has(launches.KeyLaunchDate) {
		return nil
	}
	switch d := raw.Value(launches.KeyLaunchDate).(type) {
	case utc.Time:
		return &d
	case time.Time:
		t := utc.New(d)
		return &t
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return nil
		}
		for _, format := range dateFormats {
			if t, err := time.Parse(format, s); err == nil {
				ut := utc.New(t)
				return &ut
			}
		}
		v.warn("could not parse launch_date: %q", s)
		return nil
	default:
		v.warn("could not parse launch_date: %v", d)
		return nil
	}
}

// checkSchema enforces the post-normalization invariants. Any failure
// discards the record.
func (v *Validator) checkSchema(l *launches.Launch) error {
	if l.Slug == "" {
		return errors.NewValidationError(launches.KeySlug, l.Slug, "slug must not be empty")
	}
	if !slugRE.MatchString(l.Slug) {
		return errors.NewValidationError(launches.KeySlug, l.Slug, "slug must contain only lower-case alphanumerics and hyphens")
	}
	if l.MissionName == "" {
		return errors.NewValidationError(launches.KeyMissionName, l.MissionName, "mission name must not be empty")
	}
	if l.LaunchDate != nil && l.LaunchDate.Year() < 2000 {
		return errors.NewValidationError(launches.KeyLaunchDate, l.LaunchDate, "launch date cannot be before year 2000")
	}
	if l.PayloadMass != nil && *l.PayloadMass < 0 {
		return errors.NewValidationError(launches.KeyPayloadMass, *l.PayloadMass, "payload_mass must be non-negative")
	}
	if l.MissionPatchURL != "" && !isHTTPURL(l.MissionPatchURL) {
		return errors.NewValidationError(launches.KeyMissionPatchURL, l.MissionPatchURL, "URL must start with http:// or https://")
	}
	if l.WebcastURL != "" && !isHTTPURL(l.WebcastURL) {
		return errors.NewValidationError(launches.KeyWebcastURL, l.WebcastURL, "URL must start with http:// or https://")
	}
	return nil
}

// checkBusinessRules applies soft plausibility checks. Violations are
// warnings only.
func (v *Validator) checkBusinessRules(l *launches.Launch) {
	now := time.Now().UTC()

	if l.LaunchDate != nil && l.LaunchDate.Year() > now.Year()+maxFutureYears {
		v.warn("launch date seems too far in future: %s", l.LaunchDate.Format(time.RFC3339))
	}
	if l.Status == launches.StatusUpcoming && l.LaunchDate != nil && l.LaunchDate.Time.Before(now) {
		v.warn("launch marked as upcoming but date is in past: %s", l.MissionName)
	}
	if l.PayloadMass != nil && *l.PayloadMass > maxPlausibleMassKg {
		v.warn("payload mass seems unusually high: %.0fkg", *l.PayloadMass)
	}
}

// Errors returns the accumulated validation errors for the run.
func (v *Validator) Errors() []string {
	out := make([]string, len(v.errors))
	copy(out, v.errors)
	return out
}

// Warnings returns the accumulated business-rule warnings for the run.
func (v *Validator) Warnings() []string {
	out := make([]string, len(v.warnings))
	copy(out, v.warnings)
	return out
}

// Summary describes the validator's accumulated results.
type Summary struct {
	Errors       []string `json:"errors" yaml:"errors"`
	Warnings     []string `json:"warnings" yaml:"warnings"`
	ErrorCount   int      `json:"error_count" yaml:"error_count"`
	WarningCount int      `json:"warning_count" yaml:"warning_count"`
}

// Summary returns statistics for the current run.
func (v *Validator) Summary() Summary {
	return Summary{
		Errors:       v.Errors(),
		Warnings:     v.Warnings(),
		ErrorCount:   len(v.errors),
		WarningCount: len(v.warnings),
	}
}

// Clear resets the accumulators for the next batch.
func (v *Validator) Clear() {
	v.errors = v.errors[:0]
	v.warnings = v.warnings[:0]
}

// Slugify derives a URL-friendly identifier from a display name:
// lower-case, non-alphanumerics collapsed to single hyphens, trimmed.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
