package launches

import "strings"

// Status represents the lifecycle state of a launch.
type Status string

// Canonical launch statuses.
const (
	StatusUpcoming Status = "upcoming"
	StatusSuccess  Status = "success"
	StatusFailure  Status = "failure"
	StatusInFlight Status = "in_flight"
	StatusAborted  Status = "aborted"
)

// String returns the string representation of a status.
func (s Status) String() string {
	return string(s)
}

// IsValid reports whether the status is one of the canonical values.
func (s Status) IsValid() bool {
	switch s {
	case StatusUpcoming, StatusSuccess, StatusFailure, StatusInFlight, StatusAborted:
		return true
	}
	return false
}

// Statuses returns all canonical status values.
func Statuses() []Status {
	return []Status{
		StatusUpcoming,
		StatusSuccess,
		StatusFailure,
		StatusInFlight,
		StatusAborted,
	}
}

// statusSynonyms maps scraped status spellings to canonical statuses.
// Matching is case-insensitive after trimming.
var statusSynonyms = map[string]Status{
	"success":      StatusSuccess,
	"successful":   StatusSuccess,
	"completed":    StatusSuccess,
	"failure":      StatusFailure,
	"failed":       StatusFailure,
	"unsuccessful": StatusFailure,
	"upcoming":     StatusUpcoming,
	"scheduled":    StatusUpcoming,
	"planned":      StatusUpcoming,
	"in_flight":    StatusInFlight,
	"in-flight":    StatusInFlight,
	"active":       StatusInFlight,
	"flying":       StatusInFlight,
	"aborted":      StatusAborted,
	"cancelled":    StatusAborted,
	"canceled":     StatusAborted,
	"scrubbed":     StatusAborted,
}

// ParseStatus maps a scraped status string onto its canonical status.
// It returns false when the value is not a known status or synonym.
func ParseStatus(s string) (Status, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	status, ok := statusSynonyms[normalized]
	return status, ok
}

// EquivalentStatus reports whether two status strings map into the same
// synonym-equivalence class. Unknown values are equivalent only when
// their normalized spellings match exactly.
func EquivalentStatus(a, b string) bool {
	na := strings.ToLower(strings.TrimSpace(a))
	nb := strings.ToLower(strings.TrimSpace(b))
	if na == nb {
		return true
	}
	sa, oka := statusSynonyms[na]
	sb, okb := statusSynonyms[nb]
	return oka && okb && sa == sb
}
