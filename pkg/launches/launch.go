// Package launches defines the core data model for the launchmap system:
// canonical launch records, source descriptors, raw scraped records, and
// field conflicts detected between sources.
package launches

import (
	"github.com/agentstation/utc"
)

// Launch represents a canonical launch record. It is the validated,
// normalized representation of one launch event. The validator is the
// only component that creates a Launch from raw scraped input.
type Launch struct {
	// Core identity
	Slug        string `json:"slug" yaml:"slug"`                 // Unique lower-case identifier, [a-z0-9-]+
	MissionName string `json:"mission_name" yaml:"mission_name"` // Display name (must not be empty)

	// Event details
	LaunchDate  *utc.Time `json:"launch_date,omitempty" yaml:"launch_date,omitempty"`   // Scheduled or actual launch date
	VehicleType string    `json:"vehicle_type,omitempty" yaml:"vehicle_type,omitempty"` // Rocket vehicle type
	PayloadMass *float64  `json:"payload_mass,omitempty" yaml:"payload_mass,omitempty"` // Payload mass in kg (>= 0)
	Orbit       string    `json:"orbit,omitempty" yaml:"orbit,omitempty"`               // Target orbit
	Status      Status    `json:"status" yaml:"status"`                                 // Launch status
	Details     string    `json:"details,omitempty" yaml:"details,omitempty"`           // Free-text mission details

	// Media
	MissionPatchURL string `json:"mission_patch_url,omitempty" yaml:"mission_patch_url,omitempty"` // Mission patch image URL
	WebcastURL      string `json:"webcast_url,omitempty" yaml:"webcast_url,omitempty"`             // Live webcast URL
}

// Copy returns a deep copy of the launch. Merge operations never mutate
// their inputs, so every accumulator starts from a copy.
func (l Launch) Copy() Launch {
	out := l
	if l.LaunchDate != nil {
		d := *l.LaunchDate
		out.LaunchDate = &d
	}
	if l.PayloadMass != nil {
		m := *l.PayloadMass
		out.PayloadMass = &m
	}
	return out
}

// Sourced pairs a canonical launch with the source it was scraped from.
type Sourced struct {
	Launch Launch `json:"launch" yaml:"launch"`
	Source Source `json:"source" yaml:"source"`
}

// GroupBySlug groups sourced launches by their slug. Iteration over the
// returned map must be slug-sorted by callers that need deterministic
// output.
func GroupBySlug(records []Sourced) map[string][]Sourced {
	groups := make(map[string][]Sourced)
	for _, r := range records {
		groups[r.Launch.Slug] = append(groups[r.Launch.Slug], r)
	}
	return groups
}
