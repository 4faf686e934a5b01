package launches_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/launchmap/pkg/launches"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  launches.Status
		ok    bool
	}{
		{"success", launches.StatusSuccess, true},
		{"Successful", launches.StatusSuccess, true},
		{"COMPLETED", launches.StatusSuccess, true},
		{"failed", launches.StatusFailure, true},
		{"unsuccessful", launches.StatusFailure, true},
		{"scheduled", launches.StatusUpcoming, true},
		{"planned", launches.StatusUpcoming, true},
		{"in-flight", launches.StatusInFlight, true},
		{"flying", launches.StatusInFlight, true},
		{"scrubbed", launches.StatusAborted, true},
		{"cancelled", launches.StatusAborted, true},
		{"canceled", launches.StatusAborted, true},
		{"  upcoming  ", launches.StatusUpcoming, true},
		{"exploded", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := launches.ParseStatus(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEquivalentStatus(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"same spelling", "success", "success", true},
		{"synonyms", "success", "completed", true},
		{"synonyms cross-case", "Successful", "COMPLETED", true},
		{"different classes", "success", "failed", false},
		{"upcoming class", "scheduled", "planned", true},
		{"aborted class", "scrubbed", "cancelled", true},
		{"unknown equal", "exploded", "exploded", true},
		{"unknown differ", "exploded", "vanished", false},
		{"unknown vs known", "exploded", "success", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, launches.EquivalentStatus(tt.a, tt.b))
		})
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range launches.Statuses() {
		assert.True(t, s.IsValid(), "status %q should be valid", s)
	}
	assert.False(t, launches.Status("exploded").IsValid())
	assert.False(t, launches.Status("").IsValid())
}
