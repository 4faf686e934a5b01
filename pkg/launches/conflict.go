package launches

// Comparable launch fields. These names appear in conflict reports and
// match the raw record keys the fields were scraped from.
const (
	FieldMissionName     = "mission_name"
	FieldLaunchDate      = "launch_date"
	FieldStatus          = "status"
	FieldVehicleType     = "vehicle_type"
	FieldPayloadMass     = "payload_mass"
	FieldOrbit           = "orbit"
	FieldDetails         = "details"
	FieldMissionPatchURL = "mission_patch_url"
	FieldWebcastURL      = "webcast_url"
)

// FieldConflict records a disagreement between two sources' values for
// the same field of the same launch. It is never created for values
// that are equal or compatible under the field's conflict predicate.
type FieldConflict struct {
	Field        string  `json:"field_name" yaml:"field_name"`             // Name of the conflicting field
	SourceAValue string  `json:"source1_value" yaml:"source1_value"`       // Value from the first source
	SourceBValue string  `json:"source2_value" yaml:"source2_value"`       // Value from the second source
	Confidence   float64 `json:"confidence_score" yaml:"confidence_score"` // Confidence in the conflict, [0,1]
}
