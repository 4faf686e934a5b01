package launches

import "fmt"

// Raw is a dynamically typed record as scraped from one source. It has
// no required shape; the validator is the sole conversion boundary into
// the strongly typed Launch.
type Raw map[string]any

// Raw record keys recognized by the validator.
const (
	KeySlug            = "slug"
	KeyMissionName     = "mission_name"
	KeyLaunchDate      = "launch_date"
	KeyVehicleType     = "vehicle_type"
	KeyPayloadMass     = "payload_mass"
	KeyOrbit           = "orbit"
	KeyStatus          = "status"
	KeyDetails         = "details"
	KeyMissionPatchURL = "mission_patch_url"
	KeyWebcastURL      = "webcast_url"
)

// Has reports whether the key is present with a non-nil value.
func (r Raw) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Value returns the raw value for a key, or nil when absent.
func (r Raw) Value(key string) any {
	return r[key]
}

// String returns the value for a key rendered as a string. Non-string
// values are formatted with their default representation; absent or nil
// values render as "".
func (r Raw) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
