package reconcile

import "strings"

// Tier is a source trust tier. Lower values are more trusted; ties
// within a tier are broken by descending source quality score.
type Tier int

// Trust tiers, most trusted first.
const (
	TierVendorOfficial Tier = iota + 1
	TierGovernmentOfficial
	TierVendorPressKit
	TierCrowdEncyclopedia
	TierUnknown
)

// String returns the tier's name.
func (t Tier) String() string {
	switch t {
	case TierVendorOfficial:
		return "vendor_official"
	case TierGovernmentOfficial:
		return "government_official"
	case TierVendorPressKit:
		return "vendor_press_kit"
	case TierCrowdEncyclopedia:
		return "crowd_encyclopedia"
	default:
		return "unknown"
	}
}

// tierMarkers map source-name substrings onto trust tiers. Checked in
// order, most specific first, so a press-kit source containing the
// vendor name still lands in the press-kit tier.
var tierMarkers = []struct {
	marker string
	tier   Tier
}{
	{"press_kit", TierVendorPressKit},
	{"press-kit", TierVendorPressKit},
	{"press kit", TierVendorPressKit},
	{"spacex", TierVendorOfficial},
	{"nasa", TierGovernmentOfficial},
	{"wikipedia", TierCrowdEncyclopedia},
}

// SourceTier classifies a source name into its trust tier. Sources that
// match no known marker fall to the lowest tier.
func SourceTier(name string) Tier {
	lower := strings.ToLower(name)
	for _, m := range tierMarkers {
		if strings.Contains(lower, m.marker) {
			return m.tier
		}
	}
	return TierUnknown
}
