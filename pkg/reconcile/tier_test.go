package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/launchmap/pkg/reconcile"
)

func TestSourceTier(t *testing.T) {
	tests := []struct {
		source string
		want   reconcile.Tier
	}{
		{"spacex.com", reconcile.TierVendorOfficial},
		{"SpaceX API", reconcile.TierVendorOfficial},
		{"nasa.gov", reconcile.TierGovernmentOfficial},
		{"wikipedia", reconcile.TierCrowdEncyclopedia},
		{"en.wikipedia.org", reconcile.TierCrowdEncyclopedia},
		{"random-blog.net", reconcile.TierUnknown},
		{"", reconcile.TierUnknown},

		// A press kit source naming the vendor still lands in the
		// press-kit tier, not the vendor tier.
		{"spacex_press_kit", reconcile.TierVendorPressKit},
		{"SpaceX Press Kit 2026", reconcile.TierVendorPressKit},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, reconcile.SourceTier(tt.source))
		})
	}
}

func TestTierOrdering(t *testing.T) {
	assert.Less(t, reconcile.TierVendorOfficial, reconcile.TierGovernmentOfficial)
	assert.Less(t, reconcile.TierGovernmentOfficial, reconcile.TierVendorPressKit)
	assert.Less(t, reconcile.TierVendorPressKit, reconcile.TierCrowdEncyclopedia)
	assert.Less(t, reconcile.TierCrowdEncyclopedia, reconcile.TierUnknown)
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "vendor_official", reconcile.TierVendorOfficial.String())
	assert.Equal(t, "crowd_encyclopedia", reconcile.TierCrowdEncyclopedia.String())
	assert.Equal(t, "unknown", reconcile.TierUnknown.String())
}
