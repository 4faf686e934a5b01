package launches

import (
	"github.com/agentstation/utc"
)

// Source describes where a raw record was scraped from. It is immutable
// for the lifetime of a processing run.
type Source struct {
	Name         string   `json:"name" yaml:"name"`                   // Name of the data source, e.g. "spacex.com"
	URL          string   `json:"url" yaml:"url"`                     // Origin URL the record was scraped from
	ScrapedAt    utc.Time `json:"scraped_at" yaml:"scraped_at"`       // When the record was retrieved
	QualityScore float64  `json:"quality_score" yaml:"quality_score"` // Source quality score in [0,1]
}
