package domain

// PerformanceFact is one extracted performance of a performer: where and when.
// Location is free text as the extraction agent produced it, e.g.
// "Helsinki, Finland".
type PerformanceFact struct {
	Venue     string `json:"venue"`
	Location  string `json:"location"`
	Date      string `json:"date"`
	EventName string `json:"event_name,omitempty"`
}

// PerformerFact is the unit the extraction agents hand over for one performer
// seen on one source item. Genres is a delimiter-separated string ("Rock; Jazz");
// Country and genre entries may carry the agents' "Unknown" placeholder.
type PerformerFact struct {
	BandName     string            `json:"band_name"`
	Genres       string            `json:"genres"`
	Country      string            `json:"country"`
	Performances []PerformanceFact `json:"performances"`
}

// SkippedFact records one performance fact that failed ingestion, with the
// reason it was skipped. Sibling facts in the batch are unaffected.
type SkippedFact struct {
	BandName string          `json:"band_name"`
	Fact     PerformanceFact `json:"fact"`
	Reason   string          `json:"reason"`
}

// IngestReport is the per-batch summary of created versus skipped items.
type IngestReport struct {
	SourceID string        `json:"source_id"`
	Created  []string      `json:"created"`
	Skipped  []SkippedFact `json:"skipped"`
}
