package models

// Pet is the organization's virtual pet. There is exactly one per organization,
// created together with it.
type Pet struct {
	// OrgID is the owning organization (unique).
	OrgID string

	// Hunger is the satiation level, 0 (starving) through 7 (full).
	Hunger int

	// Age is the life stage: 0 egg, 1 baby, 2 child, 3 adult.
	Age int

	// FeedCount counts feeds since the last evolution reset.
	FeedCount int

	// Species is one of the configured species palette.
	Species string

	// Color is a hex color picked when the pet was created.
	Color string

	// LastFedAt and LastCheckedAt are Unix timestamps.
	LastFedAt     int64
	LastCheckedAt int64

	// Version increments on every write and guards concurrent updates.
	Version int64
}
