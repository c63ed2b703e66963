package domain

import "time"

// CatalogIndexEntry the denormalized, queryable view of one tour instance.
// Derived from TourTemplate plus the availability ledger; never the system
// of record. Version is stamped from the ledger so staleness is detectable.
type CatalogIndexEntry struct {
	InstanceID int64
	TemplateID int64

	Title    string
	City     string
	Country  string
	Category string

	Languages         []string
	TravelStyles      []string
	AccessibilityTags []string

	DurationMinutes int
	MinGroup        int
	MaxGroup        int

	StartTime time.Time
	Status    InstanceStatus

	Currency     string
	BasePrice    int64
	CurrentPrice int64 // curve price at the current confirmed count
	AtFullPrice  int64 // curve price once the group is full (the floor)

	ProgressPct    float64
	SpotsLeft      int
	ConfirmedCount int

	InstantBook    bool
	PayWhatYouWant bool

	EarlyBirdNoticeHours int

	HostRating  float64
	ReviewCount int

	Version int64
}

// IsDropIn returns true if the entry's instance starts within the drop-in
// window and is still open
func (e *CatalogIndexEntry) IsDropIn(now time.Time) bool {
	until := e.StartTime.Sub(now)
	return e.Status == InstanceOpen && until > 0 && until < DropInWindow
}

// IsEarlyBird returns true if booking now would qualify for the template's
// early-bird discount
func (e *CatalogIndexEntry) IsEarlyBird(now time.Time) bool {
	if e.EarlyBirdNoticeHours <= 0 {
		return false
	}
	return e.StartTime.Sub(now) >= time.Duration(e.EarlyBirdNoticeHours)*time.Hour
}
