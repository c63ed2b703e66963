package domain

import "time"

// InstanceStatus lifecycle state of a tour instance
type InstanceStatus string

const (
	InstanceOpen          InstanceStatus = "open"
	InstanceClosedFull    InstanceStatus = "closed_full"
	InstanceClosedExpired InstanceStatus = "closed_expired"
	InstanceCancelled     InstanceStatus = "cancelled"
)

// TourInstance one bookable occurrence of a template at a specific start time
type TourInstance struct {
	ID         int64
	TemplateID int64
	StartTime  time.Time
	Status     InstanceStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen returns true if the instance still accepts bookings
func (i *TourInstance) IsOpen() bool {
	return i.Status == InstanceOpen
}

// IsTerminal returns true for final states. Terminal instances never re-open,
// even if confirmed seats are later cancelled.
func (i *TourInstance) IsTerminal() bool {
	return i.Status == InstanceClosedFull ||
		i.Status == InstanceClosedExpired ||
		i.Status == InstanceCancelled
}

// IsDropIn returns true if the instance starts within the drop-in window
func (i *TourInstance) IsDropIn(now time.Time) bool {
	until := i.StartTime.Sub(now)
	return until > 0 && until < DropInWindow
}

// IsEarlyBird returns true if booking now is far enough ahead of the start
// to qualify for the template's early-bird discount
func (i *TourInstance) IsEarlyBird(t *TourTemplate, now time.Time) bool {
	if !t.HasEarlyBird() {
		return false
	}
	return i.StartTime.Sub(now) >= time.Duration(t.EarlyBirdNoticeHours)*time.Hour
}
