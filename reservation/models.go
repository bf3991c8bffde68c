// Package reservation implements the availability and allocation engine for
// the shared parking pool: per-day availability rules, the spot allocation
// algorithm, calendar aggregation, and date-range compression for
// notifications.
package reservation

import (
	"time"

	"github.com/google/uuid"

	"parkpool/spot"
)

// DayReservation records that a user holds a spot on one specific day.
// At most one reservation exists per (spot, date); the database enforces this
// with a unique constraint. Spot and user display fields are joined in by the
// repository so views need no extra lookups.
type DayReservation struct {
	ID        uuid.UUID
	SpotID    uuid.UUID
	SpotName  string
	UserID    uuid.UUID
	UserName  string
	UserEmail string
	Date      time.Time
}

// DayRelease records that a spot's owner has freed the spot for one specific
// day so others may claim it. A release may coexist with a reservation for
// the same (spot, date): that means the released day was subsequently
// claimed. The release row is kept as provenance and is only removed when the
// owner reclaims the day.
type DayRelease struct {
	ID       uuid.UUID
	SpotID   uuid.UUID
	SpotName string
	Date     time.Time
}

// Assignment pairs one requested date with the spot chosen for it.
type Assignment struct {
	Date time.Time
	Spot spot.ParkingSpot
}

// CalendarDay is one row of the availability calendar.
type CalendarDay struct {
	Date time.Time
	// SpacesReservedByUser lists, in spot creation order, the spots the
	// acting user holds that day: owned spots occupied by default plus
	// spots with an explicit reservation by the user.
	SpacesReservedByUser []spot.ParkingSpot
	// AvailableSpaces counts the candidate spots claimable by anyone:
	// unreserved pool spots plus released-and-unreserved owned spots.
	AvailableSpaces int
}

// Calendar is the availability view over an inclusive date range.
type Calendar struct {
	Days       []CalendarDay
	OwnedSpots []spot.ParkingSpot
}

// ReleaseView is a release annotated with the reservation (if any) that now
// occupies the released day.
type ReleaseView struct {
	Release     DayRelease
	Reservation *DayReservation
}

// UserReservations is the "my reservations" view for one user.
type UserReservations struct {
	Reservations []DayReservation
	Releases     []ReleaseView
	OwnedSpots   []spot.ParkingSpot
}

// AllReservations is the administrative view across all users.
type AllReservations struct {
	Reservations []DayReservation
	Releases     []ReleaseView
}

// ReserveResult is returned by a successful Reserve call.
type ReserveResult struct {
	// Assignments, ascending by date.
	Assignments []Assignment
	// Notification is the rendered message handed to the notifier.
	Notification string
}

// ReleaseResult is returned by a successful Release call.
type ReleaseResult struct {
	Notification string
}

// Fixed success messages surfaced to API clients.
const (
	MsgReserved = "Spots successfully reserved"
	MsgReleased = "Parking reservations successfully released."
)
