package reservation

import (
	"time"

	"github.com/google/uuid"

	"parkpool/spot"
)

type dayKey struct {
	spotID uuid.UUID
	date   string
}

// Snapshot is an in-memory view of spots, reservations and releases over
// some date range. All availability rules evaluate against a snapshot;
// persistence then re-verifies them via unique constraints and guarded
// deletes inside a transaction.
type Snapshot struct {
	Spots        []spot.ParkingSpot
	reservations map[dayKey]DayReservation
	releases     map[dayKey]DayRelease
}

func NewSnapshot(spots []spot.ParkingSpot, reservations []DayReservation, releases []DayRelease) *Snapshot {
	s := &Snapshot{
		Spots:        spots,
		reservations: make(map[dayKey]DayReservation, len(reservations)),
		releases:     make(map[dayKey]DayRelease, len(releases)),
	}
	for _, r := range reservations {
		s.reservations[dayKey{r.SpotID, FormatDate(r.Date)}] = r
	}
	for _, r := range releases {
		s.releases[dayKey{r.SpotID, FormatDate(r.Date)}] = r
	}
	return s
}

// ReservationFor returns the reservation occupying the spot on the date.
func (s *Snapshot) ReservationFor(spotID uuid.UUID, date time.Time) (DayReservation, bool) {
	r, ok := s.reservations[dayKey{spotID, FormatDate(date)}]
	return r, ok
}

// ReleaseFor returns the release freeing the spot on the date.
func (s *Snapshot) ReleaseFor(spotID uuid.UUID, date time.Time) (DayRelease, bool) {
	r, ok := s.releases[dayKey{spotID, FormatDate(date)}]
	return r, ok
}

// IsAvailable reports whether the spot can be claimed on the date. A reserved
// day is available to no one. Pool spots are otherwise free; owned spots only
// on days the owner has released. The rule is the same for every user: an
// owner reclaiming a released day goes through it too.
func (s *Snapshot) IsAvailable(sp spot.ParkingSpot, date time.Time) bool {
	if _, reserved := s.ReservationFor(sp.ID, date); reserved {
		return false
	}
	if sp.OwnerID == nil {
		return true
	}
	_, released := s.ReleaseFor(sp.ID, date)
	return released
}

// IsOccupiedByOwner reports whether the spot's owner implicitly holds it on
// the date: the spot is owned, not released, and not reserved by anyone
// else.
func (s *Snapshot) IsOccupiedByOwner(sp spot.ParkingSpot, date time.Time) bool {
	if sp.OwnerID == nil {
		return false
	}
	if _, released := s.ReleaseFor(sp.ID, date); released {
		return false
	}
	res, reserved := s.ReservationFor(sp.ID, date)
	return !reserved || res.UserID == *sp.OwnerID
}
