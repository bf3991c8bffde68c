package reservation

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"parkpool/spot"
)

// ReservationPlan is the outcome of allocating spots to requested dates.
// Creates become reservation rows; Reclaims are owner reclaims of released
// days, realized by deleting the release row without creating a reservation.
type ReservationPlan struct {
	Assignments []Assignment
	Creates     []Assignment
	Reclaims    []Assignment
}

// PlanReservations chooses a spot for every requested date or fails with the
// dates that cannot be covered. Candidates are ordered by total historical
// reservation count ascending, ties broken by creation order; the counts are
// fixed for the whole call, so a run of dates lands on one spot when it stays
// available. Every date is allocated independently against the same
// snapshot. If any date has no available candidate, no date is allocated.
func PlanReservations(snap *Snapshot, dates []time.Time, pinned *spot.ParkingSpot, userID uuid.UUID, countBySpot map[uuid.UUID]int) (ReservationPlan, error) {
	var candidates []spot.ParkingSpot
	if pinned != nil {
		candidates = []spot.ParkingSpot{*pinned}
	} else {
		candidates = make([]spot.ParkingSpot, len(snap.Spots))
		copy(candidates, snap.Spots)
		sort.SliceStable(candidates, func(i, j int) bool {
			return countBySpot[candidates[i].ID] < countBySpot[candidates[j].ID]
		})
	}

	var plan ReservationPlan
	var failed []time.Time
	for _, d := range normalizeDates(dates) {
		chosen, ok := firstAvailable(snap, candidates, d)
		if !ok {
			failed = append(failed, d)
			continue
		}
		a := Assignment{Date: d, Spot: chosen}
		plan.Assignments = append(plan.Assignments, a)
		if _, released := snap.ReleaseFor(chosen.ID, d); released && chosen.OwnedBy(userID) {
			plan.Reclaims = append(plan.Reclaims, a)
		} else {
			plan.Creates = append(plan.Creates, a)
		}
	}
	if len(failed) > 0 {
		return ReservationPlan{}, &ReservationFailedError{Dates: failed}
	}
	return plan, nil
}

func firstAvailable(snap *Snapshot, candidates []spot.ParkingSpot, date time.Time) (spot.ParkingSpot, bool) {
	for _, sp := range candidates {
		if snap.IsAvailable(sp, date) {
			return sp, true
		}
	}
	return spot.ParkingSpot{}, false
}

// ReleasePlan is the outcome of planning a release call for one spot.
type ReleasePlan struct {
	// DeleteReservations are existing reservations to remove, ascending by
	// date.
	DeleteReservations []DayReservation
	// CreateReleases are dates to free the owned spot on.
	CreateReleases []time.Time
}

// PlanRelease decides, per requested date, whether to remove a reservation or
// free the owned spot. A reservation is removed when it belongs to the acting
// user or the actor is an admin. Otherwise, when the spot is owned and the
// actor is its owner or an admin, and the day is not already released, a
// release is planned. Any date fitting neither case fails, and one failed
// date fails the whole call.
func PlanRelease(snap *Snapshot, dates []time.Time, sp spot.ParkingSpot, actorID uuid.UUID, admin bool) (ReleasePlan, error) {
	var plan ReleasePlan
	var failed []time.Time
	for _, d := range normalizeDates(dates) {
		if res, ok := snap.ReservationFor(sp.ID, d); ok {
			if res.UserID == actorID || admin {
				plan.DeleteReservations = append(plan.DeleteReservations, res)
			} else {
				failed = append(failed, d)
			}
			continue
		}
		_, released := snap.ReleaseFor(sp.ID, d)
		if sp.OwnerID != nil && !released && (sp.OwnedBy(actorID) || admin) {
			plan.CreateReleases = append(plan.CreateReleases, d)
			continue
		}
		failed = append(failed, d)
	}
	if len(failed) > 0 {
		return ReleasePlan{}, &ReleaseFailedError{Dates: failed}
	}
	return plan, nil
}
