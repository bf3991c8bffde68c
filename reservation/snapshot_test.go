package reservation

import (
	"testing"

	"github.com/google/uuid"

	"parkpool/spot"
)

func TestSnapshotAvailability(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	pool := spot.ParkingSpot{ID: uuid.New(), Name: "pool"}
	owned := spot.ParkingSpot{ID: uuid.New(), Name: "owned", OwnerID: &owner}

	d := day("2021-06-01")
	freed := day("2021-06-02")
	claimed := day("2021-06-03")

	snap := NewSnapshot(
		[]spot.ParkingSpot{pool, owned},
		[]DayReservation{
			{ID: uuid.New(), SpotID: pool.ID, UserID: other, Date: claimed},
			{ID: uuid.New(), SpotID: owned.ID, UserID: other, Date: claimed},
		},
		[]DayRelease{
			{ID: uuid.New(), SpotID: owned.ID, Date: freed},
			{ID: uuid.New(), SpotID: owned.ID, Date: claimed},
		},
	)

	if !snap.IsAvailable(pool, d) {
		t.Errorf("unreserved pool spot should be available")
	}
	if snap.IsAvailable(pool, claimed) {
		t.Errorf("reserved pool spot should not be available")
	}
	if snap.IsAvailable(owned, d) {
		t.Errorf("owned spot without release should not be available")
	}
	if !snap.IsAvailable(owned, freed) {
		t.Errorf("released owned spot should be available")
	}
	if snap.IsAvailable(owned, claimed) {
		t.Errorf("released then reserved owned spot should not be available")
	}

	if !snap.IsOccupiedByOwner(owned, d) {
		t.Errorf("owned spot without release should be occupied by owner")
	}
	if snap.IsOccupiedByOwner(owned, freed) {
		t.Errorf("released owned spot should not be occupied by owner")
	}
	if snap.IsOccupiedByOwner(owned, claimed) {
		t.Errorf("owned spot reserved by another user should not be occupied by owner")
	}
	if snap.IsOccupiedByOwner(pool, d) {
		t.Errorf("pool spot is never occupied by owner")
	}
}
