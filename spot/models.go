package spot

import (
	"time"

	"github.com/google/uuid"
)

// ParkingSpot is a single parking space. A spot with a nil OwnerID belongs to
// the shared pool; a spot with an owner is implicitly occupied by that owner
// every day unless released.
//
// Listings are always ordered by creation, so candidate iteration and tie
// breaking in the allocator are stable across calls.
type ParkingSpot struct {
	ID        uuid.UUID
	Name      string
	OwnerID   *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether the spot is permanently assigned to the given user.
func (p ParkingSpot) OwnedBy(userID uuid.UUID) bool {
	return p.OwnerID != nil && *p.OwnerID == userID
}
