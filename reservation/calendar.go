package reservation

import (
	"time"

	"github.com/google/uuid"

	"parkpool/spot"
)

// maxRangeDays caps the inclusive span of any queried date range.
const maxRangeDays = 500

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the inclusive day count.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Each calls fn for every day of the range in ascending order.
func (r DateRange) Each(fn func(time.Time)) {
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// ValidateRange parses and validates a queried date range. Both bounds are
// required, must parse as YYYY-MM-DD, must not be inverted, and may span at
// most 500 days.
func ValidateRange(startStr, endStr string) (DateRange, error) {
	if startStr == "" || endStr == "" {
		return DateRange{}, ErrMissingDateRange
	}
	start, err := ParseDate(startStr)
	if err != nil {
		return DateRange{}, ErrInvalidDate
	}
	end, err := ParseDate(endStr)
	if err != nil {
		return DateRange{}, ErrInvalidDate
	}
	rng := DateRange{Start: start, End: end}
	if start.After(end) {
		return DateRange{}, ErrRangeInverted
	}
	if rng.Days() > maxRangeDays {
		return DateRange{}, ErrRangeTooLong
	}
	return rng, nil
}

// ValidateRangeFrom is ValidateRange with the start bound defaulting to
// today when omitted. The end bound is always required.
func ValidateRangeFrom(startStr, endStr string, today time.Time) (DateRange, error) {
	if startStr == "" {
		startStr = FormatDate(today)
	}
	return ValidateRange(startStr, endStr)
}

// BuildCalendar computes the availability calendar for one user. candidates
// restricts which spots count toward AvailableSpaces (nil means every spot),
// while SpacesReservedByUser always spans all spots so the user's own
// holdings stay visible on a filtered calendar.
func (s *Snapshot) BuildCalendar(rng DateRange, userID uuid.UUID, candidate *uuid.UUID) Calendar {
	cal := Calendar{
		Days:       make([]CalendarDay, 0, rng.Days()),
		OwnedSpots: []spot.ParkingSpot{},
	}
	for _, sp := range s.Spots {
		if sp.OwnedBy(userID) {
			cal.OwnedSpots = append(cal.OwnedSpots, sp)
		}
	}
	rng.Each(func(d time.Time) {
		day := CalendarDay{Date: d, SpacesReservedByUser: []spot.ParkingSpot{}}
		for _, sp := range s.Spots {
			if s.holdsOn(sp, userID, d) {
				day.SpacesReservedByUser = append(day.SpacesReservedByUser, sp)
			}
			if candidate != nil && sp.ID != *candidate {
				continue
			}
			if s.IsAvailable(sp, d) {
				day.AvailableSpaces++
			}
		}
		cal.Days = append(cal.Days, day)
	})
	return cal
}

// holdsOn reports whether the user holds the spot on the date, either
// implicitly as its owner or through an explicit reservation.
func (s *Snapshot) holdsOn(sp spot.ParkingSpot, userID uuid.UUID, date time.Time) bool {
	if sp.OwnedBy(userID) && s.IsOccupiedByOwner(sp, date) {
		return true
	}
	res, ok := s.ReservationFor(sp.ID, date)
	return ok && res.UserID == userID
}
