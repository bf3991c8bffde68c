package reservation

import (
	"errors"
	"time"
)

// Validation and lookup errors carry the exact message text surfaced to API
// clients, so handlers render them with Error() directly.
var (
	ErrMissingDateRange = errors.New("startDate and endDate are required.")
	ErrInvalidDate      = errors.New("Date must be valid.")
	ErrRangeInverted    = errors.New("Start date must be after end date.")
	ErrRangeTooLong     = errors.New("Date range is too long (over 500 days).")
	ErrDatesRequired    = errors.New("dates is required.")
	ErrBadDateFormat    = errors.New("Dates must be in format YYYY-MM-DD.")
	ErrSpotNotFound     = errors.New("Parking spot does not exist. It might have been removed.")
	ErrPermissionDenied = errors.New("Permission denied.")
)

// ErrSlotTaken is returned by the repository when an insert collides with the
// unique (spot, date) constraint. The service translates it into a failed
// date for the caller.
var ErrSlotTaken = errors.New("reservation: slot already taken")

// ReservationFailedError reports that the allocation could not cover every
// requested date. No reservations are made when any date fails.
type ReservationFailedError struct {
	Dates []time.Time
}

func (e *ReservationFailedError) Error() string {
	return "Reservation failed. There weren't available spots for some of the days."
}

// ErrorDates lists the failed dates in YYYY-MM-DD form, ascending.
func (e *ReservationFailedError) ErrorDates() []string {
	return formatDates(e.Dates)
}

// ReleaseFailedError reports that some requested dates could neither be
// un-reserved nor released. No changes are made when any date fails.
type ReleaseFailedError struct {
	Dates []time.Time
}

func (e *ReleaseFailedError) Error() string {
	return "Parking spot does not have reservation, and cannot be released."
}

func (e *ReleaseFailedError) ErrorDates() []string {
	return formatDates(e.Dates)
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = FormatDate(d)
	}
	return out
}
