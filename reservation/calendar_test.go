package reservation

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"parkpool/spot"
)

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		wantErr  error
		wantDays int
	}{
		{name: "valid", start: "2021-06-01", end: "2021-06-07", wantDays: 7},
		{name: "single day", start: "2021-06-01", end: "2021-06-01", wantDays: 1},
		{name: "missing start", start: "", end: "2021-06-07", wantErr: ErrMissingDateRange},
		{name: "missing end", start: "2021-06-01", end: "", wantErr: ErrMissingDateRange},
		{name: "malformed start", start: "01.06.2021", end: "2021-06-07", wantErr: ErrInvalidDate},
		{name: "malformed end", start: "2021-06-01", end: "garbage", wantErr: ErrInvalidDate},
		{name: "inverted", start: "2021-06-07", end: "2021-06-01", wantErr: ErrRangeInverted},
		{name: "max span", start: "2021-01-01", end: "2022-05-15", wantDays: 500},
		{name: "over max span", start: "2021-01-01", end: "2022-05-16", wantErr: ErrRangeTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rng, err := ValidateRange(tc.start, tc.end)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got error %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr == nil && rng.Days() != tc.wantDays {
				t.Errorf("got %d days, want %d", rng.Days(), tc.wantDays)
			}
		})
	}
}

func TestValidateRangeMessages(t *testing.T) {
	checks := map[error]string{
		ErrMissingDateRange: "startDate and endDate are required.",
		ErrInvalidDate:      "Date must be valid.",
		ErrRangeInverted:    "Start date must be after end date.",
		ErrRangeTooLong:     "Date range is too long (over 500 days).",
	}
	for err, want := range checks {
		if err.Error() != want {
			t.Errorf("got %q, want %q", err.Error(), want)
		}
	}
}

func TestValidateRangeFromDefaultsStart(t *testing.T) {
	today := day("2021-06-03")
	rng, err := ValidateRangeFrom("", "2021-06-05", today)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !rng.Start.Equal(today) {
		t.Errorf("start should default to today, got %s", FormatDate(rng.Start))
	}

	if _, err := ValidateRangeFrom("", "", today); !errors.Is(err, ErrMissingDateRange) {
		t.Errorf("missing end should fail, got %v", err)
	}
}

func TestBuildCalendar(t *testing.T) {
	user := uuid.New()
	other := uuid.New()
	spots := poolSpots("spot1", "spot2")
	owned := spot.ParkingSpot{ID: uuid.New(), Name: "owned", OwnerID: &user}
	all := append(spots, owned)

	snap := NewSnapshot(all,
		[]DayReservation{
			// user reserved spot1 on d1; someone else took spot2 on d2.
			{ID: uuid.New(), SpotID: spots[0].ID, UserID: user, Date: day("2021-06-01")},
			{ID: uuid.New(), SpotID: spots[1].ID, UserID: other, Date: day("2021-06-02")},
		},
		[]DayRelease{
			// user released the owned spot on d2.
			{ID: uuid.New(), SpotID: owned.ID, Date: day("2021-06-02")},
		},
	)

	cal := snap.BuildCalendar(DateRange{Start: day("2021-06-01"), End: day("2021-06-02")}, user, nil)

	if len(cal.OwnedSpots) != 1 || cal.OwnedSpots[0].ID != owned.ID {
		t.Fatalf("expected one owned spot, got %v", cal.OwnedSpots)
	}
	if len(cal.Days) != 2 {
		t.Fatalf("expected two days, got %d", len(cal.Days))
	}

	d1 := cal.Days[0]
	// d1: user holds spot1 (reserved) and owned (implicit); only spot2 free.
	if got := spotNames(d1.SpacesReservedByUser); len(got) != 2 || got[0] != "spot1" || got[1] != "owned" {
		t.Errorf("day 1 holdings: got %v", got)
	}
	if d1.AvailableSpaces != 1 {
		t.Errorf("day 1 available: got %d, want 1", d1.AvailableSpaces)
	}

	d2 := cal.Days[1]
	// d2: owned spot released, spot2 reserved by other; only spot1 free plus
	// the released owned day.
	if got := spotNames(d2.SpacesReservedByUser); len(got) != 0 {
		t.Errorf("day 2 holdings: got %v, want none", got)
	}
	if d2.AvailableSpaces != 2 {
		t.Errorf("day 2 available: got %d, want 2", d2.AvailableSpaces)
	}
}

func TestBuildCalendarFiltered(t *testing.T) {
	user := uuid.New()
	spots := poolSpots("spot1", "spot2")

	snap := NewSnapshot(spots, []DayReservation{
		// user holds spot2, the calendar is filtered to spot1.
		{ID: uuid.New(), SpotID: spots[1].ID, UserID: user, Date: day("2021-06-01")},
	}, nil)

	cal := snap.BuildCalendar(DateRange{Start: day("2021-06-01"), End: day("2021-06-01")}, user, &spots[0].ID)

	d := cal.Days[0]
	if d.AvailableSpaces != 1 {
		t.Errorf("filtered availability should count only the candidate spot, got %d", d.AvailableSpaces)
	}
	// Holdings stay visible even outside the filter.
	if got := spotNames(d.SpacesReservedByUser); len(got) != 1 || got[0] != "spot2" {
		t.Errorf("holdings should span all spots, got %v", got)
	}
}

func spotNames(spots []spot.ParkingSpot) []string {
	names := make([]string, len(spots))
	for i, sp := range spots {
		names[i] = sp.Name
	}
	return names
}
