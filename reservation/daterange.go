package reservation

import (
	"sort"
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	humanLayout = "02.01.2006"
)

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrBadDateFormat
	}
	return t, nil
}

// FormatDate renders a date in YYYY-MM-DD form.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatHuman(t time.Time) string {
	return t.Format(humanLayout)
}

func isNextDay(a, b time.Time) bool {
	return b.Equal(a.AddDate(0, 0, 1))
}

// normalizeDates sorts the dates ascending and drops duplicates.
func normalizeDates(dates []time.Time) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	dedup := out[:0]
	for i, d := range out {
		if i == 0 || !d.Equal(out[i-1]) {
			dedup = append(dedup, d)
		}
	}
	return dedup
}

// CompressDates renders sorted dates as human-readable singles and ranges,
// merging every maximal run of consecutive days: 01.06, 02.06 and 03.06
// become "01.06.2021 - 03.06.2021". A run of two days is still a range.
func CompressDates(dates []time.Time) []string {
	dates = normalizeDates(dates)
	var out []string
	for start := 0; start < len(dates); {
		end := start
		for end+1 < len(dates) && isNextDay(dates[end], dates[end+1]) {
			end++
		}
		out = append(out, formatRun(dates[start], dates[end]))
		start = end + 1
	}
	return out
}

func formatRun(first, last time.Time) string {
	if first.Equal(last) {
		return formatHuman(first)
	}
	return formatHuman(first) + " - " + formatHuman(last)
}

// reservationNotification renders the message announcing new reservations.
// Assignments are scanned in date order and bulleted per maximal run of
// consecutive days on the same spot; a gap or a spot change starts a new
// bullet.
func reservationNotification(userName string, assignments []Assignment) string {
	var b strings.Builder
	b.WriteString("Reservations made by ")
	b.WriteString(userName)
	b.WriteString(":")
	for start := 0; start < len(assignments); {
		end := start
		for end+1 < len(assignments) &&
			assignments[end+1].Spot.ID == assignments[end].Spot.ID &&
			isNextDay(assignments[end].Date, assignments[end+1].Date) {
			end++
		}
		b.WriteString("\n• Parking spot ")
		b.WriteString(assignments[start].Spot.Name)
		b.WriteString(": ")
		b.WriteString(formatRun(assignments[start].Date, assignments[end].Date))
		start = end + 1
	}
	return b.String()
}

// releaseNotification renders the message announcing days a spot was freed
// or un-reserved.
func releaseNotification(spotName string, dates []time.Time) string {
	var b strings.Builder
	b.WriteString("Parking spot ")
	b.WriteString(spotName)
	b.WriteString(" released for reservation:")
	for _, r := range CompressDates(dates) {
		b.WriteString("\n• ")
		b.WriteString(r)
	}
	return b.String()
}
