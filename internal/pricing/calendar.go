package pricing

import (
	"errors"
	"time"
)

var (
	ErrGuestTypeUndetermined = errors.New("order guest type cannot be determined")
	ErrStayTooLong           = errors.New("stay exceeds the maximum number of nights")
)

// DayStart is midnight of t's calendar day in loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// StayDays counts whole 24-hour periods between check-in and check-out.
func StayDays(checkIn, checkOut time.Time) int {
	if !checkOut.After(checkIn) {
		return 0
	}
	return int(checkOut.Sub(checkIn) / (24 * time.Hour))
}

// billedDays lists the hotel days a stay is billed for: every day from the
// check-in day up to, but excluding, the check-out day. A stay that starts and
// ends on the same day is billed for that day.
func billedDays(checkIn, checkOut time.Time, loc *time.Location, limit int) ([]time.Time, error) {
	first := DayStart(checkIn, loc)
	last := DayStart(checkOut, loc)

	var days []time.Time
	for d := first; d.Before(last); d = d.AddDate(0, 0, 1) {
		if len(days) >= limit {
			return nil, ErrStayTooLong
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		days = append(days, first)
	}
	return days, nil
}

// billedOn reports whether a stay is billed for the hotel day starting at d.
func billedOn(checkIn, checkOut, d time.Time, loc *time.Location) bool {
	first := DayStart(checkIn, loc)
	last := DayStart(checkOut, loc)
	if !first.Before(last) {
		return d.Equal(first)
	}
	return !d.Before(first) && d.Before(last)
}
