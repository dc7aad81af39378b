package message

import (
	"fmt"
	"time"
)

// FormatDate renders a timestamp the way all bot replies show dates
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// TimeSince renders the distance between now and t in the largest whole unit,
// phrased as "3 days ago" for past dates and "in 3 days" for future ones.
func TimeSince(t, now time.Time) string {
	d := now.Sub(t)
	past := d >= 0
	if !past {
		d = -d
	}

	var n int64
	var unit string
	switch {
	case d >= 365*24*time.Hour:
		n, unit = int64(d/(365*24*time.Hour)), "year"
	case d >= 30*24*time.Hour:
		n, unit = int64(d/(30*24*time.Hour)), "month"
	case d >= 24*time.Hour:
		n, unit = int64(d/(24*time.Hour)), "day"
	case d >= time.Hour:
		n, unit = int64(d/time.Hour), "hour"
	case d >= time.Minute:
		n, unit = int64(d/time.Minute), "minute"
	default:
		n, unit = int64(d/time.Second), "second"
	}
	if n != 1 {
		unit += "s"
	}

	if past {
		return fmt.Sprintf("%d %s ago", n, unit)
	}
	return fmt.Sprintf("in %d %s", n, unit)
}
