package log

import (
	"fmt"
	"time"
)

// FormatDuration renders d the way run summaries report elapsed time:
// fractional seconds below a minute, then whole minutes and seconds, then
// hours, minutes and seconds.
func FormatDuration(d time.Duration) string {
	seconds := d.Seconds()
	switch {
	case seconds < 60:
		return fmt.Sprintf("%f seconds", seconds)
	case seconds < 3600:
		s := int(seconds)
		return fmt.Sprintf("%d minutes %d seconds", s/60, s%60)
	default:
		s := int(seconds)
		return fmt.Sprintf("%d hours %d minutes %d seconds", s/3600, (s%3600)/60, s%60)
	}
}

// Rate returns count per second over d, or 0 for a non-positive duration.
func Rate(count int64, d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(float64(count) / d.Seconds())
}
