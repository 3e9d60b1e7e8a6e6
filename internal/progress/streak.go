package progress

import (
	"time"

	"github.com/benvon/thai-toolkit/internal/models"
)

// updateStreak applies one session at now to the overall stats.
func updateStreak(o *models.OverallStats, now time.Time, loc *time.Location) {
	if o.LastSessionDate.IsZero() {
		o.CurrentStreak = 1
		o.FirstSessionDate = now
	} else {
		last := civilDate(o.LastSessionDate, loc)
		today := civilDate(now, loc)
		switch {
		case last.Equal(today):
		case last.Equal(today.AddDate(0, 0, -1)):
			o.CurrentStreak++
		default:
			o.CurrentStreak = 1
		}
	}
	o.LastSessionDate = now
	o.TotalSessions++
}

// civilDate returns midnight UTC of t's calendar date in loc, so dates compare
// without DST effects.
func civilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
