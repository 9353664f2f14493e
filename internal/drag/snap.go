package drag

import (
	"time"

	"github.com/constructbms/gantt/internal/domain"
)

// SnapZoom is the zoom level at and above which proposed dates snap to
// week boundaries.
const SnapZoom = 7

// SnapToWeek rounds t forward to the next Sunday 00:00 in t's location. A
// time already on a Sunday midnight is returned unchanged.
func SnapToWeek(t time.Time) time.Time {
	d := domain.TruncateDay(t)
	if d.Weekday() == time.Sunday && d.Equal(t) {
		return t
	}
	days := (7 - int(d.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	return d.AddDate(0, 0, days)
}
