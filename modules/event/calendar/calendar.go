package calendar

import (
	"fmt"
	"time"

	"weekend-match-api/modules/event/entity"
)

const (
	dinnerHour = 19
	brunchHour = 12

	// ActiveBookingGrace is how far around now a member's booking stays "active",
	// wide enough that last weekend's booking is still visible on Monday.
	ActiveBookingGrace = 7 * 24 * time.Hour
)

type WeekendInstants struct {
	Friday   time.Time
	Saturday time.Time
	Sunday   time.Time
}

// Window is an inclusive [Start, End] range.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// NextWeekendInstants returns the upcoming Friday 19:00, Saturday 19:00 and Sunday 12:00
// in now's location. On a Friday it returns that same Friday.
func NextWeekendInstants(now time.Time) WeekendInstants {
	var daysToFriday int
	switch now.Weekday() {
	case time.Sunday:
		daysToFriday = 5
	case time.Saturday:
		daysToFriday = 6
	default:
		daysToFriday = 5 - int(now.Weekday())
	}

	y, m, d := now.Date()
	loc := now.Location()
	return WeekendInstants{
		Friday:   time.Date(y, m, d+daysToFriday, dinnerHour, 0, 0, 0, loc),
		Saturday: time.Date(y, m, d+daysToFriday+1, dinnerHour, 0, 0, 0, loc),
		Sunday:   time.Date(y, m, d+daysToFriday+2, brunchHour, 0, 0, 0, loc),
	}
}

// InstantFor picks the slot start for day out of the next weekend.
func InstantFor(day entity.Day, now time.Time) (time.Time, error) {
	w := NextWeekendInstants(now)
	switch day {
	case entity.DayFriday:
		return w.Friday, nil
	case entity.DaySaturday:
		return w.Saturday, nil
	case entity.DaySunday:
		return w.Sunday, nil
	}
	return time.Time{}, fmt.Errorf("unknown day %q", day)
}

// DayBounds returns local midnight through 23:59:59.999 of t's calendar day.
func DayBounds(t time.Time) Window {
	y, m, d := t.Date()
	return Window{
		Start: time.Date(y, m, d, 0, 0, 0, 0, t.Location()),
		End:   time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location()),
	}
}

// TruncateDay drops the clock part of t in its own location.
func TruncateDay(t time.Time) time.Time {
	return DayBounds(t).Start
}

// CurrentWeekendBounds is Friday 00:00 through Sunday 23:59:59.999 of the weekend now
// belongs to. From Friday to Sunday it keeps pointing at the running weekend; on
// weekdays it points at the coming one.
func CurrentWeekendBounds(now time.Time) Window {
	var offset int
	switch now.Weekday() {
	case time.Friday:
		offset = 0
	case time.Saturday:
		offset = -1
	case time.Sunday:
		offset = -2
	default:
		offset = 5 - int(now.Weekday())
	}

	y, m, d := now.Date()
	loc := now.Location()
	return Window{
		Start: time.Date(y, m, d+offset, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, d+offset+2, 23, 59, 59, int(999*time.Millisecond), loc),
	}
}

// ActiveBookingWindow is now ± ActiveBookingGrace.
func ActiveBookingWindow(now time.Time) Window {
	return Window{Start: now.Add(-ActiveBookingGrace), End: now.Add(ActiveBookingGrace)}
}

func KindForDay(day entity.Day) entity.EventKind {
	if day == entity.DaySunday {
		return entity.EventKindBrunch
	}
	return entity.EventKindDinner
}

// DayLabel maps a slot start back to its weekend day.
func DayLabel(t time.Time) (entity.Day, bool) {
	switch t.Weekday() {
	case time.Friday:
		return entity.DayFriday, true
	case time.Saturday:
		return entity.DaySaturday, true
	case time.Sunday:
		return entity.DaySunday, true
	}
	return "", false
}

// GroupName renders "Dinner · Berlin · Fri, Nov 14".
func GroupName(kind entity.EventKind, city string, start time.Time) string {
	return fmt.Sprintf("%s · %s · %s", kind.Title(), city, start.Format("Mon, Jan 2"))
}
