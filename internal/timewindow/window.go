package timewindow

import (
	"strconv"
	"strings"
	"time"
)

// apiTimeLayout is the instant format the reservation API expects:
// ISO-8601 with millisecond precision and a literal Z suffix.
const apiTimeLayout = "2006-01-02T15:04:05.000Z"

// HourMinute is a wall-clock time of day.
type HourMinute struct {
	Hour   int
	Minute int
}

func (hm HourMinute) String() string {
	return twoDigits(hm.Hour) + ":" + twoDigits(hm.Minute)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// ParseHourMinute parses "HH:MM". The second return reports whether the
// input was well formed; callers fall back to their default on false.
func ParseHourMinute(s string) (HourMinute, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return HourMinute{}, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return HourMinute{}, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return HourMinute{}, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return HourMinute{}, false
	}
	return HourMinute{Hour: h, Minute: m}, true
}

// Window is a reservation time window on a single calendar day.
// Local timestamps drive all wall-clock reasoning; the UTC instants are
// what goes on the wire.
type Window struct {
	Date       time.Time // midnight local on the target day
	StartLocal time.Time
	EndLocal   time.Time
	StartUTC   time.Time
	EndUTC     time.Time
}

// TargetDate returns the local calendar date daysAhead days after now,
// normalized to midnight in loc.
func TargetDate(now time.Time, daysAhead int, loc *time.Location) time.Time {
	d := now.In(loc).AddDate(0, 0, daysAhead)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// IsWeekday reports whether date falls on Monday through Friday.
func IsWeekday(date time.Time) bool {
	wd := date.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// BuildWindow places start and end on date in loc and derives the UTC
// instants sent to the API.
func BuildWindow(date time.Time, start, end HourMinute, loc *time.Location) Window {
	d := date.In(loc)
	s := time.Date(d.Year(), d.Month(), d.Day(), start.Hour, start.Minute, 0, 0, loc)
	e := time.Date(d.Year(), d.Month(), d.Day(), end.Hour, end.Minute, 0, 0, loc)
	return Window{
		Date:       time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc),
		StartLocal: s,
		EndLocal:   e,
		StartUTC:   s.UTC(),
		EndUTC:     e.UTC(),
	}
}

// DayRange returns the full-day UTC range [00:00:00, 23:59:59] for date
// in loc, used to scope event list queries.
func DayRange(date time.Time, loc *time.Location) (from, to time.Time) {
	d := date.In(loc)
	from = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc).UTC()
	to = time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, loc).UTC()
	return from, to
}

// FormatAPI renders t for transmission.
func FormatAPI(t time.Time) string {
	return t.UTC().Format(apiTimeLayout)
}

// ParseAPI accepts either the millisecond-Z layout or plain RFC3339,
// since the API is inconsistent about which it returns.
func ParseAPI(s string) (time.Time, error) {
	if t, err := time.Parse(apiTimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
