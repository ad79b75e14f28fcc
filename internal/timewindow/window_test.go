package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestIsWeekday(t *testing.T) {
	// Mon 2 Feb 2026 through Sun 8 Feb 2026
	want := map[time.Weekday]bool{
		time.Monday:    true,
		time.Tuesday:   true,
		time.Wednesday: true,
		time.Thursday:  true,
		time.Friday:    true,
		time.Saturday:  false,
		time.Sunday:    false,
	}
	for d := 2; d <= 8; d++ {
		date := time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC)
		require.Equal(t, want[date.Weekday()], IsWeekday(date), "day %v", date.Weekday())
	}
}

func TestTargetDate(t *testing.T) {
	loc := eastern(t)
	// 23:30 ET on the 13th is already the 14th in UTC; the target date
	// must still be computed from the local calendar.
	now := time.Date(2026, 1, 14, 4, 30, 0, 0, time.UTC) // = Jan 13, 23:30 EST
	got := TargetDate(now, 7, loc)
	require.Equal(t, 2026, got.Year())
	require.Equal(t, time.January, got.Month())
	require.Equal(t, 20, got.Day())
	require.Equal(t, loc, got.Location())
}

func TestBuildWindow(t *testing.T) {
	loc := eastern(t)
	date := time.Date(2026, 2, 4, 0, 0, 0, 0, loc) // Wednesday, EST (UTC-5)
	w := BuildWindow(date, HourMinute{9, 30}, HourMinute{17, 30}, loc)

	require.Equal(t, "2026-02-04T14:30:00.000Z", FormatAPI(w.StartUTC))
	require.Equal(t, "2026-02-04T22:30:00.000Z", FormatAPI(w.EndUTC))
	require.True(t, w.StartUTC.Before(w.EndUTC))
	require.Equal(t, w.StartLocal.UTC(), w.StartUTC)

	// deterministic
	again := BuildWindow(date, HourMinute{9, 30}, HourMinute{17, 30}, loc)
	require.Equal(t, w, again)
}

func TestBuildWindowAcrossDST(t *testing.T) {
	loc := eastern(t)
	// DST starts Mar 8 2026; EDT is UTC-4 from then on.
	before := BuildWindow(time.Date(2026, 3, 6, 0, 0, 0, 0, loc), HourMinute{9, 30}, HourMinute{17, 30}, loc)
	after := BuildWindow(time.Date(2026, 3, 9, 0, 0, 0, 0, loc), HourMinute{9, 30}, HourMinute{17, 30}, loc)
	require.Equal(t, "2026-03-06T14:30:00.000Z", FormatAPI(before.StartUTC))
	require.Equal(t, "2026-03-09T13:30:00.000Z", FormatAPI(after.StartUTC))
}

func TestDayRange(t *testing.T) {
	loc := eastern(t)
	from, to := DayRange(time.Date(2026, 2, 4, 0, 0, 0, 0, loc), loc)
	require.Equal(t, "2026-02-04T05:00:00.000Z", FormatAPI(from))
	require.Equal(t, "2026-02-05T04:59:59.000Z", FormatAPI(to))
	require.True(t, from.Before(to))
}

func TestParseHourMinute(t *testing.T) {
	hm, ok := ParseHourMinute("09:30")
	require.True(t, ok)
	require.Equal(t, HourMinute{9, 30}, hm)
	require.Equal(t, "09:30", hm.String())

	for _, bad := range []string{"", "9", "9:3:1", "aa:bb", "24:00", "12:60", "-1:10"} {
		_, ok := ParseHourMinute(bad)
		require.False(t, ok, "input %q", bad)
	}
}

func TestParseAPI(t *testing.T) {
	ms, err := ParseAPI("2026-02-04T14:30:00.000Z")
	require.NoError(t, err)
	rfc, err := ParseAPI("2026-02-04T14:30:00Z")
	require.NoError(t, err)
	require.True(t, ms.Equal(rfc))

	_, err = ParseAPI("not-a-time")
	require.Error(t, err)
}
