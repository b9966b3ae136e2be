package refdate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayOfNormalizesAcrossZones(t *testing.T) {
	// 2026-03-10 20:00 UTC is 2026-03-11 05:00 KST.
	utc := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	kst := time.Date(2026, 3, 11, 5, 0, 0, 0, Location)

	assert.True(t, DayOf(utc).Equal(DayOf(kst)))
	assert.Equal(t, "2026-03-11", DayOf(utc).String())
}

func TestSameDayDifferentHours(t *testing.T) {
	morning := time.Date(2026, 3, 11, 1, 0, 0, 0, Location)
	night := time.Date(2026, 3, 11, 23, 59, 0, 0, Location)

	assert.True(t, DayOf(morning).Equal(DayOf(night)))
}

func TestParse(t *testing.T) {
	day, err := Parse("2026-12-25")
	assert.NoError(t, err)
	assert.Equal(t, "2026-12-25", day.String())
	assert.Equal(t, time.Friday, day.Weekday())

	_, err = Parse("not-a-date")
	assert.Error(t, err)
}

func TestOrdering(t *testing.T) {
	a, _ := Parse("2026-01-01")
	b, _ := Parse("2026-01-02")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Equal(b))
}

func TestAddDaysAndDaysUntil(t *testing.T) {
	a, _ := Parse("2026-01-28")
	b := a.AddDays(7)

	assert.Equal(t, "2026-02-04", b.String())
	assert.Equal(t, 7, a.DaysUntil(b))
	assert.Equal(t, -7, b.DaysUntil(a))
}

func TestIsWeekend(t *testing.T) {
	sat, _ := Parse("2026-03-14")
	sun, _ := Parse("2026-03-15")
	mon, _ := Parse("2026-03-16")

	assert.True(t, sat.IsWeekend())
	assert.True(t, sun.IsWeekend())
	assert.False(t, mon.IsWeekend())
}

func TestDayBounds(t *testing.T) {
	day, _ := Parse("2026-03-11")

	assert.Equal(t, "2026-03-11T00:00:00+09:00", day.StartOfDay().Format(time.RFC3339))
	assert.Equal(t, "2026-03-11T23:59:59+09:00", day.EndOfDay().Format(time.RFC3339))
	assert.Equal(t, 15, day.At(15).Hour())
}

func TestHourOf(t *testing.T) {
	// 05:30 UTC is 14:30 KST.
	assert.Equal(t, 14, HourOf(time.Date(2026, 3, 11, 5, 30, 0, 0, time.UTC)))
}
