package hotline

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestHotlineDateEncodeDecodeRoundTrip(t *testing.T) {
	d := HotlineDate{Year: 2026, DayOfYear: 45, MinuteOfDay: 600}
	got, err := decodeHotlineDate(d.Encode())
	assert.NilError(t, err)
	assert.DeepEqual(t, d, got)
}

func TestNewHotlineDateFromTimeRoundTrips(t *testing.T) {
	tm := time.Date(2026, time.March, 1, 10, 30, 0, 0, time.UTC)
	d := NewHotlineDate(tm)
	back := d.Time()
	assert.Equal(t, back.Year(), tm.Year())
	assert.Equal(t, back.YearDay(), tm.YearDay())
	assert.Equal(t, back.Hour(), tm.Hour())
	assert.Equal(t, back.Minute(), tm.Minute())
}

func TestDecodeHotlineDateRejectsShortData(t *testing.T) {
	_, err := decodeHotlineDate([]byte{0, 0, 0})
	assert.ErrorContains(t, err, "short")
}
