package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultScheduleShape(t *testing.T) {
	sc := DefaultSchedule()

	assert.True(t, sc.Enabled)
	assert.Equal(t, []string{"monday", "tuesday", "wednesday", "thursday", "friday"}, sc.Days)
	assert.Equal(t, 10, sc.Hour)
	assert.False(t, sc.ReminderEnabled)
	// The dormant reminder slot still sits after the prompt.
	assert.Greater(t, sc.ReminderHour*60+sc.ReminderMinute, sc.Hour*60+sc.Minute)
}

func TestActiveOn(t *testing.T) {
	sc := DefaultSchedule()

	assert.True(t, sc.ActiveOn(time.Wednesday))
	assert.False(t, sc.ActiveOn(time.Saturday))
	assert.False(t, sc.ActiveOn(time.Sunday))
}

func TestSortDays(t *testing.T) {
	got := SortDays([]string{"friday", "monday", "sunday", "wednesday"})
	assert.Equal(t, []string{"monday", "wednesday", "friday", "sunday"}, got)

	// Input slice left untouched.
	in := []string{"friday", "monday"}
	SortDays(in)
	assert.Equal(t, []string{"friday", "monday"}, in)
}

func TestValidWeekdayAndClock(t *testing.T) {
	assert.True(t, ValidWeekday("sunday"))
	assert.False(t, ValidWeekday("Monday"))
	assert.False(t, ValidWeekday("someday"))

	assert.True(t, ValidClock(0, 0))
	assert.True(t, ValidClock(23, 59))
	assert.False(t, ValidClock(24, 0))
	assert.False(t, ValidClock(-1, 30))
	assert.False(t, ValidClock(12, 60))
}
