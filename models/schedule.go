package models

import (
	"sort"
	"strings"
	"time"
)

// ScheduleConfig is the singleton scheduling document. Days holds lowercase
// English weekday names; times are wall-clock values in the configured zone.
type ScheduleConfig struct {
	Enabled         bool     `json:"enabled"`
	Days            []string `json:"days"`
	Hour            int      `json:"hour"`
	Minute          int      `json:"minute"`
	ReminderEnabled bool     `json:"reminder_enabled"`
	ReminderHour    int      `json:"reminder_hour"`
	ReminderMinute  int      `json:"reminder_minute"`
}

// DefaultSchedule returns the configuration written on first access:
// weekday prompts at 10:00, reminder off at its 14:00 default slot.
func DefaultSchedule() ScheduleConfig {
	return ScheduleConfig{
		Enabled:         true,
		Days:            []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		Hour:            10,
		Minute:          0,
		ReminderEnabled: false,
		ReminderHour:    14,
		ReminderMinute:  0,
	}
}

// ActiveOn reports whether the schedule covers the given weekday.
func (s ScheduleConfig) ActiveOn(day time.Weekday) bool {
	name := strings.ToLower(day.String())
	for _, d := range s.Days {
		if d == name {
			return true
		}
	}
	return false
}

var weekdayOrder = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// ValidWeekday reports whether name is a lowercase English weekday.
func ValidWeekday(name string) bool {
	for _, d := range weekdayOrder {
		if d == name {
			return true
		}
	}
	return false
}

// SortDays orders weekday names chronologically, Monday first.
func SortDays(days []string) []string {
	idx := func(d string) int {
		for i, name := range weekdayOrder {
			if name == d {
				return i
			}
		}
		return len(weekdayOrder)
	}
	out := make([]string, len(days))
	copy(out, days)
	sort.Slice(out, func(i, j int) bool { return idx(out[i]) < idx(out[j]) })
	return out
}

// ValidClock reports whether hour/minute form a valid time of day.
func ValidClock(hour, minute int) bool {
	return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
}
