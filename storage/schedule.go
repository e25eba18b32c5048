package storage

import (
	"errors"
	"os"
	"sync"

	"github.com/teampulse/dailybot/models"
	"github.com/teampulse/dailybot/utils"
)

// Validation errors surfaced to the configuration boundary. The stored
// document is never changed when one of these is returned.
var (
	ErrNoDays                 = errors.New("at least one weekday is required")
	ErrInvalidWeekday         = errors.New("invalid weekday name")
	ErrInvalidClock           = errors.New("hour must be 0-23 and minute 0-59")
	ErrReminderNotAfterPrompt = errors.New("reminder time must be later than the prompt time")
)

// ScheduleStore owns the singleton schedule document. Updates are rare and
// human triggered, so whole-document read-modify-write under one mutex with
// last-writer-wins is acceptable.
type ScheduleStore struct {
	path string
	mu   sync.Mutex
}

// NewScheduleStore creates a store backed by the given file path.
func NewScheduleStore(path string) *ScheduleStore {
	return &ScheduleStore{path: path}
}

// Get returns the current schedule. It never fails the caller: a missing or
// unparsable document is replaced with defaults, which are returned.
func (s *ScheduleStore) Get() models.ScheduleConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *ScheduleStore) loadLocked() models.ScheduleConfig {
	var sc models.ScheduleConfig
	err := readDocument(s.path, &sc)
	switch {
	case err == nil:
		return sc
	case errors.Is(err, errCorrupt):
		backupCorrupt(s.path)
	case errors.Is(err, os.ErrNotExist):
		// bootstrap below
	}
	def := models.DefaultSchedule()
	if werr := writeDocument(s.path, def); werr != nil {
		utils.Sugar.Errorf("failed to persist default schedule: %v", werr)
	}
	return def
}

// SetDays replaces the active weekdays. Names must be lowercase English
// weekdays and at least one is required.
func (s *ScheduleStore) SetDays(days []string) error {
	if len(days) == 0 {
		return ErrNoDays
	}
	for _, d := range days {
		if !models.ValidWeekday(d) {
			return ErrInvalidWeekday
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := s.loadLocked()
	sc.Days = models.SortDays(days)
	return writeDocument(s.path, sc)
}

// SetPromptTime updates the daily prompt time. When the reminder is enabled
// the prompt must stay strictly earlier in the day.
func (s *ScheduleStore) SetPromptTime(hour, minute int) error {
	if !models.ValidClock(hour, minute) {
		return ErrInvalidClock
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := s.loadLocked()
	if sc.ReminderEnabled && sc.ReminderHour*60+sc.ReminderMinute <= hour*60+minute {
		return ErrReminderNotAfterPrompt
	}
	sc.Hour = hour
	sc.Minute = minute
	return writeDocument(s.path, sc)
}

// SetReminder toggles the straggler reminder; hour and minute are optional and
// keep their stored values when nil. An enabled reminder must be strictly
// later in the day than the prompt.
func (s *ScheduleStore) SetReminder(enabled bool, hour, minute *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := s.loadLocked()
	h, m := sc.ReminderHour, sc.ReminderMinute
	if hour != nil {
		h = *hour
	}
	if minute != nil {
		m = *minute
	}
	if !models.ValidClock(h, m) {
		return ErrInvalidClock
	}
	if enabled && h*60+m <= sc.Hour*60+sc.Minute {
		return ErrReminderNotAfterPrompt
	}
	sc.ReminderEnabled = enabled
	sc.ReminderHour = h
	sc.ReminderMinute = m
	return writeDocument(s.path, sc)
}

// SetEnabled flips the master switch for all scheduled triggers.
func (s *ScheduleStore) SetEnabled(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := s.loadLocked()
	sc.Enabled = enabled
	return writeDocument(s.path, sc)
}
