package usecase

import (
	"fmt"
	"time"

	"xbar-clockify/internal/domain"
)

const (
	colorWorking = "#FFFFFF"
	colorIdle    = "#777777"
	fullDayHours = 8
)

// Summary is today's tracked time as shown in the menu bar.
type Summary struct {
	IsWorking bool
	Worked    time.Duration
	Hours     int
	Minutes   int
	// ActiveStart is the start of today's running entry, if any.
	ActiveStart *time.Time
}

// Summarize totals the entries that started on now's calendar day, in now's
// location. Running entries count up to now.
func Summarize(entries []domain.TimeEntry, now time.Time) Summary {
	var s Summary
	y, m, d := now.Date()
	for _, e := range entries {
		ey, em, ed := e.Interval.Start.In(now.Location()).Date()
		if ey != y || em != m || ed != d {
			continue
		}
		if e.Running() {
			s.IsWorking = true
			if s.ActiveStart == nil {
				start := e.Interval.Start
				s.ActiveStart = &start
			}
		}
		s.Worked += e.Interval.Elapsed(now)
	}
	s.Hours = int(s.Worked / time.Hour)
	s.Minutes = int((s.Worked % time.Hour) / time.Minute)
	return s
}

// StatusText is the menu-bar title.
func (s Summary) StatusText() string {
	if s.IsWorking {
		if s.Hours < fullDayHours {
			return fmt.Sprintf("Working: %dh %dm 🟡", s.Hours, s.Minutes)
		}
		return fmt.Sprintf("Working: %dh %dm 🟢", s.Hours, s.Minutes)
	}
	switch {
	case s.Hours > fullDayHours:
		return fmt.Sprintf("Finished: %dh %dm 🟢", s.Hours, s.Minutes)
	case s.Hours > 0 || s.Minutes > 0:
		return fmt.Sprintf("Not working: %dh %dm", s.Hours, s.Minutes)
	default:
		return "Out of office"
	}
}

// Color is the menu-bar title color.
func (s Summary) Color() string {
	if s.IsWorking {
		return colorWorking
	}
	return colorIdle
}
