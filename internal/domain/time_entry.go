package domain

import "time"

// TimeEntry represents a Clockify time entry in the domain.
// An entry whose interval has no End is the user's running entry.
type TimeEntry struct {
	ID           string
	Description  string
	UserID       string
	Billable     bool
	ProjectID    *string
	Interval     TimeInterval
	WorkspaceID  string
	IsLocked     bool
	Tags         []Tag
	CustomFields []CustomField
}

// TimeInterval is the span covered by an entry.
type TimeInterval struct {
	Start    time.Time
	End      *time.Time
	Duration string // ISO-8601 duration as reported by the API, may be empty
}

type Tag struct {
	ID   string
	Name string
}

// CustomField holds the value as text. Non-string values keep their JSON
// form, e.g. 42 or ["a","b"].
type CustomField struct {
	CustomFieldID string
	Value         string
}

// Running reports whether the entry is still open.
func (e TimeEntry) Running() bool { return e.Interval.End == nil }

// Elapsed returns End-Start, or now-Start while the entry is running.
func (i TimeInterval) Elapsed(now time.Time) time.Duration {
	end := now
	if i.End != nil {
		end = *i.End
	}
	return end.Sub(i.Start)
}
