package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Task is the normalized view of one record in the tasks database.
// Zero-valued optional fields mean the property was absent or empty on
// the source page.
type Task struct {
	ID        string     // source page id
	Name      string     // task title, "Untitled" when the page has none
	Due       *DateRange // nil when the task has no due date
	Status    string     // select/status value, "" when unset
	DomainRef string     // id of the first related domain page
	EventID   string     // previously stored calendar event id
}

// DateRange holds the raw start/end values of a date property. Each
// value is either a date ("2024-05-01") or a datetime, with or without
// a UTC offset. Immutable once read.
type DateRange struct {
	Start string
	End   string
}

// Interval is a concrete, timezone-qualified start/end pair derived
// from a DateRange.
type Interval struct {
	Start time.Time
	End   time.Time
}

// ErrMissingStart is returned by Normalize when the range has no start
// value. A due date without a start cannot be placed on a calendar.
var ErrMissingStart = errors.New("date range has no start")

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// Normalize converts the range into concrete instants in loc.
//
// A date-only start is treated as midnight local time. A missing end
// turns the task into a one-day block (start + 24h). A date-only end
// means 23:59:59 local on that date, so the event visibly spans its
// last day instead of ending at the previous midnight. Datetime values
// are used verbatim; offset-less ones are interpreted in loc.
func (r DateRange) Normalize(loc *time.Location) (Interval, error) {
	if r.Start == "" {
		return Interval{}, ErrMissingStart
	}
	start, err := parseStamp(r.Start, loc)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid start %q: %w", r.Start, err)
	}

	if r.End == "" {
		return Interval{Start: start, End: start.Add(24 * time.Hour)}, nil
	}

	if !strings.Contains(r.End, "T") {
		day, err := time.ParseInLocation(dateLayout, r.End, loc)
		if err != nil {
			return Interval{}, fmt.Errorf("invalid end %q: %w", r.End, err)
		}
		return Interval{Start: start, End: day.Add(23*time.Hour + 59*time.Minute + 59*time.Second)}, nil
	}

	end, err := parseStamp(r.End, loc)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid end %q: %w", r.End, err)
	}
	return Interval{Start: start, End: end}, nil
}

// parseStamp parses a date or datetime string. Values carrying an
// offset keep it; naive values are placed in loc.
func parseStamp(s string, loc *time.Location) (time.Time, error) {
	if !strings.Contains(s, "T") {
		return time.ParseInLocation(dateLayout, s, loc)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dateTimeLayout, s, loc)
}
