package models

import "time"

// Event represents a calendar event to be written to the target
// calendar. This is an internal representation, independent of any
// specific calendar provider.
type Event struct {
	Title       string    // summary shown on the calendar
	Description string    // body text, carries the backlink to the source task
	Start       time.Time // start of the event, timezone-qualified
	End         time.Time // end of the event, timezone-qualified
}
