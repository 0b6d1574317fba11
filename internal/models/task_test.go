package models

import (
	"errors"
	"testing"
	"time"
)

func mustLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("could not load timezone: %v", err)
	}
	return loc
}

func TestNormalize(t *testing.T) {
	loc := mustLocation(t)

	tests := []struct {
		name      string
		r         DateRange
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "date only becomes a one-day block",
			r:         DateRange{Start: "2024-05-01"},
			wantStart: time.Date(2024, 5, 1, 0, 0, 0, 0, loc),
			wantEnd:   time.Date(2024, 5, 2, 0, 0, 0, 0, loc),
		},
		{
			name:      "date end becomes end of day",
			r:         DateRange{Start: "2024-05-01", End: "2024-05-03"},
			wantStart: time.Date(2024, 5, 1, 0, 0, 0, 0, loc),
			wantEnd:   time.Date(2024, 5, 3, 23, 59, 59, 0, loc),
		},
		{
			name:      "datetime range passes through verbatim",
			r:         DateRange{Start: "2024-05-01T09:00:00", End: "2024-05-01T10:00:00"},
			wantStart: time.Date(2024, 5, 1, 9, 0, 0, 0, loc),
			wantEnd:   time.Date(2024, 5, 1, 10, 0, 0, 0, loc),
		},
		{
			name:      "datetimes with offsets keep their instant",
			r:         DateRange{Start: "2024-05-01T09:00:00-04:00", End: "2024-05-01T10:30:00-04:00"},
			wantStart: time.Date(2024, 5, 1, 9, 0, 0, 0, loc),
			wantEnd:   time.Date(2024, 5, 1, 10, 30, 0, 0, loc),
		},
		{
			name:      "datetime start with no end still gets 24 hours",
			r:         DateRange{Start: "2024-05-01T09:00:00"},
			wantStart: time.Date(2024, 5, 1, 9, 0, 0, 0, loc),
			wantEnd:   time.Date(2024, 5, 2, 9, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.r.Normalize(loc)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if !got.Start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", got.Start, tt.wantStart)
			}
			if !got.End.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", got.End, tt.wantEnd)
			}
		})
	}
}

func TestNormalizeMissingStart(t *testing.T) {
	loc := mustLocation(t)

	_, err := DateRange{End: "2024-05-03"}.Normalize(loc)
	if !errors.Is(err, ErrMissingStart) {
		t.Errorf("expected ErrMissingStart, got %v", err)
	}
}

func TestNormalizeMalformedValues(t *testing.T) {
	loc := mustLocation(t)

	if _, err := (DateRange{Start: "yesterday"}).Normalize(loc); err == nil {
		t.Error("expected error for malformed start")
	}
	if _, err := (DateRange{Start: "2024-05-01", End: "soon"}).Normalize(loc); err == nil {
		t.Error("expected error for malformed end")
	}
}
