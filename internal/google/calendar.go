package google

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"notioncal/internal/models"
)

// CalendarClient provides a client for interacting with the Google
// Calendar API on behalf of a service account.
type CalendarClient struct {
	service  *calendar.Service
	logger   *slog.Logger
	timezone string
}

// NewClient creates a new Google Calendar client from service account
// key JSON. The target calendars must be shared with the service
// account's email address.
func NewClient(ctx context.Context, logger *slog.Logger, credentialsJSON []byte, timezone string) (*CalendarClient, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	service, err := calendar.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &CalendarClient{service: service, logger: logger, timezone: timezone}, nil
}

// InsertEvent creates a new event on the given calendar and returns
// the id assigned by the service.
func (c *CalendarClient) InsertEvent(ctx context.Context, calendarID string, event *models.Event) (string, error) {
	created, err := c.service.Events.Insert(calendarID, c.toGoogleEvent(event)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}
	c.logger.Debug("Created calendar event", "calendarID", calendarID, "eventID", created.Id)
	return created.Id, nil
}

// UpdateEvent overwrites the event addressed by eventID.
func (c *CalendarClient) UpdateEvent(ctx context.Context, calendarID, eventID string, event *models.Event) error {
	if _, err := c.service.Events.Update(calendarID, eventID, c.toGoogleEvent(event)).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update event %s: %w", eventID, err)
	}
	c.logger.Debug("Updated calendar event", "calendarID", calendarID, "eventID", eventID)
	return nil
}

// toGoogleEvent converts the internal event model to the API body.
// Both endpoints carry the configured timezone alongside the RFC3339
// instant.
func (c *CalendarClient) toGoogleEvent(event *models.Event) *calendar.Event {
	return &calendar.Event{
		Summary:     event.Title,
		Description: event.Description,
		Start: &calendar.EventDateTime{
			DateTime: event.Start.Format(time.RFC3339),
			TimeZone: c.timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: event.End.Format(time.RFC3339),
			TimeZone: c.timezone,
		},
	}
}
