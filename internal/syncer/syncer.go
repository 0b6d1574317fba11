package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"notioncal/internal/models"
)

// statusCompleted marks tasks the sync ignores.
const statusCompleted = "Completed"

// TaskSource is the task database side of the sync. *notion.Client
// satisfies it.
type TaskSource interface {
	// QueryTasks returns one page of tasks and whether more results
	// were left unfetched.
	QueryTasks(ctx context.Context) ([]models.Task, bool, error)
	// DomainName resolves a domain reference to its display name.
	DomainName(ctx context.Context, ref string) (string, error)
	// MarkSynced records the created event id and sync time on the
	// source task.
	MarkSynced(ctx context.Context, pageID, eventID string, at time.Time) error
}

// Calendar is the event sink side of the sync. *google.CalendarClient
// satisfies it.
type Calendar interface {
	InsertEvent(ctx context.Context, calendarID string, event *models.Event) (string, error)
	UpdateEvent(ctx context.Context, calendarID, eventID string, event *models.Event) error
}

// Syncer orchestrates the one-way synchronization from the tasks
// database to the calendar service.
type Syncer struct {
	logger   *slog.Logger
	source   TaskSource
	calendar Calendar
	mapping  map[string]string // domain name -> calendar id, read-only
	location *time.Location
	dryRun   bool
	now      func() time.Time
}

// New creates a new Syncer.
func New(logger *slog.Logger, source TaskSource, cal Calendar, mapping map[string]string, loc *time.Location, dryRun bool) *Syncer {
	return &Syncer{
		logger:   logger,
		source:   source,
		calendar: cal,
		mapping:  mapping,
		location: loc,
		dryRun:   dryRun,
		now:      time.Now,
	}
}

// summary counts per-task outcomes of one pass.
type summary struct {
	created int
	updated int
	skipped int
	failed  int
}

// Sync performs a single sequential pass over one page of the tasks
// database. Per-task failures are reported and do not stop the pass;
// only a failure of the initial query is returned as an error.
func (s *Syncer) Sync(ctx context.Context) error {
	log := s.logger.With("run_id", uuid.NewString())
	log.Info("Starting sync pass.")

	tasks, truncated, err := s.source.QueryTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch tasks: %w", err)
	}
	if truncated {
		log.Warn("Task query returned more than one page; only the first page is synced.")
	}
	log.Info("Fetched tasks.", "count", len(tasks))

	var sum summary
	for _, task := range tasks {
		s.syncTask(ctx, log, task, &sum)
	}

	log.Info("Sync pass finished.",
		"created", sum.created, "updated", sum.updated,
		"skipped", sum.skipped, "failed", sum.failed)
	return nil
}

// syncTask runs one task through the pipeline: filter, resolve domain,
// map calendar, normalize dates, upsert, write back. Every early
// return before the upsert is a silent skip.
func (s *Syncer) syncTask(ctx context.Context, log *slog.Logger, task models.Task, sum *summary) {
	log = log.With("task", task.Name, "taskID", task.ID)

	if task.Status == statusCompleted || task.Due == nil {
		log.Debug("Skipping completed or undated task.")
		sum.skipped++
		return
	}

	if task.DomainRef == "" {
		log.Debug("Skipping task without a domain.")
		sum.skipped++
		return
	}
	domain, err := s.source.DomainName(ctx, task.DomainRef)
	if err != nil {
		log.Warn("Could not resolve domain, skipping task.", "error", err)
		sum.skipped++
		return
	}
	calendarID, ok := s.mapping[domain]
	if !ok {
		log.Debug("Domain has no mapped calendar, skipping task.", "domain", domain)
		sum.skipped++
		return
	}

	interval, err := task.Due.Normalize(s.location)
	if err != nil {
		log.Warn("Could not normalize due date, skipping task.", "error", err)
		sum.skipped++
		return
	}

	event := &models.Event{
		Title:       task.Name,
		Description: fmt.Sprintf("View in Notion: https://www.notion.so/%s", task.ID),
		Start:       interval.Start,
		End:         interval.End,
	}

	if task.EventID != "" {
		if s.dryRun {
			log.Info("[DRY RUN] Would update event.", "eventID", task.EventID, "calendarID", calendarID)
			return
		}
		if err := s.calendar.UpdateEvent(ctx, calendarID, task.EventID, event); err != nil {
			log.Error("Failed to update event.", "eventID", task.EventID, "error", err)
			sum.failed++
			return
		}
		// The update path does not refresh the last-synced timestamp
		// on the task; only freshly created events are written back.
		sum.updated++
		return
	}

	if s.dryRun {
		log.Info("[DRY RUN] Would create event.", "calendarID", calendarID, "start", interval.Start)
		return
	}
	eventID, err := s.calendar.InsertEvent(ctx, calendarID, event)
	if err != nil {
		log.Error("Failed to create event.", "error", err)
		sum.failed++
		return
	}
	sum.created++

	// The event exists remotely at this point; if the write-back fails
	// its id is not recorded on the task and the next pass will create
	// a duplicate.
	if err := s.source.MarkSynced(ctx, task.ID, eventID, s.now().UTC()); err != nil {
		log.Error("Event created but task write-back failed.", "eventID", eventID, "error", err)
		sum.failed++
	}
}
