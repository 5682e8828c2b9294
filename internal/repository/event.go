package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/hamproductions/eventernote-report/internal/models"
	"github.com/hamproductions/eventernote-report/pkg/supabase"
)

const cachedEventsTable = "cached_events"

// snapshotPageSize matches the default PostgREST max_rows of a Supabase
// project. It must not exceed the server's max_rows.
const snapshotPageSize = 1000

// cachedEventRow is a row of cached_events
type cachedEventRow struct {
	ID                string    `json:"id"`
	EventernoteUserID string    `json:"eventernote_user_id"`
	EventHref         string    `json:"event_href"`
	EventName         string    `json:"event_name"`
	EventDate         string    `json:"event_date"`
	Place             string    `json:"place"`
	Artists           []string  `json:"artists"`
	Description       *string   `json:"description"`
	ImageURL          *string   `json:"image_url"`
	CachedAt          time.Time `json:"cached_at"`
	ExpiresAt         time.Time `json:"expires_at"`
}

type eventSnapshotRepository struct {
	client   *supabase.Client
	pageSize int
}

// NewEventSnapshotRepository creates a repository over the cached_events table
func NewEventSnapshotRepository(client *supabase.Client) EventSnapshotRepository {
	return &eventSnapshotRepository{client: client, pageSize: snapshotPageSize}
}

// GetFresh reads the unexpired snapshot of a user page by page, since
// PostgREST caps every response at max_rows.
func (r *eventSnapshotRepository) GetFresh(ctx context.Context, userID string, now time.Time) ([]models.EnhancedEvent, bool, error) {
	var rows []cachedEventRow
	for offset := 0; ; offset += r.pageSize {
		page, err := r.getPage(ctx, userID, now, offset)
		if err != nil {
			return nil, false, err
		}
		rows = append(rows, page...)
		if len(page) < r.pageSize {
			break
		}
	}
	if len(rows) == 0 {
		return nil, false, nil
	}

	events := make([]models.EnhancedEvent, 0, len(rows))
	for _, row := range rows {
		e, err := models.Enrich(models.Event{
			Href:    row.EventHref,
			Name:    row.EventName,
			Date:    row.EventDate,
			Place:   row.Place,
			Artists: row.Artists,
		})
		if err != nil {
			// rows are written from enriched events; a bad one means the table was edited
			return nil, false, fmt.Errorf("cached event %s: %w", row.EventHref, err)
		}
		if row.Description != nil {
			e.Description = *row.Description
		}
		if row.ImageURL != nil {
			e.ImageURL = *row.ImageURL
		}
		events = append(events, e)
	}

	return events, true, nil
}

func (r *eventSnapshotRepository) getPage(ctx context.Context, userID string, now time.Time, offset int) ([]cachedEventRow, error) {
	query := map[string]string{
		"select":              "*",
		"eventernote_user_id": "eq." + userID,
		"expires_at":          "gt." + now.UTC().Format(time.RFC3339),
		"order":               "event_date.desc,event_href.asc",
		"limit":               strconv.Itoa(r.pageSize),
		"offset":              strconv.Itoa(offset),
	}

	body, err := r.client.Query(ctx, cachedEventsTable, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get cached events: %w", err)
	}

	var rows []cachedEventRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached events: %w", err)
	}
	return rows, nil
}

func (r *eventSnapshotRepository) Replace(ctx context.Context, userID string, events []models.EnhancedEvent, expiresAt time.Time) error {
	if err := r.client.DeleteWhere(ctx, cachedEventsTable, map[string]string{
		"eventernote_user_id": "eq." + userID,
	}); err != nil {
		return fmt.Errorf("failed to clear cached events: %w", err)
	}

	if len(events) == 0 {
		return nil
	}

	now := time.Now().UTC()
	// PostgREST requires all objects to have identical keys for batch insert
	rows := make([]cachedEventRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, cachedEventRow{
			ID:                uuid.NewString(),
			EventernoteUserID: userID,
			EventHref:         e.Href,
			EventName:         e.Name,
			EventDate:         e.Date,
			Place:             e.Place,
			Artists:           e.Artists,
			Description:       optional(e.Description),
			ImageURL:          optional(e.ImageURL),
			CachedAt:          now,
			ExpiresAt:         expiresAt.UTC(),
		})
	}

	if _, err := r.client.Insert(ctx, cachedEventsTable, rows); err != nil {
		return fmt.Errorf("failed to store cached events: %w", err)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
