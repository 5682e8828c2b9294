package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/hamproductions/eventernote-report/internal/models"
	"github.com/hamproductions/eventernote-report/pkg/supabase"
)

const cachedEventDetailsTable = "cached_event_details"

type cachedEventDetailsRow struct {
	ID          string    `json:"id,omitempty"`
	EventHref   string    `json:"event_href"`
	Artists     []string  `json:"artists"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url"`
	CachedAt    time.Time `json:"cached_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type eventDetailsRepository struct {
	client *supabase.Client
}

// NewEventDetailsRepository creates a repository over cached_event_details
func NewEventDetailsRepository(client *supabase.Client) EventDetailsRepository {
	return &eventDetailsRepository{client: client}
}

func (r *eventDetailsRepository) Get(ctx context.Context, href string, now time.Time) (*models.EventDetails, error) {
	body, err := r.client.Query(ctx, cachedEventDetailsTable, map[string]string{
		"select":     "*",
		"event_href": "eq." + href,
		"expires_at": "gt." + now.UTC().Format(time.RFC3339),
		"limit":      "1",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get cached event details: %w", err)
	}

	var rows []cachedEventDetailsRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached event details: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	details := &models.EventDetails{Artists: row.Artists}
	if details.Artists == nil {
		details.Artists = []string{}
	}
	if row.Description != nil {
		details.Description = *row.Description
	}
	if row.ImageURL != nil {
		details.ImageURL = *row.ImageURL
	}
	return details, nil
}

func (r *eventDetailsRepository) Save(ctx context.Context, href string, details models.EventDetails, expiresAt time.Time) error {
	row := cachedEventDetailsRow{
		EventHref:   href,
		Artists:     details.Artists,
		Description: optional(details.Description),
		ImageURL:    optional(details.ImageURL),
		CachedAt:    time.Now().UTC(),
		ExpiresAt:   expiresAt.UTC(),
	}
	if row.Artists == nil {
		row.Artists = []string{}
	}

	if _, err := r.client.Upsert(ctx, cachedEventDetailsTable, row, "event_href"); err != nil {
		return fmt.Errorf("failed to store event details: %w", err)
	}
	return nil
}
