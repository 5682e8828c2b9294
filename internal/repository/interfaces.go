package repository

import (
	"context"
	"time"

	"github.com/hamproductions/eventernote-report/internal/models"
)

// EventSnapshotRepository stores the last scraped event list of a user
type EventSnapshotRepository interface {
	// GetFresh returns the stored events of userID that have not expired at
	// now. found is false when no live snapshot exists.
	GetFresh(ctx context.Context, userID string, now time.Time) (events []models.EnhancedEvent, found bool, err error)
	// Replace swaps the snapshot of userID for events
	Replace(ctx context.Context, userID string, events []models.EnhancedEvent, expiresAt time.Time) error
}

// EventDetailsRepository stores scraped event pages
type EventDetailsRepository interface {
	// Get returns the stored details of href, or nil when missing or expired
	Get(ctx context.Context, href string, now time.Time) (*models.EventDetails, error)
	Save(ctx context.Context, href string, details models.EventDetails, expiresAt time.Time) error
}
