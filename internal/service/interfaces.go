package service

import (
	"context"
	"time"

	"github.com/hamproductions/eventernote-report/internal/analytics"
	"github.com/hamproductions/eventernote-report/internal/models"
)

// EventService defines the interface for fetching Eventernote data
type EventService interface {
	GetUserEvents(ctx context.Context, userID string, opts EventsOptions) (*models.EventsResult, error)
	GetEventDetails(ctx context.Context, eventID string) (*models.EventDetailsResult, error)
	GetFavoriteArtists(ctx context.Context, userID string) ([]models.FavoriteArtist, error)
}

// StatsService defines the interface for statistics over a user's events
type StatsService interface {
	GetArtistStats(ctx context.Context, userID string, q Query) (*models.ArtistStatsList, error)
	GetVenueStats(ctx context.Context, userID string, q Query) (*models.VenueStatsList, error)
	GetAnalytics(ctx context.Context, userID string, q Query) (*models.AnalyticsReport, error)
}

// Scraper is the part of the Eventernote scraper the services use
type Scraper interface {
	FetchAttendedEvents(ctx context.Context, userID string, limit int) ([]models.Event, error)
	FetchEventDetails(ctx context.Context, href string) (models.EventDetails, error)
	FetchFavoriteArtists(ctx context.Context, userID string) ([]models.FavoriteArtist, error)
	EnrichWithDetails(ctx context.Context, events []models.Event) ([]models.EnhancedEvent, error)
}

// EventsOptions tunes how a user's event list is fetched
type EventsOptions struct {
	// WithDetails also scrapes every event page for artists, description
	// and image
	WithDetails bool
}

// Query selects the events statistics are computed over
type Query struct {
	Preset    analytics.Preset
	StartDate *time.Time
	EndDate   *time.Time
	Filters   models.FilterState
	// Limit caps ranked lists (stats) or the artists drawn in charts
	// (analytics). Zero means the default.
	Limit int
}
