package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hamproductions/eventernote-report/internal/analytics"
	"github.com/hamproductions/eventernote-report/internal/cache"
	"github.com/hamproductions/eventernote-report/internal/logger"
	"github.com/hamproductions/eventernote-report/internal/metrics"
	"github.com/hamproductions/eventernote-report/internal/models"
)

// DefaultStatsLimit caps ranked artist and venue lists
const DefaultStatsLimit = 1000

type statsService struct {
	events           EventService
	engine           *analytics.Engine
	now              func() time.Time
	defaultViewLimit int
	reports          *cache.Cache[models.AnalyticsReport]
}

// NewStatsService creates a new stats service over the events of events.
// now must return the time in the location presets are resolved in.
func NewStatsService(
	events EventService,
	engine *analytics.Engine,
	now func() time.Time,
	analyticsTTL time.Duration,
	defaultViewLimit int,
) StatsService {
	return newStatsService(events, engine, now, analyticsTTL, defaultViewLimit)
}

func newStatsService(
	events EventService,
	engine *analytics.Engine,
	now func() time.Time,
	analyticsTTL time.Duration,
	defaultViewLimit int,
) *statsService {
	if now == nil {
		now = time.Now
	}
	if engine == nil {
		engine = analytics.NewEngine(now)
	}
	if defaultViewLimit <= 0 {
		defaultViewLimit = analytics.DefaultViewLimit
	}

	return &statsService{
		events:           events,
		engine:           engine,
		now:              now,
		defaultViewLimit: defaultViewLimit,
		reports:          cache.New[models.AnalyticsReport]("analytics", analyticsTTL),
	}
}

// resolve loads the events of userID and narrows them to q. It returns the
// applied date range alongside.
func (s *statsService) resolve(ctx context.Context, userID string, q Query) ([]models.EnhancedEvent, models.DateRange, error) {
	preset := q.Preset
	if preset == "" {
		preset = analytics.PresetAllTime
	}
	r, err := analytics.PresetRange(preset, s.now())
	if err != nil {
		if errors.Is(err, analytics.ErrUnknownPreset) {
			return nil, models.DateRange{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
		}
		return nil, models.DateRange{}, err
	}

	if q.StartDate != nil {
		r.StartDate = q.StartDate
	}
	if q.EndDate != nil {
		r.EndDate = q.EndDate
	}
	if r.StartDate != nil && r.EndDate != nil && r.StartDate.After(*r.EndDate) {
		return nil, models.DateRange{}, fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidRange, r.StartDate.Format(models.DateLayout), r.EndDate.Format(models.DateLayout))
	}

	result, err := s.events.GetUserEvents(ctx, userID, EventsOptions{})
	if err != nil {
		return nil, models.DateRange{}, err
	}

	events := analytics.FilterByDateRange(result.Events, r)
	events = analytics.ApplyFilters(events, q.Filters)
	return events, r, nil
}

// GetArtistStats ranks the artists of userID's events
func (s *statsService) GetArtistStats(ctx context.Context, userID string, q Query) (*models.ArtistStatsList, error) {
	events, _, err := s.resolve(ctx, userID, q)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	stats := analytics.ArtistStats(events)
	metrics.RecordAnalytics("artists", len(events), time.Since(start))

	total := len(stats)
	stats = stats[:min(total, statsLimit(q.Limit))]
	for i := range stats {
		stats[i].Percentage = round2(stats[i].Percentage)
	}

	return &models.ArtistStatsList{Artists: stats, TotalCount: total}, nil
}

// GetVenueStats ranks the venues of userID's events
func (s *statsService) GetVenueStats(ctx context.Context, userID string, q Query) (*models.VenueStatsList, error) {
	events, _, err := s.resolve(ctx, userID, q)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	stats := analytics.VenueStats(events)
	metrics.RecordAnalytics("venues", len(events), time.Since(start))

	total := len(stats)
	stats = stats[:min(total, statsLimit(q.Limit))]
	for i := range stats {
		stats[i].Percentage = round2(stats[i].Percentage)
	}

	return &models.VenueStatsList{Venues: stats, TotalCount: total}, nil
}

// GetAnalytics computes the dashboard analytics of userID. Reports are
// cached per user and query.
func (s *statsService) GetAnalytics(ctx context.Context, userID string, q Query) (*models.AnalyticsReport, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, err
	}
	if q.Limit <= 0 {
		q.Limit = s.defaultViewLimit
	}

	key := cache.GenerateKey("analytics", struct {
		UserID string `json:"userId"`
		Query  Query  `json:"query"`
	}{userID, q})

	report, _, err := s.reports.GetOrLoad(ctx, key, func(ctx context.Context) (models.AnalyticsReport, error) {
		events, r, err := s.resolve(ctx, userID, q)
		if err != nil {
			return models.AnalyticsReport{}, err
		}

		start := time.Now()
		chart := s.engine.Chart(events, q.Limit)
		summary := analytics.Summary(events)
		elapsed := time.Since(start)
		metrics.RecordAnalytics("chart", len(events), elapsed)

		logger.Ctx(ctx).Debug("Computed analytics",
			logger.String("eventernote_user", userID),
			logger.Int("events", len(events)),
			logger.Duration("elapsed", elapsed),
		)

		return models.AnalyticsReport{
			UserID:     userID,
			DateRange:  r,
			Filters:    q.Filters,
			EventCount: len(events),
			Analytics:  chart,
			Summary:    summary,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func statsLimit(limit int) int {
	if limit <= 0 {
		return DefaultStatsLimit
	}
	return limit
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
