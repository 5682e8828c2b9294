package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hamproductions/eventernote-report/internal/cache"
	"github.com/hamproductions/eventernote-report/internal/logger"
	"github.com/hamproductions/eventernote-report/internal/models"
	"github.com/hamproductions/eventernote-report/internal/repository"
	"github.com/hamproductions/eventernote-report/internal/scraper"
)

// EventServiceConfig holds the limits and lifetimes used by the event service
type EventServiceConfig struct {
	BaseURL      string
	EventLimit   int
	EventsTTL    time.Duration
	DetailsTTL   time.Duration
	FavoritesTTL time.Duration
	// SnapshotTTL is how long a persisted event list stays usable
	SnapshotTTL time.Duration
}

// eventList is what the events cache holds
type eventList struct {
	events    []models.EnhancedEvent
	fromStore bool
}

type eventService struct {
	cfg       EventServiceConfig
	scraper   Scraper
	snapshots repository.EventSnapshotRepository
	details   repository.EventDetailsRepository
	now       func() time.Time

	eventsCache    *cache.Cache[eventList]
	detailsCache   *cache.Cache[models.EventDetails]
	favoritesCache *cache.Cache[[]models.FavoriteArtist]
}

// NewEventService creates a new event service. snapshots and details may be
// nil, in which case nothing is persisted. Its caches live as long as the
// process.
func NewEventService(
	cfg EventServiceConfig,
	s Scraper,
	snapshots repository.EventSnapshotRepository,
	details repository.EventDetailsRepository,
	now func() time.Time,
) EventService {
	return newEventService(cfg, s, snapshots, details, now)
}

func newEventService(
	cfg EventServiceConfig,
	s Scraper,
	snapshots repository.EventSnapshotRepository,
	details repository.EventDetailsRepository,
	now func() time.Time,
) *eventService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = scraper.DefaultBaseURL
	}
	if cfg.EventLimit <= 0 {
		cfg.EventLimit = scraper.DefaultEventLimit
	}
	if now == nil {
		now = time.Now
	}

	return &eventService{
		cfg:            cfg,
		scraper:        s,
		snapshots:      snapshots,
		details:        details,
		now:            now,
		eventsCache:    cache.New[eventList]("events", cfg.EventsTTL),
		detailsCache:   cache.New[models.EventDetails]("event_details", cfg.DetailsTTL),
		favoritesCache: cache.New[[]models.FavoriteArtist]("favorite_artists", cfg.FavoritesTTL),
	}
}

// close stops the cache janitors
func (s *eventService) close() {
	s.eventsCache.Close()
	s.detailsCache.Close()
	s.favoritesCache.Close()
}

// GetUserEvents returns the attended events of userID, newest first. The
// list comes from memory, then the persisted snapshot, then Eventernote.
func (s *eventService) GetUserEvents(ctx context.Context, userID string, opts EventsOptions) (*models.EventsResult, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, err
	}

	key := "events:" + userID
	if opts.WithDetails {
		key += ":details"
	}

	list, cached, err := s.eventsCache.GetOrLoad(ctx, key, func(ctx context.Context) (eventList, error) {
		return s.loadEvents(ctx, userID, opts)
	})
	if err != nil {
		return nil, err
	}

	return &models.EventsResult{
		Events:     list.events,
		TotalCount: len(list.events),
		Cached:     cached || list.fromStore,
	}, nil
}

func (s *eventService) loadEvents(ctx context.Context, userID string, opts EventsOptions) (eventList, error) {
	log := logger.Ctx(ctx)

	// detailed lists are never persisted
	if s.snapshots != nil && !opts.WithDetails {
		events, found, err := s.snapshots.GetFresh(ctx, userID, s.now())
		switch {
		case err != nil:
			log.Warn("Reading event snapshot failed", logger.String("eventernote_user", userID), logger.Err(err))
		case found:
			log.Debug("Using persisted event snapshot", logger.String("eventernote_user", userID), logger.Int("events", len(events)))
			return eventList{events: events, fromStore: true}, nil
		}
	}

	raw, err := s.scraper.FetchAttendedEvents(ctx, userID, s.cfg.EventLimit)
	if err != nil {
		return eventList{}, err
	}

	var events []models.EnhancedEvent
	if opts.WithDetails {
		events, err = s.scraper.EnrichWithDetails(ctx, raw)
		if events == nil && err != nil {
			return eventList{}, err
		}
	} else {
		events, err = models.EnrichAll(raw)
	}
	if err != nil {
		log.Warn("Dropped events with unparseable dates",
			logger.String("eventernote_user", userID),
			logger.Int("kept", len(events)),
			logger.Err(err),
		)
	}

	if s.snapshots != nil && !opts.WithDetails {
		expires := s.now().Add(s.cfg.SnapshotTTL)
		if err := s.snapshots.Replace(ctx, userID, events, expires); err != nil {
			log.Warn("Persisting event snapshot failed", logger.String("eventernote_user", userID), logger.Err(err))
		}
	}

	return eventList{events: events}, nil
}

// GetEventDetails returns the scraped page of an event. A page that cannot
// be scraped yields empty details; only a missing page is an error.
func (s *eventService) GetEventDetails(ctx context.Context, eventID string) (*models.EventDetailsResult, error) {
	if err := ValidateEventID(eventID); err != nil {
		return nil, err
	}

	href := "/events/" + eventID
	details, _, err := s.detailsCache.GetOrLoad(ctx, "event:"+href, func(ctx context.Context) (models.EventDetails, error) {
		return s.loadDetails(ctx, href)
	})
	if err != nil {
		if errors.Is(err, scraper.ErrNotFound) || ctx.Err() != nil {
			return nil, err
		}
		logger.Ctx(ctx).Warn("Returning empty event details", logger.String("href", href), logger.Err(err))
		details = models.EventDetails{Artists: []string{}}
	}

	return &models.EventDetailsResult{
		ID:             eventID,
		Href:           href,
		EventDetails:   details,
		EventernoteURL: s.cfg.BaseURL + href,
	}, nil
}

func (s *eventService) loadDetails(ctx context.Context, href string) (models.EventDetails, error) {
	log := logger.Ctx(ctx)

	if s.details != nil {
		stored, err := s.details.Get(ctx, href, s.now())
		if err != nil {
			log.Warn("Reading stored event details failed", logger.String("href", href), logger.Err(err))
		} else if stored != nil {
			return *stored, nil
		}
	}

	details, err := s.scraper.FetchEventDetails(ctx, href)
	if err != nil {
		return details, err
	}

	if s.details != nil {
		if err := s.details.Save(ctx, href, details, s.now().Add(s.cfg.DetailsTTL)); err != nil {
			log.Warn("Persisting event details failed", logger.String("href", href), logger.Err(err))
		}
	}
	return details, nil
}

// GetFavoriteArtists returns the artists userID follows
func (s *eventService) GetFavoriteArtists(ctx context.Context, userID string) ([]models.FavoriteArtist, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, err
	}

	artists, _, err := s.favoritesCache.GetOrLoad(ctx, "favorite-artists:"+userID, func(ctx context.Context) ([]models.FavoriteArtist, error) {
		return s.scraper.FetchFavoriteArtists(ctx, userID)
	})
	if err != nil {
		return nil, fmt.Errorf("favorite artists of %s: %w", userID, err)
	}
	return artists, nil
}
