package service

import (
	"context"
	"sync"
	"time"

	"github.com/hamproductions/eventernote-report/internal/models"
)

// mockScraper is a mock implementation of Scraper for testing
type mockScraper struct {
	mu sync.Mutex

	events     []models.Event
	eventsErr  error
	details    map[string]models.EventDetails
	detailsErr error
	favorites  []models.FavoriteArtist

	eventCalls     int
	detailCalls    int
	favoriteCalls  int
	enrichCalls    int
	requestedLimit int
}

func (m *mockScraper) FetchAttendedEvents(ctx context.Context, userID string, limit int) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventCalls++
	m.requestedLimit = limit
	if m.eventsErr != nil {
		return nil, m.eventsErr
	}
	return m.events, nil
}

func (m *mockScraper) FetchEventDetails(ctx context.Context, href string) (models.EventDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detailCalls++
	if m.detailsErr != nil {
		return models.EventDetails{Artists: []string{}}, m.detailsErr
	}
	return m.details[href], nil
}

func (m *mockScraper) FetchFavoriteArtists(ctx context.Context, userID string) ([]models.FavoriteArtist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.favoriteCalls++
	return m.favorites, nil
}

func (m *mockScraper) EnrichWithDetails(ctx context.Context, events []models.Event) ([]models.EnhancedEvent, error) {
	m.mu.Lock()
	m.enrichCalls++
	m.mu.Unlock()

	enhanced, err := models.EnrichAll(events)
	for i := range enhanced {
		if d, ok := m.details[enhanced[i].Href]; ok {
			enhanced[i].Artists = d.Artists
			enhanced[i].Description = d.Description
		}
	}
	return enhanced, err
}

// mockSnapshotRepository is a mock implementation of EventSnapshotRepository
type mockSnapshotRepository struct {
	stored   map[string][]models.EnhancedEvent
	expires  map[string]time.Time
	getErr   error
	replaced int
}

func newMockSnapshotRepository() *mockSnapshotRepository {
	return &mockSnapshotRepository{
		stored:  make(map[string][]models.EnhancedEvent),
		expires: make(map[string]time.Time),
	}
}

func (m *mockSnapshotRepository) GetFresh(ctx context.Context, userID string, now time.Time) ([]models.EnhancedEvent, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	events, ok := m.stored[userID]
	if !ok || !m.expires[userID].After(now) {
		return nil, false, nil
	}
	return events, true, nil
}

func (m *mockSnapshotRepository) Replace(ctx context.Context, userID string, events []models.EnhancedEvent, expiresAt time.Time) error {
	m.replaced++
	m.stored[userID] = events
	m.expires[userID] = expiresAt
	return nil
}

// mockDetailsRepository is a mock implementation of EventDetailsRepository
type mockDetailsRepository struct {
	stored map[string]models.EventDetails
	saves  int
}

func newMockDetailsRepository() *mockDetailsRepository {
	return &mockDetailsRepository{stored: make(map[string]models.EventDetails)}
}

func (m *mockDetailsRepository) Get(ctx context.Context, href string, now time.Time) (*models.EventDetails, error) {
	if d, ok := m.stored[href]; ok {
		return &d, nil
	}
	return nil, nil
}

func (m *mockDetailsRepository) Save(ctx context.Context, href string, details models.EventDetails, expiresAt time.Time) error {
	m.saves++
	m.stored[href] = details
	return nil
}

// mockEventService serves a fixed event list to the stats service
type mockEventService struct {
	events []models.EnhancedEvent
	err    error
	calls  int
}

func (m *mockEventService) GetUserEvents(ctx context.Context, userID string, opts EventsOptions) (*models.EventsResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &models.EventsResult{Events: m.events, TotalCount: len(m.events)}, nil
}

func (m *mockEventService) GetEventDetails(ctx context.Context, eventID string) (*models.EventDetailsResult, error) {
	return nil, nil
}

func (m *mockEventService) GetFavoriteArtists(ctx context.Context, userID string) ([]models.FavoriteArtist, error) {
	return nil, nil
}

func sampleEvents() []models.Event {
	return []models.Event{
		{Href: "/events/3", Name: "Spring Live", Date: "2024-03-20 18:00", Place: "Zepp Haneda", Artists: []string{"Aqours", "Liella!"}},
		{Href: "/events/2", Name: "Winter Fes", Date: "2024-01-06", Place: "Budokan", Artists: []string{"Aqours"}},
		{Href: "/events/1", Name: "Online Talk", Date: "2023-11-11", Place: "!_Online", Artists: []string{"Liella!"}},
	}
}

func sampleEnhanced() []models.EnhancedEvent {
	events, err := models.EnrichAll(sampleEvents())
	if err != nil {
		panic(err)
	}
	return events
}
