package analytics

import (
	"slices"
	"strings"

	"github.com/hamproductions/eventernote-report/internal/models"
)

const (
	TopVenuesLimit    = 10
	TopArtistsLimit   = 10
	RecentEventsLimit = 20
)

// TopLists ranks venues and artists by event count and picks the most recent
// events. Equal counts keep the order in which the venue or artist was first
// seen. Sentinel venues never appear in TopVenues.
func TopLists(events []models.EnhancedEvent) models.TopLists {
	return models.TopLists{
		TopArtists:   topArtists(events, TopArtistsLimit),
		TopVenues:    topVenues(events, TopVenuesLimit),
		RecentEvents: recentEvents(events, RecentEventsLimit),
	}
}

func topVenues(events []models.EnhancedEvent, limit int) []models.VenueEvents {
	byVenue := newGrouping[string]()
	for _, e := range events {
		if e.HasPhysicalVenue() {
			byVenue.add(e.Place, e)
		}
	}

	ranked := byVenue.ranked()
	venues := make([]models.VenueEvents, 0, min(len(ranked), limit))
	for _, venue := range ranked[:min(len(ranked), limit)] {
		venueEvents := byVenue.items[venue]
		venues = append(venues, models.VenueEvents{
			Venue:  venue,
			Count:  len(venueEvents),
			Events: venueEvents,
		})
	}
	return venues
}

func topArtists(events []models.EnhancedEvent, limit int) []models.ArtistCount {
	counts := newTally[string]()
	for _, e := range events {
		for _, artist := range e.Artists {
			counts.add(artist)
		}
	}

	ranked := counts.ranked()
	artists := make([]models.ArtistCount, 0, min(len(ranked), limit))
	for _, artist := range ranked[:min(len(ranked), limit)] {
		artists = append(artists, models.ArtistCount{Artist: artist, Count: counts.count(artist)})
	}
	return artists
}

// recentEvents sorts by the raw date string, which orders ISO dates
// chronologically
func recentEvents(events []models.EnhancedEvent, limit int) []models.EnhancedEvent {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b models.EnhancedEvent) int {
		return strings.Compare(b.Date, a.Date)
	})
	if sorted == nil {
		return []models.EnhancedEvent{}
	}
	return sorted[:min(len(sorted), limit)]
}
