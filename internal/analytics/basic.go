package analytics

import (
	"github.com/hamproductions/eventernote-report/internal/models"
)

// BasicStats computes totals, unique counts and the date span of events.
// The span is taken from the smallest and largest date keys, so the result
// does not depend on the order of events.
func BasicStats(events []models.EnhancedEvent) models.BasicStats {
	stats := models.BasicStats{TotalEvents: len(events)}
	if len(events) == 0 {
		return stats
	}

	venues := make(map[string]struct{})
	artists := newTally[string]()
	earliest, latest := events[0].DateKey(), events[0].DateKey()

	for _, e := range events {
		if e.HasPhysicalVenue() {
			venues[e.Place] = struct{}{}
		}
		for _, artist := range e.Artists {
			artists.add(artist)
		}
		key := e.DateKey()
		earliest = min(earliest, key)
		latest = max(latest, key)
	}

	stats.UniqueVenues = len(venues)
	stats.UniqueArtists = artists.len()
	stats.TotalArtistAppearances = artists.total()
	stats.DateRange = models.StatsDateRange{Earliest: earliest, Latest: latest}

	return stats
}
