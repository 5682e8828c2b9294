package analytics

import (
	"maps"
	"slices"
	"time"

	"github.com/hamproductions/eventernote-report/internal/models"
)

// ChartSeries builds the chart time series for the first limit artists of
// topArtists. limit is clamped to the number of available artists.
func ChartSeries(events []models.EnhancedEvent, topArtists []models.ArtistCount, limit int) models.ChartSeries {
	limit = max(0, min(limit, len(topArtists)))

	displayed := make([]string, 0, limit)
	for _, a := range topArtists[:limit] {
		displayed = append(displayed, a.Artist)
	}

	return models.ChartSeries{
		DisplayedArtists:     displayed,
		CumulativeArtistData: cumulativeArtistData(events, displayed),
		DateEventMap:         dateEventMap(events),
	}
}

// cumulativeArtistData returns, for every month from the first to the last
// event, the running number of events per displayed artist. Months without
// events repeat the previous month.
func cumulativeArtistData(events []models.EnhancedEvent, displayed []string) []models.CumulativePoint {
	if len(events) == 0 {
		return []models.CumulativePoint{}
	}

	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b models.EnhancedEvent) int {
		return a.ParsedDate.Compare(b.ParsedDate)
	})

	running := make(map[string]int, len(displayed))
	for _, artist := range displayed {
		running[artist] = 0
	}

	// last write per month wins
	snapshots := make(map[string]map[string]int)
	for _, e := range sorted {
		for _, artist := range e.Artists {
			if _, ok := running[artist]; ok {
				running[artist]++
			}
		}
		snapshots[monthKey(e)] = maps.Clone(running)
	}

	first, last := sorted[0].ParsedDate, sorted[len(sorted)-1].ParsedDate
	month := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, time.UTC)

	counts := make(map[string]int, len(displayed))
	for _, artist := range displayed {
		counts[artist] = 0
	}

	var points []models.CumulativePoint
	for ; !month.After(end); month = month.AddDate(0, 1, 0) {
		key := monthKeyOf(month.Year(), month.Month())
		if snapshot, ok := snapshots[key]; ok {
			counts = snapshot
		}
		points = append(points, models.CumulativePoint{Date: key, Counts: maps.Clone(counts)})
	}

	return points
}

// dateEventMap counts events per date key. Days without events are absent.
func dateEventMap(events []models.EnhancedEvent) map[string]int {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.DateKey()]++
	}
	return counts
}
