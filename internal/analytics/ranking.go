package analytics

import (
	"strconv"
	"time"

	"github.com/hamproductions/eventernote-report/internal/models"
)

// ArtistStats ranks every artist by number of attended events. Rank starts
// at 1; equal counts keep first-seen order.
func ArtistStats(events []models.EnhancedEvent) []models.ArtistStat {
	byArtist := newGrouping[string]()
	for _, e := range events {
		for _, artist := range e.Artists {
			byArtist.add(artist, e)
		}
	}

	stats := make([]models.ArtistStat, 0, len(byArtist.keys))
	for i, artist := range byArtist.ranked() {
		artistEvents := byArtist.items[artist]
		first, last := dateBounds(artistEvents)
		stats = append(stats, models.ArtistStat{
			ArtistName: artist,
			EventCount: len(artistEvents),
			Percentage: percent(len(artistEvents), len(events)),
			FirstSeen:  first,
			LastSeen:   last,
			Events:     artistEvents,
			Rank:       i + 1,
		})
	}
	return stats
}

// VenueStats ranks every physical venue by number of attended events
func VenueStats(events []models.EnhancedEvent) []models.VenueStat {
	byVenue := newGrouping[string]()
	for _, e := range events {
		if e.HasPhysicalVenue() {
			byVenue.add(e.Place, e)
		}
	}

	stats := make([]models.VenueStat, 0, len(byVenue.keys))
	for i, venue := range byVenue.ranked() {
		venueEvents := byVenue.items[venue]
		first, last := dateBounds(venueEvents)

		artists := make(map[string]struct{})
		for _, e := range venueEvents {
			for _, artist := range e.Artists {
				artists[artist] = struct{}{}
			}
		}

		stats = append(stats, models.VenueStat{
			VenueName:          venue,
			EventCount:         len(venueEvents),
			Percentage:         percent(len(venueEvents), len(events)),
			FirstVisit:         first,
			LastVisit:          last,
			UniqueArtistsCount: len(artists),
			Events:             venueEvents,
			Rank:               i + 1,
		})
	}
	return stats
}

func dateBounds(events []models.EnhancedEvent) (first, last time.Time) {
	for i, e := range events {
		if i == 0 || e.ParsedDate.Before(first) {
			first = e.ParsedDate
		}
		if i == 0 || e.ParsedDate.After(last) {
			last = e.ParsedDate
		}
	}
	return first, last
}

// BusiestDayOfWeek returns the weekday with the most events, or "N/A"
func BusiestDayOfWeek(events []models.EnhancedEvent) models.DayCount {
	days := newTally[string]()
	for _, e := range events {
		days.add(e.DayOfWeek)
	}
	day, count, ok := days.max()
	if !ok {
		return models.DayCount{Day: "N/A"}
	}
	return models.DayCount{Day: day, Count: count}
}

// BusiestMonth returns the "January 2024" style month with the most events,
// or "N/A"
func BusiestMonth(events []models.EnhancedEvent) models.MonthCount {
	months := newTally[string]()
	for _, e := range events {
		months.add(e.Month + " " + strconv.Itoa(e.Year))
	}
	month, count, ok := months.max()
	if !ok {
		return models.MonthCount{Month: "N/A"}
	}
	return models.MonthCount{Month: month, Count: count}
}

// Summary builds the dashboard overview card
func Summary(events []models.EnhancedEvent) models.ReportSummary {
	basic := BasicStats(events)
	summary := models.ReportSummary{
		TotalEvents:      basic.TotalEvents,
		UniqueArtists:    basic.UniqueArtists,
		UniqueVenues:     basic.UniqueVenues,
		BusiestMonth:     BusiestMonth(events),
		BusiestDayOfWeek: BusiestDayOfWeek(events),
	}
	if len(events) == 0 {
		return summary
	}

	months := newTally[string]()
	for _, e := range events {
		months.add(monthKey(e))
	}
	summary.AverageEventsPerMonth = round1(float64(len(events)) / float64(months.len()))

	first, last := dateBounds(events)
	first, last = calendarDay(first), calendarDay(last)
	summary.DateRange = models.DateRange{StartDate: &first, EndDate: &last}

	if artists := ArtistStats(events); len(artists) > 0 {
		summary.TopArtist = &artists[0]
	}
	if venues := VenueStats(events); len(venues) > 0 {
		summary.TopVenue = &venues[0]
	}
	return summary
}
