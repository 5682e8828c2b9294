package analytics

import (
	"time"

	"github.com/hamproductions/eventernote-report/internal/models"
)

// ActivityStats computes how densely the attended days cover the span between
// the first and last event, plus the weekend and multi-event day breakdowns.
func ActivityStats(events []models.EnhancedEvent) models.ActivityStats {
	if len(events) == 0 {
		return models.ActivityStats{
			DaysSpentPercentage: "0",
			YearsSinceFirst:     "0",
		}
	}

	days := eventDays(events)
	daysSinceFirst := daysBetween(days[0], days[len(days)-1])
	totalDaysInRange := daysSinceFirst + 1

	return models.ActivityStats{
		UniqueDays:          len(days),
		TotalDaysInRange:    totalDaysInRange,
		DaysSpentPercentage: fixed1(percent(len(days), totalDaysInRange)),
		YearsSinceFirst:     fixed1(float64(daysSinceFirst) / 365),
		DaysSinceFirst:      daysSinceFirst,
		WeekendStats:        WeekendStats(events),
		MultiEventDayStats:  MultiEventDayStats(events),
	}
}

// weekendKey maps a Saturday or Sunday to the Saturday of its weekend
func weekendKey(day time.Time) (time.Time, bool) {
	switch day.Weekday() {
	case time.Saturday:
		return day, true
	case time.Sunday:
		return day.AddDate(0, 0, -1), true
	default:
		return time.Time{}, false
	}
}

// WeekendStats counts the weekends between the first and last event day and
// how many of them, and how many events, fall on a weekend
func WeekendStats(events []models.EnhancedEvent) models.WeekendStats {
	if len(events) == 0 {
		return models.WeekendStats{}
	}

	days := eventDays(events)
	first, last := days[0], days[len(days)-1]

	weekends := make(map[time.Time]struct{})
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if key, ok := weekendKey(day); ok {
			weekends[key] = struct{}{}
		}
	}

	attended := make(map[time.Time]struct{})
	weekendEvents := 0
	for _, e := range events {
		if key, ok := weekendKey(e.Day()); ok {
			weekendEvents++
			attended[key] = struct{}{}
		}
	}
	weekdayEvents := len(events) - weekendEvents

	return models.WeekendStats{
		TotalWeekends:          len(weekends),
		WeekendsWithEvents:     len(attended),
		WeekendPercentage:      percent(len(attended), len(weekends)),
		WeekendEventCount:      weekendEvents,
		WeekendEventPercentage: percent(weekendEvents, len(events)),
		WeekdayEventCount:      weekdayEvents,
		WeekdayEventPercentage: percent(weekdayEvents, len(events)),
	}
}

// MultiEventDayStats finds days with several events and, among them, days
// spread over several physical venues. Percentages are relative to the number
// of days with at least one event.
func MultiEventDayStats(events []models.EnhancedEvent) models.MultiEventDayStats {
	if len(events) == 0 {
		return models.MultiEventDayStats{}
	}

	byDay := newGrouping[string]()
	for _, e := range events {
		byDay.add(e.DateKey(), e)
	}

	var stats models.MultiEventDayStats
	stats.TotalDaysWithEvents = len(byDay.keys)

	for _, key := range byDay.keys {
		dayEvents := byDay.items[key]
		day := dayEvents[0].Day()

		if len(dayEvents) > stats.MaxEventsInDay {
			stats.MaxEventsInDay = len(dayEvents)
			stats.MaxEventsInDayDate = models.DateOf(day)
		}
		if len(dayEvents) < 2 {
			continue
		}
		stats.DaysWithMultipleEvents++

		venues := make(map[string]struct{})
		for _, e := range dayEvents {
			if e.HasPhysicalVenue() {
				venues[e.Place] = struct{}{}
			}
		}
		if len(venues) > stats.MaxVenuesInDay {
			stats.MaxVenuesInDay = len(venues)
			stats.MaxVenuesInDayDate = models.DateOf(day)
		}
		if len(venues) > 1 {
			stats.DaysWithMultipleVenues++
		}
	}

	stats.DaysWithMultipleEventsPercentage = percent(stats.DaysWithMultipleEvents, stats.TotalDaysWithEvents)
	stats.DaysWithMultipleVenuesPercentage = percent(stats.DaysWithMultipleVenues, stats.TotalDaysWithEvents)

	return stats
}
