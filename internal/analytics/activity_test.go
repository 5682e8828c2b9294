package analytics

import (
	"math"
	"testing"

	"github.com/hamproductions/eventernote-report/internal/models"
)

func TestActivityStats(t *testing.T) {
	stats := ActivityStats(sampleEvents(t))

	if stats.UniqueDays != 4 {
		t.Errorf("UniqueDays = %d, want 4", stats.UniqueDays)
	}
	if stats.TotalDaysInRange != 8 {
		t.Errorf("TotalDaysInRange = %d, want 8", stats.TotalDaysInRange)
	}
	if stats.DaysSinceFirst != 7 {
		t.Errorf("DaysSinceFirst = %d, want 7", stats.DaysSinceFirst)
	}
	if stats.DaysSpentPercentage != "50.0" {
		t.Errorf("DaysSpentPercentage = %q, want %q", stats.DaysSpentPercentage, "50.0")
	}
	if stats.YearsSinceFirst != "0.0" {
		t.Errorf("YearsSinceFirst = %q, want %q", stats.YearsSinceFirst, "0.0")
	}
}

func TestActivityStats_Empty(t *testing.T) {
	stats := ActivityStats(nil)

	want := models.ActivityStats{DaysSpentPercentage: "0", YearsSinceFirst: "0"}
	if stats != want {
		t.Errorf("ActivityStats(nil) = %+v, want %+v", stats, want)
	}
}

func TestWeekendStats(t *testing.T) {
	tests := []struct {
		name   string
		events []models.Event
		want   models.WeekendStats
	}{
		{
			name:   "single saturday",
			events: []models.Event{ev("2024-01-06", "Budokan")},
			want: models.WeekendStats{
				TotalWeekends:          1,
				WeekendsWithEvents:     1,
				WeekendPercentage:      100,
				WeekendEventCount:      1,
				WeekendEventPercentage: 100,
			},
		},
		{
			name:   "single sunday maps to its saturday",
			events: []models.Event{ev("2024-01-07", "Budokan")},
			want: models.WeekendStats{
				TotalWeekends:          1,
				WeekendsWithEvents:     1,
				WeekendPercentage:      100,
				WeekendEventCount:      1,
				WeekendEventPercentage: 100,
			},
		},
		{
			name: "weekdays spanning one weekend",
			events: []models.Event{
				ev("2024-01-05", "A"), // Friday
				ev("2024-01-08", "B"), // Monday
			},
			want: models.WeekendStats{
				TotalWeekends:          1,
				WeekdayEventCount:      2,
				WeekdayEventPercentage: 100,
			},
		},
		{
			name: "two weekends, one attended twice",
			events: []models.Event{
				ev("2024-01-06", "A"),
				ev("2024-01-07", "B"),
				ev("2024-01-10", "C"),
				ev("2024-01-14", "D"),
			},
			want: models.WeekendStats{
				TotalWeekends:          2,
				WeekendsWithEvents:     2,
				WeekendPercentage:      100,
				WeekendEventCount:      3,
				WeekendEventPercentage: 75,
				WeekdayEventCount:      1,
				WeekdayEventPercentage: 25,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekendStats(enrich(t, tt.events...))
			if got != tt.want {
				t.Errorf("WeekendStats() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestWeekendStats_CountsAddUp(t *testing.T) {
	events := sampleEvents(t)
	stats := WeekendStats(events)

	if stats.WeekendEventCount+stats.WeekdayEventCount != len(events) {
		t.Errorf("weekend %d + weekday %d != %d events", stats.WeekendEventCount, stats.WeekdayEventCount, len(events))
	}
	if sum := stats.WeekendEventPercentage + stats.WeekdayEventPercentage; math.Abs(sum-100) > 1e-9 {
		t.Errorf("percentages sum to %v, want 100", sum)
	}
}

func TestMultiEventDayStats(t *testing.T) {
	stats := MultiEventDayStats(sampleEvents(t))

	if stats.TotalDaysWithEvents != 4 {
		t.Errorf("TotalDaysWithEvents = %d, want 4", stats.TotalDaysWithEvents)
	}
	if stats.DaysWithMultipleEvents != 1 || stats.DaysWithMultipleEventsPercentage != 25 {
		t.Errorf("multiple events = %d (%v%%), want 1 (25%%)", stats.DaysWithMultipleEvents, stats.DaysWithMultipleEventsPercentage)
	}
	if stats.DaysWithMultipleVenues != 1 || stats.DaysWithMultipleVenuesPercentage != 25 {
		t.Errorf("multiple venues = %d (%v%%), want 1 (25%%)", stats.DaysWithMultipleVenues, stats.DaysWithMultipleVenuesPercentage)
	}
	if stats.MaxEventsInDay != 2 || stats.MaxEventsInDayDate.String() != "2024-01-06" {
		t.Errorf("max events = %d on %s, want 2 on 2024-01-06", stats.MaxEventsInDay, stats.MaxEventsInDayDate)
	}
	if stats.MaxVenuesInDay != 2 || stats.MaxVenuesInDayDate.String() != "2024-01-06" {
		t.Errorf("max venues = %d on %s, want 2 on 2024-01-06", stats.MaxVenuesInDay, stats.MaxVenuesInDayDate)
	}
}

func TestMultiEventDayStats_SentinelVenueIsNotAVenue(t *testing.T) {
	events := enrich(t,
		ev("2024-02-01 13:00", "Budokan"),
		ev("2024-02-01 18:00", "!_Streaming"),
	)

	stats := MultiEventDayStats(events)
	if stats.DaysWithMultipleEvents != 1 {
		t.Errorf("DaysWithMultipleEvents = %d, want 1", stats.DaysWithMultipleEvents)
	}
	if stats.DaysWithMultipleVenues != 0 {
		t.Errorf("DaysWithMultipleVenues = %d, want 0", stats.DaysWithMultipleVenues)
	}
	if stats.MaxVenuesInDay != 1 {
		t.Errorf("MaxVenuesInDay = %d, want 1", stats.MaxVenuesInDay)
	}
}

func TestMultiEventDayStats_TiesKeepFirstDay(t *testing.T) {
	events := enrich(t,
		ev("2024-03-10", "A"),
		ev("2024-03-10", "B"),
		ev("2024-03-01", "C"),
		ev("2024-03-01", "D"),
	)

	stats := MultiEventDayStats(events)
	if got := stats.MaxEventsInDayDate.String(); got != "2024-03-10" {
		t.Errorf("MaxEventsInDayDate = %s, want first-seen 2024-03-10", got)
	}
	if got := stats.MaxVenuesInDayDate.String(); got != "2024-03-10" {
		t.Errorf("MaxVenuesInDayDate = %s, want first-seen 2024-03-10", got)
	}
}

func TestMultiEventDayStats_Empty(t *testing.T) {
	stats := MultiEventDayStats(nil)

	if stats != (models.MultiEventDayStats{}) {
		t.Errorf("MultiEventDayStats(nil) = %+v, want zero value", stats)
	}
	if stats.MaxEventsInDayDate.Valid || stats.MaxVenuesInDayDate.Valid {
		t.Error("expected null max dates for empty input")
	}
}
