package analytics

import (
	"slices"
	"strings"

	"github.com/hamproductions/eventernote-report/internal/models"
)

// TemporalStats groups events by month and weekday.
//
// AvgEventsPerMonth divides by the number of months that have at least one
// event, not by the number of calendar months spanned.
func TemporalStats(events []models.EnhancedEvent) models.TemporalStats {
	if len(events) == 0 {
		return models.TemporalStats{
			MonthlyBreakdown:  []models.MonthCount{},
			AvgEventsPerMonth: "0",
		}
	}

	months := newTally[string]()
	weekdays := newTally[string]()
	for _, e := range events {
		months.add(monthKey(e))
		weekdays.add(e.DayOfWeek)
	}

	breakdown := make([]models.MonthCount, 0, months.len())
	for _, key := range months.keys {
		breakdown = append(breakdown, models.MonthCount{Month: key, Count: months.count(key)})
	}
	slices.SortFunc(breakdown, func(a, b models.MonthCount) int {
		return strings.Compare(b.Month, a.Month)
	})

	stats := models.TemporalStats{
		MonthlyBreakdown:  breakdown,
		AvgEventsPerMonth: fixed1(float64(len(events)) / float64(max(months.len(), 1))),
	}
	if month, count, ok := months.max(); ok {
		stats.BusiestMonth = &models.MonthCount{Month: month, Count: count}
	}
	if day, count, ok := weekdays.max(); ok {
		stats.TopDayOfWeek = &models.DayCount{Day: day, Count: count}
	}

	return stats
}
