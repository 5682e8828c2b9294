package analytics

import (
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/hamproductions/eventernote-report/internal/models"
)

// tally counts keys and remembers the order in which they were first seen.
// Ranking and max lookups resolve equal counts in favour of the earliest key.
type tally[K comparable] struct {
	keys   []K
	counts map[K]int
}

func newTally[K comparable]() *tally[K] {
	return &tally[K]{counts: make(map[K]int)}
}

func (t *tally[K]) add(key K) {
	if _, ok := t.counts[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.counts[key]++
}

func (t *tally[K]) len() int {
	return len(t.keys)
}

func (t *tally[K]) count(key K) int {
	return t.counts[key]
}

func (t *tally[K]) total() int {
	sum := 0
	for _, c := range t.counts {
		sum += c
	}
	return sum
}

// max returns the key with the highest count
func (t *tally[K]) max() (key K, count int, ok bool) {
	for _, k := range t.keys {
		if c := t.counts[k]; !ok || c > count {
			key, count, ok = k, c, true
		}
	}
	return key, count, ok
}

// ranked returns the keys by descending count
func (t *tally[K]) ranked() []K {
	keys := slices.Clone(t.keys)
	slices.SortStableFunc(keys, func(a, b K) int {
		return t.counts[b] - t.counts[a]
	})
	return keys
}

// grouping collects events under a key, keeping first-seen key order
type grouping[K comparable] struct {
	keys  []K
	items map[K][]models.EnhancedEvent
}

func newGrouping[K comparable]() *grouping[K] {
	return &grouping[K]{items: make(map[K][]models.EnhancedEvent)}
}

func (g *grouping[K]) add(key K, e models.EnhancedEvent) {
	if _, ok := g.items[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.items[key] = append(g.items[key], e)
}

// ranked returns the keys by descending group size
func (g *grouping[K]) ranked() []K {
	keys := slices.Clone(g.keys)
	slices.SortStableFunc(keys, func(a, b K) int {
		return len(g.items[b]) - len(g.items[a])
	})
	return keys
}

// =============================================================================
// Calendar helpers
// =============================================================================

const secondsPerDay = 24 * 60 * 60

// dayIndex is the number of days between the Unix epoch and a UTC midnight
func dayIndex(day time.Time) int {
	return int(day.Unix() / secondsPerDay)
}

// daysBetween returns the whole number of days from a to b
func daysBetween(a, b time.Time) int {
	return dayIndex(b) - dayIndex(a)
}

// weekIndex numbers ISO weeks consecutively. Two days share an index exactly
// when they share an ISO year and week number.
func weekIndex(day time.Time) int {
	monday := day.AddDate(0, 0, -isoWeekdayOffset(day))
	// 1970-01-05 was the first Monday after the epoch (day index 4)
	return (dayIndex(monday) - 4) / 7
}

// isoWeekdayOffset returns 0 for Monday through 6 for Sunday
func isoWeekdayOffset(day time.Time) int {
	return (int(day.Weekday()) + 6) % 7
}

// calendarDay truncates t to its calendar date, keeping the wall clock of t's
// location, and returns it at midnight UTC
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// eventDays returns the distinct calendar days of events, ascending
func eventDays(events []models.EnhancedEvent) []time.Time {
	seen := make(map[time.Time]struct{}, len(events))
	days := make([]time.Time, 0, len(events))
	for _, e := range events {
		d := e.Day()
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
	return days
}

// monthKey formats the "YYYY-MM" bucket of an event
func monthKey(e models.EnhancedEvent) string {
	return monthKeyOf(e.Year, e.ParsedDate.Month())
}

func monthKeyOf(year int, month time.Month) string {
	return strconv.Itoa(year) + "-" + twoDigits(int(month))
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// =============================================================================
// Number helpers
// =============================================================================

// percent returns part/whole*100, or 0 when whole is 0
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// fixed1 formats x with exactly one decimal
func fixed1(x float64) string {
	return strconv.FormatFloat(x, 'f', 1, 64)
}

// meanStdDev returns the mean and population standard deviation of values
func meanStdDev(values []float64) (mean, stdDev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))

	return mean, math.Sqrt(variance)
}
