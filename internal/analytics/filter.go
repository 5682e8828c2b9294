package analytics

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/hamproductions/eventernote-report/internal/models"
)

// Preset names a rolling or calendar period used by the dashboard
type Preset string

const (
	PresetLast30Days   Preset = "last_30_days"
	PresetLast3Months  Preset = "last_3_months"
	PresetLast6Months  Preset = "last_6_months"
	PresetLast12Months Preset = "last_12_months"
	PresetThisYear     Preset = "this_year"
	PresetLastYear     Preset = "last_year"
	PresetAllTime      Preset = "all_time"
)

// ErrUnknownPreset is returned for a preset name that is not defined
var ErrUnknownPreset = errors.New("unknown preset period")

// PresetRange returns the date range covered by preset as of now.
// PresetAllTime has both bounds open.
func PresetRange(preset Preset, now time.Time) (models.DateRange, error) {
	today := calendarDay(now)
	var start, end time.Time

	switch preset {
	case PresetLast30Days:
		start, end = today.AddDate(0, 0, -30), today
	case PresetLast3Months:
		start, end = today.AddDate(0, -3, 0), today
	case PresetLast6Months:
		start, end = today.AddDate(0, -6, 0), today
	case PresetLast12Months:
		start, end = today.AddDate(-1, 0, 0), today
	case PresetThisYear:
		start, end = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), today
	case PresetLastYear:
		start = time.Date(today.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(today.Year()-1, time.December, 31, 0, 0, 0, 0, time.UTC)
	case PresetAllTime:
		return models.DateRange{}, nil
	default:
		return models.DateRange{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}

	return models.DateRange{StartDate: &start, EndDate: &end}, nil
}

// FilterByDateRange keeps the events whose calendar date lies inside r,
// bounds included. Comparison is on date keys, so the time of day is ignored.
func FilterByDateRange(events []models.EnhancedEvent, r models.DateRange) []models.EnhancedEvent {
	if r.StartDate == nil && r.EndDate == nil {
		return events
	}

	var startKey, endKey string
	if r.StartDate != nil {
		startKey = r.StartDate.Format(models.DateLayout)
	}
	if r.EndDate != nil {
		endKey = r.EndDate.Format(models.DateLayout)
	}

	return filter(events, func(e models.EnhancedEvent) bool {
		key := e.Day().Format(models.DateLayout)
		if startKey != "" && key < startKey {
			return false
		}
		if endKey != "" && key > endKey {
			return false
		}
		return true
	})
}

// ApplyFilters keeps the events matching every active filter in f.
// The search query matches event name, venue or any artist, ignoring case.
// Selected artists match when the event features at least one of them.
func ApplyFilters(events []models.EnhancedEvent, f models.FilterState) []models.EnhancedEvent {
	query := strings.ToLower(strings.TrimSpace(f.SearchQuery))

	return filter(events, func(e models.EnhancedEvent) bool {
		if query != "" && !matchesQuery(e, query) {
			return false
		}
		if len(f.SelectedArtists) > 0 && !slices.ContainsFunc(e.Artists, func(a string) bool {
			return slices.Contains(f.SelectedArtists, a)
		}) {
			return false
		}
		if len(f.SelectedVenues) > 0 && !slices.Contains(f.SelectedVenues, e.Place) {
			return false
		}
		if f.HasMultipleArtists && len(e.Artists) < 2 {
			return false
		}
		return true
	})
}

func matchesQuery(e models.EnhancedEvent, query string) bool {
	if strings.Contains(strings.ToLower(e.Name), query) || strings.Contains(strings.ToLower(e.Place), query) {
		return true
	}
	return slices.ContainsFunc(e.Artists, func(a string) bool {
		return strings.Contains(strings.ToLower(a), query)
	})
}

func filter(events []models.EnhancedEvent, keep func(models.EnhancedEvent) bool) []models.EnhancedEvent {
	kept := make([]models.EnhancedEvent, 0, len(events))
	for _, e := range events {
		if keep(e) {
			kept = append(kept, e)
		}
	}
	return kept
}
