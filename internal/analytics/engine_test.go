package analytics

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/hamproductions/eventernote-report/internal/models"
)

func fixedClock(s string) func() time.Time {
	return func() time.Time { return day(s) }
}

func TestEngine_Comprehensive(t *testing.T) {
	engine := NewEngine(fixedClock("2024-01-14"))
	events := sampleEvents(t)

	result := engine.Comprehensive(events)

	if result.Basic.TotalEvents != len(events) {
		t.Errorf("Basic.TotalEvents = %d, want %d", result.Basic.TotalEvents, len(events))
	}
	if result.Temporal.BusiestMonth == nil || result.Temporal.BusiestMonth.Month != "2024-01" {
		t.Errorf("Temporal.BusiestMonth = %+v, want 2024-01", result.Temporal.BusiestMonth)
	}
	if !result.Streaks.Daily.IsActive {
		t.Error("expected an active daily streak with the fixed clock")
	}
	if len(result.TopLists.TopArtists) == 0 || result.TopLists.TopArtists[0].Artist != "A" {
		t.Errorf("TopArtists = %+v, want A first", result.TopLists.TopArtists)
	}
}

func TestEngine_Chart(t *testing.T) {
	engine := NewEngine(fixedClock("2024-01-14"))
	events := sampleEvents(t)

	result := engine.Chart(events, 2)

	if !reflect.DeepEqual(result.ComprehensiveAnalytics, engine.Comprehensive(events)) {
		t.Error("Chart should embed the comprehensive analytics unchanged")
	}
	if got := result.ChartSeries.DisplayedArtists; len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("DisplayedArtists = %v, want [A B]", got)
	}
	if result.Radar.WeekendWarrior != 100 {
		t.Errorf("Radar.WeekendWarrior = %v, want 100", result.Radar.WeekendWarrior)
	}
}

func TestEngine_JSONShape(t *testing.T) {
	engine := NewEngine(fixedClock("2024-01-14"))

	data, err := json.Marshal(engine.Chart(sampleEvents(t), DefaultViewLimit))
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	for _, key := range []string{"basic", "temporal", "activity", "streaks", "topLists", "radar", "chartSeries"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing top-level key %q in %s", key, data)
		}
	}
	if len(fields) != 7 {
		t.Errorf("got %d top-level keys, want 7", len(fields))
	}
}

func TestEngine_Idempotent(t *testing.T) {
	engine := NewEngine(fixedClock("2024-01-14"))
	events := sampleEvents(t)

	first := engine.Chart(events, DefaultViewLimit)
	second := engine.Chart(events, DefaultViewLimit)

	if !reflect.DeepEqual(first, second) {
		t.Error("two calls on the same input produced different results")
	}
}

func TestEngine_Properties(t *testing.T) {
	engine := NewEngine(fixedClock("2024-06-01"))
	fixtures := map[string][]models.EnhancedEvent{
		"sample": sampleEvents(t),
		"chart":  chartEvents(t),
		"single": enrich(t, ev("2024-01-06", "Hall")),
		"sentinel": enrich(t,
			ev("2024-01-01", "!_Unknown", "A", "B"),
			ev("2024-01-01", "!_Unknown", "A"),
		),
		"empty": nil,
	}

	for name, events := range fixtures {
		t.Run(name, func(t *testing.T) {
			r := engine.Comprehensive(events)
			if r.Basic.TotalEvents != len(events) {
				t.Errorf("TotalEvents = %d, want %d", r.Basic.TotalEvents, len(events))
			}
			if r.Basic.UniqueArtists > r.Basic.TotalArtistAppearances {
				t.Errorf("UniqueArtists %d > TotalArtistAppearances %d", r.Basic.UniqueArtists, r.Basic.TotalArtistAppearances)
			}
			w := r.Activity.WeekendStats
			if w.WeekendEventCount+w.WeekdayEventCount != len(events) {
				t.Errorf("weekend %d + weekday %d != %d", w.WeekendEventCount, w.WeekdayEventCount, len(events))
			}
			m := r.Activity.MultiEventDayStats
			if m.DaysWithMultipleEvents > m.TotalDaysWithEvents || m.TotalDaysWithEvents > r.Activity.UniqueDays {
				t.Errorf("expected %d <= %d <= %d", m.DaysWithMultipleEvents, m.TotalDaysWithEvents, r.Activity.UniqueDays)
			}
			if r.Streaks.Daily.LongestStreak < r.Streaks.Daily.CurrentStreak {
				t.Errorf("daily longest %d < current %d", r.Streaks.Daily.LongestStreak, r.Streaks.Daily.CurrentStreak)
			}
			if r.Streaks.Weekly.LongestStreak < r.Streaks.Weekly.CurrentStreak {
				t.Errorf("weekly longest %d < current %d", r.Streaks.Weekly.LongestStreak, r.Streaks.Weekly.CurrentStreak)
			}
		})
	}
}

func TestEngine_Empty(t *testing.T) {
	engine := NewEngine(nil)

	result := engine.Chart(nil, DefaultViewLimit)

	if result.Basic.TotalEvents != 0 || result.Temporal.AvgEventsPerMonth != "0" || result.Activity.DaysSpentPercentage != "0" {
		t.Errorf("unexpected empty baseline: %+v", result.ComprehensiveAnalytics)
	}
	if result.Streaks.Daily.LongestStreakStartDate.Valid {
		t.Error("expected null streak dates for empty input")
	}
	if result.Radar != (models.RadarStats{}) {
		t.Errorf("Radar = %+v, want zero value", result.Radar)
	}
	if len(result.ChartSeries.CumulativeArtistData) != 0 {
		t.Errorf("CumulativeArtistData = %+v, want empty", result.ChartSeries.CumulativeArtistData)
	}
}
