package analytics

import (
	"maps"
	"testing"

	"github.com/hamproductions/eventernote-report/internal/models"
)

func chartEvents(t *testing.T) []models.EnhancedEvent {
	return enrich(t,
		ev("2024-03-05", "Hall", "B", "C"),
		ev("2024-01-15", "Hall", "A", "B"),
		ev("2024-01-20", "Hall", "A"),
	)
}

func TestChartSeries_CumulativeCarriesForward(t *testing.T) {
	events := chartEvents(t)
	top := TopLists(events).TopArtists

	series := ChartSeries(events, top, 2)

	if len(series.DisplayedArtists) != 2 || series.DisplayedArtists[0] != "B" || series.DisplayedArtists[1] != "A" {
		t.Fatalf("DisplayedArtists = %v, want [B A]", series.DisplayedArtists)
	}

	want := []models.CumulativePoint{
		{Date: "2024-01", Counts: map[string]int{"A": 2, "B": 1}},
		{Date: "2024-02", Counts: map[string]int{"A": 2, "B": 1}},
		{Date: "2024-03", Counts: map[string]int{"A": 2, "B": 2}},
	}
	if len(series.CumulativeArtistData) != len(want) {
		t.Fatalf("CumulativeArtistData has %d points, want %d", len(series.CumulativeArtistData), len(want))
	}
	for i, w := range want {
		got := series.CumulativeArtistData[i]
		if got.Date != w.Date || !maps.Equal(got.Counts, w.Counts) {
			t.Errorf("point %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestChartSeries_FillsAcrossYears(t *testing.T) {
	events := enrich(t,
		ev("2023-11-03", "Hall", "A"),
		ev("2024-02-10", "Hall", "A"),
	)

	series := ChartSeries(events, TopLists(events).TopArtists, DefaultViewLimit)

	wantMonths := []string{"2023-11", "2023-12", "2024-01", "2024-02"}
	wantCounts := []int{1, 1, 1, 2}
	if len(series.CumulativeArtistData) != len(wantMonths) {
		t.Fatalf("CumulativeArtistData has %d points, want %d", len(series.CumulativeArtistData), len(wantMonths))
	}
	for i, point := range series.CumulativeArtistData {
		if point.Date != wantMonths[i] || point.Counts["A"] != wantCounts[i] {
			t.Errorf("point %d = %+v, want %s with A=%d", i, point, wantMonths[i], wantCounts[i])
		}
	}
}

func TestChartSeries_LimitIsClamped(t *testing.T) {
	events := chartEvents(t)
	top := TopLists(events).TopArtists

	tests := []struct {
		limit int
		want  int
	}{
		{-1, 0},
		{0, 0},
		{1, 1},
		{50, 3},
	}

	for _, tt := range tests {
		series := ChartSeries(events, top, tt.limit)
		if len(series.DisplayedArtists) != tt.want {
			t.Errorf("limit %d: %d displayed artists, want %d", tt.limit, len(series.DisplayedArtists), tt.want)
		}
		if len(series.CumulativeArtistData) != 3 {
			t.Errorf("limit %d: %d cumulative points, want 3", tt.limit, len(series.CumulativeArtistData))
		}
	}
}

func TestChartSeries_DateEventMap(t *testing.T) {
	events := enrich(t,
		ev("2024-01-15 13:00", "Hall"),
		ev("2024-01-15 18:00", "Arena"),
		ev("2024-01-17", "Hall"),
	)

	series := ChartSeries(events, nil, DefaultViewLimit)

	want := map[string]int{"2024-01-15": 2, "2024-01-17": 1}
	if !maps.Equal(series.DateEventMap, want) {
		t.Errorf("DateEventMap = %v, want %v", series.DateEventMap, want)
	}
}

func TestChartSeries_Empty(t *testing.T) {
	series := ChartSeries(nil, nil, DefaultViewLimit)

	if series.DisplayedArtists == nil || series.CumulativeArtistData == nil || series.DateEventMap == nil {
		t.Errorf("ChartSeries(nil) = %#v, want empty non-nil fields", series)
	}
	if len(series.CumulativeArtistData) != 0 || len(series.DateEventMap) != 0 {
		t.Errorf("ChartSeries(nil) = %+v, want empty", series)
	}
}
