// Package analytics derives dashboard statistics from a user's attended events.
//
// Every function is pure: it reads the events it is given, allocates its own
// result and keeps no state between calls, so callers may run any of them
// concurrently. Events must come from models.Enrich; no function here parses
// dates or rejects input.
package analytics

import (
	"time"

	"github.com/hamproductions/eventernote-report/internal/models"
)

// DefaultViewLimit is the number of top artists drawn in charts when the
// caller does not choose one
const DefaultViewLimit = 10

// Engine composes the individual aggregators. Its only dependency is the
// clock used to decide whether streaks are still active.
type Engine struct {
	now func() time.Time
}

// NewEngine creates an engine reading the current time from now.
// A nil now uses time.Now.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Comprehensive computes the composite analytics record
func (e *Engine) Comprehensive(events []models.EnhancedEvent) models.ComprehensiveAnalytics {
	return models.ComprehensiveAnalytics{
		Basic:    BasicStats(events),
		Temporal: TemporalStats(events),
		Activity: ActivityStats(events),
		Streaks:  StreakStats(events, e.now()),
		TopLists: TopLists(events),
	}
}

// Chart computes the composite record plus the radar profile and the chart
// series for the top viewLimit artists
func (e *Engine) Chart(events []models.EnhancedEvent, viewLimit int) models.ChartAnalytics {
	base := e.Comprehensive(events)

	return models.ChartAnalytics{
		ComprehensiveAnalytics: base,
		Radar:                  RadarStats(events, base.Activity),
		ChartSeries:            ChartSeries(events, base.TopLists.TopArtists, viewLimit),
	}
}
