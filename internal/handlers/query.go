package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hamproductions/eventernote-report/internal/analytics"
	"github.com/hamproductions/eventernote-report/internal/apierror"
	"github.com/hamproductions/eventernote-report/internal/models"
	"github.com/hamproductions/eventernote-report/internal/service"
)

const maxLimit = 1000

// parseQuery reads the period, filter and limit parameters shared by the
// stats and analytics endpoints. All problems are reported at once.
//
// Query params:
//   - preset: named period (default all_time)
//   - startDate, endDate: YYYY-MM-DD or RFC3339, override the preset bounds
//   - q: search in event name, venue and artists
//   - artist, venue: repeatable selections
//   - multipleArtists: only events with two or more artists
//   - limit: 1..1000
func parseQuery(c *gin.Context) (service.Query, []apierror.FieldError) {
	var q service.Query
	var fieldErrors []apierror.FieldError

	q.Preset = analytics.Preset(c.Query("preset"))

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"startDate", &q.StartDate},
		{"endDate", &q.EndDate},
	} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		d, err := parseDate(raw)
		if err != nil {
			fieldErrors = append(fieldErrors, apierror.FieldError{
				Field:   p.name,
				Message: "must be a date (YYYY-MM-DD)",
				Code:    "invalid_format",
			})
			continue
		}
		*p.dst = &d
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxLimit {
			fieldErrors = append(fieldErrors, apierror.FieldError{
				Field:   "limit",
				Message: "must be an integer between 1 and 1000",
				Code:    "out_of_range",
			})
		} else {
			q.Limit = limit
		}
	}

	multiple, err := optionalBool(c, "multipleArtists")
	if err != nil {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field:   "multipleArtists",
			Message: "must be a boolean value",
			Code:    "invalid_type",
		})
	}

	q.Filters = models.FilterState{
		SearchQuery:        strings.TrimSpace(c.Query("q")),
		SelectedArtists:    nonEmpty(c.QueryArray("artist")),
		SelectedVenues:     nonEmpty(c.QueryArray("venue")),
		HasMultipleArtists: multiple,
	}

	return q, fieldErrors
}

// parseDate accepts a date key or a full RFC3339 timestamp, keeping only the
// calendar date
func parseDate(raw string) (time.Time, error) {
	if d, err := time.Parse(models.DateLayout, raw); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

func optionalBool(c *gin.Context, name string) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
