package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SentinelVenuePrefix marks a placeholder venue that is not a physical place.
// Such venues count as events but never as venues.
const SentinelVenuePrefix = "!_"

// DateLayout is the layout of a date key (calendar date without time)
const DateLayout = "2006-01-02"

// dateTimeLayout is the optional long form of an event date
const dateTimeLayout = "2006-01-02 15:04"

// ErrInvalidDate is returned when an event date cannot be parsed
var ErrInvalidDate = errors.New("invalid event date")

// Event represents an attended event as listed on Eventernote
type Event struct {
	Href    string   `json:"href"`
	Name    string   `json:"name"`
	Date    string   `json:"date"` // "YYYY-MM-DD" or "YYYY-MM-DD HH:MM"
	Place   string   `json:"place"`
	Artists []string `json:"artists"`
}

// EnhancedEvent is an Event with calendar fields derived once at ingestion.
// Aggregators treat the derived fields as given and never recompute them.
type EnhancedEvent struct {
	Event
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	ParsedDate  time.Time `json:"parsedDate"`
	DayOfWeek   string    `json:"dayOfWeek"` // "Monday", "Tuesday", ...
	Month       string    `json:"month"`     // "January", "February", ...
	Year        int       `json:"year"`
}

// DateKey returns the calendar date of the event as "YYYY-MM-DD"
func (e EnhancedEvent) DateKey() string {
	return DateKeyOf(e.Date)
}

// Day returns the calendar date of the event at midnight UTC
func (e EnhancedEvent) Day() time.Time {
	return time.Date(e.ParsedDate.Year(), e.ParsedDate.Month(), e.ParsedDate.Day(), 0, 0, 0, 0, time.UTC)
}

// HasPhysicalVenue reports whether the event's place is a real venue
func (e EnhancedEvent) HasPhysicalVenue() bool {
	return !IsSentinelVenue(e.Place)
}

// IsSentinelVenue reports whether place is a placeholder venue name
func IsSentinelVenue(place string) bool {
	return strings.HasPrefix(place, SentinelVenuePrefix)
}

// DateKeyOf strips any time component from a raw event date
func DateKeyOf(date string) string {
	if i := strings.IndexByte(date, ' '); i >= 0 {
		return date[:i]
	}
	return date
}

// ParseDay parses a "YYYY-MM-DD" key into midnight UTC
func ParseDay(key string) (time.Time, error) {
	t, err := time.Parse(DateLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, key)
	}
	return t, nil
}

// Enrich derives the calendar fields of an event. It is the only place where
// ParsedDate, DayOfWeek, Month and Year are computed.
func Enrich(e Event) (EnhancedEvent, error) {
	raw := strings.TrimSpace(e.Date)

	parsed, err := time.Parse(dateTimeLayout, raw)
	if err != nil {
		parsed, err = time.Parse(DateLayout, DateKeyOf(raw))
		if err != nil {
			return EnhancedEvent{}, fmt.Errorf("%w: %q for event %s", ErrInvalidDate, e.Date, e.Href)
		}
	}

	e.Date = raw
	if e.Artists == nil {
		e.Artists = []string{}
	}

	return EnhancedEvent{
		Event:      e,
		ParsedDate: parsed,
		DayOfWeek:  parsed.Weekday().String(),
		Month:      parsed.Month().String(),
		Year:       parsed.Year(),
	}, nil
}

// EnrichAll enriches every event, skipping the ones whose date cannot be
// parsed. The skipped events are reported through the returned error, which
// joins one error per rejected event.
func EnrichAll(events []Event) ([]EnhancedEvent, error) {
	enhanced := make([]EnhancedEvent, 0, len(events))
	var errs []error

	for _, e := range events {
		ee, err := Enrich(e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		enhanced = append(enhanced, ee)
	}

	return enhanced, errors.Join(errs...)
}

// EventDetails holds the data scraped from a single event page
type EventDetails struct {
	Artists     []string `json:"artists"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// FavoriteArtist is an artist a user follows on Eventernote
type FavoriteArtist struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

// EventsResult is the payload returned for a user's event list
type EventsResult struct {
	Events     []EnhancedEvent `json:"events"`
	TotalCount int             `json:"totalCount"`
	Cached     bool            `json:"cached"`
}

// DateRange bounds an event list by calendar date. A nil bound is open.
type DateRange struct {
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

// FilterState holds the dashboard filters applied before aggregation
type FilterState struct {
	SearchQuery        string   `json:"searchQuery"`
	SelectedArtists    []string `json:"selectedArtists"`
	SelectedVenues     []string `json:"selectedVenues"`
	HasMultipleArtists bool     `json:"hasMultipleArtists"`
}

// EventDetailsResult is the payload returned for a single event page
type EventDetailsResult struct {
	ID   string `json:"id"`
	Href string `json:"href"`
	EventDetails
	EventernoteURL string `json:"eventernoteUrl"`
}
