package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/hamproductions/eventernote-report/internal/models"
)

// ev builds a raw event; the href is derived from date and place
func ev(date, place string, artists ...string) models.Event {
	return models.Event{
		Href:    fmt.Sprintf("/events/%s/%s", date, place),
		Name:    "Live at " + place,
		Date:    date,
		Place:   place,
		Artists: artists,
	}
}

func enrich(t *testing.T, raw ...models.Event) []models.EnhancedEvent {
	t.Helper()
	events := make([]models.EnhancedEvent, 0, len(raw))
	for _, e := range raw {
		enhanced, err := models.Enrich(e)
		if err != nil {
			t.Fatalf("Enrich(%+v) error = %v", e, err)
		}
		events = append(events, enhanced)
	}
	return events
}

// sampleEvents covers two weekends, one double-venue day and one sentinel venue
//
//	2024-01-06 Sat  Budokan [A B], Zepp [A]
//	2024-01-07 Sun  Budokan [C]
//	2024-01-10 Wed  !_Online [A]
//	2024-01-13 Sat  Arena [B]
func sampleEvents(t *testing.T) []models.EnhancedEvent {
	return enrich(t,
		ev("2024-01-06 15:00", "Budokan", "A", "B"),
		ev("2024-01-06 19:00", "Zepp", "A"),
		ev("2024-01-07", "Budokan", "C"),
		ev("2024-01-10", "!_Online", "A"),
		ev("2024-01-13", "Arena", "B"),
	)
}

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func reversed(events []models.EnhancedEvent) []models.EnhancedEvent {
	out := make([]models.EnhancedEvent, len(events))
	for i, e := range events {
		out[len(events)-1-i] = e
	}
	return out
}
