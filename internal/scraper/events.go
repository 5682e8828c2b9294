package scraper

import (
	"context"
	"fmt"
	"net/url"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/hamproductions/eventernote-report/internal/logger"
	"github.com/hamproductions/eventernote-report/internal/models"
)

var (
	eventListItems = cascadia.MustCompile("body > div.container > div.row > div.span8.page > div.gb_event_list.clearfix > ul > li")
	eventLink      = cascadia.MustCompile("div.event > h4 > a")
	eventDate      = cascadia.MustCompile("div.date > p")
	eventPlace     = cascadia.MustCompile("div.place > a")
	eventArtists   = cascadia.MustCompile("div.event > div.actor > ul > li > a")
)

// FetchAttendedEvents returns the events userID marked as attended, newest
// first as listed by Eventernote. A limit <= 0 means DefaultEventLimit.
func (c *Client) FetchAttendedEvents(ctx context.Context, userID string, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}

	path := fmt.Sprintf("/users/%s/events?limit=%d", url.PathEscape(userID), limit)
	doc, err := c.fetch(ctx, "user_events", path)
	if err != nil {
		return nil, fmt.Errorf("fetch events of %s: %w", userID, err)
	}

	events := parseEventList(doc)

	logger.Ctx(ctx).Info("Fetched attended events",
		logger.String("eventernote_user", userID),
		logger.Int("count", len(events)),
	)

	return events, nil
}

// parseEventList extracts the events of a user event list page. Items
// missing a link, date or place are skipped.
func parseEventList(doc *html.Node) []models.Event {
	items := eventListItems.MatchAll(doc)
	events := make([]models.Event, 0, len(items))

	for _, li := range items {
		link := eventLink.MatchFirst(li)
		date := eventDate.MatchFirst(li)
		place := eventPlace.MatchFirst(li)
		if link == nil || date == nil || place == nil {
			continue
		}

		e := models.Event{
			Href:    attr(link, "href"),
			Name:    text(link),
			Date:    text(date),
			Place:   text(place),
			Artists: texts(eventArtists.MatchAll(li)),
		}
		if e.Href == "" || e.Name == "" || e.Date == "" || e.Place == "" {
			continue
		}
		events = append(events, e)
	}

	return events
}
