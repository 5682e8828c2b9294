package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/hamproductions/eventernote-report/internal/logger"
	"github.com/hamproductions/eventernote-report/internal/models"
)

var (
	detailArtists     = cascadia.MustCompile("div.event > div.actor > ul > li > a")
	detailDescription = cascadia.MustCompile(`[class*="description"]`)
	detailImage       = cascadia.MustCompile(`.event-image, .event-photo, img[class*="event"]`)
)

// FetchEventDetails scrapes the event page at href (e.g. "/events/123456").
// On error the returned details are empty but usable.
func (c *Client) FetchEventDetails(ctx context.Context, href string) (models.EventDetails, error) {
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}

	doc, err := c.fetch(ctx, "event_details", href)
	if err != nil {
		return models.EventDetails{Artists: []string{}}, fmt.Errorf("fetch event %s: %w", href, err)
	}

	details := parseEventDetails(doc)

	logger.Ctx(ctx).Debug("Scraped event details",
		logger.String("href", href),
		logger.Int("artists", len(details.Artists)),
	)

	return details, nil
}

func parseEventDetails(doc *html.Node) models.EventDetails {
	details := models.EventDetails{
		Artists: dedupe(texts(detailArtists.MatchAll(doc))),
	}

	if n := detailDescription.MatchFirst(doc); n != nil {
		details.Description = text(n)
	}

	if n := detailImage.MatchFirst(doc); n != nil {
		details.ImageURL = attr(n, "src")
		if details.ImageURL == "" {
			details.ImageURL = attr(n, "data-src")
		}
	}

	return details
}

// dedupe keeps the first occurrence of every value
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
