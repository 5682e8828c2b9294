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
	// heading of the favourite artists block of a profile page
	favoritesHeading = cascadia.MustCompile(`h2:contains("お気に入り声優/アーティスト")`)
	actorLinks       = cascadia.MustCompile(`a[href^="/actors/"]`)
)

// FetchFavoriteArtists returns the artists userID follows, in page order
func (c *Client) FetchFavoriteArtists(ctx context.Context, userID string) ([]models.FavoriteArtist, error) {
	doc, err := c.fetch(ctx, "favorite_artists", "/users/"+url.PathEscape(userID))
	if err != nil {
		return nil, fmt.Errorf("fetch favorite artists of %s: %w", userID, err)
	}

	artists := parseFavoriteArtists(doc)

	logger.Ctx(ctx).Info("Fetched favorite artists",
		logger.String("eventernote_user", userID),
		logger.Int("count", len(artists)),
	)

	return artists, nil
}

func parseFavoriteArtists(doc *html.Node) []models.FavoriteArtist {
	artists := []models.FavoriteArtist{}

	heading := favoritesHeading.MatchFirst(doc)
	if heading == nil || heading.Parent == nil {
		return artists
	}

	links := actorLinks.MatchAll(heading.Parent)

	seen := make(map[string]struct{}, len(links))
	for _, a := range links {
		name := text(a)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		artists = append(artists, models.FavoriteArtist{Name: name, Href: attr(a, "href")})
	}

	return artists
}
