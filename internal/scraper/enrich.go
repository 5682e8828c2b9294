package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/hamproductions/eventernote-report/internal/logger"
	"github.com/hamproductions/eventernote-report/internal/models"
)

// EnrichWithDetails fetches the page of every event and merges its artists,
// description and image into the enriched event. Pages are fetched in
// batches of Config.BatchSize with Config.BatchDelay between batches.
//
// An event whose page cannot be fetched keeps the artists of the list page.
// Events with unparseable dates are dropped and reported in the returned
// error; the other events are still returned.
func (c *Client) EnrichWithDetails(ctx context.Context, events []models.Event) ([]models.EnhancedEvent, error) {
	log := logger.Ctx(ctx)
	log.Info("Enriching events with details", logger.Int("events", len(events)))

	merged := make([]models.Event, len(events))
	copy(merged, events)
	extras := make([]models.EventDetails, len(events))

	size := c.cfg.BatchSize
	for start := 0; start < len(events); start += size {
		if start > 0 && c.cfg.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.cfg.BatchDelay):
			}
		}

		end := min(start+size, len(events))
		p := pool.New().WithMaxGoroutines(size)
		for i := start; i < end; i++ {
			p.Go(func() {
				details, err := c.FetchEventDetails(ctx, events[i].Href)
				if err != nil {
					log.Warn("Keeping list artists for event",
						logger.String("href", events[i].Href),
						logger.Err(err),
					)
					return
				}
				merged[i].Artists = details.Artists
				extras[i] = details
			})
		}
		p.Wait()

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log.Debug("Enrichment progress", logger.Int("done", end), logger.Int("total", len(events)))
	}

	enhanced := make([]models.EnhancedEvent, 0, len(merged))
	var errs []error
	for i, e := range merged {
		ee, err := models.Enrich(e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ee.Description = extras[i].Description
		ee.ImageURL = extras[i].ImageURL
		enhanced = append(enhanced, ee)
	}

	log.Info("Enrichment complete", logger.Int("events", len(enhanced)))

	return enhanced, errors.Join(errs...)
}
