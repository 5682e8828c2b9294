package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/hamproductions/eventernote-report/internal/analytics"
	"github.com/hamproductions/eventernote-report/internal/logger"
	"github.com/hamproductions/eventernote-report/internal/models"
	"github.com/hamproductions/eventernote-report/internal/scraper"
	"github.com/hamproductions/eventernote-report/internal/service"
)

var reportCmd = &cobra.Command{
	Use:   "report [userId]",
	Short: "Print the analytics of a user as JSON",
	Long: `Compute the dashboard analytics of an Eventernote user and print them as
JSON. With --file, events are read from a JSON array of
{href, name, date, place, artists} objects instead of being scraped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

var reportOpts struct {
	file            string
	preset          string
	startDate       string
	endDate         string
	search          string
	artists         []string
	venues          []string
	multipleArtists bool
	limit           int
	pretty          bool
}

// fileUserID names the user of a report computed from a file
const fileUserID = "local"

func init() {
	f := reportCmd.Flags()
	f.StringVarP(&reportOpts.file, "file", "f", "", "Read events from a JSON file instead of Eventernote")
	f.StringVar(&reportOpts.preset, "preset", string(analytics.PresetAllTime), "Period: last_30_days, last_3_months, last_6_months, last_12_months, this_year, last_year, all_time")
	f.StringVar(&reportOpts.startDate, "start", "", "First day included (YYYY-MM-DD)")
	f.StringVar(&reportOpts.endDate, "end", "", "Last day included (YYYY-MM-DD)")
	f.StringVarP(&reportOpts.search, "query", "q", "", "Only events whose name, venue or artists contain this text")
	f.StringSliceVar(&reportOpts.artists, "artist", nil, "Only events featuring one of these artists")
	f.StringSliceVar(&reportOpts.venues, "venue", nil, "Only events at one of these venues")
	f.BoolVar(&reportOpts.multipleArtists, "multiple-artists", false, "Only events with two or more artists")
	f.IntVar(&reportOpts.limit, "limit", 0, "Artists drawn in the chart series (default from config)")
	f.BoolVar(&reportOpts.pretty, "pretty", false, "Indent the JSON output")
}

func runReport(cmd *cobra.Command, args []string) error {
	// stdout carries the report
	cfg, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	q, err := reportQuery()
	if err != nil {
		return err
	}

	var stats service.StatsService
	var userID string

	switch {
	case reportOpts.file != "":
		events, err := readEventsFile(reportOpts.file)
		if err != nil {
			return err
		}
		loc, err := cfg.Analytics.Location()
		if err != nil {
			return fmt.Errorf("analytics.timezone: %w", err)
		}
		now := func() time.Time { return time.Now().In(loc) }
		stats = newStats(cfg, &fileEvents{events: events}, now)
		userID = fileUserID
	case len(args) == 1:
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		stats = a.stats
		userID = args[0]
	default:
		return fmt.Errorf("either a user ID or --file is required")
	}

	ctx := logger.WithEventernoteUser(cmd.Context(), userID)
	report, err := stats.GetAnalytics(ctx, userID, q)
	if err != nil {
		return err
	}

	var out []byte
	if reportOpts.pretty {
		out, err = json.MarshalIndent(report, "", "  ")
	} else {
		out, err = json.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func reportQuery() (service.Query, error) {
	q := service.Query{
		Preset: analytics.Preset(reportOpts.preset),
		Limit:  reportOpts.limit,
		Filters: models.FilterState{
			SearchQuery:        reportOpts.search,
			SelectedArtists:    reportOpts.artists,
			SelectedVenues:     reportOpts.venues,
			HasMultipleArtists: reportOpts.multipleArtists,
		},
	}

	for _, p := range []struct {
		flag string
		raw  string
		dst  **time.Time
	}{
		{"--start", reportOpts.startDate, &q.StartDate},
		{"--end", reportOpts.endDate, &q.EndDate},
	} {
		if p.raw == "" {
			continue
		}
		d, err := time.Parse(models.DateLayout, p.raw)
		if err != nil {
			return q, fmt.Errorf("%s must be a date (YYYY-MM-DD): %w", p.flag, err)
		}
		*p.dst = &d
	}
	return q, nil
}

func readEventsFile(path string) ([]models.EnhancedEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []models.Event
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	events, err := models.EnrichAll(raw)
	if err != nil {
		logger.Warn("Skipped events with unparseable dates",
			logger.String("file", path),
			logger.Int("kept", len(events)),
			logger.Err(err),
		)
	}
	return events, nil
}

// fileEvents serves a fixed event list in place of Eventernote
type fileEvents struct {
	events []models.EnhancedEvent
}

func (f *fileEvents) GetUserEvents(ctx context.Context, userID string, opts service.EventsOptions) (*models.EventsResult, error) {
	return &models.EventsResult{Events: f.events, TotalCount: len(f.events)}, nil
}

func (f *fileEvents) GetEventDetails(ctx context.Context, eventID string) (*models.EventDetailsResult, error) {
	return nil, scraper.ErrNotFound
}

func (f *fileEvents) GetFavoriteArtists(ctx context.Context, userID string) ([]models.FavoriteArtist, error) {
	return nil, scraper.ErrNotFound
}
