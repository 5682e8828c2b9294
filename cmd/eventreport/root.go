package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hamproductions/eventernote-report/internal/analytics"
	"github.com/hamproductions/eventernote-report/internal/config"
	"github.com/hamproductions/eventernote-report/internal/logger"
	"github.com/hamproductions/eventernote-report/internal/repository"
	"github.com/hamproductions/eventernote-report/internal/scraper"
	"github.com/hamproductions/eventernote-report/internal/service"
	"github.com/hamproductions/eventernote-report/pkg/supabase"
)

var rootCmd = &cobra.Command{
	Use:   "eventreport",
	Short: "Eventernote attendance analytics",
	Long: `Scrapes the attended events of an Eventernote user and computes
attendance statistics, streaks, rankings and chart series.`,
	SilenceUsage: true,
}

var (
	logLevel string
	envFile  string
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides config)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional file of environment variables")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
}

// setup loads the configuration and installs the default logger writing to out.
// Variables from the env file never override the real environment.
func setup(out io.Writer) (*config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger.SetDefault(logger.NewSlogLogger(logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: out,
	}))
	return cfg, nil
}

// app holds the services shared by every command
type app struct {
	events service.EventService
	stats  service.StatsService
	now    func() time.Time
}

func newApp(cfg *config.Config) (*app, error) {
	loc, err := cfg.Analytics.Location()
	if err != nil {
		return nil, fmt.Errorf("analytics.timezone: %w", err)
	}
	now := func() time.Time { return time.Now().In(loc) }

	scr := scraper.New(scraper.Config{
		BaseURL:          cfg.Scraper.BaseURL,
		UserAgent:        cfg.Scraper.UserAgent,
		Timeout:          cfg.Scraper.Timeout,
		BatchSize:        cfg.Scraper.BatchSize,
		BatchDelay:       cfg.Scraper.BatchDelay,
		BreakerThreshold: cfg.Scraper.BreakerThreshold,
		BreakerTimeout:   cfg.Scraper.BreakerTimeout,
	})

	var snapshots repository.EventSnapshotRepository
	var details repository.EventDetailsRepository
	if cfg.Supabase.Enabled() {
		client := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
		snapshots = repository.NewEventSnapshotRepository(client)
		details = repository.NewEventDetailsRepository(client)
		logger.Info("Supabase persistence enabled", logger.String("url", cfg.Supabase.URL))
	}

	events := service.NewEventService(service.EventServiceConfig{
		BaseURL:      cfg.Scraper.BaseURL,
		EventLimit:   cfg.Scraper.EventLimit,
		EventsTTL:    cfg.Cache.EventsTTL,
		DetailsTTL:   cfg.Cache.DetailsTTL,
		FavoritesTTL: cfg.Cache.FavoritesTTL,
		SnapshotTTL:  cfg.Supabase.SnapshotTTL,
	}, scr, snapshots, details, now)

	return &app{
		events: events,
		stats:  newStats(cfg, events, now),
		now:    now,
	}, nil
}

func newStats(cfg *config.Config, events service.EventService, now func() time.Time) service.StatsService {
	return service.NewStatsService(events, analytics.NewEngine(now), now, cfg.Cache.AnalyticsTTL, cfg.Analytics.DefaultViewLimit)
}
