package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hamproductions/eventernote-report/internal/config"
	"github.com/hamproductions/eventernote-report/internal/handlers"
	"github.com/hamproductions/eventernote-report/internal/logger"
	"github.com/hamproductions/eventernote-report/internal/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

const shutdownTimeout = 15 * time.Second

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	logger.Info("Starting eventreport API server",
		logger.String("env", cfg.Server.Env),
		logger.String("eventernote", cfg.Scraper.BaseURL),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newRouter(cfg, a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", logger.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func newRouter(cfg *config.Config, a *app) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	health := handlers.NewHealthHandler(cfg.Server.Env, a.now)
	router.GET("/health", health.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	eventHandler := handlers.NewEventHandler(a.events)
	statsHandler := handlers.NewStatsHandler(a.stats)
	analyticsHandler := handlers.NewAnalyticsHandler(a.stats)

	// API v1 routes
	v1 := router.Group("/api/v1")
	if cfg.Server.RateLimitPerMin > 0 {
		v1.Use(middleware.RateLimit(cfg.Server.RateLimitPerMin))
	}
	{
		v1.GET("/events/user/:userId", eventHandler.GetUserEvents)
		v1.GET("/events/:eventId", eventHandler.GetEvent)
		v1.GET("/favorite-artists/user/:userId", eventHandler.GetFavoriteArtists)

		v1.GET("/stats/artists/:userId", statsHandler.GetArtistStats)
		v1.GET("/stats/venues/:userId", statsHandler.GetVenueStats)

		v1.GET("/analytics/:userId", analyticsHandler.GetAnalytics)
	}

	return router
}
