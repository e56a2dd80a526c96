package routes

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lablabs/cloudflare-analytics/internal/handlers"
	"github.com/lablabs/cloudflare-analytics/internal/logging"
	"github.com/lablabs/cloudflare-analytics/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

// Config holds the serve mode settings.
type Config struct {
	Listen          string
	MetricsPath     string
	RefreshInterval time.Duration
	MetricsDenylist []string

	// Start and End bound the refreshed window; empty means the full retention window.
	Start string
	End   string
}

// NewRouter wires health, metrics and the analytics API.
func NewRouter(svc handlers.Analytics, g prometheus.Gatherer, metricsPath string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.ErrorHandler())

	r.GET(metricsPath, metrics.Handler(g))
	r.GET("/health", handlers.HealthCheck)

	h := handlers.NewAnalyticsHandler(svc)
	api := r.Group("/api/v1")
	api.GET("/dns", h.DNSRecords)
	api.GET("/plan", h.Plan)
	api.GET("/traffics", h.Traffics)
	api.GET("/web-analytics", h.WebAnalytics)

	return r
}

// RunExporter registers the metrics, starts the periodic refresher and serves until ctx is
// done, then shuts the server down gracefully.
func RunExporter(ctx context.Context, svc Source, zoneID, accountID string, cfg Config) error {
	logging.Info("Starting analytics exporter", map[string]interface{}{
		"zone_id":          zoneID,
		"listen":           cfg.Listen,
		"refresh_interval": cfg.RefreshInterval.String(),
	})

	deniedMetricsSet, err := metrics.BuildDeniedMetricsSet(cfg.MetricsDenylist)
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	metrics.MustRegisterMetrics(reg, deniedMetricsSet)
	logging.Info("Metrics registered successfully", map[string]interface{}{"metricsDenylist": cfg.MetricsDenylist})

	r := NewRouter(svc, reg, cfg.MetricsPath)
	logging.Info("Endpoints registered", map[string]interface{}{
		"metrics_path": cfg.MetricsPath,
		"health":       "/health",
		"api":          "/api/v1",
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	refresher := NewRefresher(svc, zoneID, accountID, cfg.Start, cfg.End)
	go refresher.Run(ctx, cfg.RefreshInterval)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logging.Info("Beginning to serve", map[string]interface{}{"listen": cfg.Listen})
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logging.Info("Shutting down", map[string]interface{}{"listen": cfg.Listen})
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
