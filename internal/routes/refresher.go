package routes

import (
	"context"
	"time"

	"github.com/lablabs/cloudflare-analytics/internal/cloudflare"
	"github.com/lablabs/cloudflare-analytics/internal/handlers"
	"github.com/lablabs/cloudflare-analytics/internal/logging"
	"github.com/lablabs/cloudflare-analytics/internal/metrics"
	"github.com/lablabs/cloudflare-analytics/internal/models"
)

// DefaultRefreshInterval is used when the configured interval is not positive.
const DefaultRefreshInterval = 300 * time.Second

// Source is the analytics service as the refresher uses it: DNS and plan are fetched
// once per refresh and handed to the aggregate queries.
type Source interface {
	handlers.Analytics
	TrafficsWith(ctx context.Context, start, end, planName string, inventory cloudflare.Inventory) (*models.AggregateResult, error)
	WebAnalyticsWith(ctx context.Context, start, end string, inventory cloudflare.Inventory) (*models.AggregateResult, error)
}

// Refresher periodically pulls analytics for one zone into the prometheus gauges.
type Refresher struct {
	svc       Source
	zoneID    string
	accountID string
	start     string
	end       string
}

// NewRefresher returns a refresher for zoneID. Web analytics are skipped when accountID is empty.
func NewRefresher(svc Source, zoneID, accountID, start, end string) *Refresher {
	return &Refresher{svc: svc, zoneID: zoneID, accountID: accountID, start: start, end: end}
}

// Run refreshes once, then on every tick until ctx is done.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// Refresh runs one sequential pass over DNS, plan, traffic and web analytics.
func (r *Refresher) Refresh(ctx context.Context) {
	started := time.Now()

	inventory := r.svc.DNSRecords(ctx)
	metrics.ObserveDNSRecords(r.zoneID, inventory)

	plan := r.svc.DomainPlan(ctx)
	metrics.ObservePlan(r.zoneID, plan)

	if agg, err := r.svc.TrafficsWith(ctx, r.start, r.end, plan, inventory); err != nil {
		r.failed("traffics", err)
	} else {
		metrics.ObserveTraffic(r.zoneID, agg)
	}

	if r.accountID != "" {
		if agg, err := r.svc.WebAnalyticsWith(ctx, r.start, r.end, inventory); err != nil {
			r.failed("web_analytics", err)
		} else {
			metrics.ObserveWebAnalytics(r.accountID, agg)
		}
	}

	logging.Info("Refresh done", map[string]interface{}{
		"zone_id":  r.zoneID,
		"records":  len(inventory),
		"plan":     plan,
		"duration": time.Since(started).String(),
	})
}

func (r *Refresher) failed(operation string, err error) {
	metrics.RefreshFailed(operation)
	logging.Error("Refresh failed", map[string]interface{}{
		"zone_id":   r.zoneID,
		"operation": operation,
		"error":     err.Error(),
	})
}
