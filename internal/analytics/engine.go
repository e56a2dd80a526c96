package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/gammazero/workerpool"

	"github.com/lablabs/cloudflare-analytics/internal/cloudflare"
	"github.com/lablabs/cloudflare-analytics/internal/logging"
	"github.com/lablabs/cloudflare-analytics/internal/models"
)

const dateLayout = "2006-01-02"

// Traffics aggregates eyeball HTML traffic per date and host for the zone: a success pass
// (status 200) fills page views, requests and bytes, a failure pass (status 500) fills
// error counts. Empty start/end default to the full retention window ending now.
func (s *Service) Traffics(ctx context.Context, start, end string) (*models.AggregateResult, error) {
	w, err := ValidateWindow(start, end, s.opts.Now())
	if err != nil {
		return nil, err
	}

	planName := s.DomainPlan(ctx)
	return s.traffics(ctx, w, planName, s.DNSRecords(ctx))
}

// TrafficsWith is Traffics for a caller that already holds the zone's plan name and
// DNS inventory; no REST lookups are made.
func (s *Service) TrafficsWith(ctx context.Context, start, end, planName string, inventory cloudflare.Inventory) (*models.AggregateResult, error) {
	w, err := ValidateWindow(start, end, s.opts.Now())
	if err != nil {
		return nil, err
	}
	return s.traffics(ctx, w, planName, inventory)
}

func (s *Service) traffics(ctx context.Context, w Window, planName string, inventory cloudflare.Inventory) (*models.AggregateResult, error) {
	hosts := inventory.Hostnames()

	success, err := ZoneTrafficQuery(s.scope, planName, w, hosts, statusSuccess, s.opts.StrictPlan)
	if err != nil {
		return nil, err
	}
	failure, err := ZoneTrafficQuery(s.scope, planName, w, hosts, statusFailure, s.opts.StrictPlan)
	if err != nil {
		return nil, err
	}

	logging.Info("Fetching zone traffic", map[string]interface{}{
		"zone_id":    s.scope.ZoneID(),
		"plan":       planName,
		"hosts":      len(hosts),
		"time_range": fmt.Sprintf("%s - %s", w.Start, w.End),
	})

	var ok, failed models.CloudflareResponseZoneTraffic
	if err := s.runPasses(ctx, pass{success, &ok}, pass{failure, &failed}); err != nil {
		return nil, err
	}

	agg := models.NewAggregateResult()
	if err := mergeTrafficSuccess(agg, &ok, inventory); err != nil {
		return nil, err
	}
	if err := mergeTrafficFailure(agg, &failed, inventory); err != nil {
		return nil, err
	}

	logging.Info("Successfully fetched zone traffic", map[string]interface{}{
		"zone_id":      s.scope.ZoneID(),
		"dates":        len(agg.ByDate),
		"observations": agg.Len(),
	})
	return agg, nil
}

// WebAnalytics aggregates browser page-load events per date and host for the account,
// restricted to the zone's hostnames. It is available on every plan.
func (s *Service) WebAnalytics(ctx context.Context, start, end string) (*models.AggregateResult, error) {
	w, err := s.webWindow(start, end)
	if err != nil {
		return nil, err
	}
	return s.webAnalytics(ctx, w, s.DNSRecords(ctx))
}

// WebAnalyticsWith is WebAnalytics over an already fetched DNS inventory.
func (s *Service) WebAnalyticsWith(ctx context.Context, start, end string, inventory cloudflare.Inventory) (*models.AggregateResult, error) {
	w, err := s.webWindow(start, end)
	if err != nil {
		return nil, err
	}
	return s.webAnalytics(ctx, w, inventory)
}

func (s *Service) webWindow(start, end string) (Window, error) {
	if err := s.scope.RequireAccount(); err != nil {
		return Window{}, err
	}
	return ValidateWindow(start, end, s.opts.Now())
}

func (s *Service) webAnalytics(ctx context.Context, w Window, inventory cloudflare.Inventory) (*models.AggregateResult, error) {
	query := AccountPageLoadQuery(s.scope, w, inventory.Hostnames())

	var resp models.CloudflareResponseAccountPageLoad
	if err := s.runPasses(ctx, pass{query, &resp}); err != nil {
		return nil, err
	}

	agg := models.NewAggregateResult()
	if err := mergePageLoads(agg, &resp, inventory); err != nil {
		return nil, err
	}

	logging.Info("Successfully fetched web analytics", map[string]interface{}{
		"account_id":   s.scope.AccountID(),
		"dates":        len(agg.ByDate),
		"observations": agg.Len(),
	})
	return agg, nil
}

type pass struct {
	query    Query
	response interface{}
}

// runPasses issues the queries in order and returns the first error in that order.
// With ParallelPasses they run concurrently on a worker pool; callers merge afterwards,
// so merge order does not depend on completion order.
func (s *Service) runPasses(ctx context.Context, passes ...pass) error {
	errs := make([]error, len(passes))

	if !s.opts.ParallelPasses || len(passes) < 2 {
		for i, p := range passes {
			if errs[i] = s.run(ctx, p); errs[i] != nil {
				return errs[i]
			}
		}
		return nil
	}

	pool := workerpool.New(len(passes))
	for i, p := range passes {
		i, p := i, p
		pool.Submit(func() {
			errs[i] = s.run(ctx, p)
		})
	}
	pool.StopWait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) run(ctx context.Context, p pass) error {
	started := time.Now()
	err := s.graphql.Query(ctx, p.query.Text, p.query.Variables, p.response)
	if err != nil {
		logging.Error("Analytics query failed", map[string]interface{}{
			"query":    p.query.Name,
			"endpoint": s.graphql.Endpoint(),
			"error":    err.Error(),
		})
		return err
	}

	logging.Debug("Analytics query done", map[string]interface{}{
		"query":         p.query.Name,
		"hosts_dropped": p.query.HostsDropped,
		"duration":      time.Since(started).String(),
	})
	return nil
}

func mergeTrafficSuccess(agg *models.AggregateResult, resp *models.CloudflareResponseZoneTraffic, inventory cloudflare.Inventory) error {
	if len(resp.Viewer.Zones) == 0 {
		return &models.DataIntegrityError{Reason: "success response has no zones"}
	}

	for _, g := range resp.Viewer.Zones[0].Series {
		if g.Dimensions == nil {
			return &models.DataIntegrityError{Reason: "series entry without dimensions"}
		}
		date, host, err := seriesKey(g.Dimensions.Date, g.Dimensions.Host)
		if err != nil {
			return err
		}
		if !keepHost(inventory, host) {
			continue
		}

		p := agg.Point(date, host)
		p.PageViews = g.Count
		if g.Sum != nil {
			p.Requests = g.Sum.Visits
			p.DataTransferBytes = g.Sum.EdgeResponseBytes
		}
	}
	return nil
}

// mergeTrafficFailure assigns error counts after the success pass. Pairs only seen in the
// failure series are created with zero traffic.
func mergeTrafficFailure(agg *models.AggregateResult, resp *models.CloudflareResponseZoneTraffic, inventory cloudflare.Inventory) error {
	if len(resp.Viewer.Zones) == 0 {
		return &models.DataIntegrityError{Reason: "failure response has no zones"}
	}

	for _, g := range resp.Viewer.Zones[0].Series {
		if g.Dimensions == nil {
			return &models.DataIntegrityError{Reason: "failure series entry without dimensions"}
		}
		date, host, err := seriesKey(g.Dimensions.Date, g.Dimensions.Host)
		if err != nil {
			return err
		}
		if !keepHost(inventory, host) {
			continue
		}

		agg.Point(date, host).ErrorCount = g.Count
	}
	return nil
}

func mergePageLoads(agg *models.AggregateResult, resp *models.CloudflareResponseAccountPageLoad, inventory cloudflare.Inventory) error {
	if len(resp.Viewer.Accounts) == 0 {
		return &models.DataIntegrityError{Reason: "response has no accounts"}
	}

	for _, g := range resp.Viewer.Accounts[0].Series {
		if g.Dimensions == nil {
			return &models.DataIntegrityError{Reason: "series entry without dimensions"}
		}
		date, host, err := seriesKey(g.Dimensions.Date, g.Dimensions.Host)
		if err != nil {
			return err
		}
		if !keepHost(inventory, host) {
			continue
		}

		p := agg.Point(date, host)
		p.PageViews = g.Count
		if g.Sum != nil {
			p.Requests = g.Sum.Visits
		}
	}
	return nil
}

func seriesKey(date, host string) (string, string, error) {
	if date == "" || host == "" {
		return "", "", &models.DataIntegrityError{Reason: "series entry without date or host"}
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", "", &models.DataIntegrityError{Reason: fmt.Sprintf("invalid date bucket %q", date)}
	}
	return date, host, nil
}

// keepHost drops hosts outside the DNS inventory, which an empty OR filter may let through.
func keepHost(inventory cloudflare.Inventory, host string) bool {
	if inventory.Has(host) {
		return true
	}
	logging.Debug("Skipping host outside DNS inventory", map[string]interface{}{"host": host})
	return false
}
