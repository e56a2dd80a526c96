package cloudflare

import (
	"context"
	"fmt"
	"time"

	cloudflare "github.com/cloudflare/cloudflare-go"

	"github.com/lablabs/cloudflare-analytics/internal/logging"
	"github.com/lablabs/cloudflare-analytics/internal/models"
	"github.com/lablabs/cloudflare-analytics/internal/scope"
)

// DefaultAPIURL is the Cloudflare v4 REST API base.
const DefaultAPIURL = "https://api.cloudflare.com/client/v4"

// recordTypes are looked up in this order.
var recordTypes = []string{"A", "CNAME"}

// Client wraps the cloudflare-go API for one scope.
type Client struct {
	api     *cloudflare.API
	scope   scope.Scope
	timeout time.Duration
}

// Options tunes the underlying cloudflare-go client.
type Options struct {
	BaseURL   string
	RateLimit float64
	Timeout   time.Duration
}

// NewClient builds a token-authenticated client that also sends the X-AUTH-EMAIL header.
// Retries are disabled.
func NewClient(sc scope.Scope, opts Options) (*Client, error) {
	cfOpts := []cloudflare.Option{
		cloudflare.Headers(sc.Headers()),
		cloudflare.UsingRetryPolicy(0, 0, 0),
	}
	if opts.BaseURL != "" {
		cfOpts = append(cfOpts, cloudflare.BaseURL(opts.BaseURL))
	}
	if opts.RateLimit > 0 {
		cfOpts = append(cfOpts, cloudflare.UsingRateLimit(opts.RateLimit))
	}

	api, err := cloudflare.NewWithAPIToken(sc.APIKey(), cfOpts...)
	if err != nil {
		logging.Error("Failed to initialize Cloudflare API client", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to initialize cloudflare client: %w", err)
	}

	return &Client{api: api, scope: sc, timeout: opts.Timeout}, nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// DNSRecords fetches the zone's A records then its CNAME records. A failed lookup only
// drops that record type from the result.
func (c *Client) DNSRecords(ctx context.Context) Inventory {
	zoneID := c.scope.ZoneID()
	records := Inventory{}

	for _, recordType := range recordTypes {
		reqCtx, cancel := c.requestContext(ctx)
		result, _, err := c.api.ListDNSRecords(reqCtx, cloudflare.ZoneIdentifier(zoneID), cloudflare.ListDNSRecordsParams{
			Type: recordType,
		})
		cancel()
		if err != nil {
			logging.Error("Failed to fetch DNS records", map[string]interface{}{
				"zone_id":     zoneID,
				"record_type": recordType,
				"error":       err.Error(),
			})
			continue
		}

		for _, r := range result {
			if r.Name == "" {
				logging.Debug("Skipping DNS record without name", map[string]interface{}{
					"zone_id": zoneID,
					"id":      r.ID,
				})
				continue
			}
			if r.Type == "" {
				r.Type = recordType
			}
			records = append(records, r)
		}
	}

	logging.Info("Fetched DNS records", map[string]interface{}{
		"zone_id":      zoneID,
		"record_count": len(records),
	})
	return records
}

// ZonePlan returns the zone's plan display name, or models.UnknownPlan when it cannot be read.
func (c *Client) ZonePlan(ctx context.Context) string {
	zoneID := c.scope.ZoneID()

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	zone, err := c.api.ZoneDetails(reqCtx, zoneID)
	if err != nil {
		logging.Error("Failed to fetch plan details for zone", map[string]interface{}{
			"zone_id": zoneID,
			"error":   err.Error(),
		})
		return models.UnknownPlan
	}

	if zone.Plan.Name == "" {
		return models.UnknownPlan
	}
	return zone.Plan.Name
}

// Zones lists the zones visible to the credentials, restricted to the scope's account when set.
func (c *Client) Zones(ctx context.Context) ([]cloudflare.Zone, error) {
	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	logging.Info("Fetching zones from Cloudflare API", nil)

	var opts []cloudflare.ReqOption
	if accountID := c.scope.AccountID(); accountID != "" {
		opts = append(opts, cloudflare.WithZoneFilters("", accountID, ""))
	}

	resp, err := c.api.ListZonesContext(reqCtx, opts...)
	if err != nil {
		logging.Error("Failed to fetch zones from Cloudflare API", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}

	logging.Info("Successfully fetched zones", map[string]interface{}{
		"zone_count": len(resp.Result),
	})
	return resp.Result, nil
}
