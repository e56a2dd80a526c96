package analytics

import (
	"context"
	"time"

	"github.com/lablabs/cloudflare-analytics/internal/client"
	"github.com/lablabs/cloudflare-analytics/internal/cloudflare"
	"github.com/lablabs/cloudflare-analytics/internal/models"
	"github.com/lablabs/cloudflare-analytics/internal/scope"
)

// Options configures a Service.
type Options struct {
	APIURL     string
	GraphQLURL string
	RateLimit  float64
	Timeout    time.Duration

	// StrictPlan refuses zone traffic queries for unrecognised plans instead of
	// issuing them with an empty host filter.
	StrictPlan bool
	// ParallelPasses runs the success and failure queries concurrently.
	ParallelPasses bool

	// Now overrides the clock used for window defaults and validation.
	Now func() time.Time
}

// Service answers DNS, plan and analytics questions for one zone.
type Service struct {
	scope   scope.Scope
	rest    *cloudflare.Client
	graphql *client.GraphQLClient
	opts    Options
}

// NewService needs a zone-scoped scope. The account id is only required by WebAnalytics.
func NewService(sc scope.Scope, opts Options) (*Service, error) {
	if err := sc.RequireZone(); err != nil {
		return nil, err
	}

	rest, err := cloudflare.NewClient(sc, cloudflare.Options{
		BaseURL:   opts.APIURL,
		RateLimit: opts.RateLimit,
		Timeout:   opts.Timeout,
	})
	if err != nil {
		return nil, err
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		scope:   sc,
		rest:    rest,
		graphql: client.NewGraphQLClient(opts.GraphQLURL, sc.Headers(), opts.Timeout),
		opts:    opts,
	}, nil
}

// Scope returns the scope the service was built for.
func (s *Service) Scope() scope.Scope {
	return s.scope
}

// DNSRecords returns the zone's A then CNAME records; failed lookups are omitted.
func (s *Service) DNSRecords(ctx context.Context) cloudflare.Inventory {
	return s.rest.DNSRecords(ctx)
}

// DomainPlan returns the zone's plan display name, "Unknown" on failure.
func (s *Service) DomainPlan(ctx context.Context) string {
	return s.rest.ZonePlan(ctx)
}

// Zones lists zones visible to the credentials, restricted to the scope's account when set.
func (s *Service) Zones(ctx context.Context) ([]models.ZoneSummary, error) {
	return listZones(ctx, s.rest)
}

// ListZones lists zones without requiring a zone-scoped scope.
func ListZones(ctx context.Context, sc scope.Scope, opts Options) ([]models.ZoneSummary, error) {
	rest, err := cloudflare.NewClient(sc, cloudflare.Options{
		BaseURL:   opts.APIURL,
		RateLimit: opts.RateLimit,
		Timeout:   opts.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return listZones(ctx, rest)
}

func listZones(ctx context.Context, rest *cloudflare.Client) ([]models.ZoneSummary, error) {
	zones, err := rest.Zones(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.ZoneSummary, 0, len(zones))
	for _, z := range zones {
		out = append(out, models.ZoneSummary{
			ID:      z.ID,
			Name:    z.Name,
			Status:  z.Status,
			Plan:    z.Plan.Name,
			Account: z.Account.Name,
		})
	}
	return out, nil
}
