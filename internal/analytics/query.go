package analytics

import (
	"github.com/lablabs/cloudflare-analytics/internal/logging"
	"github.com/lablabs/cloudflare-analytics/internal/models"
	"github.com/lablabs/cloudflare-analytics/internal/scope"
)

const (
	statusSuccess = 200
	statusFailure = 500
)

const zoneTrafficQuery = `
	query VisitsDaily($zoneTag: string, $filter: ZoneHttpRequestsAdaptiveGroupsFilter_InputObject) {
		viewer {
			zones(filter: { zoneTag: $zoneTag }) {
				series: httpRequestsAdaptiveGroups(limit: 10000, filter: $filter) {
					count
					avg {
						sampleInterval
					}
					sum {
						edgeResponseBytes
						visits
					}
					dimensions {
						metric: clientRequestHTTPHost
						ts: date
					}
				}
			}
		}
	}
`

const accountPageLoadQuery = `
	query RumDaily($accountTag: string, $filter: AccountRumPageloadEventsAdaptiveGroupsFilter_InputObject) {
		viewer {
			accounts(filter: { accountTag: $accountTag }) {
				series: rumPageloadEventsAdaptiveGroups(limit: 10000, filter: $filter) {
					count
					avg {
						sampleInterval
					}
					sum {
						visits
					}
					dimensions {
						host: requestHost
						ts: date
					}
				}
			}
		}
	}
`

// Query is an immutable GraphQL request: text plus variables.
type Query struct {
	Name      string
	Text      string
	Variables map[string]interface{}

	// HostsDropped is set when the plan was not recognised and the host OR list
	// was left empty.
	HostsDropped bool
}

// Filter node types. They marshal to the provider's filter input objects.
type (
	andFilter struct {
		AND []interface{} `json:"AND"`
	}
	orFilter struct {
		OR []interface{} `json:"OR"`
	}
	datetimeFilter struct {
		Geq string `json:"datetime_geq"`
		Leq string `json:"datetime_leq"`
	}
	requestSourceFilter struct {
		RequestSource string `json:"requestSource"`
	}
	responseFilter struct {
		EdgeResponseStatus          int    `json:"edgeResponseStatus"`
		EdgeResponseContentTypeName string `json:"edgeResponseContentTypeName"`
	}
	clientHostFilter struct {
		ClientRequestHTTPHost string `json:"clientRequestHTTPHost"`
	}
	requestHostFilter struct {
		RequestHost string `json:"requestHost"`
	}
)

// ZoneTrafficQuery builds the zone httpRequestsAdaptiveGroups query for one response status.
// Free plans are refused. Unrecognised plans get an empty host OR list, or are refused
// when strict is set.
func ZoneTrafficQuery(sc scope.Scope, planName string, w Window, hosts []string, status int, strict bool) (Query, error) {
	plan := models.ClassifyPlan(planName)

	hostFilters := make([]interface{}, 0, len(hosts))
	dropped := false

	switch plan {
	case models.PlanFree:
		return Query{}, &models.PlanUnsupportedError{ZoneID: sc.ZoneID(), Plan: planName}
	case models.PlanBusiness:
		for _, h := range hosts {
			hostFilters = append(hostFilters, clientHostFilter{ClientRequestHTTPHost: h})
		}
	default:
		if strict {
			return Query{}, &models.PlanUnsupportedError{ZoneID: sc.ZoneID(), Plan: planName}
		}
		dropped = true
		logging.Warn("Plan not recognised, querying zone traffic without host filters", map[string]interface{}{
			"zone_id": sc.ZoneID(),
			"plan":    planName,
			"status":  status,
		})
	}

	filter := andFilter{AND: []interface{}{
		datetimeFilter{Geq: w.Start, Leq: w.End},
		requestSourceFilter{RequestSource: "eyeball"},
		andFilter{AND: []interface{}{
			responseFilter{EdgeResponseStatus: status, EdgeResponseContentTypeName: "html"},
		}},
		orFilter{OR: hostFilters},
	}}

	return Query{
		Name: "zone_traffic",
		Text: zoneTrafficQuery,
		Variables: map[string]interface{}{
			"zoneTag": sc.ZoneID(),
			"filter":  filter,
		},
		HostsDropped: dropped,
	}, nil
}

// AccountPageLoadQuery builds the account rumPageloadEventsAdaptiveGroups query. Every plan has it.
func AccountPageLoadQuery(sc scope.Scope, w Window, hosts []string) Query {
	hostFilters := make([]interface{}, 0, len(hosts))
	for _, h := range hosts {
		hostFilters = append(hostFilters, requestHostFilter{RequestHost: h})
	}

	return Query{
		Name: "account_page_load",
		Text: accountPageLoadQuery,
		Variables: map[string]interface{}{
			"accountTag": sc.AccountID(),
			"filter": andFilter{AND: []interface{}{
				datetimeFilter{Geq: w.Start, Leq: w.End},
				orFilter{OR: hostFilters},
			}},
		},
	}
}
