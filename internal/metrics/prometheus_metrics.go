package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lablabs/cloudflare-analytics/internal/cloudflare"
	"github.com/lablabs/cloudflare-analytics/internal/models"
)

// MetricName represent metric name
type MetricName string

func (mn MetricName) String() string {
	return string(mn)
}

const (
	zonePageViewsMetricName         MetricName = "cloudflare_analytics_page_views"
	zoneRequestsMetricName          MetricName = "cloudflare_analytics_requests"
	zoneDataTransferBytesMetricName MetricName = "cloudflare_analytics_data_transfer_bytes"
	zoneErrorCountMetricName        MetricName = "cloudflare_analytics_error_count"
	webPageViewsMetricName          MetricName = "cloudflare_analytics_web_page_views"
	webRequestsMetricName           MetricName = "cloudflare_analytics_web_requests"
	zoneDNSRecordsMetricName        MetricName = "cloudflare_analytics_dns_records"
	zonePlanMetricName              MetricName = "cloudflare_analytics_zone_plan"
	refreshFailuresMetricName       MetricName = "cloudflare_analytics_refresh_failures_total"
)

// Set map to check metric name availability.
type Set map[MetricName]struct{}

// Has function check and return bool for metric availability.
func (ms Set) Has(mn MetricName) bool {
	_, exists := ms[mn]
	return exists
}

// Add function add metric name.
func (ms Set) Add(mn MetricName) {
	ms[mn] = struct{}{}
}

var (
	zonePageViews = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: zonePageViewsMetricName.String(),
		Help: "Eyeball HTML requests answered with 200 per host and date",
	}, []string{"zone", "host", "date"},
	)

	zoneRequests = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: zoneRequestsMetricName.String(),
		Help: "Visits per host and date",
	}, []string{"zone", "host", "date"},
	)

	zoneDataTransferBytes = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: zoneDataTransferBytesMetricName.String(),
		Help: "Edge response bytes per host and date",
	}, []string{"zone", "host", "date"},
	)

	zoneErrorCount = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: zoneErrorCountMetricName.String(),
		Help: "Eyeball HTML requests answered with 500 per host and date",
	}, []string{"zone", "host", "date"},
	)

	webPageViews = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: webPageViewsMetricName.String(),
		Help: "Browser page loads per host and date",
	}, []string{"account", "host", "date"},
	)

	webRequests = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: webRequestsMetricName.String(),
		Help: "Browser visits per host and date",
	}, []string{"account", "host", "date"},
	)

	zoneDNSRecords = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: zoneDNSRecordsMetricName.String(),
		Help: "Number of DNS records used as analytics host filter, per type",
	}, []string{"zone", "type"},
	)

	zonePlan = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: zonePlanMetricName.String(),
		Help: "Zone subscription plan, always 1",
	}, []string{"zone", "plan", "tier"},
	)

	refreshFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: refreshFailuresMetricName.String(),
		Help: "Failed analytics refreshes per operation",
	}, []string{"operation"},
	)
)

// BuildAllMetricsSet helps to build all metric and return as Set.
func BuildAllMetricsSet() Set {
	allMetricsSet := Set{}
	allMetricsSet.Add(zonePageViewsMetricName)
	allMetricsSet.Add(zoneRequestsMetricName)
	allMetricsSet.Add(zoneDataTransferBytesMetricName)
	allMetricsSet.Add(zoneErrorCountMetricName)
	allMetricsSet.Add(webPageViewsMetricName)
	allMetricsSet.Add(webRequestsMetricName)
	allMetricsSet.Add(zoneDNSRecordsMetricName)
	allMetricsSet.Add(zonePlanMetricName)
	allMetricsSet.Add(refreshFailuresMetricName)
	return allMetricsSet
}

// BuildDeniedMetricsSet returns Set and error.
func BuildDeniedMetricsSet(metricsDenylist []string) (Set, error) {
	deniedMetricsSet := Set{}
	allMetricsSet := BuildAllMetricsSet()
	for _, metric := range metricsDenylist {
		if !allMetricsSet.Has(MetricName(metric)) {
			return nil, fmt.Errorf("metric %s doesn't exists", metric)
		}
		deniedMetricsSet.Add(MetricName(metric))
	}
	return deniedMetricsSet, nil
}

func collectors() map[MetricName]prometheus.Collector {
	return map[MetricName]prometheus.Collector{
		zonePageViewsMetricName:         zonePageViews,
		zoneRequestsMetricName:          zoneRequests,
		zoneDataTransferBytesMetricName: zoneDataTransferBytes,
		zoneErrorCountMetricName:        zoneErrorCount,
		webPageViewsMetricName:          webPageViews,
		webRequestsMetricName:           webRequests,
		zoneDNSRecordsMetricName:        zoneDNSRecords,
		zonePlanMetricName:              zonePlan,
		refreshFailuresMetricName:       refreshFailures,
	}
}

// MustRegisterMetrics registers every metric not in deniedMetrics with reg.
func MustRegisterMetrics(reg prometheus.Registerer, deniedMetrics Set) {
	for name, c := range collectors() {
		if !deniedMetrics.Has(name) {
			reg.MustRegister(c)
		}
	}
}

// ObserveTraffic replaces the zone traffic gauges with agg.
func ObserveTraffic(zoneID string, agg *models.AggregateResult) {
	zonePageViews.DeletePartialMatch(prometheus.Labels{"zone": zoneID})
	zoneRequests.DeletePartialMatch(prometheus.Labels{"zone": zoneID})
	zoneDataTransferBytes.DeletePartialMatch(prometheus.Labels{"zone": zoneID})
	zoneErrorCount.DeletePartialMatch(prometheus.Labels{"zone": zoneID})

	agg.Each(func(date, host string, p models.MetricPoint) {
		labels := prometheus.Labels{"zone": zoneID, "host": host, "date": date}
		zonePageViews.With(labels).Set(float64(p.PageViews))
		zoneRequests.With(labels).Set(float64(p.Requests))
		zoneDataTransferBytes.With(labels).Set(float64(p.DataTransferBytes))
		zoneErrorCount.With(labels).Set(float64(p.ErrorCount))
	})
}

// ObserveWebAnalytics replaces the page-load gauges of accountID with agg.
func ObserveWebAnalytics(accountID string, agg *models.AggregateResult) {
	webPageViews.DeletePartialMatch(prometheus.Labels{"account": accountID})
	webRequests.DeletePartialMatch(prometheus.Labels{"account": accountID})

	agg.Each(func(date, host string, p models.MetricPoint) {
		labels := prometheus.Labels{"account": accountID, "host": host, "date": date}
		webPageViews.With(labels).Set(float64(p.PageViews))
		webRequests.With(labels).Set(float64(p.Requests))
	})
}

// ObserveDNSRecords sets the per-type record counts of the zone.
func ObserveDNSRecords(zoneID string, inventory cloudflare.Inventory) {
	zoneDNSRecords.DeletePartialMatch(prometheus.Labels{"zone": zoneID})
	for recordType, n := range inventory.CountByType() {
		zoneDNSRecords.With(prometheus.Labels{"zone": zoneID, "type": recordType}).Set(float64(n))
	}
}

// ObservePlan records the zone's plan name and tier.
func ObservePlan(zoneID, plan string) {
	zonePlan.DeletePartialMatch(prometheus.Labels{"zone": zoneID})
	zonePlan.With(prometheus.Labels{
		"zone": zoneID,
		"plan": plan,
		"tier": models.ClassifyPlan(plan).String(),
	}).Set(1)
}

// RefreshFailed counts a failed refresh of operation.
func RefreshFailed(operation string) {
	refreshFailures.With(prometheus.Labels{"operation": operation}).Inc()
}
