package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lablabs/cloudflare-analytics/internal/cloudflare"
	"github.com/lablabs/cloudflare-analytics/internal/models"
)

// -------- Test: BuildAllMetricsSet --------
func TestBuildAllMetricsSet(t *testing.T) {
	metricsSet := BuildAllMetricsSet()

	assert.True(t, metricsSet.Has("cloudflare_analytics_page_views"))
	assert.True(t, metricsSet.Has("cloudflare_analytics_error_count"))
	assert.True(t, metricsSet.Has("cloudflare_analytics_refresh_failures_total"))
	assert.False(t, metricsSet.Has("non_existent_metric"))
	assert.Len(t, metricsSet, len(collectors()))
}

// -------- Test: BuildDeniedMetricsSet --------
func TestBuildDeniedMetricsSet_ValidMetrics(t *testing.T) {
	metricsList := []string{"cloudflare_analytics_page_views", "cloudflare_analytics_zone_plan"}
	set, err := BuildDeniedMetricsSet(metricsList)

	assert.NoError(t, err)
	assert.True(t, set.Has("cloudflare_analytics_page_views"))
	assert.True(t, set.Has("cloudflare_analytics_zone_plan"))
	assert.False(t, set.Has("cloudflare_analytics_requests"))
}

func TestBuildDeniedMetricsSet_InvalidMetric(t *testing.T) {
	metricsList := []string{"non_existent_metric"}
	set, err := BuildDeniedMetricsSet(metricsList)

	assert.Error(t, err)
	assert.Nil(t, set)
}

// -------- Test: MustRegisterMetrics --------
func TestMustRegisterMetrics_SkipsDenied(t *testing.T) {
	reg := prometheus.NewRegistry()
	denied, err := BuildDeniedMetricsSet([]string{"cloudflare_analytics_web_page_views"})
	require.NoError(t, err)

	assert.NotPanics(t, func() { MustRegisterMetrics(reg, denied) })

	// a second registration of the same collectors must fail, the denied one must not
	assert.NoError(t, reg.Register(webPageViews))
	assert.Error(t, reg.Register(zonePageViews))
}

// -------- Test: observers --------
func TestObserveTraffic_ReplacesZoneSeries(t *testing.T) {
	first := models.NewAggregateResult()
	*first.Point("2025-03-01", "a.com") = models.MetricPoint{PageViews: 10, Requests: 4, DataTransferBytes: 2048, ErrorCount: 1}
	*first.Point("2025-03-01", "old.com") = models.MetricPoint{PageViews: 1}
	ObserveTraffic("zone-t", first)

	assert.Equal(t, float64(10), testutil.ToFloat64(zonePageViews.WithLabelValues("zone-t", "a.com", "2025-03-01")))
	assert.Equal(t, float64(2048), testutil.ToFloat64(zoneDataTransferBytes.WithLabelValues("zone-t", "a.com", "2025-03-01")))
	assert.Equal(t, float64(1), testutil.ToFloat64(zoneErrorCount.WithLabelValues("zone-t", "a.com", "2025-03-01")))

	second := models.NewAggregateResult()
	*second.Point("2025-03-02", "a.com") = models.MetricPoint{Requests: 7}
	ObserveTraffic("zone-t", second)

	n := zoneRequests.DeletePartialMatch(prometheus.Labels{"zone": "zone-t"})
	assert.Equal(t, 1, n, "stale host/date series are dropped on refresh")
}

func TestObserveWebAnalytics(t *testing.T) {
	agg := models.NewAggregateResult()
	*agg.Point("2025-03-01", "a.com") = models.MetricPoint{PageViews: 3, Requests: 2}
	ObserveWebAnalytics("acc-w", agg)

	assert.Equal(t, float64(3), testutil.ToFloat64(webPageViews.WithLabelValues("acc-w", "a.com", "2025-03-01")))
	assert.Equal(t, float64(2), testutil.ToFloat64(webRequests.WithLabelValues("acc-w", "a.com", "2025-03-01")))
}

func TestObserveDNSRecordsAndPlan(t *testing.T) {
	ObserveDNSRecords("zone-d", cloudflare.Inventory{
		{Name: "a.com", Type: "A"},
		{Name: "b.com", Type: "A"},
		{Name: "www.a.com", Type: "CNAME"},
	})
	assert.Equal(t, float64(2), testutil.ToFloat64(zoneDNSRecords.WithLabelValues("zone-d", "A")))
	assert.Equal(t, float64(1), testutil.ToFloat64(zoneDNSRecords.WithLabelValues("zone-d", "CNAME")))

	ObservePlan("zone-d", "Free Website")
	ObservePlan("zone-d", "Business Website")
	assert.Equal(t, float64(1), testutil.ToFloat64(zonePlan.WithLabelValues("zone-d", "Business Website", "business")))
	assert.Equal(t, 1, zonePlan.DeletePartialMatch(prometheus.Labels{"zone": "zone-d"}))
}

func TestRefreshFailed(t *testing.T) {
	before := testutil.ToFloat64(refreshFailures.WithLabelValues("traffics"))
	RefreshFailed("traffics")
	assert.Equal(t, before+1, testutil.ToFloat64(refreshFailures.WithLabelValues("traffics")))
}

// -------- Test: Handler --------
func TestHandler_ServesRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	MustRegisterMetrics(reg, Set{})
	RefreshFailed("dns")

	r := gin.New()
	r.GET("/metrics", Handler(reg))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cloudflare_analytics_refresh_failures_total")
}
