package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	cf "github.com/cloudflare/cloudflare-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lablabs/cloudflare-analytics/internal/cloudflare"
	"github.com/lablabs/cloudflare-analytics/internal/models"
)

type stubAnalytics struct {
	records   cloudflare.Inventory
	plan      string
	agg       *models.AggregateResult
	err       error
	gotWindow [2]string
}

func (s *stubAnalytics) DNSRecords(context.Context) cloudflare.Inventory { return s.records }
func (s *stubAnalytics) DomainPlan(context.Context) string               { return s.plan }

func (s *stubAnalytics) Traffics(_ context.Context, start, end string) (*models.AggregateResult, error) {
	s.gotWindow = [2]string{start, end}
	return s.agg, s.err
}

func (s *stubAnalytics) WebAnalytics(_ context.Context, start, end string) (*models.AggregateResult, error) {
	s.gotWindow = [2]string{start, end}
	return s.agg, s.err
}

func newRouter(svc Analytics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAnalyticsHandler(svc)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/health", HealthCheck)
	r.GET("/dns", h.DNSRecords)
	r.GET("/plan", h.Plan)
	r.GET("/traffics", h.Traffics)
	r.GET("/web-analytics", h.WebAnalytics)
	return r
}

func get(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHealthCheck(t *testing.T) {
	w, body := get(t, newRouter(&stubAnalytics{}), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestDNSRecords(t *testing.T) {
	proxied := true
	svc := &stubAnalytics{records: cloudflare.Inventory{
		cf.DNSRecord{Name: "a.com", Type: "A", Content: "192.0.2.1", Proxied: &proxied},
		cf.DNSRecord{Name: "www.a.com", Type: "CNAME", Content: "a.com"},
	}}

	w, body := get(t, newRouter(svc), "/dns")

	assert.Equal(t, http.StatusOK, w.Code)
	records := body["records"].([]interface{})
	require.Len(t, records, 2)
	assert.Equal(t, map[string]interface{}{"name": "a.com", "type": "A", "content": "192.0.2.1", "proxied": true}, records[0])
	assert.Equal(t, false, records[1].(map[string]interface{})["proxied"])
}

func TestDNSRecords_Empty(t *testing.T) {
	_, body := get(t, newRouter(&stubAnalytics{}), "/dns")

	assert.Equal(t, []interface{}{}, body["records"])
}

func TestPlan(t *testing.T) {
	_, body := get(t, newRouter(&stubAnalytics{plan: "Business Website"}), "/plan")

	assert.Equal(t, "Business Website", body["plan"])
	assert.Equal(t, "business", body["tier"])
}

func TestTraffics_OK(t *testing.T) {
	agg := models.NewAggregateResult()
	*agg.Point("2025-03-01", "a.com") = models.MetricPoint{PageViews: 5, ErrorCount: 1}
	svc := &stubAnalytics{agg: agg}

	w, body := get(t, newRouter(svc), "/traffics?start=2025-03-01T00:00:00Z&end=2025-03-02T00:00:00Z")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, [2]string{"2025-03-01T00:00:00Z", "2025-03-02T00:00:00Z"}, svc.gotWindow)
	point := body["by_domain"].(map[string]interface{})["a.com"].(map[string]interface{})["2025-03-01"].(map[string]interface{})
	assert.Equal(t, float64(5), point["page_views"])
	assert.Equal(t, float64(1), point["error_count"])
}

func TestTraffics_ErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid format", &models.InvalidFormatError{Value: "yesterday"}, http.StatusBadRequest},
		{"too old", &models.WindowTooOldError{Start: "2020-01-01T00:00:00Z"}, http.StatusBadRequest},
		{"free plan", &models.PlanUnsupportedError{ZoneID: "z", Plan: "Free Website"}, http.StatusForbidden},
		{"query failed", &models.QueryFailedError{Endpoint: "x", Status: 500}, http.StatusBadGateway},
		{"data integrity", fmt.Errorf("merge: %w", &models.DataIntegrityError{}), http.StatusBadGateway},
		{"configuration", &models.ConfigurationError{Missing: []string{"account id"}}, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := get(t, newRouter(&stubAnalytics{err: tt.err}), "/traffics")

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.err.Error(), body["error"])
		})
	}
}

func TestWebAnalytics_DefaultsPassedThrough(t *testing.T) {
	svc := &stubAnalytics{agg: models.NewAggregateResult()}

	w, body := get(t, newRouter(svc), "/web-analytics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, [2]string{"", ""}, svc.gotWindow)
	assert.Empty(t, body["by_date"])
}
