package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lablabs/cloudflare-analytics/internal/cloudflare"
	"github.com/lablabs/cloudflare-analytics/internal/models"
)

// Analytics is what the HTTP API needs from the analytics service.
type Analytics interface {
	DNSRecords(ctx context.Context) cloudflare.Inventory
	DomainPlan(ctx context.Context) string
	Traffics(ctx context.Context, start, end string) (*models.AggregateResult, error)
	WebAnalytics(ctx context.Context, start, end string) (*models.AggregateResult, error)
}

// AnalyticsHandler serves the analytics service over HTTP.
type AnalyticsHandler struct {
	svc Analytics
}

// NewAnalyticsHandler returns a handler backed by svc.
func NewAnalyticsHandler(svc Analytics) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

type dnsRecord struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
	Proxied bool   `json:"proxied"`
}

// DNSRecords lists the zone's A and CNAME records.
func (h *AnalyticsHandler) DNSRecords(c *gin.Context) {
	inventory := h.svc.DNSRecords(c.Request.Context())

	out := make([]dnsRecord, 0, len(inventory))
	for _, r := range inventory {
		rec := dnsRecord{Name: r.Name, Type: r.Type, Content: r.Content}
		if r.Proxied != nil {
			rec.Proxied = *r.Proxied
		}
		out = append(out, rec)
	}
	c.JSON(http.StatusOK, gin.H{"records": out})
}

// Plan returns the zone's plan name and its analytics tier.
func (h *AnalyticsHandler) Plan(c *gin.Context) {
	plan := h.svc.DomainPlan(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"plan": plan,
		"tier": models.ClassifyPlan(plan).String(),
	})
}

// Traffics returns the zone traffic aggregate for ?start=&end=.
func (h *AnalyticsHandler) Traffics(c *gin.Context) {
	agg, err := h.svc.Traffics(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, agg)
}

// WebAnalytics returns the page-load aggregate for ?start=&end=.
func (h *AnalyticsHandler) WebAnalytics(c *gin.Context) {
	agg, err := h.svc.WebAnalytics(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, agg)
}
