package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPlan(t *testing.T) {
	cases := map[string]Plan{
		"Free Website":       PlanFree,
		"Business Website":   PlanBusiness,
		"Pro Website":        PlanUnknown,
		"Enterprise Website": PlanUnknown,
		UnknownPlan:          PlanUnknown,
		"":                   PlanUnknown,
	}
	for name, want := range cases {
		assert.Equal(t, want, ClassifyPlan(name), name)
	}
	assert.Equal(t, "business", PlanBusiness.String())
}

func TestAggregateResult_PointSharedAcrossViews(t *testing.T) {
	agg := NewAggregateResult()

	p := agg.Point("2025-01-01", "a.com")
	p.PageViews = 10
	p.ErrorCount = 2

	assert.Same(t, agg.ByDate["2025-01-01"]["a.com"], agg.ByDomain["a.com"]["2025-01-01"])
	assert.Same(t, p, agg.Point("2025-01-01", "a.com"))

	got, ok := agg.Lookup("2025-01-01", "a.com")
	require.True(t, ok)
	assert.Equal(t, MetricPoint{PageViews: 10, ErrorCount: 2}, got)

	_, ok = agg.Lookup("2025-01-02", "a.com")
	assert.False(t, ok)
	assert.Equal(t, 1, agg.Len())
}

func TestAggregateResult_Each(t *testing.T) {
	agg := NewAggregateResult()
	agg.Point("2025-01-01", "a.com").Requests = 1
	agg.Point("2025-01-02", "a.com").Requests = 2
	agg.Point("2025-01-01", "b.com").Requests = 3

	var total uint64
	agg.Each(func(_, _ string, p MetricPoint) { total += p.Requests })
	assert.Equal(t, uint64(6), total)
	assert.Len(t, agg.ByDomain["a.com"], 2)
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, (&InvalidFormatError{Value: "2025-1-07 17:05:52Z"}).Error(), "YYYY-MM-DDTHH:MM:SSZ")
	assert.Contains(t, (&WindowTooOldError{Start: "2025-01-07T17:05:52Z"}).Error(),
		"start_date cannot be more than 2,764,800 seconds (32 days) ago. Given: 2025-01-07T17:05:52Z")
	assert.Contains(t, (&PlanUnsupportedError{ZoneID: "zone-1", Plan: "Free Website"}).Error(), "zone-1")
	assert.Equal(t, DataMissingOrInvalid, (&DataIntegrityError{}).Error())
	assert.Contains(t, (&ConfigurationError{Missing: []string{"api key"}}).Error(), "api key")
}

func TestQueryFailedError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	var err error = &QueryFailedError{Endpoint: "https://x/graphql", Status: 500, Body: "oops", Err: cause}

	var qf *QueryFailedError
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &qf))
	assert.Equal(t, 500, qf.Status)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "https://x/graphql")
}
