package models

// MetricPoint holds the counters observed for one hostname on one date.
type MetricPoint struct {
	PageViews         uint64 `json:"page_views"`
	Requests          uint64 `json:"requests"`
	DataTransferBytes uint64 `json:"data_transfer_bytes"`
	ErrorCount        uint64 `json:"error_count"`
}

// AggregateResult indexes the same observations by date and by hostname.
// Both views point at the same MetricPoint for a (date, host) pair.
type AggregateResult struct {
	ByDate   map[string]map[string]*MetricPoint `json:"by_date"`
	ByDomain map[string]map[string]*MetricPoint `json:"by_domain"`
}

// NewAggregateResult returns an empty aggregate.
func NewAggregateResult() *AggregateResult {
	return &AggregateResult{
		ByDate:   map[string]map[string]*MetricPoint{},
		ByDomain: map[string]map[string]*MetricPoint{},
	}
}

// Point returns the MetricPoint for (date, host), inserting a zero value into both views
// when the pair has not been seen.
func (a *AggregateResult) Point(date, host string) *MetricPoint {
	if p, ok := a.ByDate[date][host]; ok {
		return p
	}

	p := &MetricPoint{}
	if a.ByDate[date] == nil {
		a.ByDate[date] = map[string]*MetricPoint{}
	}
	a.ByDate[date][host] = p

	if a.ByDomain[host] == nil {
		a.ByDomain[host] = map[string]*MetricPoint{}
	}
	a.ByDomain[host][date] = p
	return p
}

// Lookup returns the point for (date, host) without inserting.
func (a *AggregateResult) Lookup(date, host string) (MetricPoint, bool) {
	p, ok := a.ByDate[date][host]
	if !ok {
		return MetricPoint{}, false
	}
	return *p, true
}

// Len returns the number of (date, host) observations.
func (a *AggregateResult) Len() int {
	n := 0
	for _, hosts := range a.ByDate {
		n += len(hosts)
	}
	return n
}

// Each calls fn for every observation in the by-date view.
func (a *AggregateResult) Each(fn func(date, host string, p MetricPoint)) {
	for date, hosts := range a.ByDate {
		for host, p := range hosts {
			fn(date, host, *p)
		}
	}
}
