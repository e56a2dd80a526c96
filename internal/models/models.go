package models

// CloudflareResponseZoneTraffic represents the GraphQL response for zone httpRequestsAdaptiveGroups.
type CloudflareResponseZoneTraffic struct {
	Viewer struct {
		// Zones holds one entry per zoneTag in the filter.
		Zones []ZoneRespTraffic `json:"zones"`
	} `json:"viewer"`
}

// ZoneRespTraffic contains the series aliased from httpRequestsAdaptiveGroups.
type ZoneRespTraffic struct {
	Series []TrafficGroup `json:"series"`
}

// TrafficGroup is one (date, host) bucket of eyeball HTTP requests.
type TrafficGroup struct {
	Count uint64 `json:"count"`
	Avg   *struct {
		SampleInterval float64 `json:"sampleInterval"`
	} `json:"avg"`
	Sum *struct {
		EdgeResponseBytes uint64 `json:"edgeResponseBytes"`
		Visits            uint64 `json:"visits"`
	} `json:"sum"`
	Dimensions *struct {
		Host string `json:"metric"`
		Date string `json:"ts"`
	} `json:"dimensions"`
}

// CloudflareResponseAccountPageLoad represents the GraphQL response for account rumPageloadEventsAdaptiveGroups.
type CloudflareResponseAccountPageLoad struct {
	Viewer struct {
		Accounts []AccountRespPageLoad `json:"accounts"`
	} `json:"viewer"`
}

// AccountRespPageLoad contains the series aliased from rumPageloadEventsAdaptiveGroups.
type AccountRespPageLoad struct {
	Series []PageLoadGroup `json:"series"`
}

// PageLoadGroup is one (date, host) bucket of browser page-load events.
type PageLoadGroup struct {
	Count uint64 `json:"count"`
	Avg   *struct {
		SampleInterval float64 `json:"sampleInterval"`
	} `json:"avg"`
	Sum *struct {
		Visits uint64 `json:"visits"`
	} `json:"sum"`
	Dimensions *struct {
		Host string `json:"host"`
		Date string `json:"ts"`
	} `json:"dimensions"`
}

// ZoneSummary is the listing view of a zone.
type ZoneSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Plan    string `json:"plan"`
	Account string `json:"account"`
}
