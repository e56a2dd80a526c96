package scope

import (
	"net/http"

	"github.com/lablabs/cloudflare-analytics/internal/models"
)

// Scope carries the credentials and the account/zone a call is made for.
// Values are immutable: WithAccount and WithZone return copies.
type Scope struct {
	apiKey      string
	apiKeyEmail string
	accountID   string
	zoneID      string
}

// New validates the API credentials.
func New(apiKey, apiKeyEmail string) (Scope, error) {
	var missing []string
	if apiKey == "" {
		missing = append(missing, "api key")
	}
	if apiKeyEmail == "" {
		missing = append(missing, "api key email")
	}
	if len(missing) > 0 {
		return Scope{}, &models.ConfigurationError{Missing: missing}
	}
	return Scope{apiKey: apiKey, apiKeyEmail: apiKeyEmail}, nil
}

// WithAccount returns a copy scoped to accountID.
func (s Scope) WithAccount(accountID string) (Scope, error) {
	if accountID == "" {
		return Scope{}, &models.ConfigurationError{Missing: []string{"account id"}}
	}
	s.accountID = accountID
	return s, nil
}

// WithZone returns a copy scoped to zoneID.
func (s Scope) WithZone(zoneID string) (Scope, error) {
	if zoneID == "" {
		return Scope{}, &models.ConfigurationError{Missing: []string{"zone id"}}
	}
	s.zoneID = zoneID
	return s, nil
}

func (s Scope) APIKey() string      { return s.apiKey }
func (s Scope) APIKeyEmail() string { return s.apiKeyEmail }
func (s Scope) AccountID() string   { return s.accountID }
func (s Scope) ZoneID() string      { return s.zoneID }

// RequireZone fails for scopes built without a zone.
func (s Scope) RequireZone() error {
	if s.zoneID == "" {
		return &models.ConfigurationError{Missing: []string{"zone id"}}
	}
	return nil
}

// RequireAccount fails for scopes built without an account.
func (s Scope) RequireAccount() error {
	if s.accountID == "" {
		return &models.ConfigurationError{Missing: []string{"account id"}}
	}
	return nil
}

// Headers returns the authentication headers sent on every provider call.
func (s Scope) Headers() http.Header {
	h := make(http.Header)
	h.Set("Authorization", "Bearer "+s.apiKey)
	h.Set("X-AUTH-EMAIL", s.apiKeyEmail)
	return h
}
