package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/machinebox/graphql"

	"github.com/lablabs/cloudflare-analytics/internal/limiter"
	"github.com/lablabs/cloudflare-analytics/internal/logging"
	"github.com/lablabs/cloudflare-analytics/internal/models"
)

// DefaultGraphQLEndpoint is the Cloudflare GraphQL analytics endpoint.
const DefaultGraphQLEndpoint = "https://api.cloudflare.com/client/v4/graphql"

// GraphQLClient represents a client for interacting with GraphQL APIs.
type GraphQLClient struct {
	endpoint string
	headers  http.Header
	timeout  time.Duration
}

// NewGraphQLClient creates and returns a new GraphQLClient for the specified endpoint.
// headers are added to every request.
func NewGraphQLClient(endpoint string, headers http.Header, timeout time.Duration) *GraphQLClient {
	if endpoint == "" {
		endpoint = DefaultGraphQLEndpoint
	}
	return &GraphQLClient{endpoint: endpoint, headers: headers.Clone(), timeout: timeout}
}

// Endpoint returns the URL queries are posted to.
func (g *GraphQLClient) Endpoint() string {
	return g.endpoint
}

// Query posts query with vars and decodes the data member into response.
// A non-200 status, a null or absent data member, or GraphQL errors all yield a
// *models.QueryFailedError. Nothing is retried.
func (g *GraphQLClient) Query(ctx context.Context, query string, vars map[string]interface{}, response interface{}) error {
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait failed: %w", err)
	}

	rec := &recorder{}
	client := graphql.NewClient(g.endpoint, graphql.WithHTTPClient(&http.Client{
		Transport: rec,
		Timeout:   g.timeout,
	}))
	client.Log = func(s string) {
		logging.Debug("graphql", map[string]interface{}{"endpoint": g.endpoint, "line": s})
	}

	request := graphql.NewRequest(query)
	for k, v := range vars {
		request.Var(k, v)
	}
	for k, values := range g.headers {
		for _, v := range values {
			request.Header.Add(k, v)
		}
	}

	runErr := client.Run(ctx, request, response)
	if !rec.done {
		// transport failure, there is no response to report
		return fmt.Errorf("failed to execute query against %s: %w", g.endpoint, runErr)
	}

	if rec.status != http.StatusOK {
		return &models.QueryFailedError{Endpoint: g.endpoint, Status: rec.status, Body: string(rec.body), Err: runErr}
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.body, &envelope); err != nil || len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return &models.QueryFailedError{Endpoint: g.endpoint, Status: rec.status, Body: string(rec.body), Err: runErr}
	}

	if runErr != nil {
		return &models.QueryFailedError{Endpoint: g.endpoint, Status: rec.status, Body: string(rec.body), Err: runErr}
	}
	return nil
}

// recorder keeps the status and raw body of the single response it transports,
// which the graphql package does not expose.
type recorder struct {
	next   http.RoundTripper
	done   bool
	status int
	body   []byte
}

func (r *recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	next := r.next
	if next == nil {
		next = http.DefaultTransport
	}

	resp, err := next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	r.done = true
	r.status = resp.StatusCode
	r.body = body
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
