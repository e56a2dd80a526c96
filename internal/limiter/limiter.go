// limiter/limiter.go
package limiter

import (
	"context"

	"golang.org/x/time/rate"
)

// Cloudflare API rate limiter (4 requests/second with burst of 2)
var CloudflareLimiter = rate.NewLimiter(rate.Limit(4), 2)

// Configure replaces the request rate. rps <= 0 disables limiting.
func Configure(rps float64) {
	if rps <= 0 {
		CloudflareLimiter.SetLimit(rate.Inf)
		return
	}
	CloudflareLimiter.SetLimit(rate.Limit(rps))
}

// Wait blocks until the limiter allows the request
func Wait(ctx context.Context) error {
	return CloudflareLimiter.Wait(ctx)
}
