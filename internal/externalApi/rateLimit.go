package externalApi

import (
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// WithRateLimit paces requests of the client to rps per second. rps <= 0 disables pacing.
func WithRateLimit(client *resty.Client, rps float64) *resty.Client {
	if rps <= 0 {
		return client
	}

	limiter := rate.NewLimiter(rate.Limit(rps), 1)

	return client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})
}
