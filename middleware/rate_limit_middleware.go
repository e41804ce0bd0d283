package middleware

import (
	"context"
	"dash-api/protocol"
	"errors"
	"fmt"

	"golang.org/x/time/rate"
)

var ErrRateLimited = errors.New("middleware: rate limit exceeded")

// RateLimitMiddleware spaces outgoing calls with a token bucket of r calls per
// second and the given burst. A call waits for a token; it fails with
// ErrRateLimited if ctx ends first or could not wait long enough.
func RateLimitMiddleware(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, call *protocol.Call, out any) error {
			if err := limiter.Wait(ctx); err != nil {
				return fmt.Errorf("%w: %w", ErrRateLimited, err)
			}
			return next(ctx, call, out)
		}
	}
}
