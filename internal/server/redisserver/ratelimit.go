package redisserver

import (
	"net"

	"golang.org/x/time/rate"

	"github.com/yndnr/respkv/pkg/cmap"
)

// rateLimiter applies a token bucket per client IP.
// TODO: evict buckets of clients that have been idle for a full refill period.
type rateLimiter struct {
	limit   rate.Limit
	burst   int
	buckets *cmap.Map[*rate.Limiter]
}

// newRateLimiter returns nil when requestsPerSecond is not positive; a nil
// limiter allows everything.
func newRateLimiter(requestsPerSecond int) *rateLimiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	return &rateLimiter{
		limit:   rate.Limit(requestsPerSecond),
		burst:   requestsPerSecond,
		buckets: cmap.New[*rate.Limiter](),
	}
}

// allow checks if a request from the given IP should be allowed.
func (rl *rateLimiter) allow(ip string) bool {
	if rl == nil {
		return true
	}
	lim := rl.buckets.GetOrCreate(ip, func() *rate.Limiter {
		return rate.NewLimiter(rl.limit, rl.burst)
	})
	return lim.Allow()
}

// clientIP returns the host part of addr, or its full string form when it
// has no port (as with net.Pipe).
func clientIP(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
