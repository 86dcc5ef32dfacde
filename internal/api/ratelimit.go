package api

import (
	"context"
	"ecomap-score-service/internal/api/dto"
	"ecomap-score-service/internal/platform/metrics"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter is a fixed one-minute window limiter keyed by client IP and
// route, counted in Redis. It fails open when Redis errors.
type RateLimiter struct {
	redis  *redis.Client
	logger *zap.Logger
	limit  int
	now    func() time.Time
}

// NewRateLimiter returns nil when client is nil or limit is not positive;
// a nil limiter lets every request through.
func NewRateLimiter(client *redis.Client, limit int, logger *zap.Logger) *RateLimiter {
	if client == nil || limit <= 0 {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{redis: client, logger: logger, limit: limit, now: time.Now}
}

// Limit wraps next with the limiter under the given route name.
func (rl *RateLimiter) Limit(route string, next http.Handler) http.Handler {
	if rl == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("ecomap:ratelimit:%s:%s", route, clientIP(r))
		allowed, remaining, resetAt := rl.check(r.Context(), key)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			metrics.RateLimited.WithLabelValues(route).Inc()
			rl.logger.Warn("rate limit exceeded", zap.String("route", route), zap.String("path", r.URL.Path))

			retry := max(int(resetAt.Sub(rl.now()).Seconds()), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "rate limit exceeded"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) check(ctx context.Context, key string) (allowed bool, remaining int, resetAt time.Time) {
	window := rl.now().Truncate(time.Minute)
	windowKey := fmt.Sprintf("%s:%d", key, window.Unix())
	resetAt = window.Add(time.Minute)

	pipe := rl.redis.Pipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, time.Minute+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		rl.logger.Error("rate limit check failed", zap.Error(err))
		return true, rl.limit, resetAt
	}

	count := incr.Val()
	remaining = max(rl.limit-int(count), 0)
	return count <= int64(rl.limit), remaining, resetAt
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
