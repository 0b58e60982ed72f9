package server

import (
	"net"
	"net/http"
	"strings"
	"time"

	"MuseFM/db"
	"MuseFM/logger"

	"github.com/google/uuid"
)

// requestIDMiddleware tags every request with a generated id, echoed in the
// X-Request-ID response header.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware allows cross-origin browser clients and short-circuits
// preflight requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimiter throttles requests per client IP with a fixed redis window.
// When redis is unreachable the limiter fails open: requests pass through
// and the failure is logged.
type RateLimiter struct {
	Limit  int
	Window time.Duration
}

// Middleware enforces the limit on the wrapped handler.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := db.RedisClient
		if client == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := "ratelimit:auth:" + clientIP(r)
		count, err := client.Incr(r.Context(), key).Result()
		if err != nil {
			logger.Warn("Rate limiter unavailable, allowing request", logger.ErrorField(err))
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			if err := client.Expire(r.Context(), key, rl.Window).Err(); err != nil {
				logger.Warn("Failed to set rate limit window", logger.ErrorField(err), logger.String("key", key))
			}
		}

		if count > int64(rl.Limit) {
			logger.Warn("Rate limit exceeded",
				logger.String("clientIP", clientIP(r)),
				logger.Int64("count", count))
			respondError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP resolves the caller's address, preferring the first entry of
// X-Forwarded-For when a proxy sits in front.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.IndexByte(forwarded, ','); idx >= 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
