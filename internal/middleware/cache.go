package middleware

// cache.go implements a Redis-backed response cache for the movie search
// endpoint. Successful GET responses are stored under a key derived from
// the route and query string; write handlers call Invalidate after a
// committed change so stale pages never outlive a mutation by more than
// the in-flight requests.

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/moviehub/movie-catalog/internal/config"
)

// cachedResponse is the serialized form of one cache entry. The pagination
// header must be replayed alongside the body, so it is stored explicitly.
type cachedResponse struct {
	Status     int             `json:"status"`
	Pagination string          `json:"pagination,omitempty"`
	Body       json.RawMessage `json:"body"`
}

// captureWriter tees the response body while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	limit  int
	skip   bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.skip {
		cw.buf.Write(b)
		if cw.limit > 0 && cw.buf.Len() > cw.limit {
			cw.buf.Reset() // too large to cache, stop collecting
			cw.skip = true
		}
	}
	return cw.ResponseWriter.Write(b)
}

// ResponseCache caches movie search responses in Redis. A nil receiver or a
// disabled config turns every method into a no-op, so callers never need to
// branch on whether caching is available.
type ResponseCache struct {
	cfg config.CacheConfig
	rdb *redis.Client
}

// NewResponseCache returns a cache bound to rdb, or nil when caching is
// disabled or Redis is unavailable.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) *ResponseCache {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return &ResponseCache{cfg: cfg, rdb: rdb}
}

func (rc *ResponseCache) key(c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", rc.cfg.Prefix, sum[:])
}

// Middleware serves cached 200 responses and stores fresh ones. Only GET
// requests are considered; everything else passes straight through.
func (rc *ResponseCache) Middleware() echo.MiddlewareFunc {
	if rc == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			key := rc.key(c)

			if raw, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
				var entry cachedResponse
				if json.Unmarshal(raw, &entry) == nil {
					if entry.Pagination != "" {
						c.Response().Header().Set("X-Pagination", entry.Pagination)
					}
					c.Response().Header().Set("X-Cache", "HIT")
					return c.JSONBlob(entry.Status, entry.Body)
				}
			}

			cw := &captureWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          rc.cfg.MaxBodyBytes,
			}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status == http.StatusOK && cw.buf.Len() > 0 {
				entry := cachedResponse{
					Status:     cw.status,
					Pagination: c.Response().Header().Get("X-Pagination"),
					Body:       json.RawMessage(cw.buf.Bytes()),
				}
				if raw, err := json.Marshal(entry); err == nil {
					_ = rc.rdb.SetEx(context.Background(), key, raw, rc.cfg.TTL).Err()
				}
			}
			return nil
		}
	}
}

// Invalidate drops every cached search page. Called by write handlers after
// a successful create, update or delete; errors are ignored since a stale
// entry expires on its own TTL anyway.
func (rc *ResponseCache) Invalidate(ctx context.Context) {
	if rc == nil {
		return
	}
	iter := rc.rdb.Scan(ctx, 0, rc.cfg.Prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		_ = rc.rdb.Del(ctx, iter.Val()).Err()
	}
}
