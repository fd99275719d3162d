package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Hustlehub34/Sporto-sub000/internal/config"
)

// captureWriter tees the response body into buf (up to limit bytes) while
// still writing it to the client.
type captureWriter struct {
	http.ResponseWriter
	status    int
	buf       bytes.Buffer
	truncated bool
	limit     int
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.truncated {
		if cw.limit > 0 && cw.buf.Len()+len(b) > cw.limit {
			cw.truncated = true
		} else {
			cw.buf.Write(b)
		}
	}
	return cw.ResponseWriter.Write(b)
}

// cachedResponse is what gets stored in Redis for one listing.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// RedisCache caches successful responses keyed by URL path and query.  A
// nil *RedisCache, or one built from a disabled config, caches nothing.
type RedisCache struct {
	cfg config.CacheConfig
	rdb *redis.Client
}

// NewRedisCache returns a cache bound to rdb.  rdb may be nil.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) *RedisCache {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return &RedisCache{cfg: cfg, rdb: rdb}
}

func (rc *RedisCache) enabled() bool {
	return rc != nil && rc.cfg.Enabled && rc.rdb != nil
}

// pathPrefix is shared by every cached variant (query string) of path.
func (rc *RedisCache) pathPrefix(path string) string {
	return rc.cfg.Prefix + ":" + path + ":"
}

func (rc *RedisCache) key(r *http.Request) string {
	sum := sha1.Sum([]byte(r.Method + " " + r.URL.RawQuery))
	return fmt.Sprintf("%s%x", rc.pathPrefix(r.URL.Path), sum[:])
}

// Middleware serves cached bodies with X-Cache: HIT and stores 200
// responses on a miss.
func (rc *RedisCache) Middleware() echo.MiddlewareFunc {
	if !rc.enabled() {
		return passThrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !rc.cfg.Methods[strings.ToUpper(req.Method)] {
				return next(c)
			}
			key := rc.key(req)

			if bs, err := rc.rdb.Get(req.Context(), key).Bytes(); err == nil {
				var hit cachedResponse
				if json.Unmarshal(bs, &hit) == nil {
					return rc.replay(c, hit)
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: rc.cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.truncated {
				return nil
			}
			entry := cachedResponse{Status: cw.status, Header: c.Response().Header().Clone(), Body: cw.buf.Bytes()}
			entry.Header.Del("X-Cache")
			if payload, err := json.Marshal(entry); err == nil {
				if err := rc.rdb.Set(context.Background(), key, payload, rc.cfg.TTL).Err(); err != nil {
					c.Logger().Warnf("cache: store %s: %v", key, err)
				}
			}
			return nil
		}
	}
}

func (rc *RedisCache) replay(c echo.Context, hit cachedResponse) error {
	h := c.Response().Header()
	for k, vals := range hit.Header {
		if strings.EqualFold(k, "Content-Length") {
			continue
		}
		for _, v := range vals {
			h.Add(k, v)
		}
	}
	h.Set("X-Cache", "HIT")
	c.Response().WriteHeader(hit.Status)
	_, err := c.Response().Write(hit.Body)
	return err
}

// Purge drops every cached variant of path.  It is called after a slot
// changes state so the public listing never shows stale availability.
func (rc *RedisCache) Purge(ctx context.Context, path string) error {
	if !rc.enabled() {
		return nil
	}
	iter := rc.rdb.Scan(ctx, 0, rc.pathPrefix(path)+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache: scan %s: %w", path, err)
	}
	if len(keys) == 0 {
		return nil
	}
	return rc.rdb.Del(ctx, keys...).Err()
}
