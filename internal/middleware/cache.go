package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/config"
)

// cachedResponse is what the response cache keeps per key.  Only the
// content type survives; the other headers are per request.
type cachedResponse struct {
	Status      int       `json:"s"`
	ContentType string    `json:"ct"`
	Body        []byte    `json:"b"`
	StoredAt    time.Time `json:"at"`
}

// bodyRecorder tees the response into a buffer until limit is passed.
type bodyRecorder struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (r *bodyRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	if !r.overflow {
		if r.limit > 0 && r.buf.Len()+len(b) > r.limit {
			r.overflow = true
			r.buf.Reset()
		} else {
			r.buf.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}

// cacheKeyFrom hashes the parts of the request the strategy names.  Query
// parameters are re-encoded sorted so their order does not split entries.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	query := c.QueryParams().Encode()
	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{c.Path()}
	case "user_route_query":
		parts = []string{UserID(c), c.Path(), query}
	default:
		parts = []string{c.Path(), query}
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return cfg.Prefix + ":" + hex.EncodeToString(sum[:16])
}

func encodeCached(r cachedResponse) ([]byte, error) { return json.Marshal(r) }

func decodeCached(bs []byte) (cachedResponse, bool) {
	var r cachedResponse
	if err := json.Unmarshal(bs, &r); err != nil || r.Status == 0 {
		return cachedResponse{}, false
	}
	return r, true
}

// NewRedisCache serves successful catalog and report reads from Redis for
// cfg.TTL.  A request with "Cache-Control: no-cache" skips the lookup and
// refreshes the entry.  Bodies over cfg.MaxBodyBytes are not stored.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !cfg.Methods[req.Method] {
				return next(c)
			}
			key := cacheKeyFrom(cfg, c)
			res := c.Response()

			if !strings.Contains(req.Header.Get(echo.HeaderCacheControl), "no-cache") {
				if bs, err := rdb.Get(req.Context(), key).Bytes(); err == nil {
					if hit, ok := decodeCached(bs); ok {
						res.Header().Set(echo.HeaderContentType, hit.ContentType)
						res.Header().Set("X-Cache", "HIT")
						res.Header().Set("Age", strconv.Itoa(int(time.Since(hit.StoredAt).Seconds())))
						return c.Blob(hit.Status, hit.ContentType, hit.Body)
					}
				}
			}

			rec := &bodyRecorder{ResponseWriter: res.Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			res.Writer = rec
			res.Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if rec.status != http.StatusOK || rec.overflow {
				return nil
			}
			payload, err := encodeCached(cachedResponse{
				Status:      rec.status,
				ContentType: res.Header().Get(echo.HeaderContentType),
				Body:        rec.buf.Bytes(),
				StoredAt:    time.Now().UTC(),
			})
			if err == nil {
				// The request context may already be cancelled once the
				// response is written.
				if err := rdb.Set(context.Background(), key, payload, ttl).Err(); err != nil {
					c.Logger().Warnf("cache: store %s: %v", c.Path(), err)
				}
			}
			return nil
		}
	}
}
