package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/config"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/utils"
)

func serve(t *testing.T, e *echo.Echo, auth string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/staff", nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAndRoles(t *testing.T) {
	e := echo.New()
	e.GET("/staff", func(c echo.Context) error {
		return c.String(http.StatusOK, UserID(c)+"|"+AccessToken(c))
	}, JWTAuth("secret"), RequireRole("STAFF", "ADMIN"))

	if rec := serve(t, e, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token = %d", rec.Code)
	}
	if rec := serve(t, e, "Bearer garbage"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token = %d", rec.Code)
	}

	guest, _ := utils.NewAccessToken("secret", "guest@aurora.vn", []string{"GUEST"}, time.Minute)
	if rec := serve(t, e, "Bearer "+guest); rec.Code != http.StatusForbidden {
		t.Fatalf("guest = %d", rec.Code)
	}

	staff, _ := utils.NewAccessToken("secret", "staff@aurora.vn", []string{"STAFF"}, time.Minute)
	rec := serve(t, e, "Bearer "+staff)
	if rec.Code != http.StatusOK || rec.Body.String() != "staff@aurora.vn|"+staff {
		t.Fatalf("staff = %d %q", rec.Code, rec.Body.String())
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(echo.HeaderXRequestID); got != "req-1" {
		t.Fatalf("X-Request-ID = %q", got)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if len(rec.Header().Get(echo.HeaderXRequestID)) != 36 {
		t.Fatalf("generated id = %q", rec.Header().Get(echo.HeaderXRequestID))
	}
}

func TestCacheKeyPerUser(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "aurora:cache", KeyStrategy: "user_route_query"}
	key := func(user string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/reports/dashboard?branchId=hn", nil), httptest.NewRecorder())
		c.SetPath("/v1/reports/dashboard")
		c.Set(ctxUserID, user)
		return cacheKeyFrom(cfg, c)
	}
	a, b := key("alice"), key("bob")
	if a == b || a != key("alice") {
		t.Fatalf("keys: %s %s", a, b)
	}
	if !strings.HasPrefix(a, "aurora:cache:") {
		t.Fatalf("key %q lacks prefix", a)
	}
}

func TestCacheKeyIgnoresQueryOrder(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "aurora:cache"}
	key := func(target string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/v1/services")
		return cacheKeyFrom(cfg, c)
	}
	if key("/v1/services?branchId=hn&page=1") != key("/v1/services?page=1&branchId=hn") {
		t.Fatal("query order changed the cache key")
	}
	if key("/v1/services?branchId=hn") == key("/v1/services?branchId=hcm") {
		t.Fatal("different branches share a cache key")
	}
}

func TestCachedResponseDecoding(t *testing.T) {
	bs, err := encodeCached(cachedResponse{Status: http.StatusOK, ContentType: "application/json", Body: []byte(`{"ok":true}`)})
	if err != nil {
		t.Fatal(err)
	}
	got, ok := decodeCached(bs)
	if !ok || got.Status != http.StatusOK || got.ContentType != "application/json" || string(got.Body) != `{"ok":true}` {
		t.Fatalf("decoded %+v %v", got, ok)
	}
	if _, ok := decodeCached([]byte(`garbage`)); ok {
		t.Fatal("garbage decoded")
	}
}

func TestBodyRecorderStopsAtLimit(t *testing.T) {
	rec := &bodyRecorder{ResponseWriter: httptest.NewRecorder(), limit: 4}
	_, _ = rec.Write([]byte("abc"))
	if rec.overflow || rec.buf.String() != "abc" {
		t.Fatalf("after 3 bytes: %q %v", rec.buf.String(), rec.overflow)
	}
	_, _ = rec.Write([]byte("de"))
	if !rec.overflow || rec.buf.Len() != 0 {
		t.Fatalf("after 5 bytes: %q %v", rec.buf.String(), rec.overflow)
	}
}

func TestRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/checkout/drafts", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/checkout/drafts")
	c.Set(ctxUserID, "alice")

	cases := map[string]string{
		"ip":         "aurora:rl:ip:10.0.0.1",
		"user_route": "aurora:rl:user:alice:route:POST /v1/checkout/drafts",
	}
	cases["bogus"] = "aurora:rl:ip:10.0.0.1:user:alice:route:POST /v1/checkout/drafts"
	for strategy, want := range cases {
		got := buildRateKey(config.RateLimitConfig{Prefix: "aurora:rl", KeyStrategy: strategy}, c)
		if got != want {
			t.Errorf("%s: key = %q, want %q", strategy, got, want)
		}
	}
}

func TestParseDecision(t *testing.T) {
	d, err := parseDecision([]int64{0, 0, 1500})
	if err != nil || d.allowed || d.retry != 1500*time.Millisecond {
		t.Fatalf("decision = %+v, %v", d, err)
	}
	if _, err := parseDecision([]int64{1}); err == nil {
		t.Fatal("short reply accepted")
	}
}
