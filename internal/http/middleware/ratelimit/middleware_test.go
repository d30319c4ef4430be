package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
	testlog "service-delivery/internal/testutil"
)

type stubLimiter struct {
	decision Decision
	keys     []string
}

func (s *stubLimiter) Take(key string) Decision {
	s.keys = append(s.keys, key)
	return s.decision
}

func okHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*calls++
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_Allowed_PassesAndReportsRemaining(t *testing.T) {
	t.Parallel()

	calls := 0
	h := New(logx.Nop(), nil, &stubLimiter{decision: Decision{Allowed: true, Remaining: 4}}).Handler()(okHandler(&calls))

	r := httptest.NewRequest(http.MethodGet, "http://example/api/v1/deliveries", nil)
	r.RemoteAddr = "1.2.3.4:5678"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, calls)
	require.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
}

func TestMiddleware_Unlimited_NoRemainingHeader(t *testing.T) {
	t.Parallel()

	calls := 0
	h := New(nil, nil, nil).Handler()(okHandler(&calls))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://example/", nil))

	require.Equal(t, 1, calls)
	require.Empty(t, w.Header().Get("X-RateLimit-Remaining"))
}

func TestMiddleware_Denied_Returns429(t *testing.T) {
	t.Parallel()

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "ratelimit_denied_total", Help: "denied requests"})
	rec := testlog.New()
	calls := 0
	lim := &stubLimiter{decision: Decision{RetryAfter: 2300 * time.Millisecond}}
	h := New(rec.Logger(), counter, lim).Handler()(okHandler(&calls))

	r := httptest.NewRequest(http.MethodPost, "http://example/api/v1/deliveries", nil)
	r.RemoteAddr = "1.2.3.4:5678"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, 0, calls)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.Equal(t, "3", w.Header().Get("Retry-After"))
	require.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	require.JSONEq(t, `{"success":false,"error":"too many requests","errorCode":"RATE_LIMITED"}`, w.Body.String())
	require.Equal(t, float64(1), testutil.ToFloat64(counter))
	require.True(t, rec.Has("warn", "rate limit exceeded"))
}

func TestMiddleware_KeysByActorThenIP(t *testing.T) {
	t.Parallel()

	calls := 0
	lim := &stubLimiter{decision: Decision{Allowed: true, Remaining: -1}}
	h := New(logx.Nop(), nil, lim).Handler()(okHandler(&calls))

	anon := httptest.NewRequest(http.MethodGet, "http://example/test", nil)
	anon.RemoteAddr = "1.2.3.4:5678"
	h.ServeHTTP(httptest.NewRecorder(), anon)

	authed := httptest.NewRequest(http.MethodGet, "http://example/test", nil)
	authed.RemoteAddr = "1.2.3.4:5678"
	authed = authed.WithContext(domain.WithActor(authed.Context(), domain.Actor{ID: "agent-9", Role: domain.RoleAgent}))
	h.ServeHTTP(httptest.NewRecorder(), authed)

	require.Equal(t, []string{"ip:1.2.3.4", "actor:agent-9"}, lim.keys)
}

func TestRetryAfterSeconds(t *testing.T) {
	t.Parallel()

	cases := map[time.Duration]string{
		0:                       "1",
		300 * time.Millisecond:  "1",
		time.Second:             "1",
		1001 * time.Millisecond: "2",
		90 * time.Second:        "90",
	}
	for in, want := range cases {
		require.Equal(t, want, retryAfterSeconds(in), in.String())
	}
}

func TestClientIP_Fallbacks(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "not-a-hostport"
	require.Equal(t, "not-a-hostport", clientIP(r))

	r.RemoteAddr = ""
	require.Equal(t, "unknown", clientIP(r))
}
