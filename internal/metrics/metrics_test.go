package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector_counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuthOutcome("authenticated")
	c.RecordAuthOutcome("authenticated")
	c.RecordAuthOutcome("session_expired")
	c.RecordLogin("invalid_credentials")
	c.RecordRefreshFailure()
	c.RecordHTTPRequest(http.MethodPost, "/posts", http.StatusCreated, 15*time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(c.authOutcomes.WithLabelValues("authenticated")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.authOutcomes.WithLabelValues("session_expired")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.logins.WithLabelValues("invalid_credentials")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.refreshFailures))
	require.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("POST", "/posts", "201")))
}

func TestHandler_exposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRefreshFailure()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "sampleapp_session_refresh_failures_total 1")
}
