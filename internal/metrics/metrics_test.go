package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/profilegate/internal/access"
)

func TestMetrics_ObserversAndHandler(t *testing.T) {
	m, err := New(nil, nil)
	require.NoError(t, err)

	m.ObserveDecision(access.OpSetRole, access.AccessDecision{Allow: false, Reason: access.ReasonNotAdmin})
	m.ObserveRoleWrite(access.PathProcedure, errors.New("missing"))
	m.ObserveRoleWrite(access.PathDirect, nil)
	m.ObserveHTTP("GET", "/api/profile", 200, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisionsTotal.WithLabelValues("mutate_role", "false", "not_admin")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.roleWritesTotal.WithLabelValues("procedure", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.roleWritesTotal.WithLabelValues("direct", "ok")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `http_requests_total{method="GET",path="/api/profile",status="200"} 1`), body)
}

func TestMetrics_ReuseRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m1, err := New(reg, reg)
	require.NoError(t, err)
	m2, err := New(reg, reg)
	require.NoError(t, err)

	m1.ObserveRateLimited("/api/profiles")
	assert.Equal(t, 1.0, testutil.ToFloat64(m2.rateLimitedTotal.WithLabelValues("/api/profiles")))
}
