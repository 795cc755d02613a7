package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCollector(t *testing.T) {
	m := NewMetricsCollector()

	m.RecordOrderTransition("NEW", "PAID")
	m.RecordOrderTransition("NEW", "PAID")
	m.RecordOrderTransition("UPGRADE", "REFUNDED")
	m.RecordSweep(3)
	m.RecordGatewayCall("ALIPAY", "query", 10*time.Millisecond, nil)
	m.RecordGatewayCall("ALIPAY", "query", 10*time.Millisecond, errors.New("timeout"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.orderTransitionsTotal.WithLabelValues("NEW", "PAID")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orderTransitionsTotal.WithLabelValues("UPGRADE", "REFUNDED")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sweeperExpiredTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gatewayRequestsTotal.WithLabelValues("ALIPAY", "query", "error")))
}

func TestCollectorsAreIndependent(t *testing.T) {
	// creating two collectors must not panic on duplicate registration
	a := NewMetricsCollector()
	b := NewMetricsCollector()
	a.RecordSweep(1)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.sweeperExpiredTotal))
}

func TestHandler(t *testing.T) {
	m := NewMetricsCollector()
	m.RecordHTTPRequest("GET", "/membership/orders", "200", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
}
