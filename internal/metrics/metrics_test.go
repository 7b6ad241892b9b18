package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.ObserveOutcome("failed", "OrderPersistError")
	m.ObserveOutcome("failed", "OrderPersistError")
	m.ObserveOutcome("succeeded", "")
	m.ObserveCapturedWithoutOrder()
	m.ObserveRejected()
	m.ObserveStep("PresentingProcessor", 2*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Attempts.WithLabelValues("failed", "OrderPersistError")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Attempts.WithLabelValues("succeeded", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CapturedWithoutOrder))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejected))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StepDuration))
}

func TestNilCheckoutMetricsIsNoop(t *testing.T) {
	var m *CheckoutMetrics

	assert.NotPanics(t, func() {
		m.ObserveOutcome("failed", "EmptyCart")
		m.ObserveStep("Idle", time.Second)
		m.ObserveCapturedWithoutOrder()
		m.ObserveRejected()
	})
}

func TestPush(t *testing.T) {
	var method, path string
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)
	m.ObserveCapturedWithoutOrder()

	err := Push(context.Background(), srv.URL, "studymart_storefront", reg, map[string]string{"session": "s1"})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/studymart_storefront/session/s1", path)
	assert.Contains(t, string(body), "studymart_checkout_captured_without_order_total")
}

func TestPush_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	NewCheckoutMetrics(reg).ObserveRejected()

	assert.Error(t, Push(context.Background(), srv.URL, "studymart_storefront", reg, nil))
}
