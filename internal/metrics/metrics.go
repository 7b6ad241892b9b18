package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "studymart"

// CheckoutMetrics is safe to use as a nil pointer; every method is then a no-op.
type CheckoutMetrics struct {
	Attempts             *prometheus.CounterVec
	StepDuration         *prometheus.HistogramVec
	CapturedWithoutOrder prometheus.Counter
	Rejected             prometheus.Counter
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "attempts_total",
		Help:      "Checkout attempts by terminal outcome and failure kind.",
	}, []string{"outcome", "kind"})
	steps := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "step_duration_seconds",
		Help:      "Time spent in each checkout state.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"state"})
	captured := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "captured_without_order_total",
		Help:      "Payments confirmed by the processor whose order could not be persisted.",
	})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "rejected_total",
		Help:      "Checkout triggers ignored because an attempt was already in flight.",
	})

	reg.MustRegister(attempts, steps, captured, rejected)
	return &CheckoutMetrics{
		Attempts:             attempts,
		StepDuration:         steps,
		CapturedWithoutOrder: captured,
		Rejected:             rejected,
	}
}

func (m *CheckoutMetrics) ObserveOutcome(outcome, kind string) {
	if m == nil {
		return
	}
	m.Attempts.WithLabelValues(outcome, kind).Inc()
}

func (m *CheckoutMetrics) ObserveStep(state string, d time.Duration) {
	if m == nil {
		return
	}
	m.StepDuration.WithLabelValues(state).Observe(d.Seconds())
}

func (m *CheckoutMetrics) ObserveCapturedWithoutOrder() {
	if m == nil {
		return
	}
	m.CapturedWithoutOrder.Inc()
}

func (m *CheckoutMetrics) ObserveRejected() {
	if m == nil {
		return
	}
	m.Rejected.Inc()
}

type ServerMetrics struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer, service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route"})

	reg.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, Latency: latency}
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Push replaces the job's metric group on a Pushgateway with everything g
// gathers. Short-lived processes call it once before exiting.
func Push(ctx context.Context, url, job string, g prometheus.Gatherer, grouping map[string]string) error {
	pusher := push.New(url, job).Gatherer(g)
	for name, value := range grouping {
		pusher = pusher.Grouping(name, value)
	}

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
