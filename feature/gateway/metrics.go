package gateway

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer captures telemetry for dispatched operations.
type Observer interface {
	RecordOperation(operation string, duration time.Duration, tokens int, err error)
}

// PrometheusObserver exports gateway metrics to Prometheus.
type PrometheusObserver struct {
	duration   *prometheus.HistogramVec
	operations *prometheus.CounterVec
	tokens     *prometheus.CounterVec
}

// NewPrometheusObserver registers the gateway metrics on reg. Metrics that are already
// registered (a second observer in the same process) are reused.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "storage_gateway"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Latency of gateway operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Gateway operations by outcome.",
	}, []string{"operation", "status"})
	tokens := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_used_total",
		Help:      "Synthetic cost units consumed by gateway operations.",
	}, []string{"operation"})

	var err error
	o := &PrometheusObserver{}
	if o.duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if o.operations, err = register(reg, operations); err != nil {
		return nil, err
	}
	if o.tokens, err = register(reg, tokens); err != nil {
		return nil, err
	}
	return o, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register gateway metric: %w", err)
	}
	return c, nil
}

// RecordOperation tracks duration, outcome and synthetic token usage.
func (o *PrometheusObserver) RecordOperation(operation string, duration time.Duration, tokens int, err error) {
	if o == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	o.duration.WithLabelValues(operation).Observe(duration.Seconds())
	o.operations.WithLabelValues(operation, status).Inc()
	if tokens > 0 {
		o.tokens.WithLabelValues(operation).Add(float64(tokens))
	}
}

type nopObserver struct{}

func (nopObserver) RecordOperation(string, time.Duration, int, error) {}

var _ Observer = (*PrometheusObserver)(nil)
