package predictor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records prediction outcomes on a registry owned by one Service.
type Metrics struct {
	registry *prometheus.Registry

	// predictionsTotal counts requests by outcome: ok or the error kind.
	predictionsTotal *prometheus.CounterVec
	// failureModes counts successful predictions by failure mode.
	failureModes *prometheus.CounterVec
	// duration tracks end-to-end request latency.
	duration prometheus.Histogram
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		predictionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shearpredict_predictions_total",
			Help: "Prediction requests by result",
		}, []string{"result"}),
		failureModes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shearpredict_prediction_failure_mode_total",
			Help: "Successful predictions by failure mode",
		}, []string{"mode"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "shearpredict_prediction_duration_seconds",
			Help:    "Prediction duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteFile dumps the registry in the Prometheus text format.
func (m *Metrics) WriteFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func (m *Metrics) observe(result string, mode FailureMode, seconds float64) {
	m.predictionsTotal.WithLabelValues(result).Inc()
	if mode != "" {
		m.failureModes.WithLabelValues(string(mode)).Inc()
	}
	m.duration.Observe(seconds)
}

// resultLabel names the outcome of a request for metrics and logs.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrInvalidFormat):
		return "invalid_format"
	case errors.Is(err, ErrFeatureConfig):
		return "feature_config"
	case errors.Is(err, ErrInference):
		return "inference"
	default:
		return "error"
	}
}
