package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/simaogato/equity-outlook/internal/domain"
)

// Metrics holds the Prometheus collectors of the projection service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ProjectionDuration *prometheus.HistogramVec
	ProjectionErrors   *prometheus.CounterVec
	FetchDuration      *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ProjectionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "outlook_projection_duration_seconds",
				Help:    "Duration of one end-to-end computation in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"market", "result"},
		),
		ProjectionErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outlook_projection_errors_total",
				Help: "Failed computations by market and error kind",
			},
			[]string{"market", "kind"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "outlook_fetch_duration_seconds",
				Help:    "Duration of store fetches in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"op"},
		),
	}

	reg.MustRegister(m.ProjectionDuration, m.ProjectionErrors, m.FetchDuration)

	return m
}

// ObserveProjection records the outcome of one computation started at started
func (m *Metrics) ObserveProjection(market string, started time.Time, err error) {
	if m == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "error"
		m.ProjectionErrors.WithLabelValues(market, ErrorKind(err)).Inc()
	}
	m.ProjectionDuration.WithLabelValues(market, result).Observe(time.Since(started).Seconds())
}

// ObserveFetch records the duration of one store fetch
func (m *Metrics) ObserveFetch(op string, started time.Time) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// ErrorKind classifies err into a low-cardinality label
func ErrorKind(err error) string {
	var fetchErr *domain.UpstreamFetchError

	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, domain.ErrNoReferenceData):
		return "no_reference_data"
	case errors.Is(err, domain.ErrMissingLatestObservation):
		return "missing_latest_observation"
	case errors.Is(err, domain.ErrInvalidIndexValue), errors.Is(err, domain.ErrInvalidCorrelation):
		return "invalid_upstream_value"
	case errors.Is(err, domain.ErrUnknownMarket):
		return "unknown_market"
	case errors.As(err, &fetchErr):
		return "upstream_fetch"
	default:
		return "internal"
	}
}
