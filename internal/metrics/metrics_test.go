package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/simaogato/equity-outlook/internal/domain"
)

func TestObserveProjection(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveProjection("usa", time.Now(), nil)
	m.ObserveProjection("usa", time.Now(), fmt.Errorf("wrapped: %w", domain.ErrNoReferenceData))
	m.ObserveProjection("europe", time.Now(), domain.ErrInsufficientData)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProjectionErrors.WithLabelValues("usa", "no_reference_data")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProjectionErrors.WithLabelValues("europe", "insufficient_data")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ProjectionErrors.WithLabelValues("usa", "insufficient_data")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.ProjectionDuration))
}

func TestObserveFetch(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveFetch("allocation_series", time.Now())
	m.ObserveFetch("latest_index", time.Now())

	assert.Equal(t, 2, testutil.CollectAndCount(m.FetchDuration))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveProjection("usa", time.Now(), errors.New("boom"))
		m.ObserveFetch("latest_index", time.Now())
	})
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"insufficient data", domain.ErrInsufficientData, "insufficient_data"},
		{"no reference", domain.ErrNoReferenceData, "no_reference_data"},
		{"missing latest", domain.ErrMissingLatestObservation, "missing_latest_observation"},
		{"invalid index", domain.ErrInvalidIndexValue, "invalid_upstream_value"},
		{"invalid correlation", domain.ErrInvalidCorrelation, "invalid_upstream_value"},
		{"unknown market", domain.ErrUnknownMarket, "unknown_market"},
		{"upstream", &domain.UpstreamFetchError{Op: "latest index", Err: errors.New("timeout")}, "upstream_fetch"},
		{"other", errors.New("boom"), "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorKind(tt.err))
		})
	}
}
