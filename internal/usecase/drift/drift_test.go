package drift

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/equity-outlook/internal/domain"
)

func snapshot(value string, date time.Time) domain.IndexSnapshot {
	return domain.IndexSnapshot{Date: date, Value: decimal.RequireFromString(value)}
}

func TestCompute_Growth(t *testing.T) {
	latest := snapshot("110", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	reference := snapshot("100", time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC))

	d, err := Compute(latest, reference, 10)

	require.NoError(t, err)
	assert.InDelta(t, 0.009576, d, 1e-6)
	assert.InDelta(t, math.Pow(1.1, 0.1)-1, d, 1e-12)
}

func TestCompute_Decline(t *testing.T) {
	latest := snapshot("90", time.Now())
	reference := snapshot("100", time.Now())

	d, err := Compute(latest, reference, 10)

	require.NoError(t, err)
	assert.Less(t, d, 0.0)
	assert.InDelta(t, math.Pow(0.9, 0.1)-1, d, 1e-12)
}

func TestCompute_Unchanged(t *testing.T) {
	d, err := Compute(snapshot("4512.25", time.Now()), snapshot("4512.25", time.Now()), 10)

	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestCompute_CustomHorizon(t *testing.T) {
	d, err := Compute(snapshot("121", time.Now()), snapshot("100", time.Now()), 2)

	require.NoError(t, err)
	assert.InDelta(t, 0.1, d, 1e-12)
}

func TestCompute_InvalidValues(t *testing.T) {
	tests := []struct {
		name      string
		latest    string
		reference string
	}{
		{name: "zero reference", latest: "110", reference: "0"},
		{name: "negative reference", latest: "110", reference: "-5"},
		{name: "zero latest", latest: "0", reference: "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(snapshot(tt.latest, time.Now()), snapshot(tt.reference, time.Now()), 10)

			assert.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidIndexValue))
		})
	}
}

func TestCompute_InvalidHorizon(t *testing.T) {
	_, err := Compute(snapshot("110", time.Now()), snapshot("100", time.Now()), 0)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "horizon must be positive")
}

func TestAdjust(t *testing.T) {
	expected := 0.0412
	d := math.Pow(1.1, 0.1) - 1

	assert.Equal(t, expected+d, Adjust(expected, d))
}
