package drift

import (
	"errors"
	"fmt"
	"math"

	"github.com/simaogato/equity-outlook/internal/domain"
)

// Compute returns the compounded annualized index movement between the
// reference snapshot (at or before the last allocation reading) and the latest one:
//
//	drift = (latest / reference) ^ (1 / horizonYears) - 1
//
// The exponent uses the fixed horizon, not the time elapsed between the two dates.
func Compute(latest, reference domain.IndexSnapshot, horizonYears float64) (float64, error) {
	if horizonYears <= 0 {
		return 0, errors.New("horizon must be positive")
	}

	if !latest.IsPositive() {
		return 0, fmt.Errorf("%w: latest level %s on %s", domain.ErrInvalidIndexValue, latest.Value, domain.FormatISODate(latest.Date))
	}
	if !reference.IsPositive() {
		return 0, fmt.Errorf("%w: reference level %s on %s", domain.ErrInvalidIndexValue, reference.Value, domain.FormatISODate(reference.Date))
	}

	ratio := latest.Value.DivRound(reference.Value, 16).InexactFloat64()

	return math.Pow(ratio, 1/horizonYears) - 1, nil
}

// Adjust folds the drift into the regression point estimate
func Adjust(expectedReturn, drift float64) float64 {
	return expectedReturn + drift
}
