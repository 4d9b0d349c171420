package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/simaogato/equity-outlook/internal/domain"
)

// MinPairs is the smallest sample a line can be fitted on
const MinPairs = 2

// Fit computes the ordinary least squares line through (xs[i], ys[i])
// Logic:
//   - xs are allocation percentages, ys the matching forward returns
//   - Fewer than MinPairs pairs, or allocations that never vary, fail with ErrInsufficientData
//   - The fit is closed form (means and sums of products), so identical input gives identical output
func Fit(xs, ys []float64) (domain.RegressionModel, error) {
	if len(xs) != len(ys) {
		return domain.RegressionModel{}, fmt.Errorf("regression input length mismatch: %d x values, %d y values", len(xs), len(ys))
	}

	if len(xs) < MinPairs {
		return domain.RegressionModel{}, fmt.Errorf("%w: %d usable pairs, need at least %d", domain.ErrInsufficientData, len(xs), MinPairs)
	}

	if stat.Variance(xs, nil) == 0 {
		return domain.RegressionModel{}, fmt.Errorf("%w: allocation values have no variance", domain.ErrInsufficientData)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	rSquared := stat.RSquared(xs, ys, nil, intercept, slope)
	if math.IsNaN(rSquared) || math.IsInf(rSquared, 0) {
		// constant y: the line is exact but R² is undefined
		rSquared = 0
	}

	return domain.RegressionModel{
		Slope:      slope,
		Intercept:  intercept,
		SampleSize: len(xs),
		RSquared:   rSquared,
	}, nil
}

// Predict evaluates the fitted line at x
func Predict(model domain.RegressionModel, x float64) float64 {
	return model.Slope*x + model.Intercept
}
