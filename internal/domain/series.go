package domain

import "time"

// Observation is one reporting period of the equity allocation series
// AllocationPercentage is nil when the source has no reading for the period
type Observation struct {
	Date                 time.Time
	AllocationPercentage *float64
}

// ReturnPoint is one reporting period of the annualized forward return series
// ForwardReturn is nil while the forward horizon has not elapsed yet
type ReturnPoint struct {
	Date          time.Time
	ForwardReturn *float64
}

// JoinedRecord is an allocation observation paired with the forward return
// whose offset-adjusted month matches it.
// AllocationPercentage is always present; ForwardReturn may be nil.
type JoinedRecord struct {
	Date                 time.Time
	AllocationPercentage float64
	ForwardReturn        *float64
}

// HasReturn reports whether the record can be used to fit a regression
func (r JoinedRecord) HasReturn() bool {
	return r.ForwardReturn != nil
}

// RegressionModel is an ordinary least squares line y = Slope*x + Intercept
type RegressionModel struct {
	Slope     float64
	Intercept float64

	// SampleSize is the number of (x, y) pairs the line was fitted on
	SampleSize int
	// RSquared is the in-sample coefficient of determination of the fit
	RSquared float64
}

// ProjectionResult is the complete outcome of one projection request
type ProjectionResult struct {
	Market              string
	Title               string
	Model               RegressionModel
	ExpectedReturn      float64
	Drift               float64
	DriftAdjustedReturn float64
	CorrelationSquared  float64
	LastAllocationDate  time.Time
	LastIndexDate       time.Time
	Series              []JoinedRecord
}
