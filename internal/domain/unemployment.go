package domain

import "time"

// UnemploymentPoint is one month of the unemployment rate series
type UnemploymentPoint struct {
	Date          time.Time
	Rate          float64
	MovingAverage *float64 // 12 month moving average, nil for the first months
}

// Recession is one recession period, used to shade the unemployment chart
type Recession struct {
	StartDate time.Time
	EndDate   time.Time
}

// PassthroughSeries is the result of the unemployment chart computation.
// No regression is performed; both series are returned as read.
type PassthroughSeries struct {
	Title           string
	Primary         []UnemploymentPoint
	Secondary       []Recession
	LastUpdatedDate time.Time
}
