package domain

import (
	"context"
	"time"
)

// SeriesRepository defines the read-only fetches the projection consumes.
// Every call receives the market configuration explicitly; implementations
// hold no per-market state.
type SeriesRepository interface {
	// AllocationSeries retrieves the allocation series ordered by ascending date
	AllocationSeries(ctx context.Context, market MarketConfig) ([]Observation, error)

	// ForwardReturnSeries retrieves the forward return series ordered by ascending date
	ForwardReturnSeries(ctx context.Context, market MarketConfig) ([]ReturnPoint, error)

	// CorrelationCoefficient retrieves the precomputed allocation/return correlation
	CorrelationCoefficient(ctx context.Context, market MarketConfig) (float64, error)
}

// IndexRepository defines the interface for index level lookups
type IndexRepository interface {
	// GetLatest retrieves the most recent index level
	// Returns nil, nil when the index table is empty
	GetLatest(ctx context.Context, market MarketConfig) (*IndexSnapshot, error)

	// GetAtOrBefore retrieves the most recent index level dated on or before date
	// Returns nil, nil when no such row exists
	GetAtOrBefore(ctx context.Context, market MarketConfig, date time.Time) (*IndexSnapshot, error)
}

// PassthroughRepository defines the fetches of the unemployment chart
type PassthroughRepository interface {
	// UnemploymentSeries retrieves the unemployment rate ordered by ascending date
	UnemploymentSeries(ctx context.Context, cfg PassthroughConfig) ([]UnemploymentPoint, error)

	// Recessions retrieves recession periods ordered by start date
	Recessions(ctx context.Context, cfg PassthroughConfig) ([]Recession, error)
}
