package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when fewer than two usable pairs remain for the fit
	ErrInsufficientData = errors.New("insufficient data for regression")

	// ErrNoReferenceData is returned when no index level exists at or before the reference date
	ErrNoReferenceData = errors.New("no index value at or before reference date")

	// ErrMissingLatestObservation is returned when the allocation or index series is empty
	ErrMissingLatestObservation = errors.New("missing latest observation")

	// ErrInvalidIndexValue is returned when an index level is not strictly positive
	ErrInvalidIndexValue = errors.New("invalid index value")

	// ErrInvalidCorrelation is returned when the upstream coefficient is outside [-1, 1]
	ErrInvalidCorrelation = errors.New("invalid correlation coefficient")

	// ErrUnknownMarket is returned when a market name is not configured
	ErrUnknownMarket = errors.New("unknown market")
)

// UpstreamFetchError wraps a failure of one collaborator fetch
type UpstreamFetchError struct {
	Op     string
	Market string
	Err    error
}

func (e *UpstreamFetchError) Error() string {
	if e.Market == "" {
		return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("fetch %s for market %s: %v", e.Op, e.Market, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}
