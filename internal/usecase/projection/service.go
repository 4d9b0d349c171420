package projection

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/simaogato/equity-outlook/internal/domain"
	"github.com/simaogato/equity-outlook/internal/metrics"
	"github.com/simaogato/equity-outlook/internal/usecase/aligner"
	"github.com/simaogato/equity-outlook/internal/usecase/drift"
	"github.com/simaogato/equity-outlook/internal/usecase/regression"
)

// ProjectionService computes drift-adjusted expected returns for one market at a time
type ProjectionService struct {
	SeriesRepo domain.SeriesRepository
	IndexRepo  domain.IndexRepository
	Metrics    *metrics.Metrics
}

// NewProjectionService creates a new ProjectionService instance
// m may be nil, in which case nothing is recorded
func NewProjectionService(seriesRepo domain.SeriesRepository, indexRepo domain.IndexRepository, m *metrics.Metrics) *ProjectionService {
	return &ProjectionService{
		SeriesRepo: seriesRepo,
		IndexRepo:  indexRepo,
		Metrics:    m,
	}
}

// ComputeProjection runs the full computation for market
// Logic:
//  1. Fetch the allocation series, the forward return series and the correlation concurrently (barrier)
//  2. Align both series on calendar month
//  3. Fit the regression on the records carrying a return
//  4. Evaluate the line at the latest allocation percentage
//  5. Fetch the latest index level and the level at or before the latest allocation date concurrently (barrier)
//  6. Add the annualized index drift to the point estimate
//  7. Square the correlation coefficient for reporting
//
// Any failure aborts the request; no partial result is returned.
func (s *ProjectionService) ComputeProjection(ctx context.Context, market domain.MarketConfig) (*domain.ProjectionResult, error) {
	started := time.Now()
	logger := zerolog.Ctx(ctx).With().Str("market", market.Name).Logger()

	result, err := s.computeProjection(ctx, market)
	s.Metrics.ObserveProjection(market.Name, started, err)
	if err != nil {
		logger.Warn().Err(err).Msg("Projection failed")
		return nil, err
	}

	logger.Debug().
		Int("sample_size", result.Model.SampleSize).
		Float64("expected_return", result.ExpectedReturn).
		Float64("drift_adjusted_return", result.DriftAdjustedReturn).
		Dur("duration", time.Since(started)).
		Msg("Projection computed")

	return result, nil
}

func (s *ProjectionService) computeProjection(ctx context.Context, market domain.MarketConfig) (*domain.ProjectionResult, error) {
	// 1. Series and correlation
	observations, returns, correlation, err := s.fetchSeries(ctx, market)
	if err != nil {
		return nil, err
	}

	// 2. Alignment
	series := aligner.Align(observations, returns, market.ReturnMonthOffset)
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: allocation series for market %s has no readings", domain.ErrMissingLatestObservation, market.Name)
	}

	// 3. Regression over the records with a known forward return
	xs, ys := aligner.Pairs(series)
	model, err := regression.Fit(xs, ys)
	if err != nil {
		return nil, fmt.Errorf("fit market %s: %w", market.Name, err)
	}

	// 4. Point estimate at the latest allocation
	last := series[len(series)-1]
	expectedReturn := regression.Predict(model, last.AllocationPercentage)

	// 5. Index levels, which need the latest allocation date from step 2
	latest, reference, err := s.fetchIndexLevels(ctx, market, last.Date)
	if err != nil {
		return nil, err
	}

	// 6. Drift correction
	d, err := drift.Compute(*latest, *reference, market.Horizon())
	if err != nil {
		return nil, fmt.Errorf("drift for market %s: %w", market.Name, err)
	}

	// 7. Correlation
	correlationSquared, err := CorrelationSquared(correlation)
	if err != nil {
		return nil, fmt.Errorf("market %s: %w", market.Name, err)
	}

	return &domain.ProjectionResult{
		Market:              market.Name,
		Title:               market.Title,
		Model:               model,
		ExpectedReturn:      expectedReturn,
		Drift:               d,
		DriftAdjustedReturn: drift.Adjust(expectedReturn, d),
		CorrelationSquared:  correlationSquared,
		LastAllocationDate:  last.Date,
		LastIndexDate:       latest.Date,
		Series:              series,
	}, nil
}

// fetchSeries fans out the three independent reads and waits for all of them
func (s *ProjectionService) fetchSeries(ctx context.Context, market domain.MarketConfig) ([]domain.Observation, []domain.ReturnPoint, float64, error) {
	var (
		observations []domain.Observation
		returns      []domain.ReturnPoint
		correlation  float64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer s.Metrics.ObserveFetch("allocation_series", time.Now())

		rows, err := s.SeriesRepo.AllocationSeries(gctx, market)
		if err != nil {
			return &domain.UpstreamFetchError{Op: "allocation series", Market: market.Name, Err: err}
		}
		observations = rows
		return nil
	})

	g.Go(func() error {
		defer s.Metrics.ObserveFetch("forward_return_series", time.Now())

		rows, err := s.SeriesRepo.ForwardReturnSeries(gctx, market)
		if err != nil {
			return &domain.UpstreamFetchError{Op: "forward return series", Market: market.Name, Err: err}
		}
		returns = rows
		return nil
	})

	g.Go(func() error {
		defer s.Metrics.ObserveFetch("correlation", time.Now())

		r, err := s.SeriesRepo.CorrelationCoefficient(gctx, market)
		if err != nil {
			return &domain.UpstreamFetchError{Op: "correlation coefficient", Market: market.Name, Err: err}
		}
		correlation = r
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, 0, err
	}

	return observations, returns, correlation, nil
}

// fetchIndexLevels reads the latest index level and the level in force on referenceDate
func (s *ProjectionService) fetchIndexLevels(ctx context.Context, market domain.MarketConfig, referenceDate time.Time) (*domain.IndexSnapshot, *domain.IndexSnapshot, error) {
	var latest, reference *domain.IndexSnapshot

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer s.Metrics.ObserveFetch("latest_index", time.Now())

		snap, err := s.IndexRepo.GetLatest(gctx, market)
		if err != nil {
			return &domain.UpstreamFetchError{Op: "latest index value", Market: market.Name, Err: err}
		}
		latest = snap
		return nil
	})

	g.Go(func() error {
		defer s.Metrics.ObserveFetch("reference_index", time.Now())

		snap, err := s.IndexRepo.GetAtOrBefore(gctx, market, referenceDate)
		if err != nil {
			return &domain.UpstreamFetchError{Op: "reference index value", Market: market.Name, Err: err}
		}
		reference = snap
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if latest == nil {
		return nil, nil, fmt.Errorf("%w: index %s is empty", domain.ErrMissingLatestObservation, market.IndexTable)
	}
	if reference == nil {
		return nil, nil, fmt.Errorf("%w: index %s has no value on or before %s",
			domain.ErrNoReferenceData, market.IndexTable, domain.FormatISODate(referenceDate))
	}

	return latest, reference, nil
}

// CorrelationSquared squares the upstream correlation coefficient
// Coefficients outside [-1, 1] are rejected rather than clamped
func CorrelationSquared(r float64) (float64, error) {
	if math.IsNaN(r) || r < -1 || r > 1 {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidCorrelation, r)
	}
	return r * r, nil
}
