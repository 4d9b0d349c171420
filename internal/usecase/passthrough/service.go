package passthrough

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/simaogato/equity-outlook/internal/domain"
	"github.com/simaogato/equity-outlook/internal/metrics"
)

const metricsLabel = "unemployment"

// PassthroughService serves the unemployment vs recession chart
type PassthroughService struct {
	Repo    domain.PassthroughRepository
	Config  domain.PassthroughConfig
	Metrics *metrics.Metrics
}

// NewPassthroughService creates a new PassthroughService instance
func NewPassthroughService(repo domain.PassthroughRepository, cfg domain.PassthroughConfig, m *metrics.Metrics) *PassthroughService {
	return &PassthroughService{
		Repo:    repo,
		Config:  cfg,
		Metrics: m,
	}
}

// ComputePassthroughSeries fetches both series concurrently and returns them unchanged
// Logic:
//   - Unemployment rate series and recession periods are independent reads (barrier)
//   - The last updated date is the date of the latest unemployment reading
//   - An empty unemployment series is an error, an empty recession list is not
func (s *PassthroughService) ComputePassthroughSeries(ctx context.Context) (*domain.PassthroughSeries, error) {
	started := time.Now()

	result, err := s.compute(ctx)
	s.Metrics.ObserveProjection(metricsLabel, started, err)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Unemployment series failed")
		return nil, err
	}

	return result, nil
}

func (s *PassthroughService) compute(ctx context.Context) (*domain.PassthroughSeries, error) {
	var (
		unemployment []domain.UnemploymentPoint
		recessions   []domain.Recession
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer s.Metrics.ObserveFetch("unemployment_series", time.Now())

		rows, err := s.Repo.UnemploymentSeries(gctx, s.Config)
		if err != nil {
			return &domain.UpstreamFetchError{Op: "unemployment series", Err: err}
		}
		unemployment = rows
		return nil
	})

	g.Go(func() error {
		defer s.Metrics.ObserveFetch("recessions", time.Now())

		rows, err := s.Repo.Recessions(gctx, s.Config)
		if err != nil {
			return &domain.UpstreamFetchError{Op: "recessions", Err: err}
		}
		recessions = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(unemployment) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrMissingLatestObservation, s.Config.UnemploymentTable)
	}

	if recessions == nil {
		recessions = []domain.Recession{}
	}

	return &domain.PassthroughSeries{
		Title:           s.Config.Title,
		Primary:         unemployment,
		Secondary:       recessions,
		LastUpdatedDate: unemployment[len(unemployment)-1].Date,
	}, nil
}
