package passthrough

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/equity-outlook/internal/domain"
)

// MockPassthroughRepository is a mock implementation of PassthroughRepository for testing
type MockPassthroughRepository struct {
	mock.Mock
}

func (m *MockPassthroughRepository) UnemploymentSeries(ctx context.Context, cfg domain.PassthroughConfig) ([]domain.UnemploymentPoint, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UnemploymentPoint), args.Error(1)
}

func (m *MockPassthroughRepository) Recessions(ctx context.Context, cfg domain.PassthroughConfig) ([]domain.Recession, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Recession), args.Error(1)
}

var cfg = domain.PassthroughConfig{
	Title:             "U.S. Unemployment Rate vs 12 Month Moving Average",
	UnemploymentTable: "usa.unemployment_rate",
	RecessionTable:    "usa.recessions",
}

func date(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func TestComputePassthroughSeries_Success(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockPassthroughRepository)

	service := NewPassthroughService(mockRepo, cfg, nil)

	avg := 4.1
	unemployment := []domain.UnemploymentPoint{
		{Date: date(2019, time.December), Rate: 3.6, MovingAverage: &avg},
		{Date: date(2020, time.January), Rate: 3.5, MovingAverage: nil},
	}
	recessions := []domain.Recession{
		{StartDate: date(2007, time.December), EndDate: date(2009, time.June)},
	}

	mockRepo.On("UnemploymentSeries", mock.Anything, cfg).Return(unemployment, nil)
	mockRepo.On("Recessions", mock.Anything, cfg).Return(recessions, nil)

	result, err := service.ComputePassthroughSeries(ctx)

	require.NoError(t, err)
	assert.Equal(t, cfg.Title, result.Title)
	assert.Equal(t, unemployment, result.Primary)
	assert.Equal(t, recessions, result.Secondary)
	assert.Equal(t, date(2020, time.January), result.LastUpdatedDate)

	mockRepo.AssertExpectations(t)
}

func TestComputePassthroughSeries_NoRecessions(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockPassthroughRepository)

	service := NewPassthroughService(mockRepo, cfg, nil)

	unemployment := []domain.UnemploymentPoint{{Date: date(2020, time.January), Rate: 3.5}}
	mockRepo.On("UnemploymentSeries", mock.Anything, cfg).Return(unemployment, nil)
	mockRepo.On("Recessions", mock.Anything, cfg).Return(nil, nil)

	result, err := service.ComputePassthroughSeries(ctx)

	require.NoError(t, err)
	assert.NotNil(t, result.Secondary)
	assert.Empty(t, result.Secondary)
}

func TestComputePassthroughSeries_EmptyUnemployment(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockPassthroughRepository)

	service := NewPassthroughService(mockRepo, cfg, nil)

	mockRepo.On("UnemploymentSeries", mock.Anything, cfg).Return([]domain.UnemploymentPoint{}, nil)
	mockRepo.On("Recessions", mock.Anything, cfg).Return([]domain.Recession{}, nil)

	result, err := service.ComputePassthroughSeries(ctx)

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domain.ErrMissingLatestObservation))
}

func TestComputePassthroughSeries_UpstreamFailure(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockPassthroughRepository)

	service := NewPassthroughService(mockRepo, cfg, nil)

	mockRepo.On("UnemploymentSeries", mock.Anything, cfg).Return([]domain.UnemploymentPoint{}, nil).Maybe()
	mockRepo.On("Recessions", mock.Anything, cfg).Return(nil, errors.New("relation does not exist"))

	result, err := service.ComputePassthroughSeries(ctx)

	assert.Nil(t, result)

	var fetchErr *domain.UpstreamFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "recessions", fetchErr.Op)
	assert.Contains(t, err.Error(), "relation does not exist")
}
