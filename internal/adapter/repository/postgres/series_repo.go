package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/simaogato/equity-outlook/internal/domain"
)

// seriesRepository implements domain.SeriesRepository
type seriesRepository struct {
	db *DB
}

// NewSeriesRepository creates a new series repository
func NewSeriesRepository(db *DB) domain.SeriesRepository {
	return &seriesRepository{db: db}
}

type observationRow struct {
	Date       time.Time       `db:"date"`
	Percentage sql.NullFloat64 `db:"percentage"`
}

type returnRow struct {
	Date          time.Time       `db:"date"`
	ForwardReturn sql.NullFloat64 `db:"forward_return"`
}

// AllocationSeries retrieves every allocation reading of the market, oldest first
func (r *seriesRepository) AllocationSeries(ctx context.Context, market domain.MarketConfig) ([]domain.Observation, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT date, percentage::FLOAT AS percentage
		FROM %s
		ORDER BY date ASC
	`, quoteTable(market.AllocationTable))

	var rows []observationRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to select allocation series from %s: %w", market.AllocationTable, err)
	}

	observations := make([]domain.Observation, 0, len(rows))
	for _, row := range rows {
		observations = append(observations, domain.Observation{
			Date:                 row.Date,
			AllocationPercentage: nullableFloat(row.Percentage),
		})
	}

	return observations, nil
}

// ForwardReturnSeries retrieves the annualized forward return series of the market, oldest first
func (r *seriesRepository) ForwardReturnSeries(ctx context.Context, market domain.MarketConfig) ([]domain.ReturnPoint, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT date, %s::FLOAT AS forward_return
		FROM %s
		ORDER BY date ASC
	`, pq.QuoteIdentifier(market.ReturnColumn), quoteTable(market.ReturnTable))

	var rows []returnRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to select forward return series from %s: %w", market.ReturnTable, err)
	}

	points := make([]domain.ReturnPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, domain.ReturnPoint{
			Date:          row.Date,
			ForwardReturn: nullableFloat(row.ForwardReturn),
		})
	}

	return points, nil
}

// CorrelationCoefficient retrieves the precomputed coefficient of the market
func (r *seriesRepository) CorrelationCoefficient(ctx context.Context, market domain.MarketConfig) (float64, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT %s::FLOAT AS coefficient
		FROM %s
		LIMIT 1
	`, pq.QuoteIdentifier(market.CorrelationColumn), quoteTable(market.CorrelationTable))

	var coefficient sql.NullFloat64
	err := r.db.GetContext(ctx, &coefficient, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("no correlation coefficient in %s: %w", market.CorrelationTable, err)
		}
		return 0, fmt.Errorf("failed to get correlation coefficient: %w", err)
	}

	if !coefficient.Valid {
		return 0, fmt.Errorf("correlation coefficient in %s is NULL", market.CorrelationTable)
	}

	return coefficient.Float64, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
