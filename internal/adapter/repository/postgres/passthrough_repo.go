package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/simaogato/equity-outlook/internal/domain"
)

// passthroughRepository implements domain.PassthroughRepository
type passthroughRepository struct {
	db *DB
}

// NewPassthroughRepository creates a new repository for the unemployment chart
func NewPassthroughRepository(db *DB) domain.PassthroughRepository {
	return &passthroughRepository{db: db}
}

type unemploymentRow struct {
	Date          time.Time       `db:"date"`
	Rate          float64         `db:"rate"`
	MovingAverage sql.NullFloat64 `db:"moving_average"`
}

type recessionRow struct {
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
}

// UnemploymentSeries retrieves the monthly unemployment rate, oldest first
func (r *passthroughRepository) UnemploymentSeries(ctx context.Context, cfg domain.PassthroughConfig) ([]domain.UnemploymentPoint, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT date, rate::FLOAT AS rate, moving_average::FLOAT AS moving_average
		FROM %s
		ORDER BY date ASC
	`, quoteTable(cfg.UnemploymentTable))

	var rows []unemploymentRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to select unemployment series: %w", err)
	}

	points := make([]domain.UnemploymentPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, domain.UnemploymentPoint{
			Date:          row.Date,
			Rate:          row.Rate,
			MovingAverage: nullableFloat(row.MovingAverage),
		})
	}

	return points, nil
}

// Recessions retrieves every recession period ordered by start date
func (r *passthroughRepository) Recessions(ctx context.Context, cfg domain.PassthroughConfig) ([]domain.Recession, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT start_date, end_date
		FROM %s
		ORDER BY start_date ASC
	`, quoteTable(cfg.RecessionTable))

	var rows []recessionRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to select recessions: %w", err)
	}

	recessions := make([]domain.Recession, 0, len(rows))
	for _, row := range rows {
		recessions = append(recessions, domain.Recession{
			StartDate: row.StartDate,
			EndDate:   row.EndDate,
		})
	}

	return recessions, nil
}
