package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/equity-outlook/internal/domain"
)

// indexRepository implements domain.IndexRepository
type indexRepository struct {
	db *DB
}

// NewIndexRepository creates a new index repository
func NewIndexRepository(db *DB) domain.IndexRepository {
	return &indexRepository{db: db}
}

type indexRow struct {
	Date  time.Time `db:"date"`
	Value string    `db:"value"`
}

// GetLatest retrieves the most recent index level of the market
func (r *indexRepository) GetLatest(ctx context.Context, market domain.MarketConfig) (*domain.IndexSnapshot, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT date, value::TEXT AS value
		FROM %s
		ORDER BY date DESC
		LIMIT 1
	`, quoteTable(market.IndexTable))

	var row indexRow
	err := r.db.GetContext(ctx, &row, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest index value: %w", err)
	}

	return row.toDomain()
}

// GetAtOrBefore retrieves the most recent index level dated on or before date
// Only the calendar day of date (UTC) is used
func (r *indexRepository) GetAtOrBefore(ctx context.Context, market domain.MarketConfig, date time.Time) (*domain.IndexSnapshot, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT date, value::TEXT AS value
		FROM %s
		WHERE date <= $1::date
		ORDER BY date DESC
		LIMIT 1
	`, quoteTable(market.IndexTable))

	var row indexRow
	err := r.db.GetContext(ctx, &row, query, domain.Day(date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get index value at or before %s: %w", domain.FormatISODate(date), err)
	}

	return row.toDomain()
}

func (row indexRow) toDomain() (*domain.IndexSnapshot, error) {
	// Parse value (NUMERIC)
	value, err := decimal.NewFromString(row.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to parse index value %q: %w", row.Value, err)
	}

	return &domain.IndexSnapshot{
		Date:  row.Date,
		Value: value,
	}, nil
}
