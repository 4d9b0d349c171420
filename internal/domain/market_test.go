package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validMarket() MarketConfig {
	return MarketConfig{
		Name:              "usa",
		AllocationTable:   "usa.stock_asset_allocation",
		ReturnTable:       "analysis.sp_500_annualized_return",
		ReturnColumn:      "return_10",
		IndexTable:        "usa.sp_500_daily",
		CorrelationTable:  "analysis.usa_stock_allocation_vs_return_corr",
		CorrelationColumn: "return_10",
		ReturnMonthOffset: -2,
		HorizonYears:      10,
	}
}

func TestMarketConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *MarketConfig)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid market",
			mutate:  func(m *MarketConfig) {},
			wantErr: false,
		},
		{
			name:    "empty name",
			mutate:  func(m *MarketConfig) { m.Name = "" },
			wantErr: true,
			errMsg:  "market name cannot be empty",
		},
		{
			name:    "injection in table name",
			mutate:  func(m *MarketConfig) { m.IndexTable = "usa.sp_500_daily; DROP TABLE x" },
			wantErr: true,
			errMsg:  "invalid index_table",
		},
		{
			name:    "three part identifier",
			mutate:  func(m *MarketConfig) { m.ReturnTable = "db.analysis.returns" },
			wantErr: true,
			errMsg:  "invalid return_table",
		},
		{
			name:    "missing correlation column",
			mutate:  func(m *MarketConfig) { m.CorrelationColumn = "" },
			wantErr: true,
			errMsg:  "invalid correlation_column",
		},
		{
			name:    "negative horizon",
			mutate:  func(m *MarketConfig) { m.HorizonYears = -1 },
			wantErr: true,
			errMsg:  "horizon_years must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMarket()
			tt.mutate(&m)

			err := m.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMarketConfig_Horizon(t *testing.T) {
	m := validMarket()
	m.HorizonYears = 0
	assert.Equal(t, float64(DefaultHorizonYears), m.Horizon())

	m.HorizonYears = 5
	assert.Equal(t, 5.0, m.Horizon())
}

func TestPassthroughConfig_Validate(t *testing.T) {
	cfg := PassthroughConfig{UnemploymentTable: "usa.unemployment_rate", RecessionTable: "usa.recessions"}
	assert.NoError(t, cfg.Validate())

	cfg.RecessionTable = "usa.recessions--"
	assert.Error(t, cfg.Validate())
}

func TestFormatDates(t *testing.T) {
	// 23:30 in New York is already the next day in GMT
	ny := time.FixedZone("EST", -5*60*60)
	d := time.Date(2020, time.February, 29, 23, 30, 0, 0, ny)

	assert.Equal(t, "2020-03-01", FormatISODate(d))
	assert.Equal(t, "3/1/2020", FormatDisplayDate(d))
	assert.Equal(t, "12/31/2019", FormatDisplayDate(time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestMonthIndex(t *testing.T) {
	jan1 := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	jan31 := time.Date(2020, time.January, 31, 23, 59, 59, 0, time.UTC)
	feb1 := time.Date(2020, time.February, 1, 0, 0, 0, 0, time.UTC)
	dec := time.Date(2019, time.December, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, MonthIndex(jan1), MonthIndex(jan31))
	assert.Equal(t, MonthIndex(jan1)+1, MonthIndex(feb1))
	assert.Equal(t, MonthIndex(jan1)-1, MonthIndex(dec))
}

func TestDay(t *testing.T) {
	d := time.Date(2021, time.June, 30, 18, 45, 12, 99, time.UTC)
	assert.Equal(t, time.Date(2021, time.June, 30, 0, 0, 0, 0, time.UTC), Day(d))
}

func TestIndexSnapshot_IsPositive(t *testing.T) {
	assert.True(t, IndexSnapshot{Value: decimal.NewFromFloat(0.01)}.IsPositive())
	assert.False(t, IndexSnapshot{Value: decimal.Zero}.IsPositive())
	assert.False(t, IndexSnapshot{Value: decimal.NewFromInt(-3)}.IsPositive())
}

func TestUpstreamFetchError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("compute projection: %w", &UpstreamFetchError{Op: "allocation series", Market: "usa", Err: cause})

	var fetchErr *UpstreamFetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "allocation series", fetchErr.Op)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "fetch allocation series for market usa: connection refused")

	noMarket := &UpstreamFetchError{Op: "recessions", Err: cause}
	assert.Equal(t, "fetch recessions: connection refused", noMarket.Error())
}
