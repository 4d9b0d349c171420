package domain

import (
	"errors"
	"fmt"
	"regexp"
)

// DefaultHorizonYears is the forward return horizon used for drift correction
const DefaultHorizonYears = 10

// MarketConfig describes where one market variant reads its series from and
// how its return series lines up with its allocation series.
// The domestic and international variants differ only in these values.
type MarketConfig struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`

	AllocationTable string `yaml:"allocation_table"`

	ReturnTable  string `yaml:"return_table"`
	ReturnColumn string `yaml:"return_column"`

	IndexTable string `yaml:"index_table"`

	CorrelationTable  string `yaml:"correlation_table"`
	CorrelationColumn string `yaml:"correlation_column"`

	// ReturnMonthOffset is added to the month of each return point before it
	// is compared with the month of an allocation observation
	ReturnMonthOffset int `yaml:"return_month_offset"`

	HorizonYears float64 `yaml:"horizon_years"`
}

// PassthroughConfig names the tables used by the unemployment chart
type PassthroughConfig struct {
	Title             string `yaml:"title"`
	UnemploymentTable string `yaml:"unemployment_table"`
	RecessionTable    string `yaml:"recession_table"`
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidIdentifier reports whether name is a bare or schema-qualified SQL identifier
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// Horizon returns the configured horizon, falling back to DefaultHorizonYears
func (m MarketConfig) Horizon() float64 {
	if m.HorizonYears <= 0 {
		return DefaultHorizonYears
	}
	return m.HorizonYears
}

// Validate ensures the market configuration can be turned into store queries
func (m MarketConfig) Validate() error {
	if m.Name == "" {
		return errors.New("market name cannot be empty")
	}

	identifiers := []struct {
		field string
		value string
	}{
		{"allocation_table", m.AllocationTable},
		{"return_table", m.ReturnTable},
		{"return_column", m.ReturnColumn},
		{"index_table", m.IndexTable},
		{"correlation_table", m.CorrelationTable},
		{"correlation_column", m.CorrelationColumn},
	}
	for _, id := range identifiers {
		if !ValidIdentifier(id.value) {
			return fmt.Errorf("market %s: invalid %s %q", m.Name, id.field, id.value)
		}
	}

	if m.HorizonYears < 0 {
		return fmt.Errorf("market %s: horizon_years must be positive", m.Name)
	}

	return nil
}

// Validate ensures both passthrough tables are usable identifiers
func (p PassthroughConfig) Validate() error {
	if !ValidIdentifier(p.UnemploymentTable) {
		return fmt.Errorf("passthrough: invalid unemployment_table %q", p.UnemploymentTable)
	}
	if !ValidIdentifier(p.RecessionTable) {
		return fmt.Errorf("passthrough: invalid recession_table %q", p.RecessionTable)
	}
	return nil
}
