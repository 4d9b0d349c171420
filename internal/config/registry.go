package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/simaogato/equity-outlook/internal/domain"
)

//go:embed markets.yaml
var defaultRegistry []byte

// Registry lists the configured markets and the unemployment chart tables
type Registry struct {
	Markets     []domain.MarketConfig    `yaml:"markets"`
	Passthrough domain.PassthroughConfig `yaml:"passthrough"`
}

// LoadRegistry reads the registry from path, or the embedded default when path is empty
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return ParseRegistry(defaultRegistry)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read market registry: %w", err)
	}
	return ParseRegistry(data)
}

// ParseRegistry decodes and validates a YAML registry
func ParseRegistry(data []byte) (*Registry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var reg Registry
	if err := dec.Decode(&reg); err != nil {
		return nil, fmt.Errorf("decode market registry: %w", err)
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Validate checks every market and rejects duplicate names
func (r *Registry) Validate() error {
	if len(r.Markets) == 0 {
		return errors.New("market registry has no markets")
	}

	seen := make(map[string]bool, len(r.Markets))
	for _, m := range r.Markets {
		if err := m.Validate(); err != nil {
			return err
		}
		if seen[m.Name] {
			return fmt.Errorf("duplicate market %q", m.Name)
		}
		seen[m.Name] = true
	}

	return r.Passthrough.Validate()
}

// Lookup returns the configuration of the named market
func (r *Registry) Lookup(name string) (domain.MarketConfig, error) {
	for _, m := range r.Markets {
		if m.Name == name {
			return m, nil
		}
	}
	return domain.MarketConfig{}, fmt.Errorf("%w: %q", domain.ErrUnknownMarket, name)
}
