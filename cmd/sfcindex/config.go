package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/radiant-maxar/geowave/pkg/dimension"
	"github.com/radiant-maxar/geowave/pkg/tiered"
)

// dimensionConfig is one entry of a strategyConfig's "dimensions" array.
type dimensionConfig struct {
	Name   string  `json:"name"`
	Kind   string  `json:"kind"` // "bounded", "periodic", or "calendarBinned"
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`

	// calendarBinned fields.
	FixedBinIDSize int    `json:"fixedBinIDSize,omitempty"`
	ReferenceEpoch string `json:"referenceEpoch,omitempty"`
	Unit           string `json:"unit,omitempty"` // "year", "month", "day"
}

// strategyConfig is the on-disk description the CLI reads: enough to
// build a tiered.Strategy via CreateEqualIntervalPrecisionTieredStrategy.
type strategyConfig struct {
	Dimensions                           []dimensionConfig `json:"dimensions"`
	BitsPerDimension                     []uint            `json:"bitsPerDimension"`
	NumTiers                             int               `json:"numTiers"`
	MaxEstimatedDuplicateIdsPerDimension uint64            `json:"maxEstimatedDuplicateIdsPerDimension"`
}

func loadStrategyConfig(path string) (*strategyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	var cfg strategyConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}

	return &cfg, nil
}

func (cfg *strategyConfig) buildDimensions() ([]dimension.Definition, error) {
	dims := make([]dimension.Definition, 0, len(cfg.Dimensions))

	for _, dc := range cfg.Dimensions {
		switch dc.Kind {
		case "bounded":
			d, err := dimension.NewBounded(dc.Name, dc.Min, dc.Max)
			if err != nil {
				return nil, err
			}
			dims = append(dims, d)

		case "periodic":
			d, err := dimension.NewPeriodic(dc.Name, dc.Min, dc.Max)
			if err != nil {
				return nil, err
			}
			dims = append(dims, d)

		case "calendarBinned":
			ref, err := time.Parse(time.RFC3339, dc.ReferenceEpoch)
			if err != nil {
				return nil, fmt.Errorf("dimension %q: invalid referenceEpoch: %w", dc.Name, err)
			}
			unit, err := parseCalendarUnit(dc.Unit)
			if err != nil {
				return nil, fmt.Errorf("dimension %q: %w", dc.Name, err)
			}
			d, err := dimension.NewCalendarBinned(dc.Name, dc.FixedBinIDSize, ref, unit)
			if err != nil {
				return nil, err
			}
			dims = append(dims, d)

		default:
			return nil, fmt.Errorf("dimension %q: unknown kind %q", dc.Name, dc.Kind)
		}
	}

	return dims, nil
}

func parseCalendarUnit(s string) (dimension.CalendarUnit, error) {
	switch s {
	case "year", "":
		return dimension.Year, nil
	case "month":
		return dimension.Month, nil
	case "day":
		return dimension.Day, nil
	default:
		return 0, fmt.Errorf("unknown calendar unit %q", s)
	}
}

func (cfg *strategyConfig) buildStrategy() (*tiered.Strategy, error) {
	dims, err := cfg.buildDimensions()
	if err != nil {
		return nil, err
	}
	if len(dims) != len(cfg.BitsPerDimension) {
		return nil, fmt.Errorf("config has %d dimensions but %d bitsPerDimension entries", len(dims), len(cfg.BitsPerDimension))
	}

	return tiered.CreateEqualIntervalPrecisionTieredStrategy(
		dims, cfg.BitsPerDimension, cfg.NumTiers, cfg.MaxEstimatedDuplicateIdsPerDimension)
}
