package crowd

import (
	"math"

	"crowdwatch-go/internal/config"
	"crowdwatch-go/internal/models"
)

// Model converts an occupied area into crowd size bounds using
// per-tier density coefficients (persons per square meter). The
// estimation follows the Jacobs crowd counting method: area times
// assumed density.
type Model struct {
	coefficients map[models.DensityTier]float64
}

// Range is the result of a density calculation. High is always pinned
// to the very_high tier regardless of the requested tier: it is the
// ceiling of plausible density, not a tier-relative bound.
type Range struct {
	Low      int     `json:"low"`
	Estimate int     `json:"estimate"`
	High     int     `json:"high"`
	Density  float64 `json:"density"`
}

func NewModel(cfg *config.Config) *Model {
	return &Model{
		coefficients: map[models.DensityTier]float64{
			models.DensityLow:      cfg.DensityLow,
			models.DensityMedium:   cfg.DensityMedium,
			models.DensityHigh:     cfg.DensityHigh,
			models.DensityVeryHigh: cfg.DensityVeryHigh,
		},
	}
}

// ComputeRange returns low/estimate/high bounds for the given area and
// density tier. An unrecognized tier falls back to medium; zero area
// yields all zeros.
func (m *Model) ComputeRange(areaSquareMeters float64, tier models.DensityTier) Range {
	density, ok := m.coefficients[tier]
	if !ok {
		density = m.coefficients[models.DensityMedium]
	}

	return Range{
		Low:      int(math.Round(areaSquareMeters * m.coefficients[models.DensityLow])),
		Estimate: int(math.Round(areaSquareMeters * density)),
		High:     int(math.Round(areaSquareMeters * m.coefficients[models.DensityVeryHigh])),
		Density:  density,
	}
}
