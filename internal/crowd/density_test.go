package crowd

import (
	"testing"

	"crowdwatch-go/internal/config"
	"crowdwatch-go/internal/models"
)

func testModel() *Model {
	return NewModel(&config.Config{
		DensityLow:      0.5,
		DensityMedium:   1.5,
		DensityHigh:     3.0,
		DensityVeryHigh: 5.0,
	})
}

func TestComputeRangePerTier(t *testing.T) {
	m := testModel()

	cases := []struct {
		tier models.DensityTier
		want int
	}{
		{models.DensityLow, 500},
		{models.DensityMedium, 1500},
		{models.DensityHigh, 3000},
		{models.DensityVeryHigh, 5000},
	}

	for _, tc := range cases {
		r := m.ComputeRange(1000, tc.tier)
		if r.Estimate != tc.want {
			t.Errorf("ComputeRange(1000, %s).Estimate = %d, want %d", tc.tier, r.Estimate, tc.want)
		}
		if r.Low != 500 {
			t.Errorf("ComputeRange(1000, %s).Low = %d, want 500", tc.tier, r.Low)
		}
		// High is always pinned to the very_high tier
		if r.High != 5000 {
			t.Errorf("ComputeRange(1000, %s).High = %d, want 5000", tc.tier, r.High)
		}
	}
}

func TestComputeRangeOrdering(t *testing.T) {
	r := testModel().ComputeRange(2000, models.DensityMedium)
	if !(r.Low < r.Estimate && r.Estimate < r.High) {
		t.Fatalf("expected low < estimate < high, got %+v", r)
	}
}

func TestComputeRangeZeroArea(t *testing.T) {
	for _, tier := range []models.DensityTier{models.DensityLow, models.DensityMedium, models.DensityHigh, models.DensityVeryHigh} {
		r := testModel().ComputeRange(0, tier)
		if r.Low != 0 || r.Estimate != 0 || r.High != 0 {
			t.Errorf("ComputeRange(0, %s) = %+v, want all zero", tier, r)
		}
	}
}

func TestComputeRangeInvalidTierFallsBackToMedium(t *testing.T) {
	r := testModel().ComputeRange(1000, models.DensityTier("sardine"))
	if r.Estimate != 1500 {
		t.Fatalf("invalid tier estimate = %d, want medium fallback 1500", r.Estimate)
	}
	if r.Density != 1.5 {
		t.Fatalf("invalid tier density = %v, want 1.5", r.Density)
	}
}
