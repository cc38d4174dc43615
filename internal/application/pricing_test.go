package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printforge/printforge-api/internal/domain/entity"
)

func TestEstimateWorkedExample(t *testing.T) {
	spec := entity.PrintSpec{
		MaterialType:           "PLA",
		PrintTimeHours:         3.0,
		ElectricityCostPerHour: 5.0,
		ModelComplexity:        "medium",
		InfillPercentage:       20,
		LayerHeight:            0.2,
	}

	q := Estimate(spec)

	assert.InDelta(t, 15.0, q.Breakdown.ElectricityCost, 1e-9)
	// (3*5) * 0.2 * ((0.3-0.2)+1) = 3.3 cm³
	assert.InDelta(t, 3.3, q.Breakdown.MaterialVolumeCm3, 1e-9)
	assert.InDelta(t, 8.25, q.Breakdown.MaterialCost, 1e-9)
	assert.Equal(t, 1.5, q.Breakdown.ComplexityMultiplier)
	// subtotal = (15 + 8.25) * 1.5 = 34.875
	assert.InDelta(t, 10.4625, q.Breakdown.ServiceFee, 1e-9)
	assert.InDelta(t, 45.3375, q.TotalCost, 1e-9)
	assert.Equal(t, 45.34, Round2(q.TotalCost))

	assert.Equal(t, 3.0, q.CompletionHours)
	assert.Equal(t, 0.1, q.CompletionDays)
}

func TestEstimateIsDeterministic(t *testing.T) {
	spec := entity.PrintSpec{
		MaterialType:           "PETG",
		PrintTimeHours:         7.25,
		ElectricityCostPerHour: 4.8,
		ModelComplexity:        "complex",
		InfillPercentage:       35,
		LayerHeight:            0.12,
	}
	first := Estimate(spec)
	second := Estimate(spec)
	require.Equal(t, first, second)
}

func TestEstimateUnknownInputsFallBack(t *testing.T) {
	known := entity.PrintSpec{
		MaterialType:           "PLA",
		PrintTimeHours:         2,
		ElectricityCostPerHour: 5,
		ModelComplexity:        "simple",
		InfillPercentage:       20,
		LayerHeight:            0.2,
	}
	unknown := known
	unknown.MaterialType = "Unobtainium"
	unknown.ModelComplexity = "heroic"

	kq := Estimate(known)
	uq := Estimate(unknown)

	// Unknown material prices as the 2.5/cm³ default (same as PLA) and
	// unknown complexity multiplies by 1.0 (same as simple).
	assert.Equal(t, kq.Breakdown.MaterialCost, uq.Breakdown.MaterialCost)
	assert.Equal(t, 1.0, uq.Breakdown.ComplexityMultiplier)
	assert.Equal(t, kq.TotalCost, uq.TotalCost)
}

func TestEstimateMaterialTable(t *testing.T) {
	cases := []struct {
		material string
		perCm3   float64
	}{
		{"PLA", 2.5},
		{"ABS", 3.0},
		{"PETG", 3.5},
		{"TPU", 5.0},
		{"Wood", 4.0},
		{"Metal", 8.0},
		{"nylon", 2.5}, // case-sensitive table, unknown falls back
	}

	for _, tc := range cases {
		t.Run(tc.material, func(t *testing.T) {
			q := Estimate(entity.PrintSpec{
				MaterialType:           tc.material,
				PrintTimeHours:         1,
				ElectricityCostPerHour: 0,
				ModelComplexity:        "simple",
				InfillPercentage:       100,
				LayerHeight:            0.3,
			})
			// 5 cm³ * 1.0 infill * 1.0 layer modifier
			assert.InDelta(t, 5*tc.perCm3, q.Breakdown.MaterialCost, 1e-9)
		})
	}
}

func TestSpecInputResolveDefaults(t *testing.T) {
	spec := SpecInput{MaterialType: "ABS", PrintTimeHours: 2}.Resolve()
	assert.Equal(t, 5.0, spec.ElectricityCostPerHour)
	assert.Equal(t, 20, spec.InfillPercentage)
	assert.Equal(t, 0.2, spec.LayerHeight)

	// Explicit values survive.
	elec, infill, layer := 7.0, 60, 0.28
	spec = SpecInput{ElectricityCostPerHour: &elec, InfillPercentage: &infill, LayerHeight: &layer}.Resolve()
	assert.Equal(t, 7.0, spec.ElectricityCostPerHour)
	assert.Equal(t, 60, spec.InfillPercentage)
	assert.Equal(t, 0.28, spec.LayerHeight)
}

// An explicit zero is a value, not an omission: free electricity prices as 0
// and zero infill deposits no material.
func TestSpecInputResolveKeepsExplicitZeros(t *testing.T) {
	elec, infill := 0.0, 0
	spec := SpecInput{
		MaterialType:           "PLA",
		PrintTimeHours:         2,
		ElectricityCostPerHour: &elec,
		InfillPercentage:       &infill,
	}.Resolve()
	assert.Equal(t, 0.0, spec.ElectricityCostPerHour)
	assert.Equal(t, 0, spec.InfillPercentage)
	assert.Equal(t, 0.2, spec.LayerHeight) // untouched fields still default

	q := Estimate(spec)
	assert.Equal(t, 0.0, q.Breakdown.ElectricityCost)
	assert.Equal(t, 0.0, q.Breakdown.MaterialVolumeCm3)
	assert.Equal(t, 0.0, q.Breakdown.MaterialCost)
	assert.Equal(t, 0.0, q.TotalCost)
}
