package application

import (
	"math"

	"github.com/printforge/printforge-api/internal/domain/entity"
)

// Material price table, rubles per cm³. Unknown materials price as PLA.
var materialPricePerCm3 = map[string]float64{
	"PLA":   2.5,
	"ABS":   3.0,
	"PETG":  3.5,
	"TPU":   5.0,
	"Wood":  4.0,
	"Metal": 8.0,
}

const defaultPricePerCm3 = 2.5

var complexityMultipliers = map[string]float64{
	"simple":  1.0,
	"medium":  1.5,
	"complex": 2.0,
}

const (
	// Empirical deposition rate: a printer consumes roughly 5 cm³ of
	// material per hour of printing.
	volumePerHourCm3 = 5.0
	serviceFeeRate   = 0.30

	defaultElectricityCostPerHour = 5.0
	defaultInfillPercentage       = 20
	defaultLayerHeight            = 0.2
)

// CostBreakdown itemizes a quote. Values are kept at full float precision;
// rounding to 2 decimals happens only when a response is serialized.
type CostBreakdown struct {
	ElectricityCost      float64
	MaterialCost         float64
	ServiceFee           float64
	ComplexityMultiplier float64
	MaterialVolumeCm3    float64
}

// Quote is the full output of the estimator.
type Quote struct {
	Breakdown       CostBreakdown
	TotalCost       float64
	CompletionHours float64
	CompletionDays  float64
}

// SpecInput is a print spec as it arrives at the API boundary. The optional
// fields are pointers so an explicit zero stays distinguishable from an
// absent field.
type SpecInput struct {
	MaterialType           string
	PrintTimeHours         float64
	ElectricityCostPerHour *float64
	ModelComplexity        string
	InfillPercentage       *int
	LayerHeight            *float64
}

// Resolve applies the documented defaults to absent optional fields only; a
// field the client sent, zero included, flows through untouched. Called once
// at the boundary so the stored order snapshot matches what was priced.
func (in SpecInput) Resolve() entity.PrintSpec {
	spec := entity.PrintSpec{
		MaterialType:           in.MaterialType,
		PrintTimeHours:         in.PrintTimeHours,
		ElectricityCostPerHour: defaultElectricityCostPerHour,
		ModelComplexity:        in.ModelComplexity,
		InfillPercentage:       defaultInfillPercentage,
		LayerHeight:            defaultLayerHeight,
	}
	if in.ElectricityCostPerHour != nil {
		spec.ElectricityCostPerHour = *in.ElectricityCostPerHour
	}
	if in.InfillPercentage != nil {
		spec.InfillPercentage = *in.InfillPercentage
	}
	if in.LayerHeight != nil {
		spec.LayerHeight = *in.LayerHeight
	}
	return spec
}

// Estimate prices a print job. It is pure and total: identical input gives
// bit-identical output, and unknown material or complexity values fall back
// to defaults instead of failing.
func Estimate(spec entity.PrintSpec) Quote {
	electricity := spec.PrintTimeHours * spec.ElectricityCostPerHour

	baseVolume := spec.PrintTimeHours * volumePerHourCm3
	infillModifier := float64(spec.InfillPercentage) / 100.0
	// Finer layers deposit more material; the modifier shrinks as layer
	// height approaches 0.3 and beyond.
	layerHeightModifier := (0.3 - spec.LayerHeight) + 1
	volume := baseVolume * infillModifier * layerHeightModifier

	price, ok := materialPricePerCm3[spec.MaterialType]
	if !ok {
		price = defaultPricePerCm3
	}
	materialCost := volume * price

	multiplier, ok := complexityMultipliers[spec.ModelComplexity]
	if !ok {
		multiplier = 1.0
	}

	subtotal := (electricity + materialCost) * multiplier
	fee := subtotal * serviceFeeRate

	return Quote{
		Breakdown: CostBreakdown{
			ElectricityCost:      electricity,
			MaterialCost:         materialCost,
			ServiceFee:           fee,
			ComplexityMultiplier: multiplier,
			MaterialVolumeCm3:    volume,
		},
		TotalCost:       subtotal + fee,
		CompletionHours: spec.PrintTimeHours,
		CompletionDays:  Round1(spec.PrintTimeHours / 24),
	}
}

// Round2 rounds a monetary value to 2 decimal places for responses.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to 1 decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
