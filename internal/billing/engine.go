// Package billing holds the pure billing rules: reading computation, the
// payment toggle and the monthly reporting folds. Nothing here touches the
// database; the store layer persists what these functions return.
package billing

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned for negative or non-finite meter values, rates or rent.
var ErrInvalidInput = errors.New("invalid billing input")

// ReadingInput is everything needed to bill one room for one month.
type ReadingInput struct {
	PreviousElectricity float64
	CurrentElectricity  float64
	PreviousWater       float64
	CurrentWater        float64
	ElectricityRate     float64
	WaterRate           float64
	RentAmount          float64
}

// ReadingResult is the computed bill, ready to persist.
type ReadingResult struct {
	PreviousElectricity float64
	CurrentElectricity  float64
	PreviousWater       float64
	CurrentWater        float64

	ElectricityUsage float64
	WaterUsage       float64
	ElectricityCost  float64
	WaterCost        float64
	RentAmount       float64
	TotalAmount      float64

	// Set when current < previous and the usage was clamped to zero.
	ElectricityClamped bool
	WaterClamped       bool
}

// Clamped reports whether either meter went backwards.
func (r ReadingResult) Clamped() bool {
	return r.ElectricityClamped || r.WaterClamped
}

// Validate rejects inputs ComputeReading cannot bill.
func (in ReadingInput) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"previous electricity", in.PreviousElectricity},
		{"current electricity", in.CurrentElectricity},
		{"previous water", in.PreviousWater},
		{"current water", in.CurrentWater},
		{"electricity rate", in.ElectricityRate},
		{"water rate", in.WaterRate},
		{"rent amount", in.RentAmount},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidInput, f.name)
		}
		if f.value < 0 {
			return fmt.Errorf("%w: %s must not be negative (got %v)", ErrInvalidInput, f.name, f.value)
		}
	}
	return nil
}

// ComputeReading derives usage, cost and total from meter values and rates.
// Usage never goes below zero: a meter reading lower than the previous one
// (reset or typo) bills zero units. No rounding is applied.
func ComputeReading(in ReadingInput) ReadingResult {
	elecUsage, elecClamped := usage(in.PreviousElectricity, in.CurrentElectricity)
	waterUsage, waterClamped := usage(in.PreviousWater, in.CurrentWater)

	elecCost := elecUsage * in.ElectricityRate
	waterCost := waterUsage * in.WaterRate

	return ReadingResult{
		PreviousElectricity: in.PreviousElectricity,
		CurrentElectricity:  in.CurrentElectricity,
		PreviousWater:       in.PreviousWater,
		CurrentWater:        in.CurrentWater,
		ElectricityUsage:    elecUsage,
		WaterUsage:          waterUsage,
		ElectricityCost:     elecCost,
		WaterCost:           waterCost,
		RentAmount:          in.RentAmount,
		TotalAmount:         in.RentAmount + elecCost + waterCost,
		ElectricityClamped:  elecClamped,
		WaterClamped:        waterClamped,
	}
}

func usage(previous, current float64) (float64, bool) {
	if current < previous {
		return 0, true
	}
	return current - previous, false
}
