package billing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeReading(t *testing.T) {
	testCases := []struct {
		name     string
		input    ReadingInput
		expected ReadingResult
	}{
		{
			name: "electricity usage billed at rate",
			input: ReadingInput{
				PreviousElectricity: 100, CurrentElectricity: 142.5,
				PreviousWater: 10, CurrentWater: 10,
				ElectricityRate: 7.0, WaterRate: 18.0,
			},
			expected: ReadingResult{
				PreviousElectricity: 100, CurrentElectricity: 142.5,
				PreviousWater: 10, CurrentWater: 10,
				ElectricityUsage: 42.5, ElectricityCost: 297.50,
				TotalAmount: 297.50,
			},
		},
		{
			name: "water meter going backwards is clamped to zero",
			input: ReadingInput{
				PreviousWater: 50, CurrentWater: 48,
				WaterRate: 18.0,
			},
			expected: ReadingResult{
				PreviousWater: 50, CurrentWater: 48,
				WaterUsage: 0, WaterCost: 0,
				WaterClamped: true,
			},
		},
		{
			name: "total is rent plus both utilities",
			input: ReadingInput{
				PreviousElectricity: 100, CurrentElectricity: 142.5,
				PreviousWater: 50, CurrentWater: 48,
				ElectricityRate: 7.0, WaterRate: 18.0,
				RentAmount: 3500,
			},
			expected: ReadingResult{
				PreviousElectricity: 100, CurrentElectricity: 142.5,
				PreviousWater: 50, CurrentWater: 48,
				ElectricityUsage: 42.5, ElectricityCost: 297.50,
				RentAmount: 3500, TotalAmount: 3797.50,
				WaterClamped: true,
			},
		},
		{
			name: "first reading from zero baseline",
			input: ReadingInput{
				CurrentElectricity: 12, CurrentWater: 3,
				ElectricityRate: 8, WaterRate: 20, RentAmount: 3000,
			},
			expected: ReadingResult{
				CurrentElectricity: 12, CurrentWater: 3,
				ElectricityUsage: 12, WaterUsage: 3,
				ElectricityCost: 96, WaterCost: 60,
				RentAmount: 3000, TotalAmount: 3156,
			},
		},
		{
			name: "zero rates bill rent only",
			input: ReadingInput{
				PreviousElectricity: 1, CurrentElectricity: 5,
				PreviousWater: 1, CurrentWater: 2,
				RentAmount: 2500,
			},
			expected: ReadingResult{
				PreviousElectricity: 1, CurrentElectricity: 5,
				PreviousWater: 1, CurrentWater: 2,
				ElectricityUsage: 4, WaterUsage: 1,
				RentAmount: 2500, TotalAmount: 2500,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.input.Validate())
			got := ComputeReading(tc.input)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestComputeReading_Properties(t *testing.T) {
	values := []float64{0, 0.1, 1, 48, 50, 99.9, 100, 142.5, 1e6}
	rates := []float64{0, 3.5, 7, 18}

	for _, prev := range values {
		for _, curr := range values {
			for _, rate := range rates {
				res := ComputeReading(ReadingInput{
					PreviousElectricity: prev, CurrentElectricity: curr,
					PreviousWater: prev, CurrentWater: curr,
					ElectricityRate: rate, WaterRate: rate,
					RentAmount: 1234.5,
				})

				if curr >= prev {
					assert.Equal(t, curr-prev, res.ElectricityUsage)
					assert.Equal(t, (curr-prev)*rate, res.ElectricityCost)
					assert.False(t, res.Clamped())
				} else {
					assert.Zero(t, res.ElectricityUsage)
					assert.Zero(t, res.ElectricityCost)
					assert.Zero(t, res.WaterUsage)
					assert.Zero(t, res.WaterCost)
					assert.True(t, res.Clamped())
				}
				assert.GreaterOrEqual(t, res.WaterUsage, 0.0)
				assert.GreaterOrEqual(t, res.ElectricityCost, 0.0)
				assert.Equal(t, res.RentAmount+res.ElectricityCost+res.WaterCost, res.TotalAmount)
			}
		}
	}
}

func TestComputeReading_Deterministic(t *testing.T) {
	in := ReadingInput{
		PreviousElectricity: 1.1, CurrentElectricity: 2.3,
		PreviousWater: 0.7, CurrentWater: 0.9,
		ElectricityRate: 7.3, WaterRate: 17.9, RentAmount: 3333.33,
	}
	assert.Equal(t, ComputeReading(in), ComputeReading(in))
}

func TestReadingInput_Validate(t *testing.T) {
	testCases := []struct {
		name  string
		input ReadingInput
	}{
		{"negative current electricity", ReadingInput{CurrentElectricity: -1}},
		{"negative previous water", ReadingInput{PreviousWater: -0.5}},
		{"negative rate", ReadingInput{ElectricityRate: -7}},
		{"negative rent", ReadingInput{RentAmount: -1}},
		{"NaN meter", ReadingInput{CurrentWater: math.NaN()}},
		{"infinite rate", ReadingInput{WaterRate: math.Inf(1)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.input.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}
