package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-backoffice/internal/model"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestMonthStart(t *testing.T) {
	in := time.Date(2024, 5, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, month(2024, 5), MonthStart(in))

	// 2024-06-01 03:00 in UTC+7 is still May in UTC.
	local := time.Date(2024, 6, 1, 3, 0, 0, 0, time.FixedZone("ICT", 7*3600))
	assert.Equal(t, month(2024, 5), MonthStart(local))
}

func TestAggregateMonthly(t *testing.T) {
	readings := []model.MeterReading{
		{BillingMonth: month(2024, 6), TotalAmount: 3600, RentAmount: 3000, ElecCost: 400, WaterCost: 200, ElecUsage: 57, WaterUsage: 11},
		{BillingMonth: month(2024, 5), TotalAmount: 3797.50, RentAmount: 3500, ElecCost: 297.50, ElecUsage: 42.5},
		{BillingMonth: time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), TotalAmount: 4000, RentAmount: 3500, ElecCost: 320, WaterCost: 180, ElecUsage: 40, WaterUsage: 10},
	}

	got := AggregateMonthly(readings)
	require.Len(t, got, 2)

	assert.Equal(t, month(2024, 5), got[0].Month)
	assert.Equal(t, 7797.50, got[0].TotalAmount)
	assert.Equal(t, 7000.0, got[0].RentAmount)
	assert.Equal(t, 617.50, got[0].ElectricityCost)
	assert.Equal(t, 180.0, got[0].WaterCost)
	assert.Equal(t, 82.5, got[0].ElectricityUsage)
	assert.Equal(t, 10.0, got[0].WaterUsage)
	assert.Equal(t, 2, got[0].Readings)

	assert.Equal(t, month(2024, 6), got[1].Month)
	assert.Equal(t, 3600.0, got[1].TotalAmount)
	assert.Equal(t, 1, got[1].Readings)
}

func TestAggregateMonthly_NoZeroFill(t *testing.T) {
	readings := []model.MeterReading{
		{BillingMonth: month(2024, 1), TotalAmount: 1},
		{BillingMonth: month(2024, 4), TotalAmount: 2},
	}
	got := AggregateMonthly(readings)
	require.Len(t, got, 2)
	assert.Equal(t, month(2024, 1), got[0].Month)
	assert.Equal(t, month(2024, 4), got[1].Month)

	assert.Empty(t, AggregateMonthly(nil))
}

func TestNetProfit(t *testing.T) {
	monthly := []MonthlyAggregate{
		{Month: month(2024, 5), TotalAmount: 7797.50},
		{Month: month(2024, 6), TotalAmount: 3600},
	}
	expenses := map[time.Time]float64{month(2024, 5): 500, month(2024, 7): 999}
	maintenance := map[time.Time]float64{month(2024, 6): 250}

	got := NetProfit(monthly, 2000, expenses, maintenance)
	require.Len(t, got, 2)

	assert.Equal(t, MonthlyProfit{
		Month: month(2024, 5), Revenue: 7797.50, Mortgage: 2000, Expenses: 500, NetProfit: 5297.50,
	}, got[0])
	assert.Equal(t, MonthlyProfit{
		Month: month(2024, 6), Revenue: 3600, Mortgage: 2000, Maintenance: 250, NetProfit: 1350,
	}, got[1])
}

func TestSumByMonth(t *testing.T) {
	type cost struct {
		at     time.Time
		amount float64
	}
	items := []cost{
		{time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), 10},
		{time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC), 5},
		{time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), 7},
	}
	got := SumByMonth(items, func(c cost) time.Time { return c.at }, func(c cost) float64 { return c.amount })
	assert.Equal(t, map[time.Time]float64{month(2024, 3): 15, month(2024, 4): 7}, got)
}
