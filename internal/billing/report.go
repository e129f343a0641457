package billing

import (
	"sort"
	"time"

	"property-backoffice/internal/model"
)

// MonthlyAggregate is the sum of all readings billed in one calendar month.
type MonthlyAggregate struct {
	Month            time.Time `json:"month"`
	TotalAmount      float64   `json:"totalAmount"`
	RentAmount       float64   `json:"rentAmount"`
	ElectricityCost  float64   `json:"electricityCost"`
	WaterCost        float64   `json:"waterCost"`
	ElectricityUsage float64   `json:"electricityUsage"`
	WaterUsage       float64   `json:"waterUsage"`
	Readings         int       `json:"readings"`
}

// MonthlyProfit is one row of the net-profit trend.
type MonthlyProfit struct {
	Month       time.Time `json:"month"`
	Revenue     float64   `json:"revenue"`
	Mortgage    float64   `json:"mortgage"`
	Expenses    float64   `json:"expenses"`
	Maintenance float64   `json:"maintenance"`
	NetProfit   float64   `json:"netProfit"`
}

// MonthStart normalises t to the first instant of its calendar month in UTC.
func MonthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AggregateMonthly folds readings into chronological per-month totals.
// Months without readings are absent.
func AggregateMonthly(readings []model.MeterReading) []MonthlyAggregate {
	buckets := make(map[time.Time]*MonthlyAggregate)
	for _, r := range readings {
		key := MonthStart(r.BillingMonth)
		agg, ok := buckets[key]
		if !ok {
			agg = &MonthlyAggregate{Month: key}
			buckets[key] = agg
		}
		agg.TotalAmount += r.TotalAmount
		agg.RentAmount += r.RentAmount
		agg.ElectricityCost += r.ElecCost
		agg.WaterCost += r.WaterCost
		agg.ElectricityUsage += r.ElecUsage
		agg.WaterUsage += r.WaterUsage
		agg.Readings++
	}

	out := make([]MonthlyAggregate, 0, len(buckets))
	for _, agg := range buckets {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// SumByMonth buckets arbitrary dated amounts by calendar month.
func SumByMonth[T any](items []T, date func(T) time.Time, amount func(T) float64) map[time.Time]float64 {
	sums := make(map[time.Time]float64)
	for _, it := range items {
		sums[MonthStart(date(it))] += amount(it)
	}
	return sums
}

// NetProfit subtracts the flat mortgage payment and the month's expenses and
// maintenance costs from each month's revenue. Only months present in
// monthly are reported.
func NetProfit(monthly []MonthlyAggregate, mortgageMonthly float64, expenses, maintenance map[time.Time]float64) []MonthlyProfit {
	out := make([]MonthlyProfit, 0, len(monthly))
	for _, m := range monthly {
		exp := expenses[m.Month]
		mnt := maintenance[m.Month]
		out = append(out, MonthlyProfit{
			Month:       m.Month,
			Revenue:     m.TotalAmount,
			Mortgage:    mortgageMonthly,
			Expenses:    exp,
			Maintenance: mnt,
			NetProfit:   m.TotalAmount - (mortgageMonthly + exp + mnt),
		})
	}
	return out
}
