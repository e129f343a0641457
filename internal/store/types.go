package store

import (
	"time"

	"property-backoffice/internal/billing"
	"property-backoffice/internal/model"
)

// MeterInput is the operator's entry for one room. Previous values are
// optional; when nil they are resolved from the latest earlier reading.
type MeterInput struct {
	CurrentElectricity  float64
	CurrentWater        float64
	PreviousElectricity *float64
	PreviousWater       *float64
}

// BatchEntry is one room's row in a billing-cycle submission. A nil current
// value marks the row incomplete and it is skipped.
type BatchEntry struct {
	RoomID              string   `json:"roomId"`
	CurrentElectricity  *float64 `json:"currentElectricity"`
	CurrentWater        *float64 `json:"currentWater"`
	PreviousElectricity *float64 `json:"previousElectricity"`
	PreviousWater       *float64 `json:"previousWater"`
}

// SkippedEntry explains why a batch row produced no reading.
type SkippedEntry struct {
	RoomID string `json:"roomId"`
	Reason string `json:"reason"`
}

// ClampWarning flags a saved reading whose meter went backwards.
type ClampWarning struct {
	RoomID      string `json:"roomId"`
	ReadingID   string `json:"readingId"`
	Electricity bool   `json:"electricity"`
	Water       bool   `json:"water"`
}

// BatchResult is the outcome of SubmitReadings. Skipped rows were invalid
// input; Failed rows hit a persistence error.
type BatchResult struct {
	BillingMonth time.Time            `json:"billingMonth"`
	Saved        []model.MeterReading `json:"saved"`
	Skipped      []SkippedEntry       `json:"skipped"`
	Failed       []SkippedEntry       `json:"failed"`
	Warnings     []ClampWarning       `json:"warnings"`
}

// Baseline is the previous meter state offered for a new reading.
type Baseline struct {
	ElectricityMeter float64    `json:"electricityMeter"`
	WaterMeter       float64    `json:"waterMeter"`
	Found            bool       `json:"found"`
	BillingMonth     *time.Time `json:"billingMonth,omitempty"`
}

// UtilityRow is one room on the meter-entry screen.
type UtilityRow struct {
	Room     model.Room          `json:"room"`
	Previous Baseline            `json:"previous"`
	Current  *model.MeterReading `json:"current"`
}

// UtilitySheet is the meter-entry screen for one apartment and month.
type UtilitySheet struct {
	Apartment    model.Apartment `json:"apartment"`
	BillingMonth time.Time       `json:"billingMonth"`
	Rows         []UtilityRow    `json:"rows"`
}

// ApartmentSummary is an apartment with room counts for list views.
type ApartmentSummary struct {
	model.Apartment
	TotalRooms    int64 `json:"totalRooms"`
	OccupiedRooms int64 `json:"occupiedRooms"`
}

// ApartmentUpdate carries the fields to change; nil fields are left alone.
type ApartmentUpdate struct {
	Name            *string
	Address         *string
	ElectricityRate *float64
	WaterRate       *float64
	DefaultRent     *float64
}

// FinanceReport is everything the finance screen shows for one apartment.
type FinanceReport struct {
	Apartment     model.Apartment            `json:"apartment"`
	Since         time.Time                  `json:"since"`
	Mortgage      *model.Mortgage            `json:"mortgage"`
	Monthly       []billing.MonthlyAggregate `json:"monthly"`
	Profit        []billing.MonthlyProfit    `json:"profit"`
	Expenses      []model.Expense            `json:"expenses"`
	Maintenance   []model.Maintenance        `json:"maintenance"`
	StatusHistory []model.RoomStatusHistory  `json:"statusHistory"`
}

// DashboardStats are the headline KPIs.
type DashboardStats struct {
	Apartments       int64   `json:"apartments"`
	Rooms            int64   `json:"rooms"`
	OccupiedRooms    int64   `json:"occupiedRooms"`
	OccupancyRate    int     `json:"occupancyRate"`
	ProjectedRevenue float64 `json:"projectedRevenue"`
	UnpaidReadings   int64   `json:"unpaidReadings"`
}
