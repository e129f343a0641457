// Package export renders readings and finance reports for people: invoice
// views with display-rounded money and XLSX workbooks.
package export

import (
	"time"

	"github.com/shopspring/decimal"

	"property-backoffice/internal/model"
	"property-backoffice/internal/parse"
)

// Invoice is a reading prepared for display. Money is rounded to two places
// here and only here; stored amounts keep full precision.
type Invoice struct {
	ReadingID        string     `json:"readingId"`
	ApartmentName    string     `json:"apartmentName"`
	ApartmentAddress string     `json:"apartmentAddress"`
	RoomNumber       string     `json:"roomNumber"`
	BillingMonth     string     `json:"billingMonth"`
	Electricity      UtilityRow `json:"electricity"`
	Water            UtilityRow `json:"water"`
	Rent             string     `json:"rent"`
	Total            string     `json:"total"`
	IsPaid           bool       `json:"isPaid"`
	PaymentMethod    string     `json:"paymentMethod,omitempty"`
	PaymentDate      *time.Time `json:"paymentDate,omitempty"`
}

// UtilityRow is one metered line of an invoice.
type UtilityRow struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
	Usage    string `json:"usage"`
	Rate     string `json:"rate"`
	Cost     string `json:"cost"`
}

// Money formats an amount with exactly two decimals.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Round2 rounds an amount to two decimals for spreadsheet cells.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func meter(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// unitRate recovers the rate a cost was billed at. Readings do not store
// rates, so a zero-usage line falls back to the apartment's current rate.
func unitRate(cost, usage, fallback float64) float64 {
	if usage > 0 {
		return decimal.NewFromFloat(cost).Div(decimal.NewFromFloat(usage)).Round(4).InexactFloat64()
	}
	return fallback
}

// NewInvoice builds the invoice view of r. Room and Room.Apartment should be
// preloaded; missing associations leave the names blank.
func NewInvoice(r model.MeterReading) Invoice {
	var (
		elecRate, waterRate float64
		inv                 Invoice
	)
	if r.Room != nil {
		inv.RoomNumber = r.Room.RoomNumber
		if apt := r.Room.Apartment; apt != nil {
			inv.ApartmentName = apt.Name
			inv.ApartmentAddress = apt.Address
			elecRate, waterRate = apt.ElectricityRate, apt.WaterRate
		}
	}

	inv.ReadingID = r.ID
	inv.BillingMonth = parse.FormatMonth(r.BillingMonth)
	inv.Electricity = UtilityRow{
		Previous: meter(r.ElecMeterPrev),
		Current:  meter(r.ElecMeterCurrent),
		Usage:    meter(r.ElecUsage),
		Rate:     Money(unitRate(r.ElecCost, r.ElecUsage, elecRate)),
		Cost:     Money(r.ElecCost),
	}
	inv.Water = UtilityRow{
		Previous: meter(r.WaterMeterPrev),
		Current:  meter(r.WaterMeterCurrent),
		Usage:    meter(r.WaterUsage),
		Rate:     Money(unitRate(r.WaterCost, r.WaterUsage, waterRate)),
		Cost:     Money(r.WaterCost),
	}
	inv.Rent = Money(r.RentAmount)
	inv.Total = Money(r.TotalAmount)
	inv.IsPaid = r.IsPaid
	if r.PaymentMethod != nil {
		inv.PaymentMethod = string(*r.PaymentMethod)
	}
	inv.PaymentDate = r.PaymentDate
	return inv
}
