package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"property-backoffice/internal/billing"
	"property-backoffice/internal/model"
	"property-backoffice/internal/parse"
	"property-backoffice/internal/store"
)

// ContentType is the MIME type of the workbooks built here.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type workbook struct {
	f    *excelize.File
	bold int
}

// newWorkbook creates a file whose default sheet is renamed to first.
func newWorkbook(first string) (*workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", first); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet %q: %w", first, err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	return &workbook{f: f, bold: bold}, nil
}

func (w *workbook) addSheet(name string) error {
	if _, err := w.f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to add sheet %q: %w", name, err)
	}
	return nil
}

func (w *workbook) row(sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func (w *workbook) header(sheet string, row int, values ...any) error {
	if err := w.row(sheet, row, values...); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(values), row)
	if err := w.f.SetCellStyle(sheet, first, last, w.bold); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	return w.f.SetColWidth(sheet, "A", columnName(len(values)), 16)
}

// bytes serialises the workbook and releases it.
func (w *workbook) bytes() ([]byte, error) {
	defer w.f.Close()
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func columnName(n int) string {
	name, err := excelize.ColumnNumberToName(n)
	if err != nil {
		return "A"
	}
	return name
}

// InvoiceXLSX renders a single invoice as a two-column sheet.
func InvoiceXLSX(inv Invoice) ([]byte, error) {
	const sheet = "Invoice"
	w, err := newWorkbook(sheet)
	if err != nil {
		return nil, err
	}

	status := "UNPAID"
	if inv.IsPaid {
		status = "PAID"
		if inv.PaymentMethod != "" {
			status += " (" + inv.PaymentMethod + ")"
		}
	}
	paidOn := ""
	if inv.PaymentDate != nil {
		paidOn = inv.PaymentDate.UTC().Format(time.DateOnly)
	}

	rows := [][]any{
		{"Apartment", inv.ApartmentName},
		{"Address", inv.ApartmentAddress},
		{"Room", inv.RoomNumber},
		{"Billing month", inv.BillingMonth},
		{},
		{"Item", "Previous", "Current", "Usage", "Rate", "Amount"},
		{"Electricity", inv.Electricity.Previous, inv.Electricity.Current, inv.Electricity.Usage, inv.Electricity.Rate, inv.Electricity.Cost},
		{"Water", inv.Water.Previous, inv.Water.Current, inv.Water.Usage, inv.Water.Rate, inv.Water.Cost},
		{"Rent", "", "", "", "", inv.Rent},
		{"Total", "", "", "", "", inv.Total},
		{},
		{"Status", status},
		{"Paid on", paidOn},
	}
	for i, r := range rows {
		if i == 5 {
			if err := w.header(sheet, i+1, r...); err != nil {
				return nil, err
			}
			continue
		}
		if err := w.row(sheet, i+1, r...); err != nil {
			return nil, err
		}
	}
	return w.bytes()
}

// InvoicesXLSX lists one month's readings, one row per room, with a total row.
func InvoicesXLSX(month time.Time, readings []model.MeterReading) ([]byte, error) {
	sheet := "Invoices " + parse.FormatMonth(month)
	w, err := newWorkbook(sheet)
	if err != nil {
		return nil, err
	}
	if err := w.header(sheet, 1, "Room", "Elec usage", "Elec cost", "Water usage", "Water cost", "Rent", "Total", "Paid", "Method"); err != nil {
		return nil, err
	}

	var sum float64
	for i, r := range readings {
		room := ""
		if r.Room != nil {
			room = r.Room.RoomNumber
		}
		method := ""
		if r.PaymentMethod != nil {
			method = string(*r.PaymentMethod)
		}
		sum += r.TotalAmount
		if err := w.row(sheet, i+2,
			room, r.ElecUsage, Round2(r.ElecCost), r.WaterUsage, Round2(r.WaterCost),
			Round2(r.RentAmount), Round2(r.TotalAmount), r.IsPaid, method,
		); err != nil {
			return nil, err
		}
	}
	if err := w.row(sheet, len(readings)+2, "Total", "", "", "", "", "", Round2(sum)); err != nil {
		return nil, err
	}
	return w.bytes()
}

// FinanceXLSX writes the finance report: the monthly trend, expenses and
// maintenance on separate sheets.
func FinanceXLSX(report *store.FinanceReport) ([]byte, error) {
	const (
		trendSheet       = "Monthly"
		expenseSheet     = "Expenses"
		maintenanceSheet = "Maintenance"
	)
	w, err := newWorkbook(trendSheet)
	if err != nil {
		return nil, err
	}

	if err := w.header(trendSheet, 1, "Month", "Readings", "Rent", "Electricity", "Water", "Revenue", "Mortgage", "Expenses", "Maintenance", "Net profit"); err != nil {
		return nil, err
	}
	for i, m := range report.Monthly {
		var p billing.MonthlyProfit
		if i < len(report.Profit) {
			p = report.Profit[i]
		}
		if err := w.row(trendSheet, i+2,
			parse.FormatMonth(m.Month), m.Readings, Round2(m.RentAmount), Round2(m.ElectricityCost), Round2(m.WaterCost),
			Round2(p.Revenue), Round2(p.Mortgage), Round2(p.Expenses), Round2(p.Maintenance), Round2(p.NetProfit),
		); err != nil {
			return nil, err
		}
	}

	if err := w.addSheet(expenseSheet); err != nil {
		return nil, err
	}
	if err := w.header(expenseSheet, 1, "Month", "Category", "Amount", "Description"); err != nil {
		return nil, err
	}
	for i, e := range report.Expenses {
		if err := w.row(expenseSheet, i+2, parse.FormatMonth(time.Time(e.RecordMonth)), e.Category, Round2(e.Amount), e.Description); err != nil {
			return nil, err
		}
	}

	if err := w.addSheet(maintenanceSheet); err != nil {
		return nil, err
	}
	if err := w.header(maintenanceSheet, 1, "Date", "Room", "Category", "Description", "Cost", "Status"); err != nil {
		return nil, err
	}
	for i, m := range report.Maintenance {
		room := ""
		if m.Room != nil {
			room = m.Room.RoomNumber
		}
		if err := w.row(maintenanceSheet, i+2,
			time.Time(m.RecordDate).Format(time.DateOnly), room, m.Category, m.Description, Round2(m.Cost), string(m.Status),
		); err != nil {
			return nil, err
		}
	}
	return w.bytes()
}
