package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"property-backoffice/internal/billing"
	"property-backoffice/internal/model"
)

// UpsertMortgage stores the apartment's single mortgage record.
func (s *gormStore) UpsertMortgage(ctx context.Context, m *model.Mortgage) (*model.Mortgage, error) {
	if m.MonthlyPayment < 0 || m.LoanAmount < 0 || m.InterestRate < 0 {
		return nil, invalidf("mortgage amounts must not be negative")
	}

	var stored model.Mortgage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadApartment(tx, m.ApartmentID); err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "apartment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"monthly_payment", "loan_amount", "interest_rate", "updated_at"}),
		}).Create(m).Error; err != nil {
			return fmt.Errorf("failed to save mortgage of apartment %s: %w", m.ApartmentID, err)
		}
		return tx.First(&stored, "apartment_id = ?", m.ApartmentID).Error
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// UpsertExpense records one category's cost for a month, replacing any
// earlier entry for the same apartment, category and month.
func (s *gormStore) UpsertExpense(ctx context.Context, e *model.Expense) (*model.Expense, error) {
	e.Category = strings.TrimSpace(e.Category)
	if e.Category == "" {
		return nil, invalidf("expense category is required")
	}
	if e.Amount <= 0 || math.IsInf(e.Amount, 0) || math.IsNaN(e.Amount) {
		return nil, invalidf("expense amount must be positive")
	}
	e.RecordMonth = datatypes.Date(billing.MonthStart(time.Time(e.RecordMonth)))

	var stored model.Expense
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadApartment(tx, e.ApartmentID); err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "apartment_id"}, {Name: "category"}, {Name: "record_month"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "description", "updated_at"}),
		}).Create(e).Error; err != nil {
			return fmt.Errorf("failed to save expense: %w", err)
		}
		return tx.Where("apartment_id = ? AND category = ? AND record_month = ?", e.ApartmentID, e.Category, e.RecordMonth).
			First(&stored).Error
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// DeleteExpense removes one expense entry.
func (s *gormStore) DeleteExpense(ctx context.Context, id string) error {
	return deleteByID(s.db.WithContext(ctx), &model.Expense{}, "expense", id)
}

// CreateMaintenance opens a ticket. RecordDate defaults to today and the
// room, when given, must belong to the apartment.
func (s *gormStore) CreateMaintenance(ctx context.Context, m *model.Maintenance) error {
	m.Description = strings.TrimSpace(m.Description)
	if m.Description == "" {
		return invalidf("maintenance description is required")
	}
	if m.Cost < 0 {
		return invalidf("maintenance cost must not be negative")
	}
	if m.Status == "" {
		m.Status = model.MaintenancePending
	}
	if !m.Status.Valid() {
		return invalidf("unknown maintenance status %q", m.Status)
	}
	if time.Time(m.RecordDate).IsZero() {
		m.RecordDate = datatypes.Date(s.now().UTC())
	}
	if m.RoomID != nil && *m.RoomID == "" {
		m.RoomID = nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadApartment(tx, m.ApartmentID); err != nil {
			return err
		}
		if m.RoomID != nil {
			room, err := s.loadRoom(tx, *m.RoomID)
			if err != nil {
				return err
			}
			if room.ApartmentID != m.ApartmentID {
				return invalidf("room %s does not belong to apartment %s", room.ID, m.ApartmentID)
			}
		}
		if m.Status == model.MaintenanceCompleted && m.CompletedDate == nil {
			now := s.now().UTC()
			m.CompletedDate = &now
		}
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("failed to create maintenance ticket: %w", err)
		}
		return nil
	})
}

// UpdateMaintenanceStatus moves a ticket through its lifecycle. Completing a
// ticket stamps its completion date.
func (s *gormStore) UpdateMaintenanceStatus(ctx context.Context, id string, status model.MaintenanceStatus) (*model.Maintenance, error) {
	if !status.Valid() {
		return nil, invalidf("unknown maintenance status %q", status)
	}
	var ticket model.Maintenance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ticket, "id = ?", id).Error; err != nil {
			return lookupErr(err, "maintenance ticket", id)
		}
		changes := map[string]any{"status": status}
		if status == model.MaintenanceCompleted {
			now := s.now().UTC()
			changes["completed_date"] = now
			ticket.CompletedDate = &now
		}
		if err := tx.Model(&ticket).Updates(changes).Error; err != nil {
			return fmt.Errorf("failed to update maintenance ticket %s: %w", id, err)
		}
		ticket.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// DeleteMaintenance removes a ticket.
func (s *gormStore) DeleteMaintenance(ctx context.Context, id string) error {
	return deleteByID(s.db.WithContext(ctx), &model.Maintenance{}, "maintenance ticket", id)
}

func deleteByID(db *gorm.DB, value any, what, id string) error {
	res := db.Delete(value, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s %s: %w", what, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}

// FinanceReport gathers an apartment's revenue since the given month and
// folds it into monthly aggregates and net profit.
func (s *gormStore) FinanceReport(ctx context.Context, apartmentID string, since time.Time) (*FinanceReport, error) {
	since = billing.MonthStart(since)
	db := s.db.WithContext(ctx)
	apt, err := s.loadApartment(db, apartmentID)
	if err != nil {
		return nil, err
	}
	report := &FinanceReport{Apartment: *apt, Since: since}

	var mortgage model.Mortgage
	err = db.First(&mortgage, "apartment_id = ?", apartmentID).Error
	switch {
	case err == nil:
		report.Mortgage = &mortgage
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to load mortgage of apartment %s: %w", apartmentID, err)
	}

	var readings []model.MeterReading
	if err := db.Where("room_id IN (?) AND billing_month >= ?", roomsOf(db, apartmentID), since).
		Order("billing_month").
		Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("failed to load readings of apartment %s: %w", apartmentID, err)
	}
	if err := db.Where("apartment_id = ?", apartmentID).Order("record_month DESC").Find(&report.Expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to load expenses of apartment %s: %w", apartmentID, err)
	}
	if err := db.Preload("Room").Where("apartment_id = ?", apartmentID).Order("record_date DESC").Find(&report.Maintenance).Error; err != nil {
		return nil, fmt.Errorf("failed to load maintenance of apartment %s: %w", apartmentID, err)
	}
	if err := db.Preload("Room").Where("room_id IN (?)", roomsOf(db, apartmentID)).Order("change_date DESC").Find(&report.StatusHistory).Error; err != nil {
		return nil, fmt.Errorf("failed to load status history of apartment %s: %w", apartmentID, err)
	}

	report.Monthly = billing.AggregateMonthly(readings)
	expenses := billing.SumByMonth(report.Expenses,
		func(e model.Expense) time.Time { return time.Time(e.RecordMonth) },
		func(e model.Expense) float64 { return e.Amount })
	maintenance := billing.SumByMonth(report.Maintenance,
		func(m model.Maintenance) time.Time { return time.Time(m.RecordDate) },
		func(m model.Maintenance) float64 { return m.Cost })
	var monthly float64
	if report.Mortgage != nil {
		monthly = report.Mortgage.MonthlyPayment
	}
	report.Profit = billing.NetProfit(report.Monthly, monthly, expenses, maintenance)

	s.logger.Debug("Finance report built",
		zap.String("apartment_id", apartmentID),
		zap.Time("since", since),
		zap.Int("months", len(report.Monthly)),
	)
	return report, nil
}

// Dashboard computes the headline KPIs across all apartments.
func (s *gormStore) Dashboard(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{}

	if err := db.Model(&model.Apartment{}).Count(&stats.Apartments).Error; err != nil {
		return nil, fmt.Errorf("failed to count apartments: %w", err)
	}
	if err := db.Model(&model.Room{}).Count(&stats.Rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to count rooms: %w", err)
	}
	if err := db.Model(&model.Room{}).Where("status = ?", model.RoomOccupied).Count(&stats.OccupiedRooms).Error; err != nil {
		return nil, fmt.Errorf("failed to count occupied rooms: %w", err)
	}
	if err := db.Model(&model.Room{}).
		Where("status = ?", model.RoomOccupied).
		Select("COALESCE(SUM(base_rent), 0)").
		Scan(&stats.ProjectedRevenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum projected revenue: %w", err)
	}
	if err := db.Model(&model.MeterReading{}).Where("is_paid = ?", false).Count(&stats.UnpaidReadings).Error; err != nil {
		return nil, fmt.Errorf("failed to count unpaid readings: %w", err)
	}
	if stats.Rooms > 0 {
		stats.OccupancyRate = int(math.Round(float64(stats.OccupiedRooms) * 100 / float64(stats.Rooms)))
	}
	return stats, nil
}
