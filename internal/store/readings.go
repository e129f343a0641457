package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"property-backoffice/internal/billing"
	"property-backoffice/internal/model"
	"property-backoffice/internal/parse"
)

// readingColumns are overwritten when a (room, month) reading is re-submitted.
// Payment columns are deliberately absent.
var readingColumns = []string{
	"elec_meter_prev", "elec_meter_current", "water_meter_prev", "water_meter_current",
	"elec_usage", "water_usage", "elec_cost", "water_cost",
	"rent_amount", "total_amount", "updated_at",
}

// UpsertMonthlyReading computes and stores the reading for one room and month.
// Rates come from the apartment and rent from the room as they are now.
func (s *gormStore) UpsertMonthlyReading(ctx context.Context, roomID string, month time.Time, in MeterInput) (*model.MeterReading, billing.ReadingResult, error) {
	month = billing.MonthStart(month)
	var (
		stored model.MeterReading
		result billing.ReadingResult
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := s.loadRoom(tx, roomID)
		if err != nil {
			return err
		}
		apt, err := s.loadApartment(tx, room.ApartmentID)
		if err != nil {
			return err
		}

		input := billing.ReadingInput{
			CurrentElectricity: in.CurrentElectricity,
			CurrentWater:       in.CurrentWater,
			ElectricityRate:    apt.ElectricityRate,
			WaterRate:          apt.WaterRate,
			RentAmount:         room.BaseRent,
		}
		if in.PreviousElectricity == nil || in.PreviousWater == nil {
			base, err := resolvePrevious(tx, roomID, month)
			if err != nil {
				return err
			}
			input.PreviousElectricity = base.ElectricityMeter
			input.PreviousWater = base.WaterMeter
		}
		if in.PreviousElectricity != nil {
			input.PreviousElectricity = *in.PreviousElectricity
		}
		if in.PreviousWater != nil {
			input.PreviousWater = *in.PreviousWater
		}
		if err := input.Validate(); err != nil {
			return err
		}
		result = billing.ComputeReading(input)

		reading := readingFromResult(roomID, month, result)

		var existing model.MeterReading
		err = tx.Where("room_id = ? AND billing_month = ?", roomID, month).First(&existing).Error
		switch {
		case err == nil && sameCharges(existing, reading):
			// Nothing changed; keep updated_at stable.
			stored = existing
			return nil
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to look up reading for room %s: %w", roomID, err)
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}, {Name: "billing_month"}},
			DoUpdates: clause.AssignmentColumns(readingColumns),
		}).Create(&reading).Error; err != nil {
			return fmt.Errorf("failed to upsert reading for room %s: %w", roomID, err)
		}

		if err := tx.Where("room_id = ? AND billing_month = ?", roomID, month).First(&stored).Error; err != nil {
			return fmt.Errorf("failed to reload reading for room %s: %w", roomID, err)
		}
		return nil
	})
	if err != nil {
		return nil, billing.ReadingResult{}, err
	}

	if result.Clamped() {
		s.logger.Warn("Meter reading went backwards, usage clamped to zero",
			zap.String("room_id", roomID),
			zap.Time("billing_month", month),
			zap.Bool("electricity", result.ElectricityClamped),
			zap.Bool("water", result.WaterClamped),
		)
	}
	return &stored, result, nil
}

func readingFromResult(roomID string, month time.Time, r billing.ReadingResult) model.MeterReading {
	return model.MeterReading{
		RoomID:            roomID,
		BillingMonth:      month,
		ElecMeterPrev:     r.PreviousElectricity,
		ElecMeterCurrent:  r.CurrentElectricity,
		WaterMeterPrev:    r.PreviousWater,
		WaterMeterCurrent: r.CurrentWater,
		ElecUsage:         r.ElectricityUsage,
		WaterUsage:        r.WaterUsage,
		ElecCost:          r.ElectricityCost,
		WaterCost:         r.WaterCost,
		RentAmount:        r.RentAmount,
		TotalAmount:       r.TotalAmount,
	}
}

func sameCharges(a, b model.MeterReading) bool {
	return a.ElecMeterPrev == b.ElecMeterPrev &&
		a.ElecMeterCurrent == b.ElecMeterCurrent &&
		a.WaterMeterPrev == b.WaterMeterPrev &&
		a.WaterMeterCurrent == b.WaterMeterCurrent &&
		a.ElecUsage == b.ElecUsage &&
		a.WaterUsage == b.WaterUsage &&
		a.ElecCost == b.ElecCost &&
		a.WaterCost == b.WaterCost &&
		a.RentAmount == b.RentAmount &&
		a.TotalAmount == b.TotalAmount
}

// ResolvePreviousReading returns the current meter values of the latest
// reading strictly before month, or a zero baseline when there is none.
func (s *gormStore) ResolvePreviousReading(ctx context.Context, roomID string, month time.Time) (Baseline, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.loadRoom(db, roomID); err != nil {
		return Baseline{}, err
	}
	return resolvePrevious(db, roomID, billing.MonthStart(month))
}

func resolvePrevious(tx *gorm.DB, roomID string, month time.Time) (Baseline, error) {
	var prev model.MeterReading
	err := tx.Where("room_id = ? AND billing_month < ?", roomID, month).
		Order("billing_month DESC").
		First(&prev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Baseline{}, nil
	}
	if err != nil {
		return Baseline{}, fmt.Errorf("failed to resolve previous reading for room %s: %w", roomID, err)
	}
	m := prev.BillingMonth
	return Baseline{
		ElectricityMeter: prev.ElecMeterCurrent,
		WaterMeter:       prev.WaterMeterCurrent,
		Found:            true,
		BillingMonth:     &m,
	}, nil
}

// SubmitReadings saves one billing cycle for an apartment. Every entry is
// handled on its own: incomplete or invalid rows are skipped and a failed
// write does not stop the remaining rooms.
func (s *gormStore) SubmitReadings(ctx context.Context, apartmentID string, month time.Time, entries []BatchEntry) (*BatchResult, error) {
	month = billing.MonthStart(month)
	db := s.db.WithContext(ctx)
	if _, err := s.loadApartment(db, apartmentID); err != nil {
		return nil, err
	}

	var roomIDs []string
	if err := roomsOf(db, apartmentID).Pluck("id", &roomIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms of apartment %s: %w", apartmentID, err)
	}
	inApartment := make(map[string]struct{}, len(roomIDs))
	for _, id := range roomIDs {
		inApartment[id] = struct{}{}
	}

	res := &BatchResult{
		BillingMonth: month,
		Saved:        []model.MeterReading{},
		Skipped:      []SkippedEntry{},
		Failed:       []SkippedEntry{},
		Warnings:     []ClampWarning{},
	}
	for _, e := range entries {
		if _, ok := inApartment[e.RoomID]; !ok {
			res.Skipped = append(res.Skipped, SkippedEntry{RoomID: e.RoomID, Reason: "room does not belong to this apartment"})
			continue
		}
		if e.CurrentElectricity == nil || e.CurrentWater == nil {
			res.Skipped = append(res.Skipped, SkippedEntry{RoomID: e.RoomID, Reason: "current electricity and water readings are both required"})
			continue
		}

		reading, result, err := s.UpsertMonthlyReading(ctx, e.RoomID, month, MeterInput{
			CurrentElectricity:  *e.CurrentElectricity,
			CurrentWater:        *e.CurrentWater,
			PreviousElectricity: e.PreviousElectricity,
			PreviousWater:       e.PreviousWater,
		})
		if errors.Is(err, ErrInvalidInput) {
			res.Skipped = append(res.Skipped, SkippedEntry{RoomID: e.RoomID, Reason: err.Error()})
			continue
		}
		if err != nil {
			s.logger.Error("Failed to save reading", zap.String("room_id", e.RoomID), zap.Error(err))
			res.Failed = append(res.Failed, SkippedEntry{RoomID: e.RoomID, Reason: err.Error()})
			continue
		}

		res.Saved = append(res.Saved, *reading)
		if result.Clamped() {
			res.Warnings = append(res.Warnings, ClampWarning{
				RoomID:      e.RoomID,
				ReadingID:   reading.ID,
				Electricity: result.ElectricityClamped,
				Water:       result.WaterClamped,
			})
		}
	}

	s.logger.Info("Billing cycle submitted",
		zap.String("apartment_id", apartmentID),
		zap.Time("billing_month", month),
		zap.Int("saved", len(res.Saved)),
		zap.Int("skipped", len(res.Skipped)),
		zap.Int("failed", len(res.Failed)),
	)
	return res, nil
}

// UtilitySheet lists every room of an apartment with its baseline and any
// reading already saved for month.
func (s *gormStore) UtilitySheet(ctx context.Context, apartmentID string, month time.Time) (*UtilitySheet, error) {
	month = billing.MonthStart(month)
	db := s.db.WithContext(ctx)
	apt, err := s.loadApartment(db, apartmentID)
	if err != nil {
		return nil, err
	}

	var rooms []model.Room
	if err := db.Where("apartment_id = ?", apartmentID).Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms of apartment %s: %w", apartmentID, err)
	}
	sortRooms(rooms)

	var readings []model.MeterReading
	if err := db.Where("room_id IN (?) AND billing_month <= ?", roomsOf(db, apartmentID), month).
		Order("billing_month DESC").
		Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("failed to load readings of apartment %s: %w", apartmentID, err)
	}

	current := make(map[string]model.MeterReading)
	previous := make(map[string]model.MeterReading)
	for _, r := range readings {
		if r.BillingMonth.Equal(month) {
			current[r.RoomID] = r
			continue
		}
		if _, ok := previous[r.RoomID]; !ok {
			previous[r.RoomID] = r
		}
	}

	sheet := &UtilitySheet{Apartment: *apt, BillingMonth: month, Rows: make([]UtilityRow, 0, len(rooms))}
	for _, room := range rooms {
		row := UtilityRow{Room: room}
		if p, ok := previous[room.ID]; ok {
			m := p.BillingMonth
			row.Previous = Baseline{ElectricityMeter: p.ElecMeterCurrent, WaterMeter: p.WaterMeterCurrent, Found: true, BillingMonth: &m}
		}
		if c, ok := current[room.ID]; ok {
			row.Current = &c
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

// GetReading loads a reading together with its room and apartment.
func (s *gormStore) GetReading(ctx context.Context, id string) (*model.MeterReading, error) {
	var reading model.MeterReading
	if err := s.db.WithContext(ctx).
		Preload("Room").
		Preload("Room.Apartment").
		First(&reading, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "reading", id)
	}
	return &reading, nil
}

// ListReadingsForMonth returns an apartment's readings for month in room
// order, with room and apartment preloaded for invoicing.
func (s *gormStore) ListReadingsForMonth(ctx context.Context, apartmentID string, month time.Time) ([]model.MeterReading, error) {
	month = billing.MonthStart(month)
	db := s.db.WithContext(ctx)
	if _, err := s.loadApartment(db, apartmentID); err != nil {
		return nil, err
	}

	var readings []model.MeterReading
	if err := db.Preload("Room").
		Preload("Room.Apartment").
		Where("room_id IN (?) AND billing_month = ?", roomsOf(db, apartmentID), month).
		Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("failed to list readings of apartment %s: %w", apartmentID, err)
	}
	sort.SliceStable(readings, func(i, j int) bool {
		return parse.CompareRoomNumbers(roomNumber(readings[i]), roomNumber(readings[j])) < 0
	})
	return readings, nil
}

func roomNumber(r model.MeterReading) string {
	if r.Room == nil {
		return ""
	}
	return r.Room.RoomNumber
}

// SetPayment applies a PAY or UNPAY action to a reading.
func (s *gormStore) SetPayment(ctx context.Context, readingID string, action billing.PaymentAction, method model.PaymentMethod) (*model.MeterReading, error) {
	var reading model.MeterReading
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reading, "id = ?", readingID).Error; err != nil {
			return lookupErr(err, "reading", readingID)
		}
		state, err := billing.ApplyPayment(action, method, s.now())
		if err != nil {
			return err
		}
		if err := tx.Model(&reading).Updates(map[string]any{
			"is_paid":        state.IsPaid,
			"payment_method": state.PaymentMethod,
			"payment_date":   state.PaymentDate,
		}).Error; err != nil {
			return fmt.Errorf("failed to update payment of reading %s: %w", readingID, err)
		}
		reading.IsPaid = state.IsPaid
		reading.PaymentMethod = state.PaymentMethod
		reading.PaymentDate = state.PaymentDate
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Reading payment updated",
		zap.String("reading_id", readingID),
		zap.String("action", string(action)),
		zap.Bool("is_paid", reading.IsPaid),
	)
	return &reading, nil
}
