package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"property-backoffice/internal/model"
	"property-backoffice/internal/parse"
)

// CreateApartment stores apt, filling unset rates and rent with the defaults,
// and creates rooms "1".."roomCount" on floor 1 when roomCount > 0.
func (s *gormStore) CreateApartment(ctx context.Context, apt *model.Apartment, roomCount int) error {
	apt.Name = strings.TrimSpace(apt.Name)
	if apt.Name == "" {
		return invalidf("apartment name is required")
	}
	if roomCount < 0 || roomCount > 1000 {
		return invalidf("room count must be between 0 and 1000")
	}
	if apt.ElectricityRate == 0 {
		apt.ElectricityRate = model.DefaultElectricityRate
	}
	if apt.WaterRate == 0 {
		apt.WaterRate = model.DefaultWaterRate
	}
	if apt.DefaultRent == 0 {
		apt.DefaultRent = model.DefaultRent
	}
	if apt.ElectricityRate < 0 || apt.WaterRate < 0 || apt.DefaultRent < 0 {
		return invalidf("rates and rent must not be negative")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Rooms").Create(apt).Error; err != nil {
			return writeErr(err, "create apartment")
		}
		if roomCount == 0 {
			return nil
		}
		rooms := make([]model.Room, 0, roomCount)
		for i := 1; i <= roomCount; i++ {
			rooms = append(rooms, model.Room{
				ApartmentID: apt.ID,
				RoomNumber:  strconv.Itoa(i),
				Floor:       1,
				BaseRent:    apt.DefaultRent,
				Status:      model.RoomVacant,
			})
		}
		if err := tx.Create(&rooms).Error; err != nil {
			return writeErr(err, "create rooms")
		}
		apt.Rooms = rooms
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("Apartment created", zap.String("apartment_id", apt.ID), zap.Int("rooms", roomCount))
	return nil
}

type roomCounts struct {
	ApartmentID string
	Total       int64
	Occupied    int64
}

// ListApartments returns every apartment by name with its room counts.
func (s *gormStore) ListApartments(ctx context.Context) ([]ApartmentSummary, error) {
	db := s.db.WithContext(ctx)
	var apts []model.Apartment
	if err := db.Order("name").Find(&apts).Error; err != nil {
		return nil, fmt.Errorf("failed to list apartments: %w", err)
	}

	var counts []roomCounts
	if err := db.Model(&model.Room{}).
		Select("apartment_id, COUNT(*) AS total, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS occupied", model.RoomOccupied).
		Group("apartment_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count rooms: %w", err)
	}
	byApt := make(map[string]roomCounts, len(counts))
	for _, c := range counts {
		byApt[c.ApartmentID] = c
	}

	out := make([]ApartmentSummary, 0, len(apts))
	for _, a := range apts {
		c := byApt[a.ID]
		out = append(out, ApartmentSummary{Apartment: a, TotalRooms: c.Total, OccupiedRooms: c.Occupied})
	}
	return out, nil
}

// GetApartment loads an apartment with its rooms in natural room order.
func (s *gormStore) GetApartment(ctx context.Context, id string) (*model.Apartment, error) {
	var apt model.Apartment
	if err := s.db.WithContext(ctx).Preload("Rooms").First(&apt, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "apartment", id)
	}
	sortRooms(apt.Rooms)
	return &apt, nil
}

// UpdateApartment changes the given fields. New rates only affect readings
// entered afterwards.
func (s *gormStore) UpdateApartment(ctx context.Context, id string, upd ApartmentUpdate) (*model.Apartment, error) {
	changes := make(map[string]any)
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, invalidf("apartment name is required")
		}
		changes["name"] = name
	}
	if upd.Address != nil {
		changes["address"] = strings.TrimSpace(*upd.Address)
	}
	for col, v := range map[string]*float64{
		"electricity_rate": upd.ElectricityRate,
		"water_rate":       upd.WaterRate,
		"default_rent":     upd.DefaultRent,
	} {
		if v == nil {
			continue
		}
		if *v < 0 {
			return nil, invalidf("%s must not be negative", strings.ReplaceAll(col, "_", " "))
		}
		changes[col] = *v
	}

	var apt *model.Apartment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if apt, err = s.loadApartment(tx, id); err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(apt).Updates(changes).Error; err != nil {
			return writeErr(err, "update apartment")
		}
		return tx.First(apt, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return apt, nil
}

// DeleteApartment removes an apartment and everything recorded under it.
func (s *gormStore) DeleteApartment(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadApartment(tx, id); err != nil {
			return err
		}
		rooms := roomsOf(tx, id)
		steps := []struct {
			what string
			run  func() error
		}{
			{"readings", func() error { return tx.Where("room_id IN (?)", rooms).Delete(&model.MeterReading{}).Error }},
			{"status history", func() error { return tx.Where("room_id IN (?)", rooms).Delete(&model.RoomStatusHistory{}).Error }},
			{"maintenance", func() error { return tx.Where("apartment_id = ?", id).Delete(&model.Maintenance{}).Error }},
			{"expenses", func() error { return tx.Where("apartment_id = ?", id).Delete(&model.Expense{}).Error }},
			{"mortgage", func() error { return tx.Where("apartment_id = ?", id).Delete(&model.Mortgage{}).Error }},
			{"rooms", func() error { return tx.Where("apartment_id = ?", id).Delete(&model.Room{}).Error }},
			{"apartment", func() error { return tx.Delete(&model.Apartment{}, "id = ?", id).Error }},
		}
		for _, step := range steps {
			if err := step.run(); err != nil {
				return fmt.Errorf("failed to delete %s of apartment %s: %w", step.what, id, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("Apartment deleted", zap.String("apartment_id", id))
	return nil
}

func sortRooms(rooms []model.Room) {
	sort.SliceStable(rooms, func(i, j int) bool {
		return parse.CompareRoomNumbers(rooms[i].RoomNumber, rooms[j].RoomNumber) < 0
	})
}
