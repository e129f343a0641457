package store

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"property-backoffice/internal/model"
	"property-backoffice/internal/parse"
)

// CreateRoom adds a single room to an existing apartment.
func (s *gormStore) CreateRoom(ctx context.Context, room *model.Room) error {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return invalidf("room number is required")
	}
	if room.BaseRent < 0 {
		return invalidf("base rent must not be negative")
	}
	if room.Floor <= 0 {
		room.Floor = 1
	}
	if room.Status == "" {
		room.Status = model.RoomVacant
	}
	if !room.Status.Valid() {
		return invalidf("unknown room status %q", room.Status)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadApartment(tx, room.ApartmentID); err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&model.Room{}).
			Where("apartment_id = ? AND room_number = ?", room.ApartmentID, room.RoomNumber).
			Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check room number: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("room %s: %w", room.RoomNumber, ErrConflict)
		}
		if err := tx.Create(room).Error; err != nil {
			return writeErr(err, "create room")
		}
		return nil
	})
}

// CreateRoomsFromPattern expands pattern (e.g. "101-110, 201") and creates
// the rooms not yet present in the apartment. The floor of each room is
// inferred from its number.
func (s *gormStore) CreateRoomsFromPattern(ctx context.Context, apartmentID, pattern string, baseRent float64) ([]model.Room, error) {
	numbers, err := parse.RoomPattern(pattern)
	if err != nil {
		return nil, invalidf("%v", err)
	}
	if baseRent < 0 {
		return nil, invalidf("base rent must not be negative")
	}

	created := []model.Room{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		apt, err := s.loadApartment(tx, apartmentID)
		if err != nil {
			return err
		}
		rent := baseRent
		if rent == 0 {
			rent = apt.DefaultRent
		}

		var existing []string
		if err := tx.Model(&model.Room{}).Where("apartment_id = ?", apartmentID).Pluck("room_number", &existing).Error; err != nil {
			return fmt.Errorf("failed to list room numbers: %w", err)
		}
		taken := make(map[string]struct{}, len(existing))
		for _, n := range existing {
			taken[n] = struct{}{}
		}

		for _, num := range numbers {
			if _, ok := taken[num]; ok {
				continue
			}
			created = append(created, model.Room{
				ApartmentID: apartmentID,
				RoomNumber:  num,
				Floor:       parse.Floor(num),
				BaseRent:    rent,
				Status:      model.RoomVacant,
			})
		}
		if len(created) == 0 {
			return nil
		}
		if err := tx.Create(&created).Error; err != nil {
			return writeErr(err, "create rooms")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Rooms created from pattern",
		zap.String("apartment_id", apartmentID),
		zap.String("pattern", pattern),
		zap.Int("created", len(created)),
		zap.Int("skipped", len(numbers)-len(created)),
	)
	return created, nil
}

// UpdateRoomStatus sets a room's status and records the change in the
// status history within the same transaction.
func (s *gormStore) UpdateRoomStatus(ctx context.Context, roomID string, status model.RoomStatus, notes string) (*model.Room, error) {
	if !status.Valid() {
		return nil, invalidf("unknown room status %q", status)
	}

	var room *model.Room
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if room, err = s.loadRoom(tx, roomID); err != nil {
			return err
		}
		if room.Status == status {
			return nil
		}
		history := model.RoomStatusHistory{
			RoomID:     roomID,
			OldStatus:  room.Status,
			NewStatus:  status,
			ChangeDate: s.now().UTC(),
			Notes:      strings.TrimSpace(notes),
		}
		if err := tx.Model(room).Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update status of room %s: %w", roomID, err)
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status change of room %s: %w", roomID, err)
		}
		room.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// UpdateRoomRent changes the rent used for future readings. Saved readings
// keep their rent snapshot.
func (s *gormStore) UpdateRoomRent(ctx context.Context, roomID string, rent float64) (*model.Room, error) {
	if rent < 0 {
		return nil, invalidf("base rent must not be negative")
	}
	var room *model.Room
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if room, err = s.loadRoom(tx, roomID); err != nil {
			return err
		}
		if err := tx.Model(room).Update("base_rent", rent).Error; err != nil {
			return fmt.Errorf("failed to update rent of room %s: %w", roomID, err)
		}
		room.BaseRent = rent
		return nil
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// DeleteRoom removes a room with its readings and history. Maintenance
// tickets stay with the apartment but lose the room link.
func (s *gormStore) DeleteRoom(ctx context.Context, roomID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadRoom(tx, roomID); err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&model.MeterReading{}).Error; err != nil {
			return fmt.Errorf("failed to delete readings of room %s: %w", roomID, err)
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&model.RoomStatusHistory{}).Error; err != nil {
			return fmt.Errorf("failed to delete history of room %s: %w", roomID, err)
		}
		if err := tx.Model(&model.Maintenance{}).Where("room_id = ?", roomID).Update("room_id", nil).Error; err != nil {
			return fmt.Errorf("failed to unlink maintenance of room %s: %w", roomID, err)
		}
		if err := tx.Delete(&model.Room{}, "id = ?", roomID).Error; err != nil {
			return fmt.Errorf("failed to delete room %s: %w", roomID, err)
		}
		return nil
	})
}
