package model

import (
	"time"

	"gorm.io/gorm"
)

// RoomStatus is the occupancy state of a room.
type RoomStatus string

const (
	RoomVacant      RoomStatus = "VACANT"
	RoomOccupied    RoomStatus = "OCCUPIED"
	RoomMaintenance RoomStatus = "MAINTENANCE"
)

// Valid reports whether s is one of the known room states.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomVacant, RoomOccupied, RoomMaintenance:
		return true
	}
	return false
}

// Room is a rentable unit. BaseRent may diverge from the apartment default.
type Room struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	ApartmentID string     `gorm:"size:36;not null;uniqueIndex:idx_room_apartment_number" json:"apartmentId"`
	RoomNumber  string     `gorm:"size:32;not null;uniqueIndex:idx_room_apartment_number" json:"roomNumber"`
	Floor       int        `gorm:"not null;default:1" json:"floor"`
	BaseRent    float64    `gorm:"not null" json:"baseRent"`
	Status      RoomStatus `gorm:"size:16;not null;default:VACANT" json:"status"`
	CreatedAt   time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updatedAt"`

	// Associations
	Apartment *Apartment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	r.ID = newID(r.ID)
	if r.Status == "" {
		r.Status = RoomVacant
	}
	return nil
}

// RoomStatusHistory records every status change of a room.
type RoomStatusHistory struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	RoomID     string     `gorm:"size:36;not null;index" json:"roomId"`
	OldStatus  RoomStatus `gorm:"size:16;not null" json:"oldStatus"`
	NewStatus  RoomStatus `gorm:"size:16;not null" json:"newStatus"`
	ChangeDate time.Time  `gorm:"not null;index" json:"changeDate"`
	Notes      string     `gorm:"size:512" json:"notes,omitempty"`

	// Associations
	Room *Room `gorm:"constraint:OnDelete:CASCADE" json:"room,omitempty"`
}

func (h *RoomStatusHistory) BeforeCreate(tx *gorm.DB) error {
	h.ID = newID(h.ID)
	return nil
}
