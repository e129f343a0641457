package model

import (
	"time"

	"gorm.io/gorm"
)

// PaymentMethod tags how a reading was settled.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentQR   PaymentMethod = "QR"
)

// Valid reports whether m is an accepted payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentQR
}

// MeterReading is one room's meters and charges for one billing month.
// At most one row exists per (room, billing month); BillingMonth is always
// the first day of the month in UTC. RentAmount is a copy of the room rent
// at entry time so later rent changes never touch issued bills.
type MeterReading struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	RoomID            string    `gorm:"size:36;not null;uniqueIndex:idx_reading_room_month" json:"roomId"`
	BillingMonth      time.Time `gorm:"not null;uniqueIndex:idx_reading_room_month;index" json:"billingMonth"`
	ElecMeterPrev     float64   `gorm:"not null" json:"elecMeterPrev"`
	ElecMeterCurrent  float64   `gorm:"not null" json:"elecMeterCurrent"`
	WaterMeterPrev    float64   `gorm:"not null" json:"waterMeterPrev"`
	WaterMeterCurrent float64   `gorm:"not null" json:"waterMeterCurrent"`
	ElecUsage         float64   `gorm:"not null" json:"elecUsage"`
	WaterUsage        float64   `gorm:"not null" json:"waterUsage"`
	ElecCost          float64   `gorm:"not null" json:"elecCost"`
	WaterCost         float64   `gorm:"not null" json:"waterCost"`
	RentAmount        float64   `gorm:"not null" json:"rentAmount"`
	TotalAmount       float64   `gorm:"not null" json:"totalAmount"`

	IsPaid        bool           `gorm:"not null;default:false" json:"isPaid"`
	PaymentMethod *PaymentMethod `gorm:"size:16" json:"paymentMethod"`
	PaymentDate   *time.Time     `json:"paymentDate"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Room *Room `gorm:"constraint:OnDelete:CASCADE" json:"room,omitempty"`
}

func (r *MeterReading) BeforeCreate(tx *gorm.DB) error {
	r.ID = newID(r.ID)
	return nil
}
