package model

import (
	"time"

	"gorm.io/gorm"
)

// Default rates applied when an apartment is created without them.
const (
	DefaultElectricityRate = 7.0
	DefaultWaterRate       = 18.0
	DefaultRent            = 3000.0
)

// Apartment represents a managed building. Its rates apply to readings
// entered from now on; past readings keep the costs computed at entry.
type Apartment struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Name            string    `gorm:"size:128;not null" json:"name"`
	Address         string    `gorm:"size:512" json:"address"`
	ElectricityRate float64   `gorm:"not null" json:"electricityRate"`
	WaterRate       float64   `gorm:"not null" json:"waterRate"`
	DefaultRent     float64   `gorm:"not null" json:"defaultRent"`
	CreatedAt       time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Rooms []Room `gorm:"foreignKey:ApartmentID" json:"rooms,omitempty"`
}

func (a *Apartment) BeforeCreate(tx *gorm.DB) error {
	a.ID = newID(a.ID)
	return nil
}
