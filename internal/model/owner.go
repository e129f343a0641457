package model

import (
	"time"

	"gorm.io/gorm"
)

// Owner is the single back-office login.
type Owner struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name         string    `gorm:"size:128" json:"name"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`
}

func (o *Owner) BeforeCreate(tx *gorm.DB) error {
	o.ID = newID(o.ID)
	return nil
}
