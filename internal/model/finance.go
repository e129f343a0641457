package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Mortgage is the loan attached to an apartment. MonthlyPayment is applied
// as a flat cost to every reported month.
type Mortgage struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	ApartmentID    string    `gorm:"size:36;not null;uniqueIndex" json:"apartmentId"`
	MonthlyPayment float64   `gorm:"not null" json:"monthlyPayment"`
	LoanAmount     float64   `gorm:"not null" json:"loanAmount"`
	InterestRate   float64   `gorm:"not null" json:"interestRate"`
	CreatedAt      time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Apartment *Apartment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (m *Mortgage) BeforeCreate(tx *gorm.DB) error {
	m.ID = newID(m.ID)
	return nil
}

// Expense is a logged monthly cost, one per (apartment, category, month).
type Expense struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	ApartmentID string         `gorm:"size:36;not null;uniqueIndex:idx_expense_apartment_category_month" json:"apartmentId"`
	Category    string         `gorm:"size:64;not null;uniqueIndex:idx_expense_apartment_category_month" json:"category"`
	RecordMonth datatypes.Date `gorm:"not null;uniqueIndex:idx_expense_apartment_category_month" json:"recordMonth"`
	Amount      float64        `gorm:"not null" json:"amount"`
	Description string         `gorm:"size:512" json:"description"`
	CreatedAt   time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updatedAt"`

	// Associations
	Apartment *Apartment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	e.ID = newID(e.ID)
	return nil
}

// MaintenanceStatus is the lifecycle state of a maintenance ticket.
type MaintenanceStatus string

const (
	MaintenancePending    MaintenanceStatus = "PENDING"
	MaintenanceInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceCompleted  MaintenanceStatus = "COMPLETED"
)

// Valid reports whether s is a known ticket state.
func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenancePending, MaintenanceInProgress, MaintenanceCompleted:
		return true
	}
	return false
}

// Maintenance is a repair ticket; its cost counts against the month of RecordDate.
type Maintenance struct {
	ID            string            `gorm:"primaryKey;size:36" json:"id"`
	ApartmentID   string            `gorm:"size:36;not null;index" json:"apartmentId"`
	RoomID        *string           `gorm:"size:36;index" json:"roomId"`
	Description   string            `gorm:"size:1024;not null" json:"description"`
	Category      string            `gorm:"size:64" json:"category"`
	Cost          float64           `gorm:"not null" json:"cost"`
	Status        MaintenanceStatus `gorm:"size:16;not null;default:PENDING" json:"status"`
	RecordDate    datatypes.Date    `gorm:"not null;index" json:"recordDate"`
	CompletedDate *time.Time        `json:"completedDate"`
	CreatedAt     time.Time         `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time         `gorm:"not null" json:"updatedAt"`

	// Associations
	Apartment *Apartment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Room      *Room      `gorm:"constraint:OnDelete:SET NULL" json:"room,omitempty"`
}

func (m *Maintenance) BeforeCreate(tx *gorm.DB) error {
	m.ID = newID(m.ID)
	if m.Status == "" {
		m.Status = MaintenancePending
	}
	return nil
}
