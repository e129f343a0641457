package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"property-backoffice/internal/billing"
	"property-backoffice/internal/model"
)

var (
	// ErrNotFound is returned when an apartment, room, reading or other record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a create would duplicate a unique record.
	ErrConflict = errors.New("record already exists")
	// ErrInvalidInput is returned for values that fail validation.
	ErrInvalidInput = billing.ErrInvalidInput
)

// Store defines the interface for all database operations.
type Store interface {
	FindOwnerByEmail(ctx context.Context, email string) (*model.Owner, error)
	UpsertOwner(ctx context.Context, owner *model.Owner) error

	CreateApartment(ctx context.Context, apt *model.Apartment, roomCount int) error
	ListApartments(ctx context.Context) ([]ApartmentSummary, error)
	GetApartment(ctx context.Context, id string) (*model.Apartment, error)
	UpdateApartment(ctx context.Context, id string, upd ApartmentUpdate) (*model.Apartment, error)
	DeleteApartment(ctx context.Context, id string) error

	CreateRoom(ctx context.Context, room *model.Room) error
	CreateRoomsFromPattern(ctx context.Context, apartmentID, pattern string, baseRent float64) ([]model.Room, error)
	UpdateRoomStatus(ctx context.Context, roomID string, status model.RoomStatus, notes string) (*model.Room, error)
	UpdateRoomRent(ctx context.Context, roomID string, rent float64) (*model.Room, error)
	DeleteRoom(ctx context.Context, roomID string) error

	UpsertMonthlyReading(ctx context.Context, roomID string, month time.Time, in MeterInput) (*model.MeterReading, billing.ReadingResult, error)
	ResolvePreviousReading(ctx context.Context, roomID string, month time.Time) (Baseline, error)
	SubmitReadings(ctx context.Context, apartmentID string, month time.Time, entries []BatchEntry) (*BatchResult, error)
	UtilitySheet(ctx context.Context, apartmentID string, month time.Time) (*UtilitySheet, error)
	GetReading(ctx context.Context, id string) (*model.MeterReading, error)
	ListReadingsForMonth(ctx context.Context, apartmentID string, month time.Time) ([]model.MeterReading, error)
	SetPayment(ctx context.Context, readingID string, action billing.PaymentAction, method model.PaymentMethod) (*model.MeterReading, error)

	UpsertMortgage(ctx context.Context, m *model.Mortgage) (*model.Mortgage, error)
	UpsertExpense(ctx context.Context, e *model.Expense) (*model.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	CreateMaintenance(ctx context.Context, m *model.Maintenance) error
	UpdateMaintenanceStatus(ctx context.Context, id string, status model.MaintenanceStatus) (*model.Maintenance, error)
	DeleteMaintenance(ctx context.Context, id string) error
	FinanceReport(ctx context.Context, apartmentID string, since time.Time) (*FinanceReport, error)
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB, logger *zap.Logger) Store {
	return &gormStore{db: db, logger: logger, now: time.Now}
}

// lookupErr turns gorm's not-found into ErrNotFound and wraps anything else.
func lookupErr(err error, what, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("failed to load %s %s: %w", what, id, err)
}

// writeErr maps unique-key violations to ErrConflict.
func writeErr(err error, action string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", action, ErrConflict)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func (s *gormStore) loadApartment(tx *gorm.DB, id string) (*model.Apartment, error) {
	var apt model.Apartment
	if err := tx.First(&apt, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "apartment", id)
	}
	return &apt, nil
}

func (s *gormStore) loadRoom(tx *gorm.DB, id string) (*model.Room, error) {
	var room model.Room
	if err := tx.First(&room, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "room", id)
	}
	return &room, nil
}

// roomsOf is a subquery selecting the ids of an apartment's rooms.
func roomsOf(tx *gorm.DB, apartmentID string) *gorm.DB {
	return tx.Model(&model.Room{}).Select("id").Where("apartment_id = ?", apartmentID)
}
