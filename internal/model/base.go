package model

import (
	"github.com/google/uuid"
)

// newID returns the primary key assigned to new rows when the caller left it empty.
func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// All lists every schema type in migration order.
func All() []any {
	return []any{
		&Owner{},
		&Apartment{},
		&Room{},
		&RoomStatusHistory{},
		&MeterReading{},
		&Mortgage{},
		&Expense{},
		&Maintenance{},
	}
}
