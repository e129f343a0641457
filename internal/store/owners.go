package store

import (
	"context"

	"gorm.io/gorm/clause"

	"property-backoffice/internal/auth"
	"property-backoffice/internal/model"
)

// FindOwnerByEmail looks up the login account.
func (s *gormStore) FindOwnerByEmail(ctx context.Context, email string) (*model.Owner, error) {
	email = auth.NormalizeEmail(email)
	var owner model.Owner
	if err := s.db.WithContext(ctx).First(&owner, "email = ?", email).Error; err != nil {
		return nil, lookupErr(err, "owner", email)
	}
	return &owner, nil
}

// UpsertOwner creates the owner or, when the email exists, replaces its name
// and password hash.
func (s *gormStore) UpsertOwner(ctx context.Context, owner *model.Owner) error {
	owner.Email = auth.NormalizeEmail(owner.Email)
	if owner.Email == "" || owner.PasswordHash == "" {
		return invalidf("owner email and password are required")
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "password_hash", "updated_at"}),
	}).Create(owner).Error; err != nil {
		return writeErr(err, "save owner")
	}
	return nil
}
