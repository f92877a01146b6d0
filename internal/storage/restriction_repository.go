package storage

import (
	"time"

	"tg-groupwarden/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RestrictionRepository is the restriction ledger: one row per
// (group, user, kind) with optional expiry.
type RestrictionRepository struct {
	db *gorm.DB
}

// NewRestrictionRepository creates a new RestrictionRepository
func NewRestrictionRepository(db *gorm.DB) *RestrictionRepository {
	return &RestrictionRepository{db: db}
}

// MigrateTable ensures the Restriction table exists
func (r *RestrictionRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.Restriction{})
}

// Apply upserts a restriction. On conflict on (group, user, kind) the
// reason, expiry and issuer are replaced and the original creation time
// kept. Applying over an existing restriction is not an error.
func (r *RestrictionRepository) Apply(groupID, userID int64, kind, reason string, issuerID int64, expiresAt *time.Time) (*models.Restriction, error) {
	rec := &models.Restriction{
		GroupID:   groupID,
		UserID:    userID,
		Kind:      kind,
		Reason:    reason,
		IssuerID:  issuerID,
		ExpiresAt: expiresAt,
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}, {Name: "user_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"reason", "issuer_id", "expires_at", "updated_at"}),
	}).Create(rec).Error
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Revoke deletes the given kinds for (group, user). Missing rows are a no-op.
func (r *RestrictionRepository) Revoke(groupID, userID int64, kinds ...string) error {
	if len(kinds) == 0 {
		return nil
	}
	return r.db.
		Where("group_id = ? AND user_id = ? AND kind IN ?", groupID, userID, kinds).
		Delete(&models.Restriction{}).Error
}

// Active returns the kinds currently in force for (group, user). Rows with
// a past expiry are treated as absent without requiring a sweeper.
func (r *RestrictionRepository) Active(groupID, userID int64) ([]string, error) {
	var rows []*models.Restriction
	result := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	now := time.Now()
	var kinds []string
	for _, row := range rows {
		if row.Expired(now) {
			continue
		}
		kinds = append(kinds, row.Kind)
	}
	return kinds, nil
}

// Get returns the restriction row for (group, user, kind), (nil, nil) if
// absent or expired.
func (r *RestrictionRepository) Get(groupID, userID int64, kind string) (*models.Restriction, error) {
	var row models.Restriction
	result := r.db.Where("group_id = ? AND user_id = ? AND kind = ?", groupID, userID, kind).First(&row)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	if row.Expired(time.Now()) {
		return nil, nil
	}
	return &row, nil
}

// PurgeExpired reclaims storage held by expired temporary restrictions.
// Correctness never depends on this running; Active filters lazily.
func (r *RestrictionRepository) PurgeExpired() (int64, error) {
	result := r.db.
		Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
		Delete(&models.Restriction{})
	return result.RowsAffected, result.Error
}
