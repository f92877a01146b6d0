package storage

import (
	"tg-groupwarden/internal/models"

	"gorm.io/gorm"
)

// WarningRepository is the append-only warning ledger
type WarningRepository struct {
	db *gorm.DB
}

// NewWarningRepository creates a new WarningRepository
func NewWarningRepository(db *gorm.DB) *WarningRepository {
	return &WarningRepository{db: db}
}

// MigrateTable ensures the Warning table exists
func (r *WarningRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.Warning{})
}

// Add appends one warning and returns the new live count for (group, user)
func (r *WarningRepository) Add(groupID, userID int64, reason string, issuerID int64) (int, error) {
	rec := &models.Warning{
		GroupID:  groupID,
		UserID:   userID,
		Reason:   reason,
		IssuerID: issuerID,
	}
	if err := r.db.Create(rec).Error; err != nil {
		return 0, err
	}
	return r.Count(groupID, userID)
}

// Count returns the live warning count for (group, user)
func (r *WarningRepository) Count(groupID, userID int64) (int, error) {
	var count int64
	result := r.db.Model(&models.Warning{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count)
	return int(count), result.Error
}

// Clear deletes all warnings for (group, user)
func (r *WarningRepository) Clear(groupID, userID int64) error {
	return r.db.
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.Warning{}).Error
}

// List returns the warnings for (group, user) oldest first
func (r *WarningRepository) List(groupID, userID int64) ([]*models.Warning, error) {
	var rows []*models.Warning
	result := r.db.
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Order("id asc").
		Find(&rows)
	return rows, result.Error
}
