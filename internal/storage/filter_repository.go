package storage

import (
	"strings"

	"tg-groupwarden/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FilterRepository holds per-group trigger/response pairs
type FilterRepository struct {
	db *gorm.DB
}

// NewFilterRepository creates a new FilterRepository
func NewFilterRepository(db *gorm.DB) *FilterRepository {
	return &FilterRepository{db: db}
}

// MigrateTable ensures the Filter table exists
func (r *FilterRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.Filter{})
}

// Upsert creates or replaces a filter. Triggers are stored case-folded.
func (r *FilterRepository) Upsert(groupID int64, trigger, response string, creatorID int64) error {
	rec := &models.Filter{
		GroupID:   groupID,
		Trigger:   strings.ToLower(trigger),
		Response:  response,
		CreatorID: creatorID,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}, {Name: "trigger"}},
		DoUpdates: clause.AssignmentColumns([]string{"response", "creator_id", "updated_at"}),
	}).Create(rec).Error
}

// Remove deletes a filter; missing triggers are a no-op
func (r *FilterRepository) Remove(groupID int64, trigger string) error {
	return r.db.
		Where("group_id = ? AND trigger = ?", groupID, strings.ToLower(trigger)).
		Delete(&models.Filter{}).Error
}

// All returns the group's filters in creation order. Matching iterates in
// this order so "first match wins" is deterministic.
func (r *FilterRepository) All(groupID int64) ([]*models.Filter, error) {
	var rows []*models.Filter
	result := r.db.Where("group_id = ?", groupID).Order("id asc").Find(&rows)
	return rows, result.Error
}
