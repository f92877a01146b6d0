package storage

import (
	"tg-groupwarden/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockRepository holds per-group content locks with set semantics
type LockRepository struct {
	db *gorm.DB
}

// NewLockRepository creates a new LockRepository
func NewLockRepository(db *gorm.DB) *LockRepository {
	return &LockRepository{db: db}
}

// MigrateTable ensures the Lock table exists
func (r *LockRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.Lock{})
}

// Lock adds a lock kind; locking an already locked kind is a no-op
func (r *LockRepository) Lock(groupID int64, kind string) error {
	rec := &models.Lock{GroupID: groupID, Kind: kind}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}, {Name: "kind"}},
		DoNothing: true,
	}).Create(rec).Error
}

// Unlock removes a lock kind; missing rows are a no-op
func (r *LockRepository) Unlock(groupID int64, kind string) error {
	return r.db.
		Where("group_id = ? AND kind = ?", groupID, kind).
		Delete(&models.Lock{}).Error
}

// Locked returns the set of locked kinds for a group
func (r *LockRepository) Locked(groupID int64) (map[string]bool, error) {
	var rows []*models.Lock
	result := r.db.Where("group_id = ?", groupID).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	locked := make(map[string]bool, len(rows))
	for _, row := range rows {
		locked[row.Kind] = true
	}
	return locked, nil
}
