package storage

import (
	"tg-groupwarden/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommandRepository tracks per-group disabled commands
type CommandRepository struct {
	db *gorm.DB
}

// NewCommandRepository creates a new CommandRepository
func NewCommandRepository(db *gorm.DB) *CommandRepository {
	return &CommandRepository{db: db}
}

// MigrateTable ensures the DisabledCommand table exists
func (r *CommandRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.DisabledCommand{})
}

// Disable switches a command off for a group
func (r *CommandRepository) Disable(groupID int64, command string) error {
	rec := &models.DisabledCommand{GroupID: groupID, Command: command}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}, {Name: "command"}},
		DoNothing: true,
	}).Create(rec).Error
}

// Enable switches a command back on; missing rows are a no-op
func (r *CommandRepository) Enable(groupID int64, command string) error {
	return r.db.
		Where("group_id = ? AND command = ?", groupID, command).
		Delete(&models.DisabledCommand{}).Error
}

// Disabled returns the group's disabled command names
func (r *CommandRepository) Disabled(groupID int64) ([]string, error) {
	var rows []*models.DisabledCommand
	result := r.db.Where("group_id = ?", groupID).Order("command asc").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Command)
	}
	return names, nil
}
