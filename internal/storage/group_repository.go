package storage

import (
	"time"

	"tg-groupwarden/internal/models"

	"gorm.io/gorm"
)

// GroupRepository handles database operations for GroupConfig
type GroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// MigrateTable ensures the GroupConfig table exists with the right schema
func (r *GroupRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.GroupConfig{})
}

// GetGroupConfig retrieves group settings by group id, (nil, nil) if absent
func (r *GroupRepository) GetGroupConfig(groupID int64) (*models.GroupConfig, error) {
	var cfg models.GroupConfig
	result := r.db.Where("group_id = ?", groupID).First(&cfg)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &cfg, nil
}

// CreateOrUpdateGroupConfig creates a group config record or updates an existing one
func (r *GroupRepository) CreateOrUpdateGroupConfig(cfg *models.GroupConfig) error {
	var existing models.GroupConfig
	result := r.db.Where("group_id = ?", cfg.GroupID).First(&existing)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			cfg.CreatedAt = time.Now()
			cfg.UpdatedAt = time.Now()
			return r.db.Create(cfg).Error
		}
		return result.Error
	}

	cfg.ID = existing.ID
	cfg.CreatedAt = existing.CreatedAt
	cfg.UpdatedAt = time.Now()

	return r.db.Save(cfg).Error
}

// GetAllGroupConfigs retrieves every group's settings
func (r *GroupRepository) GetAllGroupConfigs() ([]*models.GroupConfig, error) {
	var groups []*models.GroupConfig
	result := r.db.Find(&groups)
	if result.Error != nil {
		return nil, result.Error
	}
	return groups, nil
}

// GetGroupsByFederation returns the configs of all groups subscribed to a federation
func (r *GroupRepository) GetGroupsByFederation(fedID string) ([]*models.GroupConfig, error) {
	var groups []*models.GroupConfig
	result := r.db.Where("federation_id = ?", fedID).Find(&groups)
	if result.Error != nil {
		return nil, result.Error
	}
	return groups, nil
}
