package storage

import (
	"tg-groupwarden/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FederationRepository manages federations and their shared ban lists
type FederationRepository struct {
	db *gorm.DB
}

// NewFederationRepository creates a new FederationRepository
func NewFederationRepository(db *gorm.DB) *FederationRepository {
	return &FederationRepository{db: db}
}

// MigrateTable ensures the federation tables exist
func (r *FederationRepository) MigrateTable() error {
	if err := r.db.AutoMigrate(&models.Federation{}); err != nil {
		return err
	}
	return r.db.AutoMigrate(&models.FederationBan{})
}

// Create stores a new federation
func (r *FederationRepository) Create(fed *models.Federation) error {
	return r.db.Create(fed).Error
}

// Get retrieves a federation by its id, (nil, nil) if absent
func (r *FederationRepository) Get(fedID string) (*models.Federation, error) {
	var fed models.Federation
	result := r.db.Where("fed_id = ?", fedID).First(&fed)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &fed, nil
}

// AddBan upserts a federation-wide ban for a user
func (r *FederationRepository) AddBan(fedID string, userID int64, reason string, issuerID int64) error {
	rec := &models.FederationBan{
		FedID:    fedID,
		UserID:   userID,
		Reason:   reason,
		IssuerID: issuerID,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fed_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reason", "issuer_id"}),
	}).Create(rec).Error
}

// RemoveBan deletes a federation ban; missing rows are a no-op
func (r *FederationRepository) RemoveBan(fedID string, userID int64) error {
	return r.db.
		Where("fed_id = ? AND user_id = ?", fedID, userID).
		Delete(&models.FederationBan{}).Error
}

// GetBan returns the federation ban for a user, (nil, nil) if absent
func (r *FederationRepository) GetBan(fedID string, userID int64) (*models.FederationBan, error) {
	var ban models.FederationBan
	result := r.db.Where("fed_id = ? AND user_id = ?", fedID, userID).First(&ban)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &ban, nil
}

// CountBans returns the number of bans shared by a federation
func (r *FederationRepository) CountBans(fedID string) (int64, error) {
	var count int64
	result := r.db.Model(&models.FederationBan{}).Where("fed_id = ?", fedID).Count(&count)
	return count, result.Error
}
