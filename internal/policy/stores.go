package policy

import (
	"time"

	"tg-groupwarden/internal/models"
)

// The engine consumes its ledgers through these interfaces; the storage
// repositories satisfy them directly.

// SettingsStore hands out per-group settings, creating a record with the
// configured defaults on first access.
type SettingsStore interface {
	Get(groupID int64, groupName string) (*models.GroupConfig, error)
	Save(cfg *models.GroupConfig) error
}

// RestrictionLedger records bans and mutes, durable across restarts
type RestrictionLedger interface {
	Apply(groupID, userID int64, kind, reason string, issuerID int64, expiresAt *time.Time) (*models.Restriction, error)
	Revoke(groupID, userID int64, kinds ...string) error
	Active(groupID, userID int64) ([]string, error)
}

// WarningLedger records warnings per (group, user)
type WarningLedger interface {
	Add(groupID, userID int64, reason string, issuerID int64) (int, error)
	Count(groupID, userID int64) (int, error)
	Clear(groupID, userID int64) error
	List(groupID, userID int64) ([]*models.Warning, error)
}

// FilterStore holds a group's trigger/response pairs
type FilterStore interface {
	Upsert(groupID int64, trigger, response string, creatorID int64) error
	Remove(groupID int64, trigger string) error
	All(groupID int64) ([]*models.Filter, error)
}

// LockStore holds a group's locked content kinds
type LockStore interface {
	Lock(groupID int64, kind string) error
	Unlock(groupID int64, kind string) error
	Locked(groupID int64) (map[string]bool, error)
}

// FederationStore manages federations and their shared ban lists
type FederationStore interface {
	Create(fed *models.Federation) error
	Get(fedID string) (*models.Federation, error)
	AddBan(fedID string, userID int64, reason string, issuerID int64) error
	RemoveBan(fedID string, userID int64) error
	GetBan(fedID string, userID int64) (*models.FederationBan, error)
	CountBans(fedID string) (int64, error)
}

// CommandToggle tracks which commands a group has disabled
type CommandToggle interface {
	Disable(groupID int64, command string) error
	Enable(groupID int64, command string) error
	Disabled(groupID int64) ([]string, error)
}
