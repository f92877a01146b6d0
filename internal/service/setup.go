package service

import (
	"fmt"

	"gorm.io/gorm"

	"tg-groupwarden/internal/config"
	"tg-groupwarden/internal/storage"
)

// Repositories bundles every repository over one database handle
type Repositories struct {
	Groups       *storage.GroupRepository
	Restrictions *storage.RestrictionRepository
	Warnings     *storage.WarningRepository
	Filters      *storage.FilterRepository
	Locks        *storage.LockRepository
	Federations  *storage.FederationRepository
	Commands     *storage.CommandRepository
}

// NewRepositories creates the repositories and runs their migrations
func NewRepositories(db *gorm.DB) (*Repositories, error) {
	r := &Repositories{
		Groups:       storage.NewGroupRepository(db),
		Restrictions: storage.NewRestrictionRepository(db),
		Warnings:     storage.NewWarningRepository(db),
		Filters:      storage.NewFilterRepository(db),
		Locks:        storage.NewLockRepository(db),
		Federations:  storage.NewFederationRepository(db),
		Commands:     storage.NewCommandRepository(db),
	}

	migrations := []struct {
		name string
		run  func() error
	}{
		{"group configs", r.Groups.MigrateTable},
		{"restrictions", r.Restrictions.MigrateTable},
		{"warnings", r.Warnings.MigrateTable},
		{"filters", r.Filters.MigrateTable},
		{"locks", r.Locks.MigrateTable},
		{"federations", r.Federations.MigrateTable},
		{"disabled commands", r.Commands.MigrateTable},
	}
	for _, m := range migrations {
		if err := m.run(); err != nil {
			return nil, fmt.Errorf("migrating %s: %w", m.name, err)
		}
	}
	return r, nil
}

// NewGroupService wires the group settings service with the configured
// defaults for newly seen groups.
func NewGroupService(repos *Repositories, defaults config.ModerationConfig) *GroupService {
	return newGroupService(repos.Groups, defaults)
}
