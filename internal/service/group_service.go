package service

import (
	"tg-groupwarden/internal/config"
	"tg-groupwarden/internal/logger"
	"tg-groupwarden/internal/models"
	"tg-groupwarden/internal/storage"
)

// GroupService serves per-group settings through a write-through memory
// cache, creating a record with the configured defaults the first time
// a group is seen.
type GroupService struct {
	repo     *storage.GroupRepository
	cache    *models.GroupConfigManager
	defaults config.ModerationConfig
}

func newGroupService(repo *storage.GroupRepository, defaults config.ModerationConfig) *GroupService {
	return &GroupService{
		repo:     repo,
		cache:    models.NewGroupConfigManager(),
		defaults: defaults,
	}
}

// Get returns the group's settings, creating them on first access.
// Callers receive a private copy; the cached record is only updated
// through Save, so concurrent handlers never share a mutable struct.
func (s *GroupService) Get(groupID int64, groupName string) (*models.GroupConfig, error) {
	if cached := s.cache.Get(groupID); cached != nil {
		cp := *cached
		return &cp, nil
	}

	cfg, err := s.repo.GetGroupConfig(groupID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &models.GroupConfig{
			GroupID:      groupID,
			GroupName:    groupName,
			CleanWelcome: s.defaults.CleanWelcome,
			CleanService: s.defaults.CleanService,
			Silent:       s.defaults.Silent,
			PrivateRules: s.defaults.PrivateRules,
		}
		if err := s.repo.CreateOrUpdateGroupConfig(cfg); err != nil {
			return nil, err
		}
		logger.Infof("Created settings for new group %d (%s)", groupID, groupName)
	}

	cached := *cfg
	s.cache.Put(&cached)
	return cfg, nil
}

// Save persists changed settings and refreshes the cache with its own copy
func (s *GroupService) Save(cfg *models.GroupConfig) error {
	if err := s.repo.CreateOrUpdateGroupConfig(cfg); err != nil {
		return err
	}
	cached := *cfg
	s.cache.Put(&cached)
	return nil
}

// Evict drops a group from the cache, e.g. after the bot is removed
func (s *GroupService) Evict(groupID int64) {
	s.cache.Remove(groupID)
}
