package models

import (
	"sync"
	"time"
)

// GroupConfig holds per-group moderation settings. One row per group,
// created lazily on first write and never deleted.
type GroupConfig struct {
	ID        uint  `gorm:"primaryKey;autoIncrement"`
	GroupID   int64 `gorm:"uniqueIndex;not null"`
	GroupName string

	WelcomeTemplate string `gorm:"type:text"`
	GoodbyeTemplate string `gorm:"type:text"`
	Rules           string `gorm:"type:text"`
	PrivateRules    bool   `gorm:"default:false"`
	CleanWelcome    bool   `gorm:"default:false"`
	CleanService    bool   `gorm:"default:false"`
	Silent          bool   `gorm:"default:false"`

	// 0 means no log channel configured
	LogChannel   int64  `gorm:"default:0"`
	FederationID string `gorm:"default:''"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GroupConfigManager is an in-memory cache of group settings keyed by group id
type GroupConfigManager struct {
	configs map[int64]*GroupConfig
	mu      sync.RWMutex
}

func NewGroupConfigManager() *GroupConfigManager {
	return &GroupConfigManager{
		configs: make(map[int64]*GroupConfig),
	}
}

func (m *GroupConfigManager) Get(groupID int64) *GroupConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.configs[groupID]
}

func (m *GroupConfigManager) Put(cfg *GroupConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[cfg.GroupID] = cfg
}

func (m *GroupConfigManager) Remove(groupID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.configs, groupID)
}
