package models

import "time"

// DisabledCommand marks a member-level command as switched off in a group.
// Admin-gated commands cannot be disabled.
type DisabledCommand struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	GroupID   int64  `gorm:"uniqueIndex:idx_group_cmd;not null"`
	Command   string `gorm:"uniqueIndex:idx_group_cmd;size:32;not null"`
	CreatedAt time.Time
}
