package models

import "time"

// Filter maps a case-folded trigger word to an automatic response.
// Unique per (group, trigger); redefining a trigger replaces the response.
type Filter struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	GroupID   int64  `gorm:"uniqueIndex:idx_group_trigger;not null"`
	Trigger   string `gorm:"uniqueIndex:idx_group_trigger;size:190;not null"`
	Response  string `gorm:"type:text"`
	CreatorID int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
