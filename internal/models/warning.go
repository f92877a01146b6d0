package models

import "time"

// Warning is one append-only warning event for a user in a group
type Warning struct {
	ID        uint  `gorm:"primaryKey;autoIncrement"`
	GroupID   int64 `gorm:"index:idx_warn_group_user;not null"`
	UserID    int64 `gorm:"index:idx_warn_group_user;not null"`
	Reason    string
	IssuerID  int64
	CreatedAt time.Time
}

// WarnBanThreshold is the live warning count that triggers an automatic
// ban. The escalation fires exactly at this count, not above it.
const WarnBanThreshold = 3
