package models

import "time"

// Restriction kinds. A temporary kind without an expiry is invalid.
const (
	RestrictionBan   = "ban"
	RestrictionTBan  = "tban"
	RestrictionMute  = "mute"
	RestrictionTMute = "tmute"
)

// IsTemporaryKind reports whether kind requires an expiry
func IsTemporaryKind(kind string) bool {
	return kind == RestrictionTBan || kind == RestrictionTMute
}

// Restriction records an enforcement state for one user in one group.
// Unique per (group, user, kind); repeat application upserts reason and
// expiry while keeping the original creation time.
type Restriction struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	GroupID   int64  `gorm:"uniqueIndex:idx_group_user_kind;not null"`
	UserID    int64  `gorm:"uniqueIndex:idx_group_user_kind;not null"`
	Kind      string `gorm:"uniqueIndex:idx_group_user_kind;size:16;not null"`
	ExpiresAt *time.Time
	Reason    string `gorm:"type:text"`
	IssuerID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the restriction has a past expiry. Readers must
// treat expired rows as absent even before they are purged.
func (r *Restriction) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}
