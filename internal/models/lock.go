package models

import "time"

// Lock kinds. LockKinds lists them in classification priority order:
// a message is deleted for the first locked kind it matches.
const (
	LockAll      = "all"
	LockMsg      = "msg"
	LockMedia    = "media"
	LockSticker  = "sticker"
	LockGif      = "gif"
	LockURL      = "url"
	LockBots     = "bots"
	LockForward  = "forward"
	LockGame     = "game"
	LockLocation = "location"
	LockRTL      = "rtl"
	LockButton   = "button"
	LockEGame    = "egame"
	LockInline   = "inline"
)

var LockKinds = []string{
	LockAll, LockMsg, LockMedia, LockSticker, LockGif, LockURL, LockBots,
	LockForward, LockGame, LockLocation, LockRTL, LockButton, LockEGame,
	LockInline,
}

// ValidLockKind reports whether kind is a known lock type
func ValidLockKind(kind string) bool {
	for _, k := range LockKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Lock marks one content category as disallowed in a group.
// Presence of the row means locked; absence means unlocked.
type Lock struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	GroupID   int64  `gorm:"uniqueIndex:idx_group_lock;not null"`
	Kind      string `gorm:"uniqueIndex:idx_group_lock;size:16;not null"`
	CreatedAt time.Time
}
