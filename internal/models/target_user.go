package models

import "fmt"

// TargetUser is the unified shape for a command target, whether it came
// from a reply, an @mention or a literal numeric id. ID is zero when only
// a username is known; such a target cannot be enforced against and must
// fail identification cleanly rather than crash.
type TargetUser struct {
	ID          int64
	Username    string
	DisplayName string
}

// Resolvable reports whether the target carries a usable user id
func (t *TargetUser) Resolvable() bool {
	return t != nil && t.ID != 0
}

// Name returns the best human-readable name for the target
func (t *TargetUser) Name() string {
	if t == nil {
		return "Unknown"
	}
	if t.DisplayName != "" {
		return t.DisplayName
	}
	if t.Username != "" {
		return "@" + t.Username
	}
	if t.ID != 0 {
		return fmt.Sprintf("%d", t.ID)
	}
	return "Unknown"
}
