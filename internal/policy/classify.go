package policy

import (
	"strings"
	"unicode"

	"tg-groupwarden/internal/models"
)

// Substrings that mark a message as carrying a link. Checked against the
// case-folded text, so uppercase variants match too.
var urlMarkers = []string{
	"http://", "https://", "www.", "t.me/", ".com", ".net", ".org", ".io", ".me",
}

// FirstLockedKind returns the first kind in priority order that is both
// locked for the group and present in the message, or "" when the
// message violates no lock. Classification short-circuits: one message
// is deleted at most once, for exactly one kind.
func FirstLockedKind(locked map[string]bool, msg *Message) string {
	for _, kind := range models.LockKinds {
		if !locked[kind] {
			continue
		}
		if messageMatchesKind(kind, msg) {
			return kind
		}
	}
	return ""
}

func messageMatchesKind(kind string, msg *Message) bool {
	f := msg.Flags
	switch kind {
	case models.LockAll:
		return true
	case models.LockMsg:
		return msg.Text != ""
	case models.LockMedia:
		return f.HasPhoto || f.HasVideo || f.HasAudio || f.HasVoice || f.HasDocument
	case models.LockSticker:
		return f.HasSticker
	case models.LockGif:
		return f.HasAnimation
	case models.LockURL:
		return containsURL(msg.Text)
	case models.LockBots:
		return msg.Sender.IsBot
	case models.LockForward:
		return f.Forwarded
	case models.LockGame:
		return f.HasGame
	case models.LockLocation:
		return f.HasLocation
	case models.LockRTL:
		return containsRTL(msg.Text)
	case models.LockButton:
		return f.HasButtons
	case models.LockEGame:
		return f.HasDice
	case models.LockInline:
		return f.ViaInlineBot
	default:
		return false
	}
}

func containsURL(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range urlMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func containsRTL(text string) bool {
	for _, r := range text {
		if unicode.In(r, unicode.Hebrew, unicode.Arabic) {
			return true
		}
	}
	return false
}
