package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tg-groupwarden/internal/models"
	"tg-groupwarden/internal/platform"
)

func TestFirstLockedKindPriorityOrder(t *testing.T) {
	// Media outranks sticker: a message matching both reports media
	msg := &Message{
		Text:  "",
		Flags: MessageFlags{HasPhoto: true, HasSticker: true},
	}
	locked := map[string]bool{models.LockSticker: true, models.LockMedia: true}
	assert.Equal(t, models.LockMedia, FirstLockedKind(locked, msg))

	// With media unlocked the sticker lock catches it
	locked = map[string]bool{models.LockSticker: true}
	assert.Equal(t, models.LockSticker, FirstLockedKind(locked, msg))
}

func TestLockAllOutranksEverything(t *testing.T) {
	msg := &Message{Text: "hello", Flags: MessageFlags{HasPhoto: true}}
	locked := map[string]bool{models.LockAll: true, models.LockMedia: true, models.LockMsg: true}
	assert.Equal(t, models.LockAll, FirstLockedKind(locked, msg))
}

func TestNoLockedKindMatches(t *testing.T) {
	msg := &Message{Text: "just chatting"}
	locked := map[string]bool{models.LockSticker: true, models.LockURL: true}
	assert.Empty(t, FirstLockedKind(locked, msg))
}

func TestURLLockMatchesMarkers(t *testing.T) {
	locked := map[string]bool{models.LockURL: true}
	for _, text := range []string{
		"check https://example.com/x",
		"WWW.EXAMPLE.ORG",
		"join t.me/somegroup now",
	} {
		msg := &Message{Text: text}
		assert.Equal(t, models.LockURL, FirstLockedKind(locked, msg), text)
	}

	clean := &Message{Text: "no links here"}
	assert.Empty(t, FirstLockedKind(locked, clean))
}

func TestBotsLockUsesSenderNotInline(t *testing.T) {
	locked := map[string]bool{models.LockBots: true}

	fromBot := &Message{Sender: platform.User{IsBot: true}, Text: "beep"}
	assert.Equal(t, models.LockBots, FirstLockedKind(locked, fromBot))

	viaInline := &Message{Text: "result", Flags: MessageFlags{ViaInlineBot: true}}
	assert.Empty(t, FirstLockedKind(locked, viaInline))

	locked[models.LockInline] = true
	assert.Equal(t, models.LockInline, FirstLockedKind(locked, viaInline))
}

func TestRTLLock(t *testing.T) {
	locked := map[string]bool{models.LockRTL: true}

	hebrew := &Message{Text: "שלום"}
	assert.Equal(t, models.LockRTL, FirstLockedKind(locked, hebrew))

	arabic := &Message{Text: "مرحبا"}
	assert.Equal(t, models.LockRTL, FirstLockedKind(locked, arabic))

	latin := &Message{Text: "hello"}
	assert.Empty(t, FirstLockedKind(locked, latin))
}
