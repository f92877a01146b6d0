package handler

import (
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupMessage(text string) *telego.Message {
	return &telego.Message{
		MessageID: 42,
		Text:      text,
		Chat:      telego.Chat{ID: -1001, Title: "Gophers", Type: "supergroup"},
		From:      &telego.User{ID: 7, FirstName: "Ada", Username: "ada"},
	}
}

func TestParseCommandBasics(t *testing.T) {
	cmd := parseCommand(groupMessage("/ban 100 spamming all day"))
	require.NotNil(t, cmd)
	assert.Equal(t, "ban", cmd.Name)
	assert.Equal(t, []string{"100", "spamming", "all", "day"}, cmd.Args)
	assert.Equal(t, "100 spamming all day", cmd.ArgText)
	assert.EqualValues(t, -1001, cmd.GroupID)
	assert.EqualValues(t, 7, cmd.Actor.ID)
}

func TestParseCommandStripsBotSuffix(t *testing.T) {
	cmd := parseCommand(groupMessage("/BAN@GroupWardenBot 100"))
	require.NotNil(t, cmd)
	assert.Equal(t, "ban", cmd.Name)
}

func TestParseCommandCapturesReply(t *testing.T) {
	msg := groupMessage("/warn no links")
	msg.ReplyToMessage = &telego.Message{
		MessageID: 41,
		From:      &telego.User{ID: 100, FirstName: "Mallory"},
	}

	cmd := parseCommand(msg)
	require.NotNil(t, cmd)
	require.NotNil(t, cmd.ReplyTo)
	assert.EqualValues(t, 100, cmd.ReplyTo.ID)
	assert.Equal(t, 41, cmd.ReplyMessageID)
	assert.Equal(t, []string{"no", "links"}, cmd.Args)
}

func TestParseCommandIgnoresPlainText(t *testing.T) {
	assert.Nil(t, parseCommand(groupMessage("hello there")))
	assert.Nil(t, parseCommand(groupMessage("/")))
}

func TestBuildMessageFlags(t *testing.T) {
	msg := groupMessage("")
	msg.Caption = "look at this"
	msg.Photo = []telego.PhotoSize{{FileID: "x"}}
	msg.Sticker = &telego.Sticker{FileID: "y"}
	msg.ViaBot = &telego.User{ID: 99, IsBot: true}

	got := buildMessage(msg)
	assert.True(t, got.Flags.HasPhoto)
	assert.True(t, got.Flags.HasSticker)
	assert.True(t, got.Flags.ViaInlineBot)
	assert.False(t, got.Flags.Forwarded)
	assert.Equal(t, "look at this", got.Text)
}
