package handler

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
)

const startText = `Hello! I keep group chats tidy: bans, mutes, warnings, ` +
	`content locks, word filters and welcome messages.

Add me to a group and grant me admin rights, then use /help there to see ` +
	`what I can do.`

const helpText = `Moderation (admins):
/ban /tban /mute /tmute /kick /unban /unmute
/warn /unwarn /warns /promote /demote

Group setup (admins):
/setwelcome /setgoodbye /cleanwelcome /cleanservice /silent
/setrules /privaterules /setlog /disable /enable /disabled
/lock /unlock /locks /filter /stop /filters

Federations (group owner):
/newfed /joinfed /leavefed /fedinfo /fban /unfban

Everyone:
/rules /admins /report /id /info /kickme

Temporary restrictions take a duration like 30m, 12h, 7d or 2w.`

// handlePrivateMessage serves the direct-chat surface: /start and /help
func handlePrivateMessage(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	var text string
	switch {
	case message.Text == "/start":
		text = startText
	case message.Text == "/help":
		text = helpText
	default:
		return nil
	}

	_, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: message.Chat.ID},
		Text:   text,
	})
	return err
}
