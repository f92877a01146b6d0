package handler

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-groupwarden/internal/config"
	"tg-groupwarden/internal/crash"
	"tg-groupwarden/internal/policy"
)

var (
	globalConfig *config.Config
	engine       *policy.Engine
)

// Initialize stores the configuration and the engine the handlers drive
func Initialize(cfg *config.Config, eng *policy.Engine) {
	globalConfig = cfg
	engine = eng
}

// SetupMessageHandlers configures all bot message and update handlers
func SetupMessageHandlers(bh *th.BotHandler, bot *telego.Bot) {
	bh.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		defer crash.RecoverWithStack("message-handler")
		return handleIncomingMessage(ctx, bot, message)
	})

	bh.HandleEditedMessage(func(ctx *th.Context, message telego.Message) error {
		defer crash.RecoverWithStack("edited-message-handler")
		return handleEditedMessage(ctx.Context(), message)
	})

	bh.Handle(func(ctx *th.Context, update telego.Update) error {
		defer crash.RecoverWithStack("my-chat-member-handler")
		return handleMyChatMemberUpdate(ctx, bot, update)
	}, th.AnyMyChatMember())
}
