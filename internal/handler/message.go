package handler

import (
	"context"
	"errors"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-groupwarden/internal/logger"
	"tg-groupwarden/internal/policy"
)

// handleIncomingMessage routes one message update: service messages to
// the join/leave flow, commands to the command flow, everything else
// through locks and filters.
func handleIncomingMessage(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	if message.Chat.Type == "private" {
		return handlePrivateMessage(ctx, bot, message)
	}
	if message.Chat.Type != "group" && message.Chat.Type != "supergroup" {
		return nil
	}

	if len(message.NewChatMembers) > 0 || message.LeftChatMember != nil {
		return handleMembershipMessage(ctx, message)
	}

	if message.From == nil {
		return nil
	}

	if cmd := parseCommand(&message); cmd != nil {
		err := engine.HandleCommand(ctx.Context(), cmd)
		if err != nil && !errors.Is(err, policy.ErrRateLimited) {
			logger.Debugf("Command /%s in group %d: %v", cmd.Name, cmd.GroupID, err)
		}
		// The engine already answered the user; surfacing the error
		// again would just make the handler log it twice.
		return nil
	}

	if err := engine.HandleMessage(ctx.Context(), buildMessage(&message)); err != nil {
		logger.Warningf("Message pipeline in group %d: %v", message.Chat.ID, err)
	}
	return nil
}

// handleEditedMessage re-runs edited content through locks and filters.
// An edit can introduce content the original message never had, so it
// gets the same treatment as a fresh message. Commands are not
// re-executed on edit.
func handleEditedMessage(ctx context.Context, message telego.Message) error {
	if message.Chat.Type != "group" && message.Chat.Type != "supergroup" {
		return nil
	}
	if message.From == nil {
		return nil
	}
	if err := engine.HandleMessage(ctx, buildMessage(&message)); err != nil {
		logger.Warningf("Edited message pipeline in group %d: %v", message.Chat.ID, err)
	}
	return nil
}

// handleMembershipMessage processes join/leave service messages
func handleMembershipMessage(ctx *th.Context, message telego.Message) error {
	for i := range message.NewChatMembers {
		ev := &policy.MemberEvent{
			GroupID:   message.Chat.ID,
			GroupName: message.Chat.Title,
			MessageID: message.MessageID,
			Member:    platformUser(&message.NewChatMembers[i]),
		}
		if err := engine.HandleJoin(ctx.Context(), ev); err != nil {
			logger.Warningf("Join handling in group %d: %v", message.Chat.ID, err)
		}
	}

	if left := message.LeftChatMember; left != nil {
		ev := &policy.MemberEvent{
			GroupID:   message.Chat.ID,
			GroupName: message.Chat.Title,
			MessageID: message.MessageID,
			Member:    platformUser(left),
		}
		if err := engine.HandleLeave(ctx.Context(), ev); err != nil {
			logger.Warningf("Leave handling in group %d: %v", message.Chat.ID, err)
		}
	}

	// The service message itself goes last so greetings reply to a
	// message that still exists.
	if err := engine.HandleServiceMessage(ctx.Context(), message.Chat.ID, message.Chat.Title, message.MessageID); err != nil {
		logger.Warningf("Service message cleanup in group %d: %v", message.Chat.ID, err)
	}
	return nil
}

// handleMyChatMemberUpdate reacts to the bot's own membership changes
func handleMyChatMemberUpdate(ctx *th.Context, bot *telego.Bot, update telego.Update) error {
	if update.MyChatMember == nil {
		return nil
	}

	chat := update.MyChatMember.Chat
	status := update.MyChatMember.NewChatMember.MemberStatus()
	switch status {
	case telego.MemberStatusLeft, telego.MemberStatusBanned:
		logger.Infof("Removed from group %d (%s)", chat.ID, chat.Title)
	case telego.MemberStatusAdministrator:
		logger.Infof("Granted admin rights in group %d (%s)", chat.ID, chat.Title)
	case telego.MemberStatusMember:
		logger.Infof("Added to group %d (%s) without admin rights; moderation needs them", chat.ID, chat.Title)
	}
	return nil
}
