package platform

import (
	"context"
	"strings"
	"time"

	"github.com/mymmrac/telego"

	"tg-groupwarden/internal/logger"
)

// Telegram adapts a telego bot to the Chat capability contract
type Telegram struct {
	bot *telego.Bot
}

// NewTelegram creates a Telegram-backed Chat implementation
func NewTelegram(bot *telego.Bot) *Telegram {
	return &Telegram{bot: bot}
}

// Bot exposes the underlying telego bot for transport-level code
func (t *Telegram) Bot() *telego.Bot {
	return t.bot
}

// Responses Telegram gives when the requested state already holds or the
// subject is gone. These are normalized so the executor can treat them
// as idempotent successes.
var alreadyInStateMarkers = []string{
	"message to delete not found",
	"message can't be deleted",
	"user not found",
	"participant_id_invalid",
	"user_not_participant",
	"member status can't be changed",
	"chat_admin_required", // demoting a non-admin
	"user is not banned",
}

func normalizeError(err error) error {
	if err == nil {
		return nil
	}
	desc := strings.ToLower(err.Error())
	for _, marker := range alreadyInStateMarkers {
		if strings.Contains(desc, marker) {
			return ErrAlreadyInState
		}
	}
	if strings.Contains(desc, "not found") {
		return ErrNotFound
	}
	return err
}

// MemberRole resolves a member's authority in a chat
func (t *Telegram) MemberRole(ctx context.Context, chatID, userID int64) (Role, error) {
	member, err := t.bot.GetChatMember(ctx, &telego.GetChatMemberParams{
		ChatID: telego.ChatID{ID: chatID},
		UserID: userID,
	})
	if err != nil {
		return RoleUnknown, err
	}

	switch member.MemberStatus() {
	case telego.MemberStatusCreator:
		return RoleCreator, nil
	case telego.MemberStatusAdministrator:
		return RoleAdministrator, nil
	default:
		return RoleMember, nil
	}
}

// Administrators lists the chat's admins with their roles
func (t *Telegram) Administrators(ctx context.Context, chatID int64) ([]Member, error) {
	admins, err := t.bot.GetChatAdministrators(ctx, &telego.GetChatAdministratorsParams{
		ChatID: telego.ChatID{ID: chatID},
	})
	if err != nil {
		return nil, err
	}

	members := make([]Member, 0, len(admins))
	for _, admin := range admins {
		role := RoleAdministrator
		if admin.MemberStatus() == telego.MemberStatusCreator {
			role = RoleCreator
		}
		user := admin.MemberUser()
		members = append(members, Member{
			User: User{
				ID:        user.ID,
				FirstName: user.FirstName,
				LastName:  user.LastName,
				Username:  user.Username,
				IsBot:     user.IsBot,
			},
			Role: role,
		})
	}
	return members, nil
}

// Ban bans a member, optionally until a given time
func (t *Telegram) Ban(ctx context.Context, chatID, userID int64, until *time.Time) error {
	params := &telego.BanChatMemberParams{
		ChatID: telego.ChatID{ID: chatID},
		UserID: userID,
	}
	if until != nil {
		params.UntilDate = until.Unix()
	}
	return normalizeError(t.bot.BanChatMember(ctx, params))
}

// Unban lifts a ban; Telegram treats unbanning a non-banned user as ok
func (t *Telegram) Unban(ctx context.Context, chatID, userID int64) error {
	return normalizeError(t.bot.UnbanChatMember(ctx, &telego.UnbanChatMemberParams{
		ChatID:       telego.ChatID{ID: chatID},
		UserID:       userID,
		OnlyIfBanned: true,
	}))
}

// Mute removes a member's send permissions, optionally until a given time
func (t *Telegram) Mute(ctx context.Context, chatID, userID int64, until *time.Time) error {
	params := &telego.RestrictChatMemberParams{
		ChatID:      telego.ChatID{ID: chatID},
		UserID:      userID,
		Permissions: telego.ChatPermissions{},
	}
	if until != nil {
		params.UntilDate = until.Unix()
	}
	return normalizeError(t.bot.RestrictChatMember(ctx, params))
}

// Unmute restores the chat's default permissions for a member
func (t *Telegram) Unmute(ctx context.Context, chatID, userID int64) error {
	permissions := telego.ChatPermissions{}
	chatInfo, err := t.bot.GetChat(ctx, &telego.GetChatParams{
		ChatID: telego.ChatID{ID: chatID},
	})
	if err == nil && chatInfo.Permissions != nil {
		permissions = *chatInfo.Permissions
	} else if err != nil {
		logger.Warningf("Error getting chat %d permissions, unmuting with defaults: %v", chatID, err)
		canSend := true
		permissions.CanSendMessages = &canSend
	}

	return normalizeError(t.bot.RestrictChatMember(ctx, &telego.RestrictChatMemberParams{
		ChatID:      telego.ChatID{ID: chatID},
		UserID:      userID,
		Permissions: permissions,
	}))
}

// Promote grants a member the standard moderation rights
func (t *Telegram) Promote(ctx context.Context, chatID, userID int64) error {
	canManage := true
	return normalizeError(t.bot.PromoteChatMember(ctx, &telego.PromoteChatMemberParams{
		ChatID:             telego.ChatID{ID: chatID},
		UserID:             userID,
		CanDeleteMessages:  &canManage,
		CanRestrictMembers: &canManage,
		CanInviteUsers:     &canManage,
		CanPinMessages:     &canManage,
	}))
}

// Demote strips a member's admin rights
func (t *Telegram) Demote(ctx context.Context, chatID, userID int64) error {
	noRights := false
	return normalizeError(t.bot.PromoteChatMember(ctx, &telego.PromoteChatMemberParams{
		ChatID:              telego.ChatID{ID: chatID},
		UserID:              userID,
		CanChangeInfo:       &noRights,
		CanDeleteMessages:   &noRights,
		CanRestrictMembers:  &noRights,
		CanInviteUsers:      &noRights,
		CanPinMessages:      &noRights,
		CanPromoteMembers:   &noRights,
		CanManageChat:       &noRights,
		CanManageVideoChats: &noRights,
	}))
}

// DeleteMessage removes a message from a chat
func (t *Telegram) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	return normalizeError(t.bot.DeleteMessage(ctx, &telego.DeleteMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		MessageID: messageID,
	}))
}

// SendMessage sends a text message to a chat
func (t *Telegram) SendMessage(ctx context.Context, chatID int64, text string, opts *SendOptions) (MessageRef, error) {
	params := &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	}
	if opts != nil {
		params.ParseMode = opts.ParseMode
		if opts.ReplyToMessageID != 0 {
			params.ReplyParameters = &telego.ReplyParameters{
				MessageID:                opts.ReplyToMessageID,
				AllowSendingWithoutReply: true,
			}
		}
	}

	msg, err := t.bot.SendMessage(ctx, params)
	if err != nil {
		return MessageRef{}, err
	}
	return MessageRef{ChatID: chatID, MessageID: msg.MessageID}, nil
}
