package policy

import (
	"context"
	"fmt"
	"strings"

	"tg-groupwarden/internal/models"
	"tg-groupwarden/internal/platform"
)

func (e *Engine) cmdReport(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	if cmd.ReplyTo == nil {
		e.reply(ctx, cmd, "Reply to the message you want to report.")
		return nil
	}

	admins, err := e.chat.Administrators(ctx, cmd.GroupID)
	if err != nil {
		return fmt.Errorf("listing administrators: %w", err)
	}

	// Mentioning the admins is what actually notifies them
	var mentions []string
	for _, admin := range admins {
		if admin.User.IsBot {
			continue
		}
		mentions = append(mentions, fmt.Sprintf(`<a href="tg://user?id=%d">&#8203;</a>`, admin.User.ID))
	}

	reporter := cmd.Actor.FirstName
	text := fmt.Sprintf("%s reported a message to the admins.%s", reporter, strings.Join(mentions, ""))
	if _, err := e.exec.Send(ctx, cmd.GroupID, text, &platform.SendOptions{
		ParseMode:        "HTML",
		ReplyToMessageID: cmd.ReplyMessageID,
	}); err != nil {
		return err
	}

	e.logAction(ctx, gc, "#REPORT group=%d message=%d by=%d against=%d",
		cmd.GroupID, cmd.ReplyMessageID, cmd.Actor.ID, cmd.ReplyTo.ID)
	return nil
}

func (e *Engine) cmdID(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	if cmd.ReplyTo != nil {
		e.reply(ctx, cmd, fmt.Sprintf("Group id: %d\nUser id: %d", cmd.GroupID, cmd.ReplyTo.ID))
		return nil
	}
	e.reply(ctx, cmd, fmt.Sprintf("Group id: %d\nYour id: %d", cmd.GroupID, cmd.Actor.ID))
	return nil
}

func (e *Engine) cmdInfo(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	target, _, err := ResolveTarget(cmd)
	if err != nil || !target.Resolvable() {
		target = userToTarget(&cmd.Actor)
	}

	warns, err := e.warnings.Count(cmd.GroupID, target.ID)
	if err != nil {
		return storeErr("warnings.count", err)
	}
	active, err := e.restrictions.Active(cmd.GroupID, target.ID)
	if err != nil {
		return storeErr("restrictions.active", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User: %s\nID: %d\n", target.Name(), target.ID)
	fmt.Fprintf(&b, "Warnings: %d/%d\n", warns, models.WarnBanThreshold)
	if len(active) > 0 {
		fmt.Fprintf(&b, "Active restrictions: %s\n", strings.Join(active, ", "))
	}
	e.reply(ctx, cmd, b.String())
	return nil
}

func (e *Engine) cmdKickMe(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	if e.targetIsPrivileged(ctx, cmd.GroupID, cmd.Actor.ID) {
		e.reply(ctx, cmd, "Admins cannot kick themselves. Ask the owner to demote you first.")
		return nil
	}

	if err := e.exec.Kick(ctx, cmd.GroupID, cmd.Actor.ID); err != nil {
		return err
	}
	e.confirm(ctx, cmd, gc, fmt.Sprintf("%s kicked themselves. See you around.", cmd.Actor.FirstName))
	return nil
}
