package policy

import (
	"context"
	"fmt"
	"strings"

	"tg-groupwarden/internal/models"
	"tg-groupwarden/internal/platform"
)

func (e *Engine) cmdPromote(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	target, _, err := e.resolveEnforceableTarget(cmd)
	if err != nil {
		return err
	}

	if err := e.exec.Promote(ctx, cmd.GroupID, target.ID); err != nil {
		return err
	}

	e.confirm(ctx, cmd, gc, fmt.Sprintf("Promoted %s.", target.Name()))
	e.logAction(ctx, gc, "#PROMOTE group=%d user=%d by=%d", cmd.GroupID, target.ID, cmd.Actor.ID)
	return nil
}

func (e *Engine) cmdDemote(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	target, _, err := e.resolveEnforceableTarget(cmd)
	if err != nil {
		return err
	}

	if err := e.exec.Demote(ctx, cmd.GroupID, target.ID); err != nil {
		return err
	}

	e.confirm(ctx, cmd, gc, fmt.Sprintf("Demoted %s.", target.Name()))
	e.logAction(ctx, gc, "#DEMOTE group=%d user=%d by=%d", cmd.GroupID, target.ID, cmd.Actor.ID)
	return nil
}

func (e *Engine) cmdAdmins(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	admins, err := e.chat.Administrators(ctx, cmd.GroupID)
	if err != nil {
		return fmt.Errorf("listing administrators: %w", err)
	}

	var b strings.Builder
	b.WriteString("Administrators:\n")
	for _, admin := range admins {
		if admin.User.IsBot {
			continue
		}
		name := admin.User.FirstName
		if admin.User.Username != "" {
			name = "@" + admin.User.Username
		}
		if admin.Role == platform.RoleCreator {
			fmt.Fprintf(&b, "- %s (owner)\n", name)
		} else {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}
	e.reply(ctx, cmd, b.String())
	return nil
}
