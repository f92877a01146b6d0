package policy

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"tg-groupwarden/internal/models"
)

func (e *Engine) cmdNewFed(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	name := strings.TrimSpace(cmd.ArgText)
	if name == "" {
		e.reply(ctx, cmd, "Usage: /newfed <federation name>")
		return nil
	}

	fed := &models.Federation{
		FedID:   uuid.NewString(),
		Name:    name,
		OwnerID: cmd.Actor.ID,
	}
	if err := e.federations.Create(fed); err != nil {
		return storeErr("federations.create", err)
	}

	e.reply(ctx, cmd, fmt.Sprintf("Federation %q created.\nID: %s\nJoin it from other groups with /joinfed %s", name, fed.FedID, fed.FedID))
	return nil
}

func (e *Engine) cmdJoinFed(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	if len(cmd.Args) == 0 {
		e.reply(ctx, cmd, "Usage: /joinfed <federation id>")
		return nil
	}

	fedID := cmd.Args[0]
	fed, err := e.federations.Get(fedID)
	if err != nil {
		return storeErr("federations.get", err)
	}
	if fed == nil {
		e.reply(ctx, cmd, "No federation with that id.")
		return nil
	}

	gc.FederationID = fedID
	if err := e.saveConfig(cmd, gc); err != nil {
		return err
	}
	e.confirm(ctx, cmd, gc, fmt.Sprintf("This group joined federation %q.", fed.Name))
	e.logAction(ctx, gc, "#JOINFED group=%d fed=%s by=%d", cmd.GroupID, fedID, cmd.Actor.ID)
	return nil
}

func (e *Engine) cmdLeaveFed(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	if gc.FederationID == "" {
		e.reply(ctx, cmd, "This group is not in a federation.")
		return nil
	}

	fedID := gc.FederationID
	gc.FederationID = ""
	if err := e.saveConfig(cmd, gc); err != nil {
		return err
	}
	e.confirm(ctx, cmd, gc, "This group left its federation.")
	e.logAction(ctx, gc, "#LEAVEFED group=%d fed=%s by=%d", cmd.GroupID, fedID, cmd.Actor.ID)
	return nil
}

func (e *Engine) cmdFedInfo(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	if gc.FederationID == "" {
		e.reply(ctx, cmd, "This group is not in a federation.")
		return nil
	}

	fed, err := e.federations.Get(gc.FederationID)
	if err != nil {
		return storeErr("federations.get", err)
	}
	if fed == nil {
		e.reply(ctx, cmd, "The federation this group joined no longer exists.")
		return nil
	}

	bans, err := e.federations.CountBans(fed.FedID)
	if err != nil {
		return storeErr("federations.countbans", err)
	}

	e.reply(ctx, cmd, fmt.Sprintf("Federation: %s\nID: %s\nBanned users: %d", fed.Name, fed.FedID, bans))
	return nil
}

// fedOwner checks that the actor owns the federation this group joined
func (e *Engine) fedOwner(cmd *Command, gc *models.GroupConfig) (*models.Federation, error) {
	if gc.FederationID == "" {
		return nil, nil
	}
	fed, err := e.federations.Get(gc.FederationID)
	if err != nil {
		return nil, storeErr("federations.get", err)
	}
	if fed == nil || fed.OwnerID != cmd.Actor.ID {
		return nil, nil
	}
	return fed, nil
}

func (e *Engine) cmdFedBan(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	fed, err := e.fedOwner(cmd, gc)
	if err != nil {
		return err
	}
	if fed == nil {
		e.reply(ctx, cmd, "Only the federation owner can use /fban, in a group that joined the federation.")
		return nil
	}

	target, rest, err := e.resolveEnforceableTarget(cmd)
	if err != nil {
		return err
	}

	reason := reasonFrom(rest)
	if err := e.federations.AddBan(fed.FedID, target.ID, reason, cmd.Actor.ID); err != nil {
		return storeErr("federations.addban", err)
	}
	// Ban here immediately; other member groups enforce when the user
	// next joins them.
	if err := e.exec.Ban(ctx, cmd.GroupID, target.ID, nil); err != nil {
		return err
	}

	e.confirm(ctx, cmd, gc, fmt.Sprintf("Banned %s across federation %q. Reason: %s", target.Name(), fed.Name, reason))
	e.logAction(ctx, gc, "#FBAN fed=%s user=%d by=%d reason=%s", fed.FedID, target.ID, cmd.Actor.ID, reason)
	return nil
}

func (e *Engine) cmdFedUnban(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	fed, err := e.fedOwner(cmd, gc)
	if err != nil {
		return err
	}
	if fed == nil {
		e.reply(ctx, cmd, "Only the federation owner can use /unfban, in a group that joined the federation.")
		return nil
	}

	target, _, err := e.resolveEnforceableTarget(cmd)
	if err != nil {
		return err
	}

	if err := e.federations.RemoveBan(fed.FedID, target.ID); err != nil {
		return storeErr("federations.removeban", err)
	}
	if err := e.exec.Unban(ctx, cmd.GroupID, target.ID); err != nil {
		return err
	}

	e.confirm(ctx, cmd, gc, fmt.Sprintf("Removed %s from federation %q bans.", target.Name(), fed.Name))
	e.logAction(ctx, gc, "#UNFBAN fed=%s user=%d by=%d", fed.FedID, target.ID, cmd.Actor.ID)
	return nil
}
