package policy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tg-groupwarden/internal/models"
)

func reasonFrom(args []string) string {
	reason := strings.TrimSpace(strings.Join(args, " "))
	if reason == "" {
		return "No reason given"
	}
	return reason
}

func (e *Engine) cmdBan(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	target, rest, err := e.resolveEnforceableTarget(cmd)
	if err != nil {
		return err
	}
	if e.targetIsPrivileged(ctx, cmd.GroupID, target.ID) {
		e.reply(ctx, cmd, "I am not going to ban an administrator.")
		return nil
	}

	reason := reasonFrom(rest)
	if err := e.exec.Ban(ctx, cmd.GroupID, target.ID, nil); err != nil {
		return err
	}
	if _, err := e.restrictions.Apply(cmd.GroupID, target.ID, models.RestrictionBan, reason, cmd.Actor.ID, nil); err != nil {
		return storeErr("restrictions.apply", err)
	}

	e.confirm(ctx, cmd, gc, fmt.Sprintf("Banned %s. Reason: %s", target.Name(), reason))
	e.logAction(ctx, gc, "#BAN group=%d user=%d by=%d reason=%s", cmd.GroupID, target.ID, cmd.Actor.ID, reason)
	return nil
}

func (e *Engine) cmdTBan(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	target, rest, err := e.resolveEnforceableTarget(cmd)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return &InvalidTimeExpressionError{Input: ""}
	}

	// Validate the duration before touching anything; a typo must leave
	// both the ledger and the member untouched.
	duration, err := ParseTimeExpression(rest[0])
	if err != nil {
		return err
	}
	if e.targetIsPrivileged(ctx, cmd.GroupID, target.ID) {
		e.reply(ctx, cmd, "I am not going to ban an administrator.")
		return nil
	}

	until := time.Now().Add(duration)
	reason := reasonFrom(rest[1:])

	if err := e.exec.Ban(ctx, cmd.GroupID, target.ID, &until); err != nil {
		return err
	}
	if _, err := e.restrictions.Apply(cmd.GroupID, target.ID, models.RestrictionTBan, reason, cmd.Actor.ID, &until); err != nil {
		return storeErr("restrictions.apply", err)
	}

	e.confirm(ctx, cmd, gc, fmt.Sprintf("Banned %s for %s. Reason: %s", target.Name(), rest[0], reason))
	e.logAction(ctx, gc, "#TBAN group=%d user=%d by=%d until=%s reason=%s",
		cmd.GroupID, target.ID, cmd.Actor.ID, until.Format(time.RFC3339), reason)
	return nil
}

func (e *Engine) cmdMute(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	target, rest, err := e.resolveEnforceableTarget(cmd)
	if err != nil {
		return err
	}
	if e.targetIsPrivileged(ctx, cmd.GroupID, target.ID) {
		e.reply(ctx, cmd, "I am not going to mute an administrator.")
		return nil
	}

	reason := reasonFrom(rest)
	if err := e.exec.Mute(ctx, cmd.GroupID, target.ID, nil); err != nil {
		return err
	}
	if _, err := e.restrictions.Apply(cmd.GroupID, target.ID, models.RestrictionMute, reason, cmd.Actor.ID, nil); err != nil {
		return storeErr("restrictions.apply", err)
	}

	e.confirm(ctx, cmd, gc, fmt.Sprintf("Muted %s. Reason: %s", target.Name(), reason))
	e.logAction(ctx, gc, "#MUTE group=%d user=%d by=%d reason=%s", cmd.GroupID, target.ID, cmd.Actor.ID, reason)
	return nil
}

func (e *Engine) cmdTMute(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	target, rest, err := e.resolveEnforceableTarget(cmd)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return &InvalidTimeExpressionError{Input: ""}
	}

	duration, err := ParseTimeExpression(rest[0])
	if err != nil {
		return err
	}
	if e.targetIsPrivileged(ctx, cmd.GroupID, target.ID) {
		e.reply(ctx, cmd, "I am not going to mute an administrator.")
		return nil
	}

	until := time.Now().Add(duration)
	reason := reasonFrom(rest[1:])

	if err := e.exec.Mute(ctx, cmd.GroupID, target.ID, &until); err != nil {
		return err
	}
	if _, err := e.restrictions.Apply(cmd.GroupID, target.ID, models.RestrictionTMute, reason, cmd.Actor.ID, &until); err != nil {
		return storeErr("restrictions.apply", err)
	}

	e.confirm(ctx, cmd, gc, fmt.Sprintf("Muted %s for %s. Reason: %s", target.Name(), rest[0], reason))
	e.logAction(ctx, gc, "#TMUTE group=%d user=%d by=%d until=%s reason=%s",
		cmd.GroupID, target.ID, cmd.Actor.ID, until.Format(time.RFC3339), reason)
	return nil
}

func (e *Engine) cmdKick(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	target, rest, err := e.resolveEnforceableTarget(cmd)
	if err != nil {
		return err
	}
	if e.targetIsPrivileged(ctx, cmd.GroupID, target.ID) {
		e.reply(ctx, cmd, "I am not going to kick an administrator.")
		return nil
	}

	// A kick is ban plus immediate unban; no ledger entry, the member
	// may come straight back.
	if err := e.exec.Kick(ctx, cmd.GroupID, target.ID); err != nil {
		return err
	}

	e.confirm(ctx, cmd, gc, fmt.Sprintf("Kicked %s. Reason: %s", target.Name(), reasonFrom(rest)))
	e.logAction(ctx, gc, "#KICK group=%d user=%d by=%d", cmd.GroupID, target.ID, cmd.Actor.ID)
	return nil
}

func (e *Engine) cmdUnban(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	target, _, err := e.resolveEnforceableTarget(cmd)
	if err != nil {
		return err
	}

	if err := e.exec.Unban(ctx, cmd.GroupID, target.ID); err != nil {
		return err
	}
	if err := e.restrictions.Revoke(cmd.GroupID, target.ID, models.RestrictionBan, models.RestrictionTBan); err != nil {
		return storeErr("restrictions.revoke", err)
	}

	e.confirm(ctx, cmd, gc, fmt.Sprintf("Unbanned %s.", target.Name()))
	e.logAction(ctx, gc, "#UNBAN group=%d user=%d by=%d", cmd.GroupID, target.ID, cmd.Actor.ID)
	return nil
}

func (e *Engine) cmdUnmute(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	target, _, err := e.resolveEnforceableTarget(cmd)
	if err != nil {
		return err
	}

	if err := e.exec.Unmute(ctx, cmd.GroupID, target.ID); err != nil {
		return err
	}
	if err := e.restrictions.Revoke(cmd.GroupID, target.ID, models.RestrictionMute, models.RestrictionTMute); err != nil {
		return storeErr("restrictions.revoke", err)
	}

	e.confirm(ctx, cmd, gc, fmt.Sprintf("Unmuted %s.", target.Name()))
	e.logAction(ctx, gc, "#UNMUTE group=%d user=%d by=%d", cmd.GroupID, target.ID, cmd.Actor.ID)
	return nil
}

func (e *Engine) cmdWarn(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	target, rest, err := e.resolveEnforceableTarget(cmd)
	if err != nil {
		return err
	}
	if e.targetIsPrivileged(ctx, cmd.GroupID, target.ID) {
		e.reply(ctx, cmd, "I am not going to warn an administrator.")
		return nil
	}

	reason := reasonFrom(rest)
	count, err := e.warnings.Add(cmd.GroupID, target.ID, reason, cmd.Actor.ID)
	if err != nil {
		return storeErr("warnings.add", err)
	}

	e.confirm(ctx, cmd, gc, fmt.Sprintf("Warned %s (%d/%d). Reason: %s",
		target.Name(), count, models.WarnBanThreshold, reason))
	e.logAction(ctx, gc, "#WARN group=%d user=%d by=%d count=%d reason=%s",
		cmd.GroupID, target.ID, cmd.Actor.ID, count, reason)

	// Escalate exactly when the threshold is crossed. Warnings survive
	// the ban, so a later unban does not re-trigger at the next warn.
	if count != models.WarnBanThreshold {
		return nil
	}

	if err := e.exec.Ban(ctx, cmd.GroupID, target.ID, nil); err != nil {
		return err
	}
	if _, err := e.restrictions.Apply(cmd.GroupID, target.ID, models.RestrictionBan,
		fmt.Sprintf("reached %d warnings", models.WarnBanThreshold), cmd.Actor.ID, nil); err != nil {
		return storeErr("restrictions.apply", err)
	}

	e.confirm(ctx, cmd, gc, fmt.Sprintf("%s was banned for collecting %d warnings.",
		target.Name(), models.WarnBanThreshold))
	e.logAction(ctx, gc, "#AUTOBAN group=%d user=%d warnings=%d", cmd.GroupID, target.ID, count)
	return nil
}

func (e *Engine) cmdUnwarn(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	target, _, err := e.resolveEnforceableTarget(cmd)
	if err != nil {
		return err
	}

	if err := e.warnings.Clear(cmd.GroupID, target.ID); err != nil {
		return storeErr("warnings.clear", err)
	}

	e.confirm(ctx, cmd, gc, fmt.Sprintf("Warnings for %s have been reset.", target.Name()))
	e.logAction(ctx, gc, "#UNWARN group=%d user=%d by=%d", cmd.GroupID, target.ID, cmd.Actor.ID)
	return nil
}

func (e *Engine) cmdWarns(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	target, _, err := e.resolveEnforceableTarget(cmd)
	if err != nil {
		// With no target, show the actor's own warnings
		target = userToTarget(&cmd.Actor)
	}

	warns, err := e.warnings.List(cmd.GroupID, target.ID)
	if err != nil {
		return storeErr("warnings.list", err)
	}
	if len(warns) == 0 {
		e.reply(ctx, cmd, fmt.Sprintf("%s has no warnings.", target.Name()))
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s has %d/%d warnings:\n", target.Name(), len(warns), models.WarnBanThreshold)
	for i, w := range warns {
		fmt.Fprintf(&b, "%d. %s\n", i+1, w.Reason)
	}
	e.reply(ctx, cmd, b.String())
	return nil
}
