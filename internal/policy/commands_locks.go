package policy

import (
	"context"
	"fmt"
	"strings"

	"tg-groupwarden/internal/models"
)

func (e *Engine) cmdLock(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	if len(cmd.Args) == 0 {
		e.reply(ctx, cmd, "Lockable types: "+strings.Join(models.LockKinds, ", "))
		return nil
	}

	kind := strings.ToLower(cmd.Args[0])
	if !models.ValidLockKind(kind) {
		e.reply(ctx, cmd, fmt.Sprintf("Unknown lock type %q. Lockable types: %s", kind, strings.Join(models.LockKinds, ", ")))
		return nil
	}

	if err := e.locks.Lock(cmd.GroupID, kind); err != nil {
		return storeErr("locks.lock", err)
	}
	e.confirm(ctx, cmd, gc, fmt.Sprintf("Locked %s.", kind))
	e.logAction(ctx, gc, "#LOCK group=%d kind=%s by=%d", cmd.GroupID, kind, cmd.Actor.ID)
	return nil
}

func (e *Engine) cmdUnlock(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	if len(cmd.Args) == 0 {
		e.reply(ctx, cmd, "Which type should I unlock?")
		return nil
	}

	kind := strings.ToLower(cmd.Args[0])
	if !models.ValidLockKind(kind) {
		e.reply(ctx, cmd, fmt.Sprintf("Unknown lock type %q.", kind))
		return nil
	}

	if err := e.locks.Unlock(cmd.GroupID, kind); err != nil {
		return storeErr("locks.unlock", err)
	}
	e.confirm(ctx, cmd, gc, fmt.Sprintf("Unlocked %s.", kind))
	e.logAction(ctx, gc, "#UNLOCK group=%d kind=%s by=%d", cmd.GroupID, kind, cmd.Actor.ID)
	return nil
}

func (e *Engine) cmdLocks(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	locked, err := e.locks.Locked(cmd.GroupID)
	if err != nil {
		return storeErr("locks.locked", err)
	}
	if len(locked) == 0 {
		e.reply(ctx, cmd, "Nothing is locked in this group.")
		return nil
	}

	// Report in the same order classification uses
	var kinds []string
	for _, kind := range models.LockKinds {
		if locked[kind] {
			kinds = append(kinds, kind)
		}
	}
	e.reply(ctx, cmd, "Locked: "+strings.Join(kinds, ", "))
	return nil
}

func (e *Engine) cmdFilter(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	parts := strings.SplitN(strings.TrimSpace(cmd.ArgText), " ", 2)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		e.reply(ctx, cmd, "Usage: /filter <trigger> <response>")
		return nil
	}

	trigger := parts[0]
	response := strings.TrimSpace(parts[1])

	if err := e.filters.Upsert(cmd.GroupID, trigger, response, cmd.Actor.ID); err != nil {
		return storeErr("filters.upsert", err)
	}
	e.confirm(ctx, cmd, gc, fmt.Sprintf("I will reply to %q from now on.", strings.ToLower(trigger)))
	return nil
}

func (e *Engine) cmdStop(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	if len(cmd.Args) == 0 {
		e.reply(ctx, cmd, "Which filter should I stop?")
		return nil
	}

	trigger := cmd.Args[0]
	if err := e.filters.Remove(cmd.GroupID, trigger); err != nil {
		return storeErr("filters.remove", err)
	}
	e.confirm(ctx, cmd, gc, fmt.Sprintf("Filter %q removed.", strings.ToLower(trigger)))
	return nil
}

func (e *Engine) cmdFilters(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	filters, err := e.filters.All(cmd.GroupID)
	if err != nil {
		return storeErr("filters.all", err)
	}
	if len(filters) == 0 {
		e.reply(ctx, cmd, "No filters in this group.")
		return nil
	}

	var b strings.Builder
	b.WriteString("Filters:\n")
	for _, f := range filters {
		fmt.Fprintf(&b, "- %s\n", f.Trigger)
	}
	e.reply(ctx, cmd, b.String())
	return nil
}
