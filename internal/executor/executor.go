package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tg-groupwarden/internal/logger"
	"tg-groupwarden/internal/platform"
	"tg-groupwarden/internal/scheduler"
)

// ActionError wraps a platform failure with the operation that caused it
type ActionError struct {
	Op    string
	Cause error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action %s failed: %v", e.Op, e.Cause)
}

func (e *ActionError) Unwrap() error {
	return e.Cause
}

// Executor performs moderation side effects through the chat platform.
// Operations on members or messages already in the requested state are
// reported as success, so ledger and platform never diverge over retries.
type Executor struct {
	chat  platform.Chat
	sched *scheduler.Scheduler
}

// New creates an Executor backed by the given platform
func New(chat platform.Chat, sched *scheduler.Scheduler) *Executor {
	return &Executor{chat: chat, sched: sched}
}

func wrap(op string, err error) error {
	if err == nil || errors.Is(err, platform.ErrAlreadyInState) {
		return nil
	}
	return &ActionError{Op: op, Cause: err}
}

// Ban bans a member, until an expiry when one is given
func (e *Executor) Ban(ctx context.Context, groupID, userID int64, until *time.Time) error {
	return wrap("ban", e.chat.Ban(ctx, groupID, userID, until))
}

// Unban lifts a ban
func (e *Executor) Unban(ctx context.Context, groupID, userID int64) error {
	return wrap("unban", e.chat.Unban(ctx, groupID, userID))
}

// Mute removes a member's send permissions, until an expiry when one is given
func (e *Executor) Mute(ctx context.Context, groupID, userID int64, until *time.Time) error {
	return wrap("mute", e.chat.Mute(ctx, groupID, userID, until))
}

// Unmute restores a member's send permissions
func (e *Executor) Unmute(ctx context.Context, groupID, userID int64) error {
	return wrap("unmute", e.chat.Unmute(ctx, groupID, userID))
}

// Kick removes a member without a lasting ban: ban then immediately unban
func (e *Executor) Kick(ctx context.Context, groupID, userID int64) error {
	if err := wrap("kick", e.chat.Ban(ctx, groupID, userID, nil)); err != nil {
		return err
	}
	return wrap("kick", e.chat.Unban(ctx, groupID, userID))
}

// Promote grants a member moderation rights
func (e *Executor) Promote(ctx context.Context, groupID, userID int64) error {
	return wrap("promote", e.chat.Promote(ctx, groupID, userID))
}

// Demote strips a member's moderation rights
func (e *Executor) Demote(ctx context.Context, groupID, userID int64) error {
	return wrap("demote", e.chat.Demote(ctx, groupID, userID))
}

// Delete removes a message; already-gone messages count as success
func (e *Executor) Delete(ctx context.Context, groupID int64, messageID int) error {
	err := e.chat.DeleteMessage(ctx, groupID, messageID)
	if errors.Is(err, platform.ErrNotFound) {
		return nil
	}
	return wrap("delete", err)
}

// Send sends a message to a group
func (e *Executor) Send(ctx context.Context, groupID int64, text string, opts *platform.SendOptions) (platform.MessageRef, error) {
	ref, err := e.chat.SendMessage(ctx, groupID, text, opts)
	if err != nil {
		return platform.MessageRef{}, &ActionError{Op: "send", Cause: err}
	}
	return ref, nil
}

// Reply sends a message replying to another message in the group
func (e *Executor) Reply(ctx context.Context, groupID int64, replyTo int, text string) (platform.MessageRef, error) {
	return e.Send(ctx, groupID, text, &platform.SendOptions{ReplyToMessageID: replyTo})
}

// DeleteAfter schedules a message deletion. The deletion runs with its
// own timeout since the originating request is long gone by then.
func (e *Executor) DeleteAfter(groupID int64, messageID int, delay time.Duration) {
	e.sched.After(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Delete(ctx, groupID, messageID); err != nil {
			logger.Warningf("Failed to delete scheduled message %d in group %d: %v", messageID, groupID, err)
		}
	})
}
