package platform

import (
	"context"
	"errors"
	"time"
)

// Role is the resolved authority of a chat member
type Role int

const (
	// RoleUnknown means authority could not be resolved; privileged
	// operations are denied for unknown actors.
	RoleUnknown Role = iota
	RoleMember
	RoleAdministrator
	RoleCreator
)

func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleAdministrator:
		return "administrator"
	case RoleCreator:
		return "creator"
	default:
		return "unknown"
	}
}

// Sentinel outcomes the executor normalizes.
var (
	// ErrAlreadyInState signals the member or message is already in the
	// requested state; callers treat this as success.
	ErrAlreadyInState = errors.New("already in requested state")
	// ErrNotFound signals the message or member no longer exists
	ErrNotFound = errors.New("not found")
)

// User is the platform-neutral shape of a chat user
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	IsBot     bool
}

// Member pairs a user with their resolved role
type Member struct {
	User User
	Role Role
}

// MessageRef identifies a sent message
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// SendOptions carries optional message parameters
type SendOptions struct {
	ParseMode        string
	ReplyToMessageID int
}

// Chat is the capability contract the core consumes from the chat
// platform. Every call may block on network I/O; implementations own
// their timeouts and surface failures as plain errors, mapping
// "already done" responses to ErrAlreadyInState.
type Chat interface {
	MemberRole(ctx context.Context, chatID, userID int64) (Role, error)
	Administrators(ctx context.Context, chatID int64) ([]Member, error)

	Ban(ctx context.Context, chatID, userID int64, until *time.Time) error
	Unban(ctx context.Context, chatID, userID int64) error
	Mute(ctx context.Context, chatID, userID int64, until *time.Time) error
	Unmute(ctx context.Context, chatID, userID int64) error
	Promote(ctx context.Context, chatID, userID int64) error
	Demote(ctx context.Context, chatID, userID int64) error

	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	SendMessage(ctx context.Context, chatID int64, text string, opts *SendOptions) (MessageRef, error)
}
