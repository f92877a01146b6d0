package policy

import "tg-groupwarden/internal/platform"

// Command is a parsed slash command addressed to the bot
type Command struct {
	GroupID   int64
	GroupName string
	MessageID int
	Actor     platform.User
	Name      string
	Args      []string
	// ArgText is the raw text after the command name, whitespace and
	// newlines preserved. Template and filter bodies come from here.
	ArgText string
	// ReplyTo is the author of the replied-to message, if the command
	// was issued as a reply.
	ReplyTo        *platform.User
	ReplyMessageID int
	// Private is set when the command arrived in a direct chat with
	// the bot rather than a group.
	Private bool
}

// MessageFlags describes the content categories present in a message
type MessageFlags struct {
	HasPhoto     bool
	HasVideo     bool
	HasAudio     bool
	HasVoice     bool
	HasDocument  bool
	HasSticker   bool
	HasAnimation bool
	HasGame      bool
	HasLocation  bool
	HasDice      bool
	HasButtons   bool
	ViaInlineBot bool
	Forwarded    bool
}

// Message is a plain (non-command) group message
type Message struct {
	GroupID   int64
	MessageID int
	Sender    platform.User
	Text      string
	Flags     MessageFlags
}

// MemberEvent is a member joining or leaving a group
type MemberEvent struct {
	GroupID   int64
	GroupName string
	MessageID int
	Member    platform.User
}
