package handler

import (
	"strings"

	"github.com/mymmrac/telego"

	"tg-groupwarden/internal/platform"
	"tg-groupwarden/internal/policy"
)

func platformUser(u *telego.User) platform.User {
	if u == nil {
		return platform.User{}
	}
	return platform.User{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		IsBot:     u.IsBot,
	}
}

// parseCommand splits "/name@bot arg1 arg2 ..." into a policy command.
// Returns nil when the message is not a command.
func parseCommand(message *telego.Message) *policy.Command {
	text := message.Text
	if !strings.HasPrefix(text, "/") {
		return nil
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}

	name := strings.TrimPrefix(fields[0], "/")
	// Strip the @BotName suffix used in groups with several bots
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return nil
	}

	cmd := &policy.Command{
		GroupID:   message.Chat.ID,
		GroupName: message.Chat.Title,
		MessageID: message.MessageID,
		Actor:     platformUser(message.From),
		Name:      strings.ToLower(name),
		Args:      fields[1:],
		ArgText:   strings.TrimSpace(strings.TrimPrefix(text, fields[0])),
		Private:   message.Chat.Type == "private",
	}

	if reply := message.ReplyToMessage; reply != nil && reply.From != nil {
		author := platformUser(reply.From)
		cmd.ReplyTo = &author
		cmd.ReplyMessageID = reply.MessageID
	}
	return cmd
}

// buildMessage converts a telego message into the engine's shape,
// flattening content types into classification flags.
func buildMessage(message *telego.Message) *policy.Message {
	return &policy.Message{
		GroupID:   message.Chat.ID,
		MessageID: message.MessageID,
		Sender:    platformUser(message.From),
		Text:      messageText(message),
		Flags: policy.MessageFlags{
			HasPhoto:     len(message.Photo) > 0,
			HasVideo:     message.Video != nil,
			HasAudio:     message.Audio != nil,
			HasVoice:     message.Voice != nil,
			HasDocument:  message.Document != nil,
			HasSticker:   message.Sticker != nil,
			HasAnimation: message.Animation != nil,
			HasGame:      message.Game != nil,
			HasLocation:  message.Location != nil,
			HasDice:      message.Dice != nil,
			HasButtons:   message.ReplyMarkup != nil,
			ViaInlineBot: message.ViaBot != nil,
			Forwarded:    message.ForwardOrigin != nil,
		},
	}
}

func messageText(message *telego.Message) string {
	if message.Text != "" {
		return message.Text
	}
	return message.Caption
}
