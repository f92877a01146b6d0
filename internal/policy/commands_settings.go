package policy

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tg-groupwarden/internal/models"
	"tg-groupwarden/internal/platform"
)

// parseToggle understands the usual spellings of on and off
func parseToggle(arg string) (value, ok bool) {
	switch strings.ToLower(arg) {
	case "on", "yes", "true":
		return true, true
	case "off", "no", "false":
		return false, true
	default:
		return false, false
	}
}

func (e *Engine) saveConfig(cmd *Command, gc *models.GroupConfig) error {
	return storeErr("settings.save", e.settings.Save(gc))
}

func (e *Engine) cmdSetWelcome(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	text := strings.TrimSpace(cmd.ArgText)
	if text == "" {
		e.reply(ctx, cmd, "Give me a welcome message, or \"off\" to disable. Placeholders: {first} {last} {fullname} {username} {mention} {id} {chatname}")
		return nil
	}
	if text == "off" {
		gc.WelcomeTemplate = ""
		if err := e.saveConfig(cmd, gc); err != nil {
			return err
		}
		e.confirm(ctx, cmd, gc, "Welcome message disabled.")
		return nil
	}

	gc.WelcomeTemplate = text
	if err := e.saveConfig(cmd, gc); err != nil {
		return err
	}
	e.confirm(ctx, cmd, gc, "Welcome message saved.")
	return nil
}

func (e *Engine) cmdSetGoodbye(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	text := strings.TrimSpace(cmd.ArgText)
	if text == "" {
		e.reply(ctx, cmd, "Give me a goodbye message, or \"off\" to disable.")
		return nil
	}
	if text == "off" {
		gc.GoodbyeTemplate = ""
		if err := e.saveConfig(cmd, gc); err != nil {
			return err
		}
		e.confirm(ctx, cmd, gc, "Goodbye message disabled.")
		return nil
	}

	gc.GoodbyeTemplate = text
	if err := e.saveConfig(cmd, gc); err != nil {
		return err
	}
	e.confirm(ctx, cmd, gc, "Goodbye message saved.")
	return nil
}

func (e *Engine) cmdCleanWelcome(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	return e.toggleSetting(ctx, cmd, gc, "clean welcome", &gc.CleanWelcome)
}

func (e *Engine) cmdCleanService(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	return e.toggleSetting(ctx, cmd, gc, "clean service", &gc.CleanService)
}

func (e *Engine) cmdSilent(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	return e.toggleSetting(ctx, cmd, gc, "silent mode", &gc.Silent)
}

func (e *Engine) cmdPrivateRules(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	return e.toggleSetting(ctx, cmd, gc, "private rules", &gc.PrivateRules)
}

func (e *Engine) toggleSetting(ctx context.Context, cmd *Command, gc *models.GroupConfig, name string, field *bool) error {
	if len(cmd.Args) == 0 {
		e.reply(ctx, cmd, fmt.Sprintf("%s is %s.", name, onOff(*field)))
		return nil
	}

	value, ok := parseToggle(cmd.Args[0])
	if !ok {
		e.reply(ctx, cmd, fmt.Sprintf("Use /%s on or /%s off.", cmd.Name, cmd.Name))
		return nil
	}

	*field = value
	if err := e.saveConfig(cmd, gc); err != nil {
		return err
	}
	e.confirm(ctx, cmd, gc, fmt.Sprintf("%s is now %s.", name, onOff(value)))
	return nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (e *Engine) cmdSetRules(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	text := strings.TrimSpace(cmd.ArgText)
	if text == "" {
		e.reply(ctx, cmd, "Give me the rules text, or \"off\" to clear.")
		return nil
	}
	if text == "off" {
		gc.Rules = ""
	} else {
		gc.Rules = text
	}
	if err := e.saveConfig(cmd, gc); err != nil {
		return err
	}
	e.confirm(ctx, cmd, gc, "Rules updated.")
	return nil
}

func (e *Engine) cmdRules(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	if gc.Rules == "" {
		e.reply(ctx, cmd, "No rules have been set for this group.")
		return nil
	}

	if gc.PrivateRules && !cmd.Private {
		// Delivery in DM; fails when the member never started the bot
		if _, err := e.exec.Send(ctx, cmd.Actor.ID, gc.Rules, nil); err != nil {
			e.reply(ctx, cmd, "I could not message you. Start me in private first, then try again.")
			return nil
		}
		e.reply(ctx, cmd, "I have sent you the rules in private.")
		return nil
	}

	e.reply(ctx, cmd, gc.Rules)
	return nil
}

func (e *Engine) cmdSetLog(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	if len(cmd.Args) == 0 {
		if gc.LogChannel == 0 {
			e.reply(ctx, cmd, "No log channel configured. Use /setlog <channel id> or /setlog off.")
		} else {
			e.reply(ctx, cmd, fmt.Sprintf("Log channel: %d", gc.LogChannel))
		}
		return nil
	}

	if strings.EqualFold(cmd.Args[0], "off") {
		gc.LogChannel = 0
		if err := e.saveConfig(cmd, gc); err != nil {
			return err
		}
		e.confirm(ctx, cmd, gc, "Log channel removed.")
		return nil
	}

	channelID, err := strconv.ParseInt(cmd.Args[0], 10, 64)
	if err != nil {
		e.reply(ctx, cmd, "That does not look like a channel id.")
		return nil
	}

	gc.LogChannel = channelID
	if err := e.saveConfig(cmd, gc); err != nil {
		return err
	}
	e.confirm(ctx, cmd, gc, fmt.Sprintf("Moderation actions will be logged to %d.", channelID))
	return nil
}

func (e *Engine) cmdDisable(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	if len(cmd.Args) == 0 {
		e.reply(ctx, cmd, "Which command should I disable?")
		return nil
	}

	name := strings.TrimPrefix(strings.ToLower(cmd.Args[0]), "/")
	spec, known := e.commands[name]
	if !known {
		e.reply(ctx, cmd, fmt.Sprintf("I do not know /%s.", name))
		return nil
	}
	// Only member-level commands can be switched off; admin tooling
	// always works.
	if spec.level > platform.RoleMember {
		e.reply(ctx, cmd, fmt.Sprintf("/%s is an admin command and cannot be disabled.", name))
		return nil
	}

	if err := e.toggles.Disable(cmd.GroupID, name); err != nil {
		return storeErr("toggles.disable", err)
	}
	e.confirm(ctx, cmd, gc, fmt.Sprintf("/%s is now disabled.", name))
	return nil
}

func (e *Engine) cmdEnable(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	if len(cmd.Args) == 0 {
		e.reply(ctx, cmd, "Which command should I enable?")
		return nil
	}

	name := strings.TrimPrefix(strings.ToLower(cmd.Args[0]), "/")
	if err := e.toggles.Enable(cmd.GroupID, name); err != nil {
		return storeErr("toggles.enable", err)
	}
	e.confirm(ctx, cmd, gc, fmt.Sprintf("/%s is now enabled.", name))
	return nil
}

func (e *Engine) cmdDisabled(ctx context.Context, cmd *Command, gc *models.GroupConfig) error {
	disabled, err := e.toggles.Disabled(cmd.GroupID)
	if err != nil {
		return storeErr("toggles.disabled", err)
	}
	if len(disabled) == 0 {
		e.reply(ctx, cmd, "No commands are disabled in this group.")
		return nil
	}
	e.reply(ctx, cmd, "Disabled commands: /"+strings.Join(disabled, ", /"))
	return nil
}
