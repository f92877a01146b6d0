package policy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tg-groupwarden/internal/executor"
	"tg-groupwarden/internal/logger"
	"tg-groupwarden/internal/models"
	"tg-groupwarden/internal/platform"
)

// cleanWelcomeDelay is how long welcome messages live when clean welcome
// is on.
const cleanWelcomeDelay = 60 * time.Second

// rateWindow is the minimum spacing between commands from one user
const rateWindow = time.Second

// Engine decides what each incoming event means for the group and drives
// the ledgers and the executor accordingly. It holds no per-group state
// of its own; everything durable lives in the stores.
type Engine struct {
	settings     SettingsStore
	restrictions RestrictionLedger
	warnings     WarningLedger
	filters      FilterStore
	locks        LockStore
	federations  FederationStore
	toggles      CommandToggle

	chat platform.Chat
	exec *executor.Executor
	gate *RateGate

	commands map[string]commandSpec
}

// Deps bundles everything an Engine needs
type Deps struct {
	Settings     SettingsStore
	Restrictions RestrictionLedger
	Warnings     WarningLedger
	Filters      FilterStore
	Locks        LockStore
	Federations  FederationStore
	Toggles      CommandToggle
	Chat         platform.Chat
	Executor     *executor.Executor
}

type commandHandler func(ctx context.Context, cmd *Command, gc *models.GroupConfig) error

type commandSpec struct {
	level platform.Role
	run   commandHandler
}

// New creates an Engine
func New(deps Deps) *Engine {
	e := &Engine{
		settings:     deps.Settings,
		restrictions: deps.Restrictions,
		warnings:     deps.Warnings,
		filters:      deps.Filters,
		locks:        deps.Locks,
		federations:  deps.Federations,
		toggles:      deps.Toggles,
		chat:         deps.Chat,
		exec:         deps.Executor,
		gate:         NewRateGate(rateWindow),
	}
	e.registerCommands()
	return e
}

func (e *Engine) registerCommands() {
	e.commands = map[string]commandSpec{
		// Moderation
		"ban":    {platform.RoleAdministrator, e.cmdBan},
		"tban":   {platform.RoleAdministrator, e.cmdTBan},
		"mute":   {platform.RoleAdministrator, e.cmdMute},
		"tmute":  {platform.RoleAdministrator, e.cmdTMute},
		"kick":   {platform.RoleAdministrator, e.cmdKick},
		"unban":  {platform.RoleAdministrator, e.cmdUnban},
		"unmute": {platform.RoleAdministrator, e.cmdUnmute},
		"warn":   {platform.RoleAdministrator, e.cmdWarn},
		"unwarn": {platform.RoleAdministrator, e.cmdUnwarn},
		"warns":  {platform.RoleMember, e.cmdWarns},

		// Admin management
		"promote": {platform.RoleCreator, e.cmdPromote},
		"demote":  {platform.RoleCreator, e.cmdDemote},
		"admins":  {platform.RoleMember, e.cmdAdmins},

		// Group settings
		"setwelcome":   {platform.RoleAdministrator, e.cmdSetWelcome},
		"setgoodbye":   {platform.RoleAdministrator, e.cmdSetGoodbye},
		"cleanwelcome": {platform.RoleAdministrator, e.cmdCleanWelcome},
		"cleanservice": {platform.RoleAdministrator, e.cmdCleanService},
		"silent":       {platform.RoleAdministrator, e.cmdSilent},
		"setrules":     {platform.RoleAdministrator, e.cmdSetRules},
		"rules":        {platform.RoleMember, e.cmdRules},
		"privaterules": {platform.RoleAdministrator, e.cmdPrivateRules},
		"setlog":       {platform.RoleAdministrator, e.cmdSetLog},
		"disable":      {platform.RoleAdministrator, e.cmdDisable},
		"enable":       {platform.RoleAdministrator, e.cmdEnable},
		"disabled":     {platform.RoleAdministrator, e.cmdDisabled},

		// Locks and filters
		"lock":    {platform.RoleAdministrator, e.cmdLock},
		"unlock":  {platform.RoleAdministrator, e.cmdUnlock},
		"locks":   {platform.RoleAdministrator, e.cmdLocks},
		"filter":  {platform.RoleAdministrator, e.cmdFilter},
		"stop":    {platform.RoleAdministrator, e.cmdStop},
		"filters": {platform.RoleMember, e.cmdFilters},

		// Federations
		"newfed":   {platform.RoleCreator, e.cmdNewFed},
		"joinfed":  {platform.RoleCreator, e.cmdJoinFed},
		"leavefed": {platform.RoleCreator, e.cmdLeaveFed},
		"fedinfo":  {platform.RoleAdministrator, e.cmdFedInfo},
		"fban":     {platform.RoleAdministrator, e.cmdFedBan},
		"unfban":   {platform.RoleAdministrator, e.cmdFedUnban},

		// Everyone
		"report": {platform.RoleMember, e.cmdReport},
		"id":     {platform.RoleMember, e.cmdID},
		"info":   {platform.RoleMember, e.cmdInfo},
		"kickme": {platform.RoleMember, e.cmdKickMe},
	}
}

// HandleCommand runs one parsed command through the gate, the authority
// check and the command's handler. Unknown commands are ignored.
func (e *Engine) HandleCommand(ctx context.Context, cmd *Command) error {
	spec, known := e.commands[cmd.Name]
	if !known {
		return nil
	}

	// Dropped commands get no reply; a flooding user should not be able
	// to make the bot flood back.
	if !e.gate.Allow(cmd.Actor.ID) {
		logger.Debugf("Rate gate dropped /%s from user %d", cmd.Name, cmd.Actor.ID)
		return ErrRateLimited
	}

	gc, err := e.settings.Get(cmd.GroupID, cmd.GroupName)
	if err != nil {
		e.reply(ctx, cmd, "Something went wrong, please try again later.")
		return storeErr("settings.get", err)
	}

	if spec.level == platform.RoleMember {
		skip, err := e.commandDisabled(cmd.GroupID, cmd.Name)
		if err != nil {
			return storeErr("toggles.disabled", err)
		}
		if skip {
			return nil
		}
	}

	if spec.level > platform.RoleMember {
		role := e.actorRole(ctx, cmd.GroupID, cmd.Actor.ID)
		if role < spec.level {
			denial := &AuthorizationDeniedError{Required: spec.level, Actual: role}
			// Silent mode mutes admin-level denials only; owner-gated
			// denials are always voiced so admins learn the command is
			// above their level.
			if spec.level == platform.RoleCreator || !gc.Silent {
				e.reply(ctx, cmd, fmt.Sprintf("You need %s rights to use /%s.", spec.level, cmd.Name))
			}
			return denial
		}
	}

	if err := spec.run(ctx, cmd, gc); err != nil {
		e.respondError(ctx, cmd, err)
		return err
	}
	return nil
}

// actorRole resolves authority, treating lookup failures as unknown so
// privileged commands fail closed.
func (e *Engine) actorRole(ctx context.Context, groupID, userID int64) platform.Role {
	role, err := e.chat.MemberRole(ctx, groupID, userID)
	if err != nil {
		logger.Warningf("Cannot resolve role of user %d in group %d: %v", userID, groupID, err)
		return platform.RoleUnknown
	}
	return role
}

func (e *Engine) commandDisabled(groupID int64, name string) (bool, error) {
	disabled, err := e.toggles.Disabled(groupID)
	if err != nil {
		return false, err
	}
	for _, d := range disabled {
		if d == name {
			return true, nil
		}
	}
	return false, nil
}

// respondError translates a handler failure into a user-facing reply.
// Validation failures explain themselves; internal failures get a
// generic message and a log entry.
func (e *Engine) respondError(ctx context.Context, cmd *Command, err error) {
	var (
		target   *TargetUnresolvableError
		timeExpr *InvalidTimeExpressionError
		store    *StoreError
		action   *executor.ActionError
	)
	switch {
	case errors.As(err, &target):
		e.reply(ctx, cmd, target.Error())
	case errors.As(err, &timeExpr):
		e.reply(ctx, cmd, timeExpr.Error())
	case errors.As(err, &store):
		logger.Errorf("Store failure handling /%s in group %d: %v", cmd.Name, cmd.GroupID, err)
		e.reply(ctx, cmd, "Something went wrong, please try again later.")
	case errors.As(err, &action):
		logger.Errorf("Action failure handling /%s in group %d: %v", cmd.Name, cmd.GroupID, err)
		e.reply(ctx, cmd, "I could not complete that action. Do I have the right permissions?")
	default:
		logger.Errorf("Unexpected failure handling /%s in group %d: %v", cmd.Name, cmd.GroupID, err)
	}
}

// reply always answers, silent mode or not. Used for validation and
// informational output the actor explicitly asked for.
func (e *Engine) reply(ctx context.Context, cmd *Command, text string) {
	if _, err := e.exec.Reply(ctx, cmd.GroupID, cmd.MessageID, text); err != nil {
		logger.Warningf("Failed to reply in group %d: %v", cmd.GroupID, err)
	}
}

// confirm answers unless the group runs in silent mode
func (e *Engine) confirm(ctx context.Context, cmd *Command, gc *models.GroupConfig, text string) {
	if gc.Silent {
		return
	}
	e.reply(ctx, cmd, text)
}

// logAction records a moderation action to the group's log channel
func (e *Engine) logAction(ctx context.Context, gc *models.GroupConfig, format string, args ...interface{}) {
	if gc.LogChannel == 0 {
		return
	}
	text := fmt.Sprintf(format, args...)
	if _, err := e.exec.Send(ctx, gc.LogChannel, text, nil); err != nil {
		logger.Warningf("Failed to write to log channel %d: %v", gc.LogChannel, err)
	}
}

// resolveEnforceableTarget resolves the command target and rejects ones
// without a usable id.
func (e *Engine) resolveEnforceableTarget(cmd *Command) (*models.TargetUser, []string, error) {
	target, rest, err := ResolveTarget(cmd)
	if err != nil {
		return nil, nil, err
	}
	if !target.Resolvable() {
		return nil, nil, &TargetUnresolvableError{Hint: "@" + target.Username}
	}
	return target, rest, nil
}

// targetIsPrivileged reports whether the target is an admin or the
// owner, who moderation commands refuse to touch.
func (e *Engine) targetIsPrivileged(ctx context.Context, groupID, userID int64) bool {
	role, err := e.chat.MemberRole(ctx, groupID, userID)
	if err != nil {
		return false
	}
	return role >= platform.RoleAdministrator
}

// HandleMessage runs a plain group message through locks and filters
func (e *Engine) HandleMessage(ctx context.Context, msg *Message) error {
	locked, err := e.locks.Locked(msg.GroupID)
	if err != nil {
		return storeErr("locks.locked", err)
	}

	if kind := FirstLockedKind(locked, msg); kind != "" {
		// Role lookup is deferred until a lock actually matches, so
		// unlocked groups never pay for it.
		if !e.targetIsPrivileged(ctx, msg.GroupID, msg.Sender.ID) {
			logger.Debugf("Deleting message %d in group %d: %s locked", msg.MessageID, msg.GroupID, kind)
			return e.exec.Delete(ctx, msg.GroupID, msg.MessageID)
		}
	}

	if msg.Text == "" {
		return nil
	}
	return e.applyFilters(ctx, msg)
}

func (e *Engine) applyFilters(ctx context.Context, msg *Message) error {
	filters, err := e.filters.All(msg.GroupID)
	if err != nil {
		return storeErr("filters.all", err)
	}
	if len(filters) == 0 {
		return nil
	}

	folded := strings.ToLower(msg.Text)
	for _, f := range filters {
		if strings.Contains(folded, f.Trigger) {
			_, err := e.exec.Reply(ctx, msg.GroupID, msg.MessageID, f.Response)
			return err
		}
	}
	return nil
}

// HandleJoin greets a new member, after checking federation bans. Bot
// accounts are never greeted.
func (e *Engine) HandleJoin(ctx context.Context, ev *MemberEvent) error {
	if ev.Member.IsBot {
		return nil
	}

	gc, err := e.settings.Get(ev.GroupID, ev.GroupName)
	if err != nil {
		return storeErr("settings.get", err)
	}

	if gc.FederationID != "" {
		fedBan, err := e.federations.GetBan(gc.FederationID, ev.Member.ID)
		if err != nil {
			return storeErr("federations.getban", err)
		}
		if fedBan != nil {
			if err := e.exec.Ban(ctx, ev.GroupID, ev.Member.ID, nil); err != nil {
				return err
			}
			if _, err := e.restrictions.Apply(ev.GroupID, ev.Member.ID, models.RestrictionBan,
				fmt.Sprintf("federation ban: %s", fedBan.Reason), fedBan.IssuerID, nil); err != nil {
				return storeErr("restrictions.apply", err)
			}
			e.logAction(ctx, gc, "Banned %d on join: federation %s ban", ev.Member.ID, gc.FederationID)
			return nil
		}
	}

	if gc.WelcomeTemplate == "" {
		return nil
	}

	text := RenderTemplate(gc.WelcomeTemplate, ev.Member, ev.GroupName)
	ref, err := e.exec.Send(ctx, ev.GroupID, text, &platform.SendOptions{ParseMode: "HTML"})
	if err != nil {
		return err
	}
	if gc.CleanWelcome {
		e.exec.DeleteAfter(ref.ChatID, ref.MessageID, cleanWelcomeDelay)
	}
	return nil
}

// HandleLeave sends the goodbye message, if one is configured
func (e *Engine) HandleLeave(ctx context.Context, ev *MemberEvent) error {
	if ev.Member.IsBot {
		return nil
	}

	gc, err := e.settings.Get(ev.GroupID, ev.GroupName)
	if err != nil {
		return storeErr("settings.get", err)
	}
	if gc.GoodbyeTemplate == "" {
		return nil
	}

	text := RenderTemplate(gc.GoodbyeTemplate, ev.Member, ev.GroupName)
	_, err = e.exec.Send(ctx, ev.GroupID, text, &platform.SendOptions{ParseMode: "HTML"})
	return err
}

// HandleServiceMessage deletes join/leave service messages when the
// group has clean service on.
func (e *Engine) HandleServiceMessage(ctx context.Context, groupID int64, groupName string, messageID int) error {
	gc, err := e.settings.Get(groupID, groupName)
	if err != nil {
		return storeErr("settings.get", err)
	}
	if !gc.CleanService {
		return nil
	}
	return e.exec.Delete(ctx, groupID, messageID)
}
