package policy

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tg-groupwarden/internal/config"
	"tg-groupwarden/internal/executor"
	"tg-groupwarden/internal/models"
	"tg-groupwarden/internal/platform"
	"tg-groupwarden/internal/scheduler"
	"tg-groupwarden/internal/service"
)

const (
	testGroup   = int64(-1001)
	adminUser   = int64(10)
	ownerUser   = int64(11)
	regularUser = int64(100)
)

type sentMessage struct {
	ChatID int64
	Text   string
}

type memberCall struct {
	ChatID int64
	UserID int64
	Until  *time.Time
}

// fakeChat records platform calls and serves roles from a map
type fakeChat struct {
	mu    sync.Mutex
	roles map[int64]platform.Role

	banErr   error
	roleErrs map[int64]error

	bans     []memberCall
	unbans   []memberCall
	mutes    []memberCall
	unmutes  []memberCall
	promotes []memberCall
	demotes  []memberCall
	deletes  []int
	sent     []sentMessage
}

func newFakeChat() *fakeChat {
	return &fakeChat{
		roles: map[int64]platform.Role{
			adminUser: platform.RoleAdministrator,
			ownerUser: platform.RoleCreator,
		},
		roleErrs: map[int64]error{},
	}
}

func (f *fakeChat) MemberRole(ctx context.Context, chatID, userID int64) (platform.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.roleErrs[userID]; err != nil {
		return platform.RoleUnknown, err
	}
	if role, ok := f.roles[userID]; ok {
		return role, nil
	}
	return platform.RoleMember, nil
}

func (f *fakeChat) Administrators(ctx context.Context, chatID int64) ([]platform.Member, error) {
	return []platform.Member{
		{User: platform.User{ID: ownerUser, FirstName: "Owner"}, Role: platform.RoleCreator},
		{User: platform.User{ID: adminUser, FirstName: "Admin"}, Role: platform.RoleAdministrator},
	}, nil
}

func (f *fakeChat) Ban(ctx context.Context, chatID, userID int64, until *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.banErr != nil {
		return f.banErr
	}
	f.bans = append(f.bans, memberCall{chatID, userID, until})
	return nil
}

func (f *fakeChat) Unban(ctx context.Context, chatID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unbans = append(f.unbans, memberCall{ChatID: chatID, UserID: userID})
	return nil
}

func (f *fakeChat) Mute(ctx context.Context, chatID, userID int64, until *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutes = append(f.mutes, memberCall{chatID, userID, until})
	return nil
}

func (f *fakeChat) Unmute(ctx context.Context, chatID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unmutes = append(f.unmutes, memberCall{ChatID: chatID, UserID: userID})
	return nil
}

func (f *fakeChat) Promote(ctx context.Context, chatID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.promotes = append(f.promotes, memberCall{ChatID: chatID, UserID: userID})
	return nil
}

func (f *fakeChat) Demote(ctx context.Context, chatID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.demotes = append(f.demotes, memberCall{ChatID: chatID, UserID: userID})
	return nil
}

func (f *fakeChat) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, messageID)
	return nil
}

func (f *fakeChat) SendMessage(ctx context.Context, chatID int64, text string, opts *platform.SendOptions) (platform.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text})
	return platform.MessageRef{ChatID: chatID, MessageID: 9000 + len(f.sent)}, nil
}

func (f *fakeChat) sentTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	texts := make([]string, len(f.sent))
	for i, m := range f.sent {
		texts[i] = m.Text
	}
	return texts
}

type testEnv struct {
	engine *Engine
	chat   *fakeChat
	repos  *service.Repositories
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	repos, err := service.NewRepositories(db)
	require.NoError(t, err)

	sched := scheduler.New()
	t.Cleanup(sched.Stop)

	chat := newFakeChat()
	eng := New(Deps{
		Settings:     service.NewGroupService(repos, config.ModerationConfig{}),
		Restrictions: repos.Restrictions,
		Warnings:     repos.Warnings,
		Filters:      repos.Filters,
		Locks:        repos.Locks,
		Federations:  repos.Federations,
		Toggles:      repos.Commands,
		Chat:         chat,
		Executor:     executor.New(chat, sched),
	})

	// Advance the gate clock two seconds per command so sequential
	// commands in one test are not dropped as floods.
	var mu sync.Mutex
	fake := time.Unix(1_700_000_000, 0)
	eng.gate.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		fake = fake.Add(2 * time.Second)
		return fake
	}

	return &testEnv{engine: eng, chat: chat, repos: repos}
}

func command(actorID int64, name string, args ...string) *Command {
	return &Command{
		GroupID:   testGroup,
		GroupName: "Test Group",
		MessageID: 500,
		Actor:     platform.User{ID: actorID, FirstName: "Actor"},
		Name:      name,
		Args:      args,
		ArgText:   strings.Join(args, " "),
	}
}

func TestBanWritesLedgerAndCallsPlatform(t *testing.T) {
	env := newTestEnv(t)

	err := env.engine.HandleCommand(context.Background(), command(adminUser, "ban", "100", "spamming"))
	require.NoError(t, err)

	require.Len(t, env.chat.bans, 1)
	assert.Equal(t, regularUser, env.chat.bans[0].UserID)
	assert.Nil(t, env.chat.bans[0].Until)

	kinds, err := env.repos.Restrictions.Active(testGroup, regularUser)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RestrictionBan}, kinds)

	row, err := env.repos.Restrictions.Get(testGroup, regularUser, models.RestrictionBan)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "spamming", row.Reason)
}

func TestBanToleratesAlreadyBanned(t *testing.T) {
	env := newTestEnv(t)
	env.chat.banErr = platform.ErrAlreadyInState

	err := env.engine.HandleCommand(context.Background(), command(adminUser, "ban", "100"))
	require.NoError(t, err)

	// Treated as success: the ledger row still lands
	kinds, err := env.repos.Restrictions.Active(testGroup, regularUser)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RestrictionBan}, kinds)
}

func TestTBanBadDurationChangesNothing(t *testing.T) {
	env := newTestEnv(t)

	err := env.engine.HandleCommand(context.Background(), command(adminUser, "tban", "100", "5x", "typo"))
	var invalid *InvalidTimeExpressionError
	require.ErrorAs(t, err, &invalid)

	assert.Empty(t, env.chat.bans)
	kinds, err := env.repos.Restrictions.Active(testGroup, regularUser)
	require.NoError(t, err)
	assert.Empty(t, kinds)
}

func TestTBanRecordsExpiry(t *testing.T) {
	env := newTestEnv(t)

	err := env.engine.HandleCommand(context.Background(), command(adminUser, "tban", "100", "2h", "cool off"))
	require.NoError(t, err)

	require.Len(t, env.chat.bans, 1)
	require.NotNil(t, env.chat.bans[0].Until)

	row, err := env.repos.Restrictions.Get(testGroup, regularUser, models.RestrictionTBan)
	require.NoError(t, err)
	require.NotNil(t, row)
	require.NotNil(t, row.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), *row.ExpiresAt, time.Minute)
}

func TestWarnEscalatesExactlyAtThreshold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < models.WarnBanThreshold-1; i++ {
		require.NoError(t, env.engine.HandleCommand(ctx, command(adminUser, "warn", "100", "flood")))
		assert.Empty(t, env.chat.bans)
	}

	require.NoError(t, env.engine.HandleCommand(ctx, command(adminUser, "warn", "100", "flood")))
	assert.Len(t, env.chat.bans, 1)

	kinds, err := env.repos.Restrictions.Active(testGroup, regularUser)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RestrictionBan}, kinds)

	// The fourth warning must not ban again
	require.NoError(t, env.engine.HandleCommand(ctx, command(adminUser, "warn", "100", "again")))
	assert.Len(t, env.chat.bans, 1)
}

func TestUnbanRevokesPermanentAndTemporary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	until := time.Now().Add(time.Hour)
	_, err := env.repos.Restrictions.Apply(testGroup, regularUser, models.RestrictionTBan, "", adminUser, &until)
	require.NoError(t, err)

	require.NoError(t, env.engine.HandleCommand(ctx, command(adminUser, "unban", "100")))

	assert.Len(t, env.chat.unbans, 1)
	kinds, err := env.repos.Restrictions.Active(testGroup, regularUser)
	require.NoError(t, err)
	assert.Empty(t, kinds)
}

func TestMemberCannotUseModerationCommands(t *testing.T) {
	env := newTestEnv(t)

	err := env.engine.HandleCommand(context.Background(), command(regularUser, "ban", "101"))
	var denied *AuthorizationDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Empty(t, env.chat.bans)
}

func TestRoleLookupFailureFailsClosed(t *testing.T) {
	env := newTestEnv(t)
	env.chat.roleErrs[adminUser] = context.DeadlineExceeded

	err := env.engine.HandleCommand(context.Background(), command(adminUser, "ban", "100"))
	var denied *AuthorizationDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Empty(t, env.chat.bans)
}

func TestAdminTargetsAreProtected(t *testing.T) {
	env := newTestEnv(t)

	err := env.engine.HandleCommand(context.Background(),
		command(adminUser, "ban", "11", "grudge"))
	require.NoError(t, err)

	assert.Empty(t, env.chat.bans)
	kinds, err := env.repos.Restrictions.Active(testGroup, ownerUser)
	require.NoError(t, err)
	assert.Empty(t, kinds)
}

func TestMentionOnlyTargetIsRejected(t *testing.T) {
	env := newTestEnv(t)

	err := env.engine.HandleCommand(context.Background(), command(adminUser, "ban", "@ghost"))
	var unresolvable *TargetUnresolvableError
	require.ErrorAs(t, err, &unresolvable)
	assert.Empty(t, env.chat.bans)
}

func TestRateGateDropsBackToBackCommands(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Real clock for this test: two commands in the same instant
	env.engine.gate.now = time.Now

	require.NoError(t, env.engine.HandleCommand(ctx, command(adminUser, "ban", "100")))
	err := env.engine.HandleCommand(ctx, command(adminUser, "ban", "101"))
	assert.ErrorIs(t, err, ErrRateLimited)

	assert.Len(t, env.chat.bans, 1)
}

func TestSilentModeSuppressesConfirmations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.engine.HandleCommand(ctx, command(adminUser, "silent", "on")))
	before := len(env.chat.sentTexts())

	require.NoError(t, env.engine.HandleCommand(ctx, command(adminUser, "ban", "100")))

	assert.Len(t, env.chat.bans, 1)
	assert.Len(t, env.chat.sentTexts(), before, "ban confirmation should be suppressed")
}

func TestOwnerGatedDenialIsVoicedInSilentMode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.engine.HandleCommand(ctx, command(adminUser, "silent", "on")))
	before := len(env.chat.sentTexts())

	// An admin below creator level: the denial must be spoken even
	// with silent on
	err := env.engine.HandleCommand(ctx, command(adminUser, "promote", "100"))
	var denied *AuthorizationDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Len(t, env.chat.sentTexts(), before+1)

	// Admin-level denials stay muted
	err = env.engine.HandleCommand(ctx, command(regularUser, "ban", "100"))
	require.ErrorAs(t, err, &denied)
	assert.Len(t, env.chat.sentTexts(), before+1)
	assert.Empty(t, env.chat.promotes)
	assert.Empty(t, env.chat.bans)
}

func TestLockedMessageDeletedExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.repos.Locks.Lock(testGroup, models.LockMedia))
	require.NoError(t, env.repos.Locks.Lock(testGroup, models.LockSticker))

	msg := &Message{
		GroupID:   testGroup,
		MessageID: 600,
		Sender:    platform.User{ID: regularUser},
		Flags:     MessageFlags{HasPhoto: true, HasSticker: true},
	}
	require.NoError(t, env.engine.HandleMessage(ctx, msg))

	assert.Equal(t, []int{600}, env.chat.deletes)
}

func TestAdminsExemptFromLocks(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.repos.Locks.Lock(testGroup, models.LockAll))

	msg := &Message{
		GroupID:   testGroup,
		MessageID: 600,
		Sender:    platform.User{ID: adminUser},
		Text:      "admin announcement",
	}
	require.NoError(t, env.engine.HandleMessage(context.Background(), msg))

	assert.Empty(t, env.chat.deletes)
}

func TestFiltersReplyAtMostOnceInCreationOrder(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.repos.Filters.Upsert(testGroup, "docs", "Read the docs at /docs", 7))
	require.NoError(t, env.repos.Filters.Upsert(testGroup, "faq", "See the FAQ", 7))

	msg := &Message{
		GroupID:   testGroup,
		MessageID: 600,
		Sender:    platform.User{ID: regularUser},
		Text:      "Where are the DOCS and the faq?",
	}
	require.NoError(t, env.engine.HandleMessage(context.Background(), msg))

	texts := env.chat.sentTexts()
	require.Len(t, texts, 1)
	assert.Equal(t, "Read the docs at /docs", texts[0])
}

func TestJoinEnforcesFederationBan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.repos.Federations.Create(&models.Federation{FedID: "fed-1", Name: "Net", OwnerID: ownerUser}))
	require.NoError(t, env.repos.Federations.AddBan("fed-1", regularUser, "scammer", ownerUser))

	gc, err := env.engine.settings.Get(testGroup, "Test Group")
	require.NoError(t, err)
	gc.FederationID = "fed-1"
	require.NoError(t, env.engine.settings.Save(gc))

	ev := &MemberEvent{GroupID: testGroup, GroupName: "Test Group", Member: platform.User{ID: regularUser, FirstName: "Mallory"}}
	require.NoError(t, env.engine.HandleJoin(ctx, ev))

	require.Len(t, env.chat.bans, 1)
	kinds, err := env.repos.Restrictions.Active(testGroup, regularUser)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RestrictionBan}, kinds)
}

func TestJoinSendsRenderedWelcome(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	gc, err := env.engine.settings.Get(testGroup, "Test Group")
	require.NoError(t, err)
	gc.WelcomeTemplate = "Welcome {first} to {chatname}!"
	require.NoError(t, env.engine.settings.Save(gc))

	ev := &MemberEvent{GroupID: testGroup, GroupName: "Test Group", Member: platform.User{ID: regularUser, FirstName: "Ada"}}
	require.NoError(t, env.engine.HandleJoin(ctx, ev))

	texts := env.chat.sentTexts()
	require.Len(t, texts, 1)
	assert.Equal(t, "Welcome Ada to Test Group!", texts[0])
}

func TestBotsAreNotGreeted(t *testing.T) {
	env := newTestEnv(t)

	gc, err := env.engine.settings.Get(testGroup, "Test Group")
	require.NoError(t, err)
	gc.WelcomeTemplate = "Welcome {first}!"
	require.NoError(t, env.engine.settings.Save(gc))

	ev := &MemberEvent{GroupID: testGroup, Member: platform.User{ID: 500, FirstName: "SomeBot", IsBot: true}}
	require.NoError(t, env.engine.HandleJoin(context.Background(), ev))

	assert.Empty(t, env.chat.sentTexts())
}

func TestDisabledCommandIsIgnored(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.engine.HandleCommand(ctx, command(adminUser, "disable", "id")))

	before := len(env.chat.sentTexts())
	require.NoError(t, env.engine.HandleCommand(ctx, command(regularUser, "id")))
	assert.Len(t, env.chat.sentTexts(), before)

	// Admin commands cannot be disabled
	require.NoError(t, env.engine.HandleCommand(ctx, command(adminUser, "disable", "ban")))
	require.NoError(t, env.engine.HandleCommand(ctx, command(adminUser, "ban", "100")))
	assert.Len(t, env.chat.bans, 1)
}

func TestKickDoesNotWriteLedger(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.engine.HandleCommand(context.Background(), command(adminUser, "kick", "100")))

	assert.Len(t, env.chat.bans, 1)
	assert.Len(t, env.chat.unbans, 1)

	kinds, err := env.repos.Restrictions.Active(testGroup, regularUser)
	require.NoError(t, err)
	assert.Empty(t, kinds)
}

func TestCleanServiceDeletesServiceMessages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.engine.HandleServiceMessage(ctx, testGroup, "Test Group", 700))
	assert.Empty(t, env.chat.deletes, "clean service off by default")

	gc, err := env.engine.settings.Get(testGroup, "Test Group")
	require.NoError(t, err)
	gc.CleanService = true
	require.NoError(t, env.engine.settings.Save(gc))

	require.NoError(t, env.engine.HandleServiceMessage(ctx, testGroup, "Test Group", 701))
	assert.Equal(t, []int{701}, env.chat.deletes)
}
