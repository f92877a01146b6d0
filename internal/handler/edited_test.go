package handler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mymmrac/telego"

	"tg-groupwarden/internal/config"
	"tg-groupwarden/internal/executor"
	"tg-groupwarden/internal/models"
	"tg-groupwarden/internal/platform"
	"tg-groupwarden/internal/policy"
	"tg-groupwarden/internal/scheduler"
	"tg-groupwarden/internal/service"
)

// recordingChat is a minimal platform.Chat that records deletions. All
// members resolve as plain members.
type recordingChat struct {
	mu      sync.Mutex
	deletes []int
}

func (c *recordingChat) MemberRole(ctx context.Context, chatID, userID int64) (platform.Role, error) {
	return platform.RoleMember, nil
}

func (c *recordingChat) Administrators(ctx context.Context, chatID int64) ([]platform.Member, error) {
	return nil, nil
}

func (c *recordingChat) Ban(ctx context.Context, chatID, userID int64, until *time.Time) error {
	return nil
}

func (c *recordingChat) Unban(ctx context.Context, chatID, userID int64) error { return nil }

func (c *recordingChat) Mute(ctx context.Context, chatID, userID int64, until *time.Time) error {
	return nil
}

func (c *recordingChat) Unmute(ctx context.Context, chatID, userID int64) error  { return nil }
func (c *recordingChat) Promote(ctx context.Context, chatID, userID int64) error { return nil }
func (c *recordingChat) Demote(ctx context.Context, chatID, userID int64) error  { return nil }

func (c *recordingChat) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes = append(c.deletes, messageID)
	return nil
}

func (c *recordingChat) SendMessage(ctx context.Context, chatID int64, text string, opts *platform.SendOptions) (platform.MessageRef, error) {
	return platform.MessageRef{ChatID: chatID, MessageID: 1}, nil
}

func (c *recordingChat) deleted() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.deletes...)
}

func setupEditedTest(t *testing.T) (*recordingChat, *service.Repositories) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	repos, err := service.NewRepositories(db)
	require.NoError(t, err)

	sched := scheduler.New()
	t.Cleanup(sched.Stop)

	chat := &recordingChat{}
	eng := policy.New(policy.Deps{
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
	Initialize(&config.Config{}, eng)
	return chat, repos
}

func TestEditedMessageHitsLockPipeline(t *testing.T) {
	chat, repos := setupEditedTest(t)
	require.NoError(t, repos.Locks.Lock(-1001, models.LockURL))

	edited := telego.Message{
		MessageID: 77,
		Text:      "harmless before, now with https://spam.example",
		Chat:      telego.Chat{ID: -1001, Title: "Gophers", Type: "supergroup"},
		From:      &telego.User{ID: 100, FirstName: "Mallory"},
	}
	require.NoError(t, handleEditedMessage(context.Background(), edited))
	assert.Equal(t, []int{77}, chat.deleted())
}

func TestEditedMessageOutsideGroupsIsIgnored(t *testing.T) {
	chat, repos := setupEditedTest(t)
	require.NoError(t, repos.Locks.Lock(-1001, models.LockURL))

	edited := telego.Message{
		MessageID: 78,
		Text:      "https://spam.example",
		Chat:      telego.Chat{ID: 100, Type: "private"},
		From:      &telego.User{ID: 100, FirstName: "Mallory"},
	}
	require.NoError(t, handleEditedMessage(context.Background(), edited))
	assert.Empty(t, chat.deleted())
}
