package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-groupwarden/internal/platform"
)

func TestReplyOutranksArguments(t *testing.T) {
	author := platform.User{ID: 100, FirstName: "Mallory", Username: "mallory"}
	cmd := &Command{
		Args:    []string{"@someoneelse", "spamming"},
		ReplyTo: &author,
	}

	target, rest, err := ResolveTarget(cmd)
	require.NoError(t, err)
	assert.EqualValues(t, 100, target.ID)
	assert.Equal(t, []string{"@someoneelse", "spamming"}, rest)
}

func TestMentionTargetHasNoID(t *testing.T) {
	cmd := &Command{Args: []string{"@mallory", "spamming"}}

	target, rest, err := ResolveTarget(cmd)
	require.NoError(t, err)
	assert.False(t, target.Resolvable())
	assert.Equal(t, "mallory", target.Username)
	assert.Equal(t, []string{"spamming"}, rest)
}

func TestNumericIDTarget(t *testing.T) {
	cmd := &Command{Args: []string{"123456", "flood"}}

	target, rest, err := ResolveTarget(cmd)
	require.NoError(t, err)
	assert.EqualValues(t, 123456, target.ID)
	assert.Equal(t, []string{"flood"}, rest)
}

func TestUnresolvableTargets(t *testing.T) {
	for _, args := range [][]string{nil, {"not-a-user"}} {
		_, _, err := ResolveTarget(&Command{Args: args})
		var unresolvable *TargetUnresolvableError
		assert.ErrorAs(t, err, &unresolvable)
	}
}
