package policy

import (
	"strconv"
	"strings"

	"tg-groupwarden/internal/models"
	"tg-groupwarden/internal/platform"
)

// ResolveTarget determines who a command acts on. Precedence: the
// replied-to message's author, then an @username argument, then a
// numeric id argument. The remaining args (reason, duration) are
// returned alongside.
func ResolveTarget(cmd *Command) (*models.TargetUser, []string, error) {
	if cmd.ReplyTo != nil {
		return userToTarget(cmd.ReplyTo), cmd.Args, nil
	}

	if len(cmd.Args) == 0 {
		return nil, nil, &TargetUnresolvableError{}
	}

	token := cmd.Args[0]
	rest := cmd.Args[1:]

	if strings.HasPrefix(token, "@") {
		// A bare mention carries no user id; the target is kept so the
		// caller can report who could not be identified.
		return &models.TargetUser{Username: strings.TrimPrefix(token, "@")}, rest, nil
	}

	if id, err := strconv.ParseInt(token, 10, 64); err == nil {
		return &models.TargetUser{ID: id}, rest, nil
	}

	return nil, nil, &TargetUnresolvableError{Hint: token}
}

func userToTarget(u *platform.User) *models.TargetUser {
	name := u.FirstName
	if u.LastName != "" {
		name = name + " " + u.LastName
	}
	return &models.TargetUser{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: name,
	}
}
