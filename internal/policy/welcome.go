package policy

import (
	"fmt"
	"html"
	"strings"

	"tg-groupwarden/internal/platform"
)

// RenderTemplate fills a welcome or goodbye template for a member.
// Output is HTML-mode text; member-supplied names are escaped.
func RenderTemplate(template string, member platform.User, chatName string) string {
	first := html.EscapeString(member.FirstName)
	last := html.EscapeString(member.LastName)

	fullname := first
	if last != "" {
		fullname = first + " " + last
	}

	username := "@" + member.Username
	if member.Username == "" {
		username = fullname
	}

	mention := fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, member.ID, first)

	replacer := strings.NewReplacer(
		"{first}", first,
		"{last}", last,
		"{fullname}", fullname,
		"{username}", username,
		"{mention}", mention,
		"{id}", fmt.Sprintf("%d", member.ID),
		"{chatname}", html.EscapeString(chatName),
	)
	return replacer.Replace(template)
}
