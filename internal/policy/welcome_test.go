package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tg-groupwarden/internal/platform"
)

func TestRenderTemplatePlaceholders(t *testing.T) {
	member := platform.User{ID: 42, FirstName: "Ada", LastName: "Lovelace", Username: "ada"}

	got := RenderTemplate("Hi {first} {last} ({fullname}, {username}, {id}) welcome to {chatname}!",
		member, "Gophers")
	assert.Equal(t, "Hi Ada Lovelace (Ada Lovelace, @ada, 42) welcome to Gophers!", got)
}

func TestRenderTemplateMention(t *testing.T) {
	member := platform.User{ID: 42, FirstName: "Ada"}

	got := RenderTemplate("{mention}", member, "Gophers")
	assert.Equal(t, `<a href="tg://user?id=42">Ada</a>`, got)
}

func TestRenderTemplateFallsBackWithoutUsername(t *testing.T) {
	member := platform.User{ID: 42, FirstName: "Ada"}

	got := RenderTemplate("{username}", member, "Gophers")
	assert.Equal(t, "Ada", got)
}

func TestRenderTemplateEscapesNames(t *testing.T) {
	member := platform.User{ID: 42, FirstName: "<b>Ada</b>"}

	got := RenderTemplate("{first}", member, "Gophers")
	assert.Equal(t, "&lt;b&gt;Ada&lt;/b&gt;", got)
}

func TestRenderTemplateLeavesUnknownTokens(t *testing.T) {
	member := platform.User{ID: 42, FirstName: "Ada"}

	got := RenderTemplate("{first} {unknown}", member, "Gophers")
	assert.Equal(t, "Ada {unknown}", got)
}
