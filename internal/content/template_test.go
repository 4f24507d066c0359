package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTemplateSyntax(t *testing.T) {
	assert.Equal(t, "This is a test string.", StripTemplateSyntax("This is a {% raw %}test{% endraw %} string."))
	assert.Equal(t, "Hello World Rust", StripTemplateSyntax("{% raw %}Hello{% endraw %} World {% raw %}Rust{% endraw %}"))
	assert.Equal(t, "Hello World", StripTemplateSyntax("Hello World"))
	assert.Equal(t, "", StripTemplateSyntax(""))
	assert.Equal(t, "", StripTemplateSyntax("{% raw %}{% endraw %}"))
}

func TestStripTemplateSyntaxIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"{% raw %}{{ mustache }}{% endraw %}",
		"{% raw %}a{% endraw %}{% raw %}b{% endraw %}",
	}
	for _, in := range inputs {
		once := StripTemplateSyntax(in)
		assert.Equal(t, once, StripTemplateSyntax(once), "input %q", in)
	}
}
