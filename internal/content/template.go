package content

import "strings"

// StripTemplateSyntax removes the templating engine's raw escape markers
// without touching the enclosed content. Idempotent.
func StripTemplateSyntax(text string) string {
	text = strings.ReplaceAll(text, "{% raw %}", "")
	return strings.ReplaceAll(text, "{% endraw %}", "")
}
