package markdown

import (
	"fmt"
	"html"
	"strings"
)

// HighlightOptions carries the metadata extracted from a fence info string.
type HighlightOptions struct {
	Lang      string
	Caption   string // pre-rendered caption markup (<span>…</span>[<a …>…</a>])
	Gutter    bool
	FirstLine int
}

// Highlighter renders one fenced code block to HTML. The default emits a
// figure/table layout with a line-number gutter; syntax coloring is left to
// client-side tooling.
type Highlighter interface {
	Highlight(code string, opts HighlightOptions) string
}

var defaultHighlighter Highlighter = figureHighlighter{}

type figureHighlighter struct{}

func (figureHighlighter) Highlight(code string, opts HighlightOptions) string {
	lines := strings.Split(code, "\n")

	var b strings.Builder
	class := "highlight"
	if opts.Lang != "" {
		class += " " + opts.Lang
	}
	b.WriteString(`<figure class="` + class + `">`)
	if opts.Caption != "" {
		b.WriteString("<figcaption>" + opts.Caption + "</figcaption>")
	}
	b.WriteString("<table><tr>")
	if opts.Gutter {
		first := opts.FirstLine
		if first <= 0 {
			first = 1
		}
		b.WriteString(`<td class="gutter"><pre>`)
		for i := range lines {
			fmt.Fprintf(&b, `<span class="line">%d</span><br>`, first+i)
		}
		b.WriteString(`</pre></td>`)
	}
	b.WriteString(`<td class="code"><pre>`)
	for _, line := range lines {
		b.WriteString(`<span class="line">` + html.EscapeString(line) + `</span><br>`)
	}
	b.WriteString(`</pre></td></tr></table></figure>`)
	return b.String()
}
