// Package markdown hosts the Markdown-adjacent transforms of the publish
// pipeline: fenced code block formatting, rendering, and post-render link
// rewriting.
package markdown

import (
	"regexp"
	"strings"
)

// Info strings come in two shapes, tried in priority order:
// "lang caption url label" and "lang caption".
var (
	allOptionsRe  = regexp.MustCompile(`([^\s]+)\s+(.+?)\s+(https?://\S+|/\S+)\s*(.+)?`)
	langCaptionRe = regexp.MustCompile(`([^\s]+)\s*(.+)?`)
)

const maxQuoteDepth = 3

type segmentKind int

const (
	segmentText segmentKind = iota
	segmentCode
)

// segment is one token of the scanned document: either verbatim text or a
// matched fenced code block with its surrounding context.
type segment struct {
	kind  segmentKind
	text  string // verbatim source, text segments only
	block fencedBlock
}

// fencedBlock captures everything needed to re-emit one fenced code block.
type fencedBlock struct {
	prefix string // opening-line text before the fence (blockquote markers, spaces)
	depth  int    // blockquote nesting depth of the opening line
	info   string // raw info string from the opening line
	body   string // content with blockquote prefixes still attached
	trail  string // newlines following the closing fence
}

// FormatCodeBlocks rewrites fenced code blocks (3+ backticks or tildes,
// optionally nested in up to three levels of blockquote) into highlighted
// figure markup, leaving all surrounding text untouched.
func FormatCodeBlocks(data string) string {
	return FormatCodeBlocksWith(data, defaultHighlighter)
}

// FormatCodeBlocksWith is FormatCodeBlocks with a caller-chosen Highlighter.
func FormatCodeBlocksWith(data string, hl Highlighter) string {
	if !strings.Contains(data, "```") && !strings.Contains(data, "~~~") {
		return data
	}

	var b strings.Builder
	b.Grow(len(data))
	for _, seg := range scanSegments(data) {
		if seg.kind == segmentText {
			b.WriteString(seg.text)
			continue
		}
		b.WriteString(renderBlock(seg.block, hl))
	}
	return b.String()
}

// scanSegments tokenizes the document into text and codeblock segments.
// A block ends at the next line whose fence length and blockquote depth
// match the opener; an opener with no closing line stays text.
func scanSegments(data string) []segment {
	lines := strings.SplitAfter(data, "\n")
	var segments []segment
	var text strings.Builder

	flushText := func() {
		if text.Len() > 0 {
			segments = append(segments, segment{kind: segmentText, text: text.String()})
			text.Reset()
		}
	}

	i := 0
	for i < len(lines) {
		prefix, depth, fence, info, ok := parseFenceOpen(lines[i])
		if !ok {
			text.WriteString(lines[i])
			i++
			continue
		}

		close := findClose(lines, i+1, fence, depth)
		if close < 0 {
			text.WriteString(lines[i])
			i++
			continue
		}

		flushText()
		var body strings.Builder
		for j := i + 1; j < close; j++ {
			body.WriteString(lines[j])
		}

		// The closing line's newline plus any blank lines directly after it
		// are re-emitted behind the highlighted block.
		trail := ""
		if strings.HasSuffix(lines[close], "\n") {
			trail = "\n"
		}
		next := close + 1
		for next < len(lines) && lines[next] == "\n" {
			trail += "\n"
			next++
		}

		segments = append(segments, segment{kind: segmentCode, block: fencedBlock{
			prefix: prefix,
			depth:  depth,
			info:   info,
			body:   body.String(),
			trail:  trail,
		}})
		i = next
	}
	flushText()
	return segments
}

// parseFenceOpen matches an opening fence line: up to three blockquote
// markers, a run of 3+ backticks or tildes, and an optional info string.
func parseFenceOpen(line string) (prefix string, depth int, fence string, info string, ok bool) {
	rest := strings.TrimRight(line, "\n")
	pos := 0
	for depth < maxQuoteDepth {
		j := pos
		for j < len(rest) && (rest[j] == ' ' || rest[j] == '\t') {
			j++
		}
		if j < len(rest) && rest[j] == '>' {
			pos = j + 1
			depth++
			continue
		}
		break
	}
	for pos < len(rest) && (rest[pos] == ' ' || rest[pos] == '\t') {
		pos++
	}
	prefix = rest[:pos]

	if pos >= len(rest) || (rest[pos] != '`' && rest[pos] != '~') {
		return "", 0, "", "", false
	}
	ch := rest[pos]
	n := pos
	for n < len(rest) && rest[n] == ch {
		n++
	}
	if n-pos < 3 {
		return "", 0, "", "", false
	}
	fence = rest[pos:n]

	// Trailing backticks never belong to the info string.
	info = strings.TrimRight(strings.TrimSpace(rest[n:]), "` \t")
	return prefix, depth, fence, info, true
}

// findClose locates the closing fence line for an opener. The closer must
// carry the same blockquote depth and the exact same fence run, with at most
// trailing whitespace after it.
func findClose(lines []string, from int, fence string, depth int) int {
	for i := from; i < len(lines); i++ {
		rest := strings.TrimRight(lines[i], "\n")
		pos := 0
		d := 0
		for d < maxQuoteDepth {
			j := pos
			for j < len(rest) && (rest[j] == ' ' || rest[j] == '\t') {
				j++
			}
			if j < len(rest) && rest[j] == '>' {
				pos = j + 1
				d++
				continue
			}
			break
		}
		if d != depth {
			continue
		}
		for pos < len(rest) && (rest[pos] == ' ' || rest[pos] == '\t') {
			pos++
		}
		if !strings.HasPrefix(rest[pos:], fence) {
			continue
		}
		// A longer run than the opener is not a closer, nor is a fence
		// followed by anything but whitespace.
		tail := rest[pos+len(fence):]
		if strings.TrimSpace(tail) != "" {
			continue
		}
		return i
	}
	return -1
}

// renderBlock emits one highlighted block in place of the matched fence.
func renderBlock(blk fencedBlock, hl Highlighter) string {
	body := strings.TrimSuffix(blk.body, "\n")
	if blk.depth > 0 {
		body = stripQuotePrefix(body, blk.depth)
	}

	lang, caption := parseInfo(blk.info)
	highlighted := hl.Highlight(body, HighlightOptions{
		Lang:      lang,
		Caption:   caption,
		Gutter:    true,
		FirstLine: 1,
	})
	return blk.prefix + "\n" + highlighted + "\n" + blk.trail
}

// parseInfo extracts language and caption markup from the info string.
// Anything after an '=' belongs to line-number syntax and is ignored.
func parseInfo(info string) (lang, caption string) {
	args := strings.SplitN(info, "=", 2)[0]
	if args == "" {
		return "", ""
	}
	m := allOptionsRe.FindStringSubmatch(args)
	if m == nil {
		m = langCaptionRe.FindStringSubmatch(args)
	}
	if m == nil {
		return "", ""
	}
	lang = m[1]
	if m[2] != "" {
		caption = "<span>" + m[2] + "</span>"
		if len(m) > 3 && m[3] != "" {
			label := m[4]
			if label == "" {
				label = "link"
			}
			caption += `<a href="` + m[3] + `">` + label + `</a>`
		}
	}
	return lang, caption
}

// stripQuotePrefix removes up to depth blockquote markers (and one following
// whitespace character) from the start of every line.
func stripQuotePrefix(body string, depth int) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		pos := 0
		removed := 0
		for removed < depth {
			j := pos
			for j < len(line) && (line[j] == ' ' || line[j] == '\t') {
				j++
			}
			if j < len(line) && line[j] == '>' {
				pos = j + 1
				removed++
				continue
			}
			break
		}
		if removed > 0 && pos < len(line) && (line[pos] == ' ' || line[pos] == '\t') {
			pos++
		}
		lines[i] = line[pos:]
	}
	return strings.Join(lines, "\n")
}
