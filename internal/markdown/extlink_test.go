package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const base = "https://example.com"

func TestRewriteExternalLinksAddsAttributes(t *testing.T) {
	in := `<a href="https://example.org">Example Org</a>`
	want := `<a target="_blank" rel="noopener external nofollow noreferrer" href="https://example.org">Example Org</a>`
	assert.Equal(t, want, RewriteExternalLinks(in, base))
}

func TestRewriteExternalLinksProtocolRelative(t *testing.T) {
	in := `<a href="//example.net/test">Example Net</a>`
	want := `<a target="_blank" rel="noopener external nofollow noreferrer" href="//example.net/test">Example Net</a>`
	assert.Equal(t, want, RewriteExternalLinks(in, base))
}

func TestRewriteExternalLinksInternalUntouched(t *testing.T) {
	for _, in := range []string{
		`<a href="https://example.com/page">Internal</a>`,
		`<a href="/page">Relative</a>`,
		`<a href="../page">Relative Up</a>`,
		`<a href="#section">Anchor</a>`,
		`<a href="?page=1">Query</a>`,
	} {
		assert.Equal(t, in, RewriteExternalLinks(in, base), "input %q", in)
	}
}

func TestRewriteExternalLinksExistingTarget(t *testing.T) {
	in := `<a href="https://example.org" target="_self">Example Org</a>`
	assert.Equal(t, in, RewriteExternalLinks(in, base))
}

func TestRewriteExternalLinksExistingRel(t *testing.T) {
	in := `<a href="https://example.org" rel="bookmark">Example Org</a>`
	want := `<a target="_blank" href="https://example.org" rel="bookmark noopener">Example Org</a>`
	assert.Equal(t, want, RewriteExternalLinks(in, base))
}

func TestRewriteExternalLinksRelAlreadyNoopener(t *testing.T) {
	in := `<a href="https://example.org" rel="noopener bookmark">Example Org</a>`
	want := `<a target="_blank" href="https://example.org" rel="noopener bookmark">Example Org</a>`
	assert.Equal(t, want, RewriteExternalLinks(in, base))
}

func TestRewriteExternalLinksOtherMarkupVerbatim(t *testing.T) {
	in := `<p class='x'>text &amp; more</p><img src="https://example.org/a.png"><a href="https://example.org">x</a>`
	out := RewriteExternalLinks(in, base)
	assert.Contains(t, out, `<p class='x'>text &amp; more</p>`)
	assert.Contains(t, out, `<img src="https://example.org/a.png">`)
	assert.Contains(t, out, `target="_blank"`)
}

func TestRewriteExternalLinksSubdomainIsExternal(t *testing.T) {
	in := `<a href="https://sub.example.com/page">Sub</a>`
	out := RewriteExternalLinks(in, base)
	assert.Contains(t, out, `target="_blank"`)
}

func TestIsExternal(t *testing.T) {
	assert.True(t, isExternal("https://example.org/test", base))
	assert.True(t, isExternal("//example.net/test", base))
	assert.False(t, isExternal("https://example.com/page", base))
	assert.False(t, isExternal("https://example.com", base))
	// Unparseable base treats everything as external.
	assert.True(t, isExternal("https://example.org", "://bad"))
}
