package markdown

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	hrefAttrRe   = regexp.MustCompile(`(?i)href=["']((?:https?:|//)[^<>"']+)["']`)
	targetAttrRe = regexp.MustCompile(`(?i)target=`)
	relAttrRe    = regexp.MustCompile(`(?i)rel=["']([^<>"']*)["']`)
)

// RewriteExternalLinks marks anchors pointing off-site with target="_blank"
// and safe rel attributes. Only the matched anchor tags are rewritten, and
// only around their href; every other token passes through byte-for-byte.
func RewriteExternalLinks(data, baseURL string) string {
	z := html.NewTokenizer(strings.NewReader(data))
	var b strings.Builder
	b.Grow(len(data))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF; the raw tail has already been emitted.
			break
		}
		raw := string(z.Raw())
		if tt == html.StartTagToken {
			if name, _ := z.TagName(); len(name) == 1 && name[0] == 'a' {
				b.WriteString(rewriteAnchor(raw, baseURL))
				continue
			}
		}
		b.WriteString(raw)
	}
	return b.String()
}

// rewriteAnchor applies the external-link policy to one raw <a …> tag.
func rewriteAnchor(tag, baseURL string) string {
	m := hrefAttrRe.FindStringSubmatch(tag)
	if m == nil {
		return tag
	}
	if !isExternal(m[1], baseURL) || targetAttrRe.MatchString(tag) {
		return tag
	}

	if loc := relAttrRe.FindStringSubmatchIndex(tag); loc != nil {
		rel := tag[loc[2]:loc[3]]
		if !strings.Contains(rel, "noopener") {
			tag = tag[:loc[0]] + `rel="` + rel + ` noopener"` + tag[loc[1]:]
		}
		return strings.Replace(tag, "href=", `target="_blank" href=`, 1)
	}
	return strings.Replace(tag, "href=", `target="_blank" rel="noopener external nofollow noreferrer" href=`, 1)
}

// isExternal compares the link host against the site's own host.
// Protocol-relative URLs are normalized before parsing; an unparseable base
// URL treats everything as external.
func isExternal(href, baseURL string) bool {
	h := href
	if strings.HasPrefix(h, "//") {
		h = "https:" + h
	}
	u, err := url.Parse(h)
	if err != nil {
		return false
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return true
	}
	hh, bh := u.Hostname(), base.Hostname()
	if hh == "" || bh == "" {
		return true
	}
	return hh != bh
}
