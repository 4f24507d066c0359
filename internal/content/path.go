package content

import (
	"strings"

	cerrors "contentsync/internal/errors"
)

// ErrEmptyPath names the condition where an item arrives with an empty
// source path. FormatPath currently canonicalizes it ("/articles/" for
// articles, "/" for pages) instead of failing; callers that want to reject
// such items can check for emptiness and return this error themselves.
var ErrEmptyPath = cerrors.New(cerrors.CategoryContent, cerrors.SeverityWarning, "content path is empty")

// FormatPath canonicalizes a raw content path into its public URL path:
// the index.html suffix is stripped, the result is wrapped in slashes, and
// article paths gain the /articles prefix when missing.
func FormatPath(path string, contentType Type) string {
	p := strings.TrimSuffix(path, "index.html/")
	p = strings.TrimSuffix(p, "index.html")
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if contentType == TypeArticle && !strings.Contains(p, "/articles") {
		p = "/articles" + p
	}
	return p
}
