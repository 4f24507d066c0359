// Package content models publishable items and turns them into the wire
// payloads the content API accepts.
package content

// Type discriminates the two kinds of publishable items. Articles render
// under the /articles path prefix, pages render without it.
type Type string

const (
	TypeArticle Type = "article"
	TypePage    Type = "page"
)

// Tag is a label attached to an item by its frontmatter.
type Tag struct {
	Name string
}

// ExternalResources lists extra script and stylesheet URLs an item pulls in.
type ExternalResources struct {
	JS  []string
	CSS []string
}

// Item is one Markdown content item as enumerated by the source store.
// The store owns items; everything downstream treats them as read-only.
type Item struct {
	Path        string // public path before canonicalization, e.g. "my-post/"
	SourcePath  string // backing markdown file, relative to the source dir
	Title       string
	Body        string // raw markdown, frontmatter already removed
	Tags        []Tag
	External    ExternalResources
	Series      string
	NoIndex     bool
	PublishedAt int64 // unix seconds
	UpdatedAt   int64 // unix seconds
}

// Asset is a media file owned by an item.
type Asset struct {
	Source string // absolute filesystem path
	Path   string // destination-relative path under the deploy directory
}
