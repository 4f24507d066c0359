package content

import (
	"strings"

	cerrors "contentsync/internal/errors"
	"contentsync/internal/markdown"
)

// Renderer converts Markdown into HTML. Rendering is delegated so the
// pipeline stays independent of the engine; markdown.NewRenderer is the
// production implementation.
type Renderer interface {
	Render(markdown string) (string, error)
}

// PayloadTag is a tag in wire form.
type PayloadTag struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// PayloadResource groups external resource URLs of one kind (js or css).
type PayloadResource struct {
	Kind   string   `json:"kind"`
	Values []string `json:"values"`
}

// Payload is the immutable record submitted to the content API. Optional
// fields are present only when non-empty; absence, not null, signals
// "no value".
type Payload struct {
	ContentType       Type              `json:"contentType"`
	Path              string            `json:"path"`
	Title             string            `json:"title"`
	RobotsAttributes  string            `json:"robotsAttributes"`
	RawContent        string            `json:"rawContent"`
	HTMLContent       string            `json:"htmlContent"`
	PublishedAt       int64             `json:"publishedAt"`
	UpdatedAt         int64             `json:"updatedAt"`
	Tags              []PayloadTag      `json:"tags,omitempty"`
	ExternalResources []PayloadResource `json:"externalResources,omitempty"`
	Series            string            `json:"series,omitempty"`
}

// Builder composes the transformation pipeline for one site: skip filter,
// path canonicalization, template stripping, code block formatting, markdown
// rendering, and external link rewriting.
type Builder struct {
	matcher  *SkipMatcher
	renderer Renderer
	baseURL  string
}

// NewBuilder constructs a Builder over the given skip patterns. baseURL is
// the site's own URL; anchors pointing elsewhere get external-link handling.
func NewBuilder(skipPatterns []string, renderer Renderer, baseURL string) *Builder {
	return &Builder{
		matcher:  NewSkipMatcher(skipPatterns),
		renderer: renderer,
		baseURL:  baseURL,
	}
}

// Build turns an item into its wire payload. A nil payload with a nil error
// means the item is skip-filtered and there is nothing to publish. Renderer
// failures are fatal for the item, not the batch.
func (b *Builder) Build(item *Item, contentType Type) (*Payload, error) {
	if b.matcher.Match(item.Path) {
		return nil, nil
	}

	path := FormatPath(item.Path, contentType)
	raw := StripTemplateSyntax(item.Body)

	rendered, err := b.renderer.Render(markdown.FormatCodeBlocks(raw))
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryContent, cerrors.SeverityError, "markdown render failed").
			WithContext("path", item.Path)
	}
	html := markdown.RewriteExternalLinks(rendered, b.baseURL)

	p := &Payload{
		ContentType:      contentType,
		Path:             path,
		Title:            item.Title,
		RobotsAttributes: GenerateRobots(item.NoIndex, contentType),
		RawContent:       raw,
		HTMLContent:      html,
		PublishedAt:      item.PublishedAt,
		UpdatedAt:        item.UpdatedAt,
	}

	for _, t := range item.Tags {
		p.Tags = append(p.Tags, PayloadTag{Name: t.Name, Path: tagPath(t.Name)})
	}
	if len(item.External.JS) > 0 {
		p.ExternalResources = append(p.ExternalResources, PayloadResource{Kind: "js", Values: item.External.JS})
	}
	if len(item.External.CSS) > 0 {
		p.ExternalResources = append(p.ExternalResources, PayloadResource{Kind: "css", Values: item.External.CSS})
	}
	if strings.TrimSpace(item.Series) != "" {
		p.Series = item.Series
	}
	return p, nil
}

// tagPath derives the tag's URL path segment from its display name.
func tagPath(name string) string {
	return strings.ReplaceAll(strings.ReplaceAll(name, " ", "-"), "'", "")
}
