package content

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityRenderer keeps payload tests independent of the markdown engine.
type identityRenderer struct{}

func (identityRenderer) Render(markdown string) (string, error) { return markdown, nil }

type failingRenderer struct{}

func (failingRenderer) Render(string) (string, error) { return "", errors.New("boom") }

func testItem() *Item {
	return &Item{
		Path:        "example/path/",
		Title:       "Example",
		Body:        "{% raw %}hello{% endraw %}",
		PublishedAt: 1700000000,
		UpdatedAt:   1700000500,
	}
}

func TestBuildBasicPayload(t *testing.T) {
	b := NewBuilder(DefaultSkipPatterns, identityRenderer{}, "https://example.com")
	p, err := b.Build(testItem(), TypeArticle)
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, TypeArticle, p.ContentType)
	assert.Equal(t, "/articles/example/path/", p.Path)
	assert.Equal(t, "Example", p.Title)
	assert.Equal(t, "noarchive, noimageindex", p.RobotsAttributes)
	assert.Equal(t, "hello", p.RawContent)
	assert.Equal(t, "hello", p.HTMLContent)
	assert.Equal(t, int64(1700000000), p.PublishedAt)
	assert.Equal(t, int64(1700000500), p.UpdatedAt)
}

func TestBuildSkipFiltered(t *testing.T) {
	b := NewBuilder(DefaultSkipPatterns, identityRenderer{}, "https://example.com")
	item := testItem()
	item.Path = "temp/some-path"
	p, err := b.Build(item, TypeArticle)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestBuildRendererFailure(t *testing.T) {
	b := NewBuilder(nil, failingRenderer{}, "https://example.com")
	p, err := b.Build(testItem(), TypeArticle)
	assert.Nil(t, p)
	require.Error(t, err)
}

func TestBuildTagMapping(t *testing.T) {
	b := NewBuilder(nil, identityRenderer{}, "https://example.com")
	item := testItem()
	item.Tags = []Tag{{Name: "Visual Studio Code"}, {Name: "Alice's Tools"}}
	p, err := b.Build(item, TypeArticle)
	require.NoError(t, err)
	require.Len(t, p.Tags, 2)
	assert.Equal(t, PayloadTag{Name: "Visual Studio Code", Path: "Visual-Studio-Code"}, p.Tags[0])
	assert.Equal(t, PayloadTag{Name: "Alice's Tools", Path: "Alices-Tools"}, p.Tags[1])
}

func TestBuildExternalResources(t *testing.T) {
	b := NewBuilder(nil, identityRenderer{}, "https://example.com")
	item := testItem()
	item.External = ExternalResources{
		JS:  []string{"https://cdn.example.org/a.js"},
		CSS: []string{"https://cdn.example.org/a.css"},
	}
	p, err := b.Build(item, TypePage)
	require.NoError(t, err)
	require.Len(t, p.ExternalResources, 2)
	assert.Equal(t, "js", p.ExternalResources[0].Kind)
	assert.Equal(t, "css", p.ExternalResources[1].Kind)
}

func TestBuildSeriesTrimming(t *testing.T) {
	b := NewBuilder(nil, identityRenderer{}, "https://example.com")

	item := testItem()
	item.Series = "   "
	p, err := b.Build(item, TypeArticle)
	require.NoError(t, err)
	assert.Empty(t, p.Series)

	item.Series = "go-basics"
	p, err = b.Build(item, TypeArticle)
	require.NoError(t, err)
	assert.Equal(t, "go-basics", p.Series)
}

// Optional fields are absent from the wire format, not null.
func TestPayloadConditionalFields(t *testing.T) {
	b := NewBuilder(nil, identityRenderer{}, "https://example.com")
	p, err := b.Build(testItem(), TypePage)
	require.NoError(t, err)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	for _, key := range []string{"tags", "externalResources", "series"} {
		_, present := m[key]
		assert.False(t, present, "key %s should be absent", key)
	}
	assert.Equal(t, "page", m["contentType"])
	assert.Equal(t, "noindex, noarchive, noimageindex, nofollow", m["robotsAttributes"])
}
