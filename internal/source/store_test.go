package source

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentsync/internal/content"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func fixtureSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "_config.yml"), "url: https://example.com\n")

	writeFile(t, filepath.Join(root, "source", "_posts", "first-post.md"),
		`---
title: First Post
date: 2024-01-10 08:30:00
updated: 2024-02-01 12:00:00
tags:
  - go
  - testing
series: basics
---
body of first post
`)
	writeFile(t, filepath.Join(root, "source", "_posts", "old-post.md"),
		`---
title: Old Post
date: 2020-01-01
updated: 2020-01-02
---
old body
`)
	writeFile(t, filepath.Join(root, "source", "about", "index.md"),
		`---
title: About
noindex: true
external_resources:
  js:
    - https://cdn.example.org/widget.js
---
about body
`)
	writeFile(t, filepath.Join(root, "source", "_posts", "first-post", "diagram.png"), "png-bytes")
	writeFile(t, filepath.Join(root, "source", "about", "photo.jpg"), "jpg-bytes")
	return root
}

func TestLoadSiteConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "_config.yml"), "url: https://example.com\nsource_dir: content\n")

	cfg, err := LoadSiteConfig(root)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", cfg.URL)
	assert.Equal(t, "content", cfg.SourceDir)

	writeFile(t, filepath.Join(root, "_config.yml"), "url: https://example.com\n")
	cfg, err = LoadSiteConfig(root)
	require.NoError(t, err)
	assert.Equal(t, "source", cfg.SourceDir)
}

func TestLoadSiteConfigMissing(t *testing.T) {
	_, err := LoadSiteConfig(t.TempDir())
	assert.Error(t, err)
}

func TestStoreLoad(t *testing.T) {
	store, err := Open(fixtureSite(t))
	require.NoError(t, err)
	require.NoError(t, store.Load())

	articles := store.Articles(time.Time{})
	require.Len(t, articles, 2)
	first := articles[0]
	assert.Equal(t, "first-post/", first.Path)
	assert.Equal(t, "_posts/first-post.md", first.SourcePath)
	assert.Equal(t, "First Post", first.Title)
	assert.Equal(t, []content.Tag{{Name: "go"}, {Name: "testing"}}, first.Tags)
	assert.Equal(t, "basics", first.Series)
	assert.Contains(t, first.Body, "body of first post")
	assert.NotContains(t, first.Body, "title:")

	pages := store.Pages(time.Time{})
	require.Len(t, pages, 1)
	page := pages[0]
	assert.Equal(t, "about/index.html", page.Path)
	assert.True(t, page.NoIndex)
	assert.Equal(t, []string{"https://cdn.example.org/widget.js"}, page.External.JS)
}

func TestStoreDates(t *testing.T) {
	store, err := Open(fixtureSite(t))
	require.NoError(t, err)
	require.NoError(t, store.Load())

	item, _, ok := store.FindByPath("_posts/first-post.md")
	require.True(t, ok)
	published := time.Unix(item.PublishedAt, 0)
	assert.Equal(t, 2024, published.Year())
	assert.Greater(t, item.UpdatedAt, item.PublishedAt)

	// Missing updated falls back to file mtime.
	page, _, ok := store.FindByPath("about/index.md")
	require.True(t, ok)
	assert.InDelta(t, time.Now().Unix(), page.UpdatedAt, 60)
}

func TestArticlesSinceFilter(t *testing.T) {
	store, err := Open(fixtureSite(t))
	require.NoError(t, err)
	require.NoError(t, store.Load())

	cutoff := time.Date(2023, 1, 1, 0, 0, 0, 0, time.Local)
	articles := store.Articles(cutoff)
	require.Len(t, articles, 1)
	assert.Equal(t, "First Post", articles[0].Title)
}

// The since cutoff is exclusive: an item updated exactly at the cutoff does
// not qualify.
func TestSinceFilterExcludesBoundary(t *testing.T) {
	store, err := Open(fixtureSite(t))
	require.NoError(t, err)
	require.NoError(t, store.Load())

	item, _, ok := store.FindByPath("_posts/first-post.md")
	require.True(t, ok)

	atBoundary := time.Unix(item.UpdatedAt, 0)
	assert.Empty(t, store.Articles(atBoundary))
	assert.Contains(t, store.Articles(atBoundary.Add(-time.Second)), item)
}

func TestFindByPathArticlesFirst(t *testing.T) {
	store, err := Open(fixtureSite(t))
	require.NoError(t, err)
	require.NoError(t, store.Load())

	item, ct, ok := store.FindByPath(filepath.Join(store.SourceDir(), "_posts", "first-post.md"))
	require.True(t, ok)
	assert.Equal(t, content.TypeArticle, ct)
	assert.Equal(t, "First Post", item.Title)

	item, ct, ok = store.FindByPath("about/index.md")
	require.True(t, ok)
	assert.Equal(t, content.TypePage, ct)
	assert.Equal(t, "About", item.Title)

	_, _, ok = store.FindByPath("nope.md")
	assert.False(t, ok)
}

func TestReload(t *testing.T) {
	root := fixtureSite(t)
	store, err := Open(root)
	require.NoError(t, err)
	require.NoError(t, store.Load())

	path := filepath.Join(root, "source", "_posts", "first-post.md")
	writeFile(t, path, `---
title: Retitled Post
date: 2024-01-10 08:30:00
---
new body
`)
	item, err := store.Reload(path)
	require.NoError(t, err)
	assert.Equal(t, "Retitled Post", item.Title)

	found, _, ok := store.FindByPath("_posts/first-post.md")
	require.True(t, ok)
	assert.Equal(t, "Retitled Post", found.Title)
	assert.Len(t, store.Articles(time.Time{}), 2)
}

func TestReloadNewFile(t *testing.T) {
	root := fixtureSite(t)
	store, err := Open(root)
	require.NoError(t, err)
	require.NoError(t, store.Load())

	path := filepath.Join(root, "source", "_posts", "fresh.md")
	writeFile(t, path, "---\ntitle: Fresh\n---\nfresh body\n")

	_, err = store.Reload(path)
	require.NoError(t, err)
	assert.Len(t, store.Articles(time.Time{}), 3)
}

func TestArticleAssets(t *testing.T) {
	store, err := Open(fixtureSite(t))
	require.NoError(t, err)
	require.NoError(t, store.Load())

	item, _, ok := store.FindByPath("_posts/first-post.md")
	require.True(t, ok)
	assets, err := store.AssetsFor(item, content.TypeArticle)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "first-post/diagram.png", assets[0].Path)
	assert.FileExists(t, assets[0].Source)

	// Articles without an asset folder have no assets.
	item, _, ok = store.FindByPath("_posts/old-post.md")
	require.True(t, ok)
	assets, err = store.AssetsFor(item, content.TypeArticle)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestPageAssets(t *testing.T) {
	store, err := Open(fixtureSite(t))
	require.NoError(t, err)
	require.NoError(t, store.Load())

	item, _, ok := store.FindByPath("about/index.md")
	require.True(t, ok)
	assets, err := store.AssetsFor(item, content.TypePage)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "about/photo.jpg", assets[0].Path)
}

func TestPublicPath(t *testing.T) {
	assert.Equal(t, "my-post/", publicPath("_posts/my-post.md"))
	assert.Equal(t, "2024/deep/", publicPath("_posts/2024/deep.md"))
	assert.Equal(t, "about/index.html", publicPath("about/index.md"))
	assert.Equal(t, "faq/index.html", publicPath("faq.md"))
	assert.Equal(t, "index.html", publicPath("index.md"))
}
