package source

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/adrg/frontmatter"

	"contentsync/internal/content"
	cerrors "contentsync/internal/errors"
)

const postsDir = "_posts"

// dateLayouts covers the frontmatter date forms found in Hexo sites.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC3339,
}

type itemMeta struct {
	Title             string   `yaml:"title"`
	Date              string   `yaml:"date"`
	Updated           string   `yaml:"updated"`
	Tags              []string `yaml:"tags"`
	NoIndex           bool     `yaml:"noindex"`
	Series            string   `yaml:"series"`
	ExternalResources struct {
		JS  []string `yaml:"js"`
		CSS []string `yaml:"css"`
	} `yaml:"external_resources"`
}

// Store enumerates the Markdown items of one site. Load populates it;
// Reload keeps single items fresh while watching.
type Store struct {
	root      string // site root (holds _config.yml)
	sourceDir string // absolute path of the source tree
	cfg       *SiteConfig

	mu       sync.RWMutex
	articles []*content.Item
	pages    []*content.Item

	listeners []func(Event)
}

// Open prepares a store for the site rooted at root. Items are not read
// until Load.
func Open(root string) (*Store, error) {
	cfg, err := LoadSiteConfig(root)
	if err != nil {
		return nil, err
	}
	return &Store{
		root:      root,
		sourceDir: filepath.Join(root, cfg.SourceDir),
		cfg:       cfg,
	}, nil
}

// BaseURL returns the site's public base URL from its config.
func (s *Store) BaseURL() string {
	return s.cfg.URL
}

// SourceDir returns the absolute path of the source tree.
func (s *Store) SourceDir() string {
	return s.sourceDir
}

// Load walks the source tree and parses every Markdown item. Files that
// fail to parse are logged and skipped so one broken post cannot block a
// batch.
func (s *Store) Load() error {
	var articles, pages []*content.Item

	err := filepath.WalkDir(s.sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		item, err := s.parseFile(path)
		if err != nil {
			slog.Warn("Skipping unparsable file", "path", path, "error", err)
			return nil
		}
		if isArticlePath(item.SourcePath) {
			articles = append(articles, item)
		} else {
			pages = append(pages, item)
		}
		return nil
	})
	if err != nil {
		return cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityFatal, "walk source tree").
			WithContext("dir", s.sourceDir)
	}

	sort.Slice(articles, func(i, j int) bool { return articles[i].SourcePath < articles[j].SourcePath })
	sort.Slice(pages, func(i, j int) bool { return pages[i].SourcePath < pages[j].SourcePath })

	s.mu.Lock()
	s.articles, s.pages = articles, pages
	s.mu.Unlock()

	slog.Info("Loaded content", "articles", len(articles), "pages", len(pages))
	return nil
}

func isArticlePath(sourcePath string) bool {
	return sourcePath == postsDir || strings.HasPrefix(sourcePath, postsDir+string(filepath.Separator)) ||
		strings.HasPrefix(sourcePath, postsDir+"/")
}

func (s *Store) parseFile(path string) (*content.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityError, "open content file")
	}
	defer func() {
		_ = f.Close()
	}()

	var meta itemMeta
	body, err := frontmatter.Parse(f, &meta)
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryContent, cerrors.SeverityError, "parse frontmatter")
	}

	rel, err := filepath.Rel(s.sourceDir, path)
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityError, "relativize path")
	}
	rel = filepath.ToSlash(rel)

	info, err := os.Stat(path)
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityError, "stat content file")
	}

	item := &content.Item{
		Path:       publicPath(rel),
		SourcePath: rel,
		Title:      meta.Title,
		Body:       string(body),
		Series:     meta.Series,
		NoIndex:    meta.NoIndex,
	}
	for _, name := range meta.Tags {
		item.Tags = append(item.Tags, content.Tag{Name: name})
	}
	item.External = content.ExternalResources{
		JS:  meta.ExternalResources.JS,
		CSS: meta.ExternalResources.CSS,
	}

	if ts, ok := parseDate(meta.Date); ok {
		item.PublishedAt = ts
	} else {
		item.PublishedAt = info.ModTime().Unix()
	}
	if ts, ok := parseDate(meta.Updated); ok {
		item.UpdatedAt = ts
	} else {
		item.UpdatedAt = info.ModTime().Unix()
	}
	return item, nil
}

// publicPath derives the pre-canonicalization public path from a source
// path relative to the source dir. Articles drop the _posts prefix and keep
// their slug; pages keep their directory and end in index.html, matching
// how Hexo lays out rendered pages.
func publicPath(rel string) string {
	trimmed := strings.TrimSuffix(rel, ".md")
	if strings.HasPrefix(trimmed, postsDir+"/") {
		return strings.TrimPrefix(trimmed, postsDir+"/") + "/"
	}
	if base := filepath.Base(trimmed); base == "index" {
		trimmed = filepath.ToSlash(filepath.Dir(trimmed))
		if trimmed == "." {
			return "index.html"
		}
	}
	return trimmed + "/index.html"
}

func parseDate(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t.Unix(), true
		}
	}
	return 0, false
}

// Articles returns articles updated strictly after since. A zero since
// returns everything.
func (s *Store) Articles(since time.Time) []*content.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterSince(s.articles, since)
}

// Pages returns pages updated strictly after since.
func (s *Store) Pages(since time.Time) []*content.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterSince(s.pages, since)
}

func filterSince(items []*content.Item, since time.Time) []*content.Item {
	if since.IsZero() {
		return append([]*content.Item(nil), items...)
	}
	cutoff := since.Unix()
	var out []*content.Item
	for _, it := range items {
		if it.UpdatedAt > cutoff {
			out = append(out, it)
		}
	}
	return out
}

// FindByPath resolves an absolute or source-relative file path to its item,
// checking articles before pages. The second return value reports the item's
// content type.
func (s *Store) FindByPath(path string) (*content.Item, content.Type, bool) {
	rel := s.relativize(path)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.articles {
		if it.SourcePath == rel {
			return it, content.TypeArticle, true
		}
	}
	for _, it := range s.pages {
		if it.SourcePath == rel {
			return it, content.TypePage, true
		}
	}
	return nil, "", false
}

func (s *Store) relativize(path string) string {
	if filepath.IsAbs(path) {
		if rel, err := filepath.Rel(s.sourceDir, path); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}

// Reload re-parses one file and swaps the fresh item into place, adding it
// if it is new. Used by the watcher so edits publish with current content.
func (s *Store) Reload(path string) (*content.Item, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(s.sourceDir, filepath.FromSlash(path))
	}
	item, err := s.parseFile(abs)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if isArticlePath(item.SourcePath) {
		s.articles = replaceItem(s.articles, item)
	} else {
		s.pages = replaceItem(s.pages, item)
	}
	return item, nil
}

func replaceItem(items []*content.Item, item *content.Item) []*content.Item {
	for i, it := range items {
		if it.SourcePath == item.SourcePath {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

// AssetsFor enumerates the media files that belong to an item. Articles use
// the Hexo asset-folder convention: a directory next to the post named after
// its slug, with assets landing under the article's public path. Pages own
// the non-Markdown files of their directory, keyed by their source-relative
// path.
func (s *Store) AssetsFor(item *content.Item, contentType content.Type) ([]content.Asset, error) {
	if contentType == content.TypeArticle {
		return s.articleAssets(item)
	}
	return s.pageAssets(item)
}

func (s *Store) articleAssets(item *content.Item) ([]content.Asset, error) {
	folder := filepath.Join(s.sourceDir, filepath.FromSlash(strings.TrimSuffix(item.SourcePath, ".md")))
	entries, err := os.ReadDir(folder)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityError, "read asset folder").
			WithContext("dir", folder)
	}

	var assets []content.Asset
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		assets = append(assets, content.Asset{
			Source: filepath.Join(folder, entry.Name()),
			Path:   item.Path + entry.Name(),
		})
	}
	return assets, nil
}

func (s *Store) pageAssets(item *content.Item) ([]content.Asset, error) {
	dir := filepath.Join(s.sourceDir, filepath.Dir(filepath.FromSlash(item.SourcePath)))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityError, "read page dir").
			WithContext("dir", dir)
	}

	var assets []content.Asset
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		full := filepath.Join(dir, entry.Name())
		rel, err := filepath.Rel(s.sourceDir, full)
		if err != nil {
			continue
		}
		assets = append(assets, content.Asset{
			Source: full,
			Path:   filepath.ToSlash(rel),
		})
	}
	return assets, nil
}
