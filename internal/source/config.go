// Package source reads a Hexo-style content tree: site config, Markdown
// items with frontmatter, sibling assets, and filesystem change events.
package source

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	cerrors "contentsync/internal/errors"
)

// SiteConfig is the subset of _config.yml the publisher needs.
type SiteConfig struct {
	URL       string `yaml:"url"`
	SourceDir string `yaml:"source_dir"`
}

// LoadSiteConfig reads _config.yml from the site root. A missing source_dir
// defaults to "source".
func LoadSiteConfig(root string) (*SiteConfig, error) {
	data, err := os.ReadFile(filepath.Join(root, "_config.yml"))
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryConfig, cerrors.SeverityFatal, "read site config").
			WithContext("root", root)
	}
	var cfg SiteConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryConfig, cerrors.SeverityFatal, "parse site config")
	}
	if cfg.SourceDir == "" {
		cfg.SourceDir = "source"
	}
	return &cfg, nil
}
