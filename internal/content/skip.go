package content

import (
	"strings"

	"github.com/gobwas/glob"
)

// DefaultSkipPatterns excludes scaffold, archive, and draft paths that must
// never be published.
var DefaultSkipPatterns = []string{
	"temp/**",
	"all-categories/**",
	"all-archives/**",
	"scaffolds/**",
	"404/**",
	"_drafts/**",
}

// SkipMatcher decides whether a content path is excluded from publishing.
// Patterns use glob syntax where ** crosses path segments and * stays within
// one. A pattern matches the whole path, a path prefix, or a trailing
// segment sequence; leading and trailing slashes carry no meaning.
type SkipMatcher struct {
	globs []glob.Glob
}

// NewSkipMatcher compiles the pattern set. Invalid patterns are dropped
// rather than failing the run; an empty set never skips.
func NewSkipMatcher(patterns []string) *SkipMatcher {
	m := &SkipMatcher{}
	for _, pattern := range patterns {
		pat := strings.Trim(pattern, "/")
		if pat == "" {
			continue
		}
		for _, candidate := range expandPattern(pat) {
			if g, err := glob.Compile(candidate, '/'); err == nil {
				m.globs = append(m.globs, g)
			}
		}
	}
	return m
}

// expandPattern derives the glob forms that realize prefix and suffix
// matching: "temp" also matches "temp/…" and "…/temp", and "temp/**" still
// matches the bare "temp" directory itself.
func expandPattern(pat string) []string {
	candidates := []string{pat}
	if !strings.HasSuffix(pat, "/**") {
		candidates = append(candidates, pat+"/**")
	} else {
		candidates = append(candidates, strings.TrimSuffix(pat, "/**"))
	}
	if !strings.HasPrefix(pat, "**/") {
		candidates = append(candidates, "**/"+pat)
	} else {
		candidates = append(candidates, strings.TrimPrefix(pat, "**/"))
	}
	return candidates
}

// Match reports whether path is excluded by any pattern.
func (m *SkipMatcher) Match(path string) bool {
	p := strings.Trim(path, "/")
	for _, g := range m.globs {
		if g.Match(p) {
			return true
		}
	}
	return false
}

// ShouldSkip reports whether path matches any of patterns. Convenience form
// for one-off checks; batch callers compile a SkipMatcher once.
func ShouldSkip(path string, patterns []string) bool {
	return NewSkipMatcher(patterns).Match(path)
}
