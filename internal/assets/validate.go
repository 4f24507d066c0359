// Package assets validates and copies item media into the deploy tree.
package assets

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	cerrors "contentsync/internal/errors"
)

// Validator decides whether an asset file may be copied.
type Validator interface {
	Validate(path string) error
}

// nonImageExts are asset types that are copied without sniffing. Everything
// else is expected to be an image.
var nonImageExts = map[string]struct{}{
	".md":      {},
	".mermaid": {},
	".mp3":     {},
	".mp4":     {},
	".pptx":    {},
	".svg":     {},
	".txt":     {},
	".css":     {},
	".js":      {},
	".pdf":     {},
}

// SniffValidator checks that presumed images really hold image bytes, so a
// truncated download or a mislabeled file never reaches the deploy tree.
type SniffValidator struct{}

func (SniffValidator) Validate(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := nonImageExts[ext]; ok {
		return nil
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityError, "sniff asset type").
			WithContext("path", path)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return cerrors.New(cerrors.CategoryContent, cerrors.SeverityError, "asset is not a valid image").
			WithContext("path", path).
			WithContext("detected", mtype.String())
	}
	return nil
}
