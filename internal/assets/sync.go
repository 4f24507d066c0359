package assets

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"contentsync/internal/content"
	cerrors "contentsync/internal/errors"
	"contentsync/internal/metrics"
)

// Synchronizer copies item assets into a deploy directory. Failures are
// logged and counted but never abort the remaining assets.
type Synchronizer struct {
	validator Validator
	recorder  metrics.Recorder
}

// NewSynchronizer builds a synchronizer. A nil validator copies everything;
// a nil recorder discards counts.
func NewSynchronizer(validator Validator, recorder metrics.Recorder) *Synchronizer {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Synchronizer{validator: validator, recorder: recorder}
}

// Sync copies each asset under destDir, creating directories as needed.
// It returns the number of assets copied successfully.
func (s *Synchronizer) Sync(assets []content.Asset, destDir string) int {
	copied := 0
	for _, asset := range assets {
		if err := s.syncOne(asset, destDir); err != nil {
			slog.Error("Asset copy failed", "source", asset.Source, "error", err)
			s.recorder.IncAssetCopy(false)
			continue
		}
		s.recorder.IncAssetCopy(true)
		copied++
	}
	return copied
}

func (s *Synchronizer) syncOne(asset content.Asset, destDir string) error {
	if s.validator != nil {
		if err := s.validator.Validate(asset.Source); err != nil {
			return err
		}
	}

	dest := filepath.Join(destDir, filepath.FromSlash(asset.Path))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityError, "create asset directory").
			WithContext("dir", filepath.Dir(dest))
	}
	if err := copyFile(asset.Source, dest); err != nil {
		return err
	}

	slog.Debug("Copied asset", "source", asset.Source, "dest", dest)
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityError, "open asset")
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(dest)
	if err != nil {
		return cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityError, "create asset")
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityError, "copy asset")
	}
	return out.Close()
}
