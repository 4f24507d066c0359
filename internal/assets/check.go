package assets

import (
	"log/slog"

	"contentsync/internal/content"
)

// Check runs the validator over assets without copying anything. Each
// failure is logged with its source path; the return value is the number of
// invalid assets.
func Check(validator Validator, assets []content.Asset) int {
	invalid := 0
	for _, asset := range assets {
		if err := validator.Validate(asset.Source); err != nil {
			slog.Error("Asset validation failed", "source", asset.Source, "error", err)
			invalid++
		}
	}
	return invalid
}
