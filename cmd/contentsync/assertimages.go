package main

import (
	"log/slog"
	"strings"
	"time"

	"contentsync/internal/assets"
	"contentsync/internal/content"
	"contentsync/internal/source"
)

// assertSkipExts are asset types the image check never looks at, on top of
// the validator's own non-image passthrough list.
var assertSkipExts = []string{".pptx", ".svg", ".ico", ".mp3", ".gif"}

// runAssertImages validates the assets of recently updated items without
// publishing anything. Failures are logged; the command still exits 0 so it
// can run alongside a build without gating it.
func runAssertImages() error {
	store, err := source.Open(CLI.AssertImages.SourceRoot)
	if err != nil {
		return err
	}
	if err := store.Load(); err != nil {
		return err
	}

	since := time.Now().AddDate(0, 0, -CLI.AssertImages.DaysAgo)
	slog.Info("Checking assets of recently updated items", "daysAgo", CLI.AssertImages.DaysAgo)

	checked, invalid := 0, 0
	check := func(items []*content.Item, contentType content.Type) error {
		for _, item := range items {
			itemAssets, err := store.AssetsFor(item, contentType)
			if err != nil {
				return err
			}
			candidates := itemAssets[:0:0]
			for _, asset := range itemAssets {
				if hasAnySuffix(asset.Source, assertSkipExts) {
					continue
				}
				candidates = append(candidates, asset)
			}
			checked += len(candidates)
			invalid += assets.Check(assets.SniffValidator{}, candidates)
		}
		return nil
	}

	if err := check(store.Articles(since), content.TypeArticle); err != nil {
		return err
	}
	if err := check(store.Pages(since), content.TypePage); err != nil {
		return err
	}

	slog.Info("Asset check complete", "checked", checked, "invalid", invalid)
	return nil
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
