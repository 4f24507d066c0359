package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"contentsync/internal/credentials"
	cerrors "contentsync/internal/errors"
)

func runDeleteContent() error {
	ctx, cancel := signalContext()
	defer cancel()

	client, err := newAuthedClient(ctx)
	if err != nil {
		return err
	}
	if err := client.DeleteContent(ctx, CLI.DeleteContent.ContentID); err != nil {
		return err
	}
	slog.Info("Content deleted", "id", CLI.DeleteContent.ContentID)
	return nil
}

func runDeleteTag() error {
	ctx, cancel := signalContext()
	defer cancel()

	client, err := newAuthedClient(ctx)
	if err != nil {
		return err
	}
	if err := client.DeleteTag(ctx, CLI.DeleteTag.TagID); err != nil {
		return err
	}
	slog.Info("Tag deleted", "id", CLI.DeleteTag.TagID)
	return nil
}

func runInvalidateCaches() error {
	ctx, cancel := signalContext()
	defer cancel()

	client, err := newAuthedClient(ctx)
	if err != nil {
		return err
	}
	if err := client.InvalidateCaches(ctx); err != nil {
		return err
	}
	slog.Info("Caches invalidated")
	return nil
}

// runPostSeries forwards each element of a JSON array file verbatim.
func runPostSeries() error {
	ctx, cancel := signalContext()
	defer cancel()

	data, err := os.ReadFile(CLI.PostSeries.FilePath)
	if err != nil {
		return cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityFatal, "read series file").
			WithContext("path", CLI.PostSeries.FilePath)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return cerrors.Wrap(err, cerrors.CategoryContent, cerrors.SeverityFatal, "series file must hold a JSON array").
			WithContext("path", CLI.PostSeries.FilePath)
	}

	client, err := newAuthedClient(ctx)
	if err != nil {
		return err
	}
	for i, entry := range entries {
		if err := client.CreateSeries(ctx, entry); err != nil {
			slog.Error("Series post failed", "index", i, "error", err)
			continue
		}
		slog.Info("Series posted", "index", i)
	}
	return nil
}

// runSetCredential reads "service author password" from stdin, as piping
// credentials beats putting them in argv.
func runSetCredential() error {
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return cerrors.Wrap(err, cerrors.CategoryConfig, cerrors.SeverityFatal, "read credential line")
	}

	fields := strings.Fields(line)
	if len(fields) != 3 {
		return cerrors.ConfigError("expected input: <service> <author> <password>")
	}
	service, author, password := fields[0], fields[1], fields[2]

	if err := (credentials.KeyringStore{}).Set(service, author, password); err != nil {
		return err
	}
	fmt.Println("Credential stored for", author)
	return nil
}
