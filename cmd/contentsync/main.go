package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

var CLI struct {
	Verbose bool   `short:"v" help:"Enable verbose logging"`
	APIURL  string `name:"api-url" required:"" help:"Base URL of the content API"`
	Service string `required:"" help:"Credential service name"`
	Author  string `required:"" help:"Author name to publish as"`

	Publish struct {
		SourceRoot      string `short:"s" help:"Site root containing _config.yml" default:"."`
		DeployAssetsDir string `required:"" help:"Directory assets are copied into"`
		DaysAgo         int    `help:"Only publish items updated within the last N days" default:"5"`
	} `cmd:"" help:"Publish recently updated articles and pages as one batch"`

	Watch struct {
		SourceRoot      string `short:"s" help:"Site root containing _config.yml" default:"."`
		DeployAssetsDir string `required:"" help:"Directory assets are copied into"`
		MetricsAddr     string `help:"Expose Prometheus metrics on this address (e.g. :9090)"`
	} `cmd:"" help:"Watch the source tree and republish items as they change"`

	AssertImages struct {
		SourceRoot string `short:"s" help:"Site root containing _config.yml" default:"."`
		DaysAgo    int    `help:"Only check items updated within the last N days" default:"10000"`
	} `cmd:"" help:"Validate image assets of recently updated items without publishing"`

	DeleteContent struct {
		ContentID string `required:"" help:"Content id to delete"`
	} `cmd:"" help:"Delete a content item from the API"`

	DeleteTag struct {
		TagID string `required:"" help:"Tag id to delete"`
	} `cmd:"" help:"Delete a tag from the API"`

	InvalidateCaches struct {
	} `cmd:"" help:"Invalidate the API's server-side caches"`

	PostSeries struct {
		FilePath string `required:"" help:"JSON file holding an array of series definitions"`
	} `cmd:"" help:"Post series definitions from a JSON file"`

	SetCredential struct {
	} `cmd:"" help:"Read 'service author password' from stdin and store it"`
}

func main() {
	// Flags may come from a .env file; missing files are fine.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	var err error
	switch ctx.Command() {
	case "publish":
		err = runPublish()
	case "watch":
		err = runWatch()
	case "assert-images":
		err = runAssertImages()
	case "delete-content":
		err = runDeleteContent()
	case "delete-tag":
		err = runDeleteTag()
	case "invalidate-caches":
		err = runInvalidateCaches()
	case "post-series":
		err = runPostSeries()
	case "set-credential":
		err = runSetCredential()
	}
	if err != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
