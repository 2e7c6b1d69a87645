package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/xiwu-io/inkwell"
	"github.com/xiwu-io/inkwell/config"
)

// version is set at build time via ldflags.
var version = "dev"

var CLI struct {
	config.Config `embed:""`

	Verbose bool `short:"v" help:"Enable verbose logging"`

	Serve struct {
		Watch bool `short:"w" help:"Purge caches when content files change"`
	} `cmd:"" default:"1" help:"Serve the site over HTTP"`

	Build struct {
		Out string `short:"o" help:"Output directory for the static site" default:"out"`
	} `cmd:"" help:"Export every page, feed and OG image as static files"`

	New struct {
		Locale string `arg:"" help:"Locale of the post"`
		Title  string `arg:"" help:"Post title"`
		Slug   string `short:"s" help:"Post slug (derived from the title when omitted)"`
	} `cmd:"" help:"Create a draft post in the content directory"`

	Version struct{} `cmd:"" help:"Print the inkwell version"`
}

func main() {
	// .env is optional; explicit environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}

	kctx := kong.Parse(&CLI,
		kong.Name("inkwell"),
		kong.Description("A multilingual blog engine built with Go, Echo, and templ"),
		kong.UsageOnError(),
	)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch kctx.Command() {
	case "serve":
		err = runServe(ctx, logger)
	case "build":
		err = runBuild(ctx, logger)
	case "new <locale> <title>":
		err = runNew(CLI.Config, CLI.New.Locale, CLI.New.Title, CLI.New.Slug)
	case "version":
		fmt.Printf("inkwell %s\n", version)
	default:
		err = fmt.Errorf("unknown command %q", kctx.Command())
	}
	if err != nil {
		slog.Error("Command failed", "command", kctx.Command(), "error", err)
		stop()
		os.Exit(1)
	}
}

func runServe(ctx context.Context, logger *slog.Logger) error {
	app, err := inkwell.New(CLI.Config, inkwell.WithLogger(logger))
	if err != nil {
		return err
	}
	defer app.Close()

	if CLI.Serve.Watch {
		go func() {
			if err := app.Watch(ctx); err != nil {
				logger.Error("Content watcher stopped", "error", err)
			}
		}()
	}
	return app.Start(ctx)
}

func runBuild(ctx context.Context, logger *slog.Logger) error {
	app, err := inkwell.New(CLI.Config, inkwell.WithLogger(logger))
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.Export(ctx, CLI.Build.Out)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d pages and %d images to %s in %s\n",
		report.Pages, report.Images, CLI.Build.Out, report.Duration.Round(time.Millisecond))
	return nil
}
