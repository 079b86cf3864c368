// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	extract "github.com/hashicorp/go-sah-extract"
	"github.com/hashicorp/go-sah-extract/archive"
	"github.com/hashicorp/go-sah-extract/telemetry"
)

// CLI are the cli parameters for the sahextract binary
type CLI struct {
	Header            string           `short:"h" default:"data.sah" help:"Path to the archive header file."`
	Data              string           `short:"d" default:"data.saf" help:"Path to the archive data file."`
	Output            string           `short:"o" default:"extracted" help:"Output directory. The archive's root folder is created below it."`
	Help              bool             `help:"Show usage."`
	CheckFreeSpace    bool             `optional:"" help:"Check free space of the output filesystem before extraction."`
	Concurrency       int              `short:"c" default:"1" help:"Number of workers extracting sibling folders."`
	DryRun            bool             `optional:"" help:"Extract into memory and report what would be written."`
	EventBus          string           `optional:"" help:"Publish telemetry to this Amazon EventBridge bus."`
	MaxExtractionSize int64            `optional:"" default:"-1" help:"Maximum extraction size that allowed is (in bytes). (disable check: -1)"`
	MaxExtractionTime int64            `optional:"" default:"-1" help:"Maximum time that an extraction should take (in seconds). (disable check: -1)"`
	MaxFiles          int64            `optional:"" default:"-1" help:"Maximum files and folders that are extracted before stop. (disable check: -1)"`
	MaxInputSize      int64            `optional:"" default:"-1" help:"Maximum header size that allowed is (in bytes). (disable check: -1)"`
	Metrics           bool             `short:"M" optional:"" default:"false" help:"Print metrics to log after extraction."`
	NameEncoding      string           `optional:"" default:"raw" help:"Character encoding of names in the header, e.g. euc-kr, windows-1252. (keep bytes unchanged: raw)"`
	NoOverwrite       bool             `optional:"" help:"Fail if a file already exists in the output."`
	Verbose           bool             `short:"v" optional:"" help:"Verbose logging."`
	Version           kong.VersionFlag `short:"V" optional:"" help:"Print release version information."`
}

// newEventClient creates the client for --event-bus
var newEventClient = func(ctx context.Context) (telemetry.EventPutter, error) {
	return telemetry.NewEventBridgeClient(ctx)
}

// newParser creates the kong parser for cli. The default help flag is
// disabled, -h selects the header file.
func newParser(cli *CLI, version string) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name(filepath.Base(os.Args[0])),
		kong.Description("Extracts a sah/saf archive pair into a directory"),
		kong.NoDefaultHelp(),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
	)
}

// Run the entrypoint into go-sah-extract as a cli tool
func Run(version, commit, date string) {
	var cli CLI
	parser, err := newParser(&cli, fmt.Sprintf("%s (%s), commit %s, built at %s", filepath.Base(os.Args[0]), version, commit, date))
	if err != nil {
		log.Fatalln(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if cli.Help {
		_ = kctx.PrintUsage(false)
		os.Exit(0)
	}

	// Check for verbose output
	logLevel := slog.LevelInfo
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}

	// setup logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if err := cli.run(context.Background(), logger); err != nil {
		log.Println(fmt.Errorf("error during extraction: %w", err))
		os.Exit(-1)
	}
}

// run extracts the archive selected by c
func (c *CLI) run(ctx context.Context, logger *slog.Logger) error {
	var hooks []extract.TelemetryHook

	// keep the result for the dry run report
	var result *extract.TelemetryData
	hooks = append(hooks, func(ctx context.Context, td *extract.TelemetryData) {
		result = td
	})

	// setup metrics hook
	if c.Metrics {
		hooks = append(hooks, func(ctx context.Context, td *extract.TelemetryData) {
			logger.Info("extraction finished", "metrics", td)
		})
	}

	// setup event bridge hook
	if len(c.EventBus) > 0 {
		client, err := newEventClient(ctx)
		if err != nil {
			return err
		}
		hooks = append(hooks, telemetry.NewEventBridgeHook(client, c.EventBus, telemetry.DefaultSource, logger))
	}

	enc, err := archive.LookupEncoding(c.NameEncoding)
	if err != nil {
		return err
	}

	// process cli params
	cfg := extract.NewConfig(
		extract.WithCheckFreeSpace(c.CheckFreeSpace),
		extract.WithConcurrency(c.Concurrency),
		extract.WithLogger(logger),
		extract.WithMaxExtractionSize(c.MaxExtractionSize),
		extract.WithMaxFiles(c.MaxFiles),
		extract.WithMaxInputSize(c.MaxInputSize),
		extract.WithNameEncoding(enc),
		extract.WithOverwrite(!c.NoOverwrite),
		extract.WithTelemetryHook(chainHooks(hooks)),
	)

	if c.MaxExtractionTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second*time.Duration(c.MaxExtractionTime))
		defer cancel()
	}

	// dry run keeps everything in memory
	var t extract.Target = extract.NewTargetDisk()
	output := c.Output
	if c.DryRun {
		t = extract.NewTargetMemory()
		if output, err = memoryOutput(output); err != nil {
			return err
		}
	}

	if err := extract.Unpack(ctx, c.Header, c.Data, output, t, cfg); err != nil {
		return err
	}

	if c.DryRun {
		logger.Info("dry run finished",
			"directories", result.ExtractedDirs,
			"files", result.ExtractedFiles,
			"size", result.ExtractionSize,
		)
	}
	return nil
}

// memoryOutput converts output into a path relative to the filesystem root,
// which is accepted by [extract.TargetMemory].
func memoryOutput(output string) (string, error) {
	abs, err := filepath.Abs(output)
	if err != nil {
		return "", err
	}
	return filepath.Rel(filepath.VolumeName(abs)+string(filepath.Separator), abs)
}

// chainHooks calls all hooks in order
func chainHooks(hooks []extract.TelemetryHook) extract.TelemetryHook {
	return func(ctx context.Context, td *extract.TelemetryData) {
		for _, hook := range hooks {
			hook(ctx, td)
		}
	}
}
