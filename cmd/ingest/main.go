package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kgaurav/dataingest/internal/config"
	"github.com/kgaurav/dataingest/internal/fetch"
	"github.com/kgaurav/dataingest/internal/pipeline"
	"github.com/kgaurav/dataingest/internal/storage"
	"github.com/kgaurav/dataingest/pkg/logger"
)

// Process exit statuses.
const (
	exitSuccess      = 0
	exitGeneric      = 1
	exitDependency   = 2
	exitInternal     = 3
	exitInvalidArg   = 4
	exitBucketCreate = 5
)

func main() {
	app := &cli.App{
		Name:      "ingest",
		Usage:     "download a spreadsheet, convert one worksheet to JSON and upload it to object storage",
		ArgsUsage: "<bucket> <url> <sheet>",
		Description: "Example:\n" +
			"   ingest my-bucket 'https://www.iso20022.org/sites/default/files/ISO10383_MIC/ISO10383_MIC.xls' 'MICs List by CC'",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (trace, debug, info, warn, error)",
				EnvVars: []string{"APP_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Usage:   "Directory for the transient download and JSON artifacts",
				EnvVars: []string{"APP_OUTPUT_DIR"},
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		cli.HandleExitCoder(err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitGeneric)
	}
}

func run(c *cli.Context) error {
	cfg := config.Load()

	level := cfg.App.LogLevel
	if c.IsSet("log-level") {
		level = c.String("log-level")
	}
	logger.SetLevel(level)
	log := logger.WithRunID()

	if c.NArg() != 3 {
		cli.ShowAppHelp(c)
		return cli.Exit("invalid arguments: expected <bucket> <url> <sheet>", exitInvalidArg)
	}

	req, err := pipeline.NewRequest(c.Args().Get(0), c.Args().Get(1), c.Args().Get(2))
	if err != nil {
		cli.ShowAppHelp(c)
		return cli.Exit(err.Error(), exitInvalidArg)
	}
	log.Info().
		Str("bucket", req.Bucket).
		Str("url", req.SourceURL).
		Str("sheet", req.SheetName).
		Msg("starting ingestion")

	outputDir := cfg.App.OutputDir
	if c.IsSet("output-dir") {
		outputDir = c.String("output-dir")
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return cli.Exit(fmt.Sprintf("failed to create output dir %s: %v", outputDir, err), exitGeneric)
		}
	}

	store, err := storage.NewMinioClient(storage.MinioConfig{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Region:    cfg.Storage.Region,
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("object storage unavailable: %v", err), exitDependency)
	}

	fetcher := fetch.NewHTTPFetcher(time.Duration(cfg.App.HTTPTimeoutSeconds) * time.Second)

	p, err := pipeline.New(fetcher, store, pipeline.Options{
		OutputDir:  outputDir,
		OutputBase: cfg.App.OutputBase,
		KeyPrefix:  cfg.Storage.KeyPrefix,
	}, log)
	if err != nil {
		return cli.Exit(fmt.Sprintf("pipeline setup failed: %v", err), exitInternal)
	}

	if err := p.Run(c.Context, req); err != nil {
		log.Error().Err(err).Stringer("kind", pipeline.KindOf(err)).Msg("ingestion failed")
		return cli.Exit(err.Error(), exitCode(err))
	}

	log.Info().Msg("ingestion completed successfully")
	return nil
}

func exitCode(err error) int {
	switch pipeline.KindOf(err) {
	case pipeline.KindInvalidArgument:
		return exitInvalidArg
	case pipeline.KindContainerCreate:
		return exitBucketCreate
	default:
		return exitGeneric
	}
}
