// Command ingest runs one ingestion of the configured document source and
// prints the progress stream to stdout, one JSON object per line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/markdave123-py/vectorsync/internal/app"
	"github.com/markdave123-py/vectorsync/internal/config"
	"github.com/markdave123-py/vectorsync/internal/core/ingestion_engine"
	"github.com/markdave123-py/vectorsync/internal/logger"
	"github.com/markdave123-py/vectorsync/internal/models"
)

func main() {
	cliApp := &cli.App{
		Name:  "ingest",
		Usage: "Chunk, embed and upsert documents into a vector index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Documents directory (overrides DOCUMENTS_DIR)",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Number of chunks to embed and upsert per batch (overrides BATCH_SIZE)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Ingest every document and stream progress",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "index",
						Aliases:  []string{"i"},
						Usage:    "Target index name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "namespace",
						Aliases:  []string{"n"},
						Usage:    "Target namespace",
						Required: true,
					},
				},
			},
			{
				Name:   "files",
				Usage:  "List the documents the next run would ingest",
				Action: filesCommand,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) *config.Config {
	cfg := config.LoadConfig()
	cfg.LogLevel = c.String("log-level")
	if dir := c.String("dir"); dir != "" {
		cfg.DocumentSource = config.SourceDir
		cfg.DocumentsDir = dir
	}
	if n := c.Int("batch-size"); n > 0 {
		cfg.BatchSize = n
	}
	logger.New(cfg.LogLevel, os.Stderr)
	return cfg
}

func runCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, loadConfig(c))
	if err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}
	defer application.Close()

	stream, err := application.Ingest.Start(ctx, models.Target{
		IndexName: c.String("index"),
		Namespace: c.String("namespace"),
	})
	if err != nil {
		return err
	}

	return printStream(os.Stdout, stream, stop)
}

// printStream writes every event as a JSON line; a write error cancels the run.
func printStream(w io.Writer, stream *ingestion_engine.ProgressStream, cancel context.CancelFunc) error {
	enc := json.NewEncoder(w)
	var writeErr error
	for ev := range stream.Events() {
		if writeErr != nil {
			continue
		}
		if writeErr = enc.Encode(ev); writeErr != nil {
			cancel()
		}
	}

	if err := stream.Err(); err != nil {
		if writeErr != nil {
			return fmt.Errorf("write progress: %w", writeErr)
		}
		return err
	}
	return nil
}

func filesCommand(c *cli.Context) error {
	source, err := app.NewSource(c.Context, loadConfig(c))
	if err != nil {
		return err
	}

	files, err := source.List(c.Context)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(c.App.Writer, f)
	}
	return nil
}
