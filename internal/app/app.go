package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/vectorsync/internal/config"
	"github.com/markdave123-py/vectorsync/internal/core"
	db "github.com/markdave123-py/vectorsync/internal/core/database"
	"github.com/markdave123-py/vectorsync/internal/core/documents"
	"github.com/markdave123-py/vectorsync/internal/core/ingestion_engine"
	"github.com/markdave123-py/vectorsync/internal/core/llm"
	"github.com/markdave123-py/vectorsync/internal/core/localstore"
	objectclient "github.com/markdave123-py/vectorsync/internal/core/object-client"
	"github.com/markdave123-py/vectorsync/internal/services"
)

type App struct {
	Ingest *services.IngestService
	Server *Server

	closers []io.Closer
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	a := &App{}

	store, err := a.newStore(appCtx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	slog.Info("vector store ready", "backend", cfg.VectorStore)

	embedder, err := a.newEmbedder(appCtx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("couldn't initialize the embedder, %w", err)
	}
	slog.Info("embedder ready", "provider", cfg.EmbedProvider, "model", cfg.EmbedModel)

	source, err := NewSource(appCtx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	ingCfg := &ingestion_engine.IngestConfig{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		BatchSize:    cfg.BatchSize,
		EmbedDim:     cfg.EmbedDim,
		Strategy:     cfg.ChunkStrategy,
	}
	chunker, err := ingestion_engine.NewChunker(ingCfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	pipeline, err := ingestion_engine.NewPipeline(chunker, embedder, store, ingCfg, slog.Default())
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Ingest = services.NewIngestService(source, pipeline, store)
	a.Server = NewServer(cfg, a.Ingest)
	return a, nil
}

func (a *App) newStore(ctx context.Context, cfg *config.Config) (core.VectorStore, error) {
	switch cfg.VectorStore {
	case config.StoreBadger:
		s, err := localstore.Open(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		return s, nil
	default:
		c, err := db.NewDatabaseClient(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, c)
		return c, nil
	}
}

func (a *App) newEmbedder(ctx context.Context, cfg *config.Config) (core.EmbeddingProvider, error) {
	switch cfg.EmbedProvider {
	case config.EmbedOpenAI:
		return llm.NewOpenAIEmbedder(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.EmbedModel, cfg.BatchSize)
	default:
		e, err := llm.NewGeminiEmbedder(ctx, cfg.AIAPIKey, cfg.EmbedModel)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, e)
		return e, nil
	}
}

// NewSource builds the configured document source with a docconv extractor.
func NewSource(ctx context.Context, cfg *config.Config) (core.DocumentSource, error) {
	useReadability := false
	ex := ingestion_engine.NewDocconvExtractor(useReadability)

	if cfg.DocumentSource == config.SourceS3 {
		objClient, err := objectclient.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return documents.NewObjectSource(objClient, cfg.BucketName, cfg.S3Prefix, ex), nil
	}
	return documents.NewDirectorySource(cfg.DocumentsDir, ex), nil
}

// Run serves HTTP until ctx is cancelled, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(a.Server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return a.Server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
}
