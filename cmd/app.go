package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/uxmentor/uxmentor-be/config"
	"github.com/uxmentor/uxmentor-be/database"
	"github.com/uxmentor/uxmentor-be/service"
	"github.com/uxmentor/uxmentor-be/types"
)

// app bundles the wired-up services the subcommands run against.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     database.DocumentStore
	documents *service.DocumentService
	vector    *service.VectorService
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	store, err := database.NewDocumentStore(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}

	openaiConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.AIEndpoint != "" {
		openaiConfig.BaseURL = cfg.AIEndpoint
	}
	embeddingService := service.NewEmbeddingService(
		openai.NewClientWithConfig(openaiConfig),
		store,
		service.EmbeddingServiceConfig{
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			BatchSize:  cfg.Embedding.BatchSize,
			BatchDelay: time.Duration(cfg.Embedding.BatchDelay) * time.Millisecond,
			Logger:     logger,
		},
	)

	chunkService := service.NewChunkService(types.DocumentServiceConfig{
		MaxChunkSize: cfg.Chunking.MaxChunkSize,
		OverlapSize:  cfg.Chunking.OverlapSize,
	})
	documentService := service.NewDocumentService(
		store,
		service.NewExtractService(),
		chunkService,
		embeddingService,
		logger,
	)
	vectorService := service.NewVectorService(store, embeddingService, logger)

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		documents: documentService,
		vector:    vectorService,
	}, nil
}

func (a *app) newAIService() (service.AIService, error) {
	switch a.cfg.AIProvider {
	case "openai", "":
		return service.NewOpenAIService(a.cfg.AIEndpoint, a.cfg.OpenAIAPIKey, a.cfg.Model), nil
	case "gemini":
		keys := strings.Split(a.cfg.GeminiAPIKey, ",")
		return service.NewGeminiService(keys, a.cfg.Model)
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", a.cfg.AIProvider)
	}
}

func (a *app) close(ctx context.Context) {
	if err := a.store.Close(ctx); err != nil {
		a.logger.Error("failed to close store", "error", err)
	}
}
