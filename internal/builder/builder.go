package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/driftlab/research-router/internal/api"
	documentapi "github.com/driftlab/research-router/internal/api/document"
	queryapi "github.com/driftlab/research-router/internal/api/query"
	"github.com/driftlab/research-router/internal/chunker"
	"github.com/driftlab/research-router/internal/config"
	"github.com/driftlab/research-router/internal/extractor"
	"github.com/driftlab/research-router/internal/integration/arxiv"
	"github.com/driftlab/research-router/internal/integration/embedding"
	"github.com/driftlab/research-router/internal/integration/llm"
	"github.com/driftlab/research-router/internal/integration/websearch"
	"github.com/driftlab/research-router/internal/pkg/logger"
	"github.com/driftlab/research-router/internal/pkg/validator"
	"github.com/driftlab/research-router/internal/router"
	"github.com/driftlab/research-router/internal/store"
	memorystore "github.com/driftlab/research-router/internal/store/memory"
	postgresstore "github.com/driftlab/research-router/internal/store/postgres"
	"github.com/driftlab/research-router/internal/synthesizer"
	"github.com/driftlab/research-router/internal/telegram"
	"github.com/driftlab/research-router/internal/tracing"
	documentuc "github.com/driftlab/research-router/internal/usecase/document"
	queryuc "github.com/driftlab/research-router/internal/usecase/query"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// core bundles the wired usecases shared by the HTTP server and the bot.
type core struct {
	documentUC *documentuc.DocumentUsecase
	queryUC    *queryuc.QueryUsecase
	db         *pgxpool.Pool
}

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	c, err := buildCore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	// Setup API handlers
	documentHandler := documentapi.NewHandler(c.documentUC, cfg.UploadCfg)
	queryHandler := queryapi.NewHandler(c.queryUC)
	log.Info("API handlers initialized")

	// Setup router
	httpRouter := api.SetupRouter(documentHandler, queryHandler, cfg.AllowedOrigins, log)
	log.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      httpRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     c.db,
		logger: log,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (*telegram.Bot, *zap.Logger, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	c, err := buildCore(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, c.queryUC, log)
	if err != nil {
		if c.db != nil {
			c.db.Close()
		}
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	log.Info("Telegram bot built successfully")

	return bot, log, nil
}

func buildCore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*core, error) {
	// Chunking parameters are validated again here so misconfiguration fails
	// at startup, not on the first upload
	chk, err := chunker.New(cfg.RetrievalCfg.ChunkSize, cfg.RetrievalCfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("setup chunker: %w", err)
	}

	// Initialize external service connectors (with mock support)
	var embedder store.Embedder
	var llmConnector synthesizer.LLMConnector
	var webConnector queryuc.WebSearchConnector
	var arxivConnector queryuc.ArxivConnector

	if cfg.EnableMocks {
		log.Info("Using mock connectors for external services")
		embedder = embedding.NewMockConnector(cfg.EmbeddingCfg.Dimension, log)
		llmConnector = llm.NewMockConnector(log)
		webConnector = websearch.NewMockConnector(log)
		arxivConnector = arxiv.NewMockConnector(log)
	} else {
		log.Info("Using real connectors for external services")
		embedder = embedding.NewConnector(cfg.EmbeddingCfg, log)
		llmConnector = llm.NewConnector(cfg.LLMCfg, log)
		webConnector = websearch.NewConnector(cfg.WebSearchCfg, log)
		arxivConnector = arxiv.NewConnector(cfg.ArxivCfg, log)
	}

	// Initialize the retrieval store
	var docStore store.Store
	var db *pgxpool.Pool
	switch cfg.StoreCfg.Backend {
	case config.StoreBackendPostgres:
		pool, err := setupDatabase(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}

		log.Info("Running database migrations")
		if err := postgresstore.RunMigrations(cfg.StoreCfg.DatabaseURL); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}

		db = pool
		docStore = postgresstore.NewStore(pool, chk, embedder, log)
	default:
		docStore = memorystore.NewStore(chk, embedder, log)
	}
	log.Info("Retrieval store initialized", zap.String("backend", cfg.StoreCfg.Backend))

	// Initialize the trace recorder
	var recorder tracing.Recorder
	switch cfg.TraceCfg.Backend {
	case config.TraceBackendFile:
		fileRecorder, err := tracing.NewFileRecorder(cfg.TraceCfg.FilePath, log)
		if err != nil {
			if db != nil {
				db.Close()
			}
			return nil, fmt.Errorf("setup trace recorder: %w", err)
		}
		recorder = fileRecorder
	default:
		recorder = tracing.NewMemoryRecorder()
	}
	log.Info("Trace recorder initialized", zap.String("backend", cfg.TraceCfg.Backend))

	// Initialize use cases
	uploadValidator := validator.NewUploadValidator(cfg.UploadCfg)
	synth := synthesizer.New(llmConnector, cfg.RetrievalCfg.TopK, log)
	queryRouter := router.New(router.FallbackPolicy(cfg.RouterCfg.FallbackPolicy))

	documentUC := documentuc.NewUsecase(
		docStore,
		extractor.New(),
		uploadValidator,
		recorder,
		log,
	)

	queryUC := queryuc.NewUsecase(
		docStore,
		queryRouter,
		synth,
		webConnector,
		arxivConnector,
		recorder,
		cfg.RetrievalCfg.TopK,
		log,
	)
	log.Info("Use cases initialized",
		zap.String("fallback_policy", cfg.RouterCfg.FallbackPolicy),
	)

	return &core{
		documentUC: documentUC,
		queryUC:    queryUC,
		db:         db,
	}, nil
}
