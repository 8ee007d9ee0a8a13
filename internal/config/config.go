package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Retrieval store backends
const (
	StoreBackendMemory   = "memory"
	StoreBackendPostgres = "postgres"
)

// Trace recorder backends
const (
	TraceBackendMemory = "memory"
	TraceBackendFile   = "file"
)

// Router fallback policies
const (
	FallbackWebOnly   = "web-only"
	FallbackAllAgents = "all-agents"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr     string   `env:"SERVER_ADDR" envDefault:":8080"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// External service configurations
	EmbeddingCfg EmbeddingConnectorConfig `envPrefix:"EMBEDDING_"`
	LLMCfg       LLMConnectorConfig       `envPrefix:"LLM_"`
	WebSearchCfg WebSearchConnectorConfig `envPrefix:"WEBSEARCH_"`
	ArxivCfg     ArxivConnectorConfig     `envPrefix:"ARXIV_"`

	// Retrieval configuration
	StoreCfg     StoreConfig     `envPrefix:"STORE_"`
	RetrievalCfg RetrievalConfig `envPrefix:"RETRIEVAL_"`
	RouterCfg    RouterConfig    `envPrefix:"ROUTER_"`
	TraceCfg     TraceConfig     `envPrefix:"TRACE_"`
	UploadCfg    UploadConfig    `envPrefix:"UPLOAD_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"15s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

type EmbeddingConnectorConfig struct {
	HTTPClientConfig
	EmbeddingsEndpoint string        `env:"ENDPOINT" envDefault:"/embeddings"`
	Model              string        `env:"MODEL" envDefault:"all-minilm"`
	Dimension          int           `env:"DIMENSION" envDefault:"384"`
	CacheTTL           time.Duration `env:"CACHE_TTL" envDefault:"1h"`
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	CompletionsEndpoint string  `env:"COMPLETIONS_ENDPOINT" envDefault:"/openai/v1/chat/completions"`
	Model               string  `env:"MODEL" envDefault:"llama-3.3-70b-versatile"`
	MaxTokens           int     `env:"MAX_TOKENS" envDefault:"1024"`
	Temperature         float64 `env:"TEMPERATURE" envDefault:"0.7"`
}

type WebSearchConnectorConfig struct {
	HTTPClientConfig
	SearchEndpoint string `env:"SEARCH_ENDPOINT" envDefault:"/search"`
	Engine         string `env:"ENGINE" envDefault:"google"`
	MaxResults     int    `env:"MAX_RESULTS" envDefault:"3"`
}

type ArxivConnectorConfig struct {
	HTTPClientConfig
	QueryEndpoint string `env:"QUERY_ENDPOINT" envDefault:"/api/query"`
	MaxResults    int    `env:"MAX_RESULTS" envDefault:"2"`
}

// StoreConfig selects and configures the retrieval store backend
type StoreConfig struct {
	Backend             string        `env:"BACKEND" envDefault:"memory"`
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

// RetrievalConfig holds chunking and search parameters
type RetrievalConfig struct {
	ChunkSize    int `env:"CHUNK_SIZE" envDefault:"500"`
	ChunkOverlap int `env:"CHUNK_OVERLAP" envDefault:"50"`
	TopK         int `env:"TOP_K" envDefault:"3"`
}

type RouterConfig struct {
	FallbackPolicy string `env:"FALLBACK_POLICY" envDefault:"all-agents"`
}

type TraceConfig struct {
	Backend  string `env:"BACKEND" envDefault:"memory"`
	FilePath string `env:"FILE_PATH" envDefault:"logs/traces.log"`
}

// UploadConfig holds upload limits
type UploadConfig struct {
	MaxUploadSize int64 `env:"MAX_BYTES" envDefault:"15728640"` // 15 MiB
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken      string `env:"BOT_TOKEN"`
	UpdateTimeout int    `env:"UPDATE_TIMEOUT" envDefault:"30"`
	Debug         bool   `env:"DEBUG" envDefault:"false"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.RetrievalCfg.ChunkSize <= 0 {
		return fmt.Errorf("RETRIEVAL_CHUNK_SIZE must be positive, got %d", cfg.RetrievalCfg.ChunkSize)
	}
	if cfg.RetrievalCfg.ChunkOverlap < 0 || cfg.RetrievalCfg.ChunkOverlap >= cfg.RetrievalCfg.ChunkSize {
		return fmt.Errorf("RETRIEVAL_CHUNK_OVERLAP must be in [0, chunk size), got %d with chunk size %d",
			cfg.RetrievalCfg.ChunkOverlap, cfg.RetrievalCfg.ChunkSize)
	}
	if cfg.RetrievalCfg.TopK <= 0 {
		return fmt.Errorf("RETRIEVAL_TOP_K must be positive, got %d", cfg.RetrievalCfg.TopK)
	}
	if cfg.EmbeddingCfg.Dimension <= 0 {
		return fmt.Errorf("EMBEDDING_DIMENSION must be positive, got %d", cfg.EmbeddingCfg.Dimension)
	}

	switch cfg.RouterCfg.FallbackPolicy {
	case FallbackWebOnly, FallbackAllAgents:
	default:
		return fmt.Errorf("ROUTER_FALLBACK_POLICY must be %q or %q, got %q",
			FallbackWebOnly, FallbackAllAgents, cfg.RouterCfg.FallbackPolicy)
	}

	switch cfg.StoreCfg.Backend {
	case StoreBackendMemory:
	case StoreBackendPostgres:
		if cfg.StoreCfg.DatabaseURL == "" {
			return fmt.Errorf("STORE_DATABASE_URL is required for the postgres store backend")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q",
			StoreBackendMemory, StoreBackendPostgres, cfg.StoreCfg.Backend)
	}

	switch cfg.TraceCfg.Backend {
	case TraceBackendMemory:
	case TraceBackendFile:
		if cfg.TraceCfg.FilePath == "" {
			return fmt.Errorf("TRACE_FILE_PATH is required for the file trace backend")
		}
	default:
		return fmt.Errorf("TRACE_BACKEND must be %q or %q, got %q",
			TraceBackendMemory, TraceBackendFile, cfg.TraceCfg.Backend)
	}

	// An absent LLM credential is a structural failure: without it no request
	// can be synthesized, so refuse to start instead of failing per request.
	if !cfg.EnableMocks && cfg.LLMCfg.Token == "" {
		return fmt.Errorf("LLM_TOKEN is required when mocks are disabled")
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
