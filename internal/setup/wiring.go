package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/povarna/generative-ai-agents/clinical-validator/internal/config"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/executor"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/llm"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/llm/huggingface"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/validator"
	"github.com/rs/zerolog"
)

var ErrUnsupportedProvider = errors.New("unsupported LLM provider")

// Config is the process-level configuration read from the environment.
// Values set here override the YAML file.
type Config struct {
	ConfigPath     string
	Provider       string
	ModelID        string
	HFBaseURL      string
	EnvFile        string
	AWSRegion      string
	LogLevel       string
	RedisAddr      string
	RedisPassword  string
	DatabaseURL    string
	RequestTimeout time.Duration
}

type Dependencies struct {
	Validator *validator.Validator
	Executor  *executor.Executor
	Catalog   *config.Catalog
	Settings  *config.Config
	Logger    *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		ConfigPath:     getEnv("VALIDATOR_CONFIG_PATH", config.DefaultConfigPath),
		Provider:       getEnv("LLM_PROVIDER", ""),
		ModelID:        getEnv("LLM_MODEL_ID", ""),
		HFBaseURL:      getEnv("HUGGINGFACE_BASE_URL", huggingface.DefaultBaseURL),
		EnvFile:        getEnv("ENV_FILE", ".env"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RequestTimeout: getEnvDuration("VALIDATION_TIMEOUT", 60*time.Second),
	}
}

// Wire loads the validator settings, resolves the credential and builds the
// LLM client. A missing credential fails here, before any request is served.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	settings, err := config.LoadConfig(cfg.ConfigPath)
	if errors.Is(err, config.ErrConfigNotFound) {
		logger.Warn().Str("path", cfg.ConfigPath).Msg("validator config not found, using defaults")
		settings = config.Default()
	} else if err != nil {
		return nil, fmt.Errorf("failed to load validator config: %w", err)
	}

	applyOverrides(settings, cfg)

	llmClient, err := createLLMClient(ctx, settings.Validator, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return NewDependencies(settings, llmClient, logger)
}

// NewDependencies builds the components on top of an existing LLM client.
func NewDependencies(settings *config.Config, llmClient llm.LLMClient, logger *zerolog.Logger) (*Dependencies, error) {
	v, err := validator.NewValidator(llmClient, ValidatorConfig(settings.Validator), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}

	catalog := config.NewCatalog(settings.Cases)

	logger.Info().
		Str("provider", settings.Validator.Provider).
		Str("model", settings.Validator.ModelID).
		Int("max_attempts", settings.Validator.MaxAttempts).
		Int("cases", catalog.Len()).
		Msg("validator wired")

	return &Dependencies{
		Validator: v,
		Executor:  executor.NewExecutor(v, catalog, logger),
		Catalog:   catalog,
		Settings:  settings,
		Logger:    logger,
	}, nil
}

func ValidatorConfig(v config.ValidatorConfig) validator.Config {
	cfg := validator.DefaultConfig()
	if v.MaxAttempts > 0 {
		cfg.MaxAttempts = v.MaxAttempts
	}
	if v.RetryDelay > 0 {
		cfg.RetryDelay = v.RetryDelay
	}
	cfg.PromptTemplate = v.PromptTemplate
	return cfg
}

func applyOverrides(settings *config.Config, cfg *Config) {
	if cfg.Provider != "" && cfg.Provider != settings.Validator.Provider {
		settings.Validator.Provider = cfg.Provider
		// The file's model id belongs to the file's provider.
		settings.Validator.ModelID = ""
	}
	if cfg.ModelID != "" {
		settings.Validator.ModelID = cfg.ModelID
	}
}

func createLLMClient(ctx context.Context, v config.ValidatorConfig, cfg *Config) (llm.LLMClient, error) {
	switch v.Provider {
	case "huggingface", "":
		apiKey, err := config.CredentialSource{
			Key:     config.APIKeyEnv,
			EnvFile: cfg.EnvFile,
			Lookup:  os.LookupEnv,
		}.APIKey()
		if err != nil {
			return nil, err
		}
		return huggingface.NewClient(apiKey, v.ModelID, huggingface.WithBaseURL(cfg.HFBaseURL))
	case "bedrock":
		return bedrock.NewClient(ctx, cfg.AWSRegion, v.ModelID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, v.Provider)
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	// Plain integers are seconds
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultValue
}
