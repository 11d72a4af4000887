package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	apperrors "pung-bot/backend/pkg/errors"
)

// DefaultModeratorRoleID is the community role allowed to run moderation commands
const DefaultModeratorRoleID = "917191156528451605"

// Completion backends
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

// Store backends
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreNeo4j  = "neo4j"
)

// Config holds all application configuration
type Config struct {
	// App
	Env       string
	AdminAddr string // Admin API listen address, empty disables it

	// Discord
	DiscordToken    string
	OwnerID         string // Always allowed to moderate
	ModeratorRoleID string
	BotPrefix       string

	// Completion backend
	CompletionBackend string
	GeminiAPIKey      string
	GeminiModel       string
	LiteLLMURL        string
	ModelID           string
	OpenRouterAPIKey  string
	CompletionRPS     float64 // 0 means unlimited

	// Persistence
	StoreBackend  string
	DataDir       string
	SQLitePath    string
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := FromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// FromEnv reads configuration without validating it. The offline tooling uses it
// because it never talks to Discord or the completion backend.
func FromEnv() *Config {
	// .env and config.env are both optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load("config.env")

	dataDir := getEnv("DATA_DIR", "data")

	return &Config{
		Env:               getEnv("ENV", "development"),
		AdminAddr:         getEnv("ADMIN_ADDR", ""),
		DiscordToken:      getEnv("DISCORD_TOKEN", ""),
		OwnerID:           getEnv("OWNER_ID", ""),
		ModeratorRoleID:   getEnv("MODERATOR_ROLE_ID", DefaultModeratorRoleID),
		BotPrefix:         getEnv("BOT_PREFIX", "/"),
		CompletionBackend: strings.ToLower(getEnv("COMPLETION_BACKEND", BackendGemini)),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		LiteLLMURL:        getEnv("LITELLM_URL", "http://localhost:4000"),
		ModelID:           getEnv("MODEL_ID", "openrouter/google/gemini-2.5-flash"),
		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		CompletionRPS:     getEnvFloat("COMPLETION_RPS", 0),
		StoreBackend:      strings.ToLower(getEnv("STORE_BACKEND", StoreFile)),
		DataDir:           dataDir,
		SQLitePath:        getEnv("SQLITE_PATH", dataDir+"/pung.db"),
		Neo4jURI:          getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:         getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:     getEnv("NEO4J_PASSWORD", ""),
	}
}

// Validate checks that the credentials needed to run the bot are present
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return apperrors.NewConfigMissingRequired("DISCORD_TOKEN")
	}

	switch c.CompletionBackend {
	case BackendGemini:
		if c.GeminiAPIKey == "" {
			return apperrors.NewConfigMissingRequired("GEMINI_API_KEY")
		}
	case BackendOpenAI:
		if c.LiteLLMURL == "" {
			return apperrors.NewConfigMissingRequired("LITELLM_URL")
		}
		if c.ModelID == "" {
			return apperrors.NewConfigMissingRequired("MODEL_ID")
		}
	default:
		return apperrors.NewConfigValidationFailed("COMPLETION_BACKEND", "must be gemini or openai")
	}

	return c.ValidateStore()
}

// ValidateStore checks only the persistence settings
func (c *Config) ValidateStore() error {
	switch c.StoreBackend {
	case StoreFile:
		if c.DataDir == "" {
			return apperrors.NewConfigMissingRequired("DATA_DIR")
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return apperrors.NewConfigMissingRequired("SQLITE_PATH")
		}
	case StoreNeo4j:
		if c.Neo4jURI == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_URI")
		}
	default:
		return apperrors.NewConfigValidationFailed("STORE_BACKEND", "must be file, sqlite or neo4j")
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var result float64
		if _, err := fmt.Sscanf(value, "%f", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
