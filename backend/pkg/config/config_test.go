package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "pung-bot/backend/pkg/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "ADMIN_ADDR", "DISCORD_TOKEN", "OWNER_ID", "MODERATOR_ROLE_ID", "BOT_PREFIX",
		"COMPLETION_BACKEND", "GEMINI_API_KEY", "GEMINI_MODEL", "LITELLM_URL", "MODEL_ID",
		"OPENROUTER_API_KEY", "COMPLETION_RPS", "STORE_BACKEND", "DATA_DIR", "SQLITE_PATH",
		"NEO4J_URI", "NEO4J_USER", "NEO4J_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, DefaultModeratorRoleID, cfg.ModeratorRoleID)
	assert.Equal(t, "/", cfg.BotPrefix)
	assert.Equal(t, BackendGemini, cfg.CompletionBackend)
	assert.Equal(t, StoreFile, cfg.StoreBackend)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "data/pung.db", cfg.SQLitePath)
	assert.Zero(t, cfg.CompletionRPS)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("COMPLETION_BACKEND", "OpenAI")
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("DATA_DIR", "/var/pung")
	t.Setenv("COMPLETION_RPS", "2.5")

	cfg := FromEnv()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, BackendOpenAI, cfg.CompletionBackend)
	assert.Equal(t, StoreSQLite, cfg.StoreBackend)
	assert.Equal(t, "/var/pung/pung.db", cfg.SQLitePath)
	assert.Equal(t, 2.5, cfg.CompletionRPS)
}

func TestFromEnvBadFloatFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMPLETION_RPS", "fast")

	assert.Zero(t, FromEnv().CompletionRPS)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DiscordToken:      "token",
			CompletionBackend: BackendGemini,
			GeminiAPIKey:      "key",
			StoreBackend:      StoreFile,
			DataDir:           "data",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid gemini", mutate: func(c *Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.DiscordToken = "" }, wantErr: "DISCORD_TOKEN"},
		{name: "missing gemini key", mutate: func(c *Config) { c.GeminiAPIKey = "" }, wantErr: "GEMINI_API_KEY"},
		{
			name: "valid openai",
			mutate: func(c *Config) {
				c.CompletionBackend = BackendOpenAI
				c.LiteLLMURL = "http://localhost:4000"
				c.ModelID = "model"
			},
		},
		{
			name: "openai without model",
			mutate: func(c *Config) {
				c.CompletionBackend = BackendOpenAI
				c.LiteLLMURL = "http://localhost:4000"
			},
			wantErr: "MODEL_ID",
		},
		{name: "unknown backend", mutate: func(c *Config) { c.CompletionBackend = "claude" }, wantErr: "COMPLETION_BACKEND"},
		{name: "unknown store", mutate: func(c *Config) { c.StoreBackend = "redis" }, wantErr: "STORE_BACKEND"},
		{name: "sqlite without path", mutate: func(c *Config) { c.StoreBackend = StoreSQLite }, wantErr: "SQLITE_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConfig))
		})
	}
}

func TestLoadWrapsValidationError(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
	assert.Contains(t, err.Error(), "DISCORD_TOKEN")
}
