package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig(t *testing.T) {
	t.Run("defaults from config file", func(t *testing.T) {
		t.Setenv("OPENROUTER_API_KEY", "or-key")

		cfg, err := InitConfig()
		require.NoError(t, err)
		assert.Equal(t, ProviderOpenRouter, cfg.LLM.Provider)
		assert.Equal(t, "or-key", cfg.LLM.APIKey)
		assert.NotEmpty(t, cfg.LLM.PrimaryModel)
		assert.NotEmpty(t, cfg.LLM.FallbackModel)
		assert.Equal(t, 24*time.Hour, cfg.Suggestions.TTL)
		assert.Equal(t, 20, cfg.Suggestions.Capacity)
		assert.Equal(t, 720*time.Hour, cfg.Descriptions.TTL)
		assert.Equal(t, 25*time.Second, cfg.LLM.AttemptTimeout)
		assert.GreaterOrEqual(t, cfg.Server.Timeout, 3*cfg.LLM.AttemptTimeout)
		assert.False(t, cfg.Repositories.Postgres.Enabled)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("TRAVELIST_LLM_PROVIDER", "gemini")
		t.Setenv("TRAVELIST_LLM_PRIMARYMODEL", "gemini-2.5-flash")
		t.Setenv("GOOGLE_GEMINI_API_KEY", "g-key")

		cfg, err := InitConfig()
		require.NoError(t, err)
		assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
		assert.Equal(t, "gemini-2.5-flash", cfg.LLM.PrimaryModel)
		assert.Equal(t, "g-key", cfg.LLM.APIKey)
	})

	t.Run("mock provider", func(t *testing.T) {
		t.Setenv("TRAVELIST_LLM_PROVIDER", "mock")
		t.Setenv("OPENROUTER_API_KEY", "or-key")

		cfg, err := InitConfig()
		require.NoError(t, err)
		assert.Equal(t, ProviderMock, cfg.LLM.Provider)
		assert.Empty(t, cfg.LLM.APIKey)
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("TRAVELIST_LLM_PROVIDER", "carrier-pigeon")
		_, err := InitConfig()
		assert.ErrorContains(t, err, "unknown llm provider")
	})
}

func TestValidateDefaults(t *testing.T) {
	var c Config
	c.LLM = LLMConfig{Provider: ProviderOpenRouter, PrimaryModel: "a", FallbackModel: "b"}
	require.NoError(t, c.validate())
	assert.Equal(t, 20, c.Suggestions.Capacity)
	assert.Equal(t, 5, c.Suggestions.MaxSuggestions)
	assert.Equal(t, 30*24*time.Hour, c.Descriptions.TTL)
	assert.Equal(t, 25*time.Second, c.LLM.AttemptTimeout)
	assert.Equal(t, 80*time.Second, c.Server.Timeout)

	c.Server.Timeout = 10 * time.Second
	c.LLM.AttemptTimeout = 40 * time.Second
	require.NoError(t, c.validate())
	assert.Equal(t, 125*time.Second, c.Server.Timeout)

	c.LLM.FallbackModel = ""
	assert.Error(t, c.validate())
}

func TestAPIKeyEnv(t *testing.T) {
	assert.Equal(t, "OPENROUTER_API_KEY", LLMConfig{Provider: ProviderOpenRouter}.APIKeyEnv())
	assert.Equal(t, "GOOGLE_GEMINI_API_KEY", LLMConfig{Provider: ProviderGemini}.APIKeyEnv())
	assert.Empty(t, LLMConfig{Provider: ProviderMock}.APIKeyEnv())
}
