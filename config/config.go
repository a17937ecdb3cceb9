package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	// ProviderMock serves canned answers and needs no key.
	ProviderMock = "mock"
)

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Enabled bool   `mapstructure:"enabled"`
			Port    string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Enabled           bool   `mapstructure:"enabled"`
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
		Redis struct {
			Enabled  bool   `mapstructure:"enabled"`
			Addr     string `mapstructure:"addr"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort       string        `mapstructure:"HTTPPort"`
		Timeout        time.Duration `mapstructure:"HTTPTimeout"`
		AllowedOrigins []string      `mapstructure:"allowedOrigins"`
	} `mapstructure:"server"`
	LLM         LLMConfig `mapstructure:"llm"`
	Suggestions struct {
		TTL            time.Duration `mapstructure:"ttl"`
		Capacity       int           `mapstructure:"capacity"`
		MaxSuggestions int           `mapstructure:"maxSuggestions"`
	} `mapstructure:"suggestions"`
	Descriptions struct {
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"descriptions"`
}

// LLMConfig selects the completion backend and the two model tiers.
type LLMConfig struct {
	Provider       string        `mapstructure:"provider"`
	APIKey         string        `mapstructure:"apiKey"`
	BaseURL        string        `mapstructure:"baseURL"`
	PrimaryModel   string        `mapstructure:"primaryModel"`
	FallbackModel  string        `mapstructure:"fallbackModel"`
	Referer        string        `mapstructure:"referer"`
	Title          string        `mapstructure:"title"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"`
	// AttemptTimeout bounds one model call; a request may make three.
	AttemptTimeout time.Duration `mapstructure:"attemptTimeout"`
}

// APIKeyEnv is the provider specific environment variable holding the key.
func (c LLMConfig) APIKeyEnv() string {
	switch c.Provider {
	case ProviderGemini:
		return "GOOGLE_GEMINI_API_KEY"
	case ProviderMock:
		return ""
	}
	return "OPENROUTER_API_KEY"
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/usr/local/bin")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix("TRAVELIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if env := config.LLM.APIKeyEnv(); config.LLM.APIKey == "" && env != "" {
		config.LLM.APIKey = os.Getenv(env)
	}
	if err = config.validate(); err != nil {
		return Config{}, err
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case ProviderOpenRouter, ProviderGemini, ProviderMock:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.PrimaryModel == "" || c.LLM.FallbackModel == "" {
		return fmt.Errorf("llm.primaryModel and llm.fallbackModel must be set")
	}
	if c.LLM.AttemptTimeout <= 0 {
		c.LLM.AttemptTimeout = 25 * time.Second
	}
	if budget := 3*c.LLM.AttemptTimeout + 5*time.Second; c.Server.Timeout < budget {
		c.Server.Timeout = budget
	}
	if c.Suggestions.Capacity <= 0 {
		c.Suggestions.Capacity = 20
	}
	if c.Suggestions.TTL <= 0 {
		c.Suggestions.TTL = 24 * time.Hour
	}
	if c.Suggestions.MaxSuggestions <= 0 {
		c.Suggestions.MaxSuggestions = 5
	}
	if c.Descriptions.TTL <= 0 {
		c.Descriptions.TTL = 30 * 24 * time.Hour
	}
	return nil
}
