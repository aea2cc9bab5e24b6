package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pricelens/backend/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	SerpAPI     SerpAPIConfig
	HuggingFace HuggingFaceConfig
	Auth        AuthConfig
	Session     SessionConfig
	RateLimit   RateLimitConfig
	Retailers   []domain.Retailer `mapstructure:"retailers"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SerpAPIConfig holds search provider configuration
type SerpAPIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// HuggingFaceConfig holds the optional LLM query-normalization configuration
type HuggingFaceConfig struct {
	Token   string        `mapstructure:"token"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AuthConfig holds the static login credentials
type AuthConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// SessionConfig holds session store configuration
type SessionConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookie_name"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
	Burst int `mapstructure:"burst"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricelens/")

	// Environment variable settings
	v.SetEnvPrefix("PRICELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if len(config.Retailers) == 0 {
		config.Retailers = DefaultRetailers()
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DefaultRetailers returns the stock retailer list, in comparison-table order
func DefaultRetailers() []domain.Retailer {
	return []domain.Retailer{
		{Domain: "amazon.com"},
		{Domain: "walmart.com"},
		{Domain: "ebay.com"},
	}
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// SerpAPI defaults
	v.SetDefault("serpapi.api_key", "")
	v.SetDefault("serpapi.base_url", "https://serpapi.com")
	v.SetDefault("serpapi.timeout", "30s")

	// Hugging Face defaults
	v.SetDefault("huggingface.token", "")
	v.SetDefault("huggingface.base_url", "https://api-inference.huggingface.co")
	v.SetDefault("huggingface.model", "HuggingFaceH4/zephyr-7b-beta")
	v.SetDefault("huggingface.timeout", "30s")

	// Auth has no usable defaults; keys registered so env vars are visible
	v.SetDefault("auth.username", "")
	v.SetDefault("auth.password", "")

	// Session defaults
	v.SetDefault("session.ttl", "1h")
	v.SetDefault("session.cookie_name", "pricelens_session")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.burst", 20)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.SerpAPI.APIKey == "" {
		return fmt.Errorf("SerpAPI key is required (set PRICELENS_SERPAPI_API_KEY)")
	}

	if config.Auth.Username == "" || config.Auth.Password == "" {
		return fmt.Errorf("login credentials are required (set PRICELENS_AUTH_USERNAME and PRICELENS_AUTH_PASSWORD)")
	}

	for i, r := range config.Retailers {
		if r.Domain == "" {
			return fmt.Errorf("retailer %d has an empty domain", i)
		}
	}

	return nil
}
