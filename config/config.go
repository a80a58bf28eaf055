package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	Environment EnvironmentConfig
	HTTPServer  HTTPServerConfig
	Logger      LoggerConfig
	Database    DatabaseConfig
	LLM         LLMConfig
	Webhook     WebhookConfig
	Processor   ProcessorConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level    string
	Mode     string
	Encoding string
}

type DatabaseConfig struct {
	Path string
}

// LLMConfig configures the completion service: an ordered primary/fallback
// provider pair.
type LLMConfig struct {
	Primary  ProviderConfig
	Fallback ProviderConfig // Name empty → no fallback configured
	Timeout  time.Duration
}

// ProviderConfig holds configuration for a single LLM provider.
type ProviderConfig struct {
	Name    string // "openai" | "anthropic"
	APIKey  string
	BaseURL string
	Model   string
}

type WebhookConfig struct {
	RateLimitPerMin int
}

type ProcessorConfig struct {
	BatchSize int
	Workers   int
	ClaimTTL  time.Duration
	Interval  time.Duration
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/taskweave/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/taskweave/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")

	cfg.Database.Path = viper.GetString("database.path")

	cfg.LLM.Primary = ProviderConfig{
		Name:    viper.GetString("llm.primary.name"),
		APIKey:  expandEnvVar(viper.GetString("llm.primary.api_key")),
		BaseURL: viper.GetString("llm.primary.base_url"),
		Model:   viper.GetString("llm.primary.model"),
	}
	cfg.LLM.Fallback = ProviderConfig{
		Name:    viper.GetString("llm.fallback.name"),
		APIKey:  expandEnvVar(viper.GetString("llm.fallback.api_key")),
		BaseURL: viper.GetString("llm.fallback.base_url"),
		Model:   viper.GetString("llm.fallback.model"),
	}
	cfg.LLM.Timeout = viper.GetDuration("llm.timeout")

	if cfg.LLM.Primary.Name == "" {
		return nil, fmt.Errorf("llm.primary must be configured")
	}

	cfg.Webhook.RateLimitPerMin = viper.GetInt("webhook.rate_limit_per_min")

	cfg.Processor.BatchSize = viper.GetInt("processor.batch_size")
	cfg.Processor.Workers = viper.GetInt("processor.workers")
	cfg.Processor.ClaimTTL = viper.GetDuration("processor.claim_ttl")
	cfg.Processor.Interval = viper.GetDuration("processor.interval")

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "development")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("database.path", "taskweave.db")
	viper.SetDefault("llm.timeout", "30s")
	viper.SetDefault("webhook.rate_limit_per_min", 60)
	viper.SetDefault("processor.batch_size", 100)
	viper.SetDefault("processor.workers", 8)
	viper.SetDefault("processor.claim_ttl", "5m")
	viper.SetDefault("processor.interval", "5m")
}

// expandEnvVar expands values in the format ${VAR_NAME}.
func expandEnvVar(value string) string {
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}
	return value
}
