// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Oracle    OracleConfig    `yaml:"oracle" mapstructure:"oracle"`
	Gemini    GeminiConfig    `yaml:"gemini" mapstructure:"gemini"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Notion    NotionConfig    `yaml:"notion" mapstructure:"notion"`
	Audit     AuditConfig     `yaml:"audit" mapstructure:"audit"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// OracleConfig selects and tunes the evaluation backend.
type OracleConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	RetryAttempts int    `yaml:"retry_attempts" mapstructure:"retry_attempts"`
}

// GeminiConfig holds generative-language API settings.
type GeminiConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	FlashModel string `yaml:"flash_model" mapstructure:"flash_model"`
	ProModel   string `yaml:"pro_model" mapstructure:"pro_model"`
	TTSModel   string `yaml:"tts_model" mapstructure:"tts_model"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	HaikuModel  string `yaml:"haiku_model" mapstructure:"haiku_model"`
	SonnetModel string `yaml:"sonnet_model" mapstructure:"sonnet_model"`
	OpusModel   string `yaml:"opus_model" mapstructure:"opus_model"`
}

// NotionConfig holds Notion API credentials and the scorecard database IDs.
type NotionConfig struct {
	Token       string `yaml:"token" mapstructure:"token"`
	CriteriaDB  string `yaml:"criteria_db" mapstructure:"criteria_db"`
	ZeroTolerDB string `yaml:"zero_tolerance_db" mapstructure:"zero_tolerance_db"`
}

// AuditConfig tunes evaluation request building.
type AuditConfig struct {
	MaxTranscriptChars int    `yaml:"max_transcript_chars" mapstructure:"max_transcript_chars"`
	Operation          string `yaml:"operation" mapstructure:"operation"`
	MonitorName        string `yaml:"monitor_name" mapstructure:"monitor_name"`
}

// BatchConfig configures concurrent batch evaluation.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ServerConfig configures the read-only stats API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("QUALITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "quality.db")
	v.SetDefault("oracle.provider", "gemini")
	v.SetDefault("oracle.retry_attempts", 0)
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.flash_model", "gemini-3-flash-preview")
	v.SetDefault("gemini.pro_model", "gemini-3-pro-preview")
	v.SetDefault("gemini.tts_model", "gemini-2.5-flash-preview-tts")
	v.SetDefault("anthropic.haiku_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.sonnet_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.opus_model", "claude-opus-4-6")
	v.SetDefault("audit.max_transcript_chars", 48000)
	v.SetDefault("audit.operation", "Jammin QA")
	v.SetDefault("batch.max_concurrent", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
