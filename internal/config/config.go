package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Agent     AgentConfig     `mapstructure:"agent"`
	Intel     IntelConfig     `mapstructure:"intel"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	GRPCPort        int           `mapstructure:"grpc_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// AuthConfig holds API key authentication settings
type AuthConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// LLMConfig holds the language model backend settings
type LLMConfig struct {
	Provider     string        `mapstructure:"provider"` // claude, openai
	ClaudeAPIKey string        `mapstructure:"claude_api_key"`
	OpenAIAPIKey string        `mapstructure:"openai_api_key"`
	Model        string        `mapstructure:"model"`
	Temperature  float64       `mapstructure:"temperature"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// HasAPIKey reports whether a key is configured for the active provider
func (c LLMConfig) HasAPIKey() bool {
	switch c.Provider {
	case "claude":
		return c.ClaudeAPIKey != ""
	case "openai":
		return c.OpenAIAPIKey != ""
	}
	return false
}

// AgentConfig holds the engagement agent settings
type AgentConfig struct {
	IncludeReply bool `mapstructure:"include_reply"`
}

// IntelConfig holds intelligence aggregation settings
type IntelConfig struct {
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/honeytrap-lab")
	}

	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("HONEYTRAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("auth.api_key", "HONEYTRAP_AUTH_API_KEY")
	v.BindEnv("redis.enabled", "HONEYTRAP_REDIS_ENABLED")
	v.BindEnv("redis.host", "HONEYTRAP_REDIS_HOST")
	v.BindEnv("redis.port", "HONEYTRAP_REDIS_PORT")
	v.BindEnv("redis.password", "HONEYTRAP_REDIS_PASSWORD")
	v.BindEnv("database.enabled", "HONEYTRAP_DATABASE_ENABLED")
	v.BindEnv("database.host", "HONEYTRAP_DATABASE_HOST")
	v.BindEnv("database.port", "HONEYTRAP_DATABASE_PORT")
	v.BindEnv("database.user", "HONEYTRAP_DATABASE_USER")
	v.BindEnv("database.password", "HONEYTRAP_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "HONEYTRAP_DATABASE_DBNAME")
	v.BindEnv("database.sslmode", "HONEYTRAP_DATABASE_SSLMODE")
	v.BindEnv("llm.provider", "HONEYTRAP_LLM_PROVIDER")
	v.BindEnv("llm.claude_api_key", "HONEYTRAP_LLM_CLAUDE_API_KEY")
	v.BindEnv("llm.openai_api_key", "HONEYTRAP_LLM_OPENAI_API_KEY")
	v.BindEnv("llm.model", "HONEYTRAP_LLM_MODEL")
	v.BindEnv("agent.include_reply", "HONEYTRAP_AGENT_INCLUDE_REPLY")
	v.BindEnv("app.environment", "HONEYTRAP_APP_ENVIRONMENT")

	// Config file is optional, env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "honeytrap-lab")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.grpc_port", 9090)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.key_prefix", "honeytrap:")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Authorization", "Content-Type", "X-API-Key"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.requests_per_minute", 120)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 500)
	v.SetDefault("llm.timeout", 30*time.Second)

	v.SetDefault("agent.include_reply", true)

	v.SetDefault("intel.session_ttl", 24*time.Hour)
}

// Validate checks required settings
func (c *Config) Validate() error {
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range", c.Server.HTTPPort)
	}
	switch c.LLM.Provider {
	case "claude", "openai":
	default:
		return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}
	return nil
}
