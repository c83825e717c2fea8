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
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Render    RenderConfig    `yaml:"render" mapstructure:"render"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Places    PlacesConfig    `yaml:"places" mapstructure:"places"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DiscoveryConfig configures the leadership discovery core.
type DiscoveryConfig struct {
	TimeoutSecs    int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxPages       int      `yaml:"max_pages" mapstructure:"max_pages"`
	MaxDepth       int      `yaml:"max_depth" mapstructure:"max_depth"`
	MinConfidence  float64  `yaml:"min_confidence" mapstructure:"min_confidence"`
	MaxLeaders     int      `yaml:"max_leaders" mapstructure:"max_leaders"`
	EnableDynamic  bool     `yaml:"enable_dynamic" mapstructure:"enable_dynamic"`
	EnableFallback bool     `yaml:"enable_fallback" mapstructure:"enable_fallback"`
	Blocklist      []string `yaml:"blocklist" mapstructure:"blocklist"`
}

// FetchConfig configures static HTTP fetching.
type FetchConfig struct {
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int    `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// RenderConfig configures headless-browser rendering.
type RenderConfig struct {
	Headless      bool `yaml:"headless" mapstructure:"headless"`
	NavTimeoutMs  int  `yaml:"nav_timeout_ms" mapstructure:"nav_timeout_ms"`
	MaxJSONHits   int  `yaml:"max_json_hits" mapstructure:"max_json_hits"`
	MaxJSONBytes  int  `yaml:"max_json_bytes" mapstructure:"max_json_bytes"`
	ScrollPassMs  int  `yaml:"scroll_pass_ms" mapstructure:"scroll_pass_ms"`
	SettleDelayMs int  `yaml:"settle_delay_ms" mapstructure:"settle_delay_ms"`
}

// AnthropicConfig holds Anthropic API settings for the LLM fallback.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// PlacesConfig holds business-listing search API settings.
type PlacesConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// CacheConfig configures the optional result cache.
type CacheConfig struct {
	Driver   string `yaml:"driver" mapstructure:"driver"`
	DSN      string `yaml:"dsn" mapstructure:"dsn"`
	TTLHours int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// BatchConfig configures multi-company processing.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ServerConfig configures the discovery HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// defaultBlocklist filters crawl links that never hold leadership or contact
// data. Glob path patterns, matched by crawl.PathMatcher.
var defaultBlocklist = []string{
	"/blog/*",
	"/news/*",
	"/press/*",
	"/events/*",
	"/careers/*",
	"/jobs/*",
	"/privacy*",
	"/terms*",
	"/cookie*",
	"/login*",
	"/signup*",
	"/register*",
	"/pricing*",
	"/docs/*",
	"/documentation/*",
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("discovery.timeout_secs", 25)
	v.SetDefault("discovery.max_pages", 8)
	v.SetDefault("discovery.max_depth", 2)
	v.SetDefault("discovery.min_confidence", 0.65)
	v.SetDefault("discovery.max_leaders", 5)
	v.SetDefault("discovery.enable_dynamic", true)
	v.SetDefault("discovery.enable_fallback", true)
	v.SetDefault("discovery.blocklist", defaultBlocklist)
	v.SetDefault("fetch.user_agent", defaultUserAgent)
	v.SetDefault("fetch.max_body_bytes", 900_000)
	v.SetDefault("render.headless", true)
	v.SetDefault("render.nav_timeout_ms", 16_000)
	v.SetDefault("render.max_json_hits", 10)
	v.SetDefault("render.max_json_bytes", 1_200_000)
	v.SetDefault("render.scroll_pass_ms", 700)
	v.SetDefault("render.settle_delay_ms", 900)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("places.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("cache.driver", "sqlite")
	v.SetDefault("cache.dsn", "leadscout.db")
	v.SetDefault("cache.ttl_hours", 72)
	v.SetDefault("batch.max_concurrent", 4)
	v.SetDefault("server.port", 8080)

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
