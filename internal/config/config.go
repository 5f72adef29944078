package config

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:147.0) Gecko/20100101 Firefox/147.0"

// ProviderHeaders overrides the built-in Referer/User-Agent pair for one provider.
type ProviderHeaders struct {
	Referer   string `mapstructure:"referer"`
	UserAgent string `mapstructure:"user_agent"`
}

type Config struct {
	CacheDir      string                     `mapstructure:"cache_dir"`
	ClientTimeout string                     `mapstructure:"client_timeout"` // Go duration string like "10s", "1m", etc.
	UserAgent     string                     `mapstructure:"user_agent"`
	LogLevel      string                     `mapstructure:"log_level"`
	SentryDSN     string                     `mapstructure:"sentry_dsn"`
	Providers     map[string]ProviderHeaders `mapstructure:"providers"`

	// WrapProxy is the canonical forwarding proxy applied by the URL codec.
	// ForwardProxies are probed in order when direct playback fails.
	WrapProxy      string   `mapstructure:"wrap_proxy"`
	ForwardProxies []string `mapstructure:"forward_proxies"`

	Server struct {
		Port    int    `mapstructure:"port"`
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`

	PlaylistCache struct {
		Backend       string `mapstructure:"backend"` // "memory" or "redis"
		Size          int    `mapstructure:"size"`    // Maximum number of entries for the memory backend
		TTL           string `mapstructure:"ttl"`     // Go duration string like "1h", "24h", etc.
		RedisAddress  string `mapstructure:"redis_address"`
		RedisPassword string `mapstructure:"redis_password"`
		RedisDB       int    `mapstructure:"redis_db"`
	} `mapstructure:"playlist_cache"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	// Parse and set log level from config
	level := zerolog.InfoLevel // default
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	// Set the global log level
	zerolog.SetGlobalLevel(level)

	// Update logger with the configured level
	logger = logger.Level(level)

	globalConfig = config
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Add specific environment variable for log level
	_ = viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetDefault("cache_dir", defaultCacheDir())
	viper.SetDefault("client_timeout", "10s")
	viper.SetDefault("server.port", 8750)
	viper.SetDefault("server.address", "127.0.0.1")
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.port", 9090)
	viper.SetDefault("playlist_cache.backend", "memory")
	viper.SetDefault("playlist_cache.size", 64)
	viper.SetDefault("playlist_cache.ttl", "1h")
	viper.SetDefault("wrap_proxy", "https://m3u8proxy.hlsgate.workers.dev/?url=")
	viper.SetDefault("forward_proxies", []string{
		"https://m3u8proxy.hlsgate.workers.dev/?url=",
		"https://cors.consumet.stream/",
		"https://proxy.ctrl.workers.dev/?url=",
	})

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	return &config, nil
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return base + string(os.PathSeparator) + "hlsgate"
}

func GetConfig() *Config {
	return globalConfig
}

func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

func GetLogger() zerolog.Logger {
	return logger
}
