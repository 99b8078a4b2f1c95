package config

import (
	"errors"
	"io/fs"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "GOVAI_CONFIG"
	dotenvFile    = ".env"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server        ServerConfig       `yaml:"server"`
	Logging       LoggingConfig      `yaml:"logging"`
	LLM           LLMConfig          `yaml:"llm"`
	Search        SearchConfig       `yaml:"search"`
	UsageLog      UsageLogConfig     `yaml:"usageLog"`
	Archive       ArchiveConfig      `yaml:"archive"`
	Admin         AdminConfig        `yaml:"admin"`
	Digest        DigestConfig       `yaml:"digest"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// ServerConfig describes the HTTP listener and its middleware.
type ServerConfig struct {
	Host               string        `yaml:"host" envconfig:"HOST"`
	Port               int           `yaml:"port" envconfig:"PORT"`
	CORSOrigins        []string      `yaml:"corsOrigins" envconfig:"CORS_ORIGINS"`
	RateLimitPerMinute float64       `yaml:"rateLimitPerMinute" envconfig:"RATE_LIMIT_PER_MINUTE"`
	RateLimitBurst     int           `yaml:"rateLimitBurst" envconfig:"RATE_LIMIT_BURST"`
	ShutdownTimeout    time.Duration `yaml:"shutdownTimeout" envconfig:"SHUTDOWN_TIMEOUT"`
	MetricsEnabled     bool          `yaml:"metricsEnabled" envconfig:"METRICS_ENABLED"`
	// TrustedProxies lists CIDRs whose X-Forwarded-For is honoured.
	TrustedProxies     []string      `yaml:"trustedProxies" envconfig:"TRUSTED_PROXIES"`
}

// LoggingConfig selects slog level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
}

// LLMConfig defines how to contact the OpenAI-compatible generation API.
type LLMConfig struct {
	Endpoint    string        `yaml:"endpoint" envconfig:"AI_ENDPOINT"`
	Model       string        `yaml:"model" envconfig:"AI_MODEL"`
	APIKey      string        `yaml:"apiKey" envconfig:"HF_TOKEN"`
	MaxTokens   int           `yaml:"maxTokens" envconfig:"MAX_TOKENS"`
	Temperature float64       `yaml:"temperature" envconfig:"TEMPERATURE"`
	Timeout     time.Duration `yaml:"timeout" envconfig:"AI_TIMEOUT"`
}

// SearchConfig groups credentials and limits for web search providers.
type SearchConfig struct {
	TavilyAPIKey    string        `yaml:"tavilyApiKey" envconfig:"TAVILY_API_KEY"`
	TavilyEndpoint  string        `yaml:"tavilyEndpoint" envconfig:"TAVILY_ENDPOINT"`
	SerpAPIKey      string        `yaml:"serpApiKey" envconfig:"SERPAPI_API_KEY"`
	SerpAPIEndpoint string        `yaml:"serpApiEndpoint" envconfig:"SERPAPI_ENDPOINT"`
	MaxResults      int           `yaml:"maxResults" envconfig:"SEARCH_MAX_RESULTS"`
	Timeout         time.Duration `yaml:"timeout" envconfig:"SEARCH_TIMEOUT"`
	CacheSize       int           `yaml:"cacheSize" envconfig:"SEARCH_CACHE_SIZE"`
	CacheTTL        time.Duration `yaml:"cacheTTL" envconfig:"SEARCH_CACHE_TTL"`
}

// UsageLogConfig locates the JSONL query log and bounds its readers.
type UsageLogConfig struct {
	Path       string `yaml:"path" envconfig:"QUERY_LOG_PATH"`
	MemoryCap  int    `yaml:"memoryCap" envconfig:"QUERY_LOG_MEMORY_CAP"`
	StatsLimit int    `yaml:"statsLimit" envconfig:"QUERY_LOG_STATS_LIMIT"`
}

// ArchiveConfig enables the SQLite mirror of the query log when DSN is set.
type ArchiveConfig struct {
	DSN string `yaml:"dsn" envconfig:"ARCHIVE_DSN"`
}

// AdminConfig guards the dashboard read surface.
type AdminConfig struct {
	Token string `yaml:"token" envconfig:"ADMIN_TOKEN"`
}

// DigestConfig schedules the periodic usage digest.
type DigestConfig struct {
	Enabled  bool          `yaml:"enabled" envconfig:"DIGEST_ENABLED"`
	Interval time.Duration `yaml:"interval" envconfig:"DIGEST_INTERVAL"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken" envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID   string `yaml:"chatId" envconfig:"TELEGRAM_CHAT_ID"`
}

// Load reads the config file named by GOVAI_CONFIG (if any).
func Load() Config {
	return LoadFrom(os.Getenv(configPathEnv))
}

// LoadFrom reads YAML configuration (if present), a local .env file and
// applies environment overrides.
func LoadFrom(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			fileCfg := defaultConfig()
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = fileCfg
			}
		}
	}

	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: cannot load %s: %v", dotenvFile, err)
	}

	if err := envconfig.Process("", &cfg); err != nil {
		log.Printf("config: invalid environment override: %v", err)
	}

	cfg.normalize()
	return cfg
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

func (c *Config) normalize() {
	def := defaultConfig()

	if c.Server.Port <= 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.RateLimitPerMinute <= 0 {
		c.Server.RateLimitPerMinute = def.Server.RateLimitPerMinute
	}
	if c.Server.RateLimitBurst <= 0 {
		c.Server.RateLimitBurst = def.Server.RateLimitBurst
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = def.Server.CORSOrigins
	}

	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = def.LLM.MaxTokens
	}
	if c.LLM.Temperature < 0 {
		c.LLM.Temperature = def.LLM.Temperature
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = def.LLM.Timeout
	}

	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = def.Search.MaxResults
	}
	if c.Search.Timeout <= 0 {
		c.Search.Timeout = def.Search.Timeout
	}
	if c.Search.CacheSize < 0 {
		c.Search.CacheSize = 0
	}
	if c.Search.CacheTTL <= 0 {
		c.Search.CacheTTL = def.Search.CacheTTL
	}

	if c.UsageLog.Path == "" {
		c.UsageLog.Path = def.UsageLog.Path
	}
	if c.UsageLog.MemoryCap <= 0 {
		c.UsageLog.MemoryCap = def.UsageLog.MemoryCap
	}
	if c.UsageLog.StatsLimit <= 0 {
		c.UsageLog.StatsLimit = def.UsageLog.StatsLimit
	}

	if c.Digest.Interval <= 0 {
		c.Digest.Interval = def.Digest.Interval
	}
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8000,
			CORSOrigins:        []string{"*"},
			RateLimitPerMinute: 10,
			RateLimitBurst:     3,
			ShutdownTimeout:    10 * time.Second,
			MetricsEnabled:     true,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		LLM: LLMConfig{
			Endpoint:    "https://router.huggingface.co/v1/chat/completions",
			Model:       "openai/gpt-oss-120b:fireworks-ai",
			MaxTokens:   3000,
			Temperature: 0.2,
			Timeout:     60 * time.Second,
		},
		Search: SearchConfig{
			TavilyEndpoint:  "https://api.tavily.com/search",
			SerpAPIEndpoint: "https://serpapi.com/search.json",
			MaxResults:      6,
			Timeout:         10 * time.Second,
			CacheSize:       256,
			CacheTTL:        15 * time.Minute,
		},
		UsageLog: UsageLogConfig{
			Path:       "logs/queries.jsonl",
			MemoryCap:  1000,
			StatsLimit: 1000,
		},
		Digest: DigestConfig{Interval: 24 * time.Hour},
	}
}
