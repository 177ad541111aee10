// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Config captures every configuration knob loaded via Viper.
type Config struct {
	Crawler  CrawlerConfig  `mapstructure:"crawler"`
	Renderer RendererConfig `mapstructure:"renderer"`
	Photo    PhotoConfig    `mapstructure:"photo"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// CrawlerConfig governs the crawl run.
type CrawlerConfig struct {
	Seeds         []string      `mapstructure:"seeds"`
	MaxArticles   int           `mapstructure:"max_articles"`
	Concurrency   int           `mapstructure:"concurrency"`
	PerOriginMax  int           `mapstructure:"per_origin_max"`
	Delay         time.Duration `mapstructure:"delay"`
	UserAgent     string        `mapstructure:"user_agent"`
	RespectRobots bool          `mapstructure:"respect_robots"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// RendererConfig toggles headless rendering of requests.
type RendererConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	NavTimeout  time.Duration `mapstructure:"nav_timeout"`
	MaxParallel int           `mapstructure:"max_parallel"`
}

// PhotoConfig bounds cover photo enrichment.
type PhotoConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxBytes int64         `mapstructure:"max_bytes"`
}

// MongoConfig locates the article store.
type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

// ServerConfig controls the read-side viewer.
type ServerConfig struct {
	Port       int    `mapstructure:"port"`
	SamplePath string `mapstructure:"sample_path"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from an optional file plus KPNEWS_* environment
// variables.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("KPNEWS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("crawler.seeds", []string{"https://www.kp.ru/online/"})
	v.SetDefault("crawler.max_articles", 1000)
	v.SetDefault("crawler.concurrency", 4)
	v.SetDefault("crawler.per_origin_max", 1)
	v.SetDefault("crawler.delay", "1s")
	v.SetDefault("crawler.user_agent", defaultUserAgent)
	v.SetDefault("crawler.respect_robots", true)
	v.SetDefault("crawler.timeout", "15s")
	v.SetDefault("renderer.enabled", false)
	v.SetDefault("renderer.nav_timeout", "60s")
	v.SetDefault("renderer.max_parallel", 1)
	v.SetDefault("photo.timeout", "8s")
	v.SetDefault("photo.max_bytes", 5_000_000)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "kp_news")
	v.SetDefault("mongo.collection", "articles")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.sample_path", "sample.jsonl")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and sane limits.
func (c Config) Validate() error {
	if len(c.Crawler.Seeds) == 0 {
		return fmt.Errorf("crawler.seeds must include at least one URL")
	}
	if c.Crawler.MaxArticles <= 0 {
		return fmt.Errorf("crawler.max_articles must be > 0")
	}
	if c.Crawler.Concurrency <= 0 {
		return fmt.Errorf("crawler.concurrency must be > 0")
	}
	if c.Crawler.PerOriginMax <= 0 {
		return fmt.Errorf("crawler.per_origin_max must be > 0")
	}
	if c.Crawler.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent must be set")
	}
	if c.Crawler.Timeout <= 0 {
		return fmt.Errorf("crawler.timeout must be > 0")
	}
	if c.Renderer.Enabled && c.Renderer.MaxParallel <= 0 {
		return fmt.Errorf("renderer.max_parallel must be > 0 when the renderer is enabled")
	}
	if c.Photo.MaxBytes <= 0 {
		return fmt.Errorf("photo.max_bytes must be > 0")
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri must be set")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	return nil
}
