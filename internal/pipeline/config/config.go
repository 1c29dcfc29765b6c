package config

import (
	"time"

	"meridian/pkg/config"
)

// Pipeline holds pipeline-specific configuration. Zero values are replaced
// with defaults in Load so a minimal config file still yields a working
// service.
type Pipeline struct {
	IntervalMinutes      int           `mapstructure:"interval_minutes"`
	InitialDelay         time.Duration `mapstructure:"initial_delay"`
	FeedTimeout          time.Duration `mapstructure:"feed_timeout"`
	MaxItemsPerSource    int           `mapstructure:"max_items_per_source"`
	MaxArticleAge        time.Duration `mapstructure:"max_article_age"`
	MaxStoriesPerRun     int           `mapstructure:"max_stories_per_run"`
	MaxConcurrentFetches int           `mapstructure:"max_concurrent_fetches"`
	UserAgent            string        `mapstructure:"user_agent"`
}

// AI holds configuration for AI providers.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// OpenAI holds the configuration for an OpenAI-compatible API.
type OpenAI struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Telegram holds configuration for the run-report notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the pipeline service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	API      config.API      `mapstructure:"api"`
	Pipeline Pipeline        `mapstructure:"pipeline"`
	AI       AI              `mapstructure:"ai"`
	Gemini   Gemini          `mapstructure:"gemini"`
	OpenAI   OpenAI          `mapstructure:"openai"`
	Telegram Telegram        `mapstructure:"telegram"`
}

// Load loads the pipeline configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	p := &cfg.Pipeline
	if p.IntervalMinutes <= 0 {
		p.IntervalMinutes = 30
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = 5 * time.Second
	}
	if p.FeedTimeout <= 0 {
		p.FeedTimeout = 10 * time.Second
	}
	if p.MaxItemsPerSource <= 0 {
		p.MaxItemsPerSource = 15
	}
	if p.MaxArticleAge <= 0 {
		p.MaxArticleAge = 48 * time.Hour
	}
	if p.MaxStoriesPerRun <= 0 {
		p.MaxStoriesPerRun = 8
	}
	if p.MaxConcurrentFetches <= 0 {
		p.MaxConcurrentFetches = 4
	}
	if p.UserAgent == "" {
		p.UserAgent = "Meridian/1.0 NewsAggregator"
	}
	if cfg.Gemini.MaxRequestPerMinute <= 0 {
		cfg.Gemini.MaxRequestPerMinute = 10
	}
	if cfg.Gemini.MaxTokenPerMinute <= 0 {
		cfg.Gemini.MaxTokenPerMinute = 250000
	}
	if cfg.OpenAI.MaxRequestPerMinute <= 0 {
		cfg.OpenAI.MaxRequestPerMinute = 10
	}
	if cfg.OpenAI.MaxTokenPerMinute <= 0 {
		cfg.OpenAI.MaxTokenPerMinute = 200000
	}
}
