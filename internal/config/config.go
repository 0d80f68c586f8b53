package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Placeholder values shipped in the example .env. Starting with any of these
// still present is a configuration error, not a platform to listen on.
const (
	placeholderToken   = "oauth:your_token_here"
	placeholderChannel = "your_channel_name"
	placeholderVideoID = "YOUR_VIDEO_ID_HERE"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	BrainURL        string        `env:"BRAIN_URL" default:"http://127.0.0.1:5000"`
	DispatchTimeout time.Duration `env:"DISPATCH_TIMEOUT" default:"5s"`

	CommandPrefix  string        `env:"CHAT_COMMAND" default:"!chaos"`
	CooldownWindow time.Duration `env:"COOLDOWN_WINDOW" default:"5s"`

	BlockURLs      bool     `env:"BLOCK_URLS" default:"true"`
	AllowedDomains []string `env:"ALLOWED_DOMAINS" default:"i.imgur.com,imgur.com"`
	Moderators     []string `env:"MODERATORS"`

	TwitchToken   string `env:"TWITCH_TOKEN"`
	TwitchNick    string `env:"TWITCH_NICK"`
	TwitchChannel string `env:"TWITCH_CHANNEL"`
	RequireBits   bool   `env:"REQUIRE_BITS" default:"false"`
	MinBits       int    `env:"MIN_BITS" default:"100"`

	YouTubeAPIKey    string        `env:"YOUTUBE_API_KEY"`
	YouTubeVideoID   string        `env:"YOUTUBE_VIDEO_ID"`
	MinSuperChat     float64       `env:"MIN_SUPER_CHAT" default:"1.00"`
	AllowRegularChat bool          `env:"ALLOW_REGULAR_CHAT" default:"false"`
	PollInterval     time.Duration `env:"POLL_INTERVAL" default:"1s"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	// Lists (ALLOWED_DOMAINS, MODERATORS) are comma-separated; the library
	// splits on spaces unless told otherwise.
	if err := env.Load(&cfg, &env.Options{SliceSep: ","}); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// TwitchEnabled reports whether the Twitch adapter should run.
func (c *Config) TwitchEnabled() bool {
	return c.TwitchToken != "" || c.TwitchChannel != "" || c.TwitchNick != ""
}

// YouTubeEnabled reports whether the YouTube adapter should run.
func (c *Config) YouTubeEnabled() bool {
	return c.YouTubeAPIKey != "" || c.YouTubeVideoID != ""
}

func validate(cfg *Config) error {
	if !cfg.TwitchEnabled() && !cfg.YouTubeEnabled() {
		return errors.New("no platform configured: set TWITCH_* or YOUTUBE_* variables")
	}

	if cfg.TwitchEnabled() {
		if cfg.TwitchToken == "" || cfg.TwitchToken == placeholderToken {
			return errors.New("TWITCH_TOKEN is required and must not be the placeholder value")
		}
		if cfg.TwitchChannel == "" || cfg.TwitchChannel == placeholderChannel {
			return errors.New("TWITCH_CHANNEL is required and must not be the placeholder value")
		}
		if cfg.TwitchNick == "" {
			return errors.New("TWITCH_NICK is required when Twitch is configured")
		}
	}

	if cfg.YouTubeEnabled() {
		if cfg.YouTubeAPIKey == "" {
			return errors.New("YOUTUBE_API_KEY is required when YouTube is configured")
		}
		if cfg.YouTubeVideoID == "" || cfg.YouTubeVideoID == placeholderVideoID {
			return errors.New("YOUTUBE_VIDEO_ID is required and must not be the placeholder value")
		}
	}

	if cfg.CommandPrefix == "" {
		return errors.New("CHAT_COMMAND must not be empty")
	}
	if cfg.CooldownWindow <= 0 {
		return errors.New("COOLDOWN_WINDOW must be positive")
	}
	if cfg.PollInterval <= 0 {
		return errors.New("POLL_INTERVAL must be positive")
	}

	return nil
}
