package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"telegram-referral-bot/internal/domain"
)

// Placeholder sentinels meaning "unconfigured". They match the shipped .env
// template, so a fresh checkout fails loudly before any network action.
const (
	PlaceholderToken    = "YOUR_BOT_TOKEN_HERE"
	PlaceholderChannel  = "@your_channel"
	PlaceholderUsername = "your_bot_username"
)

type BotConfig struct {
	Token    string `yaml:"token"`
	Username string `yaml:"username"` // public handle, without @
}

type ChannelConfig struct {
	ID   string `yaml:"id"`   // @username or -100xxxxxxxxxx
	Link string `yaml:"link"` // join URL shown on the subscribe button
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // single-file sqlite store
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty: keep session state in memory
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AdminConfig struct {
	UserID int64 `yaml:"user_id"` // the single authorized admin identity
	Port   int   `yaml:"port"`    // metrics/health listener; 0 disables
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type ReferralConfig struct {
	PointsPerReferral int `yaml:"points_per_referral"`
}

type BroadcastConfig struct {
	BatchSize       int           `yaml:"batch_size"`
	BatchRest       time.Duration `yaml:"batch_rest"`
	MessageDelay    time.Duration `yaml:"message_delay"`
	MediaPhotoDelay time.Duration `yaml:"media_photo_delay"`
	MediaUserDelay  time.Duration `yaml:"media_user_delay"`
}

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Channel   ChannelConfig   `yaml:"channel"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Admin     AdminConfig     `yaml:"admin"`
	Log       LogConfig       `yaml:"log"`
	Referral  ReferralConfig  `yaml:"referral"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
}

// Load reads the optional YAML file, overlays environment variables (a .env
// file is honored when present), and applies defaults. The returned value is
// passed explicitly to every component; there is no global config.
func Load(path string) (*Config, error) {
	// Missing .env is normal in production; real env vars still apply.
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	overlayEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func overlayEnv(cfg *Config) {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.Bot.Token = v
	}
	if v := os.Getenv("BOT_USERNAME"); v != "" {
		cfg.Bot.Username = v
	}
	if v := os.Getenv("CHANNEL_ID"); v != "" {
		cfg.Channel.ID = v
	}
	if v := os.Getenv("CHANNEL_LINK"); v != "" {
		cfg.Channel.Link = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("ADMIN_USER_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Admin.UserID = id
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.Token == "" {
		cfg.Bot.Token = PlaceholderToken
	}
	if cfg.Bot.Username == "" {
		cfg.Bot.Username = PlaceholderUsername
	}
	if cfg.Channel.ID == "" {
		cfg.Channel.ID = PlaceholderChannel
	}
	if cfg.Channel.Link == "" {
		cfg.Channel.Link = "https://t.me/your_channel"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "bot_database.db"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 15 * time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Referral.PointsPerReferral <= 0 {
		cfg.Referral.PointsPerReferral = 1
	}
	if cfg.Broadcast.BatchSize <= 0 {
		cfg.Broadcast.BatchSize = 20
	}
	if cfg.Broadcast.BatchRest <= 0 {
		cfg.Broadcast.BatchRest = 5 * time.Second
	}
	if cfg.Broadcast.MessageDelay <= 0 {
		cfg.Broadcast.MessageDelay = 50 * time.Millisecond
	}
	if cfg.Broadcast.MediaPhotoDelay <= 0 {
		cfg.Broadcast.MediaPhotoDelay = 50 * time.Millisecond
	}
	if cfg.Broadcast.MediaUserDelay <= 0 {
		cfg.Broadcast.MediaUserDelay = 100 * time.Millisecond
	}
}

// ValidateCredentials fails when the bot token is still the placeholder.
// Callers treat this as fatal before any message is sent.
func (c *Config) ValidateCredentials() error {
	if c.Bot.Token == "" || c.Bot.Token == PlaceholderToken {
		return fmt.Errorf("bot token: %w", domain.ErrNotConfigured)
	}
	return nil
}

// ChannelConfigured reports whether a real channel identity is set. The bot
// starts without one but logs a warning; subscription checks will fail until
// it is configured.
func (c *Config) ChannelConfigured() bool {
	return c.Channel.ID != "" && c.Channel.ID != PlaceholderChannel
}
