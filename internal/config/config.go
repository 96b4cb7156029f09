// Load envs from .env
// Load YAML config
// Apply env overrides and defaults
// Validate config

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

var (
	ErrMissingToken  = errors.New("TELEGRAM_BOT_TOKEN is required")
	ErrMissingChatID = errors.New("TELEGRAM_CHAT_ID is required")
)

type Config struct {
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	//Scheduling
	PollIntervalSeconds int `yaml:"poll_interval_seconds" env:"POLL_INTERVAL_SECONDS"`
	InitialDelaySeconds int `yaml:"initial_delay_seconds"`
	MaxItemsPerCycle    int `yaml:"max_items_per_cycle"`
	//Storage
	DBPath      string `yaml:"db_path" env:"DB_PATH"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
	//Outbound
	SendRatePerSecond float64 `yaml:"send_rate_per_second" env:"SEND_RATE_PER_SECOND"`
	HTTPTimeout       int     `yaml:"http_timeout_seconds"`
	//Ops
	HTTPAddr string `yaml:"http_addr" env:"HTTP_ADDR"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	Site Site `yaml:"site"`
}

// Site lets the listing URL and selector chains change without a rebuild.
type Site struct {
	ListURL   string        `yaml:"list_url"`
	Origin    string        `yaml:"site_origin"`
	Selectors SiteSelectors `yaml:"selectors"`
}

type SiteSelectors struct {
	Listing string   `yaml:"listing"`
	Title   []string `yaml:"title"`
	Budget  []string `yaml:"budget"`
	Owner   []string `yaml:"owner"`
	Details []string `yaml:"details"`
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c *Config) InitialDelay() time.Duration {
	return time.Duration(c.InitialDelaySeconds) * time.Second
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

// HTTPEnabled reports whether the health/metrics listener should start.
func (c *Config) HTTPEnabled() bool {
	return c.HTTPAddr != "" && !strings.EqualFold(c.HTTPAddr, "off")
}

// Load reads .env, then the YAML file at path (optional), then environment
// overrides. It returns an error if a required value is missing or malformed.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
			log.Printf("Warning: Could not read %s: %v", path, err)
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(chatID), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	if poll := os.Getenv("POLL_INTERVAL_SECONDS"); poll != "" {
		n, err := strconv.Atoi(strings.TrimSpace(poll))
		if err != nil {
			return fmt.Errorf("invalid POLL_INTERVAL_SECONDS: %w", err)
		}
		cfg.PollIntervalSeconds = n
	}

	if rate := os.Getenv("SEND_RATE_PER_SECOND"); rate != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(rate), 64)
		if err != nil {
			return fmt.Errorf("invalid SEND_RATE_PER_SECOND: %w", err)
		}
		cfg.SendRatePerSecond = f
	}

	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.PollIntervalSeconds == 0 {
		cfg.PollIntervalSeconds = 45
	}
	if cfg.InitialDelaySeconds == 0 {
		cfg.InitialDelaySeconds = 3
	}
	if cfg.MaxItemsPerCycle == 0 {
		cfg.MaxItemsPerCycle = 25
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "state.sqlite3"
	}
	if cfg.SendRatePerSecond == 0 {
		cfg.SendRatePerSecond = 1
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return ErrMissingToken
	}
	if c.TelegramChatID == 0 {
		return ErrMissingChatID
	}
	if c.PollIntervalSeconds < 0 {
		return fmt.Errorf("POLL_INTERVAL_SECONDS must be positive, got %d", c.PollIntervalSeconds)
	}
	if c.MaxItemsPerCycle < 0 {
		return fmt.Errorf("max_items_per_cycle must be positive, got %d", c.MaxItemsPerCycle)
	}
	if c.SendRatePerSecond < 0 {
		return fmt.Errorf("SEND_RATE_PER_SECOND must be positive, got %v", c.SendRatePerSecond)
	}
	return nil
}
