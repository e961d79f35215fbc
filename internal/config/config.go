package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultAPIBaseURL  = "https://www.googleapis.com/youtube/v3"
	defaultDBPath      = "subtriage.db"
	defaultExportDir   = "."
	defaultLogPath     = "subtriage.log"
	defaultTokenTTL    = time.Hour
	defaultSettleDelay = 500 * time.Millisecond
	defaultMaxPages    = 200
	defaultRateLimit   = 5.0
	configFileEnvVar   = "SUBTRIAGE_CONFIG"
	dotEnvFile         = ".env"
)

// Config holds runtime settings for the CLI app.
type Config struct {
	APIBaseURL  string        `yaml:"api_base_url"`
	AccessToken string        `yaml:"access_token"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	DBPath      string        `yaml:"db_path"`
	ExportDir   string        `yaml:"export_dir"`
	LogPath     string        `yaml:"log_path"`
	SettleDelay time.Duration `yaml:"settle_delay"`
	MaxPages    int           `yaml:"max_pages"`
	RateLimit   float64       `yaml:"rate_limit"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		APIBaseURL:  defaultAPIBaseURL,
		TokenTTL:    defaultTokenTTL,
		DBPath:      defaultDBPath,
		ExportDir:   defaultExportDir,
		LogPath:     defaultLogPath,
		SettleDelay: defaultSettleDelay,
		MaxPages:    defaultMaxPages,
		RateLimit:   defaultRateLimit,
	}
}

// Load reads .env (if present), the optional YAML file named by
// SUBTRIAGE_CONFIG and then environment variables, later sources winning.
func Load() (Config, error) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", dotEnvFile, err)
	}

	cfg := Defaults()
	if path := os.Getenv(configFileEnvVar); path != "" {
		fileCfg, err := LoadFile(path, cfg)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg
	}

	cfg, err := applyEnv(cfg)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto base.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg Config) (Config, error) {
	setString(&cfg.APIBaseURL, "YOUTUBE_API_BASE_URL")
	setString(&cfg.AccessToken, "YOUTUBE_ACCESS_TOKEN")
	setString(&cfg.DBPath, "SUBTRIAGE_DB_PATH")
	setString(&cfg.ExportDir, "SUBTRIAGE_EXPORT_DIR")
	setString(&cfg.LogPath, "SUBTRIAGE_LOG_PATH")

	if raw := os.Getenv("YOUTUBE_TOKEN_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("YOUTUBE_TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = d
	}
	if raw := os.Getenv("SUBTRIAGE_SETTLE_DELAY"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("SUBTRIAGE_SETTLE_DELAY: %w", err)
		}
		cfg.SettleDelay = d
	}
	if raw := os.Getenv("SUBTRIAGE_MAX_PAGES"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("SUBTRIAGE_MAX_PAGES: %w", err)
		}
		cfg.MaxPages = n
	}
	if raw := os.Getenv("SUBTRIAGE_RATE_LIMIT"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("SUBTRIAGE_RATE_LIMIT: %w", err)
		}
		cfg.RateLimit = f
	}
	return cfg, nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// HasToken reports whether remote mode can be entered without prompting.
func (c Config) HasToken() bool {
	return strings.TrimSpace(c.AccessToken) != ""
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("APIBaseURL is required")
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.ExportDir == "" {
		return errors.New("ExportDir is required")
	}
	if c.LogPath == "" {
		return errors.New("LogPath is required")
	}
	if c.TokenTTL < 0 {
		return fmt.Errorf("TokenTTL must not be negative: %s", c.TokenTTL)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("SettleDelay must not be negative: %s", c.SettleDelay)
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("MaxPages must be positive: %d", c.MaxPages)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RateLimit must be positive: %v", c.RateLimit)
	}
	if strings.HasSuffix(c.APIBaseURL, "/") {
		return fmt.Errorf("APIBaseURL must not end with '/': %s", c.APIBaseURL)
	}
	return nil
}
