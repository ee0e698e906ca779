// Package config loads the optional YAML settings file and applies
// STUDYQUIZ_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/studyquiz/internal/quiz"
)

type Config struct {
	Server struct {
		Addr         string `yaml:"addr"`
		CookieSecret string `yaml:"cookie_secret"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Store struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"store"`
	Decks struct {
		Dir      string `yaml:"dir"`
		CacheTTL string `yaml:"cache_ttl"`
		PackRepo string `yaml:"pack_repo"`
	} `yaml:"decks"`
	Quiz struct {
		DefaultMode   string `yaml:"default_mode"`
		QuestionCount int    `yaml:"question_count"`
		CorrectDelay  string `yaml:"correct_delay"`
		WrongDelay    string `yaml:"wrong_delay"`
	} `yaml:"quiz"`
	Upload struct {
		MaxBytes int64 `yaml:"max_bytes"`
	} `yaml:"upload"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	var cfg Config
	cfg.Server.Addr = ":8080"
	cfg.Redis.Prefix = "studyquiz:"
	cfg.Decks.CacheTTL = "5m"
	cfg.Decks.PackRepo = "abhisek/studyquiz-decks"
	cfg.Quiz.DefaultMode = "normal"
	cfg.Quiz.QuestionCount = 10
	cfg.Quiz.CorrectDelay = "900ms"
	cfg.Quiz.WrongDelay = "2200ms"
	cfg.Upload.MaxBytes = 10 << 20
	return cfg
}

// Load reads YAML config from path on top of Defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}
	applyEnv(&cfg, os.Getenv)
	if cfg.Decks.Dir == "" {
		cfg.Decks.Dir = defaultDeckDir()
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	str("STUDYQUIZ_ADDR", &cfg.Server.Addr)
	str("STUDYQUIZ_COOKIE_SECRET", &cfg.Server.CookieSecret)
	str("STUDYQUIZ_REDIS_ADDR", &cfg.Redis.Addr)
	str("STUDYQUIZ_REDIS_PASSWORD", &cfg.Redis.Password)
	str("STUDYQUIZ_POSTGRES_URL", &cfg.Postgres.URL)
	str("STUDYQUIZ_DB", &cfg.Store.DBPath)
	str("STUDYQUIZ_DECKS_DIR", &cfg.Decks.Dir)
	str("STUDYQUIZ_DECKS_REPO", &cfg.Decks.PackRepo)
	str("STUDYQUIZ_MODE", &cfg.Quiz.DefaultMode)
	if v := getenv("STUDYQUIZ_QUESTION_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Quiz.QuestionCount = n
		}
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/studyquiz/config.yaml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "studyquiz", "config.yaml")
}

func defaultDeckDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "decks"
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "studyquiz", "decks")
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// DefaultMode is the mode preselected in the mode menu and used by a
// websocket start that names none.
func (c Config) DefaultMode() (quiz.Mode, error) {
	m, err := quiz.ParseMode(c.Quiz.DefaultMode)
	if err != nil {
		return "", fmt.Errorf("quiz.default_mode: %w", err)
	}
	return m, nil
}

// QuizDelays returns the feedback pauses after a correct and a wrong answer.
func (c Config) QuizDelays() (correct, wrong time.Duration) {
	return TTLDuration(c.Quiz.CorrectDelay, 900*time.Millisecond),
		TTLDuration(c.Quiz.WrongDelay, 2200*time.Millisecond)
}
