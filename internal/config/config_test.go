package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/studyquiz/internal/quiz"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("STUDYQUIZ_ADDR", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Quiz.QuestionCount != 10 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Decks.Dir == "" {
		t.Error("deck dir should default")
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  addr: ":9000"
redis:
  addr: "localhost:6379"
decks:
  dir: /tmp/decks
  cache_ttl: 1m
quiz:
  default_mode: timed
  question_count: 5
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STUDYQUIZ_ADDR", ":7000")
	t.Setenv("STUDYQUIZ_QUESTION_COUNT", "12")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("env should override file, got %q", cfg.Server.Addr)
	}
	if cfg.Quiz.QuestionCount != 12 || cfg.Quiz.DefaultMode != "timed" {
		t.Errorf("unexpected quiz config %+v", cfg.Quiz)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Decks.Dir != "/tmp/decks" {
		t.Errorf("file values lost: %+v", cfg)
	}
	if cfg.Quiz.WrongDelay != "2200ms" {
		t.Errorf("unset keys keep defaults, got %q", cfg.Quiz.WrongDelay)
	}
}

func TestDefaultModeFromEnv(t *testing.T) {
	t.Setenv("STUDYQUIZ_MODE", "popquiz")
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	m, err := cfg.DefaultMode()
	if err != nil || m != quiz.ModePopQuiz {
		t.Fatalf("got %q, %v", m, err)
	}

	cfg.Quiz.DefaultMode = "speedrun"
	if _, err := cfg.DefaultMode(); err == nil || !strings.Contains(err.Error(), "quiz.default_mode") {
		t.Fatalf("expected default_mode error, got %v", err)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Second); got != time.Second {
		t.Errorf("empty: got %v", got)
	}
	if got := TTLDuration("90s", time.Second); got != 90*time.Second {
		t.Errorf("valid: got %v", got)
	}
	if got := TTLDuration("soon", time.Second); got != time.Second {
		t.Errorf("invalid: got %v", got)
	}
}
