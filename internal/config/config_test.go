package config

import (
	"testing"
	"time"
)

func TestInitConfigDefaults(t *testing.T) {
	cfg, err := InitConfig()
	if err != nil {
		t.Fatalf("init config: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Puzzles.Source != SourceEmbedded {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Generator.MaxComplexity != 9 || cfg.Generator.Depth != 10 {
		t.Fatalf("unexpected generator defaults: %+v", cfg.Generator)
	}
	if cfg.Sessions.Max != 10000 || cfg.Sessions.IdleTimeout != 30*time.Minute {
		t.Fatalf("unexpected session limits: %+v", cfg.Sessions)
	}
}

func TestInitConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("STOCKFISH_ARGS", "-a,-b")
	t.Setenv("PUZZLE_SOURCE", SourceMongo)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SESSION_IDLE_TIMEOUT", "90s")

	cfg, err := InitConfig()
	if err != nil {
		t.Fatalf("init config: %v", err)
	}
	if cfg.Addr() != ":9000" {
		t.Fatalf("unexpected addr %q", cfg.Addr())
	}
	if len(cfg.Stockfish.Args) != 2 || cfg.Stockfish.Args[1] != "-b" {
		t.Fatalf("unexpected args %v", cfg.Stockfish.Args)
	}
	if cfg.Sessions.IdleTimeout != 90*time.Second {
		t.Fatalf("unexpected idle timeout %s", cfg.Sessions.IdleTimeout)
	}
	if cfg.Puzzles.Source != SourceMongo {
		t.Fatalf("unexpected source %q", cfg.Puzzles.Source)
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	if !logger.Core().Enabled(-1) {
		t.Fatalf("debug level not enabled")
	}
}

func TestNewLoggerBadLevel(t *testing.T) {
	cfg, err := InitConfig()
	if err != nil {
		t.Fatalf("init config: %v", err)
	}
	cfg.Log.Level = "loud"
	if _, err := cfg.NewLogger(); err == nil {
		t.Fatalf("expected bad level error")
	}
}
