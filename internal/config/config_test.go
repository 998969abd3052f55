package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "REMOTE_TRANSPORT", "HANDOFF_DRIVER", "QUIZ_TIME_LIMIT", "CORS_ORIGINS", "REMOTE_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.Transport != TransportMock {
		t.Errorf("expected mock transport, got %s", cfg.Transport)
	}
	if cfg.HandoffDriver != HandoffSQLite {
		t.Errorf("expected sqlite handoff, got %s", cfg.HandoffDriver)
	}
	if cfg.QuizTimeLimit != 300 {
		t.Errorf("expected 300s limit, got %d", cfg.QuizTimeLimit)
	}
	if cfg.StateTTL != 2*time.Hour || cfg.SweepInterval != 5*time.Minute {
		t.Errorf("expected 2h state ttl swept every 5m, got %v / %v", cfg.StateTTL, cfg.SweepInterval)
	}
	if cfg.RemoteTimeout != 120*time.Second {
		t.Errorf("expected 120s timeout, got %v", cfg.RemoteTimeout)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("expected 2 default origins, got %v", cfg.CORSOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("REMOTE_TRANSPORT", "Fetch")
	t.Setenv("HANDOFF_DRIVER", "redis")
	t.Setenv("QUIZ_TIME_LIMIT", "90")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("HANDOFF_TTL", "24h")
	t.Setenv("STATE_TTL", "30m")

	cfg := FromEnv()
	if cfg.Transport != TransportFetch {
		t.Errorf("expected fetch transport, got %s", cfg.Transport)
	}
	if cfg.HandoffDriver != HandoffRedis {
		t.Errorf("expected redis handoff, got %s", cfg.HandoffDriver)
	}
	if cfg.QuizTimeLimit != 90 {
		t.Errorf("expected 90s limit, got %d", cfg.QuizTimeLimit)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.CORSOrigins)
	}
	if cfg.HandoffTTL != 24*time.Hour {
		t.Errorf("expected 24h ttl, got %v", cfg.HandoffTTL)
	}
	if cfg.StateTTL != 30*time.Minute {
		t.Errorf("expected 30m state ttl, got %v", cfg.StateTTL)
	}
}
