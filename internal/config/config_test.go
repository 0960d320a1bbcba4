package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_URL", "postgres://localhost/draft")
	t.Setenv("CLICKHOUSE_URL", "clickhouse://localhost:9000/draft")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %s, want development", cfg.Env)
	}
	if cfg.WorkerCount != 4 || cfg.QueueSize != 10000 || cfg.BatchSize != 500 {
		t.Errorf("pool defaults = %d/%d/%d", cfg.WorkerCount, cfg.QueueSize, cfg.BatchSize)
	}
	if cfg.FlushInterval != time.Second {
		t.Errorf("FlushInterval = %v, want 1s", cfg.FlushInterval)
	}
	if cfg.MinPairSamples != 3 {
		t.Errorf("MinPairSamples = %d, want 3", cfg.MinPairSamples)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Errorf("KafkaBrokers = %v, want empty", cfg.KafkaBrokers)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("POSTGRES_URL", "")
	t.Setenv("CLICKHOUSE_URL", "clickhouse://localhost:9000/draft")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	if _, err := Load(); err == nil {
		t.Error("Load without POSTGRES_URL succeeded, want error")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("FLUSH_INTERVAL", "250ms")
	t.Setenv("MIN_PAIR_SAMPLES", "5")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 || cfg.WorkerCount != 8 || cfg.MinPairSamples != 5 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.FlushInterval != 250*time.Millisecond {
		t.Errorf("FlushInterval = %v, want 250ms", cfg.FlushInterval)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://a.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}
