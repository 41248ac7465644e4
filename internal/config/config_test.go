package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
storage:
  database_path: /tmp/kg.db
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Storage.DatabasePath != "/tmp/kg.db" {
		t.Errorf("database_path not applied: %s", cfg.Storage.DatabasePath)
	}
	if cfg.Storage.Dimension != 1536 {
		t.Errorf("expected default dimension 1536, got %d", cfg.Storage.Dimension)
	}
	if cfg.Storage.DocumentCategory != "paper" {
		t.Errorf("expected default category paper, got %s", cfg.Storage.DocumentCategory)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("expected default model, got %s", cfg.Embedding.Model)
	}
	if cfg.EmbeddingTimeout() != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.EmbeddingTimeout())
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
debug: true
storage:
  database_path: graph.db
  dimension: 768
  document_category: document
embedding:
  base_url: http://localhost:11434
  model: nomic-embed-text
  timeout_seconds: 5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Debug {
		t.Error("debug not applied")
	}
	if cfg.Storage.Dimension != 768 {
		t.Errorf("dimension not applied: %d", cfg.Storage.Dimension)
	}
	if cfg.Storage.DocumentCategory != "document" {
		t.Errorf("category not applied: %s", cfg.Storage.DocumentCategory)
	}
	if cfg.Embedding.BaseURL != "http://localhost:11434" {
		t.Errorf("base_url not applied: %s", cfg.Embedding.BaseURL)
	}
	if cfg.EmbeddingTimeout() != 5*time.Second {
		t.Errorf("timeout not applied: %v", cfg.EmbeddingTimeout())
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := writeConfig(t, "storage: [not a mapping")
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed YAML")
	}

	zeroDim := writeConfig(t, `
storage:
  database_path: graph.db
  dimension: -1
`)
	if _, err := Load(zeroDim); err == nil {
		t.Error("expected validation error for negative dimension")
	}
}

func TestAPIKeyFromEnv(t *testing.T) {
	cfg := Default()
	cfg.Embedding.APIKeyEnv = "KGSQLITE_TEST_KEY"
	t.Setenv("KGSQLITE_TEST_KEY", "sk-test")

	if cfg.APIKey() != "sk-test" {
		t.Errorf("expected key from env, got %q", cfg.APIKey())
	}

	cfg.Embedding.APIKeyEnv = ""
	if cfg.APIKey() != "" {
		t.Error("expected empty key when no env var is configured")
	}
}
