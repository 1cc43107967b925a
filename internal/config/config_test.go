// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, defaults, and duration parsing

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
server:
  http_addr: "127.0.0.1:8080"
  base_url: "https://desk.example.com"

data:
  docs_dir: "./data"
  accounts_path: "./users.yml"
  sessions_path: "./deskhub.db"

session:
  cookie_name: "test_session"
  duration: "48h"
  purge_interval: "30m"

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "127.0.0.1:8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "127.0.0.1:8080")
	}
	if cfg.Data.DocsDir != "./data" {
		t.Errorf("DocsDir = %q, want %q", cfg.Data.DocsDir, "./data")
	}
	if cfg.Session.Duration != 48*time.Hour {
		t.Errorf("Duration = %v, want %v", cfg.Session.Duration, 48*time.Hour)
	}
	if cfg.Session.PurgeInterval != 30*time.Minute {
		t.Errorf("PurgeInterval = %v, want %v", cfg.Session.PurgeInterval, 30*time.Minute)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_Defaults(t *testing.T) {
	configPath := writeConfig(t, `
server:
  http_addr: "127.0.0.1:8080"
data:
  docs_dir: "./data"
  accounts_path: "./users.yml"
  sessions_path: "./deskhub.db"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Session.CookieName != DefaultCookieName {
		t.Errorf("CookieName = %q, want default %q", cfg.Session.CookieName, DefaultCookieName)
	}
	if cfg.Session.Duration != DefaultDuration {
		t.Errorf("Duration = %v, want default %v", cfg.Session.Duration, DefaultDuration)
	}
	if cfg.Session.PurgeInterval != DefaultPurgeInterval {
		t.Errorf("PurgeInterval = %v, want default %v", cfg.Session.PurgeInterval, DefaultPurgeInterval)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("DESKHUB_TEST_DOCS", "/srv/docs")

	configPath := writeConfig(t, `
server:
  http_addr: "127.0.0.1:8080"
data:
  docs_dir: "${DESKHUB_TEST_DOCS}"
  accounts_path: "./users.yml"
  sessions_path: "./deskhub.db"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Data.DocsDir != "/srv/docs" {
		t.Errorf("DocsDir = %q, want %q", cfg.Data.DocsDir, "/srv/docs")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	configPath := writeConfig(t, `
server:
  http_addr: "127.0.0.1:8080"
data:
  docs_dir: "./data"
  accounts_path: "./users.yml"
  sessions_path: "./deskhub.db"
session:
  duration: "not-a-duration"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "duration") {
		t.Errorf("error = %v, want mention of duration", err)
	}
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name: "missing http_addr",
			content: `
data:
  docs_dir: "./data"
  accounts_path: "./users.yml"
  sessions_path: "./deskhub.db"
`,
			want: "server.http_addr",
		},
		{
			name: "missing docs_dir",
			content: `
server:
  http_addr: "127.0.0.1:8080"
data:
  accounts_path: "./users.yml"
  sessions_path: "./deskhub.db"
`,
			want: "data.docs_dir",
		},
		{
			name: "missing accounts_path",
			content: `
server:
  http_addr: "127.0.0.1:8080"
data:
  docs_dir: "./data"
  sessions_path: "./deskhub.db"
`,
			want: "data.accounts_path",
		},
		{
			name: "missing sessions_path",
			content: `
server:
  http_addr: "127.0.0.1:8080"
data:
  docs_dir: "./data"
  accounts_path: "./users.yml"
`,
			want: "data.sessions_path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := writeConfig(t, tt.content)
			_, err := Load(configPath)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
