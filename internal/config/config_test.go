package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Port != 8090 {
		t.Errorf("Server.Port = %d, want 8090", cfg.Server.Port)
	}
	if cfg.Lookup.Timeout != 30*time.Second {
		t.Errorf("Lookup.Timeout = %v, want 30s", cfg.Lookup.Timeout)
	}
	if len(cfg.Lookup.PortPriority) != 0 {
		t.Errorf("Lookup.PortPriority = %v, want empty", cfg.Lookup.PortPriority)
	}
	if cfg.Security.RateLimit != 100 {
		t.Errorf("Security.RateLimit = %d, want 100", cfg.Security.RateLimit)
	}
	if len(cfg.Security.APIKeys) != 0 {
		t.Errorf("Security.APIKeys = %v, want empty", cfg.Security.APIKeys)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
server:
  port: 9000
  debug: true
lookup:
  timeout: 45s
  port_priority:
    - USSEA
    - USOAK
rules:
  file: /etc/boxtrace/tariffs.yaml
credentials:
  USLAX/APM:
    api_key: test-key
  USLGB:
    username: lgb-user
    password: lgb-pass
security:
  api_keys:
    - secret-1
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if !cfg.Server.Debug {
		t.Error("Server.Debug = false, want true")
	}
	if cfg.Lookup.Timeout != 45*time.Second {
		t.Errorf("Lookup.Timeout = %v, want 45s", cfg.Lookup.Timeout)
	}
	if len(cfg.Lookup.PortPriority) != 2 || cfg.Lookup.PortPriority[0] != "USSEA" {
		t.Errorf("Lookup.PortPriority = %v, want [USSEA USOAK]", cfg.Lookup.PortPriority)
	}
	if cfg.Rules.File != "/etc/boxtrace/tariffs.yaml" {
		t.Errorf("Rules.File = %q", cfg.Rules.File)
	}
	if cfg.Credentials["USLAX/APM"].APIKey != "test-key" {
		t.Errorf("Credentials[USLAX/APM].APIKey = %q, want test-key", cfg.Credentials["USLAX/APM"].APIKey)
	}
	if cfg.Credentials["USLGB"].Username != "lgb-user" {
		t.Errorf("Credentials[USLGB].Username = %q, want lgb-user", cfg.Credentials["USLGB"].Username)
	}
	if len(cfg.Security.APIKeys) != 1 {
		t.Errorf("Security.APIKeys = %v, want one key", cfg.Security.APIKeys)
	}
}

func TestLoadMissingExplicitFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8090 {
		t.Errorf("Server.Port = %d, want default 8090", cfg.Server.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BT_SERVER_PORT", "9999")
	t.Setenv("BT_LOOKUP_TIMEOUT", "1m")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999 from environment", cfg.Server.Port)
	}
	if cfg.Lookup.Timeout != time.Minute {
		t.Errorf("Lookup.Timeout = %v, want 1m from environment", cfg.Lookup.Timeout)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "port out of range",
			content: "server:\n  port: 70000\n",
		},
		{
			name:    "zero lookup timeout",
			content: "lookup:\n  timeout: 0s\n",
		},
		{
			name:    "malformed port priority code",
			content: "lookup:\n  port_priority:\n    - LAX\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() succeeded, want validation error")
			}
		})
	}
}
