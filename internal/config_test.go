package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Governance.DriftThreshold != 0.4 {
		t.Errorf("expected drift threshold 0.4, got %v", cfg.Governance.DriftThreshold)
	}
	if cfg.Governance.SimilarityThreshold != 0.90 {
		t.Errorf("expected similarity threshold 0.90, got %v", cfg.Governance.SimilarityThreshold)
	}
	if cfg.Governance.MinStreamingCheck != 50 {
		t.Errorf("expected min streaming check 50, got %d", cfg.Governance.MinStreamingCheck)
	}
	if cfg.Providers == nil {
		t.Error("expected providers map to be initialized")
	}
	if len(cfg.Providers) != 0 {
		t.Errorf("expected 0 providers, got %d", len(cfg.Providers))
	}
}

func TestConfigSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	hooksPath := filepath.Join(tmpDir, ".hooks")
	if err := os.MkdirAll(hooksPath, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	scope := Scope{
		Type:      ScopeProject,
		Path:      tmpDir,
		HooksPath: hooksPath,
	}

	cfg := DefaultConfig()
	cfg.DefaultProvider = "test-provider"
	cfg.Governance.DriftThreshold = 0.6
	cfg.Providers["myp"] = ProviderConfig{
		APIKey: "sk-test",
		Model:  "gpt-4",
	}

	if err := SaveConfig(scope, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadConfig(scope)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.DefaultProvider != "test-provider" {
		t.Errorf("default provider = %q, want %q", loaded.DefaultProvider, "test-provider")
	}
	if loaded.Governance.DriftThreshold != 0.6 {
		t.Errorf("drift threshold = %v, want 0.6", loaded.Governance.DriftThreshold)
	}
	if p, ok := loaded.Providers["myp"]; !ok {
		t.Error("expected provider 'myp' to exist")
	} else {
		if p.APIKey != "sk-test" {
			t.Errorf("api key = %q, want %q", p.APIKey, "sk-test")
		}
		if p.Model != "gpt-4" {
			t.Errorf("model = %q, want %q", p.Model, "gpt-4")
		}
	}
}

func TestLoadConfigMissing(t *testing.T) {
	tmpDir := t.TempDir()
	hooksPath := filepath.Join(tmpDir, ".hooks")
	if err := os.MkdirAll(hooksPath, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	scope := Scope{
		Type:      ScopeProject,
		Path:      tmpDir,
		HooksPath: hooksPath,
	}

	cfg, err := LoadConfig(scope)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Should return default config when file doesn't exist
	if cfg.Governance.DriftThreshold != 0.4 {
		t.Errorf("expected default drift threshold, got %v", cfg.Governance.DriftThreshold)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	hooksPath := filepath.Join(tmpDir, ".hooks")
	if err := os.MkdirAll(hooksPath, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	scope := Scope{
		Type:      ScopeProject,
		Path:      tmpDir,
		HooksPath: hooksPath,
	}

	configPath := scope.ConfigPath()
	if err := os.WriteFile(configPath, []byte("{{invalid yaml:::"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadConfig(scope)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestGovernanceParamsFallback(t *testing.T) {
	tmpDir := t.TempDir()
	hooksPath := filepath.Join(tmpDir, ".hooks")
	if err := os.MkdirAll(hooksPath, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	scope := Scope{
		Type:      ScopeProject,
		Path:      tmpDir,
		HooksPath: hooksPath,
	}

	// Minimal config with only one governance field set
	configPath := scope.ConfigPath()
	if err := os.WriteFile(configPath, []byte("governance:\n  drift_threshold: 0.7\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(scope)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	params := cfg.GovernanceParams()
	if params.DriftThreshold != 0.7 {
		t.Errorf("drift threshold = %v, want 0.7", params.DriftThreshold)
	}
	if params.SimilarityThreshold != 0.90 {
		t.Errorf("similarity threshold = %v, want default 0.90", params.SimilarityThreshold)
	}
	if params.MinStreamingCheck != 50 {
		t.Errorf("min streaming check = %d, want default 50", params.MinStreamingCheck)
	}

	// Providers should be initialized to empty map even if not in YAML
	if cfg.Providers == nil {
		t.Error("expected providers to be initialized")
	}
}
