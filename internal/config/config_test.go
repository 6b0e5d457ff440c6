package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadUsesDefaultsWithoutConfigFile(t *testing.T) {
	v := viper.New()
	ApplyDefaults(v)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("expected postgres driver, got %q", cfg.Database.Driver)
	}
	if cfg.Chain.Confirmations != 12 {
		t.Fatalf("expected 12 confirmations, got %d", cfg.Chain.Confirmations)
	}
	if cfg.Content.MaxAttempts != 5 {
		t.Fatalf("expected 5 max attempts, got %d", cfg.Content.MaxAttempts)
	}
	if cfg.Chain.PollDuration().Seconds() != 30 {
		t.Fatalf("unexpected poll duration %s", cfg.Chain.PollDuration())
	}
}

func TestLoadReadsEnvironmentOverrides(t *testing.T) {
	t.Setenv("TLI_DATABASE_DRIVER", "sqlite")
	t.Setenv("TLI_DATABASE_PATH", "/tmp/indexer.db")

	v := viper.New()
	ApplyDefaults(v)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected sqlite driver from env, got %q", cfg.Database.Driver)
	}
	if cfg.Database.Path != "/tmp/indexer.db" {
		t.Fatalf("expected path from env, got %q", cfg.Database.Path)
	}
}

func TestLoadReadsContractsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
chain:
  rpc_url: http://localhost:8545
  contracts:
    service:
      address: "0x0000000000000000000000000000000000000abc"
      enabled: true
      block_num: 1200
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	v := viper.New()
	ApplyDefaults(v)
	v.SetConfigFile(path)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	contract, ok := cfg.Chain.Contracts["service"]
	if !ok {
		t.Fatalf("expected service contract to be configured")
	}
	if !contract.Enabled || contract.BlockNum != 1200 {
		t.Fatalf("unexpected contract config: %+v", contract)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	v := viper.New()
	ApplyDefaults(v)
	v.Set("database.driver", "mysql")

	if _, err := Load(v); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
