package config

import (
	"os"
	"path/filepath"
	"testing"
)

// validConfig returns a Config that passes validation, for tests to
// break one field at a time.
func validConfig() *Config {
	cfg := &Config{}
	cfg.Auth.JWTSecret = testSecret
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("Expected valid config, got: %v", err)
	}
}

func TestValidate_RemoteEnabledWithoutToken(t *testing.T) {
	cfg := validConfig()
	cfg.Remote.Enabled = true
	cfg.Remote.Token = ""

	if err := Validate(cfg); err == nil {
		t.Error("Expected error for enabled remote without token")
	}
}

func TestValidate_RemoteEnabledWithToken(t *testing.T) {
	cfg := validConfig()
	cfg.Remote.Enabled = true
	cfg.Remote.Token = "abcd1234"

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected valid config, got: %v", err)
	}
}

func TestValidate_BadgerWithoutPath(t *testing.T) {
	cfg := validConfig()
	cfg.Blob.Type = "badger"

	if err := Validate(cfg); err == nil {
		t.Error("Expected error for badger store without path")
	}
}

func TestValidate_S3WithoutBucket(t *testing.T) {
	cfg := validConfig()
	cfg.Blob.Type = "s3"
	cfg.Blob.S3 = map[string]any{"region": "eu-west-1"}

	if err := Validate(cfg); err == nil {
		t.Error("Expected error for s3 store without bucket")
	}
}

func TestValidate_MissingDatasetFile(t *testing.T) {
	cfg := validConfig()
	cfg.Baseline.DatasetFile = filepath.Join(t.TempDir(), "missing.yaml")

	if err := Validate(cfg); err == nil {
		t.Error("Expected error for unreadable dataset file")
	}
}

func TestValidate_ExistingDatasetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	if err := os.WriteFile(path, []byte("entries: []\n"), 0644); err != nil {
		t.Fatalf("Failed to write dataset file: %v", err)
	}

	cfg := validConfig()
	cfg.Baseline.DatasetFile = path

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected valid config, got: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 70000

	if err := Validate(cfg); err == nil {
		t.Error("Expected error for out-of-range port")
	}
}
