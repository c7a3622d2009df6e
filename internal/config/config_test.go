package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func resetGlobalConfig() {
	globalConfig = &Config{
		BindAddr:             "0.0.0.0",
		DatabasePath:         ".vigil",
		MlEndpoint:           "",
		MlTimeout:            DefaultMlTimeout,
		MlFallbackLabel:      "Suspicious",
		VotingWindow:         DefaultVotingWindow,
		MirrorStalenessBound: DefaultMirrorStalenessBound,
		ShutdownTimeout:      DefaultShutdownTimeout,
		ApiPort:              8080,
		MetricsPort:          12798,
	}
}

func TestLoad_CompareFullStruct(t *testing.T) {
	resetGlobalConfig()
	yamlContent := `
bindAddr: "127.0.0.1"
databasePath: ".vigil-test"
mlEndpoint: "http://localhost:5000/predict"
mlTimeout: "5s"
mlFallbackLabel: "Non-Fraud"
votingWindow: "24h"
mirrorStalenessBound: "1m"
shutdownTimeout: "10s"
apiPort: 9090
metricsPort: 8088
tracing: true
tracingStdout: true
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-vigil.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	defer os.Remove(tmpFile)

	expected := &Config{
		BindAddr:             "127.0.0.1",
		DatabasePath:         ".vigil-test",
		MlEndpoint:           "http://localhost:5000/predict",
		MlTimeout:            "5s",
		MlFallbackLabel:      "Non-Fraud",
		VotingWindow:         "24h",
		MirrorStalenessBound: "1m",
		ShutdownTimeout:      "10s",
		ApiPort:              9090,
		MetricsPort:          8088,
		Tracing:              true,
		TracingStdout:        true,
	}

	actual, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !reflect.DeepEqual(actual, expected) {
		t.Errorf(
			"Loaded config does not match expected.\nActual: %+v\nExpected: %+v",
			actual,
			expected,
		)
	}
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	resetGlobalConfig()

	yamlContent := `
apiPort: 9090
mlEndpoint: "http://localhost:5000/predict"
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-partial.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.ApiPort != 9090 {
		t.Errorf("expected ApiPort to be 9090, got: %d", cfg.ApiPort)
	}
	if cfg.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf(
			"expected ShutdownTimeout to keep default %s, got: %s",
			DefaultShutdownTimeout,
			cfg.ShutdownTimeout,
		)
	}
	if cfg.VotingWindow != DefaultVotingWindow {
		t.Errorf(
			"expected VotingWindow to keep default %s, got: %s",
			DefaultVotingWindow,
			cfg.VotingWindow,
		)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	resetGlobalConfig()

	yamlContent := `
mlEndpoint: "http://from-file:5000/predict"
metricsPort: 8088
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-env.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("VIGIL_ML_ENDPOINT", "http://from-env:5000/predict")
	t.Setenv("VIGIL_METRICS_PORT", "9999")

	cfg, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.MlEndpoint != "http://from-env:5000/predict" {
		t.Errorf(
			"expected env to override file for MlEndpoint, got: %s",
			cfg.MlEndpoint,
		)
	}
	if cfg.MetricsPort != 9999 {
		t.Errorf(
			"expected env to override file for MetricsPort, got: %d",
			cfg.MetricsPort,
		)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	resetGlobalConfig()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}

func TestLoad_InvalidYaml(t *testing.T) {
	resetGlobalConfig()

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-invalid.yaml")

	err := os.WriteFile(tmpFile, []byte("{{{"), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := LoadConfig(tmpFile); err == nil {
		t.Fatal("expected error for invalid yaml, got nil")
	}
}
