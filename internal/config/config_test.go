package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().ValidateConfig(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qua.yaml")
	in := "" +
		"logger:\n" +
		"  level: debug\n" +
		"export:\n" +
		"  midi:\n" +
		"    baseKey: 60\n"
	if err := os.WriteFile(path, []byte(in), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logger.Level)
	}
	if cfg.Logger.Encoding != "console" {
		t.Errorf("encoding = %q, want default console", cfg.Logger.Encoding)
	}
	if cfg.Export.MIDI.BaseKey != 60 || cfg.Export.MIDI.Velocity != 100 {
		t.Errorf("midi = %+v", cfg.Export.MIDI)
	}
	if cfg.Apply.MaxParallel != 2 {
		t.Errorf("maxParallel = %d, want 2", cfg.Apply.MaxParallel)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("QUA_LOG_LEVEL", "WARN")
	t.Setenv("QUA_MAX_PARALLEL", "8")
	t.Setenv("QUA_RUN_DIR", "/tmp/runs")
	t.Setenv("QUA_LOG_MODE", "file")
	t.Setenv("QUA_LOG_FILE", "qua.log")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if cfg.Logger.Level != "warn" || cfg.Apply.MaxParallel != 8 || cfg.Apply.RunDir != "/tmp/runs" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if err := cfg.ValidateConfig(); err != nil {
		t.Fatalf("overridden config should validate: %v", err)
	}
}

func TestApplyEnvOverridesIgnoresBadInt(t *testing.T) {
	t.Setenv("QUA_MAX_PARALLEL", "many")
	cfg := Default()
	cfg.ApplyEnvOverrides()
	if cfg.Apply.MaxParallel != 2 {
		t.Fatalf("maxParallel = %d, want 2", cfg.Apply.MaxParallel)
	}
}

func TestValidateConfigCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Logger.Level = "loud"
	cfg.Logger.Mode = "file"
	cfg.Apply.MaxParallel = 0
	cfg.Export.MIDI.Channel = 16

	err := cfg.ValidateConfig()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"logger.level", "logger.file.path", "apply.maxParallel", "export.midi.channel"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}
