package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type FileLoggerConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"maxSize"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"`
	Compress   bool   `yaml:"compress"`
}

type LoggerConfig struct {
	Level    string           `yaml:"level"`
	Encoding string           `yaml:"encoding"`
	Mode     string           `yaml:"mode"`
	File     FileLoggerConfig `yaml:"file"`
}

type ApplyConfig struct {
	MaxParallel int    `yaml:"maxParallel"`
	RunDir      string `yaml:"runDir"`
}

type MIDIConfig struct {
	Channel  uint8 `yaml:"channel"`
	BaseKey  uint8 `yaml:"baseKey"`
	Velocity uint8 `yaml:"velocity"`
	// NoteLength is the length in milliseconds of notes that are not held.
	NoteLength int `yaml:"noteLength"`
}

type ExportConfig struct {
	MIDI MIDIConfig `yaml:"midi"`
}

type Config struct {
	Logger LoggerConfig `yaml:"logger"`
	Apply  ApplyConfig  `yaml:"apply"`
	Export ExportConfig `yaml:"export"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logger: LoggerConfig{
			Level:    "info",
			Encoding: "console",
			Mode:     "stdout",
			File: FileLoggerConfig{
				MaxSize:    10,
				MaxBackups: 3,
				MaxAge:     28,
			},
		},
		Apply: ApplyConfig{
			MaxParallel: 2,
			RunDir:      ".",
		},
		Export: ExportConfig{
			MIDI: MIDIConfig{
				Channel:    9,
				BaseKey:    36,
				Velocity:   100,
				NoteLength: 100,
			},
		},
	}
}

// LoadConfig reads the YAML file at path on top of Default(). Keys missing
// from the file keep their default value.
//
// This performs only syntactic parsing; call ValidateConfig afterwards.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides:
//
//	QUA_LOG_LEVEL     -> cfg.Logger.Level
//	QUA_LOG_ENCODING  -> cfg.Logger.Encoding
//	QUA_LOG_MODE      -> cfg.Logger.Mode
//	QUA_LOG_FILE      -> cfg.Logger.File.Path
//	QUA_MAX_PARALLEL  -> cfg.Apply.MaxParallel
//	QUA_RUN_DIR       -> cfg.Apply.RunDir
//
// Values that fail to parse are ignored.
func (cfg *Config) ApplyEnvOverrides() {
	if v := os.Getenv("QUA_LOG_LEVEL"); v != "" {
		cfg.Logger.Level = strings.ToLower(v)
	}
	if v := os.Getenv("QUA_LOG_ENCODING"); v != "" {
		cfg.Logger.Encoding = v
	}
	if v := os.Getenv("QUA_LOG_MODE"); v != "" {
		cfg.Logger.Mode = v
	}
	if v := os.Getenv("QUA_LOG_FILE"); v != "" {
		cfg.Logger.File.Path = v
	}
	if v := os.Getenv("QUA_MAX_PARALLEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Apply.MaxParallel = n
		}
	}
	if v := os.Getenv("QUA_RUN_DIR"); v != "" {
		cfg.Apply.RunDir = v
	}
}

// ValidateConfig checks ranges and enum-like fields. All problems are
// reported together in a single error.
func (cfg *Config) ValidateConfig() error {
	var errs []string

	switch cfg.Logger.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid logger.level: %s", cfg.Logger.Level))
	}
	switch cfg.Logger.Encoding {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid logger.encoding: %s", cfg.Logger.Encoding))
	}
	switch cfg.Logger.Mode {
	case "stdout":
	case "file":
		if cfg.Logger.File.Path == "" {
			errs = append(errs, "logger.file.path is required when mode=file")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid logger.mode: %s", cfg.Logger.Mode))
	}
	if cfg.Logger.File.MaxSize < 0 || cfg.Logger.File.MaxBackups < 0 || cfg.Logger.File.MaxAge < 0 {
		errs = append(errs, "logger.file.* values must be non-negative")
	}

	if cfg.Apply.MaxParallel <= 0 {
		errs = append(errs, "apply.maxParallel must be > 0")
	}
	if cfg.Apply.RunDir == "" {
		errs = append(errs, "apply.runDir must not be empty")
	}

	m := cfg.Export.MIDI
	if m.Channel > 15 {
		errs = append(errs, fmt.Sprintf("export.midi.channel must be in [0,15], got %d", m.Channel))
	}
	if m.BaseKey > 127 {
		errs = append(errs, fmt.Sprintf("export.midi.baseKey must be in [0,127], got %d", m.BaseKey))
	}
	if m.Velocity == 0 || m.Velocity > 127 {
		errs = append(errs, fmt.Sprintf("export.midi.velocity must be in [1,127], got %d", m.Velocity))
	}
	if m.NoteLength <= 0 {
		errs = append(errs, "export.midi.noteLength must be > 0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
