package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/vibecode-law/vibecode-law-sub004/internal/assets"
	"github.com/vibecode-law/vibecode-law-sub004/internal/fsutil"
)

const CurrentConfigVersion = 1

// Config holds the transcripts tool settings. YAML first, then TRANSCRIPTS_*
// environment variables on top.
type Config struct {
	// Paths
	OutputDir string `yaml:"output_dir" env:"TRANSCRIPTS_OUTPUT_DIR"`

	// Layout
	SaveInSubdir bool `yaml:"save_in_subdir" env:"TRANSCRIPTS_SAVE_IN_SUBDIR"`

	// Raw sources
	SaveRawVTT bool `yaml:"save_raw_vtt" env:"TRANSCRIPTS_SAVE_RAW_VTT"`

	// Transcript output
	SaveTranscript   bool   `yaml:"save_transcript" env:"TRANSCRIPTS_SAVE_TRANSCRIPT"`
	TranscriptFormat string `yaml:"transcript_format" env:"TRANSCRIPTS_FORMAT"`
	Overwrite        bool   `yaml:"overwrite" env:"TRANSCRIPTS_OVERWRITE"`

	// Clipboard
	CopyToClipboard bool `yaml:"copy_to_clipboard" env:"TRANSCRIPTS_COPY_TO_CLIPBOARD"`

	// Batch imports
	Workers int `yaml:"workers" env:"TRANSCRIPTS_WORKERS"`

	Database struct {
		Enabled bool   `yaml:"enabled" env:"TRANSCRIPTS_DB_ENABLED"`
		Path    string `yaml:"path" env:"TRANSCRIPTS_DB_PATH"`
	} `yaml:"database"`

	Fetch struct {
		TimeoutSeconds int   `yaml:"timeout_seconds" env:"TRANSCRIPTS_FETCH_TIMEOUT_SECONDS"`
		MaxBytes       int64 `yaml:"max_bytes" env:"TRANSCRIPTS_FETCH_MAX_BYTES"`
	} `yaml:"fetch"`

	Log struct {
		Level       string `yaml:"level" env:"TRANSCRIPTS_LOG_LEVEL"`
		Development bool   `yaml:"development" env:"TRANSCRIPTS_LOG_DEVELOPMENT"`
	} `yaml:"log"`

	ConfigVersion int `yaml:"config_version"`

	configFilePath string
	backupPath     string // set when Load migrated the file
}

// defaultConfig is the fallback when the embedded asset is missing fields.
func defaultConfig() *Config {
	c := &Config{}

	c.OutputDir = "."
	c.SaveInSubdir = false
	c.SaveRawVTT = false

	c.SaveTranscript = true
	c.TranscriptFormat = "txt"
	c.Overwrite = false

	c.CopyToClipboard = false
	c.Workers = 4

	c.Database.Enabled = true
	c.Database.Path = "transcripts.db"

	c.Fetch.TimeoutSeconds = 15
	c.Fetch.MaxBytes = 10_000_000

	c.Log.Level = "info"
	c.Log.Development = false

	c.ConfigVersion = CurrentConfigVersion

	return c
}

// Default returns the built-in settings, without touching the disk.
func Default() *Config {
	c := defaultConfig()
	c.normalizeConfig()
	return c
}

// Load reads the config file; a missing file is created from the embedded example.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "transcripts.yaml"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefaultConfigFromEmbedded(path); err != nil {
			return nil, fmt.Errorf("create default config: %w", err)
		}
	}

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// fields missing from the file keep their defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.configFilePath = path

	cfg.normalizeConfig()

	if cfg.ConfigVersion < CurrentConfigVersion {
		if err := orchestrateConfigUpgrade(cfg, cfg.ConfigVersion); err != nil {
			return nil, fmt.Errorf("upgrade config: %w", err)
		}
		cfg.normalizeConfig()
	}

	// environment wins over the file, it is never written back
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalizeConfig()

	return cfg, nil
}

// Path returns the file the config was loaded from, "" for Default().
func (c *Config) Path() string {
	return c.configFilePath
}

// BackupPath returns the backup written by a migration during Load, if any.
func (c *Config) BackupPath() string {
	return c.backupPath
}

// FetchTimeout returns the download timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

func createDefaultConfigFromEmbedded(dstPath string) error {
	b, err := assets.Embedded.ReadFile(assets.DefaultConfigAsset)
	if err != nil {
		return fmt.Errorf("read embedded config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("mkdir for config %s: %w", filepath.Dir(dstPath), err)
	}

	if err := fsutil.WriteFileAtomic(dstPath, b, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", dstPath, err)
	}
	return nil
}

func (c *Config) normalizeConfig() {
	c.OutputDir = filepath.Clean(slashPath(c.OutputDir))

	c.TranscriptFormat = strings.TrimSpace(strings.ToLower(c.TranscriptFormat))
	if c.TranscriptFormat == "" {
		c.TranscriptFormat = "txt"
	}

	if c.Workers <= 0 {
		c.Workers = 1
	}

	c.Database.Path = slashPath(c.Database.Path)
	if c.Database.Path == "" {
		c.Database.Path = "transcripts.db"
	}
	c.Database.Path = filepath.Clean(c.Database.Path)

	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = 15
	}
	if c.Fetch.MaxBytes <= 0 {
		c.Fetch.MaxBytes = 10_000_000
	}

	c.Log.Level = strings.TrimSpace(strings.ToLower(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// slashPath accepts Windows paths written with backslashes.
func slashPath(p string) string {
	return strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
}
