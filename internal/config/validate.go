package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"

	"github.com/vibecode-law/vibecode-law-sub004/pkg/model"
)

// Validate checks the settings statically.
// Returns non-fatal warnings, and an error when the config cannot be used.
func (c *Config) Validate() (warnings []string, err error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}

	if _, err := model.ParseFormat(c.TranscriptFormat); err != nil {
		return warnings, fmt.Errorf("transcript_format: %w", err)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return warnings, fmt.Errorf("log.level: %w", err)
	}

	if c.Workers > 32 {
		warnings = append(warnings, fmt.Sprintf("workers = %d is high for file imports", c.Workers))
	}

	if st, serr := os.Stat(c.OutputDir); serr != nil {
		if os.IsNotExist(serr) {
			warnings = append(warnings, fmt.Sprintf("output_dir does not exist yet, it will be created: %s", c.OutputDir))
		} else {
			return warnings, fmt.Errorf("cannot access output_dir %s: %w", c.OutputDir, serr)
		}
	} else if !st.IsDir() {
		return warnings, fmt.Errorf("output_dir is not a directory: %s", c.OutputDir)
	}

	if c.Database.Enabled {
		if info, serr := os.Stat(c.Database.Path); serr == nil && info.IsDir() {
			return warnings, fmt.Errorf("database.path is a directory: %s", c.Database.Path)
		}
		parent := filepath.Dir(c.Database.Path)
		if st, serr := os.Stat(parent); serr != nil {
			if os.IsNotExist(serr) {
				warnings = append(warnings, fmt.Sprintf("database directory does not exist yet, it will be created: %s", parent))
			} else {
				return warnings, fmt.Errorf("cannot access database directory %s: %w", parent, serr)
			}
		} else if !st.IsDir() {
			return warnings, fmt.Errorf("database parent is not a directory: %s", parent)
		}
	}

	return warnings, nil
}
