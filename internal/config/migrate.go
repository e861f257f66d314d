package config

import (
	"fmt"
	"os"
	"time"

	"github.com/vibecode-law/vibecode-law-sub004/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// orchestrateConfigUpgrade backs up the file, migrates cfg and writes it back.
func orchestrateConfigUpgrade(cfg *Config, fromVersion int) error {
	if cfg == nil {
		return fmt.Errorf("nil config during migration")
	}
	if cfg.configFilePath == "" {
		return fmt.Errorf("unknown config file path: cannot back it up")
	}

	backupPath, err := backupConfig(cfg.configFilePath)
	if err != nil {
		return fmt.Errorf("backup config before migration: %w", err)
	}

	if err := migrateConfig(cfg, fromVersion); err != nil {
		return fmt.Errorf("migrate config from version %d: %w", fromVersion, err)
	}

	cfg.normalizeConfig()
	cfg.ConfigVersion = CurrentConfigVersion

	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode migrated config: %w", err)
	}

	if err := fsutil.WriteFileAtomic(cfg.configFilePath, b, 0o644); err != nil {
		// restore the backup
		_ = fsutil.WriteFileAtomic(cfg.configFilePath, mustReadFileOrEmpty(backupPath), 0o644)
		return fmt.Errorf("write migrated config %s: %w", cfg.configFilePath, err)
	}

	cfg.backupPath = backupPath
	return nil
}

// mustReadFileOrEmpty returns the file content, or an empty slice on error.
func mustReadFileOrEmpty(path string) []byte {
	if path == "" {
		return []byte{}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return []byte{}
	}
	return b
}

// backupConfig copies the config file next to itself and returns the copy path.
func backupConfig(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read config for backup: %w", err)
	}
	backup := path + ".bak." + time.Now().Format("20060102T150405")
	if err := fsutil.WriteFileAtomic(backup, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup %s: %w", backup, err)
	}
	return backup, nil
}

// migrateConfig applies the steps between versions, one at a time.
func migrateConfig(cfg *Config, from int) error {
	if cfg == nil {
		return fmt.Errorf("no config given")
	}
	for v := from; v < CurrentConfigVersion; v++ {
		switch v {
		case 0:
			// 0 -> 1: no field changed, only config_version is written back
		}
	}
	return nil
}
