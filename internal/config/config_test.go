package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesDefaultFromEmbedded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, "txt", cfg.TranscriptFormat)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, CurrentConfigVersion, cfg.ConfigVersion)
	assert.Empty(t, cfg.BackupPath())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.yaml")
	data := "transcript_format: MD\nworkers: 0\ndatabase:\n  path: data\\lessons.db\nconfig_version: 1\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "md", cfg.TranscriptFormat)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, filepath.Clean("data/lessons.db"), cfg.Database.Path)
	assert.Equal(t, 15, cfg.Fetch.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\nconfig_version: 1\n"), 0o644))

	t.Setenv("TRANSCRIPTS_WORKERS", "7")
	t.Setenv("TRANSCRIPTS_DB_PATH", "/tmp/other.db")
	t.Setenv("TRANSCRIPTS_LOG_LEVEL", "DEBUG")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "workers: 2\nconfig_version: 1\n", string(b), "env values are not written back")
}

func TestLoad_MigratesOldVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transcript_format: json\nconfig_version: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.TranscriptFormat)
	assert.Equal(t, CurrentConfigVersion, cfg.ConfigVersion)
	require.NotEmpty(t, cfg.BackupPath())
	assert.FileExists(t, cfg.BackupPath())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", again.TranscriptFormat)
	assert.Empty(t, again.BackupPath(), "migrated file must not migrate twice")
}

func TestLoad_BackslashesOnlyInPaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.yaml")
	data := "output_dir: 'lessons\\out'\n" +
		"transcript_format: \"\\x6Dd\"\n" +
		"log:\n  level: \"\\x64ebug\"\n" +
		"database:\n  path: \"data\\\\lessons.db\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("lessons/out"), cfg.OutputDir)
	assert.Equal(t, filepath.Clean("data/lessons.db"), cfg.Database.Path)
	assert.Equal(t, "md", cfg.TranscriptFormat, "escapes in quoted values are decoded by yaml")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.OutputDir = t.TempDir()
	cfg.Database.Path = filepath.Join(t.TempDir(), "t.db")

	warnings, err := cfg.Validate()
	require.NoError(t, err)
	assert.Empty(t, warnings)

	cfg.TranscriptFormat = "srt"
	_, err = cfg.Validate()
	assert.Error(t, err)

	cfg.TranscriptFormat = "vtt"
	cfg.Log.Level = "loud"
	_, err = cfg.Validate()
	assert.Error(t, err)

	cfg.Log.Level = "warn"
	cfg.OutputDir = filepath.Join(t.TempDir(), "later")
	warnings, err = cfg.Validate()
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
}
