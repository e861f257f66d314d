package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lessonVTT = `WEBVTT

1
00:40:01.120 --> 00:40:04.500
Hello and welcome to this lesson.

2
00:40:05.000 --> 00:40:09.250
Today we'll be covering
contract law.
`

type testEnv struct {
	dir    string
	config string
	out    string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		dir:    dir,
		config: filepath.Join(dir, "transcripts.yaml"),
		out:    filepath.Join(dir, "out"),
	}
	t.Setenv("TRANSCRIPTS_OUTPUT_DIR", env.out)
	t.Setenv("TRANSCRIPTS_DB_PATH", filepath.Join(dir, "transcripts.db"))
	t.Setenv("TRANSCRIPTS_LOG_LEVEL", "error")
	return env
}

func (e testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (e testEnv) writeVTT(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(p, []byte(lessonVTT), 0o644))
	return p
}

func TestParseCommand(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "", "parse", env.writeVTT(t, "intro.vtt"))
	require.NoError(t, err)

	var cues []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &cues))
	require.Len(t, cues, 2)
	assert.Equal(t, "2401.120", cues[0]["start_seconds"])
	assert.Equal(t, "2404.500", cues[0]["end_seconds"])
	assert.Equal(t, "Today we'll be covering\ncontract law.", cues[1]["text"])

	_, err = os.Stat(env.config)
	assert.NoError(t, err, "default config should be created")
}

func TestParseCommand_Summary(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "", "parse", "--summary", env.writeVTT(t, "intro.vtt"))
	require.NoError(t, err)
	assert.Contains(t, out, "Count      : 2")
	assert.Contains(t, out, "Text lines : 3")
	assert.Contains(t, out, "First      : 00:40:01")
	assert.Contains(t, out, "Last end   : 00:40:09")
}

func TestParseCommand_EmptyDocument(t *testing.T) {
	env := newTestEnv(t)
	p := filepath.Join(env.dir, "empty.vtt")
	require.NoError(t, os.WriteFile(p, []byte("WEBVTT\n"), 0o644))

	out, err := env.run(t, "", "parse", p)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestImportLinesExport(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "import", "--lesson", "l1", "--title", "Intro", env.writeVTT(t, "intro.vtt"))
	require.NoError(t, err)
	assert.Contains(t, out, "l1\t2 lines")
	assert.FileExists(t, filepath.Join(env.out, "Intro.txt"))

	out, err = env.run(t, "", "lines", "--lesson", "l1")
	require.NoError(t, err)
	var lines []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &lines))
	require.Len(t, lines, 2)
	assert.Equal(t, "2405.000", lines[1]["start_seconds"])
	assert.EqualValues(t, 2, lines[1]["order"])

	out, err = env.run(t, "", "history", "--lesson", "l1")
	require.NoError(t, err)
	assert.Contains(t, out, `"line_count": 2`)

	exportDir := filepath.Join(env.dir, "export")
	out, err = env.run(t, "", "export", "--lesson", "l1", "--format", "md", "--out", exportDir)
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(exportDir, "Intro.md"), path)
	md, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(md), "- **[00:40:01]** Hello and welcome to this lesson.")
}

func TestImportCommand_Batch(t *testing.T) {
	env := newTestEnv(t)
	a := env.writeVTT(t, "week-1.vtt")
	b := env.writeVTT(t, "week-2.vtt")

	out, err := env.run(t, "", "import", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "week-1\t2 lines")
	assert.Contains(t, out, "week-2\t2 lines")

	_, err = env.run(t, "", "import", "--lesson", "x", a, b)
	require.Error(t, err)
}

func TestImportCommand_Stdin(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, lessonVTT, "import", "--lesson", "piped", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "piped\t2 lines")
}

func TestLinesCommand_UnknownLesson(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "", "lines", "--lesson", "nope")
	require.Error(t, err)
}

func TestInitCommand(t *testing.T) {
	env := newTestEnv(t)
	dest := filepath.Join(env.dir, "defaults")

	out, err := env.run(t, "", "init", "--dir", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "written")
	assert.FileExists(t, filepath.Join(dest, "sample.vtt"))
	assert.FileExists(t, filepath.Join(dest, "transcripts.yaml"))

	out, err = env.run(t, "", "init", "--dir", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "unchanged")
}
