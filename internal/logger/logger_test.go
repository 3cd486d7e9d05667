package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatJSON})
	log.Info("loaded catalog", "herbs", 3)

	assert.Contains(t, buf.String(), `"msg":"loaded catalog"`)
	assert.Contains(t, buf.String(), `"herbs":3`)
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatText})
	log.Warn("catalog missing")

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), `msg="catalog missing"`)
}

func TestAutoFormatNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatAuto})
	log.Info("x")

	assert.Contains(t, buf.String(), `"msg":"x"`)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatJSON, Level: "warn"})
	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestFileCopy(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "herbarium.log")
	log, closer := Open(Config{Writer: &buf, Format: FormatText, File: path})
	log = log.With("run_id", "01TEST")
	log.Info("merged catalog", "new", 2)
	log.Debug("below level")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"merged catalog"`)
	assert.Contains(t, string(data), `"run_id":"01TEST"`)
	assert.NotContains(t, string(data), "below level")
	assert.Contains(t, buf.String(), `msg="merged catalog"`)
}

func TestOpenWithoutFile(t *testing.T) {
	var buf bytes.Buffer
	log, closer := Open(Config{Writer: &buf, Format: FormatJSON})
	log.Info("console only")

	assert.NoError(t, closer.Close())
	assert.Contains(t, buf.String(), `"msg":"console only"`)
}

func TestNewIgnoresFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unused.log")
	New(Config{Writer: &bytes.Buffer{}, File: path}).Info("x")

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "New must not open a file it cannot close")
}
