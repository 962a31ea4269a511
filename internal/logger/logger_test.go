package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T, level LogLevel) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var info, errs bytes.Buffer
	prev := GetLevel()
	SetWriters(&info, &errs)
	SetLevel(level)
	t.Cleanup(func() {
		SetWriters(os.Stdout, os.Stderr)
		SetLevel(prev)
	})
	return &info, &errs
}

func TestLevelsRouteToWriters(t *testing.T) {
	info, errs := captureLogs(t, INFO)

	Debug("hidden")
	Info("loaded rows", 42)
	Warn("unmapped column", "Unnamed: 104")
	Error("merge failed")

	assert.NotContains(t, info.String(), "hidden")
	assert.Contains(t, info.String(), "[INFO] logger_test.go")
	assert.Contains(t, info.String(), "loaded rows 42")
	assert.Contains(t, info.String(), "[WARN]")
	assert.Contains(t, info.String(), "unmapped column Unnamed: 104")
	assert.Contains(t, errs.String(), "[ERROR]")
	assert.NotContains(t, info.String(), "merge failed")
}

func TestNonPrimitiveArgsDumpedAsJSON(t *testing.T) {
	info, _ := captureLogs(t, DEBUG)

	Info("summary", map[string]int{"rows": 3})

	lines := strings.Split(strings.TrimSpace(info.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Contains(t, lines[0], "[Object of type map[string]int]")
	assert.Contains(t, info.String(), `"rows": 3`)
}

func TestWritersDropColourCodes(t *testing.T) {
	info, _ := captureLogs(t, DEBUG)

	Info("plain")

	assert.NotContains(t, info.String(), "\033[")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("warning")
	require.NoError(t, err)
	assert.Equal(t, WARN, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, INFO, lvl)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestSetLogOutputRejectsUnknownType(t *testing.T) {
	err := SetLogOutput('x', "")
	assert.Error(t, err)
}
