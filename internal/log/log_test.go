package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, debug bool) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prevNoColor := color.NoColor
	color.NoColor = true
	SetOutput(buf)
	SetDebugMode(debug)
	t.Cleanup(func() {
		color.NoColor = prevNoColor
		SetDebugMode(false)
		SetOutput(os.Stderr)
	})
	return buf
}

func TestDebug_OnlyInDebugMode(t *testing.T) {
	buf := captureOutput(t, false)
	Debug("hidden %d", 1)
	DebugSize("truncate", 10, 5)
	DebugDuration("generate", time.Second)
	assert.Empty(t, buf.String())

	SetDebugMode(true)
	Debug("shown %d", 2)
	assert.Contains(t, buf.String(), "[DEBUG] shown 2")
}

func TestDebugSize(t *testing.T) {
	buf := captureOutput(t, true)
	DebugSize("truncate", 12000, 10000)
	DebugSize("redact", 50, 50)

	out := buf.String()
	assert.Contains(t, out, "truncate: 12000 -> 10000 chars")
	assert.Contains(t, out, "redact: 50 chars")
}

func TestDebugPrompt_TruncatesLongText(t *testing.T) {
	buf := captureOutput(t, true)
	DebugPrompt("prompt", strings.Repeat("变", 1000))

	out := buf.String()
	assert.Contains(t, out, "prompt (1000 chars)")
	assert.Contains(t, out, "...")
}

func TestWarnAndError(t *testing.T) {
	buf := captureOutput(t, false)
	Warn("pattern %q skipped", "(")
	Error("boom")
	Info("plain")

	out := buf.String()
	assert.Contains(t, out, `Warning: pattern "(" skipped`)
	assert.Contains(t, out, "Error: boom")
	assert.Contains(t, out, "plain")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	assert.Equal(t, "修改...", truncate("修改内容", 2))
}
