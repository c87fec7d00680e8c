package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamPrinter_Messages(t *testing.T) {
	tests := []struct {
		name  string
		print func(p *StreamPrinter) error
		want  string
	}{
		{name: "progress", print: func(p *StreamPrinter) error { return p.PrintProgress("生成中") }, want: "⏳ 生成中\n"},
		{name: "info", print: func(p *StreamPrinter) error { return p.PrintInfo("2 files") }, want: "ℹ️  2 files\n"},
		{name: "success", print: func(p *StreamPrinter) error { return p.PrintSuccess("done") }, want: "✅ done\n"},
		{name: "warning", print: func(p *StreamPrinter) error { return p.PrintWarning("bad pattern") }, want: "⚠️  bad pattern\n"},
		{name: "error", print: func(p *StreamPrinter) error { return p.PrintError("boom") }, want: "❌ Error: boom\n"},
		{name: "newline", print: func(p *StreamPrinter) error { return p.Newline() }, want: "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printer := NewStreamPrinter(&buf, WithColor(false))
			require.NoError(t, tt.print(printer))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestStreamPrinter_PrintDetail_VerboseOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewStreamPrinter(&buf, WithColor(false)).PrintDetail("hidden"))
	assert.Empty(t, buf.String())

	require.NoError(t, NewStreamPrinter(&buf, WithColor(false), WithVerbose(true)).PrintDetail("shown"))
	assert.Equal(t, "   shown\n", buf.String())
}

func TestStreamPrinter_PrintStats(t *testing.T) {
	start := time.Now()

	t.Run("reported usage", func(t *testing.T) {
		var buf bytes.Buffer
		stats := &ExecutionStats{
			StartTime:        start,
			EndTime:          start.Add(1500 * time.Millisecond),
			PromptTokens:     1200,
			CompletionTokens: 80,
			TotalTokens:      1280,
		}
		require.NoError(t, NewStreamPrinter(&buf, WithColor(false)).PrintStats(stats))
		assert.Contains(t, buf.String(), "1280 tokens (prompt: 1200, completion: 80)")
		assert.Contains(t, buf.String(), "1.50s")
	})

	t.Run("estimated usage", func(t *testing.T) {
		var buf bytes.Buffer
		stats := &ExecutionStats{StartTime: start, EndTime: start.Add(250 * time.Millisecond), PromptTokens: 10, TotalTokens: 10, Estimated: true}
		require.NoError(t, NewStreamPrinter(&buf, WithColor(false)).PrintStats(stats))
		assert.Contains(t, buf.String(), "tokens (estimated)")
		assert.Contains(t, buf.String(), "250ms")
	})

	t.Run("nil stats", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewStreamPrinter(&buf).PrintStats(nil))
		assert.Empty(t, buf.String())
	})
}
