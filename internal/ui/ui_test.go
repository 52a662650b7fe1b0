package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m))
		out = append(out, m)
	}
	return out
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, false)

	l.Debugf("hidden %d\n", 1)
	l.Infof("Saved %s\n", "a.png")
	l.Warnf("--cbz has no effect with --dry-run")
	l.Errorf("boom")

	got := lines(t, &buf)
	require.Len(t, got, 3)
	assert.Equal(t, "info", got[0]["level"])
	assert.Equal(t, "Saved a.png", got[0]["message"])
	assert.Equal(t, "warn", got[1]["level"])
	assert.Equal(t, "error", got[2]["level"])

	buf.Reset()
	l = NewLoggerTo(&buf, true)
	l.Debugf("shown")
	l.Page("p.png", 3, 2, 42)

	got = lines(t, &buf)
	require.Len(t, got, 2)
	assert.Equal(t, "debug", got[0]["level"])
	assert.Equal(t, "p.png", got[1]["page"])
	assert.EqualValues(t, 3, got[1]["frames"])
	assert.EqualValues(t, 2, got[1]["written"])
}

func TestProgressHandleLifecycle(t *testing.T) {
	pm := NewProgressManager(nil, true)

	h := pm.Register("page_001.png")
	h.SetTotal(3)
	h.Update(1, 3, 100)
	h.Update(3, 3, 300)
	h.MarkDone()
	h.Update(1, 3, 1)
	h.MarkDone()

	failed := pm.Register("page_002.png")
	failed.Update(1, 4, 10)
	failed.Abort()
	failed.MarkDone()

	pm.Close()
	pm.Close()

	assert.EqualValues(t, 300, h.bytes.Load())
	assert.EqualValues(t, 3, h.total.Load())
}

func TestStatsSkipped(t *testing.T) {
	var s Stats
	s.FramesDerived.Add(7)
	s.FramesWritten.Add(5)
	assert.EqualValues(t, 2, s.Skipped())
}
