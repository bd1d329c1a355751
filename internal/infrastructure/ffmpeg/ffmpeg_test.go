package ffmpeg

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermarkArgs_StaticOverlay(t *testing.T) {
	w := NewWatermarker("ffmpeg", "ffprobe", "./watermarked")

	args, outputPath := w.watermarkArgs("/uploads/abc123.mp4", "demo", false, false)

	require.Equal(t, filepath.Join("./watermarked", "watermarked_abc123.mp4"), outputPath)
	assert.Contains(t, args, "-codec:a")
	assert.Contains(t, args, "copy")
	assert.NotContains(t, args, "-progress")
	assert.Equal(t, outputPath, args[len(args)-1])
	assert.Equal(t, "-y", args[len(args)-2])

	filter := args[3]
	assert.Contains(t, filter, "drawtext=text='demo'")
	assert.Contains(t, filter, "x=10:y=10")
	assert.Contains(t, filter, "fontcolor=white:fontsize=24")
}

func TestWatermarkArgs_ProgressStreamEnabled(t *testing.T) {
	w := NewWatermarker("ffmpeg", "ffprobe", "./watermarked")

	args, _ := w.watermarkArgs("/uploads/abc123.mp4", "demo", false, true)

	assert.Contains(t, args, "-progress")
	assert.Contains(t, args, "pipe:1")
	assert.Contains(t, args, "-nostats")
}

func TestDrawtextFilter_MovingGuardsBeforePlayback(t *testing.T) {
	filter := drawtextFilter("demo", true)

	// Before t=0 the x expression must evaluate to NAN so the overlay
	// never renders prematurely.
	assert.Contains(t, filter, "x='if(gte(t,0),w-50*t,NAN)'")
	assert.Contains(t, filter, "y=h-30")
}

func TestDrawtextFilter_EscapesSpecialCharacters(t *testing.T) {
	filter := drawtextFilter(`it's: mine`, false)

	assert.Contains(t, filter, `text='it\'s\: mine'`)
}

func TestProgressFromLine_Formula(t *testing.T) {
	cases := []struct {
		name     string
		line     string
		duration float64
		percent  int
	}{
		{"halfway", "out_time_ms=5000000", 10, 50},
		{"start", "out_time_ms=0", 10, 5},
		{"past end clamps", "out_time_ms=20000000", 10, 95},
		{"negative clamps", "out_time_ms=-2000000", 10, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			percent, ok := progressFromLine(tc.line, tc.duration)
			require.True(t, ok)
			assert.Equal(t, tc.percent, percent)
		})
	}
}

func TestProgressFromLine_SkipsNonMatchingLines(t *testing.T) {
	for _, line := range []string{
		"frame=120",
		"fps=25.0",
		"out_time_ms=N/A",
		"out_time_ms=",
		"progress=continue",
		"",
	} {
		_, ok := progressFromLine(line, 10)
		assert.False(t, ok, "line %q must be ignored", line)
	}
}
