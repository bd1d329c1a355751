package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"watermarkd/internal/domain/media"
)

// Progress floor set as soon as a monitored run starts, and the ceiling
// held until the process actually exits.
const (
	progressFloor = 5
	progressSpan  = 90
)

// Watermarker wraps ffmpeg/ffprobe calls that render text watermarks.
type Watermarker struct {
	FFmpegPath  string
	FFprobePath string
	OutputDir   string
}

// NewWatermarker creates the ffmpeg adapter. Empty tool paths are
// resolved from PATH, falling back to the bare command name.
func NewWatermarker(ffmpegPath, ffprobePath, outputDir string) *Watermarker {
	if ffmpegPath == "" {
		ffmpegPath = lookupTool("ffmpeg")
	}
	if ffprobePath == "" {
		ffprobePath = lookupTool("ffprobe")
	}
	return &Watermarker{FFmpegPath: ffmpegPath, FFprobePath: ffprobePath, OutputDir: outputDir}
}

// ProbeDuration returns the container duration of a media file in
// seconds. The second result is false whenever the value could not be
// determined; callers degrade to a no-progress run in that case.
func (w *Watermarker) ProbeDuration(ctx context.Context, inputPath string) (float64, bool) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputPath,
	}
	out, err := exec.CommandContext(ctx, w.FFprobePath, args...).Output()
	if err != nil {
		return 0, false
	}
	value := strings.TrimSpace(string(out))
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

// WatermarkImage renders a static text watermark onto an image and
// returns the artifact path. Blocks until ffmpeg exits.
func (w *Watermarker) WatermarkImage(ctx context.Context, inputPath, text string) (string, error) {
	outputPath := filepath.Join(w.OutputDir, media.OutputName(inputPath))
	args := []string{
		"-i", inputPath,
		"-vf", drawtextFilter(text, false),
		"-y", outputPath,
	}
	if err := w.run(ctx, args); err != nil {
		return "", err
	}
	return outputPath, nil
}

// WatermarkVideo renders a text watermark onto a video without
// progress reporting. Used as the fallback when duration is unknown.
func (w *Watermarker) WatermarkVideo(ctx context.Context, inputPath, text string, moving bool) (string, error) {
	args, outputPath := w.watermarkArgs(inputPath, text, moving, false)
	if err := w.run(ctx, args); err != nil {
		return "", err
	}
	return outputPath, nil
}

// WatermarkVideoWithProgress renders a text watermark onto a video and
// reports percentage completion derived from ffmpeg's progress stream.
// onProgress receives values in [5,95] while the process runs; the
// caller pins 100 after a successful exit.
func (w *Watermarker) WatermarkVideoWithProgress(ctx context.Context, inputPath, text string, moving bool, duration float64, onProgress func(int)) (string, error) {
	if duration <= 0 {
		return w.WatermarkVideo(ctx, inputPath, text, moving)
	}

	args, outputPath := w.watermarkArgs(inputPath, text, moving, true)

	cmd := exec.CommandContext(ctx, w.FFmpegPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", err
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return "", err
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		percent, ok := progressFromLine(scanner.Text(), duration)
		if !ok {
			continue
		}
		if onProgress != nil {
			onProgress(percent)
		}
	}

	if err := cmd.Wait(); err != nil {
		return "", fmt.Errorf("ffmpeg failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return outputPath, nil
}

// watermarkArgs builds the ffmpeg argument list for a video run and the
// derived artifact path. The audio stream is copied, never re-encoded.
func (w *Watermarker) watermarkArgs(inputPath, text string, moving, progress bool) ([]string, string) {
	outputPath := filepath.Join(w.OutputDir, media.OutputName(inputPath))

	args := []string{
		"-i", inputPath,
		"-vf", drawtextFilter(text, moving),
		"-codec:a", "copy",
	}
	if progress {
		args = append(args, "-progress", "pipe:1", "-nostats")
	}
	args = append(args, "-y", outputPath)

	return args, outputPath
}

// drawtextFilter builds the overlay expression. The moving variant
// slides right-to-left along the bottom edge; the gte(t,0) guard keeps
// the position NAN (invisible) before playback start.
func drawtextFilter(text string, moving bool) string {
	escaped := escapeDrawtext(text)
	if moving {
		return fmt.Sprintf("drawtext=text='%s':fontcolor=white:fontsize=24:x='if(gte(t,0),w-50*t,NAN)':y=h-30", escaped)
	}
	return fmt.Sprintf("drawtext=text='%s':fontcolor=white:fontsize=24:x=10:y=10", escaped)
}

// escapeDrawtext neutralizes characters that terminate or restructure a
// drawtext option value.
func escapeDrawtext(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
	)
	return replacer.Replace(text)
}

// progressFromLine extracts a percentage from one line of ffmpeg's
// key=value progress stream. Lines that are not an out_time_ms pair, or
// whose value does not parse, report ok=false and must be skipped.
func progressFromLine(line string, duration float64) (int, bool) {
	value, found := strings.CutPrefix(strings.TrimSpace(line), "out_time_ms=")
	if !found {
		return 0, false
	}
	micros, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false
	}

	elapsed := micros / 1e6
	scaled := int(progressSpan * elapsed / duration)
	if scaled < 0 {
		scaled = 0
	}
	if scaled > progressSpan {
		scaled = progressSpan
	}
	return progressFloor + scaled, true
}

func (w *Watermarker) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, w.FFmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.Stdout = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func lookupTool(name string) string {
	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}
