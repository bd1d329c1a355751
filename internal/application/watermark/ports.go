package watermark

import (
	"context"
	"io"
)

// Processor is an application port for the external media toolchain.
type Processor interface {
	ProbeDuration(ctx context.Context, inputPath string) (float64, bool)
	WatermarkImage(ctx context.Context, inputPath, text string) (string, error)
	WatermarkVideo(ctx context.Context, inputPath, text string, moving bool) (string, error)
	WatermarkVideoWithProgress(ctx context.Context, inputPath, text string, moving bool, duration float64, onProgress func(int)) (string, error)
}

// UploadStore is an application port for persisting and cleaning up
// uploaded source files.
type UploadStore interface {
	SaveUpload(r io.Reader, originalName string) (string, error)
	Remove(path string) error
}
