package media

import (
	"path/filepath"
	"strings"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

var allowedVideoExts = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
}

// IsImageUpload reports whether an upload is acceptable for image
// watermarking, by declared content type or file extension.
func IsImageUpload(contentType, filename string) bool {
	if strings.HasPrefix(contentType, "image/") {
		return true
	}
	return allowedImageExts[normalizeExt(filename)]
}

// IsVideoUpload reports whether an upload is acceptable for video
// watermarking, by declared content type or file extension.
func IsVideoUpload(contentType, filename string) bool {
	if strings.HasPrefix(contentType, "video/") {
		return true
	}
	return allowedVideoExts[normalizeExt(filename)]
}

// OutputName derives the artifact basename from an input path.
func OutputName(inputPath string) string {
	return "watermarked_" + filepath.Base(inputPath)
}

func normalizeExt(filename string) string {
	return strings.ToLower(strings.TrimSpace(filepath.Ext(filename)))
}
