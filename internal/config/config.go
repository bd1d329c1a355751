package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds runtime settings for the server.
type Config struct {
	ServerAddr  string
	UploadsDir  string
	OutputDir   string
	FFmpegPath  string
	FFprobePath string
	MaxUploadMB int
	LogLevel    string
}

// Load reads environment variables and returns normalized runtime config.
func Load() Config {
	return Config{
		ServerAddr:  getEnv("SERVER_ADDR", ":8080"),
		UploadsDir:  getEnv("UPLOADS_DIR", "./uploads"),
		OutputDir:   getEnv("OUTPUT_DIR", "./watermarked"),
		FFmpegPath:  strings.TrimSpace(os.Getenv("FFMPEG_PATH")),
		FFprobePath: strings.TrimSpace(os.Getenv("FFPROBE_PATH")),
		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 512),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	var out int
	_, err := fmt.Sscanf(value, "%d", &out)
	if err != nil || out <= 0 {
		return fallback
	}
	return out
}
