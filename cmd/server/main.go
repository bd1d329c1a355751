package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"watermarkd/internal/application/watermark"
	"watermarkd/internal/config"
	"watermarkd/internal/infrastructure/ffmpeg"
	"watermarkd/internal/infrastructure/filesystem"
	"watermarkd/internal/log"
	httptransport "watermarkd/internal/transport/http"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := log.New("watermarkd", cfg.LogLevel)

	store := filesystem.NewStore(cfg.UploadsDir, cfg.OutputDir)
	if err := store.EnsureDirs(); err != nil {
		logger.Fatal().Err(err).Msg("storage init failed")
	}

	processor := ffmpeg.NewWatermarker(cfg.FFmpegPath, cfg.FFprobePath, cfg.OutputDir)
	service := watermark.NewService(store, processor, logger)

	handler := httptransport.NewHandler(service, int64(cfg.MaxUploadMB)<<20)
	router := httptransport.NewRouter(handler)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Info().Str("addr", cfg.ServerAddr).Msg("server started")
	if err := http.ListenAndServe(cfg.ServerAddr, c.Handler(router)); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
