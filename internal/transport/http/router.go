package http

import (
	"github.com/gorilla/mux"
)

// NewRouter configures HTTP routes for the watermarking service.
func NewRouter(handler *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/watermark/image", handler.WatermarkImage).Methods("POST")
	r.HandleFunc("/watermark/video", handler.WatermarkVideo).Methods("POST")
	r.HandleFunc("/status/{id}", handler.Status).Methods("GET")
	r.HandleFunc("/download/{id}", handler.Download).Methods("GET")
	r.HandleFunc("/health", handler.Health).Methods("GET")
	return r
}
