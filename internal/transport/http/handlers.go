package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"watermarkd/internal/application/watermark"
	mediadomain "watermarkd/internal/domain/media"
)

type watermarkUseCases interface {
	WatermarkImage(ctx context.Context, upload io.Reader, originalFilename, text string) (string, string, error)
	SubmitVideo(upload io.Reader, originalFilename, text string, moving bool) (string, error)
	Status(id string) (mediadomain.Job, error)
	Artifact(id string) (mediadomain.Job, error)
}

type Handler struct {
	service        watermarkUseCases
	maxUploadBytes int64
}

// NewHandler wires HTTP handlers with the watermark use cases.
func NewHandler(service watermarkUseCases, maxUploadBytes int64) *Handler {
	return &Handler{service: service, maxUploadBytes: maxUploadBytes}
}

// WatermarkImage handles POST /watermark/image. The artifact is
// rendered synchronously and returned in the response body.
func (h *Handler) WatermarkImage(w http.ResponseWriter, r *http.Request) {
	file, header, text, ok := h.parseUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	if !mediadomain.IsImageUpload(header.Header.Get("Content-Type"), header.Filename) {
		http.Error(w, "File must be an image", http.StatusBadRequest)
		return
	}

	outputPath, downloadName, err := h.service.WatermarkImage(r.Context(), file, header.Filename, text)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(downloadName))
	streamFile(w, r, outputPath, contentTypeFor(outputPath))
}

// WatermarkVideo handles POST /watermark/video. Processing runs in the
// background; the response carries the job id for status polling.
func (h *Handler) WatermarkVideo(w http.ResponseWriter, r *http.Request) {
	file, header, text, ok := h.parseUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	if !mediadomain.IsVideoUpload(header.Header.Get("Content-Type"), header.Filename) {
		http.Error(w, "File must be a video", http.StatusBadRequest)
		return
	}

	moving, _ := strconv.ParseBool(r.FormValue("moving_watermark"))

	id, err := h.service.SubmitVideo(file, header.Filename, text, moving)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{
		"task_id":    id,
		"status_url": "/status/" + id,
	})
}

// Status handles GET /status/{id}.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.Status(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	switch job.Status {
	case mediadomain.StatusCompleted:
		writeJSON(w, map[string]interface{}{
			"status":       job.Status,
			"download_url": "/download/" + job.ID,
		})
	case mediadomain.StatusError:
		writeJSON(w, map[string]interface{}{
			"status":   job.Status,
			"progress": job.Progress,
			"error":    job.Error,
		})
	default:
		writeJSON(w, map[string]interface{}{
			"status":   job.Status,
			"progress": job.Progress,
		})
	}
}

// Download handles GET /download/{id}.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.Artifact(mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, watermark.ErrJobNotReady) {
			http.Error(w, "File not ready", http.StatusBadRequest)
			return
		}
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(job.DownloadName()))
	streamFile(w, r, job.OutputPath, contentTypeFor(job.OutputPath))
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// parseUpload extracts the file part and watermark text common to both
// submission endpoints. Reports false after writing the error response.
func (h *Handler) parseUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file upload", http.StatusBadRequest)
		return nil, nil, "", false
	}

	text := strings.TrimSpace(r.FormValue("watermark_text"))
	if text == "" {
		_ = file.Close()
		http.Error(w, "Missing watermark text", http.StatusBadRequest)
		return nil, nil, "", false
	}

	return file, header, text, true
}

// Go's builtin mime table has no entries for most video containers;
// resolve those explicitly instead of depending on the host's
// /etc/mime.types.
var videoContentTypes = map[string]string{
	".mp4":  "video/mp4",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".webm": "video/webm",
}

func contentTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if contentType, ok := videoContentTypes[ext]; ok {
		return contentType
	}
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}
	return "application/octet-stream"
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
