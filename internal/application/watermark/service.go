package watermark

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"watermarkd/internal/domain/media"
)

var (
	// ErrJobNotFound marks lookups for an unknown job id.
	ErrJobNotFound = errors.New("job not found")
	// ErrJobNotReady marks artifact fetches before the job completed.
	ErrJobNotReady = errors.New("job not ready")
)

const startedProgress = 5

// Service handles watermarking use cases.
type Service struct {
	store  UploadStore
	proc   Processor
	logger zerolog.Logger
	jobs   *jobStore
}

// NewService creates the watermark use-case service with injected ports.
func NewService(store UploadStore, proc Processor, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		proc:   proc,
		logger: logger,
		jobs:   newJobStore(),
	}
}

// WatermarkImage stores the upload, renders the watermark synchronously
// and returns the artifact path plus the suggested download name. The
// stored upload is removed before returning.
func (s *Service) WatermarkImage(ctx context.Context, upload io.Reader, originalFilename, text string) (string, string, error) {
	inputPath, err := s.store.SaveUpload(upload, originalFilename)
	if err != nil {
		return "", "", err
	}
	defer func() { _ = s.store.Remove(inputPath) }()

	outputPath, err := s.proc.WatermarkImage(ctx, inputPath, text)
	if err != nil {
		s.logger.Error().Err(err).Str("file", originalFilename).Msg("image watermark failed")
		return "", "", err
	}
	return outputPath, "watermarked_" + originalFilename, nil
}

// SubmitVideo stores the upload, registers a job record and schedules
// the watermark run in the background. Returns the job id immediately;
// progress is observable through Status while the run is still going.
func (s *Service) SubmitVideo(upload io.Reader, originalFilename, text string, moving bool) (string, error) {
	inputPath, err := s.store.SaveUpload(upload, originalFilename)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	s.jobs.Create(id, originalFilename, moving)
	s.logger.Info().Str("job", id).Str("file", originalFilename).Bool("moving", moving).Msg("watermark job accepted")

	go s.runJob(id, inputPath, text, moving)

	return id, nil
}

// Status returns a snapshot of the job record.
func (s *Service) Status(id string) (media.Job, error) {
	job, ok := s.jobs.Get(id)
	if !ok {
		return media.Job{}, ErrJobNotFound
	}
	return job, nil
}

// Artifact returns the job record once its artifact can be downloaded.
func (s *Service) Artifact(id string) (media.Job, error) {
	job, ok := s.jobs.Get(id)
	if !ok {
		return media.Job{}, ErrJobNotFound
	}
	if job.Status != media.StatusCompleted {
		return media.Job{}, ErrJobNotReady
	}
	return job, nil
}

// runJob drives one subprocess invocation for a job. Every exit path
// leaves the record in a terminal state and removes the uploaded input.
func (s *Service) runJob(id, inputPath, text string, moving bool) {
	defer func() { _ = s.store.Remove(inputPath) }()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("job", id).Interface("panic", r).Msg("watermark job panicked")
			s.jobs.Fail(id, fmt.Errorf("watermark job panicked: %v", r))
		}
	}()

	ctx := context.Background()

	var outputPath string
	var err error
	if duration, ok := s.proc.ProbeDuration(ctx, inputPath); ok {
		s.jobs.Progress(id, startedProgress)
		outputPath, err = s.proc.WatermarkVideoWithProgress(ctx, inputPath, text, moving, duration, func(percent int) {
			s.jobs.Progress(id, percent)
		})
	} else {
		// Duration unknown: run without incremental progress and jump
		// straight to 100 on success.
		outputPath, err = s.proc.WatermarkVideo(ctx, inputPath, text, moving)
	}

	if err != nil {
		s.logger.Error().Err(err).Str("job", id).Msg("watermark job failed")
		s.jobs.Fail(id, err)
		return
	}

	s.jobs.Complete(id, outputPath)
	s.logger.Info().Str("job", id).Str("output", outputPath).Msg("watermark job finished")
}

// jobStore is the in-memory job registry shared by submission,
// processing and polling. Records are never evicted; job state is
// process-local by design.
type jobStore struct {
	mu   sync.Mutex
	jobs map[string]*media.Job
}

func newJobStore() *jobStore {
	return &jobStore{jobs: make(map[string]*media.Job)}
}

func (j *jobStore) Create(id, originalFilename string, moving bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.jobs[id] = &media.Job{
		ID:               id,
		Status:           media.StatusProcessing,
		OriginalFilename: originalFilename,
		MovingWatermark:  moving,
	}
}

// Get returns a copy so callers never observe concurrent mutation.
func (j *jobStore) Get(id string) (media.Job, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	job, ok := j.jobs[id]
	if !ok {
		return media.Job{}, false
	}
	return *job, true
}

// Progress raises the percentage of a running job. Values below the
// current one, or updates after a terminal state, are dropped so
// pollers always see a non-decreasing sequence.
func (j *jobStore) Progress(id string, value int) {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	job, ok := j.jobs[id]
	if !ok || job.Status != media.StatusProcessing {
		return
	}
	if value > job.Progress {
		job.Progress = value
	}
}

func (j *jobStore) Complete(id, outputPath string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	job, ok := j.jobs[id]
	if !ok || job.Status != media.StatusProcessing {
		return
	}
	job.Status = media.StatusCompleted
	job.Progress = 100
	job.OutputPath = outputPath
}

func (j *jobStore) Fail(id string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	job, ok := j.jobs[id]
	if !ok || job.Status != media.StatusProcessing {
		return
	}
	job.Status = media.StatusError
	job.Error = err.Error()
}
