package media

// Status describes the lifecycle of a watermark job.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Job tracks one asynchronous video-watermark request from submission
// to its terminal state.
type Job struct {
	ID               string
	Status           Status
	Progress         int
	OutputPath       string
	OriginalFilename string
	MovingWatermark  bool
	Error            string
}

// Terminal reports whether the job reached a final state.
func (j Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusError
}

// DownloadName builds the filename offered to the client when the
// artifact is fetched.
func (j Job) DownloadName() string {
	name := j.OriginalFilename
	if name == "" {
		name = "video.mp4"
	}
	if j.MovingWatermark {
		return "moving_watermarked_" + name
	}
	return "watermarked_" + name
}
