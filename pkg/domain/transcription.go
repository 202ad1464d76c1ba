package domain

import "time"

// JobStatus tracks the lifecycle of a transcription job.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"

	// JobTimeout is a caller-side outcome: the job may still complete later,
	// but the caller stopped waiting. Distinct from JobFailed.
	JobTimeout JobStatus = "timeout"
)

// TranscriptionJob is one queued transcription request. Fields are set once
// at submission; only the worker produces the corresponding result.
type TranscriptionJob struct {
	RequestID   string        `json:"request_id"`
	VideoID     string        `json:"video_id"`
	MaxDuration time.Duration `json:"max_duration"`
	SubmittedAt time.Time     `json:"submitted_at"`
}

// TranscriptionResult is the terminal outcome of a job, stored by request id.
type TranscriptionResult struct {
	RequestID      string    `json:"request_id"`
	VideoID        string    `json:"video_id"`
	Status         JobStatus `json:"status"`
	Transcript     string    `json:"transcript,omitempty"`
	Error          string    `json:"error,omitempty"`
	ProcessingSecs float64   `json:"processing_time"`
}
