// Package transcribe provides the background transcription queue: a bounded
// FIFO of jobs drained by a single worker goroutine that owns the speech
// model, plus the HTTP server and client that expose it to the pipeline.
package transcribe

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"creator-scout/pkg/domain"
)

// Func turns a video id into a transcript. The speech model behind it is
// opaque to this package. A nil Func puts the service into degraded mode:
// submissions are still accepted, but every job resolves to failed.
type Func func(ctx context.Context, videoID string, maxDuration time.Duration) (string, error)

// ErrQueueFull is returned by Submit when the job queue is at capacity.
var ErrQueueFull = errors.New("transcription queue full")

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("transcription service closed")

// maxStoredResults bounds the results store; when exceeded, the oldest half
// (by insertion order) is evicted. Callers must poll promptly.
const maxStoredResults = 100

// defaultPollInterval is how often Await re-checks for a terminal result.
const defaultPollInterval = 250 * time.Millisecond

// Stats are the service's processing counters.
type Stats struct {
	TotalRequests int `json:"total_requests"`
	Completed     int `json:"completed"`
	Failed        int `json:"failed"`
	QueueSize     int `json:"queue_size"`
}

// Service runs transcription jobs strictly one at a time. The submitting side
// and the worker communicate only through the bounded job channel and the
// mutex-guarded results store; no other state is shared.
type Service struct {
	transcribe Func
	jobs       chan domain.TranscriptionJob

	mu         sync.Mutex
	queued     map[string]bool
	processing string
	results    map[string]domain.TranscriptionResult
	order      []string
	total      int
	completed  int
	failed     int
	closed     bool

	pollInterval time.Duration
	done         chan struct{}
}

// NewService creates a service with the given queue capacity and starts its
// worker. fn may be nil (degraded mode).
func NewService(capacity int, fn Func) *Service {
	if capacity <= 0 {
		capacity = 1
	}
	s := &Service{
		transcribe:   fn,
		jobs:         make(chan domain.TranscriptionJob, capacity),
		queued:       make(map[string]bool),
		results:      make(map[string]domain.TranscriptionResult),
		pollInterval: defaultPollInterval,
		done:         make(chan struct{}),
	}
	go s.worker()
	return s
}

// SetPollInterval adjusts Await's re-check interval (tests shrink it).
func (s *Service) SetPollInterval(d time.Duration) {
	if d > 0 {
		s.pollInterval = d
	}
}

// Submit enqueues a transcription job and returns its request id. It never
// blocks: a full queue fails fast with ErrQueueFull.
func (s *Service) Submit(videoID string, maxDuration time.Duration) (string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrClosed
	}
	s.mu.Unlock()

	job := domain.TranscriptionJob{
		RequestID:   uuid.New().String(),
		VideoID:     videoID,
		MaxDuration: maxDuration,
		SubmittedAt: time.Now(),
	}

	select {
	case s.jobs <- job:
	default:
		return "", ErrQueueFull
	}

	s.mu.Lock()
	s.queued[job.RequestID] = true
	s.total++
	s.mu.Unlock()
	return job.RequestID, nil
}

// Poll reports the job's current state without blocking. Request ids that are
// neither queued, processing, nor stored (including evicted ones) report
// processing, mirroring the original server's behavior for unknown ids.
func (s *Service) Poll(requestID string) domain.TranscriptionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res, ok := s.results[requestID]; ok {
		return res
	}
	if s.queued[requestID] {
		return domain.TranscriptionResult{RequestID: requestID, Status: domain.JobQueued}
	}
	return domain.TranscriptionResult{RequestID: requestID, Status: domain.JobProcessing}
}

// Await polls at a fixed interval until the job reaches a terminal state or
// the timeout elapses. On timeout the returned status is JobTimeout, which is
// distinct from JobFailed: the job may still complete in the background.
func (s *Service) Await(requestID string, timeout time.Duration) domain.TranscriptionResult {
	deadline := time.Now().Add(timeout)
	for {
		res := s.Poll(requestID)
		if res.Status == domain.JobCompleted || res.Status == domain.JobFailed {
			return res
		}
		if time.Now().After(deadline) {
			return domain.TranscriptionResult{
				RequestID: requestID,
				Status:    domain.JobTimeout,
				Error:     "transcription timeout",
			}
		}
		time.Sleep(s.pollInterval)
	}
}

// QueueSize returns the number of jobs waiting (not counting one being
// processed).
func (s *Service) QueueSize() int {
	return len(s.jobs)
}

// ModelAvailable reports whether a transcription function was configured.
func (s *Service) ModelAvailable() bool {
	return s.transcribe != nil
}

// Stats returns a snapshot of the processing counters.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		TotalRequests: s.total,
		Completed:     s.completed,
		Failed:        s.failed,
		QueueSize:     len(s.jobs),
	}
}

// Close stops accepting submissions, drains the remaining queue and waits for
// the worker to finish.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	close(s.jobs)
	<-s.done
}

// worker drains the job channel one job at a time. The speech model is a
// singly-owned, non-reentrant resource, so there is never more than one job
// in flight. Once dequeued a job runs to completion or failure; no
// cancellation primitive exists.
func (s *Service) worker() {
	defer close(s.done)

	for job := range s.jobs {
		s.mu.Lock()
		delete(s.queued, job.RequestID)
		s.processing = job.RequestID
		s.mu.Unlock()

		start := time.Now()
		result := domain.TranscriptionResult{
			RequestID: job.RequestID,
			VideoID:   job.VideoID,
		}

		if s.transcribe == nil {
			result.Status = domain.JobFailed
			result.Error = "transcription model unavailable"
		} else {
			transcript, err := s.transcribe(context.Background(), job.VideoID, job.MaxDuration)
			if err != nil {
				result.Status = domain.JobFailed
				result.Error = err.Error()
			} else if transcript == "" {
				result.Status = domain.JobFailed
				result.Error = "transcription produced no text"
			} else {
				result.Status = domain.JobCompleted
				result.Transcript = transcript
			}
		}
		result.ProcessingSecs = time.Since(start).Seconds()

		s.mu.Lock()
		s.processing = ""
		s.results[job.RequestID] = result
		s.order = append(s.order, job.RequestID)
		if result.Status == domain.JobCompleted {
			s.completed++
		} else {
			s.failed++
		}
		s.evictLocked()
		s.mu.Unlock()
	}
}

// evictLocked drops the oldest half of stored results once the store exceeds
// its bound. Callers must hold s.mu.
func (s *Service) evictLocked() {
	if len(s.results) <= maxStoredResults {
		return
	}
	drop := len(s.order) / 2
	for _, id := range s.order[:drop] {
		delete(s.results, id)
	}
	s.order = append([]string(nil), s.order[drop:]...)
}
