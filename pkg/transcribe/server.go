package transcribe

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"creator-scout/pkg/domain"
)

// defaultSyncTimeout caps how long a synchronous transcription request may
// block when the caller does not specify a timeout.
const defaultSyncTimeout = 30 * time.Minute

// defaultMaxDurationMinutes bounds how much of a video the model transcribes
// when the caller does not specify a limit.
const defaultMaxDurationMinutes = 120

// Server exposes the transcription queue over HTTP.
type Server struct {
	svc       *Service
	modelSize string
	logger    *log.Logger
	mux       *http.ServeMux
}

// NewServer wires the service's endpoints onto a fresh mux.
func NewServer(svc *Service, modelSize string, logger *log.Logger) *Server {
	s := &Server{
		svc:       svc,
		modelSize: modelSize,
		logger:    logger,
		mux:       http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /transcribe", s.handleTranscribe)
	s.mux.HandleFunc("GET /result/{id}", s.handleResult)
	s.mux.HandleFunc("POST /transcribe/sync", s.handleTranscribeSync)
	s.mux.HandleFunc("GET /stats", s.handleStats)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type transcribeRequest struct {
	VideoID            string  `json:"video_id"`
	MaxDurationMinutes int     `json:"max_duration_minutes"`
	TimeoutSeconds     float64 `json:"timeout"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "healthy",
		"model_loaded": s.svc.ModelAvailable(),
		"model_size":   s.modelSize,
		"queue_size":   s.svc.QueueSize(),
		"stats":        s.svc.Stats(),
	})
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	requestID, err := s.svc.Submit(req.VideoID, time.Duration(req.MaxDurationMinutes)*time.Minute)
	if err != nil {
		s.logger.Printf("Rejected transcription for %s: %v", req.VideoID, err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"error": "Queue full, try again later",
		})
		return
	}

	s.logger.Printf("Queued transcription request: %s (ID: %.8s)", req.VideoID, requestID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"request_id":     requestID,
		"status":         string(domain.JobQueued),
		"queue_position": s.svc.QueueSize(),
	})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("id")
	res := s.svc.Poll(requestID)

	switch res.Status {
	case domain.JobQueued, domain.JobProcessing:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":     string(res.Status),
			"queue_size": s.svc.QueueSize(),
		})
	default:
		writeJSON(w, http.StatusOK, resultPayload(res))
	}
}

func (s *Server) handleTranscribeSync(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	timeout := defaultSyncTimeout
	if req.TimeoutSeconds > 0 {
		timeout = time.Duration(req.TimeoutSeconds * float64(time.Second))
	}

	requestID, err := s.svc.Submit(req.VideoID, time.Duration(req.MaxDurationMinutes)*time.Minute)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"error": "Queue full, try again later",
		})
		return
	}
	s.logger.Printf("Queued sync transcription request: %s (ID: %.8s)", req.VideoID, requestID)

	res := s.svc.Await(requestID, timeout)
	if res.Status == domain.JobTimeout {
		s.logger.Printf("Sync transcription timeout: %s", req.VideoID)
		writeJSON(w, http.StatusRequestTimeout, map[string]interface{}{
			"status":   string(domain.JobTimeout),
			"video_id": req.VideoID,
			"error":    "Transcription timeout",
			"timeout":  timeout.Seconds(),
		})
		return
	}
	writeJSON(w, http.StatusOK, resultPayload(res))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.svc.mu.Lock()
	cached := len(s.svc.results)
	s.svc.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":          s.svc.Stats(),
		"queue_size":     s.svc.QueueSize(),
		"results_cached": cached,
		"model_size":     s.modelSize,
	})
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (transcribeRequest, bool) {
	var req transcribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": fmt.Sprintf("invalid request body: %v", err),
		})
		return req, false
	}
	if req.VideoID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "video_id required",
		})
		return req, false
	}
	if req.MaxDurationMinutes <= 0 {
		req.MaxDurationMinutes = defaultMaxDurationMinutes
	}
	return req, true
}

func resultPayload(res domain.TranscriptionResult) map[string]interface{} {
	payload := map[string]interface{}{
		"request_id":      res.RequestID,
		"video_id":        res.VideoID,
		"status":          string(res.Status),
		"processing_time": res.ProcessingSecs,
	}
	if res.Status == domain.JobCompleted {
		payload["transcript"] = res.Transcript
	} else if res.Error != "" {
		payload["error"] = res.Error
	}
	return payload
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
