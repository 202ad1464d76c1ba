package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"creator-scout/pkg/domain"
)

// Client talks to a transcription server. Transcript absence is an expected
// outcome for callers: they fall back to "not available" rather than failing
// the candidate they are processing.
type Client struct {
	baseURL string
	http    *http.Client

	pollInterval time.Duration
	maxPolls     int
}

// NewClient creates a client for the server at baseURL. Per-call deadlines
// are carried by request contexts rather than a client-wide timeout, because
// synchronous transcriptions legitimately block for many minutes.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{},
		pollInterval: 5 * time.Second,
		maxPolls:     60,
	}
}

// SetPolling adjusts the async polling cadence (tests shrink it).
func (c *Client) SetPolling(interval time.Duration, maxPolls int) {
	if interval > 0 {
		c.pollInterval = interval
	}
	if maxPolls > 0 {
		c.maxPolls = maxPolls
	}
}

// Health reports whether the server answers its health endpoint.
func (c *Client) Health(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Submit queues a transcription job and returns its request id.
func (c *Client) Submit(ctx context.Context, videoID string, maxDurationMinutes int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	body, err := c.postJSON(ctx, "/transcribe", map[string]interface{}{
		"video_id":             videoID,
		"max_duration_minutes": maxDurationMinutes,
	})
	if err != nil {
		return "", err
	}
	var parsed struct {
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	if parsed.RequestID == "" {
		return "", fmt.Errorf("submit response missing request_id")
	}
	return parsed.RequestID, nil
}

// Result fetches the current state of a job.
func (c *Client) Result(ctx context.Context, requestID string) (domain.TranscriptionResult, error) {
	var res domain.TranscriptionResult

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/result/"+requestID, nil)
	if err != nil {
		return res, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return res, fmt.Errorf("fetch result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return res, fmt.Errorf("result endpoint returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return res, fmt.Errorf("decode result: %w", err)
	}
	return res, nil
}

// TranscribeSync blocks until the server finishes the job or the timeout
// elapses. The returned error covers both failures and timeouts; callers
// treat either as "no transcript".
func (c *Client) TranscribeSync(ctx context.Context, videoID string, maxDurationMinutes int, timeout time.Duration) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout+10*time.Second)
	defer cancel()

	body, err := c.postJSON(reqCtx, "/transcribe/sync", map[string]interface{}{
		"video_id":             videoID,
		"max_duration_minutes": maxDurationMinutes,
		"timeout":              timeout.Seconds(),
	})
	if err != nil {
		return "", err
	}

	var res domain.TranscriptionResult
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("decode sync result: %w", err)
	}
	if res.Status != domain.JobCompleted {
		return "", fmt.Errorf("transcription %s: %s", res.Status, res.Error)
	}
	return res.Transcript, nil
}

// TranscribeAsync submits the job and polls until a terminal result or the
// polling budget runs out.
func (c *Client) TranscribeAsync(ctx context.Context, videoID string, maxDurationMinutes int) (string, error) {
	requestID, err := c.Submit(ctx, videoID, maxDurationMinutes)
	if err != nil {
		return "", err
	}

	for poll := 0; poll < c.maxPolls; poll++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}

		res, err := c.Result(ctx, requestID)
		if err != nil {
			continue
		}
		switch res.Status {
		case domain.JobCompleted:
			return res.Transcript, nil
		case domain.JobFailed:
			return "", fmt.Errorf("transcription failed: %s", res.Error)
		}
		// Still queued or processing; keep polling.
	}
	return "", fmt.Errorf("transcription polling timed out for %s", videoID)
}

// Stats fetches the server's counters.
func (c *Client) Stats(ctx context.Context) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch stats: %w", err)
	}
	defer resp.Body.Close()

	var stats map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return stats, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
