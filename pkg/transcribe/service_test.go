package transcribe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"creator-scout/pkg/domain"
)

// blockingFunc returns a Func that blocks until gate is closed, and a channel
// that receives the video id as soon as the worker picks the job up.
func blockingFunc(gate <-chan struct{}) (Func, <-chan string) {
	started := make(chan string, 16)
	fn := func(ctx context.Context, videoID string, maxDuration time.Duration) (string, error) {
		started <- videoID
		<-gate
		return "transcript of " + videoID, nil
	}
	return fn, started
}

func TestSubmit_QueueFullFailsFast(t *testing.T) {
	gate := make(chan struct{})
	fn, started := blockingFunc(gate)
	svc := NewService(2, fn)
	defer func() {
		close(gate)
		svc.Close()
	}()

	if _, err := svc.Submit("vid1", time.Minute); err != nil {
		t.Fatalf("Submit(vid1) error: %v", err)
	}
	// Wait for the worker to dequeue vid1 so the buffer is empty again.
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never picked up vid1")
	}

	for i := 2; i <= 3; i++ {
		if _, err := svc.Submit(fmt.Sprintf("vid%d", i), time.Minute); err != nil {
			t.Fatalf("Submit(vid%d) error: %v", i, err)
		}
	}

	_, err := svc.Submit("vid4", time.Minute)
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("Submit over capacity: got %v, want ErrQueueFull", err)
	}
}

func TestAwait_TimeoutIsNotFailure(t *testing.T) {
	gate := make(chan struct{})
	fn, _ := blockingFunc(gate)
	svc := NewService(4, fn)
	svc.SetPollInterval(5 * time.Millisecond)
	defer func() {
		close(gate)
		svc.Close()
	}()

	id, err := svc.Submit("slow-video", time.Minute)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	res := svc.Await(id, 50*time.Millisecond)
	if res.Status != domain.JobTimeout {
		t.Fatalf("Await status = %q, want %q", res.Status, domain.JobTimeout)
	}
	if res.Status == domain.JobFailed {
		t.Fatal("timeout must not be reported as failure")
	}
}

func TestDegradedMode_JobsFailWithReason(t *testing.T) {
	svc := NewService(4, nil)
	svc.SetPollInterval(5 * time.Millisecond)
	defer svc.Close()

	if svc.ModelAvailable() {
		t.Fatal("ModelAvailable() = true with nil transcribe func")
	}

	id, err := svc.Submit("any-video", time.Minute)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	res := svc.Await(id, 2*time.Second)
	if res.Status != domain.JobFailed {
		t.Fatalf("status = %q, want %q", res.Status, domain.JobFailed)
	}
	if !strings.Contains(res.Error, "unavailable") {
		t.Fatalf("error = %q, want mention of model unavailability", res.Error)
	}
}

func TestWorker_ProcessesInSubmissionOrder(t *testing.T) {
	var mu sync.Mutex
	var processed []string
	fn := func(ctx context.Context, videoID string, maxDuration time.Duration) (string, error) {
		mu.Lock()
		processed = append(processed, videoID)
		mu.Unlock()
		return "text", nil
	}
	svc := NewService(8, fn)
	svc.SetPollInterval(5 * time.Millisecond)
	defer svc.Close()

	want := []string{"v1", "v2", "v3", "v4", "v5"}
	ids := make([]string, 0, len(want))
	for _, v := range want {
		id, err := svc.Submit(v, time.Minute)
		if err != nil {
			t.Fatalf("Submit(%s) error: %v", v, err)
		}
		ids = append(ids, id)
	}
	for i, id := range ids {
		if res := svc.Await(id, 2*time.Second); res.Status != domain.JobCompleted {
			t.Fatalf("job %d status = %q, want completed", i, res.Status)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(processed) != len(want) {
		t.Fatalf("processed %d jobs, want %d", len(processed), len(want))
	}
	for i := range want {
		if processed[i] != want[i] {
			t.Fatalf("processed[%d] = %q, want %q", i, processed[i], want[i])
		}
	}
}

func TestEmptyTranscriptIsFailure(t *testing.T) {
	fn := func(ctx context.Context, videoID string, maxDuration time.Duration) (string, error) {
		return "", nil
	}
	svc := NewService(2, fn)
	svc.SetPollInterval(5 * time.Millisecond)
	defer svc.Close()

	id, err := svc.Submit("silent-video", time.Minute)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	res := svc.Await(id, 2*time.Second)
	if res.Status != domain.JobFailed {
		t.Fatalf("status = %q, want %q", res.Status, domain.JobFailed)
	}
}

func TestResultStore_EvictsOldestHalf(t *testing.T) {
	fn := func(ctx context.Context, videoID string, maxDuration time.Duration) (string, error) {
		return "text", nil
	}
	svc := NewService(4, fn)
	svc.SetPollInterval(time.Millisecond)
	defer svc.Close()

	ids := make([]string, 0, maxStoredResults+1)
	for i := 0; i <= maxStoredResults; i++ {
		id, err := svc.Submit(fmt.Sprintf("v%d", i), time.Minute)
		if err != nil {
			t.Fatalf("Submit #%d error: %v", i, err)
		}
		if res := svc.Await(id, 2*time.Second); res.Status != domain.JobCompleted {
			t.Fatalf("job #%d status = %q, want completed", i, res.Status)
		}
		ids = append(ids, id)
	}

	svc.mu.Lock()
	stored := len(svc.results)
	svc.mu.Unlock()
	if stored > maxStoredResults {
		t.Fatalf("stored %d results, want <= %d after eviction", stored, maxStoredResults)
	}

	// The oldest result is gone; an unknown id reports processing.
	if res := svc.Poll(ids[0]); res.Status != domain.JobProcessing {
		t.Fatalf("Poll(evicted) status = %q, want %q", res.Status, domain.JobProcessing)
	}
	// The newest survives.
	if res := svc.Poll(ids[len(ids)-1]); res.Status != domain.JobCompleted {
		t.Fatalf("Poll(newest) status = %q, want completed", res.Status)
	}
}

func TestStats_CountsCompletedAndFailed(t *testing.T) {
	fn := func(ctx context.Context, videoID string, maxDuration time.Duration) (string, error) {
		if videoID == "broken" {
			return "", errors.New("download failed")
		}
		return "text", nil
	}
	svc := NewService(8, fn)
	svc.SetPollInterval(5 * time.Millisecond)
	defer svc.Close()

	for _, v := range []string{"ok1", "broken", "ok2"} {
		id, err := svc.Submit(v, time.Minute)
		if err != nil {
			t.Fatalf("Submit(%s) error: %v", v, err)
		}
		svc.Await(id, 2*time.Second)
	}

	stats := svc.Stats()
	if stats.TotalRequests != 3 {
		t.Errorf("TotalRequests = %d, want 3", stats.TotalRequests)
	}
	if stats.Completed != 2 {
		t.Errorf("Completed = %d, want 2", stats.Completed)
	}
	if stats.Failed != 1 {
		t.Errorf("Failed = %d, want 1", stats.Failed)
	}
}

func TestSubmitAfterClose(t *testing.T) {
	svc := NewService(2, nil)
	svc.Close()

	_, err := svc.Submit("late-video", time.Minute)
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("Submit after Close: got %v, want ErrClosed", err)
	}
}
