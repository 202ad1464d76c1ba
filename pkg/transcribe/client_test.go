package transcribe

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestClient_SubmitAndResult(t *testing.T) {
	fn := func(ctx context.Context, videoID string, maxDuration time.Duration) (string, error) {
		return "transcript of " + videoID, nil
	}
	svc := NewService(4, fn)
	svc.SetPollInterval(5 * time.Millisecond)
	defer svc.Close()
	ts := newTestServer(t, svc, "base")

	client := NewClient(ts.URL)
	ctx := context.Background()

	if !client.Health(ctx) {
		t.Fatal("Health() = false against a live server")
	}

	id, err := client.Submit(ctx, "vidC", 10)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	svc.Await(id, 2*time.Second)

	res, err := client.Result(ctx, id)
	if err != nil {
		t.Fatalf("Result error: %v", err)
	}
	if res.Transcript != "transcript of vidC" {
		t.Errorf("Transcript = %q, want job output", res.Transcript)
	}
}

func TestClient_HealthFalseWhenUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	if client.Health(context.Background()) {
		t.Fatal("Health() = true against a dead address")
	}
}

func TestClient_TranscribeSync(t *testing.T) {
	fn := func(ctx context.Context, videoID string, maxDuration time.Duration) (string, error) {
		return "quick transcript", nil
	}
	svc := NewService(4, fn)
	svc.SetPollInterval(5 * time.Millisecond)
	defer svc.Close()
	ts := newTestServer(t, svc, "base")

	client := NewClient(ts.URL)
	text, err := client.TranscribeSync(context.Background(), "vidS", 10, 5*time.Second)
	if err != nil {
		t.Fatalf("TranscribeSync error: %v", err)
	}
	if text != "quick transcript" {
		t.Errorf("transcript = %q, want quick transcript", text)
	}
}

func TestClient_TranscribeSync_FailureIsError(t *testing.T) {
	svc := NewService(4, nil) // degraded: every job fails
	svc.SetPollInterval(5 * time.Millisecond)
	defer svc.Close()
	ts := newTestServer(t, svc, "base")

	client := NewClient(ts.URL)
	_, err := client.TranscribeSync(context.Background(), "vidF", 10, 5*time.Second)
	if err == nil {
		t.Fatal("TranscribeSync succeeded against a degraded service")
	}
	if !strings.Contains(err.Error(), "failed") {
		t.Errorf("error = %v, want failed status", err)
	}
}

func TestClient_TranscribeAsync(t *testing.T) {
	fn := func(ctx context.Context, videoID string, maxDuration time.Duration) (string, error) {
		time.Sleep(30 * time.Millisecond)
		return "async transcript", nil
	}
	svc := NewService(4, fn)
	svc.SetPollInterval(5 * time.Millisecond)
	defer svc.Close()
	ts := newTestServer(t, svc, "base")

	client := NewClient(ts.URL)
	client.SetPolling(10*time.Millisecond, 100)

	text, err := client.TranscribeAsync(context.Background(), "vidA", 10)
	if err != nil {
		t.Fatalf("TranscribeAsync error: %v", err)
	}
	if text != "async transcript" {
		t.Errorf("transcript = %q, want async transcript", text)
	}
}

func TestClient_TranscribeAsync_PollingBudget(t *testing.T) {
	gate := make(chan struct{})
	fn, _ := blockingFunc(gate)
	svc := NewService(4, fn)
	defer func() {
		close(gate)
		svc.Close()
	}()
	ts := newTestServer(t, svc, "base")

	client := NewClient(ts.URL)
	client.SetPolling(5*time.Millisecond, 3)

	_, err := client.TranscribeAsync(context.Background(), "vidP", 10)
	if err == nil {
		t.Fatal("TranscribeAsync succeeded despite exhausted polling budget")
	}
	if !strings.Contains(err.Error(), "polling timed out") {
		t.Errorf("error = %v, want polling timeout", err)
	}
}
