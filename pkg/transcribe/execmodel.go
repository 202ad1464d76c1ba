package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ExecModel adapts an external speech-to-text command into a Func. The
// command receives the YouTube video URL and a duration cap in seconds, and
// prints the transcript on stdout.
type ExecModel struct {
	binaryPath string
	extraArgs  []string
}

// NewExecModel creates an adapter for the given command. Extra args are
// passed through before the video URL.
func NewExecModel(binaryPath string, extraArgs ...string) *ExecModel {
	return &ExecModel{binaryPath: binaryPath, extraArgs: extraArgs}
}

// Transcribe runs the command for one video. The context bounds the run; a
// zero maxDuration leaves the video uncapped.
func (m *ExecModel) Transcribe(ctx context.Context, videoID string, maxDuration time.Duration) (string, error) {
	args := append([]string(nil), m.extraArgs...)
	if maxDuration > 0 {
		args = append(args, "--max-duration", strconv.Itoa(int(maxDuration.Seconds())))
	}
	args = append(args, "https://www.youtube.com/watch?v="+videoID)

	cmd := exec.CommandContext(ctx, m.binaryPath, args...)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %w, stderr: %s", m.binaryPath, err, strings.TrimSpace(stderr.String()))
	}

	transcript := strings.TrimSpace(out.String())
	if transcript == "" {
		return "", fmt.Errorf("%s produced no transcript for %s", m.binaryPath, videoID)
	}
	return transcript, nil
}

// Func returns the adapter in the shape the queue service consumes.
func (m *ExecModel) Func() Func {
	return m.Transcribe
}
