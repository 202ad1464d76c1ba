// whisperd runs the transcription queue server. It wraps an external
// speech-to-text command; started without one it still serves the API in
// degraded mode, failing every job with a clear reason.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"strings"

	"creator-scout/pkg/transcribe"
)

func main() {
	var (
		addr      = flag.String("addr", ":5001", "Listen address")
		modelSize = flag.String("model-size", "base", "Speech model size reported by /health")
		queueSize = flag.Int("queue-size", 10, "Max queued transcription jobs")
		modelCmd  = flag.String("model-cmd", "", "Speech-to-text command (empty runs degraded: every job fails)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	var fn transcribe.Func
	if *modelCmd != "" {
		parts := strings.Fields(*modelCmd)
		model := transcribe.NewExecModel(parts[0], parts[1:]...)
		fn = model.Func()
		logger.Printf("Using speech model command: %s", *modelCmd)
	} else {
		logger.Printf("No model command configured, running in degraded mode")
	}

	svc := transcribe.NewService(*queueSize, fn)
	defer svc.Close()

	server := transcribe.NewServer(svc, *modelSize, logger)
	logger.Printf("Transcription server listening on %s (queue=%d, model=%s)", *addr, *queueSize, *modelSize)
	if err := http.ListenAndServe(*addr, server); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}
}
