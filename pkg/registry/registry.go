// Package registry tracks creators that earlier runs already surfaced, so a
// discovery pass never spends quota or AI calls re-profiling them.
package registry

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"
)

// handleSplit breaks a CSV handle cell into individual names. Cells routinely
// hold several aliases separated by commas or spaces.
var handleSplit = regexp.MustCompile(`[ ,]+`)

// HandleSource yields previously persisted handles, typically from a
// database-backed creator store.
type HandleSource interface {
	AllHandles(ctx context.Context) ([]string, error)
}

// Registry is a normalized set of known creator names and channel ids. It is
// owned by the discovery loop and not safe for concurrent use.
type Registry struct {
	names      map[string]bool
	channelIDs map[string]bool
	logger     *log.Logger
}

// New returns an empty registry.
func New(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		names:      make(map[string]bool),
		channelIDs: make(map[string]bool),
		logger:     logger,
	}
}

// normalize lowercases a name and strips the leading @ so that "@SomeGuy",
// "someguy" and "SOMEGUY " all collide.
func normalize(name string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "@")
}

// Add records a creator under every given alias plus its channel id.
func (r *Registry) Add(channelID string, names ...string) {
	if channelID != "" {
		r.channelIDs[channelID] = true
	}
	for _, n := range names {
		if norm := normalize(n); norm != "" {
			r.names[norm] = true
		}
	}
}

// ContainsAny reports whether any of the given names is already known.
func (r *Registry) ContainsAny(names ...string) bool {
	for _, n := range names {
		if r.names[normalize(n)] {
			return true
		}
	}
	return false
}

// ContainsChannelID reports whether the channel id is already known.
func (r *Registry) ContainsChannelID(channelID string) bool {
	return r.channelIDs[channelID]
}

// Size returns the number of distinct known names.
func (r *Registry) Size() int {
	return len(r.names)
}

// LoadCSV merges an existing results file into the registry. A missing file
// is not an error; a fresh run simply starts with an empty registry.
func (r *Registry) LoadCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Printf("Registry file %s not found, starting fresh", path)
			return nil
		}
		return fmt.Errorf("open registry %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read registry header: %w", err)
	}

	handleCol, channelCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Handle":
			handleCol = i
		case "Channel ID":
			channelCol = i
		}
	}
	if handleCol < 0 {
		return fmt.Errorf("registry %s has no Handle column", path)
	}

	loaded := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read registry row: %w", err)
		}
		if handleCol >= len(record) {
			continue
		}
		for _, part := range handleSplit.Split(record[handleCol], -1) {
			if norm := normalize(part); norm != "" {
				r.names[norm] = true
				loaded++
			}
		}
		if channelCol >= 0 && channelCol < len(record) {
			if id := strings.TrimSpace(record[channelCol]); strings.HasPrefix(id, "UC") {
				r.channelIDs[id] = true
			}
		}
	}

	r.logger.Printf("Loaded %d existing creator names from %s", loaded, path)
	return nil
}

// SeedFromStore merges handles persisted by earlier runs. Store errors are
// reported but do not abort the run; the registry just starts smaller.
func (r *Registry) SeedFromStore(ctx context.Context, src HandleSource) error {
	handles, err := src.AllHandles(ctx)
	if err != nil {
		return fmt.Errorf("seed registry from store: %w", err)
	}
	for _, h := range handles {
		if norm := normalize(h); norm != "" {
			r.names[norm] = true
		}
	}
	r.logger.Printf("Seeded registry with %d handles from store", len(handles))
	return nil
}
