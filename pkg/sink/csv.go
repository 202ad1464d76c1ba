// Package sink writes finished discovery records to their destinations.
package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"creator-scout/pkg/domain"
)

// csvHeader is the fixed column layout of the results file. Existing files
// keep their rows; new records are appended below them.
var csvHeader = []string{
	"Name", "Sex", "Handle", "Platform", "Follower Count",
	"Contact", "Engagement", "Niche", "Notes", "Status",
}

// CSVSink appends discovery records to a results file, writing the header
// only when the file is new or empty.
type CSVSink struct {
	path string
}

// NewCSVSink creates a sink for the given path. The file is opened per write
// so a crashed run never holds it hostage.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Path returns the results file location.
func (s *CSVSink) Path() string {
	return s.path
}

// SaveRecord appends one record, creating the file with a header on first use.
func (s *CSVSink) SaveRecord(ctx context.Context, record *domain.DiscoveryRecord) error {
	writeHeader := false
	if info, err := os.Stat(s.path); os.IsNotExist(err) || (err == nil && info.Size() == 0) {
		writeHeader = true
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open results file %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("write results header: %w", err)
		}
	}
	row := []string{
		record.Name, record.Sex, record.Handle, record.Platform,
		record.FollowerCount, record.Contact, record.Engagement,
		record.Niche, record.Notes, record.Status,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write results row: %w", err)
	}
	w.Flush()
	return w.Error()
}
