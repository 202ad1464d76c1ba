package sink

import (
	"context"
	"fmt"
	"strings"

	"creator-scout/pkg/db"
	"creator-scout/pkg/domain"
)

// Multi fans a record out to several sinks. Every sink gets a chance to
// write; failures are collected rather than short-circuiting, so a broken
// database never loses the CSV row.
type Multi struct {
	sinks []db.RecordSink
}

// NewMulti builds a fan-out over the given sinks.
func NewMulti(sinks ...db.RecordSink) *Multi {
	return &Multi{sinks: sinks}
}

// SaveRecord writes the record to every sink and joins any failures.
func (m *Multi) SaveRecord(ctx context.Context, record *domain.DiscoveryRecord) error {
	var failures []string
	for _, s := range m.sinks {
		if err := s.SaveRecord(ctx, record); err != nil {
			failures = append(failures, err.Error())
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("save record %s: %s", record.Handle, strings.Join(failures, "; "))
	}
	return nil
}
