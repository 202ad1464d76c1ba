package db

import (
	"context"

	"creator-scout/pkg/domain"
)

// RecordSink receives finished discovery records. CSV, Postgres and fan-out
// sinks all satisfy it, so the pipeline does not care where records land.
type RecordSink interface {
	SaveRecord(ctx context.Context, record *domain.DiscoveryRecord) error
}
