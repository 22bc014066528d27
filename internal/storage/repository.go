package storage

import (
	"context"

	"gitlab.com/witness-archive/api/archive-ingest/internal/model"
)

// IngestStore is the set of inserts one webhook delivery performs. Every call
// assigns the generated primary key back onto the record.
type IngestStore interface {
	CreateEntry(ctx context.Context, entry *model.Entry) error
	CreateHost(ctx context.Context, host *model.Host) error
	CreateDisplacedFamily(ctx context.Context, family *model.DisplacedFamily) error
	CreateMartyr(ctx context.Context, martyr *model.Martyr) error
	CreateShelter(ctx context.Context, shelter *model.Shelter) error
}

// TxFunc runs against a store bound to one open transaction.
type TxFunc func(ctx context.Context, store IngestStore) error

// IngestRepo defines the storage operations behind webhook ingestion
type IngestRepo interface {
	EntryNumberExists(ctx context.Context, entryNumber string) (bool, error)
	// WithinTransaction commits when fn returns nil and rolls back when it
	// returns an error or panics.
	WithinTransaction(ctx context.Context, fn TxFunc) error
	Close(ctx context.Context) error
}

// TranslationRepo defines read access to the localization table
type TranslationRepo interface {
	ListTranslations(ctx context.Context) ([]model.Translation, error)
}

// HealthChecker reports database reachability for readiness probes
type HealthChecker interface {
	Ping(ctx context.Context) error
}
