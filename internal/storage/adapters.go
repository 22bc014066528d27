package storage

import (
	"context"

	"gitlab.com/witness-archive/api/archive-ingest/internal/model"
)

// IngestRepoAdapter adapts the PostgresRepo to the IngestRepo interface
type IngestRepoAdapter struct {
	postgres *PostgresRepo
}

// NewIngestRepoAdapter creates a new ingestion repository adapter
func NewIngestRepoAdapter(postgres *PostgresRepo) IngestRepo {
	return &IngestRepoAdapter{postgres: postgres}
}

// EntryNumberExists checks for an already ingested entry number
func (a *IngestRepoAdapter) EntryNumberExists(ctx context.Context, entryNumber string) (bool, error) {
	return a.postgres.EntryNumberExists(ctx, entryNumber)
}

// WithinTransaction runs fn inside one database transaction
func (a *IngestRepoAdapter) WithinTransaction(ctx context.Context, fn TxFunc) error {
	return a.postgres.WithinTransaction(ctx, fn)
}

func (a *IngestRepoAdapter) Close(ctx context.Context) error {
	return a.postgres.Close(ctx)
}

// TranslationRepoAdapter adapts the PostgresRepo to the TranslationRepo interface
type TranslationRepoAdapter struct {
	postgres *PostgresRepo
}

// NewTranslationRepoAdapter creates a new translation repository adapter
func NewTranslationRepoAdapter(postgres *PostgresRepo) TranslationRepo {
	return &TranslationRepoAdapter{postgres: postgres}
}

// ListTranslations returns all translations
func (a *TranslationRepoAdapter) ListTranslations(ctx context.Context) ([]model.Translation, error) {
	return a.postgres.ListTranslations(ctx)
}
