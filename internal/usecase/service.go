package usecase

import (
	"time"

	"gitlab.com/witness-archive/api/archive-ingest/internal/storage"
	"gitlab.com/witness-archive/api/archive-ingest/pkg/utils"
)

// IngestService turns form builder deliveries into archive rows
type IngestService struct {
	repo storage.IngestRepo
	now  func() time.Time
}

// NewIngestService creates a new ingestion service
func NewIngestService(repo storage.IngestRepo) *IngestService {
	return &IngestService{
		repo: repo,
		now:  utils.Now,
	}
}

// IngestResult reports the committed entry id and how many rows of each kind
// were written for it.
type IngestResult struct {
	EntryID  uint64 `json:"entry_id"`
	Hosts    int    `json:"hosts"`
	Families int    `json:"families"`
	Martyrs  int    `json:"martyrs"`
	Shelters int    `json:"shelters"`
}
