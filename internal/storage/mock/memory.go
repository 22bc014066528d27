package mock

import (
	"context"
	"fmt"
	"sync"

	"gitlab.com/witness-archive/api/archive-ingest/internal/apperrors"
	"gitlab.com/witness-archive/api/archive-ingest/internal/model"
	"gitlab.com/witness-archive/api/archive-ingest/internal/storage"
)

// MemoryIngestRepo is an in-memory IngestRepo with transactional semantics:
// rows created inside WithinTransaction become visible only on commit. It
// enforces the unique entry number and the single-owner rule on families.
type MemoryIngestRepo struct {
	mu sync.Mutex

	nextID   uint64
	Entries  []model.Entry
	Hosts    []model.Host
	Families []model.DisplacedFamily
	Martyrs  []model.Martyr
	Shelters []model.Shelter

	// FailOn makes the store return an error on the Nth create of an entity
	// ("entry", "host", "displaced_family", "martyr", "shelter"), counted per
	// transaction starting at 1.
	FailOn map[string]int
}

// NewMemoryIngestRepo creates an empty repository.
func NewMemoryIngestRepo() *MemoryIngestRepo {
	return &MemoryIngestRepo{FailOn: map[string]int{}}
}

var _ storage.IngestRepo = (*MemoryIngestRepo)(nil)

// EntryNumberExists reports whether a committed entry has entryNumber.
func (r *MemoryIngestRepo) EntryNumberExists(_ context.Context, entryNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasEntryNumber(entryNumber), nil
}

func (r *MemoryIngestRepo) hasEntryNumber(entryNumber string) bool {
	for _, e := range r.Entries {
		if e.EntryNumber == entryNumber {
			return true
		}
	}
	return false
}

// WithinTransaction stages writes and commits them only when fn succeeds.
func (r *MemoryIngestRepo) WithinTransaction(ctx context.Context, fn storage.TxFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &memoryTx{repo: r, counts: map[string]int{}}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	for _, e := range tx.entries {
		if r.hasEntryNumber(e.EntryNumber) {
			return fmt.Errorf("failed to commit transaction: %w: constraint idx_entries_entry_number", apperrors.ErrDuplicate)
		}
	}
	r.Entries = append(r.Entries, tx.entries...)
	r.Hosts = append(r.Hosts, tx.hosts...)
	r.Families = append(r.Families, tx.families...)
	r.Martyrs = append(r.Martyrs, tx.martyrs...)
	r.Shelters = append(r.Shelters, tx.shelters...)
	return nil
}

// Close is a no-op.
func (r *MemoryIngestRepo) Close(context.Context) error {
	return nil
}

// RowCount returns the number of committed rows across all tables.
func (r *MemoryIngestRepo) RowCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Entries) + len(r.Hosts) + len(r.Families) + len(r.Martyrs) + len(r.Shelters)
}

type memoryTx struct {
	repo   *MemoryIngestRepo
	counts map[string]int

	entries  []model.Entry
	hosts    []model.Host
	families []model.DisplacedFamily
	martyrs  []model.Martyr
	shelters []model.Shelter
}

// next assigns an id, or fails when the configured FailOn position is hit.
func (tx *memoryTx) next(entity string) (uint64, error) {
	tx.counts[entity]++
	if n, ok := tx.repo.FailOn[entity]; ok && n == tx.counts[entity] {
		return 0, fmt.Errorf("%w: forced failure creating %s #%d", apperrors.ErrDatabase, entity, n)
	}
	tx.repo.nextID++
	return tx.repo.nextID, nil
}

func (tx *memoryTx) CreateEntry(_ context.Context, entry *model.Entry) error {
	id, err := tx.next("entry")
	if err != nil {
		return err
	}
	entry.ID = id
	tx.entries = append(tx.entries, *entry)
	return nil
}

func (tx *memoryTx) CreateHost(_ context.Context, host *model.Host) error {
	id, err := tx.next("host")
	if err != nil {
		return err
	}
	host.ID = id
	tx.hosts = append(tx.hosts, *host)
	return nil
}

func (tx *memoryTx) CreateDisplacedFamily(_ context.Context, family *model.DisplacedFamily) error {
	if !family.HasSingleOwner() {
		return fmt.Errorf("%w: constraint chk_displaced_families_owner", apperrors.ErrBadRequest)
	}
	id, err := tx.next("displaced_family")
	if err != nil {
		return err
	}
	family.ID = id
	tx.families = append(tx.families, *family)
	return nil
}

func (tx *memoryTx) CreateMartyr(_ context.Context, martyr *model.Martyr) error {
	id, err := tx.next("martyr")
	if err != nil {
		return err
	}
	martyr.ID = id
	tx.martyrs = append(tx.martyrs, *martyr)
	return nil
}

func (tx *memoryTx) CreateShelter(_ context.Context, shelter *model.Shelter) error {
	id, err := tx.next("shelter")
	if err != nil {
		return err
	}
	shelter.ID = id
	tx.shelters = append(tx.shelters, *shelter)
	return nil
}
