package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gitlab.com/witness-archive/api/archive-ingest/internal/model"
	"gitlab.com/witness-archive/api/archive-ingest/internal/storage"
)

// --- IngestRepo Mock ---

// IngestRepoMock mocks the IngestRepo interface. When WithinTransaction is
// expected to return nil, fn is run against Store.
type IngestRepoMock struct {
	mock.Mock
	Store storage.IngestStore
}

// EntryNumberExists mocks the EntryNumberExists method
func (m *IngestRepoMock) EntryNumberExists(ctx context.Context, entryNumber string) (bool, error) {
	args := m.Called(ctx, entryNumber)
	return args.Bool(0), args.Error(1)
}

// WithinTransaction mocks the WithinTransaction method
func (m *IngestRepoMock) WithinTransaction(ctx context.Context, fn storage.TxFunc) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	if m.Store == nil {
		return nil
	}
	return fn(ctx, m.Store)
}

// Close mocks the Close method
func (m *IngestRepoMock) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- IngestStore Mock ---

// IngestStoreMock mocks the IngestStore interface
type IngestStoreMock struct {
	mock.Mock
}

// CreateEntry mocks the CreateEntry method
func (m *IngestStoreMock) CreateEntry(ctx context.Context, entry *model.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// CreateHost mocks the CreateHost method
func (m *IngestStoreMock) CreateHost(ctx context.Context, host *model.Host) error {
	args := m.Called(ctx, host)
	return args.Error(0)
}

// CreateDisplacedFamily mocks the CreateDisplacedFamily method
func (m *IngestStoreMock) CreateDisplacedFamily(ctx context.Context, family *model.DisplacedFamily) error {
	args := m.Called(ctx, family)
	return args.Error(0)
}

// CreateMartyr mocks the CreateMartyr method
func (m *IngestStoreMock) CreateMartyr(ctx context.Context, martyr *model.Martyr) error {
	args := m.Called(ctx, martyr)
	return args.Error(0)
}

// CreateShelter mocks the CreateShelter method
func (m *IngestStoreMock) CreateShelter(ctx context.Context, shelter *model.Shelter) error {
	args := m.Called(ctx, shelter)
	return args.Error(0)
}

// --- TranslationRepo Mock ---

// TranslationRepoMock mocks the TranslationRepo interface
type TranslationRepoMock struct {
	mock.Mock
}

// ListTranslations mocks the ListTranslations method
func (m *TranslationRepoMock) ListTranslations(ctx context.Context) ([]model.Translation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Translation), args.Error(1)
}

// --- HealthChecker Mock ---

// HealthCheckerMock mocks the HealthChecker interface
type HealthCheckerMock struct {
	mock.Mock
}

// Ping mocks the Ping method
func (m *HealthCheckerMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
