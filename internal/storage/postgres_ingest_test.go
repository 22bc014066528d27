package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/witness-archive/api/archive-ingest/internal/apperrors"
	"gitlab.com/witness-archive/api/archive-ingest/internal/model"
)

const testEntryNumber = "E-100"

func insertPattern(table string) string {
	return regexp.QuoteMeta(`INSERT INTO "` + table + `"`)
}

func idRows(id uint64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id"}).AddRow(id)
}

func TestPostgresRepo_EntryNumberExists(t *testing.T) {
	countQuery := regexp.QuoteMeta(`SELECT count(*) FROM "entries" WHERE entry_number = $1`)

	t.Run("Exists", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(countQuery).
			WithArgs(testEntryNumber).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.EntryNumberExists(context.Background(), testEntryNumber)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Not exists", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(countQuery).
			WithArgs(testEntryNumber).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.EntryNumberExists(context.Background(), testEntryNumber)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Query error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(countQuery).
			WithArgs(testEntryNumber).
			WillReturnError(errors.New("relation \"entries\" does not exist"))

		exists, err := repo.EntryNumberExists(context.Background(), testEntryNumber)
		require.Error(t, err)
		assert.False(t, exists)
		assert.ErrorIs(t, err, apperrors.ErrDatabase)
	})
}

func TestPostgresRepo_WithinTransaction_Commit(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(insertPattern("entries")).WillReturnRows(idRows(42))
	mock.ExpectQuery(insertPattern("hosts")).WillReturnRows(idRows(7))
	mock.ExpectQuery(insertPattern("shelters")).WillReturnRows(idRows(3))
	mock.ExpectQuery(insertPattern("displaced_families")).WillReturnRows(idRows(11))
	mock.ExpectCommit()

	entry := model.NewEntry(&model.Entry{EntryNumber: testEntryNumber})
	var host *model.Host
	var shelter *model.Shelter
	var family *model.DisplacedFamily

	err := repo.WithinTransaction(ctx, func(ctx context.Context, store IngestStore) error {
		if err := store.CreateEntry(ctx, entry); err != nil {
			return err
		}
		host = model.NewHost(entry.ID)
		if err := store.CreateHost(ctx, host); err != nil {
			return err
		}
		shelter = model.NewShelter(entry.ID)
		if err := store.CreateShelter(ctx, shelter); err != nil {
			return err
		}
		family = model.NewDisplacedFamily(nil, &shelter.ID)
		return store.CreateDisplacedFamily(ctx, family)
	})

	require.NoError(t, err)
	assert.Equal(t, uint64(42), entry.ID)
	assert.Equal(t, uint64(42), host.EntryID)
	assert.Equal(t, uint64(7), host.ID)
	assert.Equal(t, uint64(3), shelter.ID)
	assert.Equal(t, uint64(11), family.ID)
	require.NotNil(t, family.ShelterID)
	assert.Equal(t, uint64(3), *family.ShelterID)
	assert.Nil(t, family.EntryID)
}

func TestPostgresRepo_WithinTransaction_RollbackOnThirdMartyr(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	notNull := &pgconn.PgError{Code: "23502", ColumnName: "name", Message: "null value in column \"name\""}

	mock.ExpectBegin()
	mock.ExpectQuery(insertPattern("entries")).WillReturnRows(idRows(1))
	mock.ExpectQuery(insertPattern("martyrs")).WillReturnRows(idRows(1))
	mock.ExpectQuery(insertPattern("martyrs")).WillReturnRows(idRows(2))
	mock.ExpectQuery(insertPattern("martyrs")).WillReturnError(notNull)
	mock.ExpectRollback()

	created := 0
	err := repo.WithinTransaction(ctx, func(ctx context.Context, store IngestStore) error {
		entry := model.NewEntry(nil)
		if err := store.CreateEntry(ctx, entry); err != nil {
			return err
		}
		for i := 0; i < 3; i++ {
			if err := store.CreateMartyr(ctx, model.NewMartyr(entry.ID)); err != nil {
				return err
			}
			created++
		}
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, 2, created)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.ErrorIs(t, err, notNull)
}

func TestPostgresRepo_WithinTransaction_ErrorPassthrough(t *testing.T) {
	repo, mock := newMockRepo(t)
	sentinel := errors.New("failed to build family")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := repo.WithinTransaction(context.Background(), func(ctx context.Context, store IngestStore) error {
		return sentinel
	})

	assert.Same(t, sentinel, err)
}

func TestPostgresRepo_WithinTransaction_CommitDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(insertPattern("entries")).WillReturnRows(idRows(5))
	mock.ExpectCommit().WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_entries_entry_number"})

	err := repo.WithinTransaction(context.Background(), func(ctx context.Context, store IngestStore) error {
		return store.CreateEntry(ctx, model.NewEntry(&model.Entry{EntryNumber: testEntryNumber}))
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Contains(t, err.Error(), "failed to commit transaction")
}

func TestPostgresRepo_WithinTransaction_UniqueViolationOnInsert(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(insertPattern("entries")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_entries_entry_number"})
	mock.ExpectRollback()

	err := repo.WithinTransaction(context.Background(), func(ctx context.Context, store IngestStore) error {
		return store.CreateEntry(ctx, model.NewEntry(&model.Entry{EntryNumber: testEntryNumber}))
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsDuplicateError(err))
}

func TestPostgresRepo_WithinTransaction_PanicRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "boom", func() {
		_ = repo.WithinTransaction(context.Background(), func(ctx context.Context, store IngestStore) error {
			panic("boom")
		})
	})
}

func TestPostgresRepo_WithinTransaction_BeginFails(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	called := false
	err := repo.WithinTransaction(context.Background(), func(ctx context.Context, store IngestStore) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
}

func TestPostgresRepo_CreateDisplacedFamily_RequiresSingleOwner(t *testing.T) {
	repo, _ := newMockRepo(t)
	id := uint64(9)

	err := repo.CreateDisplacedFamily(context.Background(), model.NewDisplacedFamily(nil, nil))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	err = repo.CreateDisplacedFamily(context.Background(), model.NewDisplacedFamily(&id, &id))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestPostgresRepo_CreateEntry_NullableColumns(t *testing.T) {
	repo, mock := newMockRepo(t)
	entry := model.NewEntry(&model.Entry{FormID: "12", EntryNumber: testEntryNumber, Permalink: "http://x/1"})

	mock.ExpectQuery(insertPattern("entries")).
		WithArgs("12", testEntryNumber, AnyTime{}, nil, nil, nil, "http://x/1", AnyTime{}, AnyTime{}).
		WillReturnRows(idRows(77))

	require.NoError(t, repo.CreateEntry(context.Background(), entry))
	assert.Equal(t, uint64(77), entry.ID)
}

func TestPostgresRepo_ListTranslations(t *testing.T) {
	listQuery := regexp.QuoteMeta(`SELECT * FROM "translations" ORDER BY key`)

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		rows := sqlmock.NewRows([]string{"id", "key", "en", "ar"}).
			AddRow(1, "nav.home", "Home", "الرئيسية").
			AddRow(2, "nav.about", "About", nil)
		mock.ExpectQuery(listQuery).WillReturnRows(rows)

		translations, err := repo.ListTranslations(context.Background())
		require.NoError(t, err)
		require.Len(t, translations, 2)
		assert.Equal(t, "nav.home", translations[0].Key)
		assert.Equal(t, "الرئيسية", *translations[0].Ar)
		assert.Nil(t, translations[1].Ar)
	})

	t.Run("Error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(listQuery).WillReturnError(errors.New("permission denied for table translations"))

		translations, err := repo.ListTranslations(context.Background())
		require.Error(t, err)
		assert.Nil(t, translations)
		assert.ErrorIs(t, err, apperrors.ErrDatabase)
	})
}
