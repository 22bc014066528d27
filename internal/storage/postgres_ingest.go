package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"gitlab.com/witness-archive/api/archive-ingest/internal/apperrors"
	"gitlab.com/witness-archive/api/archive-ingest/internal/model"
	"gitlab.com/witness-archive/api/archive-ingest/internal/observer"
	"gitlab.com/witness-archive/api/archive-ingest/pkg/logger"
	"gitlab.com/witness-archive/api/archive-ingest/pkg/utils"
)

// --- Ingestion Repository Methods ---

// EntryNumberExists reports whether an entry with entryNumber is already stored.
func (r *PostgresRepo) EntryNumberExists(ctx context.Context, entryNumber string) (bool, error) {
	var count int64
	operation := func() error {
		return r.db.WithContext(ctx).
			Model(&model.Entry{}).
			Where("entry_number = ?", entryNumber).
			Count(&count).Error
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	err := retryableOperation(ctx, readPolicy, "EntryNumberExists", operation)
	observer.ObserveDbOperationDuration("exists", "entry", time.Since(startTime), err)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to check entry number", zap.String("entry_number", entryNumber), zap.Error(err))
		return false, checkConstraintViolation(err)
	}
	return count > 0, nil
}

// WithinTransaction runs fn against a repo bound to a new transaction. Errors
// returned by fn are passed through untouched; commit failures are mapped to
// apperrors. Nothing here is retried: a failed delivery is terminal.
func (r *PostgresRepo) WithinTransaction(ctx context.Context, fn TxFunc) (err error) {
	startTime := utils.Now()
	defer func() {
		observer.ObserveDbOperationDuration("transaction", "entry", time.Since(startTime), err)
	}()

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrDatabase, tx.Error)
	}

	finished := false
	defer func() {
		if finished {
			return
		}
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if rbErr := tx.Rollback().Error; rbErr != nil {
			logger.FromContext(ctx).Error("Failed to rollback transaction after error", zap.Error(rbErr), zap.NamedError("originalTxError", err))
		}
	}()

	if err = fn(ctx, &PostgresRepo{db: tx}); err != nil {
		return err
	}

	finished = true
	if commitErr := tx.Commit().Error; commitErr != nil {
		err = fmt.Errorf("failed to commit transaction: %w", checkConstraintViolation(commitErr))
		return err
	}
	return nil
}

// create inserts one record and assigns its generated id.
func (r *PostgresRepo) create(ctx context.Context, entity string, record interface{}) error {
	startTime := utils.Now()
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
	observer.ObserveDbOperationDuration("create", entity, time.Since(startTime), err)
	if err != nil {
		return checkConstraintViolation(err)
	}
	return nil
}

// CreateEntry inserts a submission row.
func (r *PostgresRepo) CreateEntry(ctx context.Context, entry *model.Entry) error {
	return r.create(ctx, "entry", entry)
}

// CreateHost inserts a primary respondent row.
func (r *PostgresRepo) CreateHost(ctx context.Context, host *model.Host) error {
	return r.create(ctx, "host", host)
}

// CreateDisplacedFamily inserts a family row. The owner check mirrors the
// chk_displaced_families_owner constraint so a bad call fails before the
// round trip.
func (r *PostgresRepo) CreateDisplacedFamily(ctx context.Context, family *model.DisplacedFamily) error {
	if !family.HasSingleOwner() {
		return fmt.Errorf("%w: displaced family must reference exactly one of entry or shelter", apperrors.ErrBadRequest)
	}
	return r.create(ctx, "displaced_family", family)
}

// CreateMartyr inserts a fatality row.
func (r *PostgresRepo) CreateMartyr(ctx context.Context, martyr *model.Martyr) error {
	return r.create(ctx, "martyr", martyr)
}

// CreateShelter inserts a shelter row.
func (r *PostgresRepo) CreateShelter(ctx context.Context, shelter *model.Shelter) error {
	return r.create(ctx, "shelter", shelter)
}
