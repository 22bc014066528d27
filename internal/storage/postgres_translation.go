package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gitlab.com/witness-archive/api/archive-ingest/internal/model"
	"gitlab.com/witness-archive/api/archive-ingest/internal/observer"
	"gitlab.com/witness-archive/api/archive-ingest/pkg/logger"
	"gitlab.com/witness-archive/api/archive-ingest/pkg/utils"
)

// ListTranslations returns every translation ordered by key.
func (r *PostgresRepo) ListTranslations(ctx context.Context) ([]model.Translation, error) {
	var translations []model.Translation
	operation := func() error {
		translations = nil
		return r.db.WithContext(ctx).Order("key").Find(&translations).Error
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	err := retryableOperation(ctx, readPolicy, "ListTranslations", operation)
	observer.ObserveDbOperationDuration("list", "translation", time.Since(startTime), err)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to list translations", zap.Error(err))
		return nil, checkConstraintViolation(err)
	}
	return translations, nil
}
