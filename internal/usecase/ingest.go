package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gitlab.com/witness-archive/api/archive-ingest/internal/apperrors"
	"gitlab.com/witness-archive/api/archive-ingest/internal/formdata"
	"gitlab.com/witness-archive/api/archive-ingest/internal/model"
	"gitlab.com/witness-archive/api/archive-ingest/internal/observer"
	"gitlab.com/witness-archive/api/archive-ingest/internal/storage"
	"gitlab.com/witness-archive/api/archive-ingest/internal/validator"
	"gitlab.com/witness-archive/api/archive-ingest/pkg/logger"
	"gitlab.com/witness-archive/api/archive-ingest/pkg/utils"
)

// Ingest validates one decoded delivery and writes it in a single
// transaction. It returns apperrors.ErrValidation when required envelope
// fields are missing and apperrors.ErrDuplicate when the entry number was
// already ingested; no transaction is opened in either case.
func (s *IngestService) Ingest(ctx context.Context, payload map[string]any) (*IngestResult, error) {
	log := logger.FromContext(ctx)
	start := utils.Now()

	envelope := model.EnvelopeFromPayload(payload)
	if err := validator.Validate(envelope); err != nil {
		log.Warn("Webhook payload failed validation", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrBadRequest, err)
	}
	log = log.With(zap.String("entry_number", envelope.EntryNumber), zap.String("form_id", envelope.FormID))

	exists, err := s.repo.EntryNumberExists(ctx, envelope.EntryNumber)
	if err != nil {
		log.Error("Failed to check for duplicate entry", zap.Error(err))
		return nil, fmt.Errorf("failed to check entry number: %w", err)
	}
	if exists {
		log.Info("Duplicate entry number, skipping")
		return nil, fmt.Errorf("%w: entry number %s already ingested", apperrors.ErrDuplicate, envelope.EntryNumber)
	}

	sub := submission{
		WebhookEnvelope: envelope,
		SubmittedAt:     s.submittedAt(ctx, envelope.DateSubmitted),
	}

	var result *IngestResult
	err = s.repo.WithinTransaction(ctx, func(ctx context.Context, store storage.IngestStore) error {
		// Panics become errors so the transaction is rolled back, not torn down
		return utils.WrapWithContextRecovery(func(ctx context.Context) error {
			r, err := normalize(ctx, store, sub)
			if err != nil {
				return err
			}
			result = r
			return nil
		})(ctx)
	})
	if err != nil {
		log.Error("Webhook ingestion rolled back", zap.Error(err))
		return nil, err
	}

	observer.AddRecordsCreated("entry", 1)
	observer.AddRecordsCreated("host", result.Hosts)
	observer.AddRecordsCreated("displaced_family", result.Families)
	observer.AddRecordsCreated("martyr", result.Martyrs)
	observer.AddRecordsCreated("shelter", result.Shelters)

	log.Info("Webhook entry ingested",
		zap.Uint64("entry_id", result.EntryID),
		zap.Int("hosts", result.Hosts),
		zap.Int("families", result.Families),
		zap.Int("martyrs", result.Martyrs),
		zap.Int("shelters", result.Shelters),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// submittedAt resolves Entry.DateSubmitted, falling back to now when it is
// absent or unparseable.
func (s *IngestService) submittedAt(ctx context.Context, raw string) time.Time {
	if raw == "" {
		return s.now()
	}
	if t, ok := utils.ParseTimestamp(raw); ok {
		return t
	}
	logger.FromContext(ctx).Warn("Unparseable DateSubmitted, using current time", zap.String("date_submitted", raw))
	return s.now()
}

// normalize writes one submission through store: the entry first, then the
// host, directly hosted families, martyrs and shelters with their families.
// Optional branches that are absent or not lists are skipped.
func normalize(ctx context.Context, store storage.IngestStore, sub submission) (*IngestResult, error) {
	entry := buildEntry(sub)
	if err := store.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	entryID := entry.ID
	result := &IngestResult{EntryID: entryID}
	all := sub.All

	if hostNode, ok := formdata.Object(all[formdata.KeyHost]); ok && formdata.Present(hostNode, formdata.KeyFullName) {
		if err := store.CreateHost(ctx, buildHost(hostNode, entryID)); err != nil {
			return nil, fmt.Errorf("failed to create host: %w", err)
		}
		result.Hosts++
	}

	if families, ok := formdata.List(all[formdata.KeyHostedFamilies]); ok {
		created, err := createFamilies(ctx, store, families, &entryID, nil)
		if err != nil {
			return nil, err
		}
		result.Families += created
	}

	if martyrs, ok := formdata.List(all[formdata.KeyMartyrs]); ok {
		for _, node := range martyrs {
			if !formdata.Present(node, formdata.KeyFullName) {
				continue
			}
			if err := store.CreateMartyr(ctx, buildMartyr(node, entryID)); err != nil {
				return nil, fmt.Errorf("failed to create martyr: %w", err)
			}
			result.Martyrs++
		}
	}

	if shelters, ok := formdata.List(all[formdata.KeyShelters]); ok {
		for _, node := range shelters {
			if !formdata.Present(node, formdata.KeyShelterPlace) {
				continue
			}
			shelter := buildShelter(node, entryID)
			if err := store.CreateShelter(ctx, shelter); err != nil {
				return nil, fmt.Errorf("failed to create shelter: %w", err)
			}
			result.Shelters++

			if families, ok := formdata.ListAt(node, formdata.KeyShelteredFamilies); ok {
				shelterID := shelter.ID
				created, err := createFamilies(ctx, store, families, nil, &shelterID)
				if err != nil {
					return nil, err
				}
				result.Families += created
			}
		}
	}

	return result, nil
}

// createFamilies creates a row for every family node passing the guard.
func createFamilies(ctx context.Context, store storage.IngestStore, families []any, entryID, shelterID *uint64) (int, error) {
	created := 0
	for _, node := range families {
		if !hasFamilyData(node) {
			continue
		}
		if err := store.CreateDisplacedFamily(ctx, buildFamily(node, entryID, shelterID)); err != nil {
			return created, fmt.Errorf("failed to create displaced family: %w", err)
		}
		created++
	}
	return created, nil
}
