// Package localization serves the translation table to the admin UI.
package localization

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gitlab.com/witness-archive/api/archive-ingest/internal/apperrors"
	"gitlab.com/witness-archive/api/archive-ingest/internal/model"
	"gitlab.com/witness-archive/api/archive-ingest/internal/observer"
	"gitlab.com/witness-archive/api/archive-ingest/internal/storage"
	"gitlab.com/witness-archive/api/archive-ingest/pkg/logger"
)

// Cache holds resolved translation maps per locale.
type Cache interface {
	Get(ctx context.Context, locale string) (map[string]string, bool, error)
	Set(ctx context.Context, locale string, values map[string]string) error
	Invalidate(ctx context.Context, locales ...string) error
}

// Service resolves translations for a locale, reading through an optional cache.
type Service struct {
	repo  storage.TranslationRepo
	cache Cache
}

// NewService creates a Service. cache may be nil, in which case every lookup
// reads the database.
func NewService(repo storage.TranslationRepo, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Lookup returns key -> text for locale. Keys with no text in locale fall back
// to the other locale, then to the key itself.
func (s *Service) Lookup(ctx context.Context, locale string) (map[string]string, error) {
	if !model.IsSupportedLocale(locale) {
		return nil, fmt.Errorf("%w: unsupported locale %q", apperrors.ErrBadRequest, locale)
	}
	log := logger.FromContext(ctx).With(zap.String("locale", locale))

	if s.cache != nil {
		values, ok, err := s.cache.Get(ctx, locale)
		switch {
		case err != nil:
			observer.IncTranslationCacheLookup("error")
			log.Warn("Translation cache read failed, falling back to database", zap.Error(err))
		case ok:
			observer.IncTranslationCacheLookup("hit")
			return values, nil
		default:
			observer.IncTranslationCacheLookup("miss")
		}
	}

	rows, err := s.repo.ListTranslations(ctx)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value(locale)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, locale, values); err != nil {
			log.Warn("Failed to cache translations", zap.Error(err))
		}
	}
	return values, nil
}

// Invalidate drops every cached locale. Callers that edit the translations
// table invoke it after committing.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, model.LocaleEnglish, model.LocaleArabic)
}
