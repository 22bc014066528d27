package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gitlab.com/witness-archive/api/archive-ingest/internal/apperrors"
	"gitlab.com/witness-archive/api/archive-ingest/pkg/logger"
)

// TranslationLookup resolves the strings of one locale.
type TranslationLookup interface {
	Lookup(ctx context.Context, locale string) (map[string]string, error)
}

// TranslationHandler serves GET /api/translations/:locale.
type TranslationHandler struct {
	lookup TranslationLookup
}

// NewTranslationHandler creates a TranslationHandler.
func NewTranslationHandler(lookup TranslationLookup) *TranslationHandler {
	return &TranslationHandler{lookup: lookup}
}

// Get returns the translations of the :locale path parameter.
func (h *TranslationHandler) Get(c *gin.Context) {
	locale := c.Param("locale")

	values, err := h.lookup.Lookup(c.Request.Context(), locale)
	if err != nil {
		if apperrors.IsBadRequestError(err) {
			RespondError(c, http.StatusBadRequest, "Unsupported locale")
			return
		}
		logger.FromContext(c.Request.Context()).Error("Failed to load translations",
			zap.String("locale", locale), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Failed to load translations")
		return
	}

	RespondOK(c, TranslationsResponse{Locale: locale, Translations: values})
}
