package handler

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gitlab.com/witness-archive/api/archive-ingest/internal/apperrors"
	"gitlab.com/witness-archive/api/archive-ingest/internal/config"
	"gitlab.com/witness-archive/api/archive-ingest/internal/observer"
	"gitlab.com/witness-archive/api/archive-ingest/internal/usecase"
	"gitlab.com/witness-archive/api/archive-ingest/pkg/logger"
	"gitlab.com/witness-archive/api/archive-ingest/pkg/utils"
)

// SecretHeader carries the shared webhook secret.
const SecretHeader = "X-Webhook-Secret"

// Ingester processes one decoded delivery.
type Ingester interface {
	Ingest(ctx context.Context, payload map[string]any) (*usecase.IngestResult, error)
}

// WebhookHandler receives form builder deliveries.
type WebhookHandler struct {
	ingester     Ingester
	secret       string
	maxBodyBytes int64
}

// NewWebhookHandler creates a handler. An empty cfg.Secret disables the
// secret check.
func NewWebhookHandler(ingester Ingester, cfg config.WebhookConfig) *WebhookHandler {
	return &WebhookHandler{
		ingester:     ingester,
		secret:       cfg.Secret,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

// Handle is the POST handler for the webhook path.
func (h *WebhookHandler) Handle(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	outcome := observer.OutcomeFailed
	defer func() {
		observer.IncWebhookRequest(outcome)
		observer.ObserveWebhookDuration(outcome, time.Since(start))
	}()

	if !h.authorized(c.GetHeader(SecretHeader)) {
		outcome = observer.OutcomeUnauthorized
		log.Warn("Webhook rejected: secret mismatch", zap.String("remote_addr", c.ClientIP()))
		RespondError(c, http.StatusUnauthorized, MsgUnauthorized)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		outcome = observer.OutcomeInvalid
		log.Warn("Failed to read webhook body",
			zap.Error(err),
			zap.String("limit", utils.ByteCountSI(h.maxBodyBytes)),
		)
		RespondError(c, http.StatusBadRequest, MsgInvalidData)
		return
	}

	log.Info("Webhook received",
		zap.ByteString("payload", body),
		zap.String("size", utils.ByteCountSI(int64(len(body)))),
	)

	payload, err := decodePayload(body)
	if err != nil {
		outcome = observer.OutcomeInvalid
		log.Warn("Webhook body is not a JSON object", zap.Error(err))
		RespondError(c, http.StatusBadRequest, MsgInvalidData)
		return
	}

	result, err := h.ingester.Ingest(ctx, payload)
	if err != nil {
		// Only the envelope gate answers 400. Constraint failures raised while
		// writing are processing errors even when classified as bad requests.
		switch {
		case apperrors.IsValidationError(err):
			outcome = observer.OutcomeInvalid
			RespondError(c, http.StatusBadRequest, MsgInvalidData)
		case apperrors.IsDuplicateError(err):
			outcome = observer.OutcomeDuplicate
			RespondError(c, http.StatusConflict, MsgDuplicateEntry)
		case apperrors.IsUnauthorizedError(err):
			outcome = observer.OutcomeUnauthorized
			RespondError(c, http.StatusUnauthorized, MsgUnauthorized)
		default:
			log.Error("Failed to process webhook", zap.Error(err), zap.ByteString("payload", body))
			RespondError(c, http.StatusInternalServerError, MsgProcessingError+err.Error())
		}
		return
	}

	outcome = observer.OutcomeSuccess
	RespondOK(c, WebhookResponse{Success: true, EntryID: result.EntryID})
}

func (h *WebhookHandler) authorized(provided string) bool {
	if h.secret == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) == 1
}

// decodePayload parses body as exactly one JSON object. Numbers stay
// json.Number so identifiers and ages keep their literal form.
func decodePayload(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, errors.New("payload is null")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON object")
	}
	return payload, nil
}
