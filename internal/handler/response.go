// Package handler contains the gin handlers of the public HTTP surface.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response bodies returned by the webhook endpoint.
const (
	MsgInvalidData     = "Invalid data"
	MsgDuplicateEntry  = "Duplicate entry number"
	MsgUnauthorized    = "Unauthorized"
	MsgProcessingError = "Failed to process webhook: "
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WebhookResponse acknowledges an ingested delivery.
type WebhookResponse struct {
	Success bool   `json:"success"`
	EntryID uint64 `json:"entry_id"`
}

// TranslationsResponse carries the resolved strings of one locale.
type TranslationsResponse struct {
	Locale       string            `json:"locale"`
	Translations map[string]string `json:"translations"`
}

// RespondError aborts the request with status and message.
func RespondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

// RespondOK writes payload with status 200.
func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
