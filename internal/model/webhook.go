package model

import (
	"gitlab.com/witness-archive/api/archive-ingest/internal/formdata"
)

// WebhookEnvelope holds the top-level fields of a form builder delivery. The
// Arabic-keyed submission body stays generic under All.
type WebhookEnvelope struct {
	FormID        string         `json:"form_id" validate:"required"`
	EntryNumber   string         `json:"entry_number" validate:"required"`
	InternalLink  string         `json:"internal_link" validate:"required"`
	DateSubmitted string         `json:"date_submitted,omitempty" validate:"omitempty"`
	All           map[string]any `json:"all" validate:"required,min=1"`
}

// EnvelopeFromPayload extracts the envelope from a decoded delivery. Missing
// or mistyped fields are left empty for validation to report. Identity fields
// are kept verbatim, surrounding whitespace included.
func EnvelopeFromPayload(payload map[string]any) WebhookEnvelope {
	envelope := WebhookEnvelope{
		FormID:        formdata.TextAt(payload, formdata.KeyForm, formdata.KeyFormID),
		EntryNumber:   formdata.TextAt(payload, formdata.KeyEntry, formdata.KeyEntryNumber),
		InternalLink:  formdata.TextAt(payload, formdata.KeyEntry, formdata.KeyInternalLink),
		DateSubmitted: formdata.TextAt(payload, formdata.KeyEntry, formdata.KeyDateSubmitted),
	}
	if all, ok := formdata.Object(payload[formdata.KeyAll]); ok {
		envelope.All = all
	}
	return envelope
}
