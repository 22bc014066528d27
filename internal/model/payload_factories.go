package model

import (
	"strconv"

	"github.com/brianvoe/gofakeit/v6"

	"gitlab.com/witness-archive/api/archive-ingest/internal/formdata"
	"gitlab.com/witness-archive/api/archive-ingest/pkg/utils"
)

// --- Form builder payload factories ---
// These build deliveries shaped like the form builder's JSON, using the same
// generic types encoding/json produces.

// NewSubmissionPayload returns a delivery with a valid envelope and an All
// section holding only the submitter fields. Callers add branches to All.
func NewSubmissionPayload(entryNumber string) map[string]any {
	if entryNumber == "" {
		entryNumber = "E-" + gofakeit.DigitN(6)
	}
	return map[string]any{
		formdata.KeyForm: map[string]any{
			formdata.KeyFormID: strconv.Itoa(gofakeit.Number(1, 50)),
		},
		formdata.KeyEntry: map[string]any{
			formdata.KeyEntryNumber:   entryNumber,
			formdata.KeyDateSubmitted: utils.FormatISO8601(utils.Now()),
			formdata.KeyInternalLink:  gofakeit.URL(),
		},
		formdata.KeyAll: map[string]any{
			formdata.KeySubmitterName: gofakeit.Name(),
			formdata.KeyLocation:      gofakeit.City(),
			formdata.KeyStatus:        "مستضيف",
		},
	}
}

// AllSection returns the All object of a payload built by NewSubmissionPayload.
func AllSection(payload map[string]any) map[string]any {
	all, _ := payload[formdata.KeyAll].(map[string]any)
	return all
}

// NewUploadList wraps urls in the form builder's upload structure.
func NewUploadList(urls ...string) []any {
	uploads := make([]any, 0, len(urls))
	for _, url := range urls {
		uploads = append(uploads, map[string]any{formdata.KeyFile: url})
	}
	return []any{map[string]any{formdata.KeyUploads: uploads}}
}

// NewHostNode returns a primary respondent object with the given full name.
func NewHostNode(fullName string) map[string]any {
	return map[string]any{
		formdata.KeyFullName:         fullName,
		formdata.KeyHousehold:        []any{"أب", "أم", "طفلان"},
		formdata.KeyLocation:         gofakeit.City(),
		formdata.KeyAddress:          gofakeit.Street(),
		formdata.KeyPhone:            gofakeit.Phone(),
		formdata.KeyFamilyBookNumber: gofakeit.DigitN(8),
	}
}

// NewFamilyNode returns a family object. Empty arguments leave the field blank
// so tests can exercise the creation guard.
func NewFamilyNode(contact, individualCount string) map[string]any {
	return map[string]any{
		formdata.KeyContact:         contact,
		formdata.KeyIndividualCount: individualCount,
		formdata.KeySpouseName:      gofakeit.Name(),
		formdata.KeyChildren:        "",
		formdata.KeyNotes:           gofakeit.Sentence(3),
		formdata.NeedsKeys[0]: map[string]any{
			formdata.KeyNeedsDescription: []any{"غذاء", "دواء"},
			formdata.KeyAssistanceType:   "طرود غذائية",
			formdata.KeyDocumentation:    NewUploadList(gofakeit.URL()),
		},
	}
}

// NewMartyrNode returns a fatality object with a single photo upload.
func NewMartyrNode(name, age string) map[string]any {
	photos := NewUploadList(gofakeit.URL())
	return map[string]any{
		formdata.KeyFullName:        name,
		formdata.KeyAge:             age,
		formdata.KeyMartyrdomPlace:  gofakeit.City(),
		formdata.KeyRelativeContact: gofakeit.Phone(),
		formdata.KeyMartyrPhoto:     photos[0],
	}
}

// NewShelterNode returns a shelter object holding the given families.
func NewShelterNode(place string, families ...map[string]any) map[string]any {
	node := map[string]any{
		formdata.KeyShelterPlace:  place,
		formdata.KeyContact:       gofakeit.Phone(),
		formdata.KeyDocumentation: NewUploadList(gofakeit.URL(), gofakeit.URL()),
	}
	if len(families) > 0 {
		list := make([]any, 0, len(families))
		for _, family := range families {
			list = append(list, family)
		}
		node[formdata.KeyShelteredFamilies] = list
	}
	return node
}
