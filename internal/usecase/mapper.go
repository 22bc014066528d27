package usecase

import (
	"time"

	"gitlab.com/witness-archive/api/archive-ingest/internal/formdata"
	"gitlab.com/witness-archive/api/archive-ingest/internal/model"
)

// submission is a validated delivery with its resolved submission time.
type submission struct {
	model.WebhookEnvelope
	SubmittedAt time.Time
}

func buildEntry(sub submission) *model.Entry {
	return &model.Entry{
		FormID:        sub.FormID,
		EntryNumber:   sub.EntryNumber,
		DateSubmitted: sub.SubmittedAt,
		Name:          formdata.CoerceAt(sub.All, formdata.KeySubmitterName),
		Location:      formdata.CoerceAt(sub.All, formdata.KeyLocation),
		Status:        formdata.CoerceAt(sub.All, formdata.KeyStatus),
		Permalink:     sub.InternalLink,
	}
}

// buildHost expects the caller to have checked that the full name is present.
func buildHost(node map[string]any, entryID uint64) *model.Host {
	return &model.Host{
		EntryID:          entryID,
		FullName:         formdata.String(formdata.CoerceAt(node, formdata.KeyFullName)),
		Household:        formdata.CoerceAt(node, formdata.KeyHousehold),
		Location:         formdata.CoerceAt(node, formdata.KeyLocation),
		Address:          formdata.CoerceAt(node, formdata.KeyAddress),
		Phone:            formdata.CoerceAt(node, formdata.KeyPhone),
		FamilyBookNumber: formdata.CoerceAt(node, formdata.KeyFamilyBookNumber),
	}
}

// hasFamilyData is the creation guard for family nodes.
func hasFamilyData(node any) bool {
	return formdata.Present(node, formdata.KeyContact) || formdata.Present(node, formdata.KeyIndividualCount)
}

// buildFamily maps one family node. Exactly one of entryID and shelterID must
// be set; anything else is a caller bug and panics.
func buildFamily(node any, entryID, shelterID *uint64) *model.DisplacedFamily {
	if (entryID == nil) == (shelterID == nil) {
		panic("buildFamily: exactly one of entryID and shelterID must be set")
	}

	needs := formdata.FirstObject(node, formdata.NeedsKeys...)

	return &model.DisplacedFamily{
		EntryID:            entryID,
		ShelterID:          shelterID,
		IndividualCount:    formdata.CoerceAt(node, formdata.KeyIndividualCount),
		Contact:            formdata.CoerceAt(node, formdata.KeyContact),
		SpouseName:         formdata.CoerceAt(node, formdata.KeySpouseName),
		Children:           formdata.CoerceAt(node, formdata.KeyChildren),
		Needs:              formdata.CoerceAt(needs, formdata.KeyNeedsDescription),
		AssistanceType:     formdata.CoerceAt(needs, formdata.KeyAssistanceType),
		Provider:           formdata.CoerceAt(needs, formdata.KeyProvider),
		DateReceived:       formdata.CoerceAt(needs, formdata.KeyDateReceived),
		Notes:              formdata.CoerceAt(node, formdata.KeyNotes),
		ReturnFeasibility:  formdata.CoerceAt(node, formdata.KeyReturnFeasibility),
		PreviousAssistance: formdata.CoerceAt(needs, formdata.KeyPreviousAssistance),
		Images:             formdata.ImagesJSON(needs[formdata.KeyDocumentation]),
		FamilyBookNumber:   formdata.CoerceAt(node, formdata.KeyFamilyBookNumber),
	}
}

// buildMartyr expects the caller to have checked that the name is present.
// The photo arrives as a single upload wrapper, not a list.
func buildMartyr(node any, entryID uint64) *model.Martyr {
	photo, _ := formdata.Get(node, formdata.KeyMartyrPhoto)
	age, _ := formdata.Get(node, formdata.KeyAge)

	return &model.Martyr{
		EntryID:         entryID,
		Name:            formdata.String(formdata.CoerceAt(node, formdata.KeyFullName)),
		Age:             formdata.Int(age),
		Place:           formdata.CoerceAt(node, formdata.KeyMartyrdomPlace),
		RelativeContact: formdata.CoerceAt(node, formdata.KeyRelativeContact),
		Images:          formdata.ImagesJSON([]any{photo}),
	}
}

// buildShelter expects the caller to have checked that the place is present.
func buildShelter(node any, entryID uint64) *model.Shelter {
	documentation, _ := formdata.Get(node, formdata.KeyDocumentation)

	return &model.Shelter{
		EntryID: entryID,
		Place:   formdata.String(formdata.CoerceAt(node, formdata.KeyShelterPlace)),
		Contact: formdata.CoerceAt(node, formdata.KeyContact),
		Images:  formdata.ImagesJSON(documentation),
	}
}
