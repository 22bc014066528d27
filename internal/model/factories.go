package model

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/datatypes"

	"gitlab.com/witness-archive/api/archive-ingest/pkg/utils"
)

// ImagesJSON encodes urls the way image columns store them.
func ImagesJSON(urls ...string) datatypes.JSON {
	bytes, _ := json.Marshal(urls)
	return datatypes.JSON(bytes)
}

func init() {
	gofakeit.Seed(time.Now().UnixNano())
}

func fakeText(s string) *string {
	return &s
}

// NewEntry creates a new Entry instance with default fake data.
func NewEntry(overrideDefaults ...*Entry) *Entry {
	base := &Entry{
		FormID:        strconv.Itoa(gofakeit.Number(1, 50)),
		EntryNumber:   "E-" + gofakeit.DigitN(6),
		DateSubmitted: utils.Now().Add(-time.Duration(gofakeit.Number(1, 100)) * time.Hour),
		Name:          fakeText(gofakeit.Name()),
		Location:      fakeText(gofakeit.City()),
		Status:        fakeText(gofakeit.RandomString([]string{"نازح", "مستضيف"})),
		Permalink:     gofakeit.URL(),
		CreatedAt:     utils.Now(),
		UpdatedAt:     utils.Now(),
	}

	if len(overrideDefaults) > 0 && overrideDefaults[0] != nil {
		ovr := overrideDefaults[0]
		if ovr.ID != 0 {
			base.ID = ovr.ID
		}
		if ovr.FormID != "" {
			base.FormID = ovr.FormID
		}
		if ovr.EntryNumber != "" {
			base.EntryNumber = ovr.EntryNumber
		}
		if !ovr.DateSubmitted.IsZero() {
			base.DateSubmitted = ovr.DateSubmitted
		}
		if ovr.Permalink != "" {
			base.Permalink = ovr.Permalink
		}
		// Nullable columns are taken as given so tests can force NULL
		base.Name = ovr.Name
		base.Location = ovr.Location
		base.Status = ovr.Status
	}
	return base
}

// NewHost creates a new Host instance with default fake data.
func NewHost(entryID uint64) *Host {
	return &Host{
		EntryID:          entryID,
		FullName:         gofakeit.Name(),
		Household:        fakeText(strconv.Itoa(gofakeit.Number(1, 12))),
		Location:         fakeText(gofakeit.City()),
		Address:          fakeText(gofakeit.Street()),
		Phone:            fakeText(gofakeit.Phone()),
		FamilyBookNumber: fakeText(gofakeit.DigitN(8)),
	}
}

// NewDisplacedFamily creates a new DisplacedFamily owned by exactly one of
// entryID and shelterID.
func NewDisplacedFamily(entryID, shelterID *uint64) *DisplacedFamily {
	return &DisplacedFamily{
		EntryID:         entryID,
		ShelterID:       shelterID,
		IndividualCount: fakeText(strconv.Itoa(gofakeit.Number(1, 15))),
		Contact:         fakeText(gofakeit.Phone()),
		SpouseName:      fakeText(gofakeit.Name()),
		Needs:           fakeText(gofakeit.Sentence(4)),
		Images:          ImagesJSON(gofakeit.URL()),
	}
}

// NewMartyr creates a new Martyr instance with default fake data.
func NewMartyr(entryID uint64) *Martyr {
	return &Martyr{
		EntryID:         entryID,
		Name:            gofakeit.Name(),
		Age:             gofakeit.Number(1, 90),
		Place:           fakeText(gofakeit.City()),
		RelativeContact: fakeText(gofakeit.Phone()),
	}
}

// NewShelter creates a new Shelter instance with default fake data.
func NewShelter(entryID uint64) *Shelter {
	return &Shelter{
		EntryID: entryID,
		Place:   gofakeit.Company(),
		Contact: fakeText(gofakeit.Phone()),
		Images:  ImagesJSON(gofakeit.URL(), gofakeit.URL()),
	}
}

// NewTranslation creates a Translation with both locales filled.
func NewTranslation(key string) *Translation {
	return &Translation{
		Key: key,
		En:  fakeText(gofakeit.Word()),
		Ar:  fakeText("نص " + gofakeit.LetterN(4)),
	}
}
