package model

import (
	"time"

	"gorm.io/datatypes"
)

// DisplacedFamily is one family needing or receiving aid. It belongs either
// directly to an Entry or to a Shelter, never both.
type DisplacedFamily struct {
	ID                 uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	EntryID            *uint64        `json:"entry_id,omitempty" gorm:"index;check:chk_displaced_families_owner,(entry_id IS NULL) <> (shelter_id IS NULL)"`
	ShelterID          *uint64        `json:"shelter_id,omitempty" gorm:"index"`
	IndividualCount    *string        `json:"individual_count,omitempty" gorm:"type:text"`
	Contact            *string        `json:"contact,omitempty" gorm:"type:text"`
	SpouseName         *string        `json:"spouse_name,omitempty" gorm:"type:text"`
	Children           *string        `json:"children,omitempty" gorm:"type:text"` // Names and ages as entered
	Needs              *string        `json:"needs,omitempty" gorm:"type:text"`
	AssistanceType     *string        `json:"assistance_type,omitempty" gorm:"type:text"`
	Provider           *string        `json:"provider,omitempty" gorm:"type:text"`
	DateReceived       *string        `json:"date_received,omitempty" gorm:"type:text"` // Free text, not parsed
	Notes              *string        `json:"notes,omitempty" gorm:"type:text"`
	ReturnFeasibility  *string        `json:"return_feasibility,omitempty" gorm:"type:text"`
	PreviousAssistance *string        `json:"previous_assistance,omitempty" gorm:"type:text"`
	Images             datatypes.JSON `json:"images,omitempty" gorm:"type:jsonb"`
	FamilyBookNumber   *string        `json:"family_book_number,omitempty" gorm:"type:text"`
	CreatedAt          time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the DisplacedFamily model.
func (DisplacedFamily) TableName() string {
	return "displaced_families"
}

// HasSingleOwner reports whether exactly one of EntryID and ShelterID is set.
func (f *DisplacedFamily) HasSingleOwner() bool {
	return (f.EntryID == nil) != (f.ShelterID == nil)
}
