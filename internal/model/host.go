package model

import (
	"time"
)

// Host is the primary respondent reporting on behalf of a hosting household.
type Host struct {
	ID               uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	EntryID          uint64    `json:"entry_id" gorm:"not null;index"`
	FullName         string    `json:"full_name" gorm:"type:text;not null"`
	Household        *string   `json:"household,omitempty" gorm:"type:text"` // Household composition, free text
	Location         *string   `json:"location,omitempty" gorm:"type:text"`
	Address          *string   `json:"address,omitempty" gorm:"type:text"`
	Phone            *string   `json:"phone,omitempty" gorm:"type:text"`
	FamilyBookNumber *string   `json:"family_book_number,omitempty" gorm:"type:text"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Host model.
func (Host) TableName() string {
	return "hosts"
}
