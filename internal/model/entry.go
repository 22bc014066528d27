package model

import (
	"time"
)

// Entry is one webhook-delivered form submission.
type Entry struct {
	ID            uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	FormID        string    `json:"form_id" gorm:"type:text;not null"`
	EntryNumber   string    `json:"entry_number" gorm:"type:text;not null;uniqueIndex:idx_entries_entry_number"` // Dedup key for deliveries
	DateSubmitted time.Time `json:"date_submitted" gorm:"type:timestamptz;not null"`
	Name          *string   `json:"name,omitempty" gorm:"type:text"` // Submitter name
	Location      *string   `json:"location,omitempty" gorm:"type:text"`
	Status        *string   `json:"status,omitempty" gorm:"type:text"`
	Permalink     string    `json:"permalink" gorm:"type:text;not null"` // Entry.InternalLink upstream
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Hosts             []Host            `json:"hosts,omitempty" gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
	DisplacedFamilies []DisplacedFamily `json:"displaced_families,omitempty" gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
	Martyrs           []Martyr          `json:"martyrs,omitempty" gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
	Shelters          []Shelter         `json:"shelters,omitempty" gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Entry model.
func (Entry) TableName() string {
	return "entries"
}
