package model

import (
	"time"

	"gorm.io/datatypes"
)

// Shelter is a physical shelter reported in an Entry. Families sheltered there
// reference it through DisplacedFamily.ShelterID.
type Shelter struct {
	ID        uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	EntryID   uint64         `json:"entry_id" gorm:"not null;index"`
	Place     string         `json:"place" gorm:"type:text;not null"`
	Contact   *string        `json:"contact,omitempty" gorm:"type:text"`
	Images    datatypes.JSON `json:"images,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`

	Families []DisplacedFamily `json:"families,omitempty" gorm:"foreignKey:ShelterID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Shelter model.
func (Shelter) TableName() string {
	return "shelters"
}
