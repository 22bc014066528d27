package model

import (
	"time"

	"gorm.io/datatypes"
)

// Martyr is one recorded death attached to an Entry.
type Martyr struct {
	ID              uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	EntryID         uint64         `json:"entry_id" gorm:"not null;index"`
	Name            string         `json:"name" gorm:"type:text;not null"`
	Age             int            `json:"age" gorm:"not null;default:0"`
	Place           *string        `json:"place,omitempty" gorm:"type:text"`
	RelativeContact *string        `json:"relative_contact,omitempty" gorm:"type:text"`
	Images          datatypes.JSON `json:"images,omitempty" gorm:"type:jsonb"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Martyr model.
func (Martyr) TableName() string {
	return "martyrs"
}
