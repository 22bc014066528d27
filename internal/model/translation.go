package model

import (
	"time"
)

// Locale values served by the translation endpoint.
const (
	LocaleEnglish = "en"
	LocaleArabic  = "ar"
)

// Translation is one localized UI string managed by the admin side.
type Translation struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Key       string    `json:"key" gorm:"type:text;not null;uniqueIndex"`
	En        *string   `json:"en,omitempty" gorm:"type:text"`
	Ar        *string   `json:"ar,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Translation model.
func (Translation) TableName() string {
	return "translations"
}

// IsSupportedLocale reports whether locale is served.
func IsSupportedLocale(locale string) bool {
	return locale == LocaleEnglish || locale == LocaleArabic
}

// Value returns the text for locale, falling back to the other locale and
// finally to the key itself.
func (t Translation) Value(locale string) string {
	primary, secondary := t.En, t.Ar
	if locale == LocaleArabic {
		primary, secondary = t.Ar, t.En
	}
	if primary != nil && *primary != "" {
		return *primary
	}
	if secondary != nil && *secondary != "" {
		return *secondary
	}
	return t.Key
}
