package models

import (
	"time"

	"gorm.io/datatypes"
)

// Inquiry sources.
const (
	SourceHome    = "home"
	SourceContact = "contact"
	SourceProduct = "product"
)

// ServiceTypes is the fixed list of services a visitor can ask about.
var ServiceTypes = []string{ //nolint:gochecknoglobals
	"New Above Ground Pool",
	"Liner Replacement",
	"Pool Install",
	"Pool Repair",
	"Service Call",
}

// Inquiry is a contact form submission. Only Read changes after creation.
type Inquiry struct {
	ID            uint64 `gorm:"primaryKey"`
	Name          string `gorm:"size:255;not null"`
	Town          string `gorm:"size:255"`
	Phone         string `gorm:"size:50"`
	Email         string `gorm:"size:255;not null"`
	Service       string `gorm:"size:100;not null"`
	Message       string `gorm:"type:text"`
	SelectedSizes datatypes.JSONSlice[string]
	ProductID     *uint64
	Source        string `gorm:"size:20;not null"`
	Read          bool   `gorm:"column:is_read;index"`
	CreatedAt     time.Time
}

// NormalizeSource maps unknown or empty sources to SourceContact.
func NormalizeSource(source string) string {
	switch source {
	case SourceHome, SourceContact, SourceProduct:
		return source
	}

	return SourceContact
}
