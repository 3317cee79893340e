package models

import (
	"time"

	"gorm.io/datatypes"
)

// SizeOption is a labelled pool size offered on a product page.
type SizeOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Product is a pool or spa model sold by the business.
type Product struct {
	ID              uint64 `gorm:"primaryKey"`
	Name            string `gorm:"size:255;not null"`
	Slug            string `gorm:"uniqueIndex;size:255;not null"`
	Description     string `gorm:"type:text;not null"`
	Sizes           datatypes.JSONSlice[SizeOption]
	Images          datatypes.JSONSlice[uint64]
	FeaturedImageID *uint64
	SEOTitle        string `gorm:"column:seo_title;size:255"`
	SEODescription  string `gorm:"column:seo_description;size:500"`
	ShowContactForm bool
	Active          bool `gorm:"index"`
	Featured        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Portfolio is a completed installation shown in the gallery.
type Portfolio struct {
	ID              uint64 `gorm:"primaryKey"`
	Title           string `gorm:"size:255;not null"`
	Slug            string `gorm:"uniqueIndex;size:255;not null"`
	Description     string `gorm:"type:text;not null"`
	Images          datatypes.JSONSlice[uint64]
	FeaturedImageID *uint64
	SEOTitle        string `gorm:"column:seo_title;size:255"`
	SEODescription  string `gorm:"column:seo_description;size:500"`
	Active          bool `gorm:"index"`
	Featured        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName stores portfolio items in portfolio_items.
func (Portfolio) TableName() string { return "portfolio_items" }

// Service is an offering listed on the home page.
type Service struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	Icon        string `gorm:"size:100"`
	Order       int    `gorm:"column:sort_order"`
	Active      bool
	Featured    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Event is a calendar entry such as a sale or an open house.
type Event struct {
	ID          uint64    `gorm:"primaryKey"`
	Title       string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text"`
	StartDate   time.Time `gorm:"not null;index"`
	EndDate     *time.Time
	AllDay      bool
	Location    string `gorm:"size:255"`
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MediaIDs returns every media id referenced by the product, featured image first.
func (p *Product) MediaIDs() []uint64 { return collectMediaIDs(p.FeaturedImageID, p.Images) }

// MediaIDs returns every media id referenced by the portfolio item, featured image first.
func (p *Portfolio) MediaIDs() []uint64 { return collectMediaIDs(p.FeaturedImageID, p.Images) }

func collectMediaIDs(featured *uint64, images []uint64) []uint64 {
	ids := make([]uint64, 0, len(images)+1)
	if featured != nil {
		ids = append(ids, *featured)
	}

	return append(ids, images...)
}
