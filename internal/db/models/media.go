package models

import (
	"fmt"
	"time"
)

// Variant size names.
const (
	SizeLarge     = "large"
	SizeMedium    = "medium"
	SizeThumbnail = "thumbnail"
)

// PlaceholderImage is rendered wherever a media reference can not be resolved.
const PlaceholderImage = "/static/img/placeholder.svg"

// BlobColumns are the variant payload columns, omitted when only metadata is needed.
var BlobColumns = []string{"large_data", "medium_data", "thumbnail_data"} //nolint:gochecknoglobals

// Variant is one stored rendition of an image.
type Variant struct {
	Data   []byte `json:"-"`
	Width  int
	Height int
}

// Media is an uploaded image stored as three JPEG renditions.
type Media struct {
	ID             uint64 `gorm:"primaryKey"`
	OriginalName   string `gorm:"size:255"`
	MimeType       string `gorm:"size:100"`
	Size           int64
	Title          string `gorm:"size:255"`
	Alt            string `gorm:"size:255"`
	Caption        string `gorm:"type:text"`
	FlipHorizontal bool
	FlipVertical   bool
	// Version is bumped whenever the stored pixels change, it busts browser caches.
	Version   int     `gorm:"not null"`
	Large     Variant `gorm:"embedded;embeddedPrefix:large_"`
	Medium    Variant `gorm:"embedded;embeddedPrefix:medium_"`
	Thumbnail Variant `gorm:"embedded;embeddedPrefix:thumbnail_"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Variant returns the rendition for size, nil for unknown names.
func (m *Media) Variant(size string) *Variant {
	switch size {
	case SizeLarge:
		return &m.Large
	case SizeMedium:
		return &m.Medium
	case SizeThumbnail:
		return &m.Thumbnail
	}

	return nil
}

// URL returns the public image url for size, or the placeholder for a nil media.
func (m *Media) URL(size string) string {
	if m == nil {
		return PlaceholderImage
	}

	return fmt.Sprintf("/admin/media/image/%d/%s?v=%d", m.ID, size, m.Version)
}

// AltText returns the alt text, falling back to the title and the original file name.
func (m *Media) AltText() string {
	switch {
	case m == nil:
		return ""
	case m.Alt != "":
		return m.Alt
	case m.Title != "":
		return m.Title
	}

	return m.OriginalName
}
