// Package media provides database access for stored images.
package media

import (
	"errors"

	"gorm.io/gorm"

	"github.com/rgcpoolandspa/poolsite/internal/db/models"
)

var (
	// ErrNotFound is returned when no media row has the requested id.
	ErrNotFound = errors.New("media not found")
	// ErrUnknownSize is returned for size names other than large, medium and thumbnail.
	ErrUnknownSize = errors.New("unknown media size")
)

// Get loads a media row including all variant payloads.
func Get(db *gorm.DB, id uint64) (*models.Media, error) {
	var m models.Media
	if err := db.First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}

	return &m, nil
}

// GetMeta loads a media row without variant payloads.
func GetMeta(db *gorm.DB, id uint64) (*models.Media, error) {
	var m models.Media
	if err := db.Omit(models.BlobColumns...).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}

	return &m, nil
}

// List returns one page of media metadata, newest first, and the total count.
func List(db *gorm.DB, offset, limit int) ([]models.Media, int64, error) {
	var (
		items []models.Media
		total int64
	)

	if err := db.Model(&models.Media{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Omit(models.BlobColumns...).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// Lookup loads metadata for ids. Ids without a row are absent from the map.
func Lookup(db *gorm.DB, ids []uint64) (map[uint64]*models.Media, error) {
	out := make(map[uint64]*models.Media, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var items []models.Media
	if err := db.Omit(models.BlobColumns...).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}

	for i := range items {
		out[items[i].ID] = &items[i]
	}

	return out, nil
}

// Variant loads the payload for size together with the medium payload used as fallback.
func Variant(db *gorm.DB, id uint64, size string) (requested, medium []byte, err error) {
	if size != models.SizeLarge && size != models.SizeMedium && size != models.SizeThumbnail {
		return nil, nil, ErrUnknownSize
	}

	var m models.Media

	err = db.Select("id", size+"_data", "medium_data").First(&m, id).Error
	if err != nil {
		return nil, nil, notFound(err)
	}

	return m.Variant(size).Data, m.Medium.Data, nil
}

// UpdateMeta sets the descriptive text fields of a media row.
func UpdateMeta(db *gorm.DB, id uint64, title, alt, caption string) (*models.Media, error) {
	if _, err := GetMeta(db, id); err != nil {
		return nil, err
	}

	err := db.Model(&models.Media{ID: id}).Updates(map[string]any{
		"title":   title,
		"alt":     alt,
		"caption": caption,
	}).Error
	if err != nil {
		return nil, err
	}

	return GetMeta(db, id)
}

// Delete removes a media row. References held by other records are left dangling.
func Delete(db *gorm.DB, id uint64) error {
	result := db.Delete(&models.Media{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Count returns the number of stored media rows.
func Count(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Model(&models.Media{}).Count(&n).Error

	return n, err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	return err
}
