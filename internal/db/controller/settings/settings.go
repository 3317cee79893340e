// Package settings reads and writes the site settings singleton.
package settings

import (
	"errors"

	"gorm.io/gorm"

	"github.com/rgcpoolandspa/poolsite/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrInvalidTheme is returned when the theme is not one of models.Themes.
	ErrInvalidTheme = errors.New("invalid theme")
)

// Get returns the settings row, creating it with defaults when none exists.
func Get(db *gorm.DB) (*models.Settings, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var s models.Settings

	result := db.Order("id ASC").Limit(1).Find(&s)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected > 0 {
		return &s, nil
	}

	s = models.DefaultSettings()
	if err := db.Create(&s).Error; err != nil {
		return nil, err
	}

	return &s, nil
}

// Update applies in to the settings row. ID and timestamps of in are ignored.
func Update(db *gorm.DB, in models.Settings) (*models.Settings, error) {
	if !models.ValidTheme(in.Theme) {
		return nil, ErrInvalidTheme
	}

	current, err := Get(db)
	if err != nil {
		return nil, err
	}

	in.ID = current.ID
	in.CreatedAt = current.CreatedAt

	if err = db.Save(&in).Error; err != nil {
		return nil, err
	}

	return &in, nil
}
