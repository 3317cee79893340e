// Package catalog looks up products and portfolio items for the public site.
package catalog

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rgcpoolandspa/poolsite/internal/db/models"
)

// ErrNotFound is returned when no active record matches.
var ErrNotFound = errors.New("not found")

// Listing is implemented by the slugged, publicly listed models.
type Listing interface {
	models.Product | models.Portfolio
}

// FindPublic resolves key against active records: exact slug first, then
// case-insensitive slug, then numeric id.
func FindPublic[T Listing](db *gorm.DB, key string) (*T, error) {
	if key == "" {
		return nil, ErrNotFound
	}

	lookups := []func(tx *gorm.DB) *gorm.DB{
		func(tx *gorm.DB) *gorm.DB { return tx.Where("slug = ?", key) },
		func(tx *gorm.DB) *gorm.DB { return tx.Where("LOWER(slug) = ?", strings.ToLower(key)) },
	}

	if id, err := strconv.ParseUint(key, 10, 64); err == nil {
		lookups = append(lookups, func(tx *gorm.DB) *gorm.DB { return tx.Where("id = ?", id) })
	}

	for _, lookup := range lookups {
		var item T

		result := lookup(db.Where("active = ?", true)).Limit(1).Find(&item)
		if result.Error != nil {
			return nil, result.Error
		}

		if result.RowsAffected > 0 {
			return &item, nil
		}
	}

	return nil, ErrNotFound
}

// ActiveProducts returns active products, newest first.
func ActiveProducts(db *gorm.DB) ([]models.Product, error) {
	var items []models.Product
	err := db.Where("active = ?", true).Order("created_at DESC, id DESC").Find(&items).Error

	return items, err
}

// ActivePortfolio returns active portfolio items, newest first.
// featuredOnly restricts to featured items, limit <= 0 means no limit.
func ActivePortfolio(db *gorm.DB, featuredOnly bool, limit int) ([]models.Portfolio, error) {
	var items []models.Portfolio

	tx := db.Where("active = ?", true)
	if featuredOnly {
		tx = tx.Where("featured = ?", true)
	}

	if limit > 0 {
		tx = tx.Limit(limit)
	}

	err := tx.Order("created_at DESC, id DESC").Find(&items).Error

	return items, err
}

// ActiveServices returns active services in display order.
func ActiveServices(db *gorm.DB) ([]models.Service, error) {
	var items []models.Service
	err := db.Where("active = ?", true).Order("sort_order ASC, id ASC").Find(&items).Error

	return items, err
}

// ActiveEvents returns active events by start date. A non-zero from drops
// events that started before it, limit <= 0 means no limit.
func ActiveEvents(db *gorm.DB, from time.Time, limit int) ([]models.Event, error) {
	var items []models.Event

	tx := db.Where("active = ?", true)
	if !from.IsZero() {
		tx = tx.Where("start_date >= ?", from)
	}

	if limit > 0 {
		tx = tx.Limit(limit)
	}

	err := tx.Order("start_date ASC, id ASC").Find(&items).Error

	return items, err
}

// FindEvent returns an active event by id.
func FindEvent(db *gorm.DB, id uint64) (*models.Event, error) {
	var ev models.Event

	result := db.Where("active = ? AND id = ?", true, id).Limit(1).Find(&ev)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return &ev, nil
}

// Counts summarizes the stored records for the dashboard.
type Counts struct {
	Products        int64
	Portfolio       int64
	Services        int64
	Events          int64
	Inquiries       int64
	UnreadInquiries int64
	Media           int64
}

// Count collects Counts.
func Count(db *gorm.DB) (Counts, error) {
	var c Counts

	queries := []struct {
		dst   *int64
		model any
		where string
	}{
		{&c.Products, &models.Product{}, ""},
		{&c.Portfolio, &models.Portfolio{}, ""},
		{&c.Services, &models.Service{}, ""},
		{&c.Events, &models.Event{}, ""},
		{&c.Inquiries, &models.Inquiry{}, ""},
		{&c.UnreadInquiries, &models.Inquiry{}, "is_read = ?"},
		{&c.Media, &models.Media{}, ""},
	}

	for _, q := range queries {
		tx := db.Model(q.model)
		if q.where != "" {
			tx = tx.Where(q.where, false)
		}

		if err := tx.Count(q.dst).Error; err != nil {
			return Counts{}, err
		}
	}

	return c, nil
}
