// Package slug derives url slugs from titles and keeps them unique per table.
package slug

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// maxAttempts bounds the suffix search in Unique.
const maxAttempts = 1000

var (
	// ErrEmpty is returned when no slug can be derived from the input.
	ErrEmpty = errors.New("slug can not be empty")
	// ErrExhausted is returned when no free suffix was found.
	ErrExhausted = errors.New("no unique slug available")
)

// Make lowercases s, collapses every run of characters outside [a-z0-9] into a
// single hyphen and trims leading and trailing hyphens.
func Make(s string) string {
	var (
		b           strings.Builder
		pendingDash bool
	)

	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}

			pendingDash = false

			b.WriteRune(r)

			continue
		}

		pendingDash = true
	}

	return b.String()
}

// Unique returns base, or base-1, base-2, ... whichever is not yet used in
// the slug column of model's table. excludeID skips the row being edited.
//
// The check reads before the caller writes, two concurrent creates can
// still pick the same value; the unique index rejects the second insert.
func Unique(db *gorm.DB, model any, base string, excludeID uint64) (string, error) {
	if base == "" {
		return "", ErrEmpty
	}

	candidate := base

	for i := 1; i <= maxAttempts; i++ {
		taken, err := exists(db, model, candidate, excludeID)
		if err != nil {
			return "", err
		}

		if !taken {
			return candidate, nil
		}

		candidate = base + "-" + strconv.Itoa(i)
	}

	return "", errors.Wrap(ErrExhausted, base)
}

func exists(db *gorm.DB, model any, candidate string, excludeID uint64) (bool, error) {
	var count int64

	tx := db.Model(model).Where("slug = ?", candidate)
	if excludeID > 0 {
		tx = tx.Where("id <> ?", excludeID)
	}

	if err := tx.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check slug")
	}

	return count > 0, nil
}

// ForCreate picks the slug for a new record: the supplied slug (normalized)
// or one derived from title, made unique.
func ForCreate(db *gorm.DB, model any, supplied, title string) (string, error) {
	base := Make(supplied)
	if base == "" {
		base = Make(title)
	}

	return Unique(db, model, base, 0)
}

// ForUpdate regenerates the slug only when the title changed. The new slug
// is not checked for uniqueness here, a collision surfaces as a duplicate
// key error from the unique index.
func ForUpdate(current, oldTitle, newTitle string) string {
	if oldTitle == newTitle {
		return current
	}

	if s := Make(newTitle); s != "" {
		return s
	}

	return current
}
