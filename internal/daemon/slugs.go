package daemon

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/rgcpoolandspa/poolsite/internal/db/controller/slug"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
)

// SlugFix is a slug assigned by CheckSlugs.
type SlugFix struct {
	Table string
	ID    uint64
	Old   string
	New   string
}

// SlugConflict lists rows whose slugs differ only by case, public lookups
// can only reach one of them.
type SlugConflict struct {
	Table string
	Slug  string
	IDs   []uint64
}

// SlugReport is the outcome of CheckSlugs.
type SlugReport struct {
	Fixed     []SlugFix
	Conflicts []SlugConflict
}

type sluggedRow struct {
	ID    uint64
	Slug  string
	Title string
}

// CheckSlugs backfills empty or non normalized slugs on products and
// portfolio items and reports case insensitive duplicates. With dryRun set
// nothing is written.
func CheckSlugs(ctx context.Context, db *gorm.DB, dryRun bool) (SlugReport, error) {
	var report SlugReport

	tables := []struct {
		name   string
		model  any
		titled string
	}{
		{"products", &models.Product{}, "name"},
		{"portfolio_items", &models.Portfolio{}, "title"},
	}

	for _, t := range tables {
		var rows []sluggedRow

		err := db.WithContext(ctx).Model(t.model).
			Select("id, slug, " + t.titled + " AS title").
			Order("id").
			Scan(&rows).Error
		if err != nil {
			return report, errors.Wrapf(err, "failed to read %s", t.name)
		}

		var (
			seen  = make(map[string][]uint64, len(rows))
			order []string
		)

		for _, r := range rows {
			current := r.Slug

			if current == "" || slug.Make(current) != current {
				next, err := slug.Unique(db, t.model, pick(r), r.ID)
				if err != nil {
					return report, errors.Wrapf(err, "%s %d", t.name, r.ID)
				}

				if !dryRun {
					err = db.WithContext(ctx).Model(t.model).Where("id = ?", r.ID).Update("slug", next).Error
					if err != nil {
						return report, errors.Wrapf(err, "failed to update %s %d", t.name, r.ID)
					}
				}

				report.Fixed = append(report.Fixed, SlugFix{Table: t.name, ID: r.ID, Old: current, New: next})
				current = next
			}

			key := strings.ToLower(current)
			if _, ok := seen[key]; !ok {
				order = append(order, key)
			}

			seen[key] = append(seen[key], r.ID)
		}

		for _, key := range order {
			if ids := seen[key]; len(ids) > 1 {
				report.Conflicts = append(report.Conflicts, SlugConflict{Table: t.name, Slug: key, IDs: ids})
			}
		}
	}

	return report, nil
}

// pick prefers the normalized existing slug over one derived from the title.
func pick(r sluggedRow) string {
	if s := slug.Make(r.Slug); s != "" {
		return s
	}

	if s := slug.Make(r.Title); s != "" {
		return s
	}

	return "item-" + strconv.FormatUint(r.ID, 10)
}
