package daemon

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgcpoolandspa/poolsite/internal/config"
	"github.com/rgcpoolandspa/poolsite/internal/db/dbtest"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/media"
	"github.com/rgcpoolandspa/poolsite/internal/web/session"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Title: "Pool & Spa",
		DB: config.DB{
			GormEngine:     config.EngineSQLite,
			Name:           filepath.Join(t.TempDir(), "site.db"),
			ConnectTimeout: 5 * time.Second,
		},
		Webserver: config.Webserver{
			Port:         8080,
			URL:          "http://localhost:8080",
			ShutDownTime: 1,
			Session:      config.Session{ExpiryTime: time.Hour, CookieName: "session"},
		},
		Admin: config.Admin{Username: "admin", Password: "secret", Email: "admin@example.com"},
		Media: config.Media{MaxUploadSize: 10 << 20, MaxFiles: 10},
	}
}

func TestNewBootstrapsStore(t *testing.T) {
	d, err := New(testConfig(t))
	require.NoError(t, err)

	t.Cleanup(func() { _ = d.Close() })

	var admins, rows int64
	require.NoError(t, d.db.Model(&models.Admin{}).Count(&admins).Error)
	require.NoError(t, d.db.Model(&models.Settings{}).Count(&rows).Error)

	assert.Equal(t, int64(1), admins)
	assert.Equal(t, int64(1), rows)
	assert.IsType(t, &session.GormStorage{}, d.storage)
	assert.NotNil(t, d.webService)
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestNewUnknownEngine(t *testing.T) {
	cfg := testConfig(t)
	cfg.DB.GormEngine = "oracle"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestBootstrapWithoutPassword(t *testing.T) {
	db := dbtest.Open(t)
	cfg := testConfig(t)
	cfg.Admin.Password = ""

	require.NoError(t, Bootstrap(cfg, db))

	var admins int64
	require.NoError(t, db.Model(&models.Admin{}).Count(&admins).Error)
	assert.Zero(t, admins)
}

func TestBootstrapIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	cfg := testConfig(t)

	require.NoError(t, Bootstrap(cfg, db))
	require.NoError(t, Bootstrap(cfg, db))

	var admins int64
	require.NoError(t, db.Model(&models.Admin{}).Count(&admins).Error)
	assert.Equal(t, int64(1), admins)
}

func TestSeed(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	res, err := Seed(ctx, db, media.NewService(db))
	require.NoError(t, err)

	assert.Equal(t, len(sampleServices), res.Services)
	assert.Equal(t, 2, res.Products)
	assert.Equal(t, 2, res.Portfolio)
	assert.Equal(t, 2, res.Events)
	assert.Equal(t, 3, res.Media)

	var p models.Product
	require.NoError(t, db.Where("slug = ?", "fiberglass-inground-pool").First(&p).Error)
	require.NotNil(t, p.FeaturedImageID)
	assert.Len(t, p.Images, 3)
	assert.Len(t, p.Sizes, 3)

	var m models.Media
	require.NoError(t, db.First(&m, *p.FeaturedImageID).Error)
	assert.Equal(t, 1600, m.Large.Width)

	again, err := Seed(ctx, db, media.NewService(db))
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, again)
}

func TestCheckSlugs(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Product{Name: "Hot Tub", Slug: "Hot Tub", Description: "x"}).Error)
	require.NoError(t, db.Create(&models.Product{Name: "Hot Tub", Slug: "hot-tub", Description: "x"}).Error)
	require.NoError(t, db.Create(&models.Portfolio{Title: "Lake House", Slug: "lake-house", Description: "x"}).Error)

	dry, err := CheckSlugs(ctx, db, true)
	require.NoError(t, err)
	require.Len(t, dry.Fixed, 1)
	assert.Equal(t, "hot-tub-1", dry.Fixed[0].New)

	var first models.Product
	require.NoError(t, db.First(&first, dry.Fixed[0].ID).Error)
	assert.Equal(t, "Hot Tub", first.Slug)

	report, err := CheckSlugs(ctx, db, false)
	require.NoError(t, err)
	require.Len(t, report.Fixed, 1)
	assert.Empty(t, report.Conflicts)

	require.NoError(t, db.First(&first, report.Fixed[0].ID).Error)
	assert.Equal(t, "hot-tub-1", first.Slug)

	report, err = CheckSlugs(ctx, db, false)
	require.NoError(t, err)
	assert.Empty(t, report.Fixed)
}

func TestCheckSlugsNormalizesCaseDuplicates(t *testing.T) {
	db := dbtest.Open(t)

	rows := []sluggedRow{{ID: 1, Slug: "", Title: "!!"}}
	assert.Equal(t, "item-1", pick(rows[0]))

	require.NoError(t, db.Create(&models.Portfolio{Title: "Spa", Slug: "spa", Description: "x"}).Error)
	require.NoError(t, db.Create(&models.Portfolio{Title: "SPA", Slug: "SPA", Description: "x"}).Error)

	report, err := CheckSlugs(context.Background(), db, true)
	require.NoError(t, err)
	require.Len(t, report.Fixed, 1)
	assert.Equal(t, "spa-1", report.Fixed[0].New)
	assert.Empty(t, report.Conflicts)
}
