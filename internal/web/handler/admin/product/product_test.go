package product

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler/handlertest"
)

func newEnv(t *testing.T) *handlertest.Env {
	t.Helper()

	env := handlertest.New(t)
	env.Init(t, &Service{})

	return env
}

func TestCreate(t *testing.T) {
	env := newEnv(t)

	form := url.Values{
		"name":            {"Deluxe Pool"},
		"description":     {"A deluxe above ground pool."},
		"sizes":           {"15' Round\n18' Round|18-round"},
		"images[]":        {"3", "5"},
		"active":          {"on"},
		"showContactForm": {"on"},
	}

	resp := env.Form(t, http.MethodPost, Path, form)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, Path, resp.Header.Get("Location"))

	var p models.Product
	require.NoError(t, env.Deps.DB.First(&p).Error)

	assert.Equal(t, "deluxe-pool", p.Slug)
	assert.True(t, p.Active)
	assert.True(t, p.ShowContactForm)
	assert.False(t, p.Featured)
	assert.Equal(t, []uint64{3, 5}, []uint64(p.Images))
	require.NotNil(t, p.FeaturedImageID)
	assert.Equal(t, uint64(3), *p.FeaturedImageID)
	assert.Equal(t, []models.SizeOption{
		{Label: "15' Round", Value: "15-round"},
		{Label: "18' Round", Value: "18-round"},
	}, []models.SizeOption(p.Sizes))

	resp = env.Form(t, http.MethodPost, Path, form)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var second models.Product
	require.NoError(t, env.Deps.DB.Order("id DESC").First(&second).Error)
	assert.Equal(t, "deluxe-pool-1", second.Slug)
}

func TestCreate_ValidationRendersForm(t *testing.T) {
	env := newEnv(t)

	resp := env.Form(t, http.MethodPost, Path, url.Values{"name": {"No description"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	r := env.Views.Last(t)
	assert.Equal(t, TemplateForm, r.Name)
	assert.Equal(t, []string{handler.BaseLayout}, r.Layouts)
	assert.Equal(t, "Description is required", r.Data["Error"])

	var count int64
	require.NoError(t, env.Deps.DB.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRequiresAuth(t *testing.T) {
	env := newEnv(t)

	resp := env.Do(t, httptest.NewRequest(http.MethodGet, Path, nil), false)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, handler.LoginPath, resp.Header.Get("Location"))
}

func TestUpdate(t *testing.T) {
	env := newEnv(t)

	p := models.Product{Name: "Old", Slug: "old", Description: "d", Active: true}
	require.NoError(t, env.Deps.DB.Create(&p).Error)

	other := models.Product{Name: "Taken", Slug: "new-name", Description: "d"}
	require.NoError(t, env.Deps.DB.Create(&other).Error)

	target := Path + "/" + strconv.FormatUint(p.ID, 10)

	resp := env.Form(t, http.MethodPut, target, url.Values{"name": {"Old"}, "description": {"changed"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var got models.Product
	require.NoError(t, env.Deps.DB.First(&got, p.ID).Error)
	assert.Equal(t, "old", got.Slug, "unchanged name keeps the slug")
	assert.Equal(t, "changed", got.Description)
	assert.False(t, got.Active, "unchecked box clears the flag")

	resp = env.Form(t, http.MethodPost, target, url.Values{"name": {"Brand New"}, "description": {"d"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.NoError(t, env.Deps.DB.First(&got, p.ID).Error)
	assert.Equal(t, "brand-new", got.Slug)

	// a rename colliding with another slug is not re-checked and hits the unique index
	resp = env.Form(t, http.MethodPost, target, url.Values{"name": {"New Name"}, "description": {"d"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "A product with this slug already exists", env.Views.Last(t).Data["Error"])
}

func TestEditUnknown(t *testing.T) {
	env := newEnv(t)

	resp := env.Get(t, Path+"/999/edit")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDelete(t *testing.T) {
	env := newEnv(t)

	p := models.Product{Name: "Gone", Slug: "gone", Description: "d"}
	require.NoError(t, env.Deps.DB.Create(&p).Error)

	target := Path + "/" + strconv.FormatUint(p.ID, 10)

	req := httptest.NewRequest(http.MethodDelete, target, nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp := env.Do(t, req, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, handlertest.Body(t, resp), `"success":true`)

	resp = env.Form(t, http.MethodPost, target+"/delete", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	flash := handlertest.Cookie(resp, "flash")
	require.NotNil(t, flash)
	assert.Contains(t, flash.Value, handler.FlashError)
}

func TestParseSizes(t *testing.T) {
	got := ParseSizes([]string{"A|a\r\n\nB", "  C | c "})
	assert.Equal(t, []models.SizeOption{
		{Label: "A", Value: "a"},
		{Label: "B", Value: "b"},
		{Label: "C", Value: "c"},
	}, got)

	assert.Equal(t, "A|a\nB|b", FormatSizes(got[:2]))
}

func TestListFailureUsesAdminLayout(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, env.Deps.DB.Migrator().DropTable(&models.Product{}))

	resp := env.Get(t, Path)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	r := env.Views.Last(t)
	assert.Equal(t, TemplateList, r.Name)
	assert.Equal(t, []string{handler.BaseLayout}, r.Layouts)
	assert.Equal(t, "Failed to load products", r.Data["Error"])
	assert.NotNil(t, r.Data["CurrentAdmin"])
}
