package dashboard

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgcpoolandspa/poolsite/internal/db/controller/catalog"
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

func TestGet(t *testing.T) {
	env := newEnv(t)
	db := env.Deps.DB

	require.NoError(t, db.Create(&models.Product{Name: "Spa", Slug: "spa", Description: "x", Active: true}).Error)
	require.NoError(t, db.Create(&models.Service{Name: "Repair", Active: true}).Error)

	base := time.Now().Add(-time.Hour)
	for i := range 7 {
		inq := models.Inquiry{
			Name:      "Visitor " + strconv.Itoa(i),
			Email:     "v@example.com",
			Service:   "Pool Repair",
			Source:    models.SourceContact,
			Read:      i < 2,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&inq).Error)
	}

	resp := env.Get(t, Path)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	r := env.Views.Last(t)
	assert.Equal(t, TemplateName, r.Name)
	assert.Equal(t, []string{handler.BaseLayout}, r.Layouts)
	assert.Equal(t, env.Admin.ID, r.Data["CurrentAdmin"].(*models.Admin).ID)

	counts := r.Data["Counts"].(catalog.Counts)
	assert.Equal(t, int64(1), counts.Products)
	assert.Equal(t, int64(1), counts.Services)
	assert.Equal(t, int64(7), counts.Inquiries)
	assert.Equal(t, int64(5), counts.UnreadInquiries)
	assert.Zero(t, counts.Media)

	recent := r.Data["RecentInquiries"].([]models.Inquiry)
	require.Len(t, recent, RecentInquiries)
	assert.Equal(t, "Visitor 6", recent[0].Name)
	assert.Equal(t, "Visitor 2", recent[4].Name)
}

func TestAdminRootRedirects(t *testing.T) {
	env := newEnv(t)

	resp := env.Get(t, handler.AdminPath)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, Path, resp.Header.Get("Location"))
}

func TestRequiresLogin(t *testing.T) {
	env := newEnv(t)

	resp := env.Do(t, httptest.NewRequest(http.MethodGet, Path, nil), false)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, handler.LoginPath, resp.Header.Get("Location"))
}

func TestCountFailureUsesAdminLayout(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, env.Deps.DB.Migrator().DropTable(&models.Media{}))

	resp := env.Get(t, Path)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	r := env.Views.Last(t)
	assert.Equal(t, []string{handler.BaseLayout}, r.Layouts)
	assert.Equal(t, "Failed to load dashboard", r.Data["Error"])
	assert.NotNil(t, r.Data["CurrentAdmin"])
	assert.Contains(t, r.Data, "Flash")
}
