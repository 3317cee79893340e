package portfolio

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler/handlertest"
)

func TestListAndDetail(t *testing.T) {
	env := handlertest.New(t)
	env.Init(t, &Service{})

	img := models.Media{OriginalName: "after.jpg", Title: "After", Version: 1}
	require.NoError(t, env.Deps.DB.Create(&img).Error)

	item := models.Portfolio{
		Title:       "Backyard Oasis",
		Slug:        "backyard-oasis",
		Description: "x",
		Images:      datatypes.JSONSlice[uint64]{999, img.ID},
		Active:      true,
	}
	require.NoError(t, env.Deps.DB.Create(&item).Error)

	resp := env.Do(t, httptest.NewRequest(http.MethodGet, Path, nil), false)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cards := env.Views.Last(t).Data["Items"].([]handler.PortfolioCard)
	require.Len(t, cards, 1)
	require.NotNil(t, cards[0].Cover)
	assert.Equal(t, img.ID, cards[0].Cover.ID)

	resp = env.Do(t, httptest.NewRequest(http.MethodGet, Path+"/backyard-oasis", nil), false)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	r := env.Views.Last(t)
	assert.Equal(t, TemplateDetail, r.Name)
	assert.Equal(t, "Backyard Oasis", r.Data["Title"])

	gallery := r.Data["Gallery"].(handler.Gallery)
	require.Len(t, gallery.Images, 1)
	require.NotNil(t, gallery.Featured)
	assert.Equal(t, img.ID, gallery.Featured.ID)

	resp = env.Do(t, httptest.NewRequest(http.MethodGet, Path+"/nope", nil), false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
