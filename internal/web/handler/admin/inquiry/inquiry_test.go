package inquiry

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler/handlertest"
)

func seed(t *testing.T, db *gorm.DB) (unread, read models.Inquiry) {
	t.Helper()

	unread = models.Inquiry{Name: "Jane", Email: "j@example.com", Service: "Pool Repair", Source: models.SourceContact}
	read = models.Inquiry{Name: "Joe", Email: "joe@example.com", Service: "Service Call", Source: models.SourceHome, Read: true}

	require.NoError(t, db.Create(&unread).Error)
	require.NoError(t, db.Create(&read).Error)

	return unread, read
}

func TestList(t *testing.T) {
	env := handlertest.New(t)
	env.Init(t, &Service{})
	seed(t, env.Deps.DB)

	resp := env.Get(t, Path)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, env.Views.Last(t).Data["Inquiries"], 2)

	resp = env.Get(t, Path+"?unread=1")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	r := env.Views.Last(t)
	require.Len(t, r.Data["Inquiries"], 1)
	assert.Equal(t, "Jane", r.Data["Inquiries"].([]models.Inquiry)[0].Name)
	assert.Equal(t, true, r.Data["UnreadOnly"])
}

func TestMarkReadAndDelete(t *testing.T) {
	env := handlertest.New(t)
	env.Init(t, &Service{})
	unread, _ := seed(t, env.Deps.DB)

	target := Path + "/" + strconv.FormatUint(unread.ID, 10)

	resp := env.Form(t, http.MethodPost, target+"/read", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var got models.Inquiry
	require.NoError(t, env.Deps.DB.First(&got, unread.ID).Error)
	assert.True(t, got.Read)
	assert.Equal(t, "Jane", got.Name)

	resp = env.Form(t, http.MethodPost, target+"/delete", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var count int64
	require.NoError(t, env.Deps.DB.Model(&models.Inquiry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	resp = env.Get(t, target)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
