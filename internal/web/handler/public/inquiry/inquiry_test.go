package inquiry

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler/handlertest"
)

func submit(t *testing.T, env *handlertest.Env, form url.Values) *http.Response {
	t.Helper()

	return env.Do(t, handlertest.FormRequest(http.MethodPost, Path, form), false)
}

func jane() url.Values {
	return url.Values{
		"name":    {"Jane"},
		"email":   {"j@example.com"},
		"service": {"Pool Repair"},
		"message": {"leak"},
	}
}

func TestSubmitContact(t *testing.T) {
	env := handlertest.New(t)
	env.Init(t, &Service{})

	resp := submit(t, env, jane())
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, ContactPath, resp.Header.Get("Location"))
	assert.NotNil(t, handlertest.Cookie(resp, "flash"))

	var inq models.Inquiry
	require.NoError(t, env.Deps.DB.First(&inq).Error)
	assert.Equal(t, "Jane", inq.Name)
	assert.Equal(t, "leak", inq.Message)
	assert.Equal(t, models.SourceContact, inq.Source)
	assert.False(t, inq.Read)
	assert.Nil(t, inq.ProductID)

	assert.Equal(t, 1, env.Mailer.Calls())
	require.Len(t, env.Mailer.Sent, 1)
	assert.Equal(t, inq.ID, env.Mailer.Sent[0].ID)
}

func TestSubmitMailFailureStillSucceeds(t *testing.T) {
	env := handlertest.New(t)
	env.Mailer.Err = errors.New("smtp down")
	env.Init(t, &Service{})

	resp := submit(t, env, jane())
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, ContactPath, resp.Header.Get("Location"))
	assert.Equal(t, 1, env.Mailer.Calls())

	var count int64
	require.NoError(t, env.Deps.DB.Model(&models.Inquiry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubmitProduct(t *testing.T) {
	env := handlertest.New(t)
	env.Init(t, &Service{})

	p := models.Product{Name: "Deluxe", Slug: "deluxe", Description: "d", Active: true}
	require.NoError(t, env.Deps.DB.Create(&p).Error)

	form := jane()
	form.Set("source", models.SourceProduct)
	form.Set("productId", strconv.FormatUint(p.ID, 10))
	form["selectedSizes[]"] = []string{"15ft", "18ft"}

	resp := submit(t, env, form)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/products/deluxe", resp.Header.Get("Location"))

	var inq models.Inquiry
	require.NoError(t, env.Deps.DB.First(&inq).Error)
	require.NotNil(t, inq.ProductID)
	assert.Equal(t, p.ID, *inq.ProductID)
	assert.Equal(t, models.SourceProduct, inq.Source)
	assert.Equal(t, []string{"15ft", "18ft"}, []string(inq.SelectedSizes))
}

func TestSubmitSourceNormalization(t *testing.T) {
	tests := []struct {
		source   string
		product  string
		want     string
		location string
	}{
		{"home", "", models.SourceHome, "/"},
		{"banner", "", models.SourceContact, ContactPath},
		{"product", "999", models.SourceProduct, ContactPath},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			env := handlertest.New(t)
			env.Init(t, &Service{})

			form := jane()
			form.Set("source", tt.source)
			form.Set("productId", tt.product)

			resp := submit(t, env, form)
			require.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get("Location"))

			var inq models.Inquiry
			require.NoError(t, env.Deps.DB.First(&inq).Error)
			assert.Equal(t, tt.want, inq.Source)
			assert.Nil(t, inq.ProductID)
		})
	}
}

func TestSubmitInvalid(t *testing.T) {
	tests := []struct {
		name string
		edit func(url.Values)
	}{
		{"missing name", func(v url.Values) { v.Del("name") }},
		{"blank name", func(v url.Values) { v.Set("name", "   ") }},
		{"bad email", func(v url.Values) { v.Set("email", "nope") }},
		{"unknown service", func(v url.Values) { v.Set("service", "Hot Tub Party") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := handlertest.New(t)
			env.Init(t, &Service{})

			form := jane()
			tt.edit(form)

			req := handlertest.FormRequest(http.MethodPost, Path, form)
			req.Header.Set("X-Requested-With", "XMLHttpRequest")

			resp := env.Do(t, req, false)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var count int64
			require.NoError(t, env.Deps.DB.Model(&models.Inquiry{}).Count(&count).Error)
			assert.Zero(t, count)
			assert.Zero(t, env.Mailer.Calls())
		})
	}
}

func TestSubmitRateLimited(t *testing.T) {
	env := handlertest.New(t)
	env.Deps.Cfg.Webserver.InquiryRateLimit = 1
	env.Init(t, &Service{})

	resp := submit(t, env, jane())
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-RateLimit-Limit"))

	resp = submit(t, env, jane())
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, 1, env.Mailer.Calls())
}
