// Package handlertest wires handler services against throwaway databases.
package handlertest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/rgcpoolandspa/poolsite/internal/auth"
	"github.com/rgcpoolandspa/poolsite/internal/config"
	"github.com/rgcpoolandspa/poolsite/internal/db/dbtest"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/media"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
	authmw "github.com/rgcpoolandspa/poolsite/internal/web/middleware/auth"
	"github.com/rgcpoolandspa/poolsite/internal/web/session"
)

// Rendered is one recorded template render.
type Rendered struct {
	Name    string
	Data    fiber.Map
	Layouts []string
}

// Views is a Fiber Views engine that records renders instead of executing
// templates. It writes the "error" value, or the template name, as body.
type Views struct {
	mu      sync.Mutex
	renders []Rendered
}

// Load implements fiber.Views.
func (*Views) Load() error { return nil }

// Render implements fiber.Views.
func (v *Views) Render(w io.Writer, name string, data any, layouts ...string) error {
	m, _ := data.(fiber.Map)

	v.mu.Lock()
	v.renders = append(v.renders, Rendered{Name: name, Data: m, Layouts: layouts})
	v.mu.Unlock()

	if msg, ok := m["error"].(string); ok && msg != "" {
		_, err := io.WriteString(w, msg)
		return err
	}

	_, err := io.WriteString(w, name)

	return err
}

// Last returns the most recent render.
func (v *Views) Last(t *testing.T) Rendered {
	t.Helper()

	v.mu.Lock()
	defer v.mu.Unlock()

	require.NotEmpty(t, v.renders, "nothing was rendered")

	return v.renders[len(v.renders)-1]
}

// Mailer records inquiry notifications.
type Mailer struct {
	mu    sync.Mutex
	Sent  []*models.Inquiry
	Err   error
	calls int
}

// NotifyInquiry implements mail.Notifier.
func (m *Mailer) NotifyInquiry(_ context.Context, inq *models.Inquiry, _ *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.Err != nil {
		return m.Err
	}

	m.Sent = append(m.Sent, inq)

	return nil
}

// Calls returns the number of notification attempts.
func (m *Mailer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.calls
}

// Env bundles an app with its dependencies.
type Env struct {
	App    *fiber.App
	Deps   *handler.Deps
	Views  *Views
	Mailer *Mailer
	Admin  *models.Admin
	Cookie *http.Cookie
}

// New creates an app with recording views and fully wired dependencies.
// An admin "admin"/"secret" exists and Cookie holds a session for it.
func New(t *testing.T) *Env {
	t.Helper()

	db := dbtest.Open(t)
	cfg := &config.Config{
		Title: "RGC Pool and Spa",
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Hour, CookieName: "session"},
		},
		Media: config.Media{MaxUploadSize: 10 << 20, MaxFiles: 10},
	}

	sessions := session.NewManager(session.NewGormStorage(db), cfg)
	admins := auth.NewLocalProvider(db)
	mailer := &Mailer{}

	admin, err := admins.CreateAdmin("admin", "admin@example.com", "secret")
	require.NoError(t, err)

	sessionID, err := sessions.Issue(admin)
	require.NoError(t, err)

	views := &Views{}

	return &Env{
		App:    fiber.New(fiber.Config{Views: views}),
		Views:  views,
		Mailer: mailer,
		Admin:  admin,
		Cookie: &http.Cookie{Name: "session", Value: sessionID},
		Deps: &handler.Deps{
			Cfg:       cfg,
			DB:        db,
			Sessions:  sessions,
			Admins:    admins,
			Media:     media.NewService(db),
			Mailer:    mailer,
			Validator: handler.NewValidator(),
			Guard:     authmw.RequireAuth(sessions, admins),
		},
	}
}

// Init registers svc on the app.
func (e *Env) Init(t *testing.T, svc handler.Service) {
	t.Helper()
	require.NoError(t, svc.Init(e.App, e.Deps))
}

// Do sends req, adding the admin session cookie when authed is set.
func (e *Env) Do(t *testing.T, req *http.Request, authed bool) *http.Response {
	t.Helper()

	if authed {
		req.AddCookie(e.Cookie)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	return resp
}

// Get performs an authenticated GET.
func (e *Env) Get(t *testing.T, target string) *http.Response {
	t.Helper()

	return e.Do(t, httptest.NewRequest(http.MethodGet, target, nil), true)
}

// Form performs an authenticated urlencoded request.
func (e *Env) Form(t *testing.T, method, target string, form url.Values) *http.Response {
	t.Helper()

	return e.Do(t, FormRequest(method, target, form), true)
}

// FormRequest builds a urlencoded request.
func FormRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return req
}

// Body reads the response body.
func Body(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(b)
}

// Cookie returns the named cookie set by resp, nil when absent.
func Cookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}

	return nil
}
