package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgcpoolandspa/poolsite/internal/config"
	"github.com/rgcpoolandspa/poolsite/internal/db/dbtest"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
)

// testStorage is a minimal in-memory Storage for tests.
type testStorage struct {
	mu      sync.RWMutex
	data    map[string][]byte
	exp     map[string]time.Duration
	failSet bool
}

var _ Storage = (*testStorage)(nil)

func newTestStorage() *testStorage {
	return &testStorage{data: map[string][]byte{}, exp: map[string]time.Duration{}}
}

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data[key], nil
}

func (s *testStorage) Set(key string, val []byte, exp time.Duration) error {
	if s.failSet {
		return errors.New("storage unavailable")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = val
	s.exp[key] = exp

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Close() error { return nil }

func newTestConfig() *config.Config {
	return &config.Config{
		Webserver: config.Webserver{
			Session: config.Session{ExpiryTime: time.Hour, CookieName: "session"},
		},
	}
}

func newTestApp(m *Manager) *fiber.App {
	app := fiber.New()

	app.Post("/login", func(c *fiber.Ctx) error {
		if err := m.Create(c, &models.Admin{ID: 42, Username: "admin"}); err != nil {
			return err
		}

		return c.SendStatus(http.StatusNoContent)
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		data, id, err := m.Read(c)
		if err != nil {
			return c.SendStatus(http.StatusUnauthorized)
		}

		if err = m.Touch(c, id, data); err != nil {
			return err
		}

		return c.SendString(data.Username)
	})
	app.Post("/logout", func(c *fiber.Ctx) error {
		if err := m.Destroy(c); err != nil {
			return err
		}

		return c.SendStatus(http.StatusNoContent)
	})

	return app
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()

	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			return c
		}
	}

	t.Fatalf("no session cookie in response")

	return nil
}

func TestManager_Lifecycle(t *testing.T) {
	store := newTestStorage()
	m := NewManager(store, newTestConfig())
	app := newTestApp(m)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	cookie := sessionCookie(t, resp)
	assert.Len(t, cookie.Value, 64)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.Equal(t, time.Hour, store.exp[cookie.Value])

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, cookie.Value, sessionCookie(t, resp).Value, "touch renews the same session")

	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, store.data)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestManager_ReadRejects(t *testing.T) {
	store := newTestStorage()
	store.data["garbage"] = []byte("{not json")
	store.data["anonymous"] = []byte(`{"adminId":0}`)

	app := newTestApp(NewManager(store, newTestConfig()))

	for _, value := range []string{"", "unknown", "garbage", "anonymous"} {
		t.Run("cookie="+value, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if value != "" {
				req.AddCookie(&http.Cookie{Name: "session", Value: value})
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestManager_DevModeCookieNotSecure(t *testing.T) {
	cfg := newTestConfig()
	cfg.DevMode = true

	app := newTestApp(NewManager(newTestStorage(), cfg))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)

	assert.False(t, strings.Contains(strings.ToLower(resp.Header.Get("Set-Cookie")), "secure"))
}

func TestManager_CreateStorageFailure(t *testing.T) {
	store := newTestStorage()
	store.failSet = true

	app := newTestApp(NewManager(store, newTestConfig()))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
}

func TestGenerateSessionID(t *testing.T) {
	a, err := GenerateSessionID()
	require.NoError(t, err)

	b, err := GenerateSessionID()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestGormStorage(t *testing.T) {
	s := NewGormStorage(dbtest.Open(t))
	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }

	v, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Set("a", []byte("one"), time.Minute))
	require.NoError(t, s.Set("a", []byte("two"), time.Minute))
	require.NoError(t, s.Set("forever", []byte("x"), 0))

	v, err = s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), v)

	now = now.Add(2 * time.Minute)

	v, err = s.Get("a")
	require.NoError(t, err)
	assert.Nil(t, v, "expired sessions are not returned")

	n, err := s.GC()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	v, err = s.Get("forever")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), v)

	require.NoError(t, s.Delete("forever"))

	v, err = s.Get("forever")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestNewStorage(t *testing.T) {
	cfg := newTestConfig()
	cfg.DB.GormEngine = config.EngineSQLite

	s, err := NewStorage(cfg, dbtest.Open(t))
	require.NoError(t, err)
	assert.IsType(t, &GormStorage{}, s)

	_, err = NewStorage(cfg, nil)
	require.Error(t, err)

	cfg.DB.GormEngine = "oracle"
	_, err = NewStorage(cfg, nil)
	require.ErrorIs(t, err, config.ErrUnknownGormEngine)
}
