// Package session keeps admin sessions in a server-side store keyed by a
// random token carried in a cookie.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rgcpoolandspa/poolsite/internal/config"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
)

// ErrNoSession is returned when the request carries no valid session.
var ErrNoSession = errors.New("no valid session")

// Storage is the subset of the fiber storage interface used for sessions.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
	Close() error
}

// Data represents the session data structure.
type Data struct {
	AdminID   uint64    `json:"adminId"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Manager issues, reads, renews and destroys sessions.
type Manager struct {
	storage    Storage
	expiry     time.Duration
	cookieName string
	secure     bool
}

// NewManager creates a session manager on storage.
func NewManager(storage Storage, cfg *config.Config) *Manager {
	if storage == nil {
		panic("storage is nil")
	}

	expiry := cfg.Webserver.Session.ExpiryTime
	if expiry <= 0 {
		expiry = 24 * time.Hour //nolint:mnd
	}

	name := cfg.Webserver.Session.CookieName
	if name == "" {
		name = "session"
	}

	return &Manager{
		storage:    storage,
		expiry:     expiry,
		cookieName: name,
		secure:     !cfg.DevMode,
	}
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string { return m.cookieName }

// Create starts a session for admin and sets the session cookie.
func (m *Manager) Create(c *fiber.Ctx, admin *models.Admin) error {
	sessionID, err := m.Issue(admin)
	if err != nil {
		return err
	}

	m.setCookie(c, sessionID, int(m.expiry.Seconds()))

	return nil
}

// Issue stores a new session for admin and returns its id.
func (m *Manager) Issue(admin *models.Admin) (string, error) {
	sessionID, err := GenerateSessionID()
	if err != nil {
		return "", err
	}

	data := &Data{AdminID: admin.ID, Username: admin.Username, CreatedAt: time.Now()}
	if err = m.write(sessionID, data); err != nil {
		return "", err
	}

	return sessionID, nil
}

// Read returns the session of the request and its id.
func (m *Manager) Read(c *fiber.Ctx) (*Data, string, error) {
	sessionID := c.Cookies(m.cookieName)
	if sessionID == "" {
		return nil, "", ErrNoSession
	}

	raw, err := m.storage.Get(sessionID)
	if err != nil {
		return nil, sessionID, err
	}

	if len(raw) == 0 {
		return nil, sessionID, ErrNoSession
	}

	data := new(Data)
	if err = json.Unmarshal(raw, data); err != nil || data.AdminID == 0 {
		return nil, sessionID, ErrNoSession
	}

	return data, sessionID, nil
}

// Touch renews the expiry of a session in the store and in the browser.
func (m *Manager) Touch(c *fiber.Ctx, sessionID string, data *Data) error {
	if err := m.write(sessionID, data); err != nil {
		return err
	}

	m.setCookie(c, sessionID, int(m.expiry.Seconds()))

	return nil
}

// Destroy removes the session from the store and clears the cookie.
func (m *Manager) Destroy(c *fiber.Ctx) error {
	var err error
	if sessionID := c.Cookies(m.cookieName); sessionID != "" {
		err = m.storage.Delete(sessionID)
	}

	m.setCookie(c, "", -1)

	return err
}

// Close releases the underlying storage.
func (m *Manager) Close() error {
	return m.storage.Close()
}

func (m *Manager) write(sessionID string, data *Data) error {
	out, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return m.storage.Set(sessionID, out, m.expiry)
}

func (m *Manager) setCookie(c *fiber.Ctx, value string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
