package config

import (
	"time"

	"github.com/rgcpoolandspa/poolsite/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration `toml:"expiryTime"` // sliding expiry, renewed on every admin request
	CookieName string        `toml:"cookieName"`
}

// Config overall data structure.
type Config struct {
	DevMode   bool       `toml:"devMode"` // enable dev mode for development
	Title     string     `toml:"title"`
	DB        DB         `toml:"db"`
	Log       logger.Log `toml:"log"`
	Webserver Webserver  `toml:"webserver"`
	Admin     Admin      `toml:"admin"`
	Mail      Mail       `toml:"mail"`
	Media     Media      `toml:"media"`
}

// Webserver implement webserver settings.
type Webserver struct {
	Port                int           `toml:"port"`                // listening port for the webserver
	URL                 string        `toml:"url"`                 // base url for the webserver
	ShutDownTime        int           `toml:"shutDownTime"`        // wait time for shutdown
	CookieEncryptionKey string        `toml:"cookieEncryptionKey"` // session secret, base64 AES key
	BodyLimit           int           `toml:"bodyLimit"`           // max request body size in bytes
	DisableRecover      bool          `toml:"disableRecover"`
	Session             Session       `toml:"session"`
	InquiryRateLimit    int64         `toml:"inquiryRateLimit"` // 0 disables the limiter
	InquiryRatePeriod   time.Duration `toml:"inquiryRatePeriod"`
}

// Admin holds the bootstrap credentials used when no admin exists yet.
type Admin struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
	Email    string `toml:"email"`
}

// Mail holds the outbound SMTP settings for inquiry notifications.
type Mail struct {
	Enabled   bool          `toml:"enabled"`
	Host      string        `toml:"host"`
	Port      int           `toml:"port"`
	Username  string        `toml:"username"`
	Password  string        `toml:"password"`
	From      string        `toml:"from"`
	To        string        `toml:"to"`        // notification recipient
	TLSPolicy string        `toml:"tlsPolicy"` // mandatory, opportunistic or none
	Timeout   time.Duration `toml:"timeout"`
}

// Media holds upload limits for the media library.
type Media struct {
	MaxUploadSize int64 `toml:"maxUploadSize"` // per file, bytes
	MaxFiles      int   `toml:"maxFiles"`      // per request
	MaxPixels     int64 `toml:"maxPixels"`     // width*height ceiling checked before decoding
}
