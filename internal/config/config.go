// Package config handles input from etc/*.toml files and the environment.
package config

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix of all environment overrides, e.g. POOLSITE_WEBSERVER_PORT.
	EnvPrefix = "POOLSITE"

	// EnvJSON holds a complete JSON config merged on top of file and env values.
	EnvJSON = "POOLSITE_CONFIG_JSON"

	defaultUploadSize = 10 << 20
	defaultMaxFiles   = 10
	defaultMaxPixels  = 50_000_000
)

// legacyEnv maps config keys to the environment names used by earlier deployments.
var legacyEnv = map[string]string{ //nolint:gochecknoglobals
	"webserver.port":                "PORT",
	"webserver.cookieencryptionkey": "SESSION_SECRET",
	"db.dsn":                        "DATABASE_URL",
	"admin.username":                "ADMIN_USERNAME",
	"admin.password":                "ADMIN_PASSWORD",
	"admin.email":                   "ADMIN_EMAIL",
	"mail.host":                     "SMTP_HOST",
	"mail.port":                     "SMTP_PORT",
	"mail.username":                 "SMTP_USER",
	"mail.password":                 "SMTP_PASS",
}

// ReadConfig from config file, .env and environment.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	if path == "" {
		path = "./etc/"
	}

	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrap(err, "failed to read .env file")
	}

	v := viper.New()
	setDefaults(v)

	if err = bindEnv(v); err != nil {
		return Config{}, err
	}

	v.SetConfigFile(path + "main.toml")

	if err = v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("devmode", false)
	v.SetDefault("title", "RGC Pool and Spa")

	v.SetDefault("db.gormengine", EngineSQLite)
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 0)
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "./data/poolsite.db")
	v.SetDefault("db.extras", "")
	v.SetDefault("db.connecttimeout", 5*time.Second)

	v.SetDefault("log.loglevel", "info")
	v.SetDefault("log.appname", "poolsite")
	v.SetDefault("log.servicename", "web")
	v.SetDefault("log.reportcaller", false)
	v.SetDefault("log.enableaccesslogtoconsole", false)
	v.SetDefault("log.skipassets", true)
	v.SetDefault("log.console.enabled", true)
	v.SetDefault("log.console.useconsolewriter", false)
	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.path", "./logs")
	v.SetDefault("log.file.access", "access.log")
	v.SetDefault("log.file.info", "info.log")
	v.SetDefault("log.file.error", "error.log")
	v.SetDefault("log.file.maxsize", 100)
	v.SetDefault("log.file.maxbackups", 5)
	v.SetDefault("log.file.maxage", 30)

	v.SetDefault("webserver.port", 3000) //nolint:mnd
	v.SetDefault("webserver.url", "http://localhost:3000")
	v.SetDefault("webserver.shutdowntime", 5) //nolint:mnd
	v.SetDefault("webserver.cookieencryptionkey", "")
	v.SetDefault("webserver.bodylimit", defaultMaxFiles*defaultUploadSize+defaultUploadSize)
	v.SetDefault("webserver.disablerecover", false)
	v.SetDefault("webserver.session.expirytime", 24*time.Hour)
	v.SetDefault("webserver.session.cookiename", "session")
	v.SetDefault("webserver.inquiryratelimit", 10) //nolint:mnd
	v.SetDefault("webserver.inquiryrateperiod", time.Minute)

	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "")
	v.SetDefault("admin.email", "")

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587) //nolint:mnd
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.to", "")
	v.SetDefault("mail.tlspolicy", "opportunistic")
	v.SetDefault("mail.timeout", 15*time.Second) //nolint:mnd

	v.SetDefault("media.maxuploadsize", defaultUploadSize)
	v.SetDefault("media.maxfiles", defaultMaxFiles)
	v.SetDefault("media.maxpixels", defaultMaxPixels)
}

// bindEnv binds every known key to POOLSITE_<KEY> and, where one exists, its legacy name.
func bindEnv(v *viper.Viper) error {
	for _, key := range v.AllKeys() {
		names := []string{key, EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
		if legacy, ok := legacyEnv[key]; ok {
			names = append(names, legacy)
		}

		if err := v.BindEnv(names...); err != nil {
			return errors.Wrapf(err, "failed to bind env for %s", key)
		}
	}

	return nil
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config from env")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the service can not start without and fills
// in defaults for the rest.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case EngineSQLite, EngineMySQL, EnginePostgres:
	case "":
		c.DB.GormEngine = EngineSQLite
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = 24 * time.Hour //nolint:mnd
	}

	if c.Webserver.Session.CookieName == "" {
		c.Webserver.Session.CookieName = "session"
	}

	if c.Media.MaxUploadSize == 0 {
		c.Media.MaxUploadSize = defaultUploadSize
	}

	if c.Media.MaxFiles == 0 {
		c.Media.MaxFiles = defaultMaxFiles
	}

	if c.DB.ConnectTimeout == 0 {
		c.DB.ConnectTimeout = 5 * time.Second //nolint:mnd
	}

	return nil
}
