// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rgcpoolandspa/poolsite/internal/config"
)

// Create builds the Data Source Name for the configured gorm engine.
// A non-empty DB.DSN is returned unchanged.
func Create(cfg *config.Config) string {
	db := cfg.DB
	if db.DSN != "" {
		return db.DSN
	}

	timeout := db.ConnectTimeout

	switch db.GormEngine {
	case config.EngineMySQL:
		port := db.Port
		if port == 0 {
			port = 3306
		}

		params := "parseTime=true&charset=utf8mb4"
		if timeout > 0 {
			params += "&timeout=" + timeout.String()
		}

		if db.Extras != "" {
			params += "&" + strings.TrimPrefix(db.Extras, "?")
		}

		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s", db.User, db.Password, db.Host, port, db.Name, params)
	case config.EnginePostgres:
		port := db.Port
		if port == 0 {
			port = 5432
		}

		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(db.User, db.Password),
			Host:   fmt.Sprintf("%s:%d", db.Host, port),
			Path:   "/" + db.Name,
		}

		q := url.Values{}
		if timeout > 0 {
			q.Set("connect_timeout", fmt.Sprintf("%d", int(timeout.Seconds())))
		}

		if db.Extras != "" {
			extras, err := url.ParseQuery(strings.TrimPrefix(db.Extras, "?"))
			if err == nil {
				for k, v := range extras {
					q[k] = v
				}
			}
		}

		u.RawQuery = q.Encode()

		return u.String()
	default:
		name := db.Name
		if name == "" {
			name = "poolsite.db"
		}

		if db.Extras != "" {
			return name + "?" + strings.TrimPrefix(db.Extras, "?")
		}

		return name
	}
}
