package config

import "time"

// Supported gorm engines.
const (
	EngineSQLite   = "sqlite"
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
)

// DB holds the database configuration settings.
type DB struct {
	GormEngine     string        `toml:"gormEngine"`
	DSN            string        `toml:"dsn"` // full connection string, overrides the fields below
	Host           string        `toml:"host"`
	Port           int           `toml:"port"`
	User           string        `toml:"user"`
	Password       string        `toml:"password"`
	Name           string        `toml:"name"` // database name, or file path for sqlite
	Extras         string        `toml:"extras"`
	ConnectTimeout time.Duration `toml:"connectTimeout"`
}
