package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if db.gormEngine is not one of sqlite, mysql, postgres.
	ErrUnknownGormEngine = errors.New("config db.gormEngine must be sqlite, mysql or postgres")
)
