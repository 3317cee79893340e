package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rgcpoolandspa/poolsite/internal/auth"
	"github.com/rgcpoolandspa/poolsite/internal/config"
	"github.com/rgcpoolandspa/poolsite/internal/mail"
	"github.com/rgcpoolandspa/poolsite/internal/media"
	"github.com/rgcpoolandspa/poolsite/internal/web/session"
)

// ErrMissingDeps is returned by Init when a required dependency is nil.
var ErrMissingDeps = errors.New(ErrNilACDFatalLogMsg)

// Service is the interface for a web handler service. Init registers the
// service routes on router.
type Service interface {
	Init(router fiber.Router, deps *Deps) error
}

// Deps are the shared collaborators handed to every handler service.
type Deps struct {
	Cfg       *config.Config
	DB        *gorm.DB
	Sessions  *session.Manager
	Admins    *auth.LocalProvider
	Media     *media.Service
	Mailer    mail.Notifier
	Validator *Validator
	// Guard protects admin routes, see middleware/auth.RequireAuth.
	Guard fiber.Handler
}

// Check verifies that the dependencies every handler relies on are set.
func (d *Deps) Check() error {
	if d == nil || d.Cfg == nil || d.DB == nil {
		return ErrMissingDeps
	}

	if d.Guard == nil {
		return ErrMissingDeps
	}

	if d.Validator == nil {
		d.Validator = NewValidator()
	}

	return nil
}
