package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	localauth "github.com/rgcpoolandspa/poolsite/internal/auth"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
	"github.com/rgcpoolandspa/poolsite/internal/web/session"
)

// AdminLookup loads admins by id.
type AdminLookup interface {
	GetByID(adminID uint64) (*models.Admin, error)
}

// RequireAuth only lets requests with a valid admin session through.
func RequireAuth(sessions *session.Manager, admins AdminLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		admin, err := Resolve(c, sessions, admins)
		if err != nil {
			return err
		}

		if admin == nil {
			return Deny(c)
		}

		c.Locals(handler.LocalsAdmin, admin)

		return c.Next()
	}
}

// Resolve returns the admin of the request session and renews the session.
// It returns nil without error for anonymous requests. A session whose admin
// is gone is destroyed.
func Resolve(c *fiber.Ctx, sessions *session.Manager, admins AdminLookup) (*models.Admin, error) {
	data, sessionID, err := sessions.Read(c)
	if errors.Is(err, session.ErrNoSession) {
		return nil, nil //nolint:nilnil
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to read session")
		return nil, nil //nolint:nilnil
	}

	admin, err := admins.GetByID(data.AdminID)
	if errors.Is(err, localauth.ErrUserNotFound) {
		log.Warn().Uint64("admin", data.AdminID).Msg("session references a missing admin, destroying it")

		if errDestroy := sessions.Destroy(c); errDestroy != nil {
			log.Error().Err(errDestroy).Msg("failed to destroy session")
		}

		return nil, nil //nolint:nilnil
	}

	if err != nil {
		return nil, err
	}

	if err = sessions.Touch(c, sessionID, data); err != nil {
		log.Error().Err(err).Msg("failed to renew session")
	}

	return admin, nil
}

// Deny answers an unauthenticated request.
func Deny(c *fiber.Ctx) error {
	if handler.IsAPIRequest(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	return c.Redirect(handler.LoginPath)
}
