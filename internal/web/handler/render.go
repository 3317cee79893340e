package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/rgcpoolandspa/poolsite/internal/db/controller/settings"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
)

// IsAPIRequest reports whether the client expects JSON rather than HTML.
func IsAPIRequest(c *fiber.Ctx) bool {
	if c.XHR() {
		return true
	}

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return true
	}

	accept := c.Get(fiber.HeaderAccept)

	return strings.Contains(accept, fiber.MIMEApplicationJSON) && !strings.Contains(accept, fiber.MIMETextHTML)
}

// CurrentAdmin returns the authenticated admin, nil for anonymous requests.
func CurrentAdmin(c *fiber.Ctx) *models.Admin {
	admin, _ := c.Locals(LocalsAdmin).(*models.Admin)

	return admin
}

// RenderAdmin renders an admin page with the shared layout data.
func RenderAdmin(c *fiber.Ctx, tpl string, data fiber.Map) error {
	data["CurrentAdmin"] = CurrentAdmin(c)
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = PopFlash(c)
	}

	return c.Render(tpl, data, BaseLayout)
}

// RenderPublic renders a public page with the site settings and hero media.
func RenderPublic(c *fiber.Ctx, deps *Deps, tpl string, data fiber.Map) error {
	if _, ok := data["Settings"]; !ok {
		data["Settings"] = SiteSettings(deps)
	}

	data["Year"] = time.Now().Year()
	data["ServiceTypes"] = models.ServiceTypes

	if _, ok := data["Flash"]; !ok {
		data["Flash"] = PopFlash(c)
	}

	return c.Render(tpl, data, PublicLayout)
}

// SiteSettings loads the settings singleton, falling back to the defaults
// when the store is unavailable so public pages still render.
func SiteSettings(deps *Deps) *models.Settings {
	s, err := settings.Get(deps.DB)
	if err != nil {
		log.Error().Err(err).Msg("failed to load site settings")

		defaults := models.DefaultSettings()

		return &defaults
	}

	return s
}

// Back redirects to path with a flash message.
func Back(c *fiber.Ctx, path, kind, message string) error {
	SetFlash(c, kind, message)

	return c.Redirect(path)
}

// Done finishes a successful mutation: JSON for API requests, otherwise a
// flash message and a redirect to path.
func Done(c *fiber.Ctx, path, message string) error {
	if IsAPIRequest(c) {
		return c.JSON(fiber.Map{"success": true, "message": message})
	}

	return Back(c, path, FlashSuccess, message)
}

// Fail finishes a failed mutation that has no form to re-show.
func Fail(c *fiber.Ctx, status int, path, message string) error {
	if IsAPIRequest(c) {
		return c.Status(status).JSON(fiber.Map{"success": false, "error": message})
	}

	return Back(c, path, FlashError, message)
}
