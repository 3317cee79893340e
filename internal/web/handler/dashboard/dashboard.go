// Package dashboard provides the admin landing page.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/rgcpoolandspa/poolsite/internal/db/controller/catalog"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
	"github.com/rgcpoolandspa/poolsite/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.DashboardPath

	// TemplateName is the name of the dashboard template.
	TemplateName = "admin/dashboard"

	// RecentInquiries is the number of inquiries listed on the dashboard.
	RecentInquiries = 5
)

// Service is the dashboard handler service.
type Service struct {
	deps *handler.Deps
}

// Init registers the dashboard routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil {
		return handler.ErrMissingDeps
	}

	s.deps = deps

	router.Get(handler.AdminPath, deps.Guard, func(c *fiber.Ctx) error {
		return c.Redirect(Path)
	})
	router.Get(Path, deps.Guard, s.Get)

	return nil
}

// Get renders record counts and the latest inquiries.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Dashboard", navigation.SectionDashboard, "dashboard").
		AddBreadcrumb("Home", Path, true)

	counts, err := catalog.Count(s.deps.DB)
	if err != nil {
		log.Error().Err(err).Msg("failed to count records")

		return handler.RenderAdmin(c.Status(fiber.StatusInternalServerError), TemplateName, fiber.Map{
			"Navigation": nav,
			"Error":      "Failed to load dashboard",
		})
	}

	var recent []models.Inquiry
	if err = s.deps.DB.Order("created_at DESC, id DESC").Limit(RecentInquiries).Find(&recent).Error; err != nil {
		log.Error().Err(err).Msg("failed to load recent inquiries")
	}

	return handler.RenderAdmin(c, TemplateName, fiber.Map{
		"Navigation":      nav,
		"Counts":          counts,
		"RecentInquiries": recent,
	})
}
