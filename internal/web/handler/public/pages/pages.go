// Package pages serves the home, about and contact pages of the public site.
package pages

import (
	"slices"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/rgcpoolandspa/poolsite/internal/db/controller/catalog"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
)

const (
	// TemplateHome is the landing page template.
	TemplateHome = "public/home"
	// TemplateAbout is the about page template.
	TemplateAbout = "public/about"
	// TemplateContact is the contact page template.
	TemplateContact = "public/contact"

	// FeaturedPortfolioLimit is the number of portfolio items on the home page.
	FeaturedPortfolioLimit = 6
	// UpcomingEventsLimit is the number of events on the home page.
	UpcomingEventsLimit = 3
)

// Service serves the static-ish pages.
type Service struct {
	deps *handler.Deps
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil {
		return handler.ErrMissingDeps
	}

	s.deps = deps

	router.Get(handler.RootPath, s.Home)
	router.Get("/about", s.About)
	router.Get("/contact", s.Contact)

	return nil
}

// Home renders the landing page. A section whose query fails is rendered
// empty rather than failing the page.
func (s *Service) Home(c *fiber.Ctx) error {
	db := s.deps.DB
	site := handler.SiteSettings(s.deps)

	hero, err := handler.ResolveOne(db, site.HeroImageID)
	if err != nil {
		log.Warn().Err(err).Msg("failed to resolve hero image")
	}

	services, err := catalog.ActiveServices(db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load services")
	}

	portfolio, err := catalog.ActivePortfolio(db, true, FeaturedPortfolioLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to load featured portfolio")
	}

	events, err := catalog.ActiveEvents(db, time.Now(), UpcomingEventsLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to load upcoming events")
	}

	products, err := catalog.ActiveProducts(db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load products")
	}

	return handler.RenderPublic(c, s.deps, TemplateHome, fiber.Map{
		"Title":     site.CompanyName,
		"Settings":  site,
		"Hero":      hero,
		"Services":  services,
		"Portfolio": handler.PortfolioCards(db, portfolio),
		"Events":    events,
		"Products":  handler.ProductCards(db, products),
		"Source":    models.SourceHome,
	})
}

// About renders the about page.
func (s *Service) About(c *fiber.Ctx) error {
	services, err := catalog.ActiveServices(s.deps.DB)
	if err != nil {
		log.Error().Err(err).Msg("failed to load services")
	}

	return handler.RenderPublic(c, s.deps, TemplateAbout, fiber.Map{
		"Title":    "About Us",
		"Services": services,
	})
}

// Contact renders the contact form. ?service= preselects a known service type.
func (s *Service) Contact(c *fiber.Ctx) error {
	selected := c.Query("service")
	if !slices.Contains(models.ServiceTypes, selected) {
		selected = ""
	}

	return handler.RenderPublic(c, s.deps, TemplateContact, fiber.Map{
		"Title":           "Contact Us",
		"SelectedService": selected,
		"Source":          models.SourceContact,
	})
}
