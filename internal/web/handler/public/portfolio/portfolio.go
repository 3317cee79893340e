// Package portfolio serves the public gallery of completed installations.
package portfolio

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/rgcpoolandspa/poolsite/internal/db/controller/catalog"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
)

const (
	// Path is the gallery path.
	Path = "/portfolio"

	// TemplateList is the gallery template.
	TemplateList = "public/portfolio"
	// TemplateDetail is the single item template.
	TemplateDetail = "public/portfolio-item"
)

// Service serves portfolio pages.
type Service struct {
	deps *handler.Deps
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil {
		return handler.ErrMissingDeps
	}

	s.deps = deps

	router.Get(Path, s.List)
	router.Get(Path+"/:slug", s.Detail)

	return nil
}

// List renders all active portfolio items.
func (s *Service) List(c *fiber.Ctx) error {
	items, err := catalog.ActivePortfolio(s.deps.DB, false, 0)
	if err != nil {
		log.Error().Err(err).Msg("failed to load portfolio")
		return fiber.ErrInternalServerError
	}

	return handler.RenderPublic(c, s.deps, TemplateList, fiber.Map{
		"Title": "Our Work",
		"Items": handler.PortfolioCards(s.deps.DB, items),
	})
}

// Detail renders one portfolio item.
func (s *Service) Detail(c *fiber.Ctx) error {
	item, err := catalog.FindPublic[models.Portfolio](s.deps.DB, c.Params("slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return fiber.ErrNotFound
		}

		log.Error().Err(err).Str("slug", c.Params("slug")).Msg("failed to load portfolio item")

		return fiber.ErrInternalServerError
	}

	gallery, err := handler.ResolveGallery(s.deps.DB, item.FeaturedImageID, item.Images)
	if err != nil {
		log.Warn().Err(err).Uint64("portfolio", item.ID).Msg("failed to resolve portfolio gallery")
	}

	title := item.SEOTitle
	if title == "" {
		title = item.Title
	}

	return handler.RenderPublic(c, s.deps, TemplateDetail, fiber.Map{
		"Title":       title,
		"Description": item.SEODescription,
		"Item":        item,
		"Gallery":     gallery,
	})
}
