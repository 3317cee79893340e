// Package products serves the public product catalog.
package products

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/rgcpoolandspa/poolsite/internal/db/controller/catalog"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
)

const (
	// Path is the catalog path.
	Path = "/products"

	// TemplateList is the catalog template.
	TemplateList = "public/products"
	// TemplateDetail is the product page template.
	TemplateDetail = "public/product"
)

// Service serves product pages.
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

// List renders all active products, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	items, err := catalog.ActiveProducts(s.deps.DB)
	if err != nil {
		log.Error().Err(err).Msg("failed to load products")
		return fiber.ErrInternalServerError
	}

	return handler.RenderPublic(c, s.deps, TemplateList, fiber.Map{
		"Title":    "Pools & Spas",
		"Products": handler.ProductCards(s.deps.DB, items),
	})
}

// Detail renders one product, looked up by slug with case and id fallbacks.
func (s *Service) Detail(c *fiber.Ctx) error {
	p, err := catalog.FindPublic[models.Product](s.deps.DB, c.Params("slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return fiber.ErrNotFound
		}

		log.Error().Err(err).Str("slug", c.Params("slug")).Msg("failed to load product")

		return fiber.ErrInternalServerError
	}

	gallery, err := handler.ResolveGallery(s.deps.DB, p.FeaturedImageID, p.Images)
	if err != nil {
		log.Warn().Err(err).Uint64("product", p.ID).Msg("failed to resolve product gallery")
	}

	title := p.SEOTitle
	if title == "" {
		title = p.Name
	}

	return handler.RenderPublic(c, s.deps, TemplateDetail, fiber.Map{
		"Title":          title,
		"Description":    p.SEODescription,
		"Product":        p,
		"Gallery":        gallery,
		"Source":         models.SourceProduct,
		"DefaultService": models.ServiceTypes[0],
	})
}
