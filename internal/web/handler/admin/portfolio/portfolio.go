// Package portfolio provides the admin handlers for managing portfolio items.
package portfolio

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/rgcpoolandspa/poolsite/internal/db"
	mediactl "github.com/rgcpoolandspa/poolsite/internal/db/controller/media"
	"github.com/rgcpoolandspa/poolsite/internal/db/controller/slug"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
	"github.com/rgcpoolandspa/poolsite/internal/web/navigation"
)

const (
	// Path is the base path for portfolio management.
	Path = handler.AdminPath + "/portfolio"

	// TemplateList is the template for listing portfolio items.
	TemplateList = "admin/portfolio/list"
	// TemplateForm is the template for creating/updating a portfolio item.
	TemplateForm = "admin/portfolio/form"
)

type input struct {
	Title          string `form:"title"          validate:"required,max=255"`
	Slug           string `form:"slug"           validate:"max=255"`
	Description    string `form:"description"    validate:"required"`
	SEOTitle       string `form:"seoTitle"       validate:"max=255"`
	SEODescription string `form:"seoDescription" validate:"max=500"`
}

// Service provides CRUD operations for portfolio items.
type Service struct {
	deps *handler.Deps
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil {
		return handler.ErrMissingDeps
	}

	s.deps = deps

	router.Get(Path, deps.Guard, s.List)
	router.Get(Path+"/new", deps.Guard, s.New)
	router.Post(Path, deps.Guard, s.Create)
	router.Get(Path+"/:id/edit", deps.Guard, s.Edit)
	router.Put(Path+"/:id", deps.Guard, s.Update)
	router.Post(Path+"/:id", deps.Guard, s.Update)
	router.Delete(Path+"/:id", deps.Guard, s.Delete)
	router.Post(Path+"/:id/delete", deps.Guard, s.Delete)

	return nil
}

// List shows all portfolio items, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	nav := navigation.Admin("Portfolio", navigation.SectionCatalog, "portfolio").
		AddBreadcrumb("Portfolio", Path, true)

	var items []models.Portfolio
	if err := s.deps.DB.Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		log.Error().Err(err).Msg("query portfolio failed")

		return handler.RenderAdmin(c.Status(fiber.StatusInternalServerError), TemplateList, fiber.Map{
			"Navigation": nav,
			"Error":      "Failed to load portfolio",
		})
	}

	featured := make([]uint64, 0, len(items))
	for _, p := range items {
		if p.FeaturedImageID != nil {
			featured = append(featured, *p.FeaturedImageID)
		}
	}

	thumbs, err := mediactl.Lookup(s.deps.DB, featured)
	if err != nil {
		log.Error().Err(err).Msg("failed to load portfolio thumbnails")
	}

	return handler.RenderAdmin(c, TemplateList, fiber.Map{
		"Navigation": nav,
		"Items":      items,
		"Thumbs":     thumbs,
	})
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.form(c, fiber.StatusOK, &models.Portfolio{Active: true}, true, "")
}

// Create creates a new portfolio item.
func (s *Service) Create(c *fiber.Ctx) error {
	var p models.Portfolio

	in, msg := s.parse(c, &p)
	if msg != "" {
		return s.form(c, fiber.StatusBadRequest, &p, true, msg)
	}

	var err error

	p.Slug, err = slug.ForCreate(s.deps.DB, &models.Portfolio{}, in.Slug, p.Title)
	if err != nil {
		return s.form(c, fiber.StatusBadRequest, &p, true, "Could not derive a slug from the title")
	}

	if err = s.deps.DB.Create(&p).Error; err != nil {
		return s.saveFailed(c, err, &p, true)
	}

	log.Info().Uint64("portfolio", p.ID).Str("slug", p.Slug).Msg("portfolio item created")

	return handler.Done(c, Path, "Portfolio item created")
}

// Edit shows the edit form for a portfolio item.
func (s *Service) Edit(c *fiber.Ctx) error {
	p, err := s.load(c)
	if err != nil {
		return err
	}

	return s.form(c, fiber.StatusOK, p, false, "")
}

// Update updates a portfolio item. The slug follows a changed title unless one is supplied.
func (s *Service) Update(c *fiber.Ctx) error {
	p, err := s.load(c)
	if err != nil {
		return err
	}

	oldTitle := p.Title

	in, msg := s.parse(c, p)
	if msg != "" {
		return s.form(c, fiber.StatusBadRequest, p, false, msg)
	}

	if supplied := slug.Make(in.Slug); supplied != "" && supplied != p.Slug {
		p.Slug = supplied
	} else {
		p.Slug = slug.ForUpdate(p.Slug, oldTitle, p.Title)
	}

	if err = s.deps.DB.Save(p).Error; err != nil {
		return s.saveFailed(c, err, p, false)
	}

	return handler.Done(c, Path, "Portfolio item updated")
}

// Delete removes a portfolio item.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return handler.Fail(c, fiber.StatusNotFound, Path, "Portfolio item not found")
	}

	res := s.deps.DB.Delete(&models.Portfolio{}, id)
	if res.Error != nil {
		log.Error().Err(res.Error).Uint64("portfolio", id).Msg("delete portfolio item failed")
		return handler.Fail(c, fiber.StatusInternalServerError, Path, "Failed to delete portfolio item")
	}

	if res.RowsAffected == 0 {
		return handler.Fail(c, fiber.StatusNotFound, Path, "Portfolio item not found")
	}

	return handler.Done(c, Path, "Portfolio item deleted")
}

func (s *Service) load(c *fiber.Ctx) (*models.Portfolio, error) {
	id, ok := handler.ParamID(c)
	if !ok {
		return nil, fiber.ErrNotFound
	}

	var p models.Portfolio

	res := s.deps.DB.Limit(1).Find(&p, id)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		return nil, fiber.ErrNotFound
	}

	return &p, nil
}

// parse copies the submitted form into p and returns the raw input and a
// validation message, empty when the form is valid.
func (s *Service) parse(c *fiber.Ctx, p *models.Portfolio) (input, string) {
	var in input
	if err := c.BodyParser(&in); err != nil {
		return in, "Invalid form data"
	}

	p.Title = strings.TrimSpace(in.Title)
	p.Description = strings.TrimSpace(in.Description)
	p.SEOTitle = strings.TrimSpace(in.SEOTitle)
	p.SEODescription = strings.TrimSpace(in.SEODescription)
	p.Images = handler.IDList(c, "images")
	p.FeaturedImageID = handler.OptionalID(c, "featuredImage")
	p.Active = handler.Checked(c, "active")
	p.Featured = handler.Checked(c, "featured")

	if p.FeaturedImageID == nil && len(p.Images) > 0 {
		first := p.Images[0]
		p.FeaturedImageID = &first
	}

	return in, s.deps.Validator.First(in)
}

func (s *Service) saveFailed(c *fiber.Ctx, err error, p *models.Portfolio, isCreate bool) error {
	if db.IsDuplicate(err) {
		return s.form(c, fiber.StatusBadRequest, p, isCreate, "A portfolio item with this slug already exists")
	}

	log.Error().Err(err).Msg("save portfolio item failed")

	return s.form(c, fiber.StatusInternalServerError, p, isCreate, "Failed to save portfolio item")
}

func (s *Service) form(c *fiber.Ctx, status int, p *models.Portfolio, isCreate bool, errMsg string) error {
	title, crumb, url := "Edit Portfolio Item", "Edit", Path+"/"+strconv.FormatUint(p.ID, 10)+"/edit"
	if isCreate {
		title, crumb, url = "New Portfolio Item", "New", Path+"/new"
	}

	nav := navigation.Admin(title, navigation.SectionCatalog, "portfolio").
		AddBreadcrumb("Portfolio", Path, false).
		AddBreadcrumb(crumb, url, true)

	gallery, err := handler.ResolveGallery(s.deps.DB, p.FeaturedImageID, p.Images)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve portfolio media")
	}

	return handler.RenderAdmin(c.Status(status), TemplateForm, fiber.Map{
		"Navigation": nav,
		"Item":       p,
		"Gallery":    gallery,
		"IsCreate":   isCreate,
		"Error":      errMsg,
	})
}
