// Package product provides the admin handlers for managing products.
package product

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
	// Path is the base path for product management.
	Path = handler.AdminPath + "/products"

	// TemplateList is the template for listing products.
	TemplateList = "admin/products/list"
	// TemplateForm is the template for creating/updating a product.
	TemplateForm = "admin/products/form"
)

type input struct {
	Name           string `form:"name"           validate:"required,max=255"`
	Slug           string `form:"slug"           validate:"max=255"`
	Description    string `form:"description"    validate:"required"`
	SEOTitle       string `form:"seoTitle"       validate:"max=255"`
	SEODescription string `form:"seoDescription" validate:"max=500"`
}

// Service provides CRUD operations for products.
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

// List shows all products, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	nav := navigation.Admin("Products", navigation.SectionCatalog, "products").
		AddBreadcrumb("Products", Path, true)

	var products []models.Product
	if err := s.deps.DB.Order("created_at DESC, id DESC").Find(&products).Error; err != nil {
		log.Error().Err(err).Msg("query products failed")

		return handler.RenderAdmin(c.Status(fiber.StatusInternalServerError), TemplateList, fiber.Map{
			"Navigation": nav,
			"Error":      "Failed to load products",
		})
	}

	featured := make([]uint64, 0, len(products))
	for _, p := range products {
		if p.FeaturedImageID != nil {
			featured = append(featured, *p.FeaturedImageID)
		}
	}

	thumbs, err := mediactl.Lookup(s.deps.DB, featured)
	if err != nil {
		log.Error().Err(err).Msg("failed to load product thumbnails")
	}

	return handler.RenderAdmin(c, TemplateList, fiber.Map{
		"Navigation": nav,
		"Products":   products,
		"Thumbs":     thumbs,
	})
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.form(c, fiber.StatusOK, &models.Product{Active: true, ShowContactForm: true}, true, "")
}

// Create creates a new product.
func (s *Service) Create(c *fiber.Ctx) error {
	var p models.Product

	in, msg := s.parse(c, &p)
	if msg != "" {
		return s.form(c, fiber.StatusBadRequest, &p, true, msg)
	}

	var err error

	p.Slug, err = slug.ForCreate(s.deps.DB, &models.Product{}, in.Slug, p.Name)
	if err != nil {
		return s.form(c, fiber.StatusBadRequest, &p, true, "Could not derive a slug from the name")
	}

	if err = s.deps.DB.Create(&p).Error; err != nil {
		return s.saveFailed(c, err, &p, true)
	}

	log.Info().Uint64("product", p.ID).Str("slug", p.Slug).Msg("product created")

	return handler.Done(c, Path, "Product created")
}

// Edit shows the edit form for a product.
func (s *Service) Edit(c *fiber.Ctx) error {
	p, err := s.load(c)
	if err != nil {
		return err
	}

	return s.form(c, fiber.StatusOK, p, false, "")
}

// Update updates a product. The slug follows a changed name unless one is supplied.
func (s *Service) Update(c *fiber.Ctx) error {
	p, err := s.load(c)
	if err != nil {
		return err
	}

	oldName := p.Name

	in, msg := s.parse(c, p)
	if msg != "" {
		return s.form(c, fiber.StatusBadRequest, p, false, msg)
	}

	if supplied := slug.Make(in.Slug); supplied != "" && supplied != p.Slug {
		p.Slug = supplied
	} else {
		p.Slug = slug.ForUpdate(p.Slug, oldName, p.Name)
	}

	if err = s.deps.DB.Save(p).Error; err != nil {
		return s.saveFailed(c, err, p, false)
	}

	return handler.Done(c, Path, "Product updated")
}

// Delete removes a product.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return handler.Fail(c, fiber.StatusNotFound, Path, "Product not found")
	}

	res := s.deps.DB.Delete(&models.Product{}, id)
	if res.Error != nil {
		log.Error().Err(res.Error).Uint64("product", id).Msg("delete product failed")
		return handler.Fail(c, fiber.StatusInternalServerError, Path, "Failed to delete product")
	}

	if res.RowsAffected == 0 {
		return handler.Fail(c, fiber.StatusNotFound, Path, "Product not found")
	}

	return handler.Done(c, Path, "Product deleted")
}

func (s *Service) load(c *fiber.Ctx) (*models.Product, error) {
	id, ok := handler.ParamID(c)
	if !ok {
		return nil, fiber.ErrNotFound
	}

	var p models.Product

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
func (s *Service) parse(c *fiber.Ctx, p *models.Product) (input, string) {
	var in input
	if err := c.BodyParser(&in); err != nil {
		return in, "Invalid form data"
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.SEOTitle = strings.TrimSpace(in.SEOTitle)
	p.SEODescription = strings.TrimSpace(in.SEODescription)
	p.Sizes = ParseSizes(handler.FormList(c, "sizes"))
	p.Images = handler.IDList(c, "images")
	p.FeaturedImageID = handler.OptionalID(c, "featuredImage")
	p.ShowContactForm = handler.Checked(c, "showContactForm")
	p.Active = handler.Checked(c, "active")
	p.Featured = handler.Checked(c, "featured")

	if p.FeaturedImageID == nil && len(p.Images) > 0 {
		first := p.Images[0]
		p.FeaturedImageID = &first
	}

	return in, s.deps.Validator.First(in)
}

func (s *Service) saveFailed(c *fiber.Ctx, err error, p *models.Product, isCreate bool) error {
	if db.IsDuplicate(err) {
		return s.form(c, fiber.StatusBadRequest, p, isCreate, "A product with this slug already exists")
	}

	log.Error().Err(err).Msg("save product failed")

	return s.form(c, fiber.StatusInternalServerError, p, isCreate, "Failed to save product")
}

func (s *Service) form(c *fiber.Ctx, status int, p *models.Product, isCreate bool, errMsg string) error {
	title, crumb, url := "Edit Product", "Edit", Path+"/"+strconv.FormatUint(p.ID, 10)+"/edit"
	if isCreate {
		title, crumb, url = "New Product", "New", Path+"/new"
	}

	nav := navigation.Admin(title, navigation.SectionCatalog, "products").
		AddBreadcrumb("Products", Path, false).
		AddBreadcrumb(crumb, url, true)

	gallery, err := handler.ResolveGallery(s.deps.DB, p.FeaturedImageID, p.Images)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve product media")
	}

	return handler.RenderAdmin(c.Status(status), TemplateForm, fiber.Map{
		"Navigation": nav,
		"Product":    p,
		"Gallery":    gallery,
		"SizesText":  FormatSizes(p.Sizes),
		"IsCreate":   isCreate,
		"Error":      errMsg,
	})
}

// ParseSizes reads size options, one per line as "Label" or "Label|value".
// A missing value is derived from the label.
func ParseSizes(entries []string) []models.SizeOption {
	var out []models.SizeOption

	for _, entry := range entries {
		for _, line := range strings.Split(entry, "\n") {
			label, value, _ := strings.Cut(line, "|")
			label, value = strings.TrimSpace(label), strings.TrimSpace(value)

			if label == "" {
				continue
			}

			if value == "" {
				value = slug.Make(label)
			}

			out = append(out, models.SizeOption{Label: label, Value: value})
		}
	}

	return out
}

// FormatSizes is the inverse of ParseSizes.
func FormatSizes(sizes []models.SizeOption) string {
	lines := make([]string, 0, len(sizes))
	for _, s := range sizes {
		lines = append(lines, s.Label+"|"+s.Value)
	}

	return strings.Join(lines, "\n")
}
