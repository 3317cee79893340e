// Package service provides the admin handlers for the services offered on the home page.
package service

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
	"github.com/rgcpoolandspa/poolsite/internal/web/navigation"
)

const (
	// Path is the base path for service management.
	Path = handler.AdminPath + "/services"

	// TemplateList is the template for listing services.
	TemplateList = "admin/services/list"
	// TemplateForm is the template for creating/updating a service.
	TemplateForm = "admin/services/form"
)

type input struct {
	Name        string `form:"name"        validate:"required,max=255"`
	Description string `form:"description"`
	Icon        string `form:"icon"        validate:"max=100"`
	Order       int    `form:"order"       validate:"gte=0"`
}

// Service provides CRUD operations for services.
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

// List shows services in display order.
func (s *Service) List(c *fiber.Ctx) error {
	nav := navigation.Admin("Services", navigation.SectionCatalog, "services").
		AddBreadcrumb("Services", Path, true)

	var services []models.Service
	if err := s.deps.DB.Order("sort_order ASC, id ASC").Find(&services).Error; err != nil {
		log.Error().Err(err).Msg("query services failed")

		return handler.RenderAdmin(c.Status(fiber.StatusInternalServerError), TemplateList, fiber.Map{
			"Navigation": nav,
			"Error":      "Failed to load services",
		})
	}

	return handler.RenderAdmin(c, TemplateList, fiber.Map{
		"Navigation": nav,
		"Services":   services,
	})
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.form(c, fiber.StatusOK, &models.Service{Active: true}, true, "")
}

// Create creates a new service.
func (s *Service) Create(c *fiber.Ctx) error {
	var svc models.Service
	if msg := s.parse(c, &svc); msg != "" {
		return s.form(c, fiber.StatusBadRequest, &svc, true, msg)
	}

	if err := s.deps.DB.Create(&svc).Error; err != nil {
		log.Error().Err(err).Msg("create service failed")
		return s.form(c, fiber.StatusInternalServerError, &svc, true, "Failed to save service")
	}

	return handler.Done(c, Path, "Service created")
}

// Edit shows the edit form for a service.
func (s *Service) Edit(c *fiber.Ctx) error {
	svc, err := s.load(c)
	if err != nil {
		return err
	}

	return s.form(c, fiber.StatusOK, svc, false, "")
}

// Update updates a service.
func (s *Service) Update(c *fiber.Ctx) error {
	svc, err := s.load(c)
	if err != nil {
		return err
	}

	if msg := s.parse(c, svc); msg != "" {
		return s.form(c, fiber.StatusBadRequest, svc, false, msg)
	}

	if err = s.deps.DB.Save(svc).Error; err != nil {
		log.Error().Err(err).Msg("update service failed")
		return s.form(c, fiber.StatusInternalServerError, svc, false, "Failed to save service")
	}

	return handler.Done(c, Path, "Service updated")
}

// Delete removes a service.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return handler.Fail(c, fiber.StatusNotFound, Path, "Service not found")
	}

	res := s.deps.DB.Delete(&models.Service{}, id)
	if res.Error != nil {
		log.Error().Err(res.Error).Uint64("service", id).Msg("delete service failed")
		return handler.Fail(c, fiber.StatusInternalServerError, Path, "Failed to delete service")
	}

	if res.RowsAffected == 0 {
		return handler.Fail(c, fiber.StatusNotFound, Path, "Service not found")
	}

	return handler.Done(c, Path, "Service deleted")
}

func (s *Service) load(c *fiber.Ctx) (*models.Service, error) {
	id, ok := handler.ParamID(c)
	if !ok {
		return nil, fiber.ErrNotFound
	}

	var svc models.Service

	res := s.deps.DB.Limit(1).Find(&svc, id)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		return nil, fiber.ErrNotFound
	}

	return &svc, nil
}

func (s *Service) parse(c *fiber.Ctx, svc *models.Service) string {
	var in input
	if err := c.BodyParser(&in); err != nil {
		return "Invalid form data"
	}

	svc.Name = strings.TrimSpace(in.Name)
	svc.Description = strings.TrimSpace(in.Description)
	svc.Icon = strings.TrimSpace(in.Icon)
	svc.Order = in.Order
	svc.Active = handler.Checked(c, "active")
	svc.Featured = handler.Checked(c, "featured")

	return s.deps.Validator.First(in)
}

func (s *Service) form(c *fiber.Ctx, status int, svc *models.Service, isCreate bool, errMsg string) error {
	title, crumb, url := "Edit Service", "Edit", Path+"/"+strconv.FormatUint(svc.ID, 10)+"/edit"
	if isCreate {
		title, crumb, url = "New Service", "New", Path+"/new"
	}

	nav := navigation.Admin(title, navigation.SectionCatalog, "services").
		AddBreadcrumb("Services", Path, false).
		AddBreadcrumb(crumb, url, true)

	return handler.RenderAdmin(c.Status(status), TemplateForm, fiber.Map{
		"Navigation": nav,
		"Service":    svc,
		"IsCreate":   isCreate,
		"Error":      errMsg,
	})
}
