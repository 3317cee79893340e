// Package event provides the admin handlers for calendar events.
package event

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
	"github.com/rgcpoolandspa/poolsite/internal/web/navigation"
)

const (
	// Path is the base path for event management.
	Path = handler.AdminPath + "/events"

	// TemplateList is the template for listing events.
	TemplateList = "admin/events/list"
	// TemplateForm is the template for creating/updating an event.
	TemplateForm = "admin/events/form"
)

type input struct {
	Title       string `form:"title"       validate:"required,max=255"`
	Description string `form:"description"`
	StartDate   string `form:"startDate"   validate:"required"`
	EndDate     string `form:"endDate"`
	Location    string `form:"location"    validate:"max=255"`
}

// Service provides CRUD operations for events.
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

// List shows events, latest start first.
func (s *Service) List(c *fiber.Ctx) error {
	nav := navigation.Admin("Events", navigation.SectionCatalog, "events").
		AddBreadcrumb("Events", Path, true)

	var events []models.Event
	if err := s.deps.DB.Order("start_date DESC, id DESC").Find(&events).Error; err != nil {
		log.Error().Err(err).Msg("query events failed")

		return handler.RenderAdmin(c.Status(fiber.StatusInternalServerError), TemplateList, fiber.Map{
			"Navigation": nav,
			"Error":      "Failed to load events",
		})
	}

	return handler.RenderAdmin(c, TemplateList, fiber.Map{
		"Navigation": nav,
		"Events":     events,
		"Now":        time.Now(),
	})
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour) //nolint:mnd

	return s.form(c, fiber.StatusOK, &models.Event{Active: true, StartDate: start}, true, "")
}

// Create creates a new event.
func (s *Service) Create(c *fiber.Ctx) error {
	var ev models.Event
	if msg := s.parse(c, &ev); msg != "" {
		return s.form(c, fiber.StatusBadRequest, &ev, true, msg)
	}

	if err := s.deps.DB.Create(&ev).Error; err != nil {
		log.Error().Err(err).Msg("create event failed")
		return s.form(c, fiber.StatusInternalServerError, &ev, true, "Failed to save event")
	}

	return handler.Done(c, Path, "Event created")
}

// Edit shows the edit form for an event.
func (s *Service) Edit(c *fiber.Ctx) error {
	ev, err := s.load(c)
	if err != nil {
		return err
	}

	return s.form(c, fiber.StatusOK, ev, false, "")
}

// Update updates an event.
func (s *Service) Update(c *fiber.Ctx) error {
	ev, err := s.load(c)
	if err != nil {
		return err
	}

	if msg := s.parse(c, ev); msg != "" {
		return s.form(c, fiber.StatusBadRequest, ev, false, msg)
	}

	if err = s.deps.DB.Save(ev).Error; err != nil {
		log.Error().Err(err).Msg("update event failed")
		return s.form(c, fiber.StatusInternalServerError, ev, false, "Failed to save event")
	}

	return handler.Done(c, Path, "Event updated")
}

// Delete removes an event.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return handler.Fail(c, fiber.StatusNotFound, Path, "Event not found")
	}

	res := s.deps.DB.Delete(&models.Event{}, id)
	if res.Error != nil {
		log.Error().Err(res.Error).Uint64("event", id).Msg("delete event failed")
		return handler.Fail(c, fiber.StatusInternalServerError, Path, "Failed to delete event")
	}

	if res.RowsAffected == 0 {
		return handler.Fail(c, fiber.StatusNotFound, Path, "Event not found")
	}

	return handler.Done(c, Path, "Event deleted")
}

func (s *Service) load(c *fiber.Ctx) (*models.Event, error) {
	id, ok := handler.ParamID(c)
	if !ok {
		return nil, fiber.ErrNotFound
	}

	var ev models.Event

	res := s.deps.DB.Limit(1).Find(&ev, id)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		return nil, fiber.ErrNotFound
	}

	return &ev, nil
}

func (s *Service) parse(c *fiber.Ctx, ev *models.Event) string {
	var in input
	if err := c.BodyParser(&in); err != nil {
		return "Invalid form data"
	}

	ev.Title = strings.TrimSpace(in.Title)
	ev.Description = strings.TrimSpace(in.Description)
	ev.Location = strings.TrimSpace(in.Location)
	ev.AllDay = handler.Checked(c, "allDay")
	ev.Active = handler.Checked(c, "active")

	if msg := s.deps.Validator.First(in); msg != "" {
		return msg
	}

	start, ok := handler.ParseTime(in.StartDate, time.Local)
	if !ok {
		return "StartDate is invalid"
	}

	ev.StartDate = start
	ev.EndDate = nil

	if in.EndDate != "" {
		end, ok := handler.ParseTime(in.EndDate, time.Local)
		if !ok {
			return "EndDate is invalid"
		}

		if end.Before(start) {
			return "EndDate must not be before StartDate"
		}

		ev.EndDate = &end
	}

	return ""
}

func (s *Service) form(c *fiber.Ctx, status int, ev *models.Event, isCreate bool, errMsg string) error {
	title, crumb, url := "Edit Event", "Edit", Path+"/"+strconv.FormatUint(ev.ID, 10)+"/edit"
	if isCreate {
		title, crumb, url = "New Event", "New", Path+"/new"
	}

	nav := navigation.Admin(title, navigation.SectionCatalog, "events").
		AddBreadcrumb("Events", Path, false).
		AddBreadcrumb(crumb, url, true)

	return handler.RenderAdmin(c.Status(status), TemplateForm, fiber.Map{
		"Navigation": nav,
		"Event":      ev,
		"IsCreate":   isCreate,
		"Error":      errMsg,
	})
}
