// Package calendar serves the public events calendar.
package calendar

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/rgcpoolandspa/poolsite/internal/db/controller/catalog"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
)

const (
	// Path is the calendar page.
	Path = "/calendar"
	// EventPath is the prefix of event pages.
	EventPath = "/events"

	// TemplateCalendar is the calendar template.
	TemplateCalendar = "public/calendar"
	// TemplateEvent is the event page template.
	TemplateEvent = "public/event"
)

// Month is a calendar section.
type Month struct {
	Label  string
	Start  time.Time
	Events []models.Event
}

// Service serves calendar pages.
type Service struct {
	deps *handler.Deps
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil {
		return handler.ErrMissingDeps
	}

	s.deps = deps

	router.Get(Path, s.Calendar)
	router.Get(EventPath+"/:id", s.Event)

	return nil
}

// Calendar renders active events by start date, grouped by month.
func (s *Service) Calendar(c *fiber.Ctx) error {
	events, err := catalog.ActiveEvents(s.deps.DB, time.Time{}, 0)
	if err != nil {
		log.Error().Err(err).Msg("failed to load events")
		return fiber.ErrInternalServerError
	}

	return handler.RenderPublic(c, s.deps, TemplateCalendar, fiber.Map{
		"Title":  "Calendar",
		"Months": GroupByMonth(events),
	})
}

// Event renders one active event.
func (s *Service) Event(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return fiber.ErrNotFound
	}

	ev, err := catalog.FindEvent(s.deps.DB, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return fiber.ErrNotFound
		}

		log.Error().Err(err).Uint64("event", id).Msg("failed to load event")

		return fiber.ErrInternalServerError
	}

	return handler.RenderPublic(c, s.deps, TemplateEvent, fiber.Map{
		"Title": ev.Title,
		"Event": ev,
	})
}

// GroupByMonth splits events, already sorted by start date, into months.
func GroupByMonth(events []models.Event) []Month {
	var months []Month

	for _, ev := range events {
		start := ev.StartDate.Local()
		first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())

		if n := len(months); n == 0 || !months[n-1].Start.Equal(first) {
			months = append(months, Month{Label: first.Format("January 2006"), Start: first})
		}

		months[len(months)-1].Events = append(months[len(months)-1].Events, ev)
	}

	return months
}
