// Package inquiry accepts contact form submissions from the public site.
package inquiry

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
	"github.com/rgcpoolandspa/poolsite/internal/web/middleware/ratelimit"
)

const (
	// Path accepts submissions.
	Path = "/inquiry"

	// ContactPath is where contact and unknown-source submissions return to.
	ContactPath = "/contact"

	// SuccessMessage is flashed after a stored submission.
	SuccessMessage = "Thank you! Your inquiry has been sent. We will be in touch shortly."

	notifyTimeout = 30 * time.Second
)

type input struct {
	Name    string `form:"name"    validate:"required,max=255"`
	Town    string `form:"town"    validate:"max=255"`
	Phone   string `form:"phone"   validate:"max=50"`
	Email   string `form:"email"   validate:"required,email,max=255"`
	Service string `form:"service" validate:"required"`
	Message string `form:"message"`
	Source  string `form:"source"`
}

// Service stores inquiries and sends notifications.
type Service struct {
	deps *handler.Deps
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil || deps.Mailer == nil {
		return handler.ErrMissingDeps
	}

	s.deps = deps

	limit := ratelimit.New(ratelimit.Config{
		Limit:   deps.Cfg.Webserver.InquiryRateLimit,
		Period:  deps.Cfg.Webserver.InquiryRatePeriod,
		Prefix:  "inquiry",
		Message: "Too many inquiries, please try again later.",
	})

	router.Post(Path, limit, s.Submit)

	return nil
}

// Submit validates and stores an inquiry, then notifies the business.
// Notification failures are logged and never change the response.
func (s *Service) Submit(c *fiber.Ctx) error {
	var in input

	parseErr := c.BodyParser(&in)

	inq := &models.Inquiry{
		Name:          strings.TrimSpace(in.Name),
		Town:          strings.TrimSpace(in.Town),
		Phone:         strings.TrimSpace(in.Phone),
		Email:         strings.TrimSpace(in.Email),
		Service:       strings.TrimSpace(in.Service),
		Message:       strings.TrimSpace(in.Message),
		SelectedSizes: handler.FormList(c, "selectedSizes"),
		Source:        models.NormalizeSource(strings.TrimSpace(in.Source)),
	}

	product := s.product(handler.OptionalID(c, "productId"))
	if product != nil {
		inq.ProductID = &product.ID
	}

	target := returnPath(inq.Source, product)

	if parseErr != nil {
		return handler.Fail(c, fiber.StatusBadRequest, target, "Invalid form data")
	}

	in.Name, in.Email, in.Service = inq.Name, inq.Email, inq.Service
	if msg := s.deps.Validator.First(in); msg != "" {
		return handler.Fail(c, fiber.StatusBadRequest, target, msg)
	}

	if !slices.Contains(models.ServiceTypes, inq.Service) {
		return handler.Fail(c, fiber.StatusBadRequest, target, "Service has an unsupported value")
	}

	if err := s.deps.DB.Create(inq).Error; err != nil {
		log.Error().Err(err).Msg("failed to store inquiry")
		return handler.Fail(c, fiber.StatusInternalServerError, target, "Sorry, your inquiry could not be sent. Please call us instead.")
	}

	log.Info().
		Uint64("inquiry", inq.ID).
		Str("service", inq.Service).
		Str("source", inq.Source).
		Msg("inquiry received")

	s.notify(inq, product)

	return handler.Done(c, target, SuccessMessage)
}

func (s *Service) notify(inq *models.Inquiry, product *models.Product) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := s.deps.Mailer.NotifyInquiry(ctx, inq, product); err != nil {
		log.Error().Err(err).Uint64("inquiry", inq.ID).Msg("inquiry notification failed")
	}
}

// product loads the referenced product, nil when unset or unknown.
func (s *Service) product(id *uint64) *models.Product {
	if id == nil {
		return nil
	}

	var p models.Product

	res := s.deps.DB.Limit(1).Find(&p, *id)
	if res.Error != nil {
		log.Warn().Err(res.Error).Uint64("product", *id).Msg("failed to load inquiry product")
		return nil
	}

	if res.RowsAffected == 0 {
		return nil
	}

	return &p
}

func returnPath(source string, product *models.Product) string {
	switch {
	case product != nil:
		return "/products/" + product.Slug
	case source == models.SourceHome:
		return handler.RootPath
	}

	return ContactPath
}
