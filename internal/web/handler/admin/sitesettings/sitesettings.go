// Package sitesettings provides the admin page for the site settings singleton.
package sitesettings

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/rgcpoolandspa/poolsite/internal/db/controller/settings"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
	"github.com/rgcpoolandspa/poolsite/internal/web/navigation"
)

const (
	// Path is the settings page.
	Path = handler.AdminPath + "/settings"

	// TemplateName is the settings form template.
	TemplateName = "admin/settings"
)

type input struct {
	CompanyName    string `form:"companyName"    validate:"required,max=255"`
	CompanyEmail   string `form:"companyEmail"   validate:"omitempty,email,max=255"`
	CompanyPhone   string `form:"companyPhone"   validate:"max=50"`
	CompanyAddress string `form:"companyAddress" validate:"max=500"`
	Theme          string `form:"theme"          validate:"required"`
	PrimaryColor   string `form:"primaryColor"   validate:"omitempty,hexcolor"`
	SecondaryColor string `form:"secondaryColor" validate:"omitempty,hexcolor"`
	AccentColor    string `form:"accentColor"    validate:"omitempty,hexcolor"`
	Facebook       string `form:"facebook"       validate:"omitempty,url"`
	Instagram      string `form:"instagram"      validate:"omitempty,url"`
	Twitter        string `form:"twitter"        validate:"omitempty,url"`
	Youtube        string `form:"youtube"        validate:"omitempty,url"`
	FooterText     string `form:"footerText"`
}

// Service shows and updates the site settings.
type Service struct {
	deps *handler.Deps
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil {
		return handler.ErrMissingDeps
	}

	s.deps = deps

	router.Get(Path, deps.Guard, s.Show)
	router.Post(Path, deps.Guard, s.Update)
	router.Put(Path, deps.Guard, s.Update)

	return nil
}

// Show renders the settings form.
func (s *Service) Show(c *fiber.Ctx) error {
	current, err := settings.Get(s.deps.DB)
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")
		return fiber.ErrInternalServerError
	}

	return s.form(c, fiber.StatusOK, current, "")
}

// Update saves the settings form.
func (s *Service) Update(c *fiber.Ctx) error {
	current, err := settings.Get(s.deps.DB)
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")
		return fiber.ErrInternalServerError
	}

	var in input
	if err = c.BodyParser(&in); err != nil {
		return s.form(c, fiber.StatusBadRequest, current, "Invalid form data")
	}

	next := *current
	next.CompanyName = strings.TrimSpace(in.CompanyName)
	next.CompanyEmail = strings.TrimSpace(in.CompanyEmail)
	next.CompanyPhone = strings.TrimSpace(in.CompanyPhone)
	next.CompanyAddress = strings.TrimSpace(in.CompanyAddress)
	next.Theme = strings.TrimSpace(in.Theme)
	next.FooterText = strings.TrimSpace(in.FooterText)
	next.HeroImageID = handler.OptionalID(c, "heroImage")
	next.Social = models.SocialLinks{
		Facebook:  strings.TrimSpace(in.Facebook),
		Instagram: strings.TrimSpace(in.Instagram),
		Twitter:   strings.TrimSpace(in.Twitter),
		Youtube:   strings.TrimSpace(in.Youtube),
	}

	// an empty color keeps the stored one
	if in.PrimaryColor != "" {
		next.Palette.Primary = in.PrimaryColor
	}

	if in.SecondaryColor != "" {
		next.Palette.Secondary = in.SecondaryColor
	}

	if in.AccentColor != "" {
		next.Palette.Accent = in.AccentColor
	}

	if msg := s.deps.Validator.First(in); msg != "" {
		return s.form(c, fiber.StatusBadRequest, &next, msg)
	}

	saved, err := settings.Update(s.deps.DB, next)
	if err != nil {
		if errors.Is(err, settings.ErrInvalidTheme) {
			return s.form(c, fiber.StatusBadRequest, &next, "Theme has an unsupported value")
		}

		log.Error().Err(err).Msg("failed to save settings")

		return s.form(c, fiber.StatusInternalServerError, &next, "Failed to save settings")
	}

	log.Info().Str("theme", saved.Theme).Msg("site settings updated")

	return handler.Done(c, Path, "Settings saved")
}

func (s *Service) form(c *fiber.Ctx, status int, current *models.Settings, errMsg string) error {
	nav := navigation.Admin("Settings", navigation.SectionSettings, "settings").
		AddBreadcrumb("Settings", Path, true)

	hero, err := handler.ResolveOne(s.deps.DB, current.HeroImageID)
	if err != nil {
		log.Warn().Err(err).Msg("failed to resolve hero image")
	}

	return handler.RenderAdmin(c.Status(status), TemplateName, fiber.Map{
		"Navigation":   nav,
		"SiteSettings": current,
		"HeroImage":    hero,
		"Themes":       models.Themes,
		"Error":        errMsg,
	})
}
