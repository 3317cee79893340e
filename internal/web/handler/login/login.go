// Package login serves the admin login form.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	localauth "github.com/rgcpoolandspa/poolsite/internal/auth"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
	authmw "github.com/rgcpoolandspa/poolsite/internal/web/middleware/auth"
)

const (
	// Path is the path to the login page.
	Path = handler.LoginPath

	// TemplateName is the login page template.
	TemplateName = "admin/login"
)

var (
	// ErrInvalidFormData is returned when the submitted login form cannot be parsed.
	ErrInvalidFormData = errors.New("invalid form data")

	// ErrInvalidCredentials is returned when username or password are wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInternalServerError is returned for unexpected failures during login.
	ErrInternalServerError = errors.New("internal server error")
)

// Service is the login handler service.
type Service struct {
	deps *handler.Deps
}

// Init registers the login routes. They are reachable without a session.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil || deps.Sessions == nil || deps.Admins == nil {
		return handler.ErrMissingDeps
	}

	s.deps = deps

	router.Get(Path, s.Get)
	router.Post(Path, s.Post)

	return nil
}

// Get renders the login page, or sends authenticated admins to the dashboard.
func (s *Service) Get(c *fiber.Ctx) error {
	admin, err := authmw.Resolve(c, s.deps.Sessions, s.deps.Admins)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve session on login page")
	}

	if admin != nil {
		return c.Redirect(handler.DashboardPath)
	}

	return s.render(c, fiber.StatusOK, "", "")
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	var in struct {
		Username string `form:"username" json:"username" validate:"required,max=100"`
		Password string `form:"password" json:"password" validate:"required"`
	}

	if err := c.BodyParser(&in); err != nil {
		return s.render(c, fiber.StatusBadRequest, in.Username, ErrInvalidFormData.Error())
	}

	if msg := s.deps.Validator.First(in); msg != "" {
		return s.render(c, fiber.StatusBadRequest, in.Username, ErrInvalidCredentials.Error())
	}

	admin, err := s.deps.Admins.Authenticate(in.Username, in.Password)

	switch {
	case errors.Is(err, localauth.ErrUserNotFound), errors.Is(err, localauth.ErrInvalidPassword):
		log.Info().Str("username", in.Username).Str("ip", c.IP()).Msg("failed admin login")
		return s.render(c, fiber.StatusUnauthorized, in.Username, ErrInvalidCredentials.Error())
	case err != nil:
		log.Error().Err(err).Msg("failed to authenticate admin")
		return s.render(c, fiber.StatusInternalServerError, in.Username, ErrInternalServerError.Error())
	}

	if err = s.deps.Sessions.Create(c, admin); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return s.render(c, fiber.StatusInternalServerError, in.Username, ErrInternalServerError.Error())
	}

	log.Info().Str("username", admin.Username).Msg("admin logged in")

	return c.Redirect(handler.DashboardPath)
}

func (s *Service) render(c *fiber.Ctx, status int, username, errMsg string) error {
	return c.Status(status).Render(TemplateName, fiber.Map{
		"Title":    s.deps.Cfg.Title,
		"Username": username,
		"error":    errMsg,
	})
}
