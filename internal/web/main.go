package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/rgcpoolandspa/poolsite/internal/config"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	fiberlogger "github.com/rgcpoolandspa/poolsite/internal/logger/adapter/fiber"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler/admin/event"
	admininquiry "github.com/rgcpoolandspa/poolsite/internal/web/handler/admin/inquiry"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler/admin/media"
	adminportfolio "github.com/rgcpoolandspa/poolsite/internal/web/handler/admin/portfolio"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler/admin/product"
	adminservice "github.com/rgcpoolandspa/poolsite/internal/web/handler/admin/service"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler/admin/sitesettings"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler/dashboard"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler/login"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler/logout"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler/public/calendar"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler/public/inquiry"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler/public/pages"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler/public/portfolio"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler/public/products"
)

const (
	// HealthPath reports liveness, 503 while shutting down.
	HealthPath = "/healthz"
	// MetricsPath exposes prometheus metrics.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	deps         *handler.Deps
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so the health check fails.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether the service accepts traffic.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// Services returns every handler service in registration order.
func Services() []handler.Service {
	return []handler.Service{
		// public site
		&pages.Service{},
		&products.Service{},
		&portfolio.Service{},
		&calendar.Service{},
		&inquiry.Service{},
		// back office
		&login.Service{},
		&logout.Service{},
		&dashboard.Service{},
		&product.Service{},
		&adminportfolio.Service{},
		&adminservice.Service{},
		&event.Service{},
		&admininquiry.Service{},
		&sitesettings.Service{},
		&media.Service{},
	}
}

// NewEngine creates the template engine, reading templates from disk in dev mode.
func NewEngine(cfg *config.Config) *html.Engine {
	httpFS := http.FS(Templates())
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFuncMap(TemplateFuncs())

	return templateEngine
}

// TemplateFuncs are the helpers available to every template.
func TemplateFuncs() map[string]any {
	return map[string]any{
		"iterate": func(count int) []int {
			result := make([]int, count)
			for i := range result {
				result[i] = i
			}

			return result
		},
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"mediaURL": func(m *models.Media, size string) string {
			return m.URL(size)
		},
		"placeholder": func() string {
			return models.PlaceholderImage
		},
		"contains": func(list []string, s string) bool {
			return slices.Contains(list, s)
		},
		"containsID": func(list []uint64, id uint64) bool {
			return slices.Contains(list, id)
		},
		"date": func(t time.Time, layout string) string {
			if t.IsZero() {
				return ""
			}

			return t.Local().Format(layout)
		},
		"optDate": func(t *time.Time, layout string) string {
			if t == nil || t.IsZero() {
				return ""
			}

			return t.Local().Format(layout)
		},
		"deref": func(id *uint64) uint64 {
			if id == nil {
				return 0
			}

			return *id
		},
	}
}

// New creates a new web service with the given configuration and dependencies.
func New(cfg *config.Config, deps *handler.Deps) (*Service, error) {
	if cfg == nil || deps == nil {
		return nil, handler.ErrMissingDeps
	}

	service := &Service{
		cfg:  cfg,
		deps: deps,
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      cfg.Webserver.BodyLimit,
			Views:          NewEngine(cfg),
			ErrorHandler:   service.ErrorHandler,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: HealthPath,
	}))

	if cfg.Webserver.CookieEncryptionKey != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{Key: cfg.Webserver.CookieEncryptionKey}))
	}

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:   http.FS(Static()),
				MaxAge: 3600,
			},
		),
	)

	app.Get(HealthPath, func(c *fiber.Ctx) error {
		if !service.Alive() {
			return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
		}

		return c.SendString("ok")
	})

	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	for _, svc := range Services() {
		if err := svc.Init(app, deps); err != nil {
			return nil, err
		}
	}

	service.App = app
	service.alive.Store(true)

	return service, nil
}

// ErrorHandler renders the error page, or JSON for API style requests.
func (s *Service) ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	message := http.StatusText(code)

	switch {
	case code == fiber.StatusNotFound:
		message = "Page not found"
	case code >= fiber.StatusInternalServerError:
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")

		message = "Something went wrong, please try again later."
	case fe != nil && fe.Message != "":
		message = fe.Message
	}

	if handler.IsAPIRequest(c) {
		return c.Status(code).JSON(fiber.Map{"error": message})
	}

	renderErr := handler.RenderPublic(c.Status(code), s.deps, handler.TemplateError, fiber.Map{
		"Title":   message,
		"Code":    code,
		"Message": message,
	})
	if renderErr != nil {
		log.Error().Err(renderErr).Msg("failed to render error page")

		return c.Status(code).SendString(message)
	}

	return nil
}
