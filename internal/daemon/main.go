// Package daemon wires the store, sessions, mail and web service together
// and runs them until shutdown.
package daemon

import (
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rgcpoolandspa/poolsite/internal/auth"
	"github.com/rgcpoolandspa/poolsite/internal/config"
	"github.com/rgcpoolandspa/poolsite/internal/db"
	"github.com/rgcpoolandspa/poolsite/internal/db/controller/settings"
	"github.com/rgcpoolandspa/poolsite/internal/mail"
	"github.com/rgcpoolandspa/poolsite/internal/media"
	"github.com/rgcpoolandspa/poolsite/internal/web"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
	authmw "github.com/rgcpoolandspa/poolsite/internal/web/middleware/auth"
	"github.com/rgcpoolandspa/poolsite/internal/web/session"
)

// SessionGCInterval is how often expired sqlite sessions are purged.
const SessionGCInterval = 10 * time.Minute

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	sessions   *session.Manager
	storage    session.Storage
	webService *web.Service
	stopGC     chan struct{}
}

// Start serves until SIGINT or SIGTERM, then releases all resources.
func (d *Daemon) Start() error {
	go func() {
		addr := ":" + strconv.Itoa(d.cfg.Webserver.Port)
		log.Info().Str("addr", addr).Str("url", d.cfg.Webserver.URL).Msg("starting web service")

		if err := d.webService.Start(addr); err != nil {
			log.Error().Err(err).Msg("web service stopped")
		}
	}()

	d.webService.WaitShutdown()

	return d.Close()
}

// Close stops the session collector and closes sessions and the database.
func (d *Daemon) Close() error {
	if d.stopGC != nil {
		close(d.stopGC)
		d.stopGC = nil
	}

	var errs []error

	if d.sessions != nil {
		errs = append(errs, d.sessions.Close())
	}

	if d.db != nil {
		errs = append(errs, db.Close(d.db))
	}

	return errors.Join(errs...)
}

// Open connects to and migrates the configured database.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(gdb); err != nil {
		_ = db.Close(gdb)
		return nil, err
	}

	return gdb, nil
}

// Bootstrap creates the first admin account and the settings row when missing.
func Bootstrap(cfg *config.Config, gdb *gorm.DB) error {
	created, err := auth.NewLocalProvider(gdb).EnsureBootstrapAdmin(cfg.Admin)

	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		log.Warn().Msg("no admin account exists and no bootstrap password is configured, set ADMIN_PASSWORD")
	case err != nil:
		return err
	case created:
		log.Info().Str("username", cfg.Admin.Username).Msg("bootstrap admin created")
	}

	if _, err = settings.Get(gdb); err != nil {
		return err
	}

	return nil
}

// New opens the store and builds the web service. A database that can not be
// reached is an error, the caller is expected to exit.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, handler.ErrMissingDeps
	}

	gdb, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	d := &Daemon{cfg: cfg, db: gdb}

	if err = Bootstrap(cfg, gdb); err != nil {
		_ = d.Close()
		return nil, err
	}

	d.storage, err = session.NewStorage(cfg, gdb)
	if err != nil {
		_ = d.Close()
		return nil, err
	}

	d.sessions = session.NewManager(d.storage, cfg)

	if gs, ok := d.storage.(*session.GormStorage); ok {
		d.stopGC = make(chan struct{})
		go collectSessions(gs, d.stopGC)
	}

	admins := auth.NewLocalProvider(gdb)

	deps := &handler.Deps{
		Cfg:       cfg,
		DB:        gdb,
		Sessions:  d.sessions,
		Admins:    admins,
		Media:     media.NewService(gdb, media.WithMaxPixels(cfg.Media.MaxPixels)),
		Mailer:    mail.New(cfg.Mail),
		Validator: handler.NewValidator(),
		Guard:     authmw.RequireAuth(d.sessions, admins),
	}

	d.webService, err = web.New(cfg, deps)
	if err != nil {
		_ = d.Close()
		return nil, err
	}

	return d, nil
}

func collectSessions(gs *session.GormStorage, stop <-chan struct{}) {
	ticker := time.NewTicker(SessionGCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			n, err := gs.GC()
			if err != nil {
				log.Error().Err(err).Msg("session cleanup failed")
				continue
			}

			if n > 0 {
				log.Debug().Int64("removed", n).Msg("expired sessions removed")
			}
		}
	}
}
