// Package web serves the JSON admin api of the settings service.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/OpticaApp/OpticaApp/internal/config"
	accesslog "github.com/OpticaApp/OpticaApp/internal/logger/adapter/fiber"
	"github.com/OpticaApp/OpticaApp/internal/web/handler"
	"github.com/OpticaApp/OpticaApp/internal/web/handler/integration"
	"github.com/OpticaApp/OpticaApp/internal/web/handler/settings"
	"github.com/OpticaApp/OpticaApp/internal/web/middleware/auth"
)

const (
	// CheckAlivePath answers 200 while the service accepts traffic and 503 while it shuts down.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"
)

// ErrNilConfig is returned by New without a config.
var ErrNilConfig = errors.New("config cannot be nil")

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start listens on the configured port until the app is shut down.
func (s *Service) Start() error {
	var doneFiber = make(chan error, 1)

	go func() {
		err := s.App.Listen(":" + strconv.Itoa(s.cfg.Webserver.Port))
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("fiber listen error")
		}

		doneFiber <- err
	}()

	return <-doneFiber // wait for fiber to stop
}

// WaitShutdown blocks until SIGINT or SIGTERM and shuts the app down.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown stops the app. Unless fast shut down is set, /checkalive fails
// for Webserver.ShutDownTime seconds first so load balancers drain the instance.
func (s *Service) Shutdown() {
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether /checkalive answers 200.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// New creates the web service and registers all routes.
func New(cfg *config.Config, deps handler.Deps) (*Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize:        8192, //nolint:mnd
			AppName:               cfg.Title,
			CaseSensitive:         true,
			Prefork:               false,
			Immutable:             true,
			DisableStartupMessage: !cfg.DevMode,
		},
	)

	service := &Service{
		App:          app,
		cfg:          cfg,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group(handler.APIPath, auth.New(cfg.Webserver.AdminTokenHash))

	handlers := []handler.Service{
		&settings.Service{},
		&integration.Service{},
	}

	for _, h := range handlers {
		if err := h.Init(api, deps); err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	return service, nil
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}
