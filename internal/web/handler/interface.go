package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/OpticaApp/OpticaApp/internal/db/controller/setting"
	"github.com/OpticaApp/OpticaApp/internal/integration"
	"github.com/OpticaApp/OpticaApp/internal/settings"
)

// Deps are the services the handlers work on.
type Deps struct {
	Resolver     *settings.Resolver
	Repository   *setting.Repository
	Integrations *integration.Service
}

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, deps Deps) error
}
