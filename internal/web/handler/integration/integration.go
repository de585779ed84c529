// Package integration implements the admin api of integration configurations.
package integration

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/OpticaApp/OpticaApp/internal/db/models"
	"github.com/OpticaApp/OpticaApp/internal/integration"
	"github.com/OpticaApp/OpticaApp/internal/web/handler"
)

// Path is the path of the integration routes.
const Path = "/integrations"

// Service is the integration handler service.
type Service struct {
	handler.Service
	integrations *integration.Service
	validator    *validator.Validate
}

// View is an integration as returned by the api. Credentials never leave
// the service, only whether some are stored.
type View struct {
	*models.IntegrationConfig
	HasCredentials bool `json:"hasCredentials"`
}

// CreateRequest is the body of an integration create.
type CreateRequest struct {
	Type        string         `json:"type" validate:"required,max=50"`
	Name        string         `json:"name" validate:"required,max=100"`
	Tenant      string         `json:"tenant" validate:"required,max=64"`
	Config      map[string]any `json:"config"`
	Credentials map[string]any `json:"credentials"`
	Metadata    map[string]any `json:"metadata"`
	TestMode    *bool          `json:"testMode"`
}

// UpdateRequest is the body of an integration update. Missing fields are kept.
type UpdateRequest struct {
	Name        *string        `json:"name" validate:"omitempty,max=100"`
	Config      map[string]any `json:"config"`
	Credentials map[string]any `json:"credentials"`
	Metadata    map[string]any `json:"metadata"`
	Active      *bool          `json:"active"`
	TestMode    *bool          `json:"testMode"`
}

// Init registers the integration routes on router.
func (s *Service) Init(router fiber.Router, deps handler.Deps) error {
	if router == nil || deps.Integrations == nil {
		return handler.ErrNilDeps
	}

	s.integrations = deps.Integrations
	s.validator = validator.New()

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RootPath, s.List)
		r.Post(handler.RootPath, s.Create)
		r.Get("/:id", s.Get)
		r.Patch("/:id", s.Update)
		r.Post("/:id/verify", s.Verify)
	})

	return nil
}

// List returns the active integrations of the tenant, optionally of one type.
func (s *Service) List(c *fiber.Ctx) error {
	tenant, _ := handler.Tenant(c)
	if tenant == "" {
		return handler.Error(c, integration.ErrTenantEmpty)
	}

	configs, err := s.integrations.ListActive(c.UserContext(), tenant, models.IntegrationType(c.Query("type")))
	if err != nil {
		return handler.Error(c, err)
	}

	views := make([]View, len(configs))
	for i := range configs {
		views[i] = newView(&configs[i])
	}

	return c.JSON(views)
}

// Get returns one integration.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return handler.Error(c, err)
	}

	cfg, err := s.integrations.GetByID(c.UserContext(), id)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(newView(cfg))
}

// Create stores a new integration.
func (s *Service) Create(c *fiber.Ctx) error {
	req := CreateRequest{}
	if err := handler.Bind(c, s.validator, &req); err != nil {
		return handler.Error(c, err)
	}

	cfg, err := s.integrations.Create(c.UserContext(), integration.CreateParams{
		Type:        models.IntegrationType(req.Type),
		Name:        req.Name,
		Tenant:      req.Tenant,
		Config:      req.Config,
		Credentials: req.Credentials,
		Metadata:    req.Metadata,
		TestMode:    req.TestMode,
	})
	if err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(newView(cfg))
}

// Update changes an integration.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return handler.Error(c, err)
	}

	req := UpdateRequest{}
	if err = handler.Bind(c, s.validator, &req); err != nil {
		return handler.Error(c, err)
	}

	cfg, err := s.integrations.Update(c.UserContext(), id, integration.UpdateParams{
		Name:        req.Name,
		Config:      req.Config,
		Credentials: req.Credentials,
		Metadata:    req.Metadata,
		IsActive:    req.Active,
		IsTestMode:  req.TestMode,
	})
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(newView(cfg))
}

// Verify runs the connectivity check of an integration and stores its outcome.
func (s *Service) Verify(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return handler.Error(c, err)
	}

	ok, err := s.integrations.Verify(c.UserContext(), id)
	if err != nil {
		return handler.Error(c, err)
	}

	cfg, err := s.integrations.GetByID(c.UserContext(), id)
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Uint64("id", id).Bool("verified", ok).Msg("integration verified")

	return c.JSON(newView(cfg))
}

func pathID(c *fiber.Ctx) (uint64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, handler.ErrInvalidID
	}

	return uint64(id), nil
}

func newView(cfg *models.IntegrationConfig) View {
	return View{IntegrationConfig: cfg, HasCredentials: len(cfg.Credentials) > 0}
}
