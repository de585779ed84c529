// Package settings implements the admin api of tenant and global settings.
package settings

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/OpticaApp/OpticaApp/internal/db/controller/setting"
	"github.com/OpticaApp/OpticaApp/internal/db/models"
	resolver "github.com/OpticaApp/OpticaApp/internal/settings"
	"github.com/OpticaApp/OpticaApp/internal/settings/value"
	"github.com/OpticaApp/OpticaApp/internal/web/handler"
)

const (
	// Path is the path of the settings routes.
	Path = "/settings"

	// ModulesPath is the path of the module routes.
	ModulesPath = "/modules"

	// CachePath is the path of the cache routes.
	CachePath = "/cache"

	// NoCacheQuery bypasses the cache on reads when set to true or 1.
	NoCacheQuery = "nocache"
)

// Service is the settings handler service.
type Service struct {
	handler.Service
	resolver   *resolver.Resolver
	repository *setting.Repository
	validator  *validator.Validate
}

// Item is a setting as listed by the api. Sensitive values are masked.
type Item struct {
	ID             uint64          `json:"id"`
	Key            string          `json:"key"`
	Scope          string          `json:"scope"`
	TenantID       string          `json:"tenantId"`
	Module         string          `json:"module"`
	Type           value.ValueType `json:"type"`
	Value          string          `json:"value"`
	DefaultValue   string          `json:"defaultValue,omitempty"`
	ValidationRule string          `json:"validationRule,omitempty"`
	Description    string          `json:"description,omitempty"`
	Sensitive      bool            `json:"sensitive"`
	Active         bool            `json:"active"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Resolved is the answer of a single setting read.
type Resolved struct {
	Key    string          `json:"key"`
	Tenant string          `json:"tenant"`
	Type   value.ValueType `json:"type"`
	Value  any             `json:"value"`
}

// PutRequest is the body of a setting write.
type PutRequest struct {
	Tenant      string `json:"tenant" validate:"max=64"`
	Value       any    `json:"value"`
	Type        string `json:"type" validate:"max=20"`
	Module      string `json:"module" validate:"max=50"`
	Description string `json:"description"`
	Sensitive   bool   `json:"sensitive"`
}

// PatchRequest changes the metadata of a stored setting. Nil fields are kept.
type PatchRequest struct {
	Module         *string `json:"module" validate:"omitempty,max=50"`
	Description    *string `json:"description"`
	ValidationRule *string `json:"validationRule" validate:"omitempty,max=500"`
	DefaultValue   *string `json:"defaultValue"`
	Sensitive      *bool   `json:"sensitive"`
}

// IDsRequest is the body of bulk edits.
type IDsRequest struct {
	IDs []uint64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}

// Init registers the settings routes on router.
func (s *Service) Init(router fiber.Router, deps handler.Deps) error {
	if router == nil || deps.Resolver == nil || deps.Repository == nil {
		return handler.ErrNilDeps
	}

	s.resolver = deps.Resolver
	s.repository = deps.Repository
	s.validator = validator.New()

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RootPath, s.List)
		r.Post("/activate", s.Activate)
		r.Post("/deactivate", s.Deactivate)
		r.Get("/:key", s.Get)
		r.Put("/:key", s.Put)
		r.Patch("/:key", s.Patch)
		r.Delete("/:key", s.Delete)
	})

	router.Get(ModulesPath+"/:module", s.Module)
	router.Post(CachePath+"/clear", s.ClearCache)

	return nil
}

// List returns the stored settings, optionally narrowed to a module and a scope.
func (s *Service) List(c *fiber.Ctx) error {
	filter := setting.Filter{Module: c.Query("module")}

	if tenant, ok := handler.Tenant(c); ok {
		filter.Tenant = &tenant
	}

	rows, err := s.repository.List(c.UserContext(), filter)
	if err != nil {
		return handler.Error(c, err)
	}

	items := make([]Item, len(rows))
	for i := range rows {
		items[i] = newItem(&rows[i])
	}

	return c.JSON(items)
}

// Get resolves one setting for the tenant, falling back to the global setting.
func (s *Service) Get(c *fiber.Ctx) error {
	key := c.Params("key")
	tenant, _ := handler.Tenant(c)

	var opts []resolver.GetOption
	if c.QueryBool(NoCacheQuery) {
		opts = append(opts, resolver.NoCache())
	}

	v, err := s.resolver.Get(c.UserContext(), key, tenant, nil, opts...)
	if err != nil {
		return handler.Error(c, err)
	}

	if v == nil {
		return handler.Error(c, setting.ErrSettingNotFound)
	}

	return c.JSON(Resolved{Key: key, Tenant: tenant, Type: v.Type(), Value: v.Any()})
}

// Put creates or updates the setting of the tenant given in the body.
func (s *Service) Put(c *fiber.Ctx) error {
	req := PutRequest{}
	if err := handler.Bind(c, s.validator, &req); err != nil {
		return handler.Error(c, err)
	}

	row, err := s.resolver.Set(c.UserContext(), resolver.SetParams{
		Key:         c.Params("key"),
		Tenant:      req.Tenant,
		Value:       req.Value,
		Type:        value.ValueType(req.Type),
		Module:      req.Module,
		Description: req.Description,
		Sensitive:   req.Sensitive,
	})
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(newItem(row))
}

// Patch changes the metadata of the setting of the tenant query parameter.
// The value itself is written with Put.
func (s *Service) Patch(c *fiber.Ctx) error {
	req := PatchRequest{}
	if err := handler.Bind(c, s.validator, &req); err != nil {
		return handler.Error(c, err)
	}

	tenant, _ := handler.Tenant(c)

	row, err := s.repository.FindAny(c.UserContext(), c.Params("key"), tenant)
	if err != nil {
		return handler.Error(c, err)
	}

	if req.Module != nil {
		row.Module = *req.Module
	}

	if req.Description != nil {
		row.Description = *req.Description
	}

	if req.ValidationRule != nil {
		row.ValidationRule = *req.ValidationRule
	}

	if req.DefaultValue != nil {
		row.DefaultValue = *req.DefaultValue
	}

	if req.Sensitive != nil {
		row.IsSensitive = *req.Sensitive
	}

	if err = s.repository.Save(c.UserContext(), row); err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(newItem(row))
}

// Delete removes the setting of exactly the tenant query parameter.
func (s *Service) Delete(c *fiber.Ctx) error {
	tenant, _ := handler.Tenant(c)

	deleted, err := s.resolver.Delete(c.UserContext(), c.Params("key"), tenant)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{"deleted": deleted})
}

// Activate marks the settings of the body active.
func (s *Service) Activate(c *fiber.Ctx) error {
	return s.setActive(c, true)
}

// Deactivate marks the settings of the body inactive.
func (s *Service) Deactivate(c *fiber.Ctx) error {
	return s.setActive(c, false)
}

func (s *Service) setActive(c *fiber.Ctx, active bool) error {
	req := IDsRequest{}
	if err := handler.Bind(c, s.validator, &req); err != nil {
		return handler.Error(c, err)
	}

	updated, err := s.repository.SetActive(c.UserContext(), req.IDs, active)
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Int64("updated", updated).Bool("active", active).Msg("settings activation changed")

	return c.JSON(fiber.Map{"updated": updated})
}

// Module returns all settings of a module as seen by the tenant.
func (s *Service) Module(c *fiber.Ctx) error {
	tenant, _ := handler.Tenant(c)

	values, err := s.resolver.ModuleSettings(c.UserContext(), c.Params("module"), tenant)
	if err != nil {
		return handler.Error(c, err)
	}

	out := make(map[string]any, len(values))
	for k, v := range values {
		if v == nil {
			out[k] = nil
			continue
		}

		out[k] = v.Any()
	}

	return c.JSON(out)
}

// ClearCache drops the cached settings of the tenant query parameter, or
// every cached setting when no tenant is given.
func (s *Service) ClearCache(c *fiber.Ctx) error {
	tenant, _ := handler.Tenant(c)

	if err := s.resolver.ClearCache(c.UserContext(), tenant); err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{"cleared": models.ScopeName(tenant)})
}

func newItem(s *models.Setting) Item {
	defaultValue := s.DefaultValue
	if s.IsSensitive && defaultValue != "" {
		defaultValue = models.MaskedValue
	}

	return Item{
		ID:             s.ID,
		Key:            s.Key,
		Scope:          models.ScopeName(s.TenantID),
		TenantID:       s.TenantID,
		Module:         s.Module,
		Type:           s.ValueType,
		Value:          s.DisplayValue(),
		DefaultValue:   defaultValue,
		ValidationRule: s.ValidationRule,
		Description:    s.Description,
		Sensitive:      s.IsSensitive,
		Active:         s.IsActive,
		UpdatedAt:      s.UpdatedAt,
	}
}
