package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/OpticaApp/OpticaApp/internal/db/controller/setting"
	"github.com/OpticaApp/OpticaApp/internal/integration"
	"github.com/OpticaApp/OpticaApp/internal/settings"
	"github.com/OpticaApp/OpticaApp/internal/settings/value"
)

var (
	// ErrNilDeps is returned by Init when the router or a dependency is nil.
	ErrNilDeps = errors.New(ErrNilDepsFatalLogMsg)

	// ErrInvalidBody is returned when a request body can not be parsed.
	ErrInvalidBody = errors.New("invalid request body")

	// ErrInvalidID is returned when a path id is not a positive number.
	ErrInvalidID = errors.New("invalid id")
)

// BindError lists the fields of a request that failed validation.
type BindError struct {
	Fields []string
}

func (e *BindError) Error() string {
	return "invalid request: " + strings.Join(e.Fields, ", ")
}

// Status maps err to a http status code.
func Status(err error) int {
	var bindErr *BindError

	switch {
	case errors.As(err, &bindErr),
		errors.Is(err, ErrInvalidBody),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, settings.ErrKeyEmpty),
		errors.Is(err, integration.ErrInvalidType),
		errors.Is(err, integration.ErrNameEmpty),
		errors.Is(err, integration.ErrTenantEmpty):
		return fiber.StatusBadRequest
	case errors.Is(err, setting.ErrSettingNotFound),
		errors.Is(err, integration.ErrIntegrationNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, settings.ErrDuplicateKey),
		errors.Is(err, integration.ErrDuplicateIntegration):
		return fiber.StatusConflict
	case errors.Is(err, value.ErrValidation),
		errors.Is(err, value.ErrTypeMismatch):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, integration.ErrNoSecretKey):
		return fiber.StatusServiceUnavailable
	default:
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return fiberErr.Code
		}

		return fiber.StatusInternalServerError
	}
}

// Error writes err as json with the status Status picks for it.
// Messages of internal errors are logged, not returned.
func Error(c *fiber.Ctx, err error) error {
	status := Status(err)

	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")

		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}

	body := fiber.Map{"error": err.Error()}

	var validationErr *value.ValidationError
	if errors.As(err, &validationErr) {
		body["type"] = validationErr.Type
		if validationErr.Rule != "" {
			body["rule"] = validationErr.Rule
		}
	}

	var mismatchErr *value.TypeMismatchError
	if errors.As(err, &mismatchErr) {
		body["type"] = mismatchErr.Type
	}

	var bindErr *BindError
	if errors.As(err, &bindErr) {
		body["fields"] = bindErr.Fields
	}

	return c.Status(status).JSON(body)
}

// Bind parses the json body of c into out and validates it.
func Bind(c *fiber.Ctx, v *validator.Validate, out any) error {
	if err := c.BodyParser(out); err != nil {
		return ErrInvalidBody
	}

	if err := v.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err //nolint:wrapcheck
		}

		fields := make([]string, len(validationErrors))
		for i, ve := range validationErrors {
			fields[i] = "Field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
		}

		return &BindError{Fields: fields}
	}

	return nil
}

// Tenant returns the tenant query parameter and whether it was sent.
func Tenant(c *fiber.Ctx) (string, bool) {
	return c.Query(TenantQuery), c.Context().QueryArgs().Has(TenantQuery)
}
