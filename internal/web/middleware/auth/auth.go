// Package auth guards the admin api with a bearer token whose argon2id
// hash is kept in the configuration.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"strings"

	"github.com/alexedwards/argon2id"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	bearerPrefix = "Bearer "
	tokenBytes   = 32
)

var (
	// ErrMissingToken is returned to callers without a bearer token.
	ErrMissingToken = errors.New("missing bearer token")

	// ErrInvalidToken is returned to callers whose token does not match.
	ErrInvalidToken = errors.New("invalid bearer token")

	// ErrAPIDisabled is returned when no token hash is configured.
	ErrAPIDisabled = errors.New("admin api is disabled, no token hash configured")
)

// Generate returns a new random token and its argon2id hash.
func Generate() (token, hash string, err error) {
	raw := make([]byte, tokenBytes)
	if _, err = io.ReadFull(rand.Reader, raw); err != nil {
		return "", "", errors.Wrap(err, "failed to read random token")
	}

	token = base64.RawURLEncoding.EncodeToString(raw)

	if hash, err = argon2id.CreateHash(token, argon2id.DefaultParams); err != nil {
		return "", "", errors.Wrap(err, "failed to hash token")
	}

	return token, hash, nil
}

// New returns a middleware that accepts requests whose bearer token matches hash.
func New(hash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if hash == "" {
			return reject(c, fiber.StatusForbidden, ErrAPIDisabled)
		}

		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return reject(c, fiber.StatusUnauthorized, ErrMissingToken)
		}

		match, err := argon2id.ComparePasswordAndHash(strings.TrimPrefix(header, bearerPrefix), hash)
		if err != nil {
			log.Error().Err(err).Msg("can't compare admin token, check Webserver.AdminTokenHash")

			return reject(c, fiber.StatusInternalServerError, ErrInvalidToken)
		}

		if !match {
			log.Warn().Str("IP", c.IP()).Str("path", c.Path()).Msg("admin api token rejected")

			return reject(c, fiber.StatusUnauthorized, ErrInvalidToken)
		}

		return c.Next()
	}
}

func reject(c *fiber.Ctx, status int, err error) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
