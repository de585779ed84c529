package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	tok, hash, err := Generate()
	require.NoError(t, err)
	assert.Len(t, tok, 43)

	match, err := argon2id.ComparePasswordAndHash(tok, hash)
	require.NoError(t, err)
	assert.True(t, match)

	other, _, err := Generate()
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestNew(t *testing.T) {
	tok, hash, err := Generate()
	require.NoError(t, err)

	testCases := []struct {
		name           string
		hash           string
		header         string
		expectedStatus int
	}{
		{name: "valid token", hash: hash, header: "Bearer " + tok, expectedStatus: fiber.StatusOK},
		{name: "wrong token", hash: hash, header: "Bearer nope", expectedStatus: fiber.StatusUnauthorized},
		{name: "no header", hash: hash, expectedStatus: fiber.StatusUnauthorized},
		{name: "basic auth", hash: hash, header: "Basic YWRtaW46YWRtaW4=", expectedStatus: fiber.StatusUnauthorized},
		{name: "api disabled", header: "Bearer " + tok, expectedStatus: fiber.StatusForbidden},
		{name: "broken hash", hash: "not-a-hash", header: "Bearer " + tok, expectedStatus: fiber.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(New(tc.hash))
			app.Get("/", func(c *fiber.Ctx) error {
				return c.SendString("ok")
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)

			defer func() {
				_ = resp.Body.Close()
			}()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
		})
	}
}
