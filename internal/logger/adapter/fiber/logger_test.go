package fiber_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpticaApp/OpticaApp/internal/logger"
	adapter "github.com/OpticaApp/OpticaApp/internal/logger/adapter/fiber"
)

// accessLine is the json written for every request.
type accessLine struct {
	IP           string  `json:"IP"`
	Status       int     `json:"status"`
	XPerformance float64 `json:"X-Performance"`
	URI          string  `json:"URI"`
	Method       string  `json:"method"`
	Host         string  `json:"host"`
	Tenant       string  `json:"tenant"`
	Error        string  `json:"error"`
}

var consoleLog = logger.Log{ //nolint:gochecknoglobals
	EnableAccessLogToConsole: true,
	Console:                  logger.Console{Enabled: true},
}

// serve runs one request through an app using the access log and returns
// the response and whatever was logged.
func serve(t *testing.T, cfg adapter.Config, method, target string) (*fiberResponse, string) {
	t.Helper()

	var out bytes.Buffer

	cfg.Output = &out

	app := fiber.New(fiber.Config{CaseSensitive: true, Immutable: true})
	app.Use(adapter.New(cfg))

	app.Get("/checkalive", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/api/v1/settings/:key", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"key": c.Params("key")})
	})
	app.Put("/api/v1/settings/:key", func(_ *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "invalid value")
	})

	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	return &fiberResponse{
		status:       resp.StatusCode,
		cacheControl: resp.Header.Get(fiber.HeaderCacheControl),
		performance:  resp.Header.Get("X-Performance"),
	}, out.String()
}

type fiberResponse struct {
	status       int
	cacheControl string
	performance  string
}

func TestNew(t *testing.T) {
	testCases := []struct {
		name           string
		config         adapter.Config
		method         string
		target         string
		expectedStatus int
		expectedLine   *accessLine
	}{
		{
			name:           "console disabled",
			target:         "/api/v1/settings/store.currency",
			expectedStatus: fiber.StatusOK,
		},
		{
			name:           "console without access log",
			config:         adapter.Config{Config: logger.Log{Console: logger.Console{Enabled: true}}},
			target:         "/api/v1/settings/store.currency",
			expectedStatus: fiber.StatusOK,
		},
		{
			name:           "global read",
			config:         adapter.Config{Config: consoleLog},
			target:         "/api/v1/settings/store.currency",
			expectedStatus: fiber.StatusOK,
			expectedLine: &accessLine{
				IP:     "0.0.0.0",
				Status: fiber.StatusOK,
				URI:    "/api/v1/settings/store.currency",
				Method: fiber.MethodGet,
				Host:   "example.com",
			},
		},
		{
			name:           "tenant read",
			config:         adapter.Config{Config: consoleLog},
			target:         "/api/v1/settings/store.currency?tenant=optica-centro",
			expectedStatus: fiber.StatusOK,
			expectedLine: &accessLine{
				IP:     "0.0.0.0",
				Status: fiber.StatusOK,
				URI:    "/api/v1/settings/store.currency?tenant=optica-centro",
				Method: fiber.MethodGet,
				Host:   "example.com",
				Tenant: "optica-centro",
			},
		},
		{
			name:           "custom tenant query",
			config:         adapter.Config{Config: consoleLog, TenantQuery: "org"},
			target:         "/api/v1/settings/store.currency?org=optica-norte&tenant=ignored",
			expectedStatus: fiber.StatusOK,
			expectedLine: &accessLine{
				IP:     "0.0.0.0",
				Status: fiber.StatusOK,
				URI:    "/api/v1/settings/store.currency?org=optica-norte&tenant=ignored",
				Method: fiber.MethodGet,
				Host:   "example.com",
				Tenant: "optica-norte",
			},
		},
		{
			name:           "unknown route",
			config:         adapter.Config{Config: consoleLog},
			target:         "/api/v2",
			expectedStatus: fiber.StatusNotFound,
			expectedLine: &accessLine{
				IP:     "0.0.0.0",
				Status: fiber.StatusNotFound,
				URI:    "/api/v2",
				Method: fiber.MethodGet,
				Host:   "example.com",
				Error:  "Cannot GET",
			},
		},
		{
			name:           "handler error",
			config:         adapter.Config{Config: consoleLog},
			method:         fiber.MethodPut,
			target:         "/api/v1/settings/billing.tax_rate",
			expectedStatus: fiber.StatusUnprocessableEntity,
			expectedLine: &accessLine{
				IP:     "0.0.0.0",
				Status: fiber.StatusUnprocessableEntity,
				URI:    "/api/v1/settings/billing.tax_rate",
				Method: fiber.MethodPut,
				Host:   "example.com",
				Error:  "invalid value",
			},
		},
		{
			name: "check alive is skipped",
			config: adapter.Config{
				Config: logger.Log{
					EnableAccessLogToConsole: true,
					DisableCheckAlive:        true,
					Console:                  logger.Console{Enabled: true},
				},
				CheckAliveURI: "/checkalive",
			},
			target:         "/checkalive",
			expectedStatus: fiber.StatusOK,
		},
		{
			name:           "check alive is logged",
			config:         adapter.Config{Config: consoleLog, CheckAliveURI: "/checkalive"},
			target:         "/checkalive",
			expectedStatus: fiber.StatusOK,
			expectedLine: &accessLine{
				IP:     "0.0.0.0",
				Status: fiber.StatusOK,
				URI:    "/checkalive",
				Method: fiber.MethodGet,
				Host:   "example.com",
			},
		},
		{
			name: "next skips the log",
			config: adapter.Config{
				Config: consoleLog,
				Next:   func(*fiber.Ctx) bool { return true },
			},
			target:         "/api/v1/settings/store.currency",
			expectedStatus: fiber.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			method := tc.method
			if method == "" {
				method = fiber.MethodGet
			}

			resp, out := serve(t, tc.config, method, tc.target)
			assert.Equal(t, tc.expectedStatus, resp.status)

			if tc.expectedLine == nil {
				assert.Empty(t, out)
				return
			}

			var line accessLine
			require.NoError(t, json.Unmarshal([]byte(out), &line), out)

			assert.Equal(t, tc.expectedLine.IP, line.IP)
			assert.Equal(t, tc.expectedLine.Status, line.Status)
			assert.Equal(t, tc.expectedLine.URI, line.URI)
			assert.Equal(t, tc.expectedLine.Method, line.Method)
			assert.Equal(t, tc.expectedLine.Host, line.Host)
			assert.Equal(t, tc.expectedLine.Tenant, line.Tenant)

			if tc.expectedLine.Error == "" {
				assert.Empty(t, line.Error)
			} else {
				assert.Contains(t, line.Error, tc.expectedLine.Error)
			}

			assert.GreaterOrEqual(t, line.XPerformance, 0.0)
		})
	}
}

func TestNew_ErrorHeaders(t *testing.T) {
	resp, _ := serve(t, adapter.Config{}, fiber.MethodPut, "/api/v1/settings/billing.tax_rate")
	assert.Equal(t, "max-age=0", resp.cacheControl)
	assert.NotEmpty(t, resp.performance)

	resp, _ = serve(t, adapter.Config{CacheControlError: "no-store"}, fiber.MethodPut, "/api/v1/settings/billing.tax_rate")
	assert.Equal(t, "no-store", resp.cacheControl)

	resp, _ = serve(t, adapter.Config{}, fiber.MethodGet, "/api/v1/settings/store.currency")
	assert.Empty(t, resp.cacheControl)
}

func TestNew_File(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")

	_, out := serve(t, adapter.Config{
		Config: logger.Log{
			File: logger.LogFile{
				Enabled: true,
				Path:    dir,
				Access:  logger.RollingFile{Name: "access.log", MaxSize: 1},
			},
		},
	}, fiber.MethodGet, "/api/v1/settings/store.currency?tenant=optica-centro")
	assert.Empty(t, out, "console stays quiet")

	raw, err := os.ReadFile(filepath.Join(dir, "access.log"))
	require.NoError(t, err)

	var line accessLine
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(raw), &line))
	assert.Equal(t, "optica-centro", line.Tenant)
	assert.Equal(t, fiber.StatusOK, line.Status)
}
