package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/OpticaApp/OpticaApp/internal/db/models"
	"github.com/OpticaApp/OpticaApp/internal/integration"
	"github.com/OpticaApp/OpticaApp/internal/secret"
	"github.com/OpticaApp/OpticaApp/internal/web/handler"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.IntegrationConfig{}), "failed to migrate test database")

	return db
}

func setupApp(t *testing.T) (*fiber.App, *integration.Service) {
	t.Helper()

	key, err := secret.GenerateKey()
	require.NoError(t, err)

	box, err := secret.New(key)
	require.NoError(t, err)

	svc := integration.New(setupTestDB(t), box)

	app := fiber.New()
	s := &Service{}
	require.NoError(t, s.Init(app.Group(handler.APIPath), handler.Deps{Integrations: svc}))

	return app, svc
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, out
}

type viewJSON struct {
	ID                uint64         `json:"id"`
	Type              string         `json:"type"`
	Name              string         `json:"name"`
	TenantID          string         `json:"tenantId"`
	Config            map[string]any `json:"config"`
	IsActive          bool           `json:"isActive"`
	IsTestMode        bool           `json:"isTestMode"`
	IsVerified        bool           `json:"isVerified"`
	VerificationError string         `json:"verificationError"`
	HasCredentials    bool           `json:"hasCredentials"`
}

func decodeView(t *testing.T, raw []byte) viewJSON {
	t.Helper()

	var v viewJSON
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))

	return v
}

func TestCreate(t *testing.T) {
	app, _ := setupApp(t)

	testCases := []struct {
		name           string
		body           CreateRequest
		expectedStatus int
	}{
		{
			name: "created",
			body: CreateRequest{
				Type:        "email",
				Name:        "sendgrid",
				Tenant:      "tenant-a",
				Config:      map[string]any{"from": "noreply@optica.co"},
				Credentials: map[string]any{"apiKey": "SG.secret"},
			},
			expectedStatus: fiber.StatusCreated,
		},
		{
			name:           "duplicate",
			body:           CreateRequest{Type: "email", Name: "sendgrid", Tenant: "tenant-a"},
			expectedStatus: fiber.StatusConflict,
		},
		{
			name:           "unknown type",
			body:           CreateRequest{Type: "fax", Name: "main", Tenant: "tenant-a"},
			expectedStatus: fiber.StatusBadRequest,
		},
		{
			name:           "missing tenant",
			body:           CreateRequest{Type: "sms", Name: "twilio"},
			expectedStatus: fiber.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := doRequest(t, app, http.MethodPost, "/api/v1/integrations", tc.body)
			require.Equal(t, tc.expectedStatus, status, string(body))

			if status != fiber.StatusCreated {
				return
			}

			v := decodeView(t, body)
			assert.NotZero(t, v.ID)
			assert.True(t, v.IsActive)
			assert.True(t, v.IsTestMode)
			assert.True(t, v.HasCredentials)
			assert.NotContains(t, string(body), "SG.secret")
		})
	}
}

func TestListGetUpdate(t *testing.T) {
	app, _ := setupApp(t)

	for _, body := range []CreateRequest{
		{Type: "email", Name: "smtp", Tenant: "tenant-a"},
		{Type: "whatsapp", Name: "gateway", Tenant: "tenant-a"},
		{Type: "email", Name: "smtp", Tenant: "tenant-b"},
	} {
		status, _ := doRequest(t, app, http.MethodPost, "/api/v1/integrations", body)
		require.Equal(t, fiber.StatusCreated, status)
	}

	status, _ := doRequest(t, app, http.MethodGet, "/api/v1/integrations", nil)
	assert.Equal(t, fiber.StatusBadRequest, status, "a tenant is required")

	status, body := doRequest(t, app, http.MethodGet, "/api/v1/integrations?tenant=tenant-a", nil)
	require.Equal(t, fiber.StatusOK, status)

	var views []viewJSON
	require.NoError(t, json.Unmarshal(body, &views))
	require.Len(t, views, 2)

	_, body = doRequest(t, app, http.MethodGet, "/api/v1/integrations?tenant=tenant-a&type=whatsapp", nil)
	require.NoError(t, json.Unmarshal(body, &views))
	require.Len(t, views, 1)

	id := views[0].ID
	name := "gateway-prod"
	live := false

	status, body = doRequest(t, app, http.MethodPatch, "/api/v1/integrations/"+itoa(id), UpdateRequest{
		Name:     &name,
		Config:   map[string]any{"phone": "+573001234567"},
		TestMode: &live,
	})
	require.Equal(t, fiber.StatusOK, status, string(body))

	v := decodeView(t, body)
	assert.Equal(t, "gateway-prod", v.Name)
	assert.False(t, v.IsTestMode)

	status, body = doRequest(t, app, http.MethodGet, "/api/v1/integrations/"+itoa(id), nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "+573001234567", decodeView(t, body).Config["phone"])

	status, _ = doRequest(t, app, http.MethodGet, "/api/v1/integrations/999", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = doRequest(t, app, http.MethodGet, "/api/v1/integrations/abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestVerify(t *testing.T) {
	app, svc := setupApp(t)

	svc.RegisterVerifier(models.IntegrationPayment, integration.VerifierFunc(
		func(_ context.Context, _ *models.IntegrationConfig, creds map[string]any) error {
			if creds["privateKey"] != "prv_prod" {
				return errors.New("invalid private key") //nolint:goerr113
			}
			return nil
		}))

	status, body := doRequest(t, app, http.MethodPost, "/api/v1/integrations", CreateRequest{
		Type:        "payment",
		Name:        "wompi",
		Tenant:      "tenant-a",
		Credentials: map[string]any{"privateKey": "prv_test"},
	})
	require.Equal(t, fiber.StatusCreated, status)

	id := decodeView(t, body).ID

	status, body = doRequest(t, app, http.MethodPost, "/api/v1/integrations/"+itoa(id)+"/verify", nil)
	require.Equal(t, fiber.StatusOK, status)

	v := decodeView(t, body)
	assert.False(t, v.IsVerified)
	assert.Equal(t, "invalid private key", v.VerificationError)

	status, _ = doRequest(t, app, http.MethodPatch, "/api/v1/integrations/"+itoa(id), UpdateRequest{
		Credentials: map[string]any{"privateKey": "prv_prod"},
	})
	require.Equal(t, fiber.StatusOK, status)

	_, body = doRequest(t, app, http.MethodPost, "/api/v1/integrations/"+itoa(id)+"/verify", nil)
	v = decodeView(t, body)
	assert.True(t, v.IsVerified)
	assert.Empty(t, v.VerificationError)
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}
