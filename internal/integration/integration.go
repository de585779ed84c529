// Package integration manages the per tenant configuration of external
// services such as email providers, payment processors or the DIAN.
package integration

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/OpticaApp/OpticaApp/internal/db/models"
	"github.com/OpticaApp/OpticaApp/internal/secret"
)

var (
	// ErrIntegrationNotFound is returned when no integration matches.
	ErrIntegrationNotFound = errors.New("integration not found")
	// ErrInvalidType is returned for unknown integration types.
	ErrInvalidType = errors.New("unknown integration type")
	// ErrNameEmpty is returned when an integration is created without a name.
	ErrNameEmpty = errors.New("integration name cannot be empty")
	// ErrTenantEmpty is returned when an integration is created without a tenant.
	ErrTenantEmpty = errors.New("integration tenant cannot be empty")
	// ErrDuplicateIntegration is returned when type, name and tenant are already taken.
	ErrDuplicateIntegration = errors.New("integration already exists")
	// ErrNoSecretKey is returned when credentials are used without a configured key.
	ErrNoSecretKey = errors.New("no credentials key configured")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Verifier checks that an integration can reach its service.
type Verifier interface {
	Verify(ctx context.Context, cfg *models.IntegrationConfig, credentials map[string]any) error
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, cfg *models.IntegrationConfig, credentials map[string]any) error

// Verify implements Verifier.
func (f VerifierFunc) Verify(ctx context.Context, cfg *models.IntegrationConfig, credentials map[string]any) error {
	return f(ctx, cfg, credentials)
}

// acceptAll is used for types without a registered verifier.
var acceptAll = VerifierFunc(func(context.Context, *models.IntegrationConfig, map[string]any) error { //nolint:gochecknoglobals
	return nil
})

// Service reads and writes integration configs.
type Service struct {
	db  *gorm.DB
	box *secret.Box
	now func() time.Time

	mu        sync.RWMutex
	verifiers map[models.IntegrationType]Verifier
}

// New returns a service. box may be nil when no credentials are stored.
func New(db *gorm.DB, box *secret.Box) *Service {
	return &Service{
		db:        db,
		box:       box,
		now:       time.Now,
		verifiers: make(map[models.IntegrationType]Verifier),
	}
}

// RegisterVerifier sets the verifier for an integration type.
func (s *Service) RegisterVerifier(t models.IntegrationType, v Verifier) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.verifiers[t] = v
}

func (s *Service) verifier(t models.IntegrationType) Verifier {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.verifiers[t]; ok {
		return v
	}

	return acceptAll
}

// Get returns the active integration of type t for tenant. When name is
// empty the first matching integration is returned.
func (s *Service) Get(ctx context.Context, t models.IntegrationType, tenant, name string) (*models.IntegrationConfig, error) {
	if s.db == nil {
		return nil, ErrDBNil
	}

	q := s.db.WithContext(ctx).
		Where("type = ? AND tenant_id = ? AND is_active = ?", t, tenant, true).
		Order("id")
	if name != "" {
		q = q.Where("name = ?", name)
	}

	var cfg models.IntegrationConfig
	if err := q.Take(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIntegrationNotFound
		}

		return nil, errors.Wrap(err, "failed to get integration")
	}

	return &cfg, nil
}

// GetByID returns an integration by ID, active or not.
func (s *Service) GetByID(ctx context.Context, id uint64) (*models.IntegrationConfig, error) {
	if s.db == nil {
		return nil, ErrDBNil
	}

	var cfg models.IntegrationConfig
	if err := s.db.WithContext(ctx).First(&cfg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIntegrationNotFound
		}

		return nil, errors.Wrap(err, "failed to get integration")
	}

	return &cfg, nil
}

// ListActive returns the active integrations of tenant. An empty t lists every type.
func (s *Service) ListActive(ctx context.Context, tenant string, t models.IntegrationType) ([]models.IntegrationConfig, error) {
	if s.db == nil {
		return nil, ErrDBNil
	}

	q := s.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenant, true).
		Order("type, name")
	if t != "" {
		q = q.Where("type = ?", t)
	}

	configs := []models.IntegrationConfig{}
	if err := q.Find(&configs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list integrations")
	}

	return configs, nil
}

// CreateParams describes a new integration.
type CreateParams struct {
	Type        models.IntegrationType
	Name        string
	Tenant      string
	Config      map[string]any
	Credentials map[string]any
	Metadata    map[string]any
	// TestMode defaults to true.
	TestMode *bool
}

// Create stores a new active integration.
func (s *Service) Create(ctx context.Context, p CreateParams) (*models.IntegrationConfig, error) {
	if s.db == nil {
		return nil, ErrDBNil
	}

	if !p.Type.Valid() {
		return nil, ErrInvalidType
	}

	if p.Name == "" {
		return nil, ErrNameEmpty
	}

	if p.Tenant == "" {
		return nil, ErrTenantEmpty
	}

	sealed, err := s.seal(p.Credentials)
	if err != nil {
		return nil, err
	}

	cfg := models.IntegrationConfig{
		Type:        p.Type,
		Name:        p.Name,
		TenantID:    p.Tenant,
		Config:      orEmpty(p.Config),
		Credentials: sealed,
		Metadata:    orEmpty(p.Metadata),
		IsActive:    true,
		IsTestMode:  p.TestMode == nil || *p.TestMode,
	}

	if err = s.db.WithContext(ctx).Create(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateIntegration
		}

		return nil, errors.Wrap(err, "failed to create integration")
	}

	log.Info().
		Str("type", string(cfg.Type)).
		Str("name", cfg.Name).
		Str("scope", models.ScopeName(cfg.TenantID)).
		Msg("integration created")

	return &cfg, nil
}

// UpdateParams lists the fields to change. Nil fields are left untouched.
type UpdateParams struct {
	Name        *string
	Config      map[string]any
	Credentials map[string]any
	Metadata    map[string]any
	IsActive    *bool
	IsTestMode  *bool
}

// Update changes an integration.
func (s *Service) Update(ctx context.Context, id uint64, p UpdateParams) (*models.IntegrationConfig, error) {
	cfg, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		if *p.Name == "" {
			return nil, ErrNameEmpty
		}

		cfg.Name = *p.Name
	}

	if p.Config != nil {
		cfg.Config = p.Config
	}

	if p.Metadata != nil {
		cfg.Metadata = p.Metadata
	}

	if p.Credentials != nil {
		if cfg.Credentials, err = s.seal(p.Credentials); err != nil {
			return nil, err
		}
	}

	if p.IsActive != nil {
		cfg.IsActive = *p.IsActive
	}

	if p.IsTestMode != nil {
		cfg.IsTestMode = *p.IsTestMode
	}

	if err = s.db.WithContext(ctx).Save(cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateIntegration
		}

		return nil, errors.Wrap(err, "failed to update integration")
	}

	return cfg, nil
}

// Credentials opens the sealed credentials of cfg.
func (s *Service) Credentials(cfg *models.IntegrationConfig) (map[string]any, error) {
	creds := map[string]any{}
	if len(cfg.Credentials) == 0 {
		return creds, nil
	}

	if s.box == nil {
		return nil, ErrNoSecretKey
	}

	plain, err := s.box.Open(cfg.Credentials)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open credentials of integration %d", cfg.ID)
	}

	if err = json.Unmarshal(plain, &creds); err != nil {
		return nil, errors.Wrap(err, "failed to decode credentials")
	}

	return creds, nil
}

// Verify runs the verifier of the integration type and records the outcome.
// A failed verification is not an error: it is reported as false and its
// message is stored on the integration.
func (s *Service) Verify(ctx context.Context, id uint64) (bool, error) {
	cfg, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	verr := s.verify(ctx, cfg)

	now := s.now().UTC()
	cfg.LastVerifiedAt = &now
	cfg.IsVerified = verr == nil
	cfg.VerificationError = ""

	if verr != nil {
		cfg.VerificationError = verr.Error()
		log.Warn().Err(verr).Uint64("id", cfg.ID).Str("type", string(cfg.Type)).Msg("integration verification failed")
	}

	if err = s.db.WithContext(ctx).Model(cfg).
		Select("is_verified", "verification_error", "last_verified_at").
		Updates(cfg).Error; err != nil {
		return false, errors.Wrap(err, "failed to store verification result")
	}

	return cfg.IsVerified, nil
}

func (s *Service) verify(ctx context.Context, cfg *models.IntegrationConfig) error {
	creds, err := s.Credentials(cfg)
	if err != nil {
		return err
	}

	return s.verifier(cfg.Type).Verify(ctx, cfg, creds) //nolint:wrapcheck
}

func (s *Service) seal(credentials map[string]any) ([]byte, error) {
	if len(credentials) == 0 {
		return nil, nil
	}

	if s.box == nil {
		return nil, ErrNoSecretKey
	}

	plain, err := json.Marshal(credentials)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode credentials")
	}

	return s.box.Seal(plain) //nolint:wrapcheck
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}

	return m
}
