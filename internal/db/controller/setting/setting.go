// Package setting provides storage for application settings.
//
// Every write goes through Repository.commit, which runs the change in a
// transaction and evicts the cache entry of every touched (key, tenant)
// pair once the transaction committed. Code that changes settings must use
// the repository so the resolver cache can not serve stale values.
package setting

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/OpticaApp/OpticaApp/internal/cache"
	"github.com/OpticaApp/OpticaApp/internal/db/models"
)

const (
	keyTenantQueryPattern = "key = ? AND tenant_id = ?"
	activeQueryPattern    = "is_active = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when attempting to use a setting with an empty key.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrDuplicateKey is returned when a write collides with an existing (key, tenant) pair.
	// Callers should retry the write as an update.
	ErrDuplicateKey = errors.New("setting already exists for this scope")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Filter narrows List results.
type Filter struct {
	// Module restricts the result to one module when not empty.
	Module string
	// Tenant restricts the result to one scope when not nil. A pointer to an
	// empty string selects global settings.
	Tenant *string
	// ActiveOnly hides inactive settings.
	ActiveOnly bool
}

// Repository reads and writes settings and keeps the cache consistent with them.
type Repository struct {
	db    *gorm.DB
	cache cache.Cache
}

// New returns a repository. A nil cache disables invalidation.
func New(db *gorm.DB, c cache.Cache) *Repository {
	if c == nil {
		c = cache.Noop{}
	}

	return &Repository{db: db, cache: c}
}

// Find retrieves the active setting for key in the scope of tenant.
func (r *Repository) Find(ctx context.Context, key, tenant string) (*models.Setting, error) {
	return r.find(ctx, key, tenant, true)
}

// FindAny retrieves the setting for key in the scope of tenant, active or not.
func (r *Repository) FindAny(ctx context.Context, key, tenant string) (*models.Setting, error) {
	return r.find(ctx, key, tenant, false)
}

func (r *Repository) find(ctx context.Context, key, tenant string, activeOnly bool) (*models.Setting, error) {
	if r.db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	q := r.db.WithContext(ctx).Where(keyTenantQueryPattern, key, tenant)
	if activeOnly {
		q = q.Where(activeQueryPattern, true)
	}

	var setting models.Setting
	if err := q.Take(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}

	return &setting, nil
}

// GetByID retrieves a setting by its ID.
func (r *Repository) GetByID(ctx context.Context, id uint64) (*models.Setting, error) {
	if r.db == nil {
		return nil, ErrDBNil
	}

	var setting models.Setting
	if err := r.db.WithContext(ctx).First(&setting, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}

	return &setting, nil
}

// List retrieves settings matching f ordered by module and key.
func (r *Repository) List(ctx context.Context, f Filter) ([]models.Setting, error) {
	if r.db == nil {
		return nil, ErrDBNil
	}

	q := r.db.WithContext(ctx).Order("module, key, tenant_id")
	if f.Module != "" {
		q = q.Where("module = ?", f.Module)
	}
	if f.Tenant != nil {
		q = q.Where("tenant_id = ?", *f.Tenant)
	}
	if f.ActiveOnly {
		q = q.Where(activeQueryPattern, true)
	}

	settings := []models.Setting{}
	if err := q.Find(&settings).Error; err != nil {
		return nil, err
	}

	return settings, nil
}

// ListByModule retrieves the active settings of module visible to tenant:
// the tenant's own rows and the global rows. For an empty tenant only global
// rows are returned. Shadowing is left to the caller.
func (r *Repository) ListByModule(ctx context.Context, module, tenant string) ([]models.Setting, error) {
	if r.db == nil {
		return nil, ErrDBNil
	}

	q := r.db.WithContext(ctx).
		Where("module = ? AND is_active = ?", module, true).
		Order("key")

	if tenant == "" {
		q = q.Where("tenant_id = ?", "")
	} else {
		q = q.Where("tenant_id IN ?", []string{tenant, ""})
	}

	var settings []models.Setting
	if err := q.Find(&settings).Error; err != nil {
		return nil, err
	}

	return settings, nil
}

// ListByTenant retrieves every setting of tenant, active or not.
func (r *Repository) ListByTenant(ctx context.Context, tenant string) ([]models.Setting, error) {
	t := tenant
	return r.List(ctx, Filter{Tenant: &t})
}

// Upsert creates or updates the setting for (key, tenant). apply receives
// the stored row, or a fresh one carrying only key and tenant, and sets the
// fields to write. The row is validated with Clean before it is persisted.
func (r *Repository) Upsert(
	ctx context.Context,
	key, tenant string,
	apply func(s *models.Setting) error,
) (*models.Setting, error) {
	if r.db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var setting models.Setting

	err := r.commit(ctx, func(tx *gorm.DB) ([]string, error) {
		err := tx.Where(keyTenantQueryPattern, key, tenant).Take(&setting).Error
		isNew := errors.Is(err, gorm.ErrRecordNotFound)
		if err != nil && !isNew {
			return nil, err
		}

		if isNew {
			setting = models.Setting{Key: key, TenantID: tenant}
		}

		if err = apply(&setting); err != nil {
			return nil, err
		}

		// identity is not up to apply
		setting.Key, setting.TenantID = key, tenant

		if err = setting.Clean(); err != nil {
			return nil, err
		}

		if isNew {
			err = tx.Create(&setting).Error
		} else {
			err = tx.Save(&setting).Error
		}

		return []string{setting.CacheKey()}, err
	})
	if err != nil {
		return nil, err
	}

	return &setting, nil
}

// Save persists s as given. It is the path for administrative edits of a
// whole row; when the key or tenant of an existing row changes, the cache
// entries of both identities are evicted.
func (r *Repository) Save(ctx context.Context, s *models.Setting) error {
	if r.db == nil {
		return ErrDBNil
	}
	if s == nil || s.Key == "" {
		return ErrSettingKeyEmpty
	}

	return r.commit(ctx, func(tx *gorm.DB) ([]string, error) {
		keys := []string{s.CacheKey()}

		if s.ID != 0 {
			var previous models.Setting
			err := tx.First(&previous, s.ID).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return nil, ErrSettingNotFound
			case err != nil:
				return nil, err
			}

			if previous.CacheKey() != s.CacheKey() {
				keys = append(keys, previous.CacheKey())
			}
		}

		if err := s.Clean(); err != nil {
			return nil, err
		}

		return keys, tx.Save(s).Error
	})
}

// CreateIfMissing inserts s unless a setting for its (key, tenant) exists.
// It reports whether s was created; existing rows are left untouched.
func (r *Repository) CreateIfMissing(ctx context.Context, s *models.Setting) (bool, error) {
	if r.db == nil {
		return false, ErrDBNil
	}
	if s == nil || s.Key == "" {
		return false, ErrSettingKeyEmpty
	}

	created := false

	err := r.commit(ctx, func(tx *gorm.DB) ([]string, error) {
		var count int64
		if err := tx.Model(&models.Setting{}).
			Where(keyTenantQueryPattern, s.Key, s.TenantID).
			Count(&count).Error; err != nil {
			return nil, err
		}

		if count > 0 {
			return nil, nil
		}

		if err := s.Clean(); err != nil {
			return nil, err
		}

		if err := tx.Create(s).Error; err != nil {
			return nil, err
		}

		created = true

		return []string{s.CacheKey()}, nil
	})

	return created, err
}

// Delete removes the setting for (key, tenant) and returns the number of rows removed.
// Deleting a tenant setting never touches the global one and vice versa.
func (r *Repository) Delete(ctx context.Context, key, tenant string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNil
	}
	if key == "" {
		return 0, ErrSettingKeyEmpty
	}

	var removed int64

	err := r.commit(ctx, func(tx *gorm.DB) ([]string, error) {
		result := tx.Where(keyTenantQueryPattern, key, tenant).Delete(&models.Setting{})
		removed = result.RowsAffected

		return []string{models.SettingCacheKey(key, tenant)}, result.Error
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}

// DeleteByID deletes a setting by ID.
func (r *Repository) DeleteByID(ctx context.Context, id uint64) error {
	if r.db == nil {
		return ErrDBNil
	}

	return r.commit(ctx, func(tx *gorm.DB) ([]string, error) {
		var setting models.Setting
		if err := tx.First(&setting, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSettingNotFound
			}
			return nil, err
		}

		return []string{setting.CacheKey()}, tx.Delete(&setting).Error
	})
}

// SetActive activates or deactivates the settings with the given IDs in bulk
// and returns the number of rows found.
func (r *Repository) SetActive(ctx context.Context, ids []uint64, active bool) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNil
	}
	if len(ids) == 0 {
		return 0, nil
	}

	var found int64

	err := r.commit(ctx, func(tx *gorm.DB) ([]string, error) {
		var settings []models.Setting
		if err := tx.Where("id IN ?", ids).Find(&settings).Error; err != nil {
			return nil, err
		}

		if len(settings) == 0 {
			return nil, nil
		}

		if err := tx.Model(&models.Setting{}).
			Where("id IN ?", ids).
			Update("is_active", active).Error; err != nil {
			return nil, err
		}

		found = int64(len(settings))

		keys := make([]string, 0, len(settings))
		for i := range settings {
			keys = append(keys, settings[i].CacheKey())
		}

		return keys, nil
	})

	return found, err
}

// commit runs fn in a transaction and evicts the returned cache keys after
// the transaction committed. Nothing is evicted when fn or the commit fails.
func (r *Repository) commit(ctx context.Context, fn func(tx *gorm.DB) ([]string, error)) error {
	var keys []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		keys, err = fn(tx)

		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}

		return err
	}

	for _, key := range keys {
		r.cache.Delete(ctx, key)
	}

	if len(keys) > 0 {
		log.Debug().Strs("keys", keys).Msg("settings cache invalidated")
	}

	return nil
}
