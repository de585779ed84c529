package settings

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/OpticaApp/OpticaApp/internal/db/models"
	"github.com/OpticaApp/OpticaApp/internal/settings/value"
)

// SetParams describes a Set call.
type SetParams struct {
	Key    string
	Tenant string
	// Value is serialized according to Type: booleans as "true"/"false",
	// json through the JSON encoder, anything else in its plain text form.
	Value any
	// Type defaults to value.TypeString.
	Type        value.ValueType
	Module      string
	Description string
	Sensitive   bool
}

// Set creates or updates the setting for (Key, Tenant) and marks it active.
// The value is validated before it is written; a rejected value leaves the
// stored setting unchanged. The cache entry is evicted, never updated.
func (r *Resolver) Set(ctx context.Context, p SetParams) (*models.Setting, error) {
	if p.Key == "" {
		return nil, ErrKeyEmpty
	}

	t, err := value.ParseValueType(string(p.Type))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	raw, err := value.Encode(t, p.Value)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	s, err := r.store.Upsert(ctx, p.Key, p.Tenant, func(s *models.Setting) error {
		s.Value = raw
		s.ValueType = t
		s.Module = p.Module
		s.Description = p.Description
		s.IsSensitive = p.Sensitive
		s.IsActive = true

		return nil
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	log.Debug().
		Str("key", s.Key).
		Str("scope", s.Scope()).
		Str("type", string(s.ValueType)).
		Msg("setting stored")

	return s, nil
}

// Delete removes the setting for exactly (key, tenant) and returns how many
// rows were removed. A tenant delete never removes the global setting.
func (r *Resolver) Delete(ctx context.Context, key, tenant string) (int64, error) {
	if key == "" {
		return 0, ErrKeyEmpty
	}

	return r.store.Delete(ctx, key, tenant) //nolint:wrapcheck
}

// ModuleSettings returns the active settings of module visible to tenant,
// keyed by setting key. A tenant setting shadows the global setting of the
// same key. Settings without value and default value map to nil.
// The result is always read from storage.
func (r *Resolver) ModuleSettings(ctx context.Context, module, tenant string) (map[string]value.Value, error) {
	rows, err := r.store.ListByModule(ctx, module, tenant)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	result := make(map[string]value.Value, len(rows))
	fromTenant := make(map[string]bool, len(rows))

	for i := range rows {
		s := &rows[i]
		isTenant := !s.IsGlobal()

		if _, placed := result[s.Key]; placed {
			// only a tenant setting may replace a placed global one
			if fromTenant[s.Key] || !isTenant {
				continue
			}
		}

		v, _, err := s.TypedValue()
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		result[s.Key] = v
		fromTenant[s.Key] = isTenant
	}

	return result, nil
}

// ClearCache evicts the cached values of tenant. An empty tenant clears the
// whole cache.
func (r *Resolver) ClearCache(ctx context.Context, tenant string) error {
	if tenant == models.GlobalTenant {
		r.cache.Clear(ctx)
		log.Info().Msg("settings cache cleared")

		return nil
	}

	own, err := r.store.ListByTenant(ctx, tenant)
	if err != nil {
		return err //nolint:wrapcheck
	}

	// inherit entries live under tenant identities of global keys
	global, err := r.store.ListByTenant(ctx, models.GlobalTenant)
	if err != nil {
		return err //nolint:wrapcheck
	}

	seen := make(map[string]struct{}, len(own)+len(global))

	for _, rows := range [][]models.Setting{own, global} {
		for i := range rows {
			key := models.SettingCacheKey(rows[i].Key, tenant)
			if _, ok := seen[key]; ok {
				continue
			}

			seen[key] = struct{}{}
			r.cache.Delete(ctx, key)
		}
	}

	log.Info().Str("tenant", tenant).Int("entries", len(seen)).Msg("settings cache cleared")

	return nil
}
