package settings

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/OpticaApp/OpticaApp/internal/db/controller/setting"
	"github.com/OpticaApp/OpticaApp/internal/db/models"
	"github.com/OpticaApp/OpticaApp/internal/settings/value"
)

type getOptions struct {
	useCache bool
}

// GetOption configures a single lookup.
type GetOption func(o *getOptions)

// NoCache reads straight from storage and leaves the cache untouched.
func NoCache() GetOption {
	return func(o *getOptions) {
		o.useCache = false
	}
}

// resolution is the outcome of a lookup in one scope.
type resolution int

const (
	// missing means the scope has no active setting for the key.
	missing resolution = iota
	// inherited means a cached inherit entry sent the lookup to the global scope.
	inherited
	// unset means the setting exists but neither value nor default value is set.
	unset
	// resolved means a value was found.
	resolved
)

// Get resolves key for tenant. An empty tenant reads the global setting.
//
// The tenant's active setting wins over the global one. When neither exists,
// or the setting found has no value and no default value, def is returned.
// Values that can not be coerced to their declared type are returned as a
// *value.TypeMismatchError and never replaced by def.
func (r *Resolver) Get(ctx context.Context, key, tenant string, def value.Value, opts ...GetOption) (value.Value, error) {
	if key == "" {
		return nil, ErrKeyEmpty
	}

	o := getOptions{useCache: true}
	for _, opt := range opts {
		opt(&o)
	}

	if tenant != "" {
		v, res, err := r.lookup(ctx, key, tenant, o.useCache)
		if err != nil {
			return nil, err
		}

		switch res {
		case resolved:
			return v, nil
		case unset:
			return def, nil
		case inherited:
			return r.global(ctx, key, def, o.useCache)
		case missing:
		}

		v, res, err = r.lookup(ctx, key, models.GlobalTenant, o.useCache)
		if err != nil {
			return nil, err
		}

		if res != resolved {
			return def, nil
		}

		if o.useCache {
			r.cache.Set(ctx, models.SettingCacheKey(key, tenant), entry{Inherit: true}, r.ttl)
		}

		return v, nil
	}

	return r.global(ctx, key, def, o.useCache)
}

func (r *Resolver) global(ctx context.Context, key string, def value.Value, useCache bool) (value.Value, error) {
	v, res, err := r.lookup(ctx, key, models.GlobalTenant, useCache)
	if err != nil {
		return nil, err
	}

	if res != resolved {
		return def, nil
	}

	return v, nil
}

// lookup resolves key in exactly one scope. Only resolved values are cached.
func (r *Resolver) lookup(ctx context.Context, key, tenant string, useCache bool) (value.Value, resolution, error) {
	cacheKey := models.SettingCacheKey(key, tenant)

	if useCache {
		if cached, ok := r.cache.Get(ctx, cacheKey); ok {
			if e, ok := cached.(entry); ok {
				observeHit()

				if e.Inherit {
					// a global entry never inherits
					if tenant == models.GlobalTenant {
						return nil, missing, nil
					}

					return nil, inherited, nil
				}

				return e.Value, resolved, nil
			}
		}

		observeMiss()
	}

	s, err := r.store.Find(ctx, key, tenant)
	if errors.Is(err, setting.ErrSettingNotFound) {
		return nil, missing, nil
	}

	if err != nil {
		return nil, missing, err //nolint:wrapcheck
	}

	v, ok, err := s.TypedValue()
	if err != nil {
		log.Warn().Err(err).
			Str("key", key).
			Str("scope", models.ScopeName(tenant)).
			Msg("stored setting does not match its type")

		return nil, missing, err //nolint:wrapcheck
	}

	if !ok {
		return nil, unset, nil
	}

	if useCache {
		r.cache.Set(ctx, cacheKey, entry{Value: v}, r.ttl)
	}

	return v, resolved, nil
}

// String resolves key as text. Every declared type has a text form.
func (r *Resolver) String(ctx context.Context, key, tenant, def string, opts ...GetOption) (string, error) {
	v, err := r.Get(ctx, key, tenant, nil, opts...)
	if err != nil || v == nil {
		return def, err
	}

	return v.Raw(), nil
}

// Int resolves an integer setting.
func (r *Resolver) Int(ctx context.Context, key, tenant string, def int64, opts ...GetOption) (int64, error) {
	v, err := r.Get(ctx, key, tenant, nil, opts...)
	if err != nil || v == nil {
		return def, err
	}

	i, ok := v.(value.Integer)
	if !ok {
		return def, unexpectedType(value.TypeInteger, v)
	}

	return int64(i), nil
}

// Float resolves a float setting. Integer settings are widened.
func (r *Resolver) Float(ctx context.Context, key, tenant string, def float64, opts ...GetOption) (float64, error) {
	v, err := r.Get(ctx, key, tenant, nil, opts...)
	if err != nil || v == nil {
		return def, err
	}

	switch x := v.(type) {
	case value.Float:
		return float64(x), nil
	case value.Integer:
		return float64(x), nil
	default:
		return def, unexpectedType(value.TypeFloat, v)
	}
}

// Bool resolves a boolean setting.
func (r *Resolver) Bool(ctx context.Context, key, tenant string, def bool, opts ...GetOption) (bool, error) {
	v, err := r.Get(ctx, key, tenant, nil, opts...)
	if err != nil || v == nil {
		return def, err
	}

	b, ok := v.(value.Boolean)
	if !ok {
		return def, unexpectedType(value.TypeBoolean, v)
	}

	return bool(b), nil
}

// JSON resolves a json setting and returns the decoded document.
func (r *Resolver) JSON(ctx context.Context, key, tenant string, def any, opts ...GetOption) (any, error) {
	v, err := r.Get(ctx, key, tenant, nil, opts...)
	if err != nil || v == nil {
		return def, err
	}

	j, ok := v.(value.JSON)
	if !ok {
		return def, unexpectedType(value.TypeJSON, v)
	}

	return j.Doc, nil
}

func unexpectedType(want value.ValueType, got value.Value) error {
	return &value.TypeMismatchError{Type: want, Raw: got.Raw(), Err: ErrUnexpectedType}
}
