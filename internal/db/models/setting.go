// Package models contains database model definitions.
package models

import (
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/OpticaApp/OpticaApp/internal/settings/value"
)

const (
	// GlobalScope is the scope name of settings without a tenant.
	GlobalScope = "global"

	// GlobalTenant is the tenant id of global settings.
	GlobalTenant = ""

	// MaskedValue replaces sensitive values in listings.
	MaskedValue = "••••••••"

	// displayMaxLen is the number of characters shown before a listed value is truncated.
	displayMaxLen = 50
)

// Setting represents a configuration entry stored in the database.
// A setting is either global (empty TenantID) or bound to one tenant,
// and the pair (Key, TenantID) is unique.
type Setting struct {
	// ID is the unique identifier for the setting.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Key is the dot namespaced identifier, e.g. "email.from_address".
	Key string `gorm:"size:200;not null;uniqueIndex:idx_setting_key_tenant" json:"key"`
	// Value is the raw textual value.
	Value string `gorm:"type:text" json:"value"`
	// ValueType is the declared type of Value and DefaultValue.
	ValueType value.ValueType `gorm:"size:20;not null;default:string" json:"valueType"`
	// TenantID binds the setting to a tenant. Empty means global.
	TenantID string `gorm:"size:64;not null;default:'';uniqueIndex:idx_setting_key_tenant" json:"tenantId"`
	// Module groups settings for bulk retrieval (appointments, billing, ...).
	Module string `gorm:"size:50;index:idx_setting_module_active" json:"module"`
	// Description explains the setting to administrators.
	Description string `gorm:"type:text" json:"description"`
	// IsSensitive hides the value in every listing (API keys, passwords).
	IsSensitive bool `json:"isSensitive"`
	// ValidationRule is an optional regular expression the value must fully match.
	ValidationRule string `gorm:"size:500" json:"validationRule"`
	// DefaultValue is used when Value is empty.
	DefaultValue string `gorm:"type:text" json:"defaultValue"`
	// IsActive soft disables the setting. Inactive settings are never resolved.
	IsActive bool `gorm:"index:idx_setting_module_active" json:"isActive"`
	// CreatedAt is when the setting was created.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is when the setting was last modified.
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsGlobal reports whether the setting has no tenant.
func (s *Setting) IsGlobal() bool {
	return s.TenantID == ""
}

// Scope returns the scope name of the setting, see ScopeName.
func (s *Setting) Scope() string {
	return ScopeName(s.TenantID)
}

// CacheKey returns the cache identity of the setting.
func (s *Setting) CacheKey() string {
	return SettingCacheKey(s.Key, s.TenantID)
}

// Clean validates Value and DefaultValue against ValueType and ValidationRule.
// It must succeed before the setting is persisted.
func (s *Setting) Clean() error {
	if _, err := value.ParseValueType(string(s.ValueType)); err != nil {
		return err //nolint:wrapcheck
	}

	if err := value.Validate(s.ValueType, s.Value, s.ValidationRule); err != nil {
		return err //nolint:wrapcheck
	}

	return value.Validate(s.ValueType, s.DefaultValue, "") //nolint:wrapcheck
}

// TypedValue returns the value coerced to ValueType. DefaultValue is used
// when Value is empty; ok is false when both are empty.
func (s *Setting) TypedValue() (v value.Value, ok bool, err error) {
	raw := s.Value
	if raw == "" {
		raw = s.DefaultValue
	}

	if raw == "" {
		return nil, false, nil
	}

	v, err = value.Decode(s.ValueType, raw)
	if err != nil {
		return nil, false, err //nolint:wrapcheck
	}

	return v, true, nil
}

// DisplayValue returns the value as it may be shown in listings.
func (s *Setting) DisplayValue() string {
	if s.IsSensitive {
		return MaskedValue
	}

	if utf8.RuneCountInString(s.Value) > displayMaxLen {
		return string([]rune(s.Value)[:displayMaxLen]) + "..."
	}

	return s.Value
}

// ScopeName returns "global" for an empty tenant and "tenant:<id>" otherwise.
func ScopeName(tenant string) string {
	if tenant == "" {
		return GlobalScope
	}

	return "tenant:" + tenant
}

// SettingCacheKey returns the cache identity of (key, tenant). The tenant id
// is length prefixed so ids and keys containing ':' cannot collide.
func SettingCacheKey(key, tenant string) string {
	if tenant == "" {
		return "setting:" + GlobalScope + ":" + key
	}

	return "setting:tenant:" + strconv.Itoa(len(tenant)) + ":" + tenant + ":" + key
}
