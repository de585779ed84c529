package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpticaApp/OpticaApp/internal/settings/value"
)

func TestSetting_TypedValue(t *testing.T) {
	testCases := []struct {
		name      string
		setting   Setting
		expected  value.Value
		expectOK  bool
		expectErr error
	}{
		{
			name:     "value is coerced",
			setting:  Setting{Value: "30", ValueType: value.TypeInteger},
			expected: value.Integer(30),
			expectOK: true,
		},
		{
			name:     "empty value uses default",
			setting:  Setting{DefaultValue: "yes", ValueType: value.TypeBoolean},
			expected: value.Boolean(true),
			expectOK: true,
		},
		{
			name:     "both empty",
			setting:  Setting{ValueType: value.TypeInteger},
			expectOK: false,
		},
		{
			name:      "malformed value is a type mismatch",
			setting:   Setting{Value: "abc", DefaultValue: "1", ValueType: value.TypeInteger},
			expectErr: value.ErrTypeMismatch,
		},
		{
			name:      "malformed default is a type mismatch",
			setting:   Setting{DefaultValue: "{", ValueType: value.TypeJSON},
			expectErr: value.ErrTypeMismatch,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, ok, err := tc.setting.TypedValue()
			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectOK, ok)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestSetting_Clean(t *testing.T) {
	testCases := []struct {
		name    string
		setting Setting
		wantErr bool
	}{
		{name: "valid integer", setting: Setting{Value: "19", ValueType: value.TypeInteger}},
		{name: "invalid integer", setting: Setting{Value: "nineteen", ValueType: value.TypeInteger}, wantErr: true},
		{name: "invalid default", setting: Setting{DefaultValue: "x", ValueType: value.TypeFloat}, wantErr: true},
		{name: "integer without default", setting: Setting{Value: "30", ValueType: value.TypeInteger}},
		{name: "email without default", setting: Setting{Value: "ventas@optica.co", ValueType: value.TypeEmail}},
		{name: "json without value or default", setting: Setting{ValueType: value.TypeJSON}},
		{name: "date default only", setting: Setting{DefaultValue: "2026-01-31", ValueType: value.TypeDate}},
		{name: "rule ok", setting: Setting{Value: "COP", ValidationRule: "[A-Z]{3}"}},
		{name: "rule violated", setting: Setting{Value: "pesos", ValidationRule: "[A-Z]{3}"}, wantErr: true},
		{name: "unknown type", setting: Setting{Value: "1", ValueType: "money"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.setting.Clean()
			if tc.wantErr {
				require.ErrorIs(t, err, value.ErrValidation)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestSetting_DisplayValue(t *testing.T) {
	sensitive := Setting{Value: "sk_live_123", IsSensitive: true}
	assert.Equal(t, MaskedValue, sensitive.DisplayValue())

	long := Setting{Value: strings.Repeat("á", 60)}
	assert.Equal(t, strings.Repeat("á", 50)+"...", long.DisplayValue())

	short := Setting{Value: "COP"}
	assert.Equal(t, "COP", short.DisplayValue())
}

func TestSettingCacheKey(t *testing.T) {
	global := Setting{Key: "billing.tax_rate"}
	tenant := Setting{Key: "billing.tax_rate", TenantID: "42"}

	assert.Equal(t, "setting:global:billing.tax_rate", global.CacheKey())
	assert.Equal(t, "setting:tenant:2:42:billing.tax_rate", tenant.CacheKey())
	assert.Equal(t, tenant.CacheKey(), SettingCacheKey("billing.tax_rate", "42"))
	assert.True(t, global.IsGlobal())
	assert.False(t, tenant.IsGlobal())

	// a tenant literally named "global" does not collide with the global scope
	assert.NotEqual(t, global.CacheKey(), SettingCacheKey("billing.tax_rate", "global"))
}

func TestSettingCacheKey_ColonsInTenant(t *testing.T) {
	testCases := []struct {
		name          string
		keyA, tenantA string
		keyB, tenantB string
	}{
		{name: "colon moves from key to tenant", keyA: "a:b", tenantA: "x", keyB: "b", tenantB: "x:a"},
		{name: "tenant looks like a scope", keyA: "k", tenantA: "tenant:1", keyB: "1:k", tenantB: "tenant"},
		{name: "global vs tenant named global", keyA: "global:k", tenantA: "", keyB: "k", tenantB: "global"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotEqual(t, SettingCacheKey(tc.keyA, tc.tenantA), SettingCacheKey(tc.keyB, tc.tenantB))
		})
	}
}
