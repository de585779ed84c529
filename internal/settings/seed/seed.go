// Package seed installs the default global settings and setting categories.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/OpticaApp/OpticaApp/internal/db/models"
	"github.com/OpticaApp/OpticaApp/internal/settings/value"
)

// Creator inserts a setting unless one exists for its key and tenant.
// It is implemented by *setting.Repository.
type Creator interface {
	CreateIfMissing(ctx context.Context, s *models.Setting) (bool, error)
}

// Result counts the rows created by Run.
type Result struct {
	Settings   int
	Categories int
}

// DefaultSettings returns the global settings every installation starts with.
func DefaultSettings() []models.Setting {
	return []models.Setting{
		{
			Key:         "email.from_name",
			Value:       "OpticaApp",
			ValueType:   value.TypeString,
			Module:      "email",
			Description: "Sender name of outgoing emails",
		},
		{
			Key:         "email.from_address",
			Value:       "noreply@opticaapp.com",
			ValueType:   value.TypeEmail,
			Module:      "email",
			Description: "Sender address of outgoing emails",
		},
		{
			Key:         "appointments.duration_default",
			Value:       "30",
			ValueType:   value.TypeInteger,
			Module:      "appointments",
			Description: "Default appointment length in minutes",
		},
		{
			Key:         "appointments.reminder_hours",
			Value:       "24",
			ValueType:   value.TypeInteger,
			Module:      "appointments",
			Description: "Hours before an appointment the reminder is sent",
		},
		{
			Key:         "appointments.allow_overlap",
			Value:       "false",
			ValueType:   value.TypeBoolean,
			Module:      "appointments",
			Description: "Allow overlapping appointments",
		},
		{
			Key:         "billing.currency",
			Value:       "COP",
			ValueType:   value.TypeString,
			Module:      "billing",
			Description: "Billing currency",
		},
		{
			Key:         "billing.tax_rate",
			Value:       "19",
			ValueType:   value.TypeInteger,
			Module:      "billing",
			Description: "VAT rate in percent",
		},
		{
			Key:         "notifications.channels",
			Value:       `["email", "whatsapp", "system"]`,
			ValueType:   value.TypeJSON,
			Module:      "notifications",
			Description: "Enabled notification channels",
		},
		{
			Key:         "security.session_timeout",
			Value:       "3600",
			ValueType:   value.TypeInteger,
			Module:      "security",
			Description: "Session lifetime in seconds",
		},
		{
			Key:         "security.password_min_length",
			Value:       "8",
			ValueType:   value.TypeInteger,
			Module:      "security",
			Description: "Minimum password length",
		},
	}
}

// DefaultCategories returns the categories settings are grouped in.
// A category collects the settings whose module equals its slug.
func DefaultCategories() []models.SettingCategory {
	return []models.SettingCategory{
		{Name: "General", Slug: "general", Description: "General application settings", Icon: "fas fa-cog", Order: 1},
		{Name: "Email", Slug: "email", Description: "Outgoing email", Icon: "fas fa-envelope", Order: 2},
		{Name: "Notifications", Slug: "notifications", Description: "Notification delivery", Icon: "fas fa-bell", Order: 3},
		{Name: "Appointments", Slug: "appointments", Description: "Appointment scheduling", Icon: "fas fa-calendar", Order: 4},
		{Name: "Billing", Slug: "billing", Description: "Billing and payments", Icon: "fas fa-file-invoice-dollar", Order: 5},
		{Name: "Security", Slug: "security", Description: "Security policies", Icon: "fas fa-shield-alt", Order: 6},
		{Name: "Integrations", Slug: "integrations", Description: "External services", Icon: "fas fa-plug", Order: 7},
	}
}

// Run creates the default settings and categories that do not exist yet.
// Existing rows are never modified, so Run is safe to call on every start.
func Run(ctx context.Context, db *gorm.DB, settings Creator) (Result, error) {
	var res Result

	for _, s := range DefaultSettings() {
		s.IsActive = true

		created, err := settings.CreateIfMissing(ctx, &s)
		if err != nil {
			return res, fmt.Errorf("failed to seed setting %s: %w", s.Key, err)
		}

		if created {
			res.Settings++
		}
	}

	for _, c := range DefaultCategories() {
		created, err := createCategory(ctx, db, c)
		if err != nil {
			return res, fmt.Errorf("failed to seed category %s: %w", c.Slug, err)
		}

		if created {
			res.Categories++
		}
	}

	log.Info().
		Int("settings", res.Settings).
		Int("categories", res.Categories).
		Msg("default settings seeded")

	return res, nil
}

func createCategory(ctx context.Context, db *gorm.DB, c models.SettingCategory) (bool, error) {
	created := false

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.SettingCategory{}).Where("slug = ?", c.Slug).Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return nil
		}

		category := c
		if err := tx.Create(&category).Error; err != nil {
			return err
		}

		created = true

		var members []models.Setting
		if err := tx.Where("module = ? AND tenant_id = ?", c.Slug, models.GlobalTenant).
			Find(&members).Error; err != nil {
			return err
		}

		if len(members) == 0 {
			return nil
		}

		return tx.Model(&category).Association("Settings").Append(&members)
	})

	return created, err
}
