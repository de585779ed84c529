package models

// SettingCategory groups settings for display.
type SettingCategory struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Slug        string    `gorm:"size:100;not null;unique" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"size:50" json:"icon"`
	Order       int       `gorm:"column:sort_order" json:"order"`
	Settings    []Setting `gorm:"many2many:setting_category_settings;" json:"settings,omitempty"`
}

// All returns every model managed by the settings service, in migration order.
func All() []any {
	return []any{
		&Setting{},
		&SettingCategory{},
		&IntegrationConfig{},
	}
}
