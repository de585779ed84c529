package models

import "time"

// IntegrationType is the category of an external service.
type IntegrationType string

const (
	// IntegrationEmail covers SMTP, SendGrid and similar providers.
	IntegrationEmail IntegrationType = "email"
	// IntegrationWhatsApp covers WhatsApp gateways.
	IntegrationWhatsApp IntegrationType = "whatsapp"
	// IntegrationSMS covers SMS gateways.
	IntegrationSMS IntegrationType = "sms"
	// IntegrationPayment covers payment processors (Wompi, PayU, Stripe).
	IntegrationPayment IntegrationType = "payment"
	// IntegrationDIAN covers the electronic invoicing authority.
	IntegrationDIAN IntegrationType = "dian"
	// IntegrationERP covers ERP systems.
	IntegrationERP IntegrationType = "erp"
	// IntegrationCRM covers CRM systems.
	IntegrationCRM IntegrationType = "crm"
	// IntegrationAnalytics covers analytics providers.
	IntegrationAnalytics IntegrationType = "analytics"
	// IntegrationStorage covers file storage providers.
	IntegrationStorage IntegrationType = "storage"
	// IntegrationOther is everything else.
	IntegrationOther IntegrationType = "other"
)

// IntegrationTypes lists every known integration type.
var IntegrationTypes = []IntegrationType{ //nolint:gochecknoglobals
	IntegrationEmail,
	IntegrationWhatsApp,
	IntegrationSMS,
	IntegrationPayment,
	IntegrationDIAN,
	IntegrationERP,
	IntegrationCRM,
	IntegrationAnalytics,
	IntegrationStorage,
	IntegrationOther,
}

// Valid reports whether t is a known integration type.
func (t IntegrationType) Valid() bool {
	for _, known := range IntegrationTypes {
		if t == known {
			return true
		}
	}

	return false
}

// IntegrationConfig holds the configuration of one external service for one tenant.
// The triple (Type, Name, TenantID) is unique.
type IntegrationConfig struct {
	ID       uint64          `gorm:"primaryKey" json:"id"`
	Type     IntegrationType `gorm:"size:50;not null;uniqueIndex:idx_integration_type_name_tenant;index:idx_integration_type_active" json:"type"`
	Name     string          `gorm:"size:100;not null;uniqueIndex:idx_integration_type_name_tenant" json:"name"`
	TenantID string          `gorm:"size:64;not null;uniqueIndex:idx_integration_type_name_tenant;index:idx_integration_tenant_active" json:"tenantId"`
	// Config is the non secret configuration document.
	Config map[string]any `gorm:"serializer:json;type:text" json:"config"`
	// Credentials is the sealed credentials document, see internal/secret.
	Credentials []byte         `json:"-"`
	Metadata    map[string]any `gorm:"serializer:json;type:text" json:"metadata"`
	IsActive    bool           `gorm:"index:idx_integration_type_active;index:idx_integration_tenant_active" json:"isActive"`
	// IsTestMode marks sandbox credentials.
	IsTestMode        bool       `json:"isTestMode"`
	IsVerified        bool       `json:"isVerified"`
	LastVerifiedAt    *time.Time `json:"lastVerifiedAt,omitempty"`
	VerificationError string     `gorm:"type:text" json:"verificationError,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}
