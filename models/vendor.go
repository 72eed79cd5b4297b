package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Vendor is a traffic source feeding respondents into exactly one survey.
// Slug is unique within the owning survey; UUID is the opaque identifier
// used by the legacy /v/ entry links. The four callback URLs are derived
// from BaseRedirectURL and rebuilt whenever the base URL, entry parameter,
// or placeholder changes.
type Vendor struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	SurveyID uint      `gorm:"not null;index:idx_vendors_survey_id;uniqueIndex:uk_vendors_survey_slug" json:"survey_id"`
	Survey   *Survey   `gorm:"foreignKey:SurveyID;references:ID" json:"survey,omitempty"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Slug     string    `gorm:"size:255;not null;uniqueIndex:uk_vendors_survey_slug" json:"slug"`
	UUID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_vendors_uuid" json:"uuid"`

	EntryParameter       string `gorm:"size:128;not null" json:"entry_parameter"`
	ParameterPlaceholder string `gorm:"size:128;not null" json:"parameter_placeholder"`

	BaseRedirectURL string `gorm:"type:text;not null" json:"base_redirect_url"`
	CompleteURL     string `gorm:"type:text;not null" json:"complete_url"`
	TerminateURL    string `gorm:"type:text;not null" json:"terminate_url"`
	QuotaFullURL    string `gorm:"type:text;not null" json:"quota_full_url"`
	SecurityTermURL string `gorm:"type:text" json:"security_term_url"`

	IsActive *bool `gorm:"default:true;index:idx_vendors_is_active" json:"is_active"`

	TotalSessions      int64 `gorm:"not null;default:0" json:"total_sessions"`
	CompletedSessions  int64 `gorm:"not null;default:0" json:"completed_sessions"`
	QuotaFullSessions  int64 `gorm:"not null;default:0" json:"quota_full_sessions"`
	TerminatedSessions int64 `gorm:"not null;default:0" json:"terminated_sessions"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_vendors_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for Vendor
func (Vendor) TableName() string { return "vendors" }

// RebuildCallbackURLs derives the four outcome callback URLs from the base
// redirect URL. The wire format is fixed:
//
//	<base><sep>status=<code>&<entryParameter>={{<placeholder>}}
//
// where <sep> is & when the base already carries a query string, else ?.
// Existing values are discarded on every rebuild.
func (v *Vendor) RebuildCallbackURLs() {
	if v.BaseRedirectURL == "" {
		return
	}
	sep := "?"
	if strings.Contains(v.BaseRedirectURL, "?") {
		sep = "&"
	}
	placeholder := "{{" + v.ParameterPlaceholder + "}}"

	v.CompleteURL = v.BaseRedirectURL + sep + "status=1&" + v.EntryParameter + "=" + placeholder
	v.TerminateURL = v.BaseRedirectURL + sep + "status=2&" + v.EntryParameter + "=" + placeholder
	v.QuotaFullURL = v.BaseRedirectURL + sep + "status=3&" + v.EntryParameter + "=" + placeholder
	v.SecurityTermURL = v.BaseRedirectURL + sep + "status=4&" + v.EntryParameter + "=" + placeholder
}

// CallbackURLFor selects the callback template for a terminal outcome.
// Security terminations prefer the security-specific URL and fall back to
// the generic terminate URL when it is unset.
func (v *Vendor) CallbackURLFor(status string, security bool) string {
	switch {
	case status == SessionStatusComplete:
		return v.CompleteURL
	case status == SessionStatusQuotaFull:
		return v.QuotaFullURL
	case security && v.SecurityTermURL != "":
		return v.SecurityTermURL
	default:
		return v.TerminateURL
	}
}

// VendorFilter provides filter fields for repository queries
type VendorFilter struct {
	ID            *uint
	SurveyID      *uint
	Slug          *string
	UUID          *uuid.UUID
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
