package dto

// CreateVendorRequest represents the request to create a new vendor under a survey
type CreateVendorRequest struct {
	SurveySlug string `json:"-"`
	Name       string `json:"name" validate:"required,min=1,max=255"`

	BaseRedirectURL      string  `json:"base_redirect_url" validate:"required,url"`
	EntryParameter       *string `json:"entry_parameter,omitempty" validate:"omitempty,min=1,max=128"`
	ParameterPlaceholder *string `json:"parameter_placeholder,omitempty" validate:"omitempty,min=1,max=128"`
}

// UpdateVendorRequest represents the request to update an existing vendor.
// Changing the base URL, entry parameter, or placeholder re-derives all
// callback URLs.
type UpdateVendorRequest struct {
	SurveySlug string `json:"-"`
	VendorSlug string `json:"-"`

	Name                 *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	BaseRedirectURL      *string `json:"base_redirect_url,omitempty" validate:"omitempty,url"`
	EntryParameter       *string `json:"entry_parameter,omitempty" validate:"omitempty,min=1,max=128"`
	ParameterPlaceholder *string `json:"parameter_placeholder,omitempty" validate:"omitempty,min=1,max=128"`
	IsActive             *bool   `json:"is_active,omitempty"`
}

// VendorDTO represents a vendor in API responses
type VendorDTO struct {
	ID         uint   `json:"id"`
	SurveySlug string `json:"survey_slug"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	UUID       string `json:"uuid"`
	IsActive   bool   `json:"is_active"`

	EntryParameter       string `json:"entry_parameter"`
	ParameterPlaceholder string `json:"parameter_placeholder"`

	BaseRedirectURL string `json:"base_redirect_url"`
	CompleteURL     string `json:"complete_url"`
	TerminateURL    string `json:"terminate_url"`
	QuotaFullURL    string `json:"quota_full_url"`
	SecurityTermURL string `json:"security_term_url"`

	// Ready-to-distribute entry links for both addressing forms
	EntryURL       string `json:"entry_url"`
	LegacyEntryURL string `json:"legacy_entry_url"`

	TotalSessions      int64 `json:"total_sessions"`
	CompletedSessions  int64 `json:"completed_sessions"`
	QuotaFullSessions  int64 `json:"quota_full_sessions"`
	TerminatedSessions int64 `json:"terminated_sessions"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListVendorsResponse represents the response to list vendors of a survey
type ListVendorsResponse struct {
	Vendors []VendorDTO `json:"vendors"`
}
