// Package models contains domain entities and business models for the panel routing system
package models

import "time"

// Session terminal outcomes plus the single non-terminal state
const (
	SessionStatusActive    = "active"
	SessionStatusComplete  = "complete"
	SessionStatusQuotaFull = "quota_full"
	SessionStatusTerminate = "terminate"
)

// Default thank-you page messages used when a survey is created without
// operator-provided copy
const (
	DefaultCompletePageMessage     = "Thank you for your participation. The survey has been completed successfully. Your inputs are valuable and will help us improve healthcare insights."
	DefaultTerminatePageMessage    = "Thank you for your participation. Based on your responses, you do not meet the criteria for this study, and the survey has been terminated. We will reach out to you for future survey opportunities."
	DefaultQuotaFullPageMessage    = "Thank you for your participation. The required quota for this survey has already been completed. We appreciate your time and interest."
	DefaultSecurityTermPageMessage = "Thank you for your participation"
)

// Survey represents one study hosted on the external survey platform.
// Slug is minted once at creation and never changes afterwards.
// Counters are mutated only through atomic repository increments.
type Survey struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Slug        string  `gorm:"size:255;not null;uniqueIndex:uk_surveys_slug" json:"slug"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	ClientURL   string  `gorm:"type:text;not null" json:"client_url"`
	IsActive    *bool   `gorm:"default:true;index:idx_surveys_is_active" json:"is_active"`

	TotalSessions      int64 `gorm:"not null;default:0" json:"total_sessions"`
	CompletedSessions  int64 `gorm:"not null;default:0" json:"completed_sessions"`
	QuotaFullSessions  int64 `gorm:"not null;default:0" json:"quota_full_sessions"`
	TerminatedSessions int64 `gorm:"not null;default:0" json:"terminated_sessions"`

	CompletePageMessage     string `gorm:"type:text;not null" json:"complete_page_message"`
	TerminatePageMessage    string `gorm:"type:text;not null" json:"terminate_page_message"`
	QuotaFullPageMessage    string `gorm:"type:text;not null" json:"quota_full_page_message"`
	SecurityTermPageMessage string `gorm:"type:text;not null" json:"security_term_page_message"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_surveys_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for Survey
func (Survey) TableName() string { return "surveys" }

// ApplyDefaultMessages fills empty page messages with the stock copy
func (s *Survey) ApplyDefaultMessages() {
	if s.CompletePageMessage == "" {
		s.CompletePageMessage = DefaultCompletePageMessage
	}
	if s.TerminatePageMessage == "" {
		s.TerminatePageMessage = DefaultTerminatePageMessage
	}
	if s.QuotaFullPageMessage == "" {
		s.QuotaFullPageMessage = DefaultQuotaFullPageMessage
	}
	if s.SecurityTermPageMessage == "" {
		s.SecurityTermPageMessage = DefaultSecurityTermPageMessage
	}
}

// MessageFor returns the thank-you message shown for a terminal outcome.
// The security flag selects the security-termination copy over the generic
// terminate copy.
func (s *Survey) MessageFor(status string, security bool) string {
	switch {
	case status == SessionStatusComplete:
		return s.CompletePageMessage
	case status == SessionStatusQuotaFull:
		return s.QuotaFullPageMessage
	case security:
		return s.SecurityTermPageMessage
	default:
		return s.TerminatePageMessage
	}
}

// SurveyFilter provides filter fields for repository queries
type SurveyFilter struct {
	ID            *uint
	Slug          *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
