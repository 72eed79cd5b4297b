package dto

// SessionQueryParamDTO is one captured entry query parameter
type SessionQueryParamDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SessionDTO represents a respondent session in API responses
type SessionDTO struct {
	ID           uint   `json:"id"`
	SessionID    string `json:"session_id"`
	TrackingID   string `json:"tracking_id"`
	SurveySlug   string `json:"survey_slug,omitempty"`
	VendorSlug   string `json:"vendor_slug,omitempty"`
	Status       string `json:"status"`
	RespondentID string `json:"respondent_id,omitempty"`

	EntryParams []SessionQueryParamDTO `json:"entry_params"`

	IPAddress *string `json:"ip_address,omitempty"`
	UserAgent *string `json:"user_agent,omitempty"`
	Referrer  *string `json:"referrer,omitempty"`

	EnteredAt  string  `json:"entered_at"`
	ResolvedAt *string `json:"resolved_at,omitempty"`
	DurationMS *int64  `json:"duration_ms,omitempty"`
}

// ListSessionsRequest represents the request to list sessions
type ListSessionsRequest struct {
	SurveySlug string  `json:"-"`
	Page       int     `json:"page" validate:"omitempty,min=1"`
	PageSize   int     `json:"page_size" validate:"omitempty,min=1,max=100"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=active complete terminate quota_full"`
	VendorSlug *string `json:"vendor_slug,omitempty"`
}

// ListSessionsResponse represents the response to list sessions
type ListSessionsResponse struct {
	Sessions   []SessionDTO  `json:"sessions"`
	Pagination PaginationDTO `json:"pagination"`
}

// SessionStatsDTO aggregates session outcomes for a survey
type SessionStatsDTO struct {
	SurveySlug         string  `json:"survey_slug"`
	TotalSessions      int64   `json:"total_sessions"`
	ActiveSessions     int64   `json:"active_sessions"`
	CompletedSessions  int64   `json:"completed_sessions"`
	QuotaFullSessions  int64   `json:"quota_full_sessions"`
	TerminatedSessions int64   `json:"terminated_sessions"`
	CompletionRate     float64 `json:"completion_rate"`
}
