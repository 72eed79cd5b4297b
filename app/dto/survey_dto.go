package dto

// CreateSurveyRequest represents the request to create a new survey
type CreateSurveyRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	ClientURL   string  `json:"client_url" validate:"required,url"`

	CompletePageMessage     *string `json:"complete_page_message,omitempty"`
	TerminatePageMessage    *string `json:"terminate_page_message,omitempty"`
	QuotaFullPageMessage    *string `json:"quota_full_page_message,omitempty"`
	SecurityTermPageMessage *string `json:"security_term_page_message,omitempty"`
}

// UpdateSurveyRequest represents the request to update an existing survey.
// The slug is immutable; only the listed fields may change.
type UpdateSurveyRequest struct {
	Slug        string  `json:"-"`
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	ClientURL   *string `json:"client_url,omitempty" validate:"omitempty,url"`
	IsActive    *bool   `json:"is_active,omitempty"`

	CompletePageMessage     *string `json:"complete_page_message,omitempty"`
	TerminatePageMessage    *string `json:"terminate_page_message,omitempty"`
	QuotaFullPageMessage    *string `json:"quota_full_page_message,omitempty"`
	SecurityTermPageMessage *string `json:"security_term_page_message,omitempty"`
}

// SurveyDTO represents a survey in API responses
type SurveyDTO struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
	ClientURL   string  `json:"client_url"`
	IsActive    bool    `json:"is_active"`

	TotalSessions      int64 `json:"total_sessions"`
	CompletedSessions  int64 `json:"completed_sessions"`
	QuotaFullSessions  int64 `json:"quota_full_sessions"`
	TerminatedSessions int64 `json:"terminated_sessions"`

	CompletePageMessage     string `json:"complete_page_message"`
	TerminatePageMessage    string `json:"terminate_page_message"`
	QuotaFullPageMessage    string `json:"quota_full_page_message"`
	SecurityTermPageMessage string `json:"security_term_page_message"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListSurveysRequest represents the request to list surveys
type ListSurveysRequest struct {
	Page     int   `json:"page" validate:"omitempty,min=1"`
	PageSize int   `json:"page_size" validate:"omitempty,min=1,max=100"`
	IsActive *bool `json:"is_active,omitempty"`
}

// ListSurveysResponse represents the response to list surveys
type ListSurveysResponse struct {
	Surveys    []SurveyDTO   `json:"surveys"`
	Pagination PaginationDTO `json:"pagination"`
}
