package models

import "time"

// Analytics event types
const (
	EventTypeEntry = "entry"
	EventTypeExit  = "exit"
)

// AnalyticsEvent is an append-only record of a routing decision. Writes
// are best effort and never affect the redirect outcome.
type AnalyticsEvent struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	EventType string `gorm:"size:16;not null;index:idx_analytics_events_event_type" json:"event_type"`
	SurveyID  uint   `gorm:"not null;index:idx_analytics_events_survey_id" json:"survey_id"`
	VendorID  uint   `gorm:"not null;index:idx_analytics_events_vendor_id" json:"vendor_id"`
	SessionID *uint  `gorm:"index:idx_analytics_events_session_id" json:"session_id,omitempty"`

	Status    *string `gorm:"size:16" json:"status,omitempty"`
	LatencyMS *int64  `gorm:"column:latency_ms" json:"latency_ms,omitempty"`
	IPAddress *string `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent *string `gorm:"type:text" json:"user_agent,omitempty"`

	OccurredAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_analytics_events_occurred_at" json:"occurred_at"`
}

// TableName returns the table name for AnalyticsEvent
func (AnalyticsEvent) TableName() string { return "analytics_events" }

// AnalyticsEventFilter provides filter fields for repository queries
type AnalyticsEventFilter struct {
	ID             *uint
	EventType      *string
	SurveyID       *uint
	VendorID       *uint
	SessionID      *uint
	OccurredAfter  *time.Time
	OccurredBefore *time.Time
}
