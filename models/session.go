package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// QueryParam is a single query-string pair captured at entry time
type QueryParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// QueryParams preserves the arrival order and case of the entry query
// string. Stored as a jsonb array so replaying the parameters onto the
// outbound survey URL reproduces the original order exactly.
type QueryParams []QueryParam

// Get returns the value of the first parameter with the given key
func (q QueryParams) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Value implements driver.Valuer for jsonb storage
func (q QueryParams) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	b, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for jsonb storage
func (q *QueryParams) Scan(value any) error {
	if value == nil {
		*q = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for QueryParams: %T", value)
	}
	return json.Unmarshal(data, q)
}

// Session tracks one respondent's pass through the router, from vendor
// entry to terminal exit. SessionID is the legacy exit token; TrackingID
// is the slug-generation exit token. Status transitions exactly once,
// from active to a terminal value.
type Session struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	SessionID  string  `gorm:"size:64;not null;uniqueIndex:uk_sessions_session_id" json:"session_id"`
	TrackingID string  `gorm:"size:32;not null;uniqueIndex:uk_sessions_tracking_id" json:"tracking_id"`
	SurveyID   uint    `gorm:"not null;index:idx_sessions_survey_id" json:"survey_id"`
	Survey     *Survey `gorm:"foreignKey:SurveyID;references:ID" json:"survey,omitempty"`
	VendorID   uint    `gorm:"not null;index:idx_sessions_vendor_id" json:"vendor_id"`
	Vendor     *Vendor `gorm:"foreignKey:VendorID;references:ID" json:"vendor,omitempty"`

	Status       string      `gorm:"size:16;not null;default:'active';index:idx_sessions_status" json:"status"`
	RespondentID string      `gorm:"size:255" json:"respondent_id"`
	EntryParams  QueryParams `gorm:"type:jsonb;not null;default:'[]'" json:"entry_params"`

	IPAddress *string `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent *string `gorm:"type:text" json:"user_agent,omitempty"`
	Referrer  *string `gorm:"type:text" json:"referrer,omitempty"`

	EnteredAt  time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_sessions_entered_at" json:"entered_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	DurationMS *int64     `gorm:"column:duration_ms" json:"duration_ms,omitempty"`
	CreatedAt  time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for Session
func (Session) TableName() string { return "sessions" }

// IsTerminal reports whether the session has already been resolved
func (s *Session) IsTerminal() bool {
	return s.Status != SessionStatusActive
}

// SessionFilter provides filter fields for repository queries
type SessionFilter struct {
	ID            *uint
	SessionID     *string
	TrackingID    *string
	SurveyID      *uint
	VendorID      *uint
	Status        *string
	EnteredAfter  *time.Time
	EnteredBefore *time.Time
}
