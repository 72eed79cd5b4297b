package utils

// ContextKey is the type for request-scoped context values
type ContextKey string

// Request-scoped context keys set by handlers for downstream flows
const (
	RequestIDKey ContextKey = "request_id"
	IPAddressKey ContextKey = "ip_address"
	UserAgentKey ContextKey = "user_agent"
	EndpointKey  ContextKey = "endpoint"
	TimeoutKey   ContextKey = "timeout"
)

// Vendor defaults applied when the operator leaves the fields blank
const (
	// DefaultEntryParameter is the inbound query parameter carrying the
	// respondent identifier assigned by the vendor
	DefaultEntryParameter = "user_id"

	// DefaultParameterPlaceholder is the token substituted into vendor
	// callback URLs, written as {{TOID}} in the stored templates
	DefaultParameterPlaceholder = "TOID"
)

// Tracking identifier format: TRACK_ followed by six characters
const (
	TrackingIDPrefix  = "TRACK_"
	TrackingIDLength  = 6
	TrackingIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)
