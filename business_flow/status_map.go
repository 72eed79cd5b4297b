// Package businessflow contains the core business logic and use cases for panel routing workflows
package businessflow

import (
	"strings"

	"github.com/panelbridge/panelbridge/models"
)

// ExitOutcome is the result of normalizing a raw exit status parameter
type ExitOutcome struct {
	// Status is the terminal session status
	Status string
	// Security marks terminations caused by security screening, which
	// select the security-specific vendor callback and page copy
	Security bool
	// PageTitle is the heading shown on the interstitial and status pages
	PageTitle string
}

// MapExitStatus normalizes the raw status parameter from an exit link
// into a terminal outcome. Numeric codes come from slug-generation links,
// word forms from legacy links. Anything unrecognized terminates: an
// attacker probing with garbage must never mint a complete.
func MapExitStatus(raw string) ExitOutcome {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "complete", "completed":
		return ExitOutcome{Status: models.SessionStatusComplete, PageTitle: "Survey Completed"}
	case "3", "quota_full", "quotafull":
		return ExitOutcome{Status: models.SessionStatusQuotaFull, PageTitle: "Quota Full"}
	case "4", "security", "security_term":
		return ExitOutcome{Status: models.SessionStatusTerminate, Security: true, PageTitle: "Survey Terminated"}
	default:
		return ExitOutcome{Status: models.SessionStatusTerminate, PageTitle: "Survey Terminated"}
	}
}

// ParseStatusPage maps a status-page path segment to the session status
// whose message the page shows. Unknown segments are rejected rather than
// defaulted; status pages are operator-facing, not respondent-facing.
func ParseStatusPage(segment string) (status string, security bool, err error) {
	switch strings.ToLower(segment) {
	case "complete", "completed":
		return models.SessionStatusComplete, false, nil
	case "terminate", "terminated":
		return models.SessionStatusTerminate, false, nil
	case "quota-full", "quota_full", "quotafull":
		return models.SessionStatusQuotaFull, false, nil
	case "security", "security-term", "security_term":
		return models.SessionStatusTerminate, true, nil
	default:
		return "", false, ErrInvalidStatusPage
	}
}
