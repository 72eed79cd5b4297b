// Package businessflow contains the core business logic and use cases for panel routing workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/panelbridge/panelbridge/models"
	"github.com/panelbridge/panelbridge/repository"
)

// VendorAddress abstracts the two link generations that can identify a
// vendor at entry time. UUID links predate survey slugs and carry no
// survey component; slug links scope the vendor to its survey. Both
// resolve to the same vendor and survey pair and the session engine never
// cares which form arrived.
type VendorAddress interface {
	// Resolve loads the vendor and its owning survey. A nil vendor with a
	// nil error means the address points at nothing.
	Resolve(ctx context.Context, surveys repository.SurveyRepository, vendors repository.VendorRepository) (*models.Vendor, *models.Survey, error)
	// ExitURL builds the absolute exit link the survey platform sends the
	// respondent back to for this address form.
	ExitURL(baseURL string, session *models.Session, survey *models.Survey) string
	// TokenParam is the query parameter appended to the outbound survey
	// URL so the platform can pipe the exit token back.
	TokenParam(session *models.Session) (key, value string)
	// DefaultExitStatus is the status assumed when the exit link comes
	// back without a status parameter.
	DefaultExitStatus() string
	// Name labels the addressing form in logs and metrics.
	Name() string
}

// UUIDAddress identifies a vendor by its opaque identifier (/v/ links)
type UUIDAddress struct {
	VendorUUID uuid.UUID
}

// Resolve loads the vendor by UUID and its survey through the preloaded
// association
func (a UUIDAddress) Resolve(ctx context.Context, surveys repository.SurveyRepository, vendors repository.VendorRepository) (*models.Vendor, *models.Survey, error) {
	vendor, err := vendors.ByUUID(ctx, a.VendorUUID)
	if err != nil {
		return nil, nil, err
	}
	if vendor == nil {
		return nil, nil, nil
	}

	survey := vendor.Survey
	if survey == nil {
		survey, err = surveys.ByID(ctx, vendor.SurveyID)
		if err != nil {
			return nil, nil, err
		}
	}
	return vendor, survey, nil
}

// ExitURL returns the legacy exit form addressed by the session id
func (a UUIDAddress) ExitURL(baseURL string, session *models.Session, survey *models.Survey) string {
	return fmt.Sprintf("%s/r/%s", baseURL, session.SessionID)
}

// TokenParam returns the session id parameter carried by legacy links
func (a UUIDAddress) TokenParam(session *models.Session) (string, string) {
	return "sid", session.SessionID
}

// DefaultExitStatus returns the word form used by legacy links
func (a UUIDAddress) DefaultExitStatus() string {
	return "terminate"
}

// Name labels the legacy addressing form
func (a UUIDAddress) Name() string { return "uuid" }

// SlugAddress identifies a vendor by survey and vendor slugs (/r/ links)
type SlugAddress struct {
	SurveySlug string
	VendorSlug string
}

// Resolve loads the survey by slug, then the vendor scoped to it
func (a SlugAddress) Resolve(ctx context.Context, surveys repository.SurveyRepository, vendors repository.VendorRepository) (*models.Vendor, *models.Survey, error) {
	survey, err := surveys.BySlug(ctx, a.SurveySlug)
	if err != nil {
		return nil, nil, err
	}
	if survey == nil {
		return nil, nil, nil
	}

	vendor, err := vendors.BySurveyAndSlug(ctx, survey.ID, a.VendorSlug)
	if err != nil {
		return nil, nil, err
	}
	if vendor == nil {
		return nil, nil, nil
	}
	return vendor, survey, nil
}

// ExitURL returns the slug exit form addressed by the tracking id
func (a SlugAddress) ExitURL(baseURL string, session *models.Session, survey *models.Survey) string {
	return fmt.Sprintf("%s/exit/%s?tracking_id=%s", baseURL, survey.Slug, session.TrackingID)
}

// TokenParam returns the tracking id parameter carried by slug links
func (a SlugAddress) TokenParam(session *models.Session) (string, string) {
	return "tracking_id", session.TrackingID
}

// DefaultExitStatus returns the numeric terminate code used by slug links
func (a SlugAddress) DefaultExitStatus() string {
	return "2"
}

// Name labels the slug addressing form
func (a SlugAddress) Name() string { return "slug" }
