// Package businessflow contains the core business logic and use cases for panel routing workflows
package businessflow

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/panelbridge/panelbridge/models"
	"github.com/panelbridge/panelbridge/repository"
	"github.com/panelbridge/panelbridge/urlbuilder"
	"github.com/panelbridge/panelbridge/utils"
	"gorm.io/gorm"
)

// OpenResult is the outcome of a successful vendor entry
type OpenResult struct {
	Session     *models.Session
	Survey      *models.Survey
	Vendor      *models.Vendor
	RedirectURL string
}

// ResolveResult is the outcome of a successful exit resolution
type ResolveResult struct {
	Session     *models.Session
	Survey      *models.Survey
	Vendor      *models.Vendor
	Outcome     ExitOutcome
	RedirectURL string
	Message     string
}

// SessionFlow is the redirect core: it opens a session when a respondent
// arrives from a vendor and resolves it exactly once when they come back
// from the survey platform.
type SessionFlow interface {
	OpenSession(ctx context.Context, addr VendorAddress, entryParams models.QueryParams, metadata *ClientMetadata) (*OpenResult, error)
	// ResolveSession resolves the session addressed by exitToken. A
	// non-empty surveySlug scopes the lookup to that survey; legacy exit
	// links carry no slug and pass "".
	ResolveSession(ctx context.Context, surveySlug, exitToken, rawStatus string, exitParams models.QueryParams, metadata *ClientMetadata) (*ResolveResult, error)
}

// SessionFlowImpl implements the session business flow
type SessionFlowImpl struct {
	surveyRepo    repository.SurveyRepository
	vendorRepo    repository.VendorRepository
	sessionRepo   repository.SessionRepository
	analyticsRepo repository.AnalyticsEventRepository
	db            *gorm.DB
	baseURL       string
}

// NewSessionFlow creates a new session flow instance
func NewSessionFlow(
	surveyRepo repository.SurveyRepository,
	vendorRepo repository.VendorRepository,
	sessionRepo repository.SessionRepository,
	analyticsRepo repository.AnalyticsEventRepository,
	db *gorm.DB,
	baseURL string,
) SessionFlow {
	return &SessionFlowImpl{
		surveyRepo:    surveyRepo,
		vendorRepo:    vendorRepo,
		sessionRepo:   sessionRepo,
		analyticsRepo: analyticsRepo,
		db:            db,
		baseURL:       baseURL,
	}
}

// OpenSession resolves the vendor address, creates an active session, and
// builds the outbound survey URL. The session row and both total-session
// counters commit in one transaction so a respondent either fully exists
// in the books or not at all.
func (s *SessionFlowImpl) OpenSession(ctx context.Context, addr VendorAddress, entryParams models.QueryParams, metadata *ClientMetadata) (*OpenResult, error) {
	vendor, survey, err := addr.Resolve(ctx, s.surveyRepo, s.vendorRepo)
	if err != nil {
		return nil, NewBusinessError("VENDOR_RESOLUTION_FAILED", "Failed to resolve vendor", err)
	}
	if vendor == nil || survey == nil {
		return nil, ErrVendorNotFound
	}
	if !utils.IsTrue(survey.IsActive) {
		return nil, ErrSurveyInactive
	}
	if !utils.IsTrue(vendor.IsActive) {
		return nil, ErrVendorInactive
	}

	// A survey with a broken client URL must fail loudly before any
	// session is written.
	if err := urlbuilder.Validate(survey.ClientURL); err != nil {
		return nil, ErrSurveyURLInvalid
	}

	trackingID, err := NewTrackingID()
	if err != nil {
		return nil, NewBusinessError("TRACKING_ID_FAILED", "Failed to generate tracking id", err)
	}

	respondentID, _ := entryParams.Get(vendor.EntryParameter)

	session := &models.Session{
		SessionID:    uuid.New().String(),
		TrackingID:   trackingID,
		SurveyID:     survey.ID,
		VendorID:     vendor.ID,
		Status:       models.SessionStatusActive,
		RespondentID: respondentID,
		EntryParams:  entryParams,
		EnteredAt:    utils.UTCNow(),
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			session.IPAddress = utils.ToPtr(metadata.IPAddress)
		}
		if metadata.UserAgent != "" {
			session.UserAgent = utils.ToPtr(metadata.UserAgent)
		}
		if metadata.Referrer != "" {
			session.Referrer = utils.ToPtr(metadata.Referrer)
		}
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.sessionRepo.Save(txCtx, session); err != nil {
			return err
		}
		if err := s.surveyRepo.IncrementTotalSessions(txCtx, survey.ID); err != nil {
			return err
		}
		return s.vendorRepo.IncrementTotalSessions(txCtx, vendor.ID)
	})
	if err != nil {
		return nil, NewBusinessError("SESSION_OPEN_FAILED", "Failed to open session", err)
	}

	// The outbound URL replays the entry parameters in arrival order, then
	// carries the exit token and the absolute link the platform sends the
	// respondent back through.
	tokenKey, tokenValue := addr.TokenParam(session)
	params := make([]urlbuilder.Param, 0, len(entryParams)+2)
	for _, p := range entryParams {
		params = append(params, urlbuilder.Param{Key: p.Key, Value: p.Value})
	}
	params = append(params, urlbuilder.Param{Key: tokenKey, Value: tokenValue})
	params = append(params, urlbuilder.Param{Key: "return_url", Value: addr.ExitURL(s.baseURL, session, survey)})

	redirectURL, err := urlbuilder.Build(survey.ClientURL, params)
	if err != nil {
		return nil, ErrSurveyURLInvalid
	}

	sessionsOpenedTotal.WithLabelValues(addr.Name()).Inc()
	s.recordEvent(ctx, models.EventTypeEntry, survey.ID, vendor.ID, &session.ID, nil, session.EnteredAt, metadata)

	return &OpenResult{
		Session:     session,
		Survey:      survey,
		Vendor:      vendor,
		RedirectURL: redirectURL,
	}, nil
}

// ResolveSession transitions the session to its terminal status and
// builds the vendor callback URL. The conditional update inside the
// transaction makes resolution one-shot: a second exit with the same
// token rolls back and reports the session as already resolved.
func (s *SessionFlowImpl) ResolveSession(ctx context.Context, surveySlug, exitToken, rawStatus string, exitParams models.QueryParams, metadata *ClientMetadata) (*ResolveResult, error) {
	startedAt := utils.UTCNow()

	session, err := s.sessionRepo.ByExitToken(ctx, exitToken)
	if err != nil {
		return nil, NewBusinessError("SESSION_LOOKUP_FAILED", "Failed to look up session", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	survey := session.Survey
	vendor := session.Vendor
	if survey == nil || vendor == nil {
		return nil, NewBusinessError("SESSION_CORRUPT", "Session is missing survey or vendor", nil)
	}

	// A token presented under the wrong survey slug resolves nothing; the
	// session stays untouched for the correctly scoped link.
	if surveySlug != "" && survey.Slug != surveySlug {
		return nil, ErrSessionNotFound
	}

	outcome := MapExitStatus(rawStatus)

	if session.IsTerminal() {
		duplicateResolutionsTotal.Inc()
		return nil, ErrSessionAlreadyResolved
	}

	callbackTemplate := vendor.CallbackURLFor(outcome.Status, outcome.Security)
	if err := urlbuilder.Validate(callbackTemplate); err != nil {
		return nil, ErrVendorURLInvalid
	}

	// The respondent id captured at entry wins; a same-named parameter on
	// the exit request covers vendors that only pipe the id through the
	// survey platform.
	respondentID := session.RespondentID
	if respondentID == "" {
		respondentID, _ = exitParams.Get(vendor.EntryParameter)
	}
	redirectURL := urlbuilder.SubstitutePlaceholder(callbackTemplate, vendor.ParameterPlaceholder, respondentID)

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		resolved, err := s.sessionRepo.ResolveActive(txCtx, session.ID, outcome.Status)
		if err != nil {
			return err
		}
		if !resolved {
			return ErrSessionAlreadyResolved
		}
		if err := s.surveyRepo.IncrementOutcome(txCtx, survey.ID, outcome.Status); err != nil {
			return err
		}
		return s.vendorRepo.IncrementOutcome(txCtx, vendor.ID, outcome.Status)
	})
	if err != nil {
		if IsSessionAlreadyResolved(err) {
			duplicateResolutionsTotal.Inc()
			return nil, ErrSessionAlreadyResolved
		}
		return nil, NewBusinessError("SESSION_RESOLVE_FAILED", "Failed to resolve session", err)
	}

	session.Status = outcome.Status
	session.ResolvedAt = utils.UTCNowPtr()
	session.DurationMS = utils.ToPtr(session.ResolvedAt.Sub(session.EnteredAt).Milliseconds())

	sessionsResolvedTotal.WithLabelValues(outcome.Status).Inc()
	s.recordEvent(ctx, models.EventTypeExit, survey.ID, vendor.ID, &session.ID, &outcome.Status, startedAt, metadata)

	return &ResolveResult{
		Session:     session,
		Survey:      survey,
		Vendor:      vendor,
		Outcome:     outcome,
		RedirectURL: redirectURL,
		Message:     survey.MessageFor(outcome.Status, outcome.Security),
	}, nil
}

// recordEvent writes an analytics row outside the main transaction.
// Failures are logged and swallowed; analytics must never break a
// redirect.
func (s *SessionFlowImpl) recordEvent(ctx context.Context, eventType string, surveyID, vendorID uint, sessionID *uint, status *string, startedAt time.Time, metadata *ClientMetadata) {
	event := &models.AnalyticsEvent{
		EventType:  eventType,
		SurveyID:   surveyID,
		VendorID:   vendorID,
		SessionID:  sessionID,
		Status:     status,
		LatencyMS:  utils.ToPtr(time.Since(startedAt).Milliseconds()),
		OccurredAt: utils.UTCNow(),
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			event.IPAddress = utils.ToPtr(metadata.IPAddress)
		}
		if metadata.UserAgent != "" {
			event.UserAgent = utils.ToPtr(metadata.UserAgent)
		}
	}

	if err := s.analyticsRepo.Save(ctx, event); err != nil {
		log.Printf("analytics %s event dropped: %v", eventType, err)
	}
}
