// Package businessflow contains the core business logic and use cases for panel routing workflows
package businessflow

import (
	"context"
	"time"

	"github.com/panelbridge/panelbridge/app/dto"
	"github.com/panelbridge/panelbridge/models"
	"github.com/panelbridge/panelbridge/repository"
)

// SessionAdminFlow exposes session listings and aggregates to operators
type SessionAdminFlow interface {
	ListSessions(ctx context.Context, req *dto.ListSessionsRequest) (*dto.ListSessionsResponse, error)
	GetSessionStats(ctx context.Context, surveySlug string) (*dto.SessionStatsDTO, error)
}

// SessionAdminFlowImpl implements the session admin business flow
type SessionAdminFlowImpl struct {
	surveyRepo  repository.SurveyRepository
	vendorRepo  repository.VendorRepository
	sessionRepo repository.SessionRepository
}

// NewSessionAdminFlow creates a new session admin flow instance
func NewSessionAdminFlow(
	surveyRepo repository.SurveyRepository,
	vendorRepo repository.VendorRepository,
	sessionRepo repository.SessionRepository,
) SessionAdminFlow {
	return &SessionAdminFlowImpl{
		surveyRepo:  surveyRepo,
		vendorRepo:  vendorRepo,
		sessionRepo: sessionRepo,
	}
}

// ListSessions retrieves sessions of a survey with pagination and
// optional status and vendor filters
func (s *SessionAdminFlowImpl) ListSessions(ctx context.Context, req *dto.ListSessionsRequest) (*dto.ListSessionsResponse, error) {
	page := req.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, ErrInvalidPage
	}
	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, ErrInvalidPageSize
	}

	survey, err := s.surveyRepo.BySlug(ctx, req.SurveySlug)
	if err != nil {
		return nil, NewBusinessError("SURVEY_LOOKUP_FAILED", "Failed to look up survey", err)
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}

	filter := models.SessionFilter{
		SurveyID: &survey.ID,
		Status:   req.Status,
	}
	if req.VendorSlug != nil {
		vendor, err := s.vendorRepo.BySurveyAndSlug(ctx, survey.ID, *req.VendorSlug)
		if err != nil {
			return nil, NewBusinessError("VENDOR_LOOKUP_FAILED", "Failed to look up vendor", err)
		}
		if vendor == nil {
			return nil, ErrVendorNotFound
		}
		filter.VendorID = &vendor.ID
	}

	total, err := s.sessionRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("SESSION_LIST_FAILED", "Failed to count sessions", err)
	}

	sessions, err := s.sessionRepo.ByFilter(ctx, filter, "entered_at DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("SESSION_LIST_FAILED", "Failed to list sessions", err)
	}

	out := make([]dto.SessionDTO, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, *ToSessionDTO(session))
	}

	return &dto.ListSessionsResponse{
		Sessions: out,
		Pagination: dto.PaginationDTO{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	}, nil
}

// GetSessionStats aggregates session outcomes for a survey. Counts come
// from the session table itself rather than the survey counters, so the
// two can be cross-checked against each other.
func (s *SessionAdminFlowImpl) GetSessionStats(ctx context.Context, surveySlug string) (*dto.SessionStatsDTO, error) {
	survey, err := s.surveyRepo.BySlug(ctx, surveySlug)
	if err != nil {
		return nil, NewBusinessError("SURVEY_LOOKUP_FAILED", "Failed to look up survey", err)
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}

	stats := &dto.SessionStatsDTO{SurveySlug: survey.Slug}

	for _, status := range []string{
		models.SessionStatusActive,
		models.SessionStatusComplete,
		models.SessionStatusQuotaFull,
		models.SessionStatusTerminate,
	} {
		st := status
		count, err := s.sessionRepo.Count(ctx, models.SessionFilter{SurveyID: &survey.ID, Status: &st})
		if err != nil {
			return nil, NewBusinessError("SESSION_STATS_FAILED", "Failed to aggregate sessions", err)
		}
		switch status {
		case models.SessionStatusActive:
			stats.ActiveSessions = count
		case models.SessionStatusComplete:
			stats.CompletedSessions = count
		case models.SessionStatusQuotaFull:
			stats.QuotaFullSessions = count
		case models.SessionStatusTerminate:
			stats.TerminatedSessions = count
		}
	}
	stats.TotalSessions = stats.ActiveSessions + stats.CompletedSessions + stats.QuotaFullSessions + stats.TerminatedSessions

	resolved := stats.CompletedSessions + stats.QuotaFullSessions + stats.TerminatedSessions
	if resolved > 0 {
		stats.CompletionRate = float64(stats.CompletedSessions) / float64(resolved)
	}

	return stats, nil
}

// ToSessionDTO converts a session model to its API representation
func ToSessionDTO(session *models.Session) *dto.SessionDTO {
	out := &dto.SessionDTO{
		ID:           session.ID,
		SessionID:    session.SessionID,
		TrackingID:   session.TrackingID,
		Status:       session.Status,
		RespondentID: session.RespondentID,
		IPAddress:    session.IPAddress,
		UserAgent:    session.UserAgent,
		Referrer:     session.Referrer,
		EnteredAt:    session.EnteredAt.Format(time.RFC3339),
	}
	if session.Survey != nil {
		out.SurveySlug = session.Survey.Slug
	}
	if session.Vendor != nil {
		out.VendorSlug = session.Vendor.Slug
	}
	if session.ResolvedAt != nil {
		resolvedAt := session.ResolvedAt.Format(time.RFC3339)
		out.ResolvedAt = &resolvedAt
	}
	out.DurationMS = session.DurationMS
	out.EntryParams = make([]dto.SessionQueryParamDTO, 0, len(session.EntryParams))
	for _, p := range session.EntryParams {
		out.EntryParams = append(out.EntryParams, dto.SessionQueryParamDTO{Key: p.Key, Value: p.Value})
	}
	return out
}
