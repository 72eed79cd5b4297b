// Package businessflow contains the core business logic and use cases for panel routing workflows
package businessflow

import (
	"context"
	"log"
	"time"

	"github.com/panelbridge/panelbridge/app/dto"
	"github.com/panelbridge/panelbridge/models"
	"github.com/panelbridge/panelbridge/repository"
	"github.com/panelbridge/panelbridge/urlbuilder"
	"github.com/panelbridge/panelbridge/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SurveyFlow handles the survey management business logic
type SurveyFlow interface {
	CreateSurvey(ctx context.Context, req *dto.CreateSurveyRequest, metadata *ClientMetadata) (*dto.SurveyDTO, error)
	GetSurvey(ctx context.Context, slug string) (*dto.SurveyDTO, error)
	ListSurveys(ctx context.Context, req *dto.ListSurveysRequest) (*dto.ListSurveysResponse, error)
	UpdateSurvey(ctx context.Context, req *dto.UpdateSurveyRequest, metadata *ClientMetadata) (*dto.SurveyDTO, error)
	DeleteSurvey(ctx context.Context, slug string, metadata *ClientMetadata) error
}

// SurveyFlowImpl implements the survey business flow
type SurveyFlowImpl struct {
	surveyRepo    repository.SurveyRepository
	vendorRepo    repository.VendorRepository
	sessionRepo   repository.SessionRepository
	analyticsRepo repository.AnalyticsEventRepository
	rc            *redis.Client
	db            *gorm.DB
}

// NewSurveyFlow creates a new survey flow instance
func NewSurveyFlow(
	surveyRepo repository.SurveyRepository,
	vendorRepo repository.VendorRepository,
	sessionRepo repository.SessionRepository,
	analyticsRepo repository.AnalyticsEventRepository,
	rc *redis.Client,
	db *gorm.DB,
) SurveyFlow {
	return &SurveyFlowImpl{
		surveyRepo:    surveyRepo,
		vendorRepo:    vendorRepo,
		sessionRepo:   sessionRepo,
		analyticsRepo: analyticsRepo,
		rc:            rc,
		db:            db,
	}
}

// CreateSurvey validates the request, mints a unique slug, and persists
// the survey with default page messages filled in
func (s *SurveyFlowImpl) CreateSurvey(ctx context.Context, req *dto.CreateSurveyRequest, metadata *ClientMetadata) (*dto.SurveyDTO, error) {
	if req.Name == "" {
		return nil, ErrSurveyNameRequired
	}
	if req.ClientURL == "" {
		return nil, ErrSurveyURLRequired
	}
	if err := urlbuilder.Validate(req.ClientURL); err != nil {
		return nil, ErrSurveyURLInvalid
	}

	slug, err := GenerateSurveySlug(ctx, s.surveyRepo, req.Name)
	if err != nil {
		return nil, NewBusinessError("SLUG_GENERATION_FAILED", "Failed to generate survey slug", err)
	}

	survey := &models.Survey{
		Name:      req.Name,
		Slug:      slug,
		ClientURL: req.ClientURL,
		IsActive:  utils.ToPtr(true),
	}
	if req.Description != nil {
		survey.Description = req.Description
	}
	if req.CompletePageMessage != nil {
		survey.CompletePageMessage = *req.CompletePageMessage
	}
	if req.TerminatePageMessage != nil {
		survey.TerminatePageMessage = *req.TerminatePageMessage
	}
	if req.QuotaFullPageMessage != nil {
		survey.QuotaFullPageMessage = *req.QuotaFullPageMessage
	}
	if req.SecurityTermPageMessage != nil {
		survey.SecurityTermPageMessage = *req.SecurityTermPageMessage
	}
	survey.ApplyDefaultMessages()

	if err := s.surveyRepo.Save(ctx, survey); err != nil {
		return nil, NewBusinessError("SURVEY_CREATE_FAILED", "Failed to create survey", err)
	}

	return ToSurveyDTO(survey), nil
}

// GetSurvey retrieves a survey by slug
func (s *SurveyFlowImpl) GetSurvey(ctx context.Context, slug string) (*dto.SurveyDTO, error) {
	survey, err := s.surveyRepo.BySlug(ctx, slug)
	if err != nil {
		return nil, NewBusinessError("SURVEY_LOOKUP_FAILED", "Failed to look up survey", err)
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	return ToSurveyDTO(survey), nil
}

// ListSurveys retrieves surveys with pagination
func (s *SurveyFlowImpl) ListSurveys(ctx context.Context, req *dto.ListSurveysRequest) (*dto.ListSurveysResponse, error) {
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

	filter := models.SurveyFilter{IsActive: req.IsActive}
	total, err := s.surveyRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("SURVEY_LIST_FAILED", "Failed to count surveys", err)
	}

	surveys, err := s.surveyRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("SURVEY_LIST_FAILED", "Failed to list surveys", err)
	}

	out := make([]dto.SurveyDTO, 0, len(surveys))
	for _, survey := range surveys {
		out = append(out, *ToSurveyDTO(survey))
	}

	return &dto.ListSurveysResponse{
		Surveys: out,
		Pagination: dto.PaginationDTO{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	}, nil
}

// UpdateSurvey applies partial changes to a survey. The slug never
// changes, even when the name does.
func (s *SurveyFlowImpl) UpdateSurvey(ctx context.Context, req *dto.UpdateSurveyRequest, metadata *ClientMetadata) (*dto.SurveyDTO, error) {
	survey, err := s.surveyRepo.BySlug(ctx, req.Slug)
	if err != nil {
		return nil, NewBusinessError("SURVEY_LOOKUP_FAILED", "Failed to look up survey", err)
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrSurveyNameRequired
		}
		survey.Name = *req.Name
	}
	if req.Description != nil {
		survey.Description = req.Description
	}
	if req.ClientURL != nil {
		if err := urlbuilder.Validate(*req.ClientURL); err != nil {
			return nil, ErrSurveyURLInvalid
		}
		survey.ClientURL = *req.ClientURL
	}
	if req.IsActive != nil {
		survey.IsActive = req.IsActive
	}
	if req.CompletePageMessage != nil {
		survey.CompletePageMessage = *req.CompletePageMessage
	}
	if req.TerminatePageMessage != nil {
		survey.TerminatePageMessage = *req.TerminatePageMessage
	}
	if req.QuotaFullPageMessage != nil {
		survey.QuotaFullPageMessage = *req.QuotaFullPageMessage
	}
	if req.SecurityTermPageMessage != nil {
		survey.SecurityTermPageMessage = *req.SecurityTermPageMessage
	}
	survey.ApplyDefaultMessages()
	survey.UpdatedAt = utils.UTCNow()

	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return nil, NewBusinessError("SURVEY_UPDATE_FAILED", "Failed to update survey", err)
	}

	s.invalidateMessageCache(ctx, survey.Slug)

	return ToSurveyDTO(survey), nil
}

// DeleteSurvey removes a survey with all of its vendors, sessions, and
// analytics events in one transaction
func (s *SurveyFlowImpl) DeleteSurvey(ctx context.Context, slug string, metadata *ClientMetadata) error {
	survey, err := s.surveyRepo.BySlug(ctx, slug)
	if err != nil {
		return NewBusinessError("SURVEY_LOOKUP_FAILED", "Failed to look up survey", err)
	}
	if survey == nil {
		return ErrSurveyNotFound
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.analyticsRepo.DeleteBySurvey(txCtx, survey.ID); err != nil {
			return err
		}
		if err := s.sessionRepo.DeleteBySurvey(txCtx, survey.ID); err != nil {
			return err
		}
		if err := s.vendorRepo.DeleteBySurvey(txCtx, survey.ID); err != nil {
			return err
		}
		return s.surveyRepo.Delete(txCtx, survey.ID)
	})
	if err != nil {
		return NewBusinessError("SURVEY_DELETE_FAILED", "Failed to delete survey", err)
	}

	s.invalidateMessageCache(ctx, slug)

	return nil
}

// invalidateMessageCache drops the cached status-page messages for a
// survey. Best effort; the cache entry expires on its own TTL anyway.
func (s *SurveyFlowImpl) invalidateMessageCache(ctx context.Context, slug string) {
	if s.rc == nil {
		return
	}
	if err := s.rc.Del(ctx, statusPageCacheKey(slug)).Err(); err != nil {
		log.Printf("failed to invalidate status page cache for %s: %v", slug, err)
	}
}

// ToSurveyDTO converts a survey model to its API representation
func ToSurveyDTO(survey *models.Survey) *dto.SurveyDTO {
	return &dto.SurveyDTO{
		ID:          survey.ID,
		Name:        survey.Name,
		Slug:        survey.Slug,
		Description: survey.Description,
		ClientURL:   survey.ClientURL,
		IsActive:    utils.IsTrue(survey.IsActive),

		TotalSessions:      survey.TotalSessions,
		CompletedSessions:  survey.CompletedSessions,
		QuotaFullSessions:  survey.QuotaFullSessions,
		TerminatedSessions: survey.TerminatedSessions,

		CompletePageMessage:     survey.CompletePageMessage,
		TerminatePageMessage:    survey.TerminatePageMessage,
		QuotaFullPageMessage:    survey.QuotaFullPageMessage,
		SecurityTermPageMessage: survey.SecurityTermPageMessage,

		CreatedAt: survey.CreatedAt.Format(time.RFC3339),
		UpdatedAt: survey.UpdatedAt.Format(time.RFC3339),
	}
}
