// Package businessflow contains the core business logic and use cases for panel routing workflows
package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/panelbridge/panelbridge/app/dto"
	"github.com/panelbridge/panelbridge/models"
	"github.com/panelbridge/panelbridge/repository"
	"github.com/panelbridge/panelbridge/urlbuilder"
	"github.com/panelbridge/panelbridge/utils"
	"gorm.io/gorm"
)

// VendorFlow handles the vendor management business logic
type VendorFlow interface {
	CreateVendor(ctx context.Context, req *dto.CreateVendorRequest, metadata *ClientMetadata) (*dto.VendorDTO, error)
	GetVendor(ctx context.Context, surveySlug, vendorSlug string) (*dto.VendorDTO, error)
	ListVendors(ctx context.Context, surveySlug string) (*dto.ListVendorsResponse, error)
	UpdateVendor(ctx context.Context, req *dto.UpdateVendorRequest, metadata *ClientMetadata) (*dto.VendorDTO, error)
	DeleteVendor(ctx context.Context, surveySlug, vendorSlug string, metadata *ClientMetadata) error
}

// VendorFlowImpl implements the vendor business flow
type VendorFlowImpl struct {
	surveyRepo  repository.SurveyRepository
	vendorRepo  repository.VendorRepository
	sessionRepo repository.SessionRepository
	db          *gorm.DB
	baseURL     string
}

// NewVendorFlow creates a new vendor flow instance
func NewVendorFlow(
	surveyRepo repository.SurveyRepository,
	vendorRepo repository.VendorRepository,
	sessionRepo repository.SessionRepository,
	db *gorm.DB,
	baseURL string,
) VendorFlow {
	return &VendorFlowImpl{
		surveyRepo:  surveyRepo,
		vendorRepo:  vendorRepo,
		sessionRepo: sessionRepo,
		db:          db,
		baseURL:     baseURL,
	}
}

// CreateVendor validates the request, mints a survey-scoped slug and a
// fresh UUID, and derives the four callback URLs from the base redirect
// URL
func (s *VendorFlowImpl) CreateVendor(ctx context.Context, req *dto.CreateVendorRequest, metadata *ClientMetadata) (*dto.VendorDTO, error) {
	if req.Name == "" {
		return nil, ErrVendorNameRequired
	}
	if req.BaseRedirectURL == "" {
		return nil, ErrVendorURLRequired
	}
	if err := urlbuilder.Validate(req.BaseRedirectURL); err != nil {
		return nil, ErrVendorURLInvalid
	}

	survey, err := s.surveyRepo.BySlug(ctx, req.SurveySlug)
	if err != nil {
		return nil, NewBusinessError("SURVEY_LOOKUP_FAILED", "Failed to look up survey", err)
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}

	slug, err := GenerateVendorSlug(ctx, s.vendorRepo, survey.ID, req.Name)
	if err != nil {
		return nil, NewBusinessError("SLUG_GENERATION_FAILED", "Failed to generate vendor slug", err)
	}

	vendor := &models.Vendor{
		SurveyID:             survey.ID,
		Name:                 req.Name,
		Slug:                 slug,
		UUID:                 uuid.New(),
		EntryParameter:       utils.DefaultEntryParameter,
		ParameterPlaceholder: utils.DefaultParameterPlaceholder,
		BaseRedirectURL:      req.BaseRedirectURL,
		IsActive:             utils.ToPtr(true),
	}
	if req.EntryParameter != nil && *req.EntryParameter != "" {
		vendor.EntryParameter = *req.EntryParameter
	}
	if req.ParameterPlaceholder != nil && *req.ParameterPlaceholder != "" {
		vendor.ParameterPlaceholder = *req.ParameterPlaceholder
	}
	vendor.RebuildCallbackURLs()

	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, NewBusinessError("VENDOR_CREATE_FAILED", "Failed to create vendor", err)
	}

	return s.toVendorDTO(vendor, survey), nil
}

// GetVendor retrieves a vendor by its survey-scoped slug
func (s *VendorFlowImpl) GetVendor(ctx context.Context, surveySlug, vendorSlug string) (*dto.VendorDTO, error) {
	survey, vendor, err := s.lookup(ctx, surveySlug, vendorSlug)
	if err != nil {
		return nil, err
	}
	return s.toVendorDTO(vendor, survey), nil
}

// ListVendors retrieves all vendors of a survey
func (s *VendorFlowImpl) ListVendors(ctx context.Context, surveySlug string) (*dto.ListVendorsResponse, error) {
	survey, err := s.surveyRepo.BySlug(ctx, surveySlug)
	if err != nil {
		return nil, NewBusinessError("SURVEY_LOOKUP_FAILED", "Failed to look up survey", err)
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}

	vendors, err := s.vendorRepo.ListBySurvey(ctx, survey.ID)
	if err != nil {
		return nil, NewBusinessError("VENDOR_LIST_FAILED", "Failed to list vendors", err)
	}

	out := make([]dto.VendorDTO, 0, len(vendors))
	for _, vendor := range vendors {
		out = append(out, *s.toVendorDTO(vendor, survey))
	}

	return &dto.ListVendorsResponse{Vendors: out}, nil
}

// UpdateVendor applies partial changes to a vendor. Any change touching
// the base URL, entry parameter, or placeholder re-derives all callback
// URLs.
func (s *VendorFlowImpl) UpdateVendor(ctx context.Context, req *dto.UpdateVendorRequest, metadata *ClientMetadata) (*dto.VendorDTO, error) {
	survey, vendor, err := s.lookup(ctx, req.SurveySlug, req.VendorSlug)
	if err != nil {
		return nil, err
	}

	rebuild := false
	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrVendorNameRequired
		}
		vendor.Name = *req.Name
	}
	if req.BaseRedirectURL != nil {
		if err := urlbuilder.Validate(*req.BaseRedirectURL); err != nil {
			return nil, ErrVendorURLInvalid
		}
		vendor.BaseRedirectURL = *req.BaseRedirectURL
		rebuild = true
	}
	if req.EntryParameter != nil && *req.EntryParameter != "" {
		vendor.EntryParameter = *req.EntryParameter
		rebuild = true
	}
	if req.ParameterPlaceholder != nil && *req.ParameterPlaceholder != "" {
		vendor.ParameterPlaceholder = *req.ParameterPlaceholder
		rebuild = true
	}
	if req.IsActive != nil {
		vendor.IsActive = req.IsActive
	}
	if rebuild {
		vendor.RebuildCallbackURLs()
	}
	vendor.UpdatedAt = utils.UTCNow()

	if err := s.vendorRepo.Update(ctx, vendor); err != nil {
		return nil, NewBusinessError("VENDOR_UPDATE_FAILED", "Failed to update vendor", err)
	}

	return s.toVendorDTO(vendor, survey), nil
}

// DeleteVendor removes a vendor together with its sessions in one
// transaction
func (s *VendorFlowImpl) DeleteVendor(ctx context.Context, surveySlug, vendorSlug string, metadata *ClientMetadata) error {
	_, vendor, err := s.lookup(ctx, surveySlug, vendorSlug)
	if err != nil {
		return err
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.sessionRepo.DeleteByVendor(txCtx, vendor.ID); err != nil {
			return err
		}
		return s.vendorRepo.Delete(txCtx, vendor.ID)
	})
	if err != nil {
		return NewBusinessError("VENDOR_DELETE_FAILED", "Failed to delete vendor", err)
	}

	return nil
}

func (s *VendorFlowImpl) lookup(ctx context.Context, surveySlug, vendorSlug string) (*models.Survey, *models.Vendor, error) {
	survey, err := s.surveyRepo.BySlug(ctx, surveySlug)
	if err != nil {
		return nil, nil, NewBusinessError("SURVEY_LOOKUP_FAILED", "Failed to look up survey", err)
	}
	if survey == nil {
		return nil, nil, ErrSurveyNotFound
	}

	vendor, err := s.vendorRepo.BySurveyAndSlug(ctx, survey.ID, vendorSlug)
	if err != nil {
		return nil, nil, NewBusinessError("VENDOR_LOOKUP_FAILED", "Failed to look up vendor", err)
	}
	if vendor == nil {
		return nil, nil, ErrVendorNotFound
	}

	return survey, vendor, nil
}

func (s *VendorFlowImpl) toVendorDTO(vendor *models.Vendor, survey *models.Survey) *dto.VendorDTO {
	return &dto.VendorDTO{
		ID:         vendor.ID,
		SurveySlug: survey.Slug,
		Name:       vendor.Name,
		Slug:       vendor.Slug,
		UUID:       vendor.UUID.String(),
		IsActive:   utils.IsTrue(vendor.IsActive),

		EntryParameter:       vendor.EntryParameter,
		ParameterPlaceholder: vendor.ParameterPlaceholder,

		BaseRedirectURL: vendor.BaseRedirectURL,
		CompleteURL:     vendor.CompleteURL,
		TerminateURL:    vendor.TerminateURL,
		QuotaFullURL:    vendor.QuotaFullURL,
		SecurityTermURL: vendor.SecurityTermURL,

		EntryURL:       fmt.Sprintf("%s/r/%s/%s", s.baseURL, survey.Slug, vendor.Slug),
		LegacyEntryURL: fmt.Sprintf("%s/v/%s", s.baseURL, vendor.UUID.String()),

		TotalSessions:      vendor.TotalSessions,
		CompletedSessions:  vendor.CompletedSessions,
		QuotaFullSessions:  vendor.QuotaFullSessions,
		TerminatedSessions: vendor.TerminatedSessions,

		CreatedAt: vendor.CreatedAt.Format(time.RFC3339),
		UpdatedAt: vendor.UpdatedAt.Format(time.RFC3339),
	}
}
