// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/panelbridge/panelbridge/app/dto"
	businessflow "github.com/panelbridge/panelbridge/business_flow"
	"github.com/panelbridge/panelbridge/utils"
)

// SurveyHandlerInterface defines the contract for survey management handlers
type SurveyHandlerInterface interface {
	CreateSurvey(c fiber.Ctx) error
	GetSurvey(c fiber.Ctx) error
	ListSurveys(c fiber.Ctx) error
	UpdateSurvey(c fiber.Ctx) error
	DeleteSurvey(c fiber.Ctx) error
}

// SurveyHandler handles survey-related HTTP requests
type SurveyHandler struct {
	surveyFlow businessflow.SurveyFlow
	validator  *validator.Validate
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(surveyFlow businessflow.SurveyFlow) SurveyHandlerInterface {
	return &SurveyHandler{
		surveyFlow: surveyFlow,
		validator:  validator.New(),
	}
}

func (h *SurveyHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *SurveyHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateSurvey handles POST /api/v1/surveys
func (h *SurveyHandler) CreateSurvey(c fiber.Ctx) error {
	var req dto.CreateSurveyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := h.createRequestContext(c, "/api/v1/surveys")
	defer cancel()

	result, err := h.surveyFlow.CreateSurvey(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsSurveyURLInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Client URL is invalid", "SURVEY_URL_INVALID", nil)
		}
		log.Println("Survey creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Survey creation failed", "SURVEY_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Survey created successfully", result)
}

// GetSurvey handles GET /api/v1/surveys/:surveySlug
func (h *SurveyHandler) GetSurvey(c fiber.Ctx) error {
	slug := c.Params("surveySlug")

	ctx, cancel := h.createRequestContext(c, "/api/v1/surveys/"+slug)
	defer cancel()

	result, err := h.surveyFlow.GetSurvey(ctx, slug)
	if err != nil {
		if businessflow.IsSurveyNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Survey not found", "SURVEY_NOT_FOUND", nil)
		}
		log.Println("Survey lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Survey lookup failed", "SURVEY_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Survey retrieved successfully", result)
}

// ListSurveys handles GET /api/v1/surveys
func (h *SurveyHandler) ListSurveys(c fiber.Ctx) error {
	req := dto.ListSurveysRequest{}
	if page, err := strconv.Atoi(c.Query("page", "1")); err == nil {
		req.Page = page
	}
	if pageSize, err := strconv.Atoi(c.Query("page_size", "20")); err == nil {
		req.PageSize = pageSize
	}
	if isActive := c.Query("is_active"); isActive != "" {
		req.IsActive = utils.ToPtr(isActive == "true")
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/surveys")
	defer cancel()

	result, err := h.surveyFlow.ListSurveys(ctx, &req)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}
		log.Println("Survey listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Survey listing failed", "SURVEY_LISTING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Surveys retrieved successfully", result)
}

// UpdateSurvey handles PUT /api/v1/surveys/:surveySlug
func (h *SurveyHandler) UpdateSurvey(c fiber.Ctx) error {
	var req dto.UpdateSurveyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.Slug = c.Params("surveySlug")

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := h.createRequestContext(c, "/api/v1/surveys/"+req.Slug)
	defer cancel()

	result, err := h.surveyFlow.UpdateSurvey(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsSurveyNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Survey not found", "SURVEY_NOT_FOUND", nil)
		}
		if businessflow.IsSurveyURLInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Client URL is invalid", "SURVEY_URL_INVALID", nil)
		}
		log.Println("Survey update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Survey update failed", "SURVEY_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Survey updated successfully", result)
}

// DeleteSurvey handles DELETE /api/v1/surveys/:surveySlug
func (h *SurveyHandler) DeleteSurvey(c fiber.Ctx) error {
	slug := c.Params("surveySlug")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := h.createRequestContext(c, "/api/v1/surveys/"+slug)
	defer cancel()

	err := h.surveyFlow.DeleteSurvey(ctx, slug, metadata)
	if err != nil {
		if businessflow.IsSurveyNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Survey not found", "SURVEY_NOT_FOUND", nil)
		}
		log.Println("Survey deletion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Survey deletion failed", "SURVEY_DELETION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Survey deleted successfully", nil)
}

func (h *SurveyHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	return h.createRequestContextWithTimeout(c, endpoint, 10*time.Second)
}

func (h *SurveyHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	return ctx, cancel
}
